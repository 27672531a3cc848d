package text

import (
	"strings"

	"github.com/hubastard/grovegui/engine/imui"
)

// AppendText lays s out with its top-left corner at (x,y), y growing downward,
// and appends one quad per glyph to mesh. size is the font size in points;
// the atlas is scaled to it. It returns the pen position after the last glyph.
func AppendText(mesh *imui.Mesh, font *Font, x, y float32, s string, size float32, color imui.Color32) (penX, penY float32) {
	scale := font.scale(size)
	penX = x
	baseY := y + font.Ascent*scale // move origin to top left
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += LineHeight(font) * scale
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			if sp, ok2 := font.Glyphs[' ']; ok2 {
				penX += sp.Advance * scale
			}
			prev = r
			continue
		}

		if prev >= 0 {
			penX += font.Kerning[[2]rune{prev, r}] * scale
		}

		if g.W > 0 && g.H > 0 {
			// top = baseline - BearingY
			left := penX + g.BearingX*scale
			top := baseY - g.BearingY*scale
			rect := imui.RectFromMinSize(imui.P(left, top), imui.V(float32(g.W)*scale, float32(g.H)*scale))
			uv := imui.RectFromCorners(imui.P(g.U0, g.V0), imui.P(g.U1, g.V1))
			mesh.AddRectWithUV(rect, uv, color)
		}

		penX += g.Advance * scale
		prev = r
	}
	return penX, baseY - font.Ascent*scale
}

func MeasureText(font *Font, s string, size float32) (width, height float32) {
	var lineW float32
	var prev rune = -1
	lineH := LineHeight(font)
	height = lineH

	for _, r := range s {
		if r == '\n' {
			if lineW > width {
				width = lineW
			}
			lineW = 0
			height += lineH
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			if sp, ok2 := font.Glyphs[' ']; ok2 {
				lineW += sp.Advance
			}
			prev = r
			continue
		}

		if prev >= 0 {
			lineW += font.Kerning[[2]rune{prev, r}]
		}

		lineW += g.Advance
		prev = r
	}

	if lineW > width {
		width = lineW
	}
	scale := font.scale(size)
	return width * scale, height * scale
}

// WrapText breaks s on spaces so that no line is wider than maxWidth, unless
// a single word already is. Existing newlines are kept.
func WrapText(font *Font, s string, size, maxWidth float32) string {
	if maxWidth <= 0 {
		return s
	}
	spaceWidth, _ := MeasureText(font, " ", size)

	var wrapped []string
	for _, raw := range strings.Split(s, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			wrapped = append(wrapped, "")
			continue
		}

		current := words[0]
		currentWidth, _ := MeasureText(font, current, size)
		for _, word := range words[1:] {
			wordWidth, _ := MeasureText(font, word, size)
			if currentWidth+spaceWidth+wordWidth > maxWidth {
				wrapped = append(wrapped, current)
				current = word
				currentWidth = wordWidth
			} else {
				current += " " + word
				currentWidth += spaceWidth + wordWidth
			}
		}
		wrapped = append(wrapped, current)
	}
	return strings.Join(wrapped, "\n")
}

func (f *Font) scale(size float32) float32 {
	if size <= 0 || f.SizePx <= 0 {
		return 1
	}
	return size / f.SizePx
}

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(font *Font) float32    { return font.Ascent }
func BaselineToBottom(font *Font) float32 { return -font.Descent }
func LineHeight(font *Font) float32       { return font.Ascent - font.Descent + font.LineGap }
