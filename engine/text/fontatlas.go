package text

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/hubastard/grovegui/engine/imui"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // top bearing in pixels (distance from baseline to glyph top)
	W, H     int     // glyph bitmap size
	U0, V0   float32 // UVs in atlas, top-left origin
	U1, V1   float32
}

// Font is a rasterized glyph atlas. The atlas is handed to the UI library as a
// coverage-only image; uploading it is the painter's job.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kerning                  map[[2]rune]float32
	Image                    *imui.FontImage
	// WhiteUV samples a fully covered texel, for untextured shapes.
	WhiteUV imui.Pos2
	AtlasW  int
	AtlasH  int
}

// LoadDefault rasterizes Go Regular at sizePx.
func LoadDefault(sizePx float32) (*Font, error) {
	return LoadTTF(goregular.TTF, sizePx)
}

// LoadTTF builds a coverage glyph atlas for Latin-1 from TrueType/OpenType data.
func LoadTTF(ttfData []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	// Metrics in pixels
	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	var measure []meas
	for r := rune(32); r <= rune(255); r++ {
		br, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r: r,
			w: (br.Max.X - br.Min.X).Ceil(), h: (br.Max.Y - br.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Floor()),
			by:  float32(-br.Min.Y.Floor()), // distance from baseline to top
		})
	}

	// Simple shelf packer (rows). Grow until everything fits. The top-left
	// cell is reserved for the white texel block.
	const padding = 2
	const whiteSize = 2
	atlasSize := 128
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding*2+whiteSize, padding, whiteSize
		fits := true
		pos = make(map[rune]image.Point, len(measure))

		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if g.w+padding*2 > atlasSize || g.h+padding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			if g.h > rowH {
				rowH = g.h
			}
		}

		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > 4096 {
			return nil, fmt.Errorf("font atlas too large (>%d)", 4096)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(dst, image.Rect(padding, padding, padding+whiteSize, padding+whiteSize), image.Opaque, image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}
	inv := 1 / float32(atlasSize)
	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gl := Glyph{
			Rune: g.r, Advance: g.adv,
			BearingX: g.bx, BearingY: g.by,
			W: g.w, H: g.h,
		}
		if p, ok := pos[g.r]; ok {
			// Drawer expects a dot at the baseline; shift left by bearingX.
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
			gl.U0, gl.V0 = float32(p.X)*inv, float32(p.Y)*inv
			gl.U1, gl.V1 = float32(p.X+g.w)*inv, float32(p.Y+g.h)*inv
		}
		glyphs[g.r] = gl
	}

	kerning := make(map[[2]rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kerning[[2]rune{a.r, b.r}] = float32(dx.Round())
			}
		}
	}

	img := imui.NewFontImage(atlasSize, atlasSize)
	for i, a := range dst.Pix {
		img.Pixels[i] = float32(a) / 255
	}

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Kerning: kerning,
		Image:   img,
		WhiteUV: imui.Pos2{X: (padding + whiteSize*0.5) * inv, Y: (padding + whiteSize*0.5) * inv},
		AtlasW:  atlasSize, AtlasH: atlasSize,
	}, nil
}
