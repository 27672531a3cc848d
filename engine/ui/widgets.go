package ui

import (
	"unicode/utf8"

	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/text"
)

const defaultFontSize = 16

// ===== Label =====

type LabelProps struct {
	ID       int
	Text     string
	FontSize float32
	Color    colors.Color
	Sizing   Sizing
	// WrapWidth breaks the text on spaces to fit; zero disables wrapping.
	WrapWidth float32
}

func (ctx *Ctx) Label(p LabelProps) {
	size := fontSize(p.FontSize)
	str := p.Text
	if p.WrapWidth > 0 && ctx.font != nil {
		str = text.WrapText(ctx.font, str, size, p.WrapWidth)
	}
	w, h := ctx.measure(str, size)
	w, h = p.Sizing.apply(w, h)

	if p.Color == colors.Transparent {
		p.Color = colors.White
	}

	iCmd := ctx.emit(cmd{
		kind:     cmdLabel,
		id:       p.ID,
		text:     str,
		fontSize: size,
		color:    p.Color.RGBA8(),
	})
	ctx.place(iCmd, w, h)
}

// ===== Button =====

type ButtonProps struct {
	ID       int
	Text     string
	FontSize float32
	TextCol  colors.Color
	Bg       colors.Color
	Padding  Insets4
	// Sizing modes: Fit (by default), Px, or Expand
	Sizing *Sizing
}

// Button reports whether the button was clicked: pressed and released over
// it. Hit testing uses where the button was placed last frame.
func (ctx *Ctx) Button(p ButtonProps) (clicked bool) {
	size := fontSize(p.FontSize)
	tw, th := ctx.measure(p.Text, size)
	w := tw + p.Padding.L + p.Padding.R
	h := th + p.Padding.T + p.Padding.B

	sz := Fit()
	if p.Sizing != nil {
		sz = *p.Sizing
	}
	w, h = sz.apply(w, h)

	if p.TextCol == colors.Transparent {
		p.TextCol = colors.White
	}

	iCmd := ctx.emit(cmd{
		kind:     cmdButton,
		id:       p.ID,
		text:     p.Text,
		fontSize: size,
		color:    p.TextCol.RGBA8(),
		bg:       p.Bg.RGBA8(),
		padding:  p.Padding,
	})
	ctx.place(iCmd, w, h)

	st := ctx.state[p.ID]
	return ctx.I.MouseReleased && st.active && st.rect.Contains(ctx.mouse())
}

// ===== Image =====

type ImageProps struct {
	ID      int
	Texture imui.TextureID
	W, H    float32
	// UV defaults to the whole texture.
	UV   *imui.Rect
	Tint colors.Color
}

func (ctx *Ctx) Image(p ImageProps) {
	uv := imui.Rect{Max: imui.P(1, 1)}
	if p.UV != nil {
		uv = *p.UV
	}
	if p.Tint == colors.Transparent {
		p.Tint = colors.White
	}
	iCmd := ctx.emit(cmd{
		kind:  cmdImage,
		id:    p.ID,
		tex:   p.Texture,
		uv:    uv,
		color: p.Tint.RGBA8(),
	})
	ctx.place(iCmd, p.W, p.H)
}

// ===== Text field =====

type TextFieldProps struct {
	ID       int
	FontSize float32
	Width    float32
	TextCol  colors.Color
	Bg       colors.Color
	Padding  Insets4
}

// TextField edits *value while focused. Clicking it takes focus, clicking
// elsewhere or pressing Enter or Escape drops it. It reports whether *value
// changed this frame.
func (ctx *Ctx) TextField(p TextFieldProps, value *string) (changed bool) {
	size := fontSize(p.FontSize)
	st := ctx.state[p.ID]
	if ctx.I.MousePressed {
		if st.rect.Contains(ctx.mouse()) {
			ctx.focus = p.ID
		} else if ctx.focus == p.ID {
			ctx.focus = 0
		}
	}

	focused := ctx.focus == p.ID
	if focused {
		if ctx.I.Text != "" {
			*value += ctx.I.Text
			changed = true
		}
		for _, k := range ctx.I.Keys {
			switch k {
			case imui.KeyBackspace:
				if _, n := utf8.DecodeLastRuneInString(*value); n > 0 {
					*value = (*value)[:len(*value)-n]
					changed = true
				}
			case imui.KeyEnter, imui.KeyEscape:
				ctx.focus = 0
			}
		}
	}

	_, th := ctx.measure("Ag", size)
	w := p.Width + p.Padding.L + p.Padding.R
	h := th + p.Padding.T + p.Padding.B

	if p.TextCol == colors.Transparent {
		p.TextCol = colors.White
	}
	str := *value
	if ctx.focus == p.ID {
		str += "|"
	}
	iCmd := ctx.emit(cmd{
		kind:     cmdTextField,
		id:       p.ID,
		text:     str,
		fontSize: size,
		color:    p.TextCol.RGBA8(),
		bg:       p.Bg.RGBA8(),
		padding:  p.Padding,
	})
	ctx.place(iCmd, w, h)
	return changed
}

// Focused is the id of the text field holding keyboard focus, or 0.
func (ctx *Ctx) Focused() int { return ctx.focus }

// ===== Custom painting =====

// Custom reserves a w by h box painted by the backend through callback. The
// callback payload is passed through untouched; the painter decides which
// payload types it understands.
func (ctx *Ctx) Custom(id int, w, h float32, callback any) {
	iCmd := ctx.emit(cmd{kind: cmdCustom, id: id, callback: callback})
	ctx.place(iCmd, w, h)
}

// ===== Free placement =====

// Rect fills r with color. Outside a view it is placed as given.
func (ctx *Ctx) Rect(r imui.Rect, color colors.Color) {
	c := cmd{kind: cmdBgQuad, bg: color.RGBA8()}
	c.x, c.y, c.w, c.h = r.Min.X, r.Min.Y, r.Width(), r.Height()
	ctx.emit(c)
}

// Text draws s with its top-left corner at pos.
func (ctx *Ctx) Text(pos imui.Pos2, s string, size float32, color colors.Color) {
	size = fontSize(size)
	w, h := ctx.measure(s, size)
	c := cmd{kind: cmdLabel, text: s, fontSize: size, color: color.RGBA8()}
	c.x, c.y, c.w, c.h = pos.X, pos.Y, w, h
	ctx.emit(c)
}

// ===== Internal: record =====

func (ctx *Ctx) emit(c cmd) int {
	if len(ctx.cmds) == cap(ctx.cmds) {
		ctx.log.Warn("ui command capacity reached", "cap", cap(ctx.cmds))
		return -1
	}
	c.clip = ctx.clip()
	ctx.cmds = append(ctx.cmds, c)
	return len(ctx.cmds) - 1
}

// place sizes a recorded widget and queues it for its view's layout.
func (ctx *Ctx) place(iCmd int, w, h float32) {
	if iCmd < 0 {
		return
	}
	c := &ctx.cmds[iCmd]
	c.w, c.h = w, h
	ctx.addItem(item{iCmd: iCmd, w: w, h: h})
}

func (ctx *Ctx) measure(s string, size float32) (float32, float32) {
	if ctx.font == nil || s == "" {
		return 0, 0
	}
	return text.MeasureText(ctx.font, s, size)
}

func (ctx *Ctx) mouse() imui.Pos2 { return imui.P(ctx.I.MouseX, ctx.I.MouseY) }

func (s Sizing) apply(w, h float32) (float32, float32) {
	if s.WMode == SizeFixed {
		w = s.WVal
	}
	if s.HMode == SizeFixed {
		h = s.HVal
	}
	return w, h
}

func fontSize(s float32) float32 {
	if s <= 0 {
		return defaultFontSize
	}
	return s
}
