package ui

import (
	"fmt"

	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/text"
)

// Shapes are what EndFrame hands out inside imui.ClippedShape; Tessellate
// turns them into meshes. A PaintCallback is passed through as is.

type RectShape struct {
	Rect imui.Rect
	Fill imui.Color32
}

type TextShape struct {
	Pos   imui.Pos2 // top-left
	Text  string
	Size  float32
	Color imui.Color32
}

type ImageShape struct {
	Rect    imui.Rect
	Texture imui.TextureID
	UV      imui.Rect
	Tint    imui.Color32
}

// ===== Internal: resolve =====

type clipScope struct {
	end  int // first cmd index past the scope
	rect imui.Rect
}

// flush resolves the recorded commands in order: hit testing first, then
// shapes.
func (ctx *Ctx) flush() []imui.ClippedShape {
	shapes := make([]imui.ClippedShape, 0, len(ctx.cmds)*2)
	var scopes []clipScope
	for i := range ctx.cmds {
		for len(scopes) > 0 && i >= scopes[len(scopes)-1].end {
			scopes = scopes[:len(scopes)-1]
		}
		c := &ctx.cmds[i]
		clip := c.clip
		for _, s := range scopes {
			clip = clip.Intersect(s.rect)
		}
		if c.kind == cmdView && c.clips {
			scopes = append(scopes, clipScope{end: i + 1 + c.span, rect: c.rect()})
		}
		shapes = ctx.resolveWidget(shapes, c, clip)
	}
	return shapes
}

func (ctx *Ctx) resolveWidget(out []imui.ClippedShape, c *cmd, clip imui.Rect) []imui.ClippedShape {
	add := func(shape any) {
		out = append(out, imui.ClippedShape{ClipRect: clip, Shape: shape})
	}
	switch c.kind {
	case cmdBgQuad, cmdView:
		if c.bg[3] > 0 {
			add(RectShape{Rect: c.rect(), Fill: c.bg})
		}
	case cmdLabel:
		if c.text != "" && c.color[3] > 0 {
			add(TextShape{Pos: imui.P(c.x, c.y), Text: c.text, Size: c.fontSize, Color: c.color})
		}
	case cmdButton:
		st := ctx.resolveButton(c)
		bg := c.bg
		if st.active {
			bg = shade(bg, 0.85)
		} else if st.hot {
			bg = shade(bg, 1.15)
		}
		if bg[3] > 0 {
			add(RectShape{Rect: c.rect(), Fill: bg})
		}
		// draw label centered inside
		tw, th := ctx.measure(c.text, c.fontSize)
		add(TextShape{
			Pos:   imui.P(c.x+(c.w-tw)*0.5, c.y+(c.h-th)*0.5),
			Text:  c.text,
			Size:  c.fontSize,
			Color: c.color,
		})
	case cmdTextField:
		ctx.state[c.id] = widgetState{rect: c.rect()}
		if c.bg[3] > 0 {
			add(RectShape{Rect: c.rect(), Fill: c.bg})
		}
		if c.text != "" {
			add(TextShape{Pos: imui.P(c.x+c.padding.L, c.y+c.padding.T), Text: c.text, Size: c.fontSize, Color: c.color})
		}
	case cmdImage:
		add(ImageShape{Rect: c.rect(), Texture: c.tex, UV: c.uv, Tint: c.color})
	case cmdCustom:
		add(imui.PaintCallback{Rect: c.rect(), Callback: c.callback})
	}
	return out
}

func (ctx *Ctx) resolveButton(c *cmd) widgetState {
	rect := c.rect()
	hot := rect.Contains(ctx.mouse())
	st := ctx.state[c.id]

	// active = mouse down started inside
	if ctx.I.MousePressed && hot {
		st.active = true
	}
	if ctx.I.MouseReleased {
		st.active = false
	}
	st.hot = hot
	st.rect = rect
	ctx.state[c.id] = st
	return st
}

func shade(c imui.Color32, f float32) imui.Color32 {
	for i := 0; i < 3; i++ {
		v := float32(c[i]) * f
		if v > 255 {
			v = 255
		}
		c[i] = uint8(v)
	}
	return c
}

// Tessellate turns shapes into primitives in order. Consecutive shapes with
// the same texture and clip rect share one mesh. Positions are scaled from
// points to pixels.
func (ctx *Ctx) Tessellate(shapes []imui.ClippedShape) []imui.ClippedPrimitive {
	var (
		out     []imui.ClippedPrimitive
		cur     *imui.Mesh
		curClip imui.Rect
	)
	meshFor := func(clip imui.Rect, tex imui.TextureID) *imui.Mesh {
		if cur != nil && cur.Texture == tex && curClip == clip {
			return cur
		}
		cur, curClip = imui.NewMesh(tex), clip
		out = append(out, imui.ClippedPrimitive{ClipRect: clip, Primitive: cur})
		return cur
	}

	ppp := ctx.ppp
	for _, s := range shapes {
		clip := scaleRect(s.ClipRect, ppp)
		switch sh := s.Shape.(type) {
		case RectShape:
			if ctx.font == nil {
				continue
			}
			white := imui.Rect{Min: ctx.font.WhiteUV, Max: ctx.font.WhiteUV}
			meshFor(clip, FontTexture).AddRectWithUV(scaleRect(sh.Rect, ppp), white, sh.Fill)
		case TextShape:
			if ctx.font == nil {
				continue
			}
			text.AppendText(meshFor(clip, FontTexture), ctx.font, sh.Pos.X*ppp, sh.Pos.Y*ppp, sh.Text, sh.Size*ppp, sh.Color)
		case ImageShape:
			meshFor(clip, sh.Texture).AddRectWithUV(scaleRect(sh.Rect, ppp), sh.UV, sh.Tint)
		case imui.PaintCallback:
			// Callbacks get their rects in points; PaintCallbackInfo converts.
			cur = nil
			out = append(out, imui.ClippedPrimitive{ClipRect: s.ClipRect, Primitive: sh})
		default:
			ctx.log.Warn("ui cannot tessellate shape", "type", fmt.Sprintf("%T", s.Shape))
		}
	}
	return out
}

func scaleRect(r imui.Rect, s float32) imui.Rect {
	if s == 1 {
		return r
	}
	return imui.Rect{Min: imui.P(r.Min.X*s, r.Min.Y*s), Max: imui.P(r.Max.X*s, r.Max.Y*s)}
}
