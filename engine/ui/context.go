// Package ui is a small immediate-mode UI library. A frame records widgets
// between BeginFrame and EndFrame and comes out as clipped shapes plus the
// texture work needed to paint them.
package ui

import (
	"log/slog"

	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/text"
)

// FontTexture is the managed id of the glyph atlas. Untextured shapes sample
// its white texel.
var FontTexture = imui.Managed(0)

// Input is the pointer and keyboard state of the current frame, in points.
type Input struct {
	MouseX, MouseY float32
	MouseDown      bool
	MousePressed   bool
	MouseReleased  bool
	Text           string
	Keys           []imui.Key // pressed this frame, in order
	Scroll         imui.Vec2
	Modifiers      imui.Modifiers
}

func (in *Input) KeyPressed(k imui.Key) bool {
	for _, key := range in.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// ===== Immediate-UI context =====

type Ctx struct {
	I Input

	font     *text.Font
	fontSent bool
	tex      *TextureManager
	log      *slog.Logger
	ppp      float32
	screen   imui.Rect
	inFrame  bool

	// Fixed-capacity stacks & buffers reused every frame
	viewStack []viewScope // layout scopes
	cmds      []cmd       // drawing + hit-test commands (deferred)
	items     []item      // transient per-view child list (reused)
	clipStack []imui.Rect

	// Stable widget state (hot/active), keyed by widget id
	state map[int]widgetState
	focus int

	capViews int
	capCmds  int
	capItems int
}

type Option func(*Ctx)

// WithCapacity sets the per-frame limits. Widgets past a limit are dropped.
func WithCapacity(views, cmds, items int) Option {
	return func(c *Ctx) { c.capViews, c.capCmds, c.capItems = views, cmds, items }
}

// WithPixelsPerPoint sets the UI scale; 1 means one point per pixel.
func WithPixelsPerPoint(ppp float32) Option {
	return func(c *Ctx) {
		if ppp > 0 {
			c.ppp = ppp
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Ctx) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a context drawing text with font.
func New(font *text.Font, opts ...Option) *Ctx {
	ctx := &Ctx{
		font:     font,
		log:      slog.Default(),
		ppp:      1,
		state:    make(map[int]widgetState, 256),
		capViews: 32,
		capCmds:  1024,
		capItems: 1024,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.tex = newTextureManager()
	ctx.viewStack = make([]viewScope, 0, ctx.capViews)
	ctx.cmds = make([]cmd, 0, ctx.capCmds)
	ctx.items = make([]item, 0, ctx.capItems)
	return ctx
}

func (ctx *Ctx) Font() *text.Font { return ctx.font }

// Screen is the area available to the UI, in points.
func (ctx *Ctx) Screen() imui.Rect { return ctx.screen }

func (ctx *Ctx) PixelsPerPoint() float32 { return ctx.ppp }

func (ctx *Ctx) TexManager() imui.TextureAllocator { return ctx.tex }

// Textures is the concrete texture manager, which also supports partial
// updates.
func (ctx *Ctx) Textures() *TextureManager { return ctx.tex }

// BeginFrame resets the per-frame buffers and applies in.
func (ctx *Ctx) BeginFrame(in imui.RawInput) {
	if ctx.inFrame {
		ctx.log.Warn("ui BeginFrame called twice without EndFrame")
	}
	ctx.inFrame = true
	ctx.cmds = ctx.cmds[:0]
	ctx.viewStack = ctx.viewStack[:0]
	ctx.items = ctx.items[:0]
	ctx.clipStack = ctx.clipStack[:0]

	if in.ScreenRect != nil {
		ctx.screen = ctx.toPoints(*in.ScreenRect)
	}
	ctx.applyInput(in)
}

func (ctx *Ctx) applyInput(in imui.RawInput) {
	i := &ctx.I
	i.MousePressed, i.MouseReleased = false, false
	i.Text = ""
	i.Keys = i.Keys[:0]
	i.Scroll = imui.Vec2{}
	i.Modifiers = in.Modifiers

	inv := 1 / ctx.ppp
	for _, ev := range in.Events {
		switch e := ev.(type) {
		case imui.EventPointerMoved:
			i.MouseX, i.MouseY = e.Pos.X*inv, e.Pos.Y*inv
		case imui.EventPointerButton:
			i.MouseX, i.MouseY = e.Pos.X*inv, e.Pos.Y*inv
			if e.Button != imui.PointerPrimary {
				continue
			}
			if e.Pressed {
				i.MousePressed = !i.MouseDown
				i.MouseDown = true
			} else {
				i.MouseReleased = i.MouseDown
				i.MouseDown = false
			}
		case imui.EventText:
			i.Text += e.Text
		case imui.EventKey:
			if e.Pressed {
				i.Keys = append(i.Keys, e.Key)
			}
		case imui.EventScroll:
			i.Scroll.X += e.Delta.X
			i.Scroll.Y += e.Delta.Y
		}
	}
}

// EndFrame resolves the recorded widgets into shapes. The first frame also
// uploads the font atlas.
func (ctx *Ctx) EndFrame() imui.FullOutput {
	if !ctx.inFrame {
		ctx.log.Warn("ui EndFrame without BeginFrame")
	}
	ctx.inFrame = false
	for len(ctx.viewStack) > 0 {
		ctx.log.Warn("ui view left open at end of frame", "id", ctx.viewStack[len(ctx.viewStack)-1].props.ID)
		ctx.EndView()
	}
	if len(ctx.clipStack) > 0 {
		ctx.log.Warn("ui clip left pushed at end of frame", "depth", len(ctx.clipStack))
	}

	shapes := ctx.flush()

	var delta imui.TexturesDelta
	if !ctx.fontSent && ctx.font != nil {
		delta.Set = append(delta.Set, imui.TextureSet{
			ID:    FontTexture,
			Delta: imui.FullDelta(ctx.font.Image, imui.TextureLinear),
		})
		ctx.fontSent = true
	}
	delta.Append(ctx.tex.take())
	return imui.FullOutput{Shapes: shapes, TexturesDelta: delta}
}

// PushClip narrows the clip rect of the widgets that follow to r.
func (ctx *Ctx) PushClip(r imui.Rect) {
	ctx.clipStack = append(ctx.clipStack, ctx.clip().Intersect(r))
}

func (ctx *Ctx) PopClip() {
	if len(ctx.clipStack) == 0 {
		ctx.log.Warn("ui PopClip without PushClip")
		return
	}
	ctx.clipStack = ctx.clipStack[:len(ctx.clipStack)-1]
}

func (ctx *Ctx) clip() imui.Rect {
	if n := len(ctx.clipStack); n > 0 {
		return ctx.clipStack[n-1]
	}
	if ctx.screen.IsEmpty() {
		// No screen size reported yet.
		return imui.Everything
	}
	return ctx.screen
}

func (ctx *Ctx) toPoints(r imui.Rect) imui.Rect {
	inv := 1 / ctx.ppp
	return imui.Rect{
		Min: imui.P(r.Min.X*inv, r.Min.Y*inv),
		Max: imui.P(r.Max.X*inv, r.Max.Y*inv),
	}
}
