// Package bridge connects an immediate-mode UI library (engine/imui) to the
// engine's GPU backend and host window events.
//
// A frame is driven from the render thread:
//
//	b.Begin()
//	// ... build the UI with b.Context() ...
//	b.End()
//	b.Draw(renderer.Framebuffer())
//
// Host events may arrive at any point through HandleEvent; they are queued
// for the next Begin.
package bridge

import (
	"errors"
	"log/slog"

	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

// KeyQuery reports live key state, used for modifier snapshots.
type KeyQuery interface {
	IsKeyPressed(k core.Key) bool
}

// FrameState is where the bridge is in the begin/end/draw sequence.
type FrameState int

const (
	StateIdle FrameState = iota
	StateInputGathered
	StateFrameOpen
	StateShapesReady
)

func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInputGathered:
		return "input-gathered"
	case StateFrameOpen:
		return "frame-open"
	case StateShapesReady:
		return "shapes-ready"
	}
	return "unknown"
}

// Bridge owns the per-session frame state.
type Bridge struct {
	ctx      imui.Context
	keys     KeyQuery
	textures *TextureCache
	painter  *Painter
	log      *slog.Logger

	state        FrameState
	input        imui.RawInput
	shapes       []imui.ClippedShape
	hasShapes    bool
	texDelta     imui.TexturesDelta
	screenHeight float32
	pointerX     float64
	pointerY     float64
}

type Option func(*Bridge)

// WithLogger routes diagnostics to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a bridge drawing ctx's output with r.
func New(ctx imui.Context, r core.Renderer, keys KeyQuery, opts ...Option) (*Bridge, error) {
	if keys == nil {
		return nil, errors.New("bridge: nil key query")
	}
	b := &Bridge{
		ctx:          ctx,
		keys:         keys,
		log:          slog.Default(),
		screenHeight: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.textures = NewTextureCache(r, b.log)
	p, err := NewPainter(r, b.textures, b.log)
	if err != nil {
		return nil, err
	}
	b.painter = p
	return b, nil
}

// Context is the UI library context to build the UI with between Begin and End.
func (b *Bridge) Context() imui.Context { return b.ctx }

func (b *Bridge) State() FrameState { return b.state }

// Textures exposes the texture cache, e.g. to register user textures.
func (b *Bridge) Textures() *TextureCache { return b.textures }

// Stats reports what the last Draw painted.
func (b *Bridge) Stats() FrameStats { return b.painter.Stats() }

// Begin starts a UI frame with the input gathered since the previous one.
func (b *Bridge) Begin() {
	switch b.state {
	case StateFrameOpen:
		b.log.Error("ui frame already open, Begin ignored; call End first")
		return
	case StateShapesReady:
		b.log.Warn("previous ui frame was never drawn; call Draw after End")
	}
	b.gatherInput()
	b.state = StateInputGathered
	b.ctx.BeginFrame(b.input.Take())
	b.state = StateFrameOpen
}

// End closes the UI frame and keeps its output for Draw.
func (b *Bridge) End() {
	if b.state != StateFrameOpen {
		b.log.Error("End without an open ui frame; call Begin first", "state", b.state)
		return
	}
	out := b.ctx.EndFrame()
	if b.hasShapes {
		b.log.Error("ui contents have not been drawn; ensure Draw is called after End")
	}
	b.shapes = out.Shapes
	b.hasShapes = true
	b.texDelta.Append(out.TexturesDelta)
	b.state = StateShapesReady
}

// Draw paints the output of the last End into fb. The framebuffer size is
// also recorded as the screen rect of the next frame.
func (b *Bridge) Draw(fb core.Framebuffer) {
	w, h := fb.Size()
	b.screenHeight = float32(h)
	rect := imui.RectFromMinSize(imui.Pos2{}, imui.Vec2{X: float32(w), Y: float32(h)})
	b.input.ScreenRect = &rect

	if !b.hasShapes {
		b.log.Error("failed to draw ui; ensure Draw is called after End")
		b.state = StateIdle
		return
	}
	shapes := b.shapes
	b.shapes, b.hasShapes = nil, false
	// The frame is consumed before painting so a panic on a corrupt delta
	// is not replayed by the next Draw.
	delta := b.texDelta
	b.texDelta = imui.TexturesDelta{}
	b.state = StateIdle

	prims := b.ctx.Tessellate(shapes)
	b.painter.PaintAndUpdateTextures(fb, prims, &delta, b.ctx.PixelsPerPoint())
	delta.Clear()
	b.texDelta = delta
}

// Close releases every GPU resource the bridge owns.
func (b *Bridge) Close() {
	b.textures.Clear()
	b.painter.Destroy()
}
