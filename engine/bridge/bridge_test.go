package bridge

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/gfx/gfxtest"
	"github.com/hubastard/grovegui/engine/imui"
)

// scriptedCtx is a UI library stand-in whose frame output is set by the test.
type scriptedCtx struct {
	inputs      []imui.RawInput
	out         imui.FullOutput
	prims       []imui.ClippedPrimitive
	tessellated int
	ppp         float32
}

func (c *scriptedCtx) BeginFrame(in imui.RawInput) { c.inputs = append(c.inputs, in) }

func (c *scriptedCtx) EndFrame() imui.FullOutput {
	out := c.out
	c.out = imui.FullOutput{}
	return out
}

func (c *scriptedCtx) Tessellate([]imui.ClippedShape) []imui.ClippedPrimitive {
	c.tessellated++
	return c.prims
}

func (c *scriptedCtx) PixelsPerPoint() float32 {
	if c.ppp == 0 {
		return 1
	}
	return c.ppp
}

func (c *scriptedCtx) TexManager() imui.TextureAllocator { return nil }

type heldKeys map[core.Key]bool

func (k heldKeys) IsKeyPressed(key core.Key) bool { return k[key] }

type fixture struct {
	b    *Bridge
	ctx  *scriptedCtx
	r    *gfxtest.Renderer
	keys heldKeys
	logs *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:  &scriptedCtx{},
		r:    gfxtest.NewRenderer(100, 100),
		keys: heldKeys{},
		logs: &bytes.Buffer{},
	}
	log := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b, err := New(f.ctx, f.r, f.keys, WithLogger(log))
	require.NoError(t, err)
	f.b = b
	return f
}

// frame runs one begin/end/draw cycle.
func (f *fixture) frame() {
	f.b.Begin()
	f.b.End()
	f.b.Draw(f.r.Framebuffer())
}

func solidImage(w, h int, c imui.Color32) *imui.ColorImage {
	img := &imui.ColorImage{Size: [2]int{w, h}, Pixels: make([]imui.Color32, w*h)}
	for i := range img.Pixels {
		img.Pixels[i] = c
	}
	return img
}

func quad(tex imui.TextureID) *imui.Mesh {
	m := imui.NewMesh(tex)
	m.AddRectWithUV(
		imui.RectFromMinSize(imui.P(10, 20), imui.V(30, 40)),
		imui.Rect{Max: imui.P(1, 1)},
		imui.White,
	)
	return m
}

func TestFrameLifecycle(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, StateIdle, f.b.State())

	f.b.Begin()
	assert.Equal(t, StateFrameOpen, f.b.State())
	f.b.End()
	assert.Equal(t, StateShapesReady, f.b.State())
	f.b.Draw(f.r.Framebuffer())
	assert.Equal(t, StateIdle, f.b.State())

	assert.Len(t, f.ctx.inputs, 1)
	assert.Equal(t, 1, f.ctx.tessellated)
	assert.Empty(t, f.logs.String())
}

func TestBeginWhileOpenIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.b.Begin()
	f.b.Begin()
	assert.Len(t, f.ctx.inputs, 1)
	assert.Equal(t, StateFrameOpen, f.b.State())
	assert.Contains(t, f.logs.String(), "ui frame already open")
}

func TestEndWithoutBegin(t *testing.T) {
	f := newFixture(t)
	f.b.End()
	assert.Equal(t, StateIdle, f.b.State())
	assert.Contains(t, f.logs.String(), "End without an open ui frame")
}

func TestDrawWithoutEnd(t *testing.T) {
	f := newFixture(t)
	f.b.Draw(f.r.Framebuffer())

	assert.Contains(t, f.logs.String(), "failed to draw ui")
	assert.Empty(t, f.r.Draws)
	assert.Zero(t, f.ctx.tessellated)

	// The screen size is still recorded for the next frame.
	in := f.b.PendingInput()
	require.NotNil(t, in.ScreenRect)
	assert.Equal(t, imui.V(100, 100), in.ScreenRect.Size())
}

func TestUndrawnShapesAreReported(t *testing.T) {
	f := newFixture(t)
	f.b.Begin()
	f.b.End()
	f.b.Begin()
	f.b.End()

	logs := f.logs.String()
	assert.Contains(t, logs, "previous ui frame was never drawn")
	assert.Contains(t, logs, "ui contents have not been drawn")
	assert.Equal(t, StateShapesReady, f.b.State())
}

func TestScreenRectReachesNextFrame(t *testing.T) {
	f := newFixture(t)
	f.frame()
	f.b.Begin()

	require.Len(t, f.ctx.inputs, 2)
	assert.Nil(t, f.ctx.inputs[0].ScreenRect)
	require.NotNil(t, f.ctx.inputs[1].ScreenRect)
	assert.Equal(t, imui.Rect{Max: imui.P(100, 100)}, *f.ctx.inputs[1].ScreenRect)
}

func TestTextureCreatedBeforePaint(t *testing.T) {
	f := newFixture(t)
	id := imui.Managed(1)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: id, Delta: imui.FullDelta(solidImage(2, 2, imui.RGBA(255, 0, 0, 255)), imui.TextureNearest)}}
	f.ctx.prims = []imui.ClippedPrimitive{{ClipRect: imui.Everything, Primitive: quad(id)}}
	f.frame()

	require.Len(t, f.r.Draws, 1)
	tex, ok := f.b.Textures().Get(id)
	require.True(t, ok)
	assert.Equal(t, tex, f.r.Draws[0].Cmd.Samplers["u_texture"])

	gt := tex.(*gfxtest.Texture)
	assert.Equal(t, core.FilterNearest, gt.MinFilter)
	assert.Equal(t, core.WrapClamp, gt.WrapU)
	assert.Equal(t, [4]byte{255, 0, 0, 255}, gt.At(1, 1))
	assert.Equal(t, 1, f.b.Stats().Textures)
}

func TestTextureFreedAfterPaint(t *testing.T) {
	f := newFixture(t)
	id := imui.Managed(3)
	f.ctx.out.TexturesDelta = imui.TexturesDelta{
		Set:  []imui.TextureSet{{ID: id, Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}},
		Free: []imui.TextureID{id},
	}
	f.ctx.prims = []imui.ClippedPrimitive{{ClipRect: imui.Everything, Primitive: quad(id)}}
	f.frame()

	require.Len(t, f.r.Draws, 1)
	assert.Equal(t, 0, f.b.Stats().Skipped)
	_, ok := f.b.Textures().Get(id)
	assert.False(t, ok)
	require.Len(t, f.r.Textures, 1)
	assert.True(t, f.r.Textures[0].Deleted)
}

func TestMissingTextureSkipsOnlyItsMesh(t *testing.T) {
	f := newFixture(t)
	known := imui.Managed(1)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: known, Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}}
	f.ctx.prims = []imui.ClippedPrimitive{
		{ClipRect: imui.Everything, Primitive: quad(imui.Managed(9))},
		{ClipRect: imui.Everything, Primitive: quad(known)},
	}
	f.frame()

	assert.Len(t, f.r.Draws, 1)
	st := f.b.Stats()
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, 1, st.DrawCalls)
	assert.Equal(t, 6, st.Vertices)
	assert.Contains(t, f.logs.String(), "texture not found")
}

func TestMeshVerticesAreFlipped(t *testing.T) {
	f := newFixture(t)
	id := imui.Managed(1)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: id, Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}}
	f.ctx.prims = []imui.ClippedPrimitive{{ClipRect: imui.Everything, Primitive: quad(id)}}
	f.frame()

	require.Len(t, f.r.Draws, 1)
	d := f.r.Draws[0]
	require.NotNil(t, d.Cmd.Viewport)
	assert.Equal(t, core.Viewport{X: 0, Y: 0, W: 100, H: 100}, *d.Cmd.Viewport)
	assert.Equal(t, core.BlendStraightAlpha, d.Cmd.Blend)

	// Six expanded vertices; the first is the UI top-left corner (10, 20).
	require.Len(t, d.Vertices, 6*vertexFloats)
	assert.Equal(t, []float32{10, 80, 0, 1, 1, 1, 1, 1}, d.Vertices[:vertexFloats])
}

func TestClippedMeshIsRelativeToViewport(t *testing.T) {
	f := newFixture(t)
	id := imui.Managed(1)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: id, Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}}
	clip := imui.Rect{Min: imui.P(5, 10), Max: imui.P(50, 70)}
	f.ctx.prims = []imui.ClippedPrimitive{
		{ClipRect: clip, Primitive: quad(id)},
		{ClipRect: imui.Rect{Min: imui.P(200, 200), Max: imui.P(300, 300)}, Primitive: quad(id)},
	}
	f.frame()

	require.Len(t, f.r.Draws, 1)
	d := f.r.Draws[0]
	assert.Equal(t, core.Viewport{X: 5, Y: 30, W: 45, H: 60}, *d.Cmd.Viewport)
	assert.Equal(t, [2]float32{45, 60}, d.Cmd.Uniforms["u_framebuffer_size"])
	assert.Equal(t, []float32{5, 50}, d.Vertices[:2])
}

func TestPaintCallbackDispatch(t *testing.T) {
	f := newFixture(t)
	f.ctx.ppp = 2

	var got []imui.PaintCallbackInfo
	rect := imui.Rect{Min: imui.P(10, 10), Max: imui.P(30, 20)}
	f.ctx.prims = []imui.ClippedPrimitive{
		{ClipRect: imui.Everything, Primitive: NewPaintCallback(rect, func(info imui.PaintCallbackInfo, fb core.Framebuffer) {
			got = append(got, info)
			assert.Equal(t, f.r.Framebuffer(), fb)
		})},
		{ClipRect: imui.Everything, Primitive: imui.PaintCallback{Rect: rect, Callback: "not a callback"}},
	}
	f.frame()

	require.Len(t, got, 1)
	assert.Equal(t, rect, got[0].Viewport)
	assert.Equal(t, float32(2), got[0].PixelsPerPoint)
	assert.Equal(t, [2]uint32{100, 100}, got[0].ScreenSizePx)

	vp := got[0].ViewportInPixels()
	assert.Equal(t, int32(20), vp.LeftPx)
	assert.Equal(t, int32(40), vp.WidthPx)
	assert.Equal(t, int32(60), vp.FromBottomPx)

	st := f.b.Stats()
	assert.Equal(t, 1, st.Callbacks)
	assert.Equal(t, 1, st.Skipped)
	assert.Contains(t, f.logs.String(), "unsupported render callback")
}

func TestCloseReleasesOwnedTextures(t *testing.T) {
	f := newFixture(t)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: imui.Managed(1), Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}}
	f.frame()

	user, err := f.r.CreateTexture(core.TextureDesc{Width: 1, Height: 1})
	require.NoError(t, err)
	f.b.Textures().RegisterUser(user)
	require.Equal(t, 2, f.r.LiveTextures())

	f.b.Close()
	assert.Equal(t, 1, f.r.LiveTextures())
	assert.False(t, user.(*gfxtest.Texture).Deleted)
	assert.Zero(t, f.b.Textures().Len())
}

func TestNewRequiresKeyQuery(t *testing.T) {
	_, err := New(&scriptedCtx{}, gfxtest.NewRenderer(10, 10), nil)
	assert.ErrorContains(t, err, "nil key query")
}

func TestCorruptDeltaIsNotReplayed(t *testing.T) {
	f := newFixture(t)
	bad := &imui.ColorImage{Size: [2]int{2, 2}, Pixels: make([]imui.Color32, 3)}
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: imui.Managed(1), Delta: imui.FullDelta(bad, imui.TextureLinear)}}
	assert.Panics(t, f.frame)
	assert.Equal(t, StateIdle, f.b.State())

	assert.NotPanics(t, f.frame)
	f.ctx.out.TexturesDelta.Set = []imui.TextureSet{{ID: imui.Managed(2), Delta: imui.FullDelta(solidImage(1, 1, imui.White), imui.TextureLinear)}}
	f.frame()
	assert.Equal(t, 1, f.b.Textures().Len())
}
