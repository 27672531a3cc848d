package ui

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/text"
)

var (
	fontOnce sync.Once
	testFont *text.Font
	fontErr  error
)

func loadFont(t *testing.T) *text.Font {
	t.Helper()
	fontOnce.Do(func() { testFont, fontErr = text.LoadDefault(16) })
	require.NoError(t, fontErr)
	return testFont
}

var screen200 = imui.Rect{Max: imui.P(200, 200)}

func runFrame(ctx *Ctx, build func(), events ...imui.Event) imui.FullOutput {
	screen := screen200
	ctx.BeginFrame(imui.RawInput{Events: events, ScreenRect: &screen})
	if build != nil {
		build()
	}
	return ctx.EndFrame()
}

func shapesOf[T any](out imui.FullOutput) []T {
	var found []T
	for _, s := range out.Shapes {
		if v, ok := s.Shape.(T); ok {
			found = append(found, v)
		}
	}
	return found
}

func clippedOf[T any](out imui.FullOutput) []imui.ClippedShape {
	var found []imui.ClippedShape
	for _, s := range out.Shapes {
		if _, ok := s.Shape.(T); ok {
			found = append(found, s)
		}
	}
	return found
}

func move(x, y float32) imui.Event { return imui.EventPointerMoved{Pos: imui.P(x, y)} }

func press(x, y float32, down bool) imui.Event {
	return imui.EventPointerButton{Pos: imui.P(x, y), Button: imui.PointerPrimary, Pressed: down}
}

func newLogged(font *text.Font, opts ...Option) (*Ctx, *bytes.Buffer) {
	var logs bytes.Buffer
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	return New(font, opts...), &logs
}

func TestFontSentOnFirstFrameOnly(t *testing.T) {
	font := loadFont(t)
	ctx := New(font)

	out := runFrame(ctx, nil)
	require.Len(t, out.TexturesDelta.Set, 1)
	set := out.TexturesDelta.Set[0]
	assert.Equal(t, FontTexture, set.ID)
	assert.True(t, set.Delta.IsWhole())
	assert.Same(t, font.Image, set.Delta.Image)

	out = runFrame(ctx, nil)
	assert.True(t, out.TexturesDelta.IsEmpty())
}

func TestTextureManager(t *testing.T) {
	ctx := New(loadFont(t))
	runFrame(ctx, nil)

	img := imui.NewColorImageRGBA(1, 1, []byte{1, 2, 3, 4})
	a := ctx.TexManager().Alloc("a", img, imui.TextureLinear)
	b := ctx.Textures().Alloc("b", img, imui.TextureNearest)
	assert.Equal(t, imui.Managed(1), a)
	assert.Equal(t, imui.Managed(2), b)
	name, ok := ctx.Textures().Name(b)
	assert.True(t, ok)
	assert.Equal(t, "b", name)

	ctx.Textures().Update(a, 0, 0, img, imui.TextureLinear)
	ctx.TexManager().Free(b)
	_, ok = ctx.Textures().Name(b)
	assert.False(t, ok)

	out := runFrame(ctx, nil)
	require.Len(t, out.TexturesDelta.Set, 3)
	assert.Equal(t, a, out.TexturesDelta.Set[0].ID)
	assert.Equal(t, b, out.TexturesDelta.Set[1].ID)
	assert.False(t, out.TexturesDelta.Set[2].Delta.IsWhole())
	assert.Equal(t, []imui.TextureID{b}, out.TexturesDelta.Free)

	assert.True(t, runFrame(ctx, nil).TexturesDelta.IsEmpty())
}

func TestVerticalLayout(t *testing.T) {
	ctx := New(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{Axis: Vertical, Gap: 4, Padding: Uniform(5), Bg: colors.Red, BoundsX: 10, BoundsY: 20})
		ctx.Image(ImageProps{Texture: imui.Managed(1), W: 30, H: 10})
		ctx.Image(ImageProps{Texture: imui.Managed(1), W: 20, H: 15})
		ctx.EndView()
	})

	rects := shapesOf[RectShape](out)
	require.Len(t, rects, 1)
	assert.Equal(t, imui.RectFromMinSize(imui.P(10, 20), imui.V(40, 39)), rects[0].Rect)
	assert.Equal(t, imui.Color32(colors.Red.RGBA8()), rects[0].Fill)

	imgs := shapesOf[ImageShape](out)
	require.Len(t, imgs, 2)
	assert.Equal(t, imui.RectFromMinSize(imui.P(15, 25), imui.V(30, 10)), imgs[0].Rect)
	assert.Equal(t, imui.RectFromMinSize(imui.P(15, 39), imui.V(20, 15)), imgs[1].Rect)
	assert.Equal(t, imui.Rect{Max: imui.P(1, 1)}, imgs[0].UV)
	assert.Equal(t, imui.White, imgs[0].Tint)
}

func TestNestedViewIsPlacedByParent(t *testing.T) {
	ctx := New(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{Axis: Horizontal, Gap: 10, CrossAlign: Center, BoundsX: 5, BoundsY: 5})
		ctx.Image(ImageProps{W: 50, H: 50})
		ctx.BeginView(Props{Axis: Vertical})
		ctx.Image(ImageProps{W: 10, H: 10})
		ctx.Image(ImageProps{W: 10, H: 20})
		ctx.EndView()
		ctx.EndView()
	})

	imgs := shapesOf[ImageShape](out)
	require.Len(t, imgs, 3)
	assert.Equal(t, imui.P(5, 5), imgs[0].Rect.Min)
	assert.Equal(t, imui.P(65, 15), imgs[1].Rect.Min)
	assert.Equal(t, imui.P(65, 25), imgs[2].Rect.Min)
}

func TestMainAlignEndAndExpand(t *testing.T) {
	ctx := New(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{Axis: Horizontal, MainAlign: End, CrossAlign: Stretch, Sizing: Expand(), BoundsX: 100, BoundsY: 150})
		ctx.Image(ImageProps{W: 20, H: 10})
		ctx.EndView()
	})

	imgs := shapesOf[ImageShape](out)
	require.Len(t, imgs, 1)
	// The view fills up to the screen edge: 100x50.
	assert.Equal(t, imui.Rect{Min: imui.P(180, 150), Max: imui.P(200, 200)}, imgs[0].Rect)
}

func TestButtonClickNeedsPressAndReleaseOverIt(t *testing.T) {
	ctx := New(loadFont(t))
	px := Px(80, 30)
	clicked := func(events ...imui.Event) (bool, []RectShape) {
		var got bool
		out := runFrame(ctx, func() {
			ctx.BeginView(Props{})
			got = ctx.Button(ButtonProps{ID: 1, Text: "Go", Bg: colors.Color{0.4, 0.4, 0.4, 1}, Sizing: &px})
			ctx.EndView()
		}, events...)
		return got, shapesOf[RectShape](out)
	}

	got, rects := clicked(move(10, 10))
	assert.False(t, got)
	require.Len(t, rects, 1)
	assert.Equal(t, imui.Rect{Max: imui.P(80, 30)}, rects[0].Rect)
	assert.Equal(t, imui.RGBA(117, 117, 117, 255), rects[0].Fill, "hot")

	got, rects = clicked(press(10, 10, true))
	assert.False(t, got)
	assert.Equal(t, imui.RGBA(86, 86, 86, 255), rects[0].Fill, "active")

	got, _ = clicked(press(10, 10, false))
	assert.True(t, got)

	got, _ = clicked()
	assert.False(t, got)

	// Pressed elsewhere, released over the button.
	clicked(press(150, 150, true))
	got, _ = clicked(press(10, 10, false))
	assert.False(t, got)
}

func TestButtonLabelIsCentered(t *testing.T) {
	font := loadFont(t)
	ctx := New(font)
	px := Px(100, 40)
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{})
		ctx.Button(ButtonProps{ID: 1, Text: "OK", FontSize: 20, Sizing: &px})
		ctx.EndView()
	})

	texts := shapesOf[TextShape](out)
	require.Len(t, texts, 1)
	w, h := text.MeasureText(font, "OK", 20)
	assert.InDelta(t, (100-w)/2, texts[0].Pos.X, 1e-4)
	assert.InDelta(t, (40-h)/2, texts[0].Pos.Y, 1e-4)
	assert.Equal(t, float32(20), texts[0].Size)
}

func TestTextFieldEditing(t *testing.T) {
	ctx := New(loadFont(t))
	value := ""
	field := func(events ...imui.Event) (bool, imui.FullOutput) {
		var changed bool
		out := runFrame(ctx, func() {
			ctx.BeginView(Props{})
			changed = ctx.TextField(TextFieldProps{ID: 9, Width: 100}, &value)
			ctx.EndView()
		}, events...)
		return changed, out
	}

	field()
	assert.Zero(t, ctx.Focused())

	field(press(5, 5, true))
	assert.Equal(t, 9, ctx.Focused())

	changed, out := field(press(5, 5, false), imui.EventText{Text: "hé"}, imui.EventText{Text: "y"})
	assert.True(t, changed)
	assert.Equal(t, "héy", value)
	texts := shapesOf[TextShape](out)
	require.Len(t, texts, 1)
	assert.Equal(t, "héy|", texts[0].Text)

	changed, _ = field(imui.EventKey{Key: imui.KeyBackspace, Pressed: true}, imui.EventKey{Key: imui.KeyBackspace, Pressed: true})
	assert.True(t, changed)
	assert.Equal(t, "h", value)

	field(imui.EventKey{Key: imui.KeyEnter, Pressed: true})
	assert.Zero(t, ctx.Focused())

	changed, _ = field(imui.EventText{Text: "ignored"})
	assert.False(t, changed)
	assert.Equal(t, "h", value)

	field(press(5, 5, true))
	assert.Equal(t, 9, ctx.Focused())
	field(press(5, 5, false))
	field(press(150, 150, true))
	assert.Zero(t, ctx.Focused())
}

func TestClippingView(t *testing.T) {
	ctx := New(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{Sizing: Px(50, 50), Clip: true, Bg: colors.Black, BoundsX: 10, BoundsY: 10})
		ctx.Image(ImageProps{W: 100, H: 100})
		ctx.EndView()
		ctx.Image(ImageProps{W: 5, H: 5})
	})

	rects := clippedOf[RectShape](out)
	require.Len(t, rects, 1)
	assert.Equal(t, screen200, rects[0].ClipRect)

	imgs := clippedOf[ImageShape](out)
	require.Len(t, imgs, 2)
	assert.Equal(t, imui.Rect{Min: imui.P(10, 10), Max: imui.P(60, 60)}, imgs[0].ClipRect)
	assert.Equal(t, screen200, imgs[1].ClipRect)
}

func TestPushClip(t *testing.T) {
	ctx, logs := newLogged(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.PushClip(imui.Rect{Min: imui.P(150, 150), Max: imui.P(300, 300)})
		ctx.Rect(imui.Rect{Max: imui.P(10, 10)}, colors.White)
		ctx.PopClip()
		ctx.Text(imui.P(1, 2), "free", 0, colors.White)
		ctx.PopClip()
	})

	require.Len(t, out.Shapes, 2)
	assert.Equal(t, imui.Rect{Min: imui.P(150, 150), Max: imui.P(200, 200)}, out.Shapes[0].ClipRect)
	assert.Equal(t, screen200, out.Shapes[1].ClipRect)
	txt := out.Shapes[1].Shape.(TextShape)
	assert.Equal(t, imui.P(1, 2), txt.Pos)
	assert.Equal(t, float32(defaultFontSize), txt.Size)
	assert.Contains(t, logs.String(), "ui PopClip without PushClip")
}

func TestNoScreenMeansNoClip(t *testing.T) {
	ctx := New(loadFont(t))
	ctx.BeginFrame(imui.RawInput{})
	ctx.Rect(imui.Rect{Max: imui.P(10, 10)}, colors.White)
	out := ctx.EndFrame()

	require.Len(t, out.Shapes, 1)
	assert.Equal(t, imui.Everything, out.Shapes[0].ClipRect)
}

func TestCustomPassesCallbackThrough(t *testing.T) {
	ctx := New(loadFont(t))
	payload := &struct{ n int }{n: 1}
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{BoundsX: 10, BoundsY: 10})
		ctx.Custom(7, 40, 30, payload)
		ctx.EndView()
	})

	cbs := shapesOf[imui.PaintCallback](out)
	require.Len(t, cbs, 1)
	assert.Equal(t, imui.Rect{Min: imui.P(10, 10), Max: imui.P(50, 40)}, cbs[0].Rect)
	assert.Same(t, payload, cbs[0].Callback)
}

func TestLabelWraps(t *testing.T) {
	font := loadFont(t)
	ctx := New(font)
	w, _ := text.MeasureText(font, "aaa", 16)
	out := runFrame(ctx, func() {
		ctx.BeginView(Props{})
		ctx.Label(LabelProps{Text: "aaa bbb", WrapWidth: w + 1})
		ctx.EndView()
	})

	texts := shapesOf[TextShape](out)
	require.Len(t, texts, 1)
	assert.Equal(t, "aaa\nbbb", texts[0].Text)
	assert.Equal(t, imui.White, texts[0].Color)
}

func TestPixelsPerPointScalesInput(t *testing.T) {
	ctx := New(loadFont(t), WithPixelsPerPoint(2))
	screen := imui.Rect{Max: imui.P(200, 100)}
	ctx.BeginFrame(imui.RawInput{
		ScreenRect: &screen,
		Events:     []imui.Event{move(20, 40), imui.EventScroll{Delta: imui.V(0, 3)}, imui.EventText{Text: "x"}},
	})
	defer ctx.EndFrame()

	assert.Equal(t, imui.Rect{Max: imui.P(100, 50)}, ctx.Screen())
	assert.Equal(t, float32(10), ctx.I.MouseX)
	assert.Equal(t, float32(20), ctx.I.MouseY)
	assert.Equal(t, imui.V(0, 3), ctx.I.Scroll)
	assert.Equal(t, "x", ctx.I.Text)
	assert.Equal(t, float32(2), ctx.PixelsPerPoint())
}

func TestSecondaryButtonDoesNotClick(t *testing.T) {
	ctx := New(loadFont(t))
	runFrame(ctx, nil, imui.EventPointerButton{Pos: imui.P(1, 1), Button: imui.PointerSecondary, Pressed: true})
	assert.False(t, ctx.I.MouseDown)
	assert.False(t, ctx.I.MousePressed)
}

func TestCapacityLimits(t *testing.T) {
	ctx, logs := newLogged(nil, WithCapacity(4, 2, 4))
	out := runFrame(ctx, func() {
		for i := 0; i < 3; i++ {
			ctx.Rect(imui.Rect{Max: imui.P(1, 1)}, colors.White)
		}
	})
	assert.Len(t, out.Shapes, 2)
	assert.True(t, out.TexturesDelta.IsEmpty())
	assert.Contains(t, logs.String(), "ui command capacity reached")
}

func TestUnbalancedViews(t *testing.T) {
	ctx, logs := newLogged(loadFont(t))
	out := runFrame(ctx, func() {
		ctx.EndView()
		ctx.BeginView(Props{ID: 3, Bg: colors.White, BoundsX: 1, BoundsY: 1})
		ctx.Image(ImageProps{W: 4, H: 4})
	})

	assert.Contains(t, logs.String(), "ui EndView without BeginView")
	assert.Contains(t, logs.String(), "ui view left open at end of frame")
	imgs := shapesOf[ImageShape](out)
	require.Len(t, imgs, 1)
	assert.Equal(t, imui.P(1, 1), imgs[0].Rect.Min)
}

func TestTessellate(t *testing.T) {
	font := loadFont(t)
	ctx, logs := newLogged(font, WithPixelsPerPoint(2))
	a := imui.Rect{Max: imui.P(100, 100)}
	b := imui.Rect{Max: imui.P(50, 50)}
	rect := RectShape{Rect: imui.Rect{Min: imui.P(1, 2), Max: imui.P(3, 4)}, Fill: imui.White}
	cb := imui.PaintCallback{Rect: imui.Rect{Max: imui.P(5, 5)}, Callback: "payload"}

	prims := ctx.Tessellate([]imui.ClippedShape{
		{ClipRect: a, Shape: rect},
		{ClipRect: a, Shape: TextShape{Text: "hi", Size: 16, Color: imui.White}},
		{ClipRect: a, Shape: ImageShape{Rect: imui.Rect{Max: imui.P(10, 10)}, Texture: imui.Managed(5), UV: imui.Rect{Max: imui.P(1, 1)}, Tint: imui.White}},
		{ClipRect: a, Shape: rect},
		{ClipRect: b, Shape: rect},
		{ClipRect: b, Shape: cb},
		{ClipRect: b, Shape: rect},
		{ClipRect: b, Shape: 42},
	})

	require.Len(t, prims, 6)
	mesh := func(i int) *imui.Mesh {
		m, ok := prims[i].Primitive.(*imui.Mesh)
		require.True(t, ok, "primitive %d is %T", i, prims[i].Primitive)
		return m
	}

	first := mesh(0)
	assert.Equal(t, FontTexture, first.Texture)
	assert.Equal(t, imui.Rect{Max: imui.P(200, 200)}, prims[0].ClipRect)
	assert.Len(t, first.Vertices, 3*4)
	assert.Equal(t, imui.P(2, 4), first.Vertices[0].Pos)
	assert.Equal(t, font.WhiteUV, first.Vertices[0].UV)

	assert.Equal(t, imui.Managed(5), mesh(1).Texture)
	assert.Equal(t, imui.P(20, 20), mesh(1).Vertices[3].Pos)
	assert.Equal(t, FontTexture, mesh(2).Texture)
	assert.Equal(t, imui.Rect{Max: imui.P(100, 100)}, prims[3].ClipRect)
	assert.Len(t, mesh(3).Vertices, 4)

	assert.Equal(t, cb, prims[4].Primitive)
	assert.Equal(t, b, prims[4].ClipRect)
	assert.Len(t, mesh(5).Vertices, 4)

	assert.Contains(t, logs.String(), "ui cannot tessellate shape")
}
