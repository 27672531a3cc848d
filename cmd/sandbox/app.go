package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hubastard/grovegui/engine/bridge"
	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/gfx/renderer2d"
	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/scene"
	"github.com/hubastard/grovegui/engine/text"
	"github.com/hubastard/grovegui/engine/ui"
)

const (
	idPanel = iota + 1
	idTitle
	idStats
	idSpin
	idReset
	idName
	idGreeting
	idScene
	idIcon
	idFileIcon
	idSwatch
)

const (
	checkerSize = 32
	swatchSize  = 16
)

type App struct {
	scale    float32
	iconPath string

	ui     *ui.Ctx
	bridge *bridge.Bridge
	r2d    *renderer2d.Renderer2D
	camera *scene.OrthoCamera2D
	ctrl   *scene.OrthoController2D
	scene  *bridge.CallbackFn

	checker   *bridge.Icon
	fileIcon  *bridge.Icon
	checkerOn int

	// Host-owned textures shown through a user texture id; the bridge never
	// deletes them.
	swatches [2]core.Texture
	swatchID imui.TextureID
	swatchOn int

	spin      bool
	angle     float32
	name      string
	lastFrame time.Time
	frameMs   float32
	tick      int
}

func (a *App) OnStart(e *core.Engine) {
	font, err := text.LoadDefault(32)
	if err != nil {
		panic(err)
	}
	a.ui = ui.New(font, ui.WithPixelsPerPoint(a.scale))

	a.bridge, err = bridge.New(a.ui, e.Renderer, e.Window)
	if err != nil {
		panic(err)
	}

	a.r2d, err = renderer2d.New(e.Renderer, 1000)
	if err != nil {
		panic(err)
	}
	w, h := e.Window.FramebufferSize()
	a.camera = scene.NewOrtho2D(w, h)
	a.ctrl = scene.NewOrthoController2D(a.camera)
	a.ctrl.MoveSpeed = 200
	a.scene = bridge.NewCallbackFn(a.paintScene)
	a.spin = true

	a.checker, err = bridge.NewIconFromRaw(a.ui.TexManager(), "checker", checkerSize, checkerSize, checker(checkerSize), core.TextureOptions{Filter: core.FilterNearest})
	if err != nil {
		panic(err)
	}
	a.swatches[0], err = newSwatch(e.Renderer, colors.Blue, colors.Cyan)
	if err != nil {
		panic(err)
	}
	a.swatches[1], err = newSwatch(e.Renderer, colors.Red, colors.Yellow)
	if err != nil {
		panic(err)
	}
	a.swatchID = a.bridge.Textures().RegisterUser(a.swatches[0])

	if a.iconPath != "" {
		a.fileIcon, err = bridge.LoadIcon(a.ui.TexManager(), a.iconPath, core.TextureOptions{Filter: core.FilterLinear})
		if err != nil {
			slog.Warn("icon not loaded", "path", a.iconPath, "error", err)
		}
	}
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++
	if a.ui.Focused() == 0 {
		a.ctrl.Update(e.Input, float32(dt))
	}
	if a.spin {
		a.angle += float32(dt)
	}

	// Repaint one cell of the checker every second through a partial update.
	if a.tick%60 == 0 {
		a.checkerOn = (a.checkerOn + 1) % 4
		cell := checkerSize / 2
		x, y := (a.checkerOn%2)*cell, (a.checkerOn/2)*cell
		pix := solid(cell, cell, colors.Yellow)
		if (a.tick/240)%2 == 1 {
			pix = checker(cell)
		}
		patch := imui.NewColorImageRGBA(cell, cell, pix)
		a.ui.Textures().Update(a.checker.ID(), x, y, patch, imui.TextureNearest)
	}

	// Swap the host texture behind the swatch every two seconds.
	if a.tick%120 == 0 {
		a.swatchOn ^= 1
		a.bridge.Textures().ReplaceUser(a.swatchID, a.swatches[a.swatchOn])
	}
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.frameMs = float32(now.Sub(a.lastFrame).Seconds() * 1000)
	}
	a.lastFrame = now

	a.bridge.Begin()
	a.buildUI()
	a.bridge.End()
	a.bridge.Draw(e.Renderer.Framebuffer())
}

func (a *App) buildUI() {
	ctx := a.ui
	ctx.BeginView(ui.Props{
		ID:      idPanel,
		Axis:    ui.Vertical,
		Gap:     8,
		Padding: ui.Uniform(12),
		Bg:      colors.Color{0.15, 0.17, 0.2, 0.9},
		BoundsX: 16, BoundsY: 16,
	})
	ctx.Label(ui.LabelProps{ID: idTitle, Text: "grovegui sandbox", FontSize: 22})

	st := a.bridge.Stats()
	ctx.Label(ui.LabelProps{
		ID:       idStats,
		Text:     fmt.Sprintf("%.2f ms  draws %d  verts %d  textures %d", a.frameMs, st.DrawCalls, st.Vertices, st.Textures),
		FontSize: 14,
		Color:    colors.Gray,
	})

	ctx.BeginView(ui.Props{Axis: ui.Horizontal, Gap: 8})
	label := "Stop"
	if !a.spin {
		label = "Spin"
	}
	if ctx.Button(ui.ButtonProps{ID: idSpin, Text: label, Bg: colors.Color{0.2, 0.4, 0.7, 1}, Padding: ui.Insets(12, 6, 12, 6)}) {
		a.spin = !a.spin
	}
	if ctx.Button(ui.ButtonProps{ID: idReset, Text: "Reset camera", Bg: colors.Color{0.3, 0.3, 0.35, 1}, Padding: ui.Insets(12, 6, 12, 6)}) {
		a.camera.SetPosition(0, 0)
		a.camera.SetZoom(1)
		a.angle = 0
	}
	ctx.EndView()
	ctx.EndView()

	ctx.BeginView(ui.Props{Axis: ui.Vertical, Gap: 8, Padding: ui.Uniform(12), BoundsX: 16, BoundsY: 140, Bg: colors.Color{0.15, 0.17, 0.2, 0.9}})
	ctx.TextField(ui.TextFieldProps{ID: idName, Width: 240, Bg: colors.Color{0.05, 0.05, 0.06, 1}, Padding: ui.Uniform(4)}, &a.name)
	if a.name != "" {
		ctx.Label(ui.LabelProps{ID: idGreeting, Text: "Hello, " + a.name + "! Type with the field focused; WASD moves the scene otherwise.", WrapWidth: 240, FontSize: 14})
	}
	ctx.BeginView(ui.Props{Axis: ui.Horizontal, Gap: 8})
	ctx.Image(ui.ImageProps{ID: idIcon, Texture: a.checker.ID(), W: 64, H: 64})
	ctx.Image(ui.ImageProps{ID: idSwatch, Texture: a.swatchID, W: 64, H: 64})
	if a.fileIcon != nil {
		w, h := a.fileIcon.Size()
		ctx.Image(ui.ImageProps{ID: idFileIcon, Texture: a.fileIcon.ID(), W: float32(w), H: float32(h)})
	}
	ctx.EndView()
	ctx.EndView()

	screen := ctx.Screen()
	ctx.BeginView(ui.Props{
		ID:      idScene,
		Sizing:  ui.Px(320, 240),
		Clip:    true,
		Bg:      colors.Color{0, 0, 0, 1},
		BoundsX: screen.Max.X - 336, BoundsY: 16,
	})
	ctx.Custom(idScene, 320, 240, a.scene)
	ctx.EndView()
}

// paintScene draws a small quad scene into the region the UI reserved for it.
func (a *App) paintScene(info imui.PaintCallbackInfo, fb core.Framebuffer) {
	px := info.ViewportInPixels()
	vp := core.Viewport{X: int(px.LeftPx), Y: int(px.FromBottomPx), W: int(px.WidthPx), H: int(px.HeightPx)}
	if vp.Empty() {
		return
	}
	a.camera.SetViewportPixels(vp.W, vp.H)
	a.r2d.BeginScene(fb, &vp, a.camera.VP())
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			c := colors.Color{0.5 + 0.1*float32(i), 0.5 + 0.1*float32(j), 0.8, 1}
			a.r2d.DrawQuad(float32(i)*50, float32(j)*50, 30, 30, c, a.angle*float32(1+(i+j+4)%3))
		}
	}
	a.r2d.EndScene()
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	a.bridge.HandleEvent(ev)
}

func (a *App) OnShutdown(e *core.Engine) {
	a.bridge.Close()
	for _, t := range a.swatches {
		if t != nil {
			e.Renderer.DeleteTexture(t)
		}
	}
	a.r2d.Destroy()
}

// newSwatch creates a vertical gradient texture, bottom in from, top in to.
func newSwatch(r core.Renderer, from, to colors.Color) (core.Texture, error) {
	pix := make([]byte, 0, swatchSize*swatchSize*4)
	for y := 0; y < swatchSize; y++ {
		t := float32(y) / float32(swatchSize-1)
		c := colors.Color{
			from[0] + (to[0]-from[0])*t,
			from[1] + (to[1]-from[1])*t,
			from[2] + (to[2]-from[2])*t,
			1,
		}.RGBA8()
		for x := 0; x < swatchSize; x++ {
			pix = append(pix, c[:]...)
		}
	}
	return r.CreateTexture(core.TextureDesc{
		Width: swatchSize, Height: swatchSize,
		Format: core.TextureRGBA8, Pixels: pix,
		MinFilter: core.FilterLinear, MagFilter: core.FilterLinear,
		WrapU: core.WrapClamp, WrapV: core.WrapClamp,
	})
}

func checker(n int) []byte {
	pix := make([]byte, n*n*4)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := byte(40)
			if ((x/4)+(y/4))%2 == 0 {
				v = 220
			}
			i := (y*n + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}

func solid(w, h int, c colors.Color) []byte {
	rgba := c.RGBA8()
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], rgba[:])
	}
	return pix
}
