package platform

import (
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/grovegui/engine/core"
)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
}

// Must be called on main thread before any GL calls.
func NewGLFWWindow(cfg core.Config, onEvent func(core.Event)) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		return nil, err
	}
	slog.Info("gl context", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gw := &GLFWWindow{w: win, onEv: onEvent}

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		fx, fy := cursorToFramebuffer(w, x, y)
		gw.emit(core.EventMouseMove{X: fx, Y: fy})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := translateButton(button)
		if !ok {
			return
		}
		gw.emit(core.EventMouseButton{Button: b, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		gw.emit(core.EventWheel{Delta: yoff})
	})

	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

// IsKeyPressed asks glfw for the live key state, so modifiers held before the
// window gained focus are seen too.
func (g *GLFWWindow) IsKeyPressed(k core.Key) bool {
	gk, ok := glfwKeys[k]
	if !ok {
		return false
	}
	return g.w.GetKey(gk) == glfw.Press
}

// Destroy closes the window and terminates glfw.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

// cursorToFramebuffer converts glfw screen coordinates (top-left origin) to
// framebuffer pixels with a bottom-left origin.
func cursorToFramebuffer(w *glfw.Window, x, y float64) (float64, float64) {
	ww, wh := w.GetSize()
	fw, fh := w.GetFramebufferSize()
	sx, sy := 1.0, 1.0
	if ww > 0 && wh > 0 {
		sx, sy = float64(fw)/float64(ww), float64(fh)/float64(wh)
	}
	return x * sx, float64(fh) - y*sy
}

var keyTable = map[glfw.Key]core.Key{
	glfw.KeyEscape:       core.KeyEscape,
	glfw.KeySpace:        core.KeySpace,
	glfw.KeyEnter:        core.KeyEnter,
	glfw.KeyKPEnter:      core.KeyEnter,
	glfw.KeyBackspace:    core.KeyBackspace,
	glfw.KeyTab:          core.KeyTab,
	glfw.KeyDelete:       core.KeyDelete,
	glfw.KeyInsert:       core.KeyInsert,
	glfw.KeyHome:         core.KeyHome,
	glfw.KeyEnd:          core.KeyEnd,
	glfw.KeyPageUp:       core.KeyPageUp,
	glfw.KeyPageDown:     core.KeyPageDown,
	glfw.KeyLeft:         core.KeyArrowLeft,
	glfw.KeyRight:        core.KeyArrowRight,
	glfw.KeyUp:           core.KeyArrowUp,
	glfw.KeyDown:         core.KeyArrowDown,
	glfw.KeyLeftShift:    core.KeyShiftLeft,
	glfw.KeyRightShift:   core.KeyShiftRight,
	glfw.KeyLeftControl:  core.KeyControlLeft,
	glfw.KeyRightControl: core.KeyControlRight,
	glfw.KeyLeftAlt:      core.KeyAltLeft,
	glfw.KeyRightAlt:     core.KeyAltRight,
	glfw.KeyLeftSuper:    core.KeySuperLeft,
	glfw.KeyRightSuper:   core.KeySuperRight,
}

// glfwKeys is the reverse of keyTable, used for live queries.
var glfwKeys = map[core.Key]glfw.Key{}

func init() {
	for i := 0; i < 10; i++ {
		keyTable[glfw.Key0+glfw.Key(i)] = core.KeyDigit0 + core.Key(i)
		keyTable[glfw.KeyKP0+glfw.Key(i)] = core.KeyNumpad0 + core.Key(i)
	}
	for i := 0; i < 26; i++ {
		keyTable[glfw.KeyA+glfw.Key(i)] = core.KeyA + core.Key(i)
	}
	for i := 0; i < 12; i++ {
		keyTable[glfw.KeyF1+glfw.Key(i)] = core.KeyF1 + core.Key(i)
	}
	for gk, k := range keyTable {
		if gk == glfw.KeyKPEnter {
			continue
		}
		glfwKeys[k] = gk
	}
}

func translateKey(k glfw.Key) core.Key {
	if ck, ok := keyTable[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func translateButton(b glfw.MouseButton) (core.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.MouseLeft, true
	case glfw.MouseButtonMiddle:
		return core.MouseMiddle, true
	case glfw.MouseButtonRight:
		return core.MouseRight, true
	}
	return 0, false
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
