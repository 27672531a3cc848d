package bridge

import (
	"strings"

	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

// HandleEvent translates one host event into UI input for the next frame.
// Events the UI library has no use for are dropped.
func (b *Bridge) HandleEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.EventWheel:
		d := float32(e.Delta)
		if b.keys.IsKeyPressed(core.KeyShiftLeft) {
			b.input.Push(imui.EventScroll{Delta: imui.Vec2{X: d}})
		} else {
			b.input.Push(imui.EventScroll{Delta: imui.Vec2{Y: d}})
		}
	case core.EventKey:
		key, ok := uiKey(e.Key)
		if !ok {
			return
		}
		mods := b.modifiers()
		b.input.Push(imui.EventKey{Key: key, Pressed: e.Down, Modifiers: mods})
		if !e.Down {
			return
		}
		if ch, ok := keyChar(key); ok {
			text := string(ch)
			if mods.Shift {
				text = strings.ToUpper(text)
			}
			b.input.Push(imui.EventText{Text: text})
		}
	case core.EventMouseButton:
		b.input.Push(imui.EventPointerButton{
			Pos:       HostToUI(b.pointerX, b.pointerY, b.screenHeight),
			Button:    pointerButton(e.Button),
			Pressed:   e.Down,
			Modifiers: b.modifiers(),
		})
	case core.EventMouseMove:
		b.pointerX, b.pointerY = e.X, e.Y
		b.input.Push(imui.EventPointerMoved{Pos: HostToUI(e.X, e.Y, b.screenHeight)})
	}
}

// PendingInput is a copy of the queued input, for inspection.
func (b *Bridge) PendingInput() imui.RawInput {
	in := b.input
	in.Events = append([]imui.Event(nil), b.input.Events...)
	return in
}

func (b *Bridge) gatherInput() {
	b.input.Modifiers = b.modifiers()
}

func (b *Bridge) modifiers() imui.Modifiers {
	ctrl := b.keys.IsKeyPressed(core.KeyControlLeft)
	return imui.Modifiers{
		Alt:     b.keys.IsKeyPressed(core.KeyAltLeft),
		Ctrl:    ctrl,
		Shift:   b.keys.IsKeyPressed(core.KeyShiftLeft),
		Command: ctrl,
	}
}

func pointerButton(b core.MouseButton) imui.PointerButton {
	switch b {
	case core.MouseMiddle:
		return imui.PointerMiddle
	case core.MouseRight:
		return imui.PointerSecondary
	default:
		return imui.PointerPrimary
	}
}
