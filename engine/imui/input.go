package imui

// Key is a logical key of the UI library.
type Key int

const (
	KeyUnknown Key = iota
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyEscape
	KeySpace
	KeyEnter
	KeyBackspace
	KeyTab
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyPageUp
	KeyPageDown
)

// Modifiers is a snapshot of the held modifier keys.
type Modifiers struct {
	Alt     bool
	Ctrl    bool
	Shift   bool
	MacCmd  bool
	Command bool // Ctrl on every platform but macOS
}

func (m Modifiers) Any() bool { return m.Alt || m.Ctrl || m.Shift || m.MacCmd || m.Command }

type PointerButton int

const (
	PointerPrimary PointerButton = iota
	PointerSecondary
	PointerMiddle
)

func (b PointerButton) String() string {
	switch b {
	case PointerPrimary:
		return "primary"
	case PointerSecondary:
		return "secondary"
	case PointerMiddle:
		return "middle"
	}
	return "unknown"
}

// Event is one input event fed to the UI library.
type Event interface{ isEvent() }

type EventKey struct {
	Key       Key
	Pressed   bool
	Repeat    bool
	Modifiers Modifiers
}

type EventText struct{ Text string }

type EventScroll struct{ Delta Vec2 }

type EventPointerButton struct {
	Pos       Pos2
	Button    PointerButton
	Pressed   bool
	Modifiers Modifiers
}

type EventPointerMoved struct{ Pos Pos2 }

func (EventKey) isEvent()           {}
func (EventText) isEvent()          {}
func (EventScroll) isEvent()        {}
func (EventPointerButton) isEvent() {}
func (EventPointerMoved) isEvent()  {}

// RawInput is everything the UI library needs to run one frame.
type RawInput struct {
	Events    []Event
	Modifiers Modifiers
	// ScreenRect is nil until the host knows its surface size.
	ScreenRect *Rect
}

// Push appends ev to the event queue.
func (in *RawInput) Push(ev Event) { in.Events = append(in.Events, ev) }

// Take returns the accumulated input and resets the events and screen rect.
// Modifiers are a live snapshot and stay in place.
func (in *RawInput) Take() RawInput {
	out := *in
	in.Events = nil
	in.ScreenRect = nil
	return out
}
