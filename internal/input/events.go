package input

// PointerType distinguishes mouse from touch contacts. Pens are handled as mice.
type PointerType int

const (
	Mouse PointerType = iota
	Touch
	Pen
)

func (t PointerType) String() string {
	switch t {
	case Touch:
		return "touch"
	case Pen:
		return "pen"
	default:
		return "mouse"
	}
}

// Button is the mouse button that changed state in a pointer event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonOther
)

// Modifiers are the keyboard modifier keys held during an event.
type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Any reports whether ctrl, meta or shift is held. Alt is not a navigation modifier.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Meta || m.Shift
}

// PointerEvent is one pointer down/move/up/cancel sample.
// Page coordinates are relative to the document, client coordinates to the viewport.
type PointerEvent struct {
	ID        int
	Type      PointerType
	Button    Button
	PageX     float32
	PageY     float32
	ClientX   float32
	ClientY   float32
	Modifiers Modifiers
}

// WheelEvent is a scroll sample. Negative DeltaY scrolls up (away from the user).
type WheelEvent struct {
	DeltaY    float32
	ClientX   float32
	ClientY   float32
	Modifiers Modifiers
}

// Key identifies the keys navigation cares about.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowLeft
	KeyArrowUp
	KeyArrowRight
	KeyArrowDown
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key       Key
	Modifiers Modifiers
}

// Rect is a screen-space rectangle.
type Rect struct {
	X, Y, Width, Height float32
}
