package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MousePointer is the pointer id used for the mouse. Touch contacts get ids from
// touchBase upwards so they never collide with it.
const (
	MousePointer = 0
	touchBase    = 1
)

// ClickDeadZone is how far (in pixels) the mouse may travel between press and
// release and still count as a click.
const ClickDeadZone = 4

// Handler receives the events produced by a Poller. camera.Navigator satisfies it.
type Handler interface {
	PointerDown(ev PointerEvent)
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
	Wheel(ev WheelEvent)
	KeyDown(ev KeyEvent)
	ContextMenu()
}

// TouchPoint is one touch contact in a frame.
type TouchPoint struct {
	ID  int
	Pos rl.Vector2
}

// Frame is the raw input state sampled once per frame.
type Frame struct {
	Width, Height float32
	Mouse         rl.Vector2
	// Buttons holds left, middle and right, in Button order.
	Buttons [3]bool
	// Wheel uses raylib's sign: positive scrolls up.
	Wheel     float32
	Touches   []TouchPoint
	Pressed   []Key
	Modifiers Modifiers
}

// Poller turns successive frames into pointer, wheel and key events. It is also
// the navigator's Surface: it reports the window size and tracks pointer capture.
type Poller struct {
	prev     Frame
	touches  map[int]rl.Vector2
	captured map[int]bool
	pressAt  rl.Vector2
	pressing bool

	// OnClick is called with the release position of a left click that did not drag.
	OnClick func(x, y float32)
}

// NewPoller returns a poller with no previous frame.
func NewPoller() *Poller {
	return &Poller{
		touches:  make(map[int]rl.Vector2),
		captured: make(map[int]bool),
	}
}

// Poll samples the window and dispatches the frame to h.
func (p *Poller) Poll(h Handler) {
	p.Feed(ReadFrame(), h)
}

// Feed diffs f against the previous frame and dispatches the resulting events to h.
// When any touch is down the emulated mouse is ignored.
func (p *Poller) Feed(f Frame, h Handler) {
	if len(f.Touches) > 0 || len(p.touches) > 0 {
		p.feedTouches(f, h)
	} else {
		p.feedMouse(f, h)
	}
	if f.Wheel != 0 {
		h.Wheel(WheelEvent{DeltaY: -f.Wheel, ClientX: f.Mouse.X, ClientY: f.Mouse.Y, Modifiers: f.Modifiers})
	}
	for _, k := range f.Pressed {
		h.KeyDown(KeyEvent{Key: k, Modifiers: f.Modifiers})
	}
	p.prev = f
	p.prev.Touches = nil
	p.prev.Pressed = nil
}

func (p *Poller) feedMouse(f Frame, h Handler) {
	wasDown := anyDown(p.prev.Buttons)
	isDown := anyDown(f.Buttons)

	if f.Mouse != p.prev.Mouse {
		h.PointerMove(mouseEvent(f, firstDown(f.Buttons)))
	}
	switch {
	case isDown && !wasDown:
		b := firstDown(f.Buttons)
		h.PointerDown(mouseEvent(f, b))
		if b == ButtonLeft {
			p.pressAt = f.Mouse
			p.pressing = true
		}
	case wasDown && !isDown:
		b := firstDown(p.prev.Buttons)
		h.PointerUp(mouseEvent(f, b))
		if b == ButtonRight {
			h.ContextMenu()
		}
		if b == ButtonLeft && p.pressing && rl.Vector2Distance(p.pressAt, f.Mouse) <= ClickDeadZone && p.OnClick != nil {
			p.OnClick(f.Mouse.X, f.Mouse.Y)
		}
		p.pressing = false
	}
}

func (p *Poller) feedTouches(f Frame, h Handler) {
	seen := make(map[int]bool, len(f.Touches))
	for _, t := range f.Touches {
		id := t.ID + touchBase
		seen[id] = true
		ev := touchEvent(id, t.Pos, f.Modifiers)
		last, ok := p.touches[id]
		p.touches[id] = t.Pos
		switch {
		case !ok:
			h.PointerDown(ev)
		case last != t.Pos:
			h.PointerMove(ev)
		}
	}
	for id, last := range p.touches {
		if seen[id] {
			continue
		}
		delete(p.touches, id)
		h.PointerUp(touchEvent(id, last, f.Modifiers))
	}
}

func mouseEvent(f Frame, b Button) PointerEvent {
	return PointerEvent{
		ID:        MousePointer,
		Type:      Mouse,
		Button:    b,
		PageX:     f.Mouse.X,
		PageY:     f.Mouse.Y,
		ClientX:   f.Mouse.X,
		ClientY:   f.Mouse.Y,
		Modifiers: f.Modifiers,
	}
}

func touchEvent(id int, pos rl.Vector2, mods Modifiers) PointerEvent {
	return PointerEvent{
		ID:        id,
		Type:      Touch,
		Button:    ButtonLeft,
		PageX:     pos.X,
		PageY:     pos.Y,
		ClientX:   pos.X,
		ClientY:   pos.Y,
		Modifiers: mods,
	}
}

func anyDown(b [3]bool) bool {
	return b[0] || b[1] || b[2]
}

func firstDown(b [3]bool) Button {
	for i, down := range b {
		if down {
			return Button(i)
		}
	}
	return ButtonLeft
}

// ClientSize is the size of the last polled frame.
func (p *Poller) ClientSize() (width, height float32) {
	return p.prev.Width, p.prev.Height
}

// Bounds is the window rectangle; the view always fills it.
func (p *Poller) Bounds() Rect {
	return Rect{Width: p.prev.Width, Height: p.prev.Height}
}

func (p *Poller) SetPointerCapture(id int)     { p.captured[id] = true }
func (p *Poller) ReleasePointerCapture(id int) { delete(p.captured, id) }

// Captured reports whether pointer id is captured.
func (p *Poller) Captured(id int) bool { return p.captured[id] }

var keyMap = []struct {
	rl  int32
	key Key
}{
	{rl.KeyLeft, KeyArrowLeft},
	{rl.KeyUp, KeyArrowUp},
	{rl.KeyRight, KeyArrowRight},
	{rl.KeyDown, KeyArrowDown},
	{rl.KeyW, KeyW},
	{rl.KeyA, KeyA},
	{rl.KeyS, KeyS},
	{rl.KeyD, KeyD},
	{rl.KeyQ, KeyQ},
	{rl.KeyE, KeyE},
}

// ReadFrame samples raylib's input state. It must run on the window thread.
func ReadFrame() Frame {
	f := Frame{
		Width:  float32(rl.GetScreenWidth()),
		Height: float32(rl.GetScreenHeight()),
		Mouse:  rl.GetMousePosition(),
		Wheel:  rl.GetMouseWheelMove(),
		Buttons: [3]bool{
			rl.IsMouseButtonDown(rl.MouseButtonLeft),
			rl.IsMouseButtonDown(rl.MouseButtonMiddle),
			rl.IsMouseButtonDown(rl.MouseButtonRight),
		},
		Modifiers: Modifiers{
			Ctrl:  rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl),
			Meta:  rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper),
			Shift: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
			Alt:   rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt),
		},
	}
	for i := int32(0); i < rl.GetTouchPointCount(); i++ {
		f.Touches = append(f.Touches, TouchPoint{ID: int(rl.GetTouchPointId(i)), Pos: rl.GetTouchPosition(i)})
	}
	for _, m := range keyMap {
		if rl.IsKeyPressed(m.rl) || rl.IsKeyPressedRepeat(m.rl) {
			f.Pressed = append(f.Pressed, m.key)
		}
	}
	return f
}
