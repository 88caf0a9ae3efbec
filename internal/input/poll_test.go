package input

import (
	"fmt"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logHandler struct {
	log []string
}

func (h *logHandler) PointerDown(ev PointerEvent) {
	h.log = append(h.log, fmt.Sprintf("down %d %s b%d %g,%g", ev.ID, ev.Type, ev.Button, ev.PageX, ev.PageY))
}

func (h *logHandler) PointerMove(ev PointerEvent) {
	h.log = append(h.log, fmt.Sprintf("move %d %g,%g", ev.ID, ev.PageX, ev.PageY))
}

func (h *logHandler) PointerUp(ev PointerEvent) {
	h.log = append(h.log, fmt.Sprintf("up %d b%d", ev.ID, ev.Button))
}

func (h *logHandler) Wheel(ev WheelEvent) {
	h.log = append(h.log, fmt.Sprintf("wheel %g", ev.DeltaY))
}

func (h *logHandler) KeyDown(ev KeyEvent) {
	h.log = append(h.log, fmt.Sprintf("key %d shift=%t", ev.Key, ev.Modifiers.Shift))
}

func (h *logHandler) ContextMenu() {
	h.log = append(h.log, "contextmenu")
}

func frame(x, y float32, left, middle, right bool) Frame {
	return Frame{Width: 800, Height: 600, Mouse: rl.NewVector2(x, y), Buttons: [3]bool{left, middle, right}}
}

func TestMouseDragSequence(t *testing.T) {
	p := NewPoller()
	h := &logHandler{}
	p.Feed(frame(10, 10, false, false, false), h)
	p.Feed(frame(10, 10, true, false, false), h)
	p.Feed(frame(30, 15, true, false, false), h)
	p.Feed(frame(30, 15, false, false, false), h)

	assert.Equal(t, []string{
		"move 0 10,10",
		"down 0 mouse b0 10,10",
		"move 0 30,15",
		"up 0 b0",
	}, h.log)

	w, hgt := p.ClientSize()
	assert.Equal(t, float32(800), w)
	assert.Equal(t, float32(600), hgt)
	assert.Equal(t, Rect{Width: 800, Height: 600}, p.Bounds())
}

func TestClickFiresOnlyWithoutDrag(t *testing.T) {
	p := NewPoller()
	var clicks []rl.Vector2
	p.OnClick = func(x, y float32) { clicks = append(clicks, rl.NewVector2(x, y)) }
	h := &logHandler{}

	p.Feed(frame(100, 100, true, false, false), h)
	p.Feed(frame(102, 101, false, false, false), h)
	require.Len(t, clicks, 1)
	assert.Equal(t, rl.NewVector2(102, 101), clicks[0])

	p.Feed(frame(100, 100, true, false, false), h)
	p.Feed(frame(200, 100, false, false, false), h)
	assert.Len(t, clicks, 1, "a drag is not a click")
}

func TestRightButtonRequestsContextMenu(t *testing.T) {
	p := NewPoller()
	h := &logHandler{}
	p.Feed(frame(0, 0, false, false, true), h)
	p.Feed(frame(0, 0, false, false, false), h)
	assert.Equal(t, []string{"down 0 mouse b2 0,0", "up 0 b2", "contextmenu"}, h.log)
}

func TestWheelSignFollowsScrollDirection(t *testing.T) {
	p := NewPoller()
	h := &logHandler{}
	f := frame(0, 0, false, false, false)
	f.Wheel = 1
	p.Feed(f, h)
	f.Wheel = -2
	p.Feed(f, h)
	assert.Equal(t, []string{"wheel -1", "wheel 2"}, h.log)
}

func TestTouchLifecycle(t *testing.T) {
	p := NewPoller()
	h := &logHandler{}
	base := Frame{Width: 800, Height: 600}

	f := base
	f.Touches = []TouchPoint{{ID: 0, Pos: rl.NewVector2(10, 10)}, {ID: 1, Pos: rl.NewVector2(50, 10)}}
	p.Feed(f, h)
	f = base
	f.Touches = []TouchPoint{{ID: 0, Pos: rl.NewVector2(10, 10)}, {ID: 1, Pos: rl.NewVector2(60, 10)}}
	p.Feed(f, h)
	f = base
	f.Touches = []TouchPoint{{ID: 0, Pos: rl.NewVector2(10, 10)}}
	p.Feed(f, h)
	p.Feed(base, h)

	assert.Equal(t, []string{
		"down 1 touch b0 10,10",
		"down 2 touch b0 50,10",
		"move 2 60,10",
		"up 2 b0",
		"up 1 b0",
	}, h.log)
}

func TestKeysCarryModifiers(t *testing.T) {
	p := NewPoller()
	h := &logHandler{}
	f := frame(0, 0, false, false, false)
	f.Pressed = []Key{KeyArrowLeft, KeyW}
	f.Modifiers.Shift = true
	p.Feed(f, h)
	assert.Equal(t, []string{
		fmt.Sprintf("key %d shift=true", KeyArrowLeft),
		fmt.Sprintf("key %d shift=true", KeyW),
	}, h.log)
}

func TestPointerCapture(t *testing.T) {
	p := NewPoller()
	p.SetPointerCapture(3)
	assert.True(t, p.Captured(3))
	p.ReleasePointerCapture(3)
	assert.False(t, p.Captured(3))
}
