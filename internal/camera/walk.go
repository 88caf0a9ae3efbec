package camera

import (
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"symbol-world/internal/gesture"
	"symbol-world/internal/input"
)

// GroundLevel is the lowest height a walking camera may reach.
const GroundLevel = 0

// Walk is a first-person navigator. Dragging turns the view, the wheel steps along the
// view direction and W/A/S/D/Q/E step forward, sideways and vertically. There is no
// orbit target.
type Walk struct {
	dispatcher

	opts    Options
	cam     *Camera
	surface Surface
	log     *zap.Logger
	tracker *gesture.Tracker

	last     rl.Vector2
	dragging bool

	// pending input, applied by Update
	deltaTheta float32
	deltaPhi   float32
	move       rl.Vector3

	lastPosition   rl.Vector3
	lastQuaternion rl.Quaternion

	position0   rl.Vector3
	quaternion0 rl.Quaternion

	keys     bool
	captured bool
	disposed bool
}

// NewWalk attaches a walk-through navigator to cam.
func NewWalk(cam *Camera, surface Surface, opts Options, log *zap.Logger) *Walk {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Walk{
		opts:    opts,
		cam:     cam,
		surface: surface,
		log:     log,
		tracker: gesture.NewTracker(),
	}
	w.SaveState()
	w.Update(0)
	return w
}

func (w *Walk) Options() *Options { return &w.opts }

func (w *Walk) Camera() *Camera { return w.cam }

// Target is the point one unit ahead of the camera.
func (w *Walk) Target() rl.Vector3 {
	return rl.Vector3Add(w.cam.Position, w.cam.Forward())
}

// SetTarget turns the camera to face target.
func (w *Walk) SetTarget(target rl.Vector3) {
	w.cam.LookAt(target)
}

// PolarAngle is the angle between +Y and the view direction.
func (w *Walk) PolarAngle() float32 {
	return SphericalFromVector(w.cam.Forward()).Phi
}

// AzimuthalAngle is the view direction's angle around +Y.
func (w *Walk) AzimuthalAngle() float32 {
	return SphericalFromVector(w.cam.Forward()).Theta
}

func (w *Walk) ListenToKeyEvents()     { w.keys = true }
func (w *Walk) StopListenToKeyEvents() { w.keys = false }

func (w *Walk) SaveState() {
	w.position0 = w.cam.Position
	w.quaternion0 = w.cam.Quaternion
}

func (w *Walk) Reset() {
	w.cam.Position = w.position0
	w.cam.Quaternion = w.quaternion0
	w.emit(Change{Looking: w.cam.Looking()})
	w.Update(0)
	w.dragging = false
}

func (w *Walk) Resize(aspect float32) {
	w.emit(debugf("resize() aspect:%g", aspect))
	w.cam.SetAspect(aspect)
}

func (w *Walk) Restore(l Looking) {
	w.cam.SetLooking(l)
	w.Update(0)
}

// Frame backs the camera away from the box center, keeping the view direction.
func (w *Walk) Frame(box rl.BoundingBox) {
	center, dist := frameDistance(w.cam, box)
	w.cam.Position = rl.Vector3Subtract(center, rl.Vector3Scale(w.cam.Forward(), dist))
	w.cam.LookAt(center)
	w.Update(0)
}

func (w *Walk) Dispose() {
	w.StopListenToKeyEvents()
	if w.captured {
		for _, id := range w.tracker.IDs() {
			w.surface.ReleasePointerCapture(id)
		}
		w.captured = false
	}
	w.tracker.Reset()
	w.dragging = false
	w.disposed = true
	w.clearListeners()
}

func (w *Walk) active() bool {
	return w.opts.Enabled && !w.disposed
}

func (w *Walk) PointerDown(ev input.PointerEvent) {
	w.emit(debugf("onPointerDown(%s) enabled:%t", ev.Type, w.opts.Enabled))
	if !w.active() {
		return
	}
	if w.tracker.Count() == 0 {
		w.surface.SetPointerCapture(ev.ID)
		w.captured = true
	}
	w.tracker.Add(ev)
	w.tracker.Track(ev)
	if w.dragging || !w.opts.EnableRotate {
		return
	}
	w.last = rl.NewVector2(ev.PageX, ev.PageY)
	w.dragging = true
	w.emit(Start{})
}

// PointerMove turns the view by the drag delta while a pointer is captured.
func (w *Walk) PointerMove(ev input.PointerEvent) {
	if !w.active() || !w.dragging || w.tracker.Count() == 0 {
		return
	}
	w.tracker.Track(ev)
	if ev.ID != w.tracker.IDs()[0] {
		return
	}
	pos := rl.NewVector2(ev.PageX, ev.PageY)
	delta := rl.Vector2Scale(rl.Vector2Subtract(pos, w.last), w.opts.RotateSpeed)
	w.last = pos
	_, h := w.clientHeight()
	w.deltaTheta -= 2 * pi * delta.X / h
	w.deltaPhi += 2 * pi * delta.Y / h
	w.Update(0)
}

func (w *Walk) PointerUp(ev input.PointerEvent) {
	w.emit(debugf("onPointerUp(%s) enabled:%t", ev.Type, w.opts.Enabled))
	if w.disposed || !w.tracker.Active(ev.ID) {
		return
	}
	w.tracker.Remove(ev)
	if w.tracker.Count() > 0 {
		first, err := w.tracker.Position(0)
		if err == nil {
			w.last = first
		}
		return
	}
	if w.captured {
		w.surface.ReleasePointerCapture(ev.ID)
		w.captured = false
	}
	if w.dragging {
		w.dragging = false
		w.emit(End{})
	}
}

func (w *Walk) PointerCancel(ev input.PointerEvent) {
	w.PointerUp(ev)
}

func (w *Walk) ContextMenu() {
	w.emit(debugf("onContextMenu() enabled:%t", w.opts.Enabled))
}

// Wheel steps forward for negative DeltaY and backward for positive.
func (w *Walk) Wheel(ev input.WheelEvent) {
	w.emit(debugf("onMouseWheel() enabled:%t enableZoom:%t", w.opts.Enabled, w.opts.EnableZoom))
	if !w.active() || !w.opts.EnableZoom || w.dragging || ev.DeltaY == 0 {
		return
	}
	w.emit(Start{})
	step := w.opts.WalkStep
	if ev.DeltaY > 0 {
		step = -step
	}
	w.queueMove(w.cam.Forward(), step)
	w.Update(0)
	w.emit(End{})
}

// KeyDown steps with W/A/S/D (forward, left, back, right) and Q/E (down, up). The
// arrow keys turn the view. Keys need ListenToKeyEvents and EnablePan.
func (w *Walk) KeyDown(ev input.KeyEvent) {
	if !w.active() || !w.keys || !w.opts.EnablePan {
		return
	}
	right, _, _ := w.cam.Basis()
	up := rl.NewVector3(0, 1, 0)
	step := w.opts.WalkStep
	_, h := w.clientHeight()
	turn := 2 * pi * w.opts.RotateSpeed / h
	switch ev.Key {
	case input.KeyW:
		w.queueMove(w.cam.Forward(), step)
	case input.KeyS:
		w.queueMove(w.cam.Forward(), -step)
	case input.KeyA:
		w.queueMove(right, -step)
	case input.KeyD:
		w.queueMove(right, step)
	case input.KeyQ:
		w.queueMove(up, -step)
	case input.KeyE:
		w.queueMove(up, step)
	case input.KeyArrowLeft:
		w.deltaTheta += turn
	case input.KeyArrowRight:
		w.deltaTheta -= turn
	case input.KeyArrowUp:
		w.deltaPhi -= turn
	case input.KeyArrowDown:
		w.deltaPhi += turn
	default:
		return
	}
	w.Update(0)
}

func (w *Walk) queueMove(dir rl.Vector3, step float32) {
	w.move = rl.Vector3Add(w.move, rl.Vector3Scale(dir, step))
}

// Update applies pending turns and steps. The view's polar angle stays within
// [WalkMinPolarAngle, WalkMaxPolarAngle] and the camera never drops below GroundLevel.
func (w *Walk) Update(time.Duration) bool {
	cam := w.cam
	view := SphericalFromVector(cam.Forward())
	view.Radius = 1
	view.Theta += w.deltaTheta
	view.Phi += w.deltaPhi
	view.Phi = math32.Max(w.opts.WalkMinPolarAngle, math32.Min(w.opts.WalkMaxPolarAngle, view.Phi))
	view.MakeSafe()
	w.deltaTheta, w.deltaPhi = 0, 0

	cam.Position = rl.Vector3Add(cam.Position, w.move)
	w.move = rl.Vector3{}
	if cam.Position.Y < GroundLevel {
		cam.Position.Y = GroundLevel
	}
	cam.LookAt(rl.Vector3Add(cam.Position, view.Vector()))

	if distanceSqr(w.lastPosition, cam.Position) > changeEpsilon ||
		8*(1-quaternionDot(w.lastQuaternion, cam.Quaternion)) > changeEpsilon {
		w.lastPosition = cam.Position
		w.lastQuaternion = cam.Quaternion
		w.emit(Change{Looking: cam.Looking()})
		return true
	}
	return false
}

func (w *Walk) clientHeight() (width, height float32) {
	width, height = w.surface.ClientSize()
	if height <= 0 {
		height = 1
	}
	return width, height
}
