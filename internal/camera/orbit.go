package camera

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"symbol-world/internal/gesture"
	"symbol-world/internal/input"
)

// State is the orbit navigator's interaction state.
type State int

const (
	StateIdle State = iota
	StateRotating
	StateDollying
	StatePanning
	StateTouchRotating
	StateTouchPanning
	StateTouchDollyPan
	StateTouchDollyRotate
)

var stateNames = [...]string{
	"idle", "rotating", "dollying", "panning",
	"touch-rotating", "touch-panning", "touch-dolly-pan", "touch-dolly-rotate",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Orbit keeps the camera on a sphere around Target. Drag rotates, the wheel and
// pinch dolly, and right-drag or arrow keys pan.
type Orbit struct {
	dispatcher

	opts    Options
	cam     *Camera
	surface Surface
	log     *zap.Logger
	tracker *gesture.Tracker

	target rl.Vector3
	// Cursor is the center of the sphere the target is kept inside.
	cursor rl.Vector3

	state State

	spherical      Spherical
	sphericalDelta Spherical
	scale          float32
	panOffset      rl.Vector3

	rotateStart rl.Vector2
	panStart    rl.Vector2
	dollyStart  rl.Vector2

	dollyDirection    rl.Vector3
	mouse             rl.Vector2
	performCursorZoom bool

	lastPosition   rl.Vector3
	lastQuaternion rl.Quaternion
	lastTarget     rl.Vector3

	target0   rl.Vector3
	position0 rl.Vector3
	zoom0     float32

	keys     bool
	captured bool
	disposed bool
}

// NewOrbit attaches an orbit navigator to cam. The target starts at the origin and
// the camera is reconciled once before returning.
func NewOrbit(cam *Camera, surface Surface, opts Options, log *zap.Logger) *Orbit {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orbit{
		opts:    opts,
		cam:     cam,
		surface: surface,
		log:     log,
		tracker: gesture.NewTracker(),
		scale:   1,
	}
	o.SaveState()
	o.Update(0)
	return o
}

// Options returns the live options. Changes apply from the next event or Update.
func (o *Orbit) Options() *Options { return &o.opts }

func (o *Orbit) Camera() *Camera { return o.cam }

func (o *Orbit) Target() rl.Vector3 { return o.target }

func (o *Orbit) SetTarget(target rl.Vector3) { o.target = target }

// Cursor returns the point the target is kept near.
func (o *Orbit) Cursor() rl.Vector3 { return o.cursor }

func (o *Orbit) SetCursor(cursor rl.Vector3) { o.cursor = cursor }

// State returns the current interaction state.
func (o *Orbit) State() State { return o.state }

// PolarAngle is the current vertical rotation in radians.
func (o *Orbit) PolarAngle() float32 { return o.spherical.Phi }

// AzimuthalAngle is the current horizontal rotation in radians.
func (o *Orbit) AzimuthalAngle() float32 { return o.spherical.Theta }

// Distance is the camera's distance from the target.
func (o *Orbit) Distance() float32 {
	return rl.Vector3Length(rl.Vector3Subtract(o.cam.Position, o.target))
}

func (o *Orbit) ListenToKeyEvents()     { o.keys = true }
func (o *Orbit) StopListenToKeyEvents() { o.keys = false }

// SaveState remembers the target, position and zoom for Reset.
func (o *Orbit) SaveState() {
	o.target0 = o.target
	o.position0 = o.cam.Position
	o.zoom0 = o.cam.Zoom
}

// Reset returns to the last saved state.
func (o *Orbit) Reset() {
	o.target = o.target0
	o.cam.Position = o.position0
	o.cam.Zoom = o.zoom0
	o.emit(Change{Looking: o.cam.Looking()})
	o.Update(0)
	o.state = StateIdle
}

// Resize updates the camera aspect ratio.
func (o *Orbit) Resize(aspect float32) {
	o.emit(debugf("resize() aspect:%g", aspect))
	o.cam.SetAspect(aspect)
}

// Restore moves the camera to l and re-aims the target straight ahead at the current
// orbit distance.
func (o *Orbit) Restore(l Looking) {
	dist := o.Distance()
	if dist == 0 {
		dist = 1
	}
	o.cam.SetLooking(l)
	o.target = rl.Vector3Add(o.cam.Position, rl.Vector3Scale(o.cam.Forward(), dist))
	o.Update(0)
}

// Frame centers the target on box and backs the camera off along its current
// direction until the box fits.
func (o *Orbit) Frame(box rl.BoundingBox) {
	center, dist := frameDistance(o.cam, box)
	dir := rl.Vector3Subtract(o.cam.Position, o.target)
	if dot(dir, dir) == 0 {
		dir = rl.NewVector3(0, 0, 1)
	}
	o.target = center
	o.cam.Position = rl.Vector3Add(center, rl.Vector3Scale(rl.Vector3Normalize(dir), dist))
	o.cam.LookAt(o.target)
	o.Update(0)
}

// Dispose detaches the navigator: key handling stops, capture is released and
// listeners are dropped. Later events are ignored.
func (o *Orbit) Dispose() {
	o.StopListenToKeyEvents()
	if o.captured {
		for _, id := range o.tracker.IDs() {
			o.surface.ReleasePointerCapture(id)
		}
		o.captured = false
	}
	o.tracker.Reset()
	o.state = StateIdle
	o.disposed = true
	o.clearListeners()
}

func (o *Orbit) active() bool {
	return o.opts.Enabled && !o.disposed
}

// PointerDown starts a drag or touch gesture.
func (o *Orbit) PointerDown(ev input.PointerEvent) {
	o.emit(debugf("onPointerDown(%s) enabled:%t", ev.Type, o.opts.Enabled))
	if !o.active() {
		return
	}
	if o.tracker.Count() == 0 {
		o.surface.SetPointerCapture(ev.ID)
		o.captured = true
	}
	o.tracker.Add(ev)
	if ev.Type == input.Touch {
		o.touchStart(ev)
	} else {
		o.mouseDown(ev)
	}
}

// PointerMove continues the current gesture. Moves without a captured pointer are ignored.
func (o *Orbit) PointerMove(ev input.PointerEvent) {
	if !o.active() || o.tracker.Count() == 0 {
		return
	}
	o.emit(debugf("onPointerMove(%s)", ev.Type))
	if ev.Type == input.Touch {
		o.touchMove(ev)
	} else {
		o.mouseMove(ev)
	}
}

// PointerUp ends the gesture for ev's pointer and returns to Idle. End is only
// emitted when a gesture was under way.
func (o *Orbit) PointerUp(ev input.PointerEvent) {
	o.emit(debugf("onPointerUp(%s) enabled:%t", ev.Type, o.opts.Enabled))
	if o.disposed || !o.tracker.Active(ev.ID) {
		return
	}
	o.tracker.Remove(ev)
	if o.tracker.Count() == 0 && o.captured {
		o.surface.ReleasePointerCapture(ev.ID)
		o.captured = false
	}
	if o.state != StateIdle {
		o.state = StateIdle
		o.emit(End{})
	}
}

// PointerCancel is handled like PointerUp.
func (o *Orbit) PointerCancel(ev input.PointerEvent) {
	o.PointerUp(ev)
}

// ContextMenu swallows the surface's context menu.
func (o *Orbit) ContextMenu() {
	o.emit(debugf("onContextMenu() enabled:%t", o.opts.Enabled))
}

// Wheel dollies in for negative DeltaY and out for positive. It only acts when idle.
func (o *Orbit) Wheel(ev input.WheelEvent) {
	o.emit(debugf("onMouseWheel() enabled:%t enableZoom:%t state:%s", o.opts.Enabled, o.opts.EnableZoom, o.state))
	if !o.active() || !o.opts.EnableZoom || o.state != StateIdle {
		return
	}
	o.emit(Start{})
	o.updateMouseParameters(ev.ClientX, ev.ClientY)
	switch {
	case ev.DeltaY < 0:
		o.DollyIn(o.zoomScale())
	case ev.DeltaY > 0:
		o.DollyOut(o.zoomScale())
	}
	o.Update(0)
	o.emit(End{})
}

// KeyDown pans with the arrow keys, or rotates when ctrl, meta or shift is held.
// Keys are ignored until ListenToKeyEvents is called.
func (o *Orbit) KeyDown(ev input.KeyEvent) {
	if !o.active() || !o.keys || !o.opts.EnablePan {
		return
	}
	_, h := o.clientSize()
	step := 2 * pi * o.opts.RotateSpeed / h
	rotate := ev.Modifiers.Any()
	switch ev.Key {
	case input.KeyArrowUp:
		if rotate {
			o.RotateUp(step)
		} else {
			o.Pan(0, o.opts.KeyPanSpeed)
		}
	case input.KeyArrowDown:
		if rotate {
			o.RotateUp(-step)
		} else {
			o.Pan(0, -o.opts.KeyPanSpeed)
		}
	case input.KeyArrowLeft:
		if rotate {
			o.RotateLeft(step)
		} else {
			o.Pan(o.opts.KeyPanSpeed, 0)
		}
	case input.KeyArrowRight:
		if rotate {
			o.RotateLeft(-step)
		} else {
			o.Pan(-o.opts.KeyPanSpeed, 0)
		}
	default:
		return
	}
	o.Update(0)
}

func (o *Orbit) mouseDown(ev input.PointerEvent) {
	var action Action
	switch ev.Button {
	case input.ButtonLeft:
		action = o.opts.MouseButtons.Left
	case input.ButtonMiddle:
		action = o.opts.MouseButtons.Middle
	case input.ButtonRight:
		action = o.opts.MouseButtons.Right
	}
	swap := ev.Modifiers.Any()
	if swap {
		switch action {
		case ActionRotate:
			action = ActionPan
		case ActionPan:
			action = ActionRotate
		}
	}
	pos := rl.NewVector2(ev.ClientX, ev.ClientY)
	switch action {
	case ActionDolly:
		if !o.opts.EnableZoom {
			return
		}
		o.updateMouseParameters(ev.ClientX, ev.ClientY)
		o.dollyStart = pos
		o.state = StateDollying
	case ActionRotate:
		if !o.opts.EnableRotate {
			return
		}
		o.rotateStart = pos
		o.state = StateRotating
	case ActionPan:
		if !o.opts.EnablePan {
			return
		}
		o.panStart = pos
		o.state = StatePanning
	default:
		o.state = StateIdle
	}
	if o.state != StateIdle {
		o.emit(Start{})
	}
}

func (o *Orbit) mouseMove(ev input.PointerEvent) {
	pos := rl.NewVector2(ev.ClientX, ev.ClientY)
	switch o.state {
	case StateRotating:
		if !o.opts.EnableRotate {
			return
		}
		o.rotateTo(pos)
	case StateDollying:
		if !o.opts.EnableZoom {
			return
		}
		dy := pos.Y - o.dollyStart.Y
		if dy > 0 {
			o.DollyOut(o.zoomScale())
		} else if dy < 0 {
			o.DollyIn(o.zoomScale())
		}
		o.dollyStart = pos
	case StatePanning:
		if !o.opts.EnablePan {
			return
		}
		o.panTo(pos)
	default:
		return
	}
	o.Update(0)
}

func (o *Orbit) touchStart(ev input.PointerEvent) {
	o.tracker.Track(ev)
	wasActive := o.state != StateIdle
	switch o.tracker.Count() {
	case 1:
		first, _ := o.tracker.Position(0)
		switch o.opts.Touches.One {
		case TouchRotate:
			if !o.opts.EnableRotate {
				return
			}
			o.rotateStart = first
			o.state = StateTouchRotating
		case TouchPan:
			if !o.opts.EnablePan {
				return
			}
			o.panStart = first
			o.state = StateTouchPanning
		default:
			o.state = StateIdle
		}
	case 2:
		mid, _ := o.tracker.Midpoint()
		switch o.opts.Touches.Two {
		case TouchDollyPan:
			if !o.opts.EnableZoom && !o.opts.EnablePan {
				return
			}
			o.touchStartDolly()
			if o.opts.EnablePan {
				o.panStart = mid
			}
			o.state = StateTouchDollyPan
		case TouchDollyRotate:
			if !o.opts.EnableZoom && !o.opts.EnableRotate {
				return
			}
			o.touchStartDolly()
			if o.opts.EnableRotate {
				o.rotateStart = mid
			}
			o.state = StateTouchDollyRotate
		default:
			o.state = StateIdle
		}
	default:
		o.state = StateIdle
	}
	// a second finger changes the gesture without starting a new one
	switch {
	case !wasActive && o.state != StateIdle:
		o.emit(Start{})
	case wasActive && o.state == StateIdle:
		o.emit(End{})
	}
}

func (o *Orbit) touchStartDolly() {
	if !o.opts.EnableZoom {
		return
	}
	d, err := o.tracker.Distance()
	if err != nil {
		return
	}
	o.dollyStart = rl.NewVector2(0, d)
}

func (o *Orbit) touchMove(ev input.PointerEvent) {
	o.tracker.Track(ev)
	switch o.state {
	case StateTouchRotating:
		if !o.opts.EnableRotate {
			return
		}
		o.rotateTo(o.gesturePoint(ev))
	case StateTouchPanning:
		if !o.opts.EnablePan {
			return
		}
		o.panTo(o.gesturePoint(ev))
	case StateTouchDollyPan:
		if !o.opts.EnableZoom && !o.opts.EnablePan {
			return
		}
		if o.opts.EnableZoom {
			o.touchMoveDolly(ev)
		}
		if o.opts.EnablePan {
			o.panTo(o.gesturePoint(ev))
		}
	case StateTouchDollyRotate:
		if !o.opts.EnableZoom && !o.opts.EnableRotate {
			return
		}
		if o.opts.EnableZoom {
			o.touchMoveDolly(ev)
		}
		if o.opts.EnableRotate {
			o.rotateTo(o.gesturePoint(ev))
		}
	default:
		o.state = StateIdle
		return
	}
	o.Update(0)
}

// gesturePoint is ev's position for one finger and the two-finger midpoint otherwise.
func (o *Orbit) gesturePoint(ev input.PointerEvent) rl.Vector2 {
	pos := rl.NewVector2(ev.PageX, ev.PageY)
	if o.tracker.Count() == 1 {
		return pos
	}
	other, err := o.tracker.Other(ev)
	if err != nil {
		return pos
	}
	return rl.Vector2Scale(rl.Vector2Add(pos, other), 0.5)
}

// touchMoveDolly scales the radius by the change in finger distance: spreading the
// fingers moves the camera away.
func (o *Orbit) touchMoveDolly(ev input.PointerEvent) {
	other, err := o.tracker.Other(ev)
	if err != nil {
		return
	}
	d := rl.Vector2Length(rl.Vector2Subtract(rl.NewVector2(ev.PageX, ev.PageY), other))
	if o.dollyStart.Y > 0 && d > 0 {
		o.DollyOut(pow(o.dollyStart.Y/d, o.opts.ZoomSpeed))
	}
	o.dollyStart = rl.NewVector2(0, d)
}

func (o *Orbit) rotateTo(pos rl.Vector2) {
	delta := rl.Vector2Scale(rl.Vector2Subtract(pos, o.rotateStart), o.opts.RotateSpeed)
	_, h := o.clientSize()
	o.RotateLeft(2 * pi * delta.X / h)
	o.RotateUp(2 * pi * delta.Y / h)
	o.rotateStart = pos
}

func (o *Orbit) panTo(pos rl.Vector2) {
	delta := rl.Vector2Scale(rl.Vector2Subtract(pos, o.panStart), o.opts.PanSpeed)
	o.Pan(delta.X, delta.Y)
	o.panStart = pos
}
