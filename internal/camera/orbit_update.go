package camera

import (
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const (
	pi    = math32.Pi
	twoPi = 2 * math32.Pi

	// changeEpsilon is the squared displacement (and scaled rotation) below which
	// an update does not count as a camera change.
	changeEpsilon = 1e-6
)

func pow(x, y float32) float32 { return math32.Pow(x, y) }

// Update applies pending rotation, pan and dolly to the camera. It emits Change and
// returns true only when the camera or target actually moved since the last change.
func (o *Orbit) Update(dt time.Duration) bool {
	cam := o.cam

	// orbit around cam.Up rather than world +Y
	quat := quaternionFromUnitVectors(rl.Vector3Normalize(cam.Up), rl.NewVector3(0, 1, 0))
	quatInverse := rl.QuaternionInvert(quat)

	offset := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(cam.Position, o.target), quat)
	o.spherical = SphericalFromVector(offset)

	if o.opts.AutoRotate && o.state == StateIdle {
		o.RotateLeft(o.autoRotationAngle(dt))
	}

	damping := float32(1)
	if o.opts.EnableDamping {
		damping = o.opts.DampingFactor
	}
	o.spherical.Theta += o.sphericalDelta.Theta * damping
	o.spherical.Phi += o.sphericalDelta.Phi * damping

	o.spherical.Theta = clampAzimuth(o.spherical.Theta, o.opts.MinAzimuthAngle, o.opts.MaxAzimuthAngle)
	o.spherical.Phi = math32.Max(o.opts.MinPolarAngle, math32.Min(o.opts.MaxPolarAngle, o.spherical.Phi))
	o.spherical.MakeSafe()

	o.target = rl.Vector3Add(o.target, rl.Vector3Scale(o.panOffset, damping))
	o.clampTarget()

	cursorZoom := o.opts.ZoomToCursor && o.performCursorZoom
	radiusScale := o.scale
	if cursorZoom || cam.Projection == Orthographic {
		radiusScale = 1
	}
	o.spherical.Radius = o.clampDistance(o.spherical.Radius * radiusScale)

	offset = rl.Vector3RotateByQuaternion(o.spherical.Vector(), quatInverse)
	cam.Position = rl.Vector3Add(o.target, offset)
	cam.LookAt(o.target)

	if o.opts.EnableDamping {
		o.sphericalDelta.Theta *= 1 - o.opts.DampingFactor
		o.sphericalDelta.Phi *= 1 - o.opts.DampingFactor
		o.panOffset = rl.Vector3Scale(o.panOffset, 1-o.opts.DampingFactor)
	} else {
		o.sphericalDelta = Spherical{}
		o.panOffset = rl.Vector3{}
	}

	zoomChanged := false
	if cursorZoom {
		zoomChanged = o.zoomToCursor(offset)
	} else if cam.Projection == Orthographic {
		zoomChanged = o.applyOrthoZoom()
	}

	o.scale = 1
	o.performCursorZoom = false

	// small-angle approximation: cos(x/2) = 1 - x^2/8
	if zoomChanged ||
		distanceSqr(o.lastPosition, cam.Position) > changeEpsilon ||
		8*(1-quaternionDot(o.lastQuaternion, cam.Quaternion)) > changeEpsilon ||
		distanceSqr(o.lastTarget, o.target) > 0 {
		o.lastPosition = cam.Position
		o.lastQuaternion = cam.Quaternion
		o.lastTarget = o.target
		o.emit(Change{Looking: cam.Looking()})
		return true
	}
	return false
}

// zoomToCursor moves the camera along the ray under the pointer instead of toward the
// target, then re-places the target in front of the camera.
func (o *Orbit) zoomToCursor(offset rl.Vector3) (zoomChanged bool) {
	cam := o.cam
	var newRadius float32
	switch cam.Projection {
	case Perspective:
		prevRadius := rl.Vector3Length(offset)
		newRadius = o.clampDistance(prevRadius * o.scale)
		cam.Position = rl.Vector3Add(cam.Position, rl.Vector3Scale(o.dollyDirection, prevRadius-newRadius))
	case Orthographic:
		before := cam.Unproject(o.mouse.X, o.mouse.Y, 0)
		zoomChanged = o.applyOrthoZoom()
		after := cam.Unproject(o.mouse.X, o.mouse.Y, 0)
		cam.Position = rl.Vector3Add(rl.Vector3Subtract(cam.Position, after), before)
		newRadius = rl.Vector3Length(offset)
	default:
		o.log.Warn("unknown camera projection, zoom to cursor disabled", zap.Stringer("projection", cam.Projection))
		o.opts.ZoomToCursor = false
		return false
	}

	forward := cam.Forward()
	if o.opts.ScreenSpacePanning {
		o.target = rl.Vector3Add(cam.Position, rl.Vector3Scale(forward, newRadius))
		return zoomChanged
	}
	// near-horizontal views would put the ground intersection far away
	if math32.Abs(dot(cam.Up, forward)) < o.opts.TiltLimit {
		cam.LookAt(o.target)
		return zoomChanged
	}
	if hit, ok := intersectPlane(cam.Position, forward, cam.Up, o.target); ok {
		o.target = hit
	}
	return zoomChanged
}

func (o *Orbit) applyOrthoZoom() bool {
	prev := o.cam.Zoom
	o.cam.Zoom = math32.Max(o.opts.MinZoom, math32.Min(o.opts.MaxZoom, o.cam.Zoom/o.scale))
	return o.cam.Zoom != prev
}

func (o *Orbit) autoRotationAngle(dt time.Duration) float32 {
	if dt > 0 {
		return twoPi / 60 * o.opts.AutoRotateSpeed * float32(dt.Seconds())
	}
	return twoPi / 60 / 60 * o.opts.AutoRotateSpeed
}

func (o *Orbit) zoomScale() float32 {
	return pow(0.95, o.opts.ZoomSpeed)
}

// RotateLeft queues a rotation around the up axis. Positive angles turn the camera
// to the right around the target.
func (o *Orbit) RotateLeft(angle float32) {
	o.sphericalDelta.Theta -= angle
}

// RotateUp queues a change of polar angle.
func (o *Orbit) RotateUp(angle float32) {
	o.sphericalDelta.Phi -= angle
}

// DollyIn queues a move toward the target by factor scale (< 1 for a real move).
func (o *Orbit) DollyIn(scale float32) {
	if !o.projectionSupported("dolly/zoom") {
		o.opts.EnableZoom = false
		return
	}
	o.scale *= scale
}

// DollyOut queues a move away from the target by factor scale.
func (o *Orbit) DollyOut(scale float32) {
	if !o.projectionSupported("dolly/zoom") {
		o.opts.EnableZoom = false
		return
	}
	o.scale /= scale
}

// Pan queues a translation of camera and target by a screen-space delta in pixels;
// right and down are positive.
func (o *Orbit) Pan(deltaX, deltaY float32) {
	w, h := o.clientSize()
	cam := o.cam
	switch cam.Projection {
	case Perspective:
		targetDistance := rl.Vector3Length(rl.Vector3Subtract(cam.Position, o.target))
		// half of the fov is center to top of screen
		targetDistance *= math32.Tan(cam.Fov / 2 * pi / 180)
		// height only, so aspect ratio does not distort speed
		o.panLeft(2 * deltaX * targetDistance / h)
		o.panUp(2 * deltaY * targetDistance / h)
	case Orthographic:
		o.panLeft(deltaX * (cam.Right - cam.Left) / cam.zoom() / w)
		o.panUp(deltaY * (cam.Top - cam.Bottom) / cam.zoom() / h)
	default:
		o.projectionSupported("pan")
		o.opts.EnablePan = false
	}
}

func (o *Orbit) panLeft(distance float32) {
	x, _, _ := o.cam.Basis()
	o.panOffset = rl.Vector3Add(o.panOffset, rl.Vector3Scale(x, -distance))
}

func (o *Orbit) panUp(distance float32) {
	x, y, _ := o.cam.Basis()
	v := y
	if !o.opts.ScreenSpacePanning {
		v = rl.Vector3CrossProduct(o.cam.Up, x)
	}
	o.panOffset = rl.Vector3Add(o.panOffset, rl.Vector3Scale(v, distance))
}

func (o *Orbit) projectionSupported(feature string) bool {
	switch o.cam.Projection {
	case Perspective, Orthographic:
		return true
	}
	o.log.Warn("unknown camera projection, "+feature+" disabled", zap.Stringer("projection", o.cam.Projection))
	return false
}

// updateMouseParameters records the pointer for zoom-to-cursor.
func (o *Orbit) updateMouseParameters(clientX, clientY float32) {
	if !o.opts.ZoomToCursor {
		return
	}
	o.performCursorZoom = true
	rect := o.surface.Bounds()
	w, h := rect.Width, rect.Height
	if w <= 0 || h <= 0 {
		w, h = o.clientSize()
	}
	x, y := clientX-rect.X, clientY-rect.Y
	o.mouse = rl.NewVector2(x/w*2-1, -(y/h)*2+1)
	far := o.cam.Unproject(o.mouse.X, o.mouse.Y, 1)
	o.dollyDirection = rl.Vector3Normalize(rl.Vector3Subtract(far, o.cam.Position))
}

func (o *Orbit) clampDistance(d float32) float32 {
	return math32.Max(o.opts.MinDistance, math32.Min(o.opts.MaxDistance, d))
}

// clampTarget keeps the target within [MinTargetRadius, MaxTargetRadius] of the cursor.
// In-range targets are left untouched so repeated updates do not drift.
func (o *Orbit) clampTarget() {
	d := rl.Vector3Subtract(o.target, o.cursor)
	l := math32.Sqrt(dot(d, d))
	if l == 0 || (l >= o.opts.MinTargetRadius && l <= o.opts.MaxTargetRadius) {
		return
	}
	clamped := math32.Max(o.opts.MinTargetRadius, math32.Min(o.opts.MaxTargetRadius, l))
	o.target = rl.Vector3Add(o.cursor, rl.Vector3Scale(d, clamped/l))
}

func (o *Orbit) clientSize() (w, h float32) {
	w, h = o.surface.ClientSize()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// clampAzimuth restricts theta to [lo, hi] when both are finite. Bounds outside
// [-Pi, Pi] are wrapped first; an interval that crosses the +-Pi seam (lo > hi)
// clamps toward whichever bound is nearer.
func clampAzimuth(theta, lo, hi float32) float32 {
	if math32.IsInf(lo, 0) || math32.IsInf(hi, 0) {
		return theta
	}
	if lo < -pi {
		lo += twoPi
	} else if lo > pi {
		lo -= twoPi
	}
	if hi < -pi {
		hi += twoPi
	} else if hi > pi {
		hi -= twoPi
	}
	if lo <= hi {
		return math32.Max(lo, math32.Min(hi, theta))
	}
	if theta > (lo+hi)/2 {
		return math32.Max(lo, theta)
	}
	return math32.Min(hi, theta)
}

// quaternionFromUnitVectors is the shortest rotation taking from onto to.
func quaternionFromUnitVectors(from, to rl.Vector3) rl.Quaternion {
	r := dot(from, to) + 1
	var q rl.Quaternion
	if r < 1e-6 {
		// opposite vectors: rotate 180 degrees around any perpendicular axis
		if math32.Abs(from.X) > math32.Abs(from.Z) {
			q = rl.NewQuaternion(-from.Y, from.X, 0, 0)
		} else {
			q = rl.NewQuaternion(0, -from.Z, from.Y, 0)
		}
	} else {
		c := rl.Vector3CrossProduct(from, to)
		q = rl.NewQuaternion(c.X, c.Y, c.Z, r)
	}
	return rl.QuaternionNormalize(q)
}

// intersectPlane returns where the ray hits the plane through point with the given normal.
func intersectPlane(origin, dir, normal, point rl.Vector3) (rl.Vector3, bool) {
	denom := dot(normal, dir)
	if denom == 0 {
		return rl.Vector3{}, false
	}
	t := dot(normal, rl.Vector3Subtract(point, origin)) / denom
	if t < 0 {
		return rl.Vector3{}, false
	}
	return rl.Vector3Add(origin, rl.Vector3Scale(dir, t)), true
}

func distanceSqr(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return dot(d, d)
}
