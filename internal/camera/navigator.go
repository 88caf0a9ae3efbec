package camera

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"symbol-world/internal/input"
)

// Surface is the view the navigator receives input from: its size in pixels, its
// position on the page and pointer capture.
type Surface interface {
	ClientSize() (width, height float32)
	Bounds() input.Rect
	SetPointerCapture(id int)
	ReleasePointerCapture(id int)
}

// Mode selects a navigator implementation.
type Mode string

const (
	ModeOrbit Mode = "orbit"
	ModeWalk  Mode = "walk"
)

// Navigator turns input events into camera motion.
type Navigator interface {
	PointerDown(ev input.PointerEvent)
	PointerMove(ev input.PointerEvent)
	PointerUp(ev input.PointerEvent)
	PointerCancel(ev input.PointerEvent)
	Wheel(ev input.WheelEvent)
	KeyDown(ev input.KeyEvent)
	ContextMenu()

	// Update reconciles pending input with the camera and reports whether it moved.
	// dt is the time since the previous frame; zero means one frame at 60 fps.
	Update(dt time.Duration) bool
	Resize(aspect float32)

	Camera() *Camera
	Target() rl.Vector3
	SetTarget(target rl.Vector3)
	// Restore puts the camera at a previously reported pose.
	Restore(l Looking)
	// Frame moves the camera so the whole box is in view.
	Frame(box rl.BoundingBox)

	AddListener(l Listener)
	ListenToKeyEvents()
	StopListenToKeyEvents()
	SaveState()
	Reset()
	Dispose()
}

// New builds the navigator for mode. A nil logger discards warnings.
func New(mode Mode, cam *Camera, surface Surface, opts Options, log *zap.Logger) (Navigator, error) {
	switch mode {
	case ModeOrbit, "":
		return NewOrbit(cam, surface, opts, log), nil
	case ModeWalk:
		return NewWalk(cam, surface, opts, log), nil
	}
	return nil, fmt.Errorf("unknown navigator mode %q", mode)
}

// frameDistance is how far from a box's center a camera must stand to see all of it.
func frameDistance(cam *Camera, box rl.BoundingBox) (center rl.Vector3, dist float32) {
	size := rl.Vector3Subtract(box.Max, box.Min)
	center = rl.Vector3Add(box.Min, rl.Vector3Scale(size, 0.5))
	extent := math32.Max(size.X, math32.Max(size.Y, size.Z))
	if extent <= 0 {
		extent = 1
	}
	if cam.Projection != Perspective {
		return center, extent
	}
	half := math32.Tan(cam.Fov * math32.Pi / 360)
	if half <= 0 {
		half = 1
	}
	return center, extent/(2*half) + extent/2
}

func debugf(format string, args ...any) Debug {
	return Debug{Message: fmt.Sprintf(format, args...)}
}

var (
	_ Navigator = (*Orbit)(nil)
	_ Navigator = (*Walk)(nil)
)
