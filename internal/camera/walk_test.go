package camera

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbol-world/internal/input"
)

func newWalk(t *testing.T, pos rl.Vector3, tweak func(*Options)) (*Walk, *fakeSurface, *recorder) {
	t.Helper()
	cam := NewPerspective(45, 1.6, 0.1, 5000)
	cam.Position = pos
	opts := DefaultOptions()
	if tweak != nil {
		tweak(&opts)
	}
	surface := newSurface()
	w := NewWalk(cam, surface, opts, nil)
	w.ListenToKeyEvents()
	rec := &recorder{}
	w.AddListener(rec.listen)
	return w, surface, rec
}

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestWalkKeysStep(t *testing.T) {
	w, _, _ := newWalk(t, rl.NewVector3(0, 2, 10), nil)
	assertVec(t, rl.NewVector3(0, 0, -1), w.Camera().Forward())

	w.KeyDown(input.KeyEvent{Key: input.KeyW})
	assertVec(t, rl.NewVector3(0, 2, 9), w.Camera().Position)
	w.KeyDown(input.KeyEvent{Key: input.KeyD})
	assertVec(t, rl.NewVector3(1, 2, 9), w.Camera().Position)
	w.KeyDown(input.KeyEvent{Key: input.KeyE})
	assertVec(t, rl.NewVector3(1, 3, 9), w.Camera().Position)
	w.KeyDown(input.KeyEvent{Key: input.KeyS})
	w.KeyDown(input.KeyEvent{Key: input.KeyA})
	assertVec(t, rl.NewVector3(0, 3, 10), w.Camera().Position)
}

func TestWalkNeverGoesBelowGround(t *testing.T) {
	w, _, _ := newWalk(t, rl.NewVector3(0, 2, 10), nil)
	for range 10 {
		w.KeyDown(input.KeyEvent{Key: input.KeyQ})
		require.GreaterOrEqual(t, w.Camera().Position.Y, float32(GroundLevel))
	}
	assert.Equal(t, float32(GroundLevel), w.Camera().Position.Y)
}

func TestWalkWheelMovesAlongView(t *testing.T) {
	w, _, rec := newWalk(t, rl.NewVector3(0, 2, 10), func(o *Options) { o.WalkStep = 2 })
	w.Wheel(input.WheelEvent{DeltaY: -1})
	assertVec(t, rl.NewVector3(0, 2, 8), w.Camera().Position)
	w.Wheel(input.WheelEvent{DeltaY: 1})
	assertVec(t, rl.NewVector3(0, 2, 10), w.Camera().Position)
	assert.Equal(t, []string{"start", "change", "end", "start", "change", "end"}, rec.kinds())
}

func TestWalkDragTurnsWithinPolarBounds(t *testing.T) {
	w, surface, _ := newWalk(t, rl.NewVector3(0, 2, 10), func(o *Options) {
		o.WalkMinPolarAngle = 0.5
		o.WalkMaxPolarAngle = 2.0
		o.MaxPolarAngle = 1.0
	})
	w.PointerDown(mouse(1, input.ButtonLeft, 100, 100))
	assert.True(t, surface.captured[1])

	w.PointerMove(mouse(1, input.ButtonLeft, 100, 2000))
	assert.InDelta(t, 2.0, w.PolarAngle(), 1e-4)
	w.PointerMove(mouse(1, input.ButtonLeft, 100, -3000))
	assert.InDelta(t, 0.5, w.PolarAngle(), 1e-4)

	before := w.AzimuthalAngle()
	w.PointerMove(mouse(1, input.ButtonLeft, 150, -3000))
	assert.NotEqual(t, before, w.AzimuthalAngle())
	assertVec(t, rl.NewVector3(0, 2, 10), w.Camera().Position)

	w.PointerUp(mouse(1, input.ButtonLeft, 150, -3000))
	assert.Equal(t, []int{1}, surface.released)
}

func TestWalkMoveWithoutDragIsIgnored(t *testing.T) {
	w, _, rec := newWalk(t, rl.NewVector3(0, 2, 10), nil)
	w.PointerMove(mouse(1, input.ButtonLeft, 300, 300))
	assert.Empty(t, rec.kinds())
	assert.False(t, w.Update(0))
}

func TestWalkRestoreAndFrame(t *testing.T) {
	w, _, _ := newWalk(t, rl.NewVector3(0, 2, 10), nil)
	l := Looking{}
	l.Position.X, l.Position.Y, l.Position.Z = 5, 1, 5
	l.Quaternion.W = 1
	w.Restore(l)
	assertVec(t, rl.NewVector3(5, 1, 5), w.Camera().Position)

	w.Frame(rl.NewBoundingBox(rl.NewVector3(-1, 0, -1), rl.NewVector3(1, 2, 1)))
	assertVec(t, rl.NewVector3(0, 0, -1), w.Camera().Forward())
	assert.InDelta(t, 1, w.Camera().Position.Y, 1e-4)
	assert.Greater(t, w.Camera().Position.Z, float32(1))
}
