package scene

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbol-world/internal/camera"
	"symbol-world/internal/physics"
	"symbol-world/internal/symbol"
)

func pair(name string, pos rl.Vector3, size float32) *Pair {
	s := rl.NewVector3(size, size, size)
	return &Pair{
		Body:   physics.NewBody(pos, 1, physics.HollowBox(s, 0.1)...),
		Mesh:   NewBox(s, pos, rl.Gray),
		Symbol: symbol.New(symbol.Function, name, "a.go", 1, 10),
	}
}

func lookingDownZ(pos rl.Vector3) *camera.Camera {
	cam := camera.NewPerspective(45, 1, 0.1, 1000)
	cam.Position = pos
	return cam
}

func TestPickReturnsNearest(t *testing.T) {
	s := New()
	far := pair("far", rl.NewVector3(0, 3, 0), 4)
	near := pair("near", rl.NewVector3(0, 3, 10), 4)
	s.SetLayout(&Layout{Pairs: []*Pair{far, near}})

	got := s.Pick(0, 0, lookingDownZ(rl.NewVector3(0, 3, 50)))
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Name)
}

func TestPickMissAndOccluders(t *testing.T) {
	s := New()
	box := pair("box", rl.NewVector3(0, 3, 0), 4)
	anchor := &Pair{Body: physics.NewBody(rl.NewVector3(0, 3, 20), 0), Mesh: NewSphere(2, rl.NewVector3(0, 3, 20), rl.Red)}
	s.SetLayout(&Layout{Anchor: anchor, Pairs: []*Pair{box}})

	assert.Nil(t, s.Pick(0, 0, lookingDownZ(rl.NewVector3(0, 3, 50))), "anchor is in front")
	assert.Nil(t, s.Pick(0, 0, lookingDownZ(rl.NewVector3(100, 3, 50))), "nothing along the ray")

	down := camera.NewPerspective(45, 1, 0.1, 1000)
	down.Position = rl.NewVector3(50, 10, 50)
	down.LookAt(rl.NewVector3(50, 0, 49))
	assert.Nil(t, s.Pick(0, 0, down), "ground has no symbol")
}

func TestPickHonorsRotation(t *testing.T) {
	s := New()
	p := pair("turned", rl.NewVector3(0, 3, 0), 2)
	p.Mesh.Quaternion = rl.QuaternionFromAxisAngle(rl.NewVector3(0, 1, 0), math32.Pi/4)
	s.SetLayout(&Layout{Pairs: []*Pair{p}})

	cam := camera.NewOrthographic(-10, 10, 10, -10, 0.1, 1000)
	cam.Position = rl.NewVector3(0, 3, 50)
	// x = 1.2 is outside the unrotated box but inside the turned one
	got := s.Pick(0.12, 0, cam)
	require.Len(t, got, 1)
	assert.Equal(t, "turned", got[0].Name)

	assert.Nil(t, s.Pick(0.16, 0, cam))
}

func TestScreenToNDC(t *testing.T) {
	x, y := ScreenToNDC(0, 0, 800, 600)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)
	x, y = ScreenToNDC(400, 450, 800, 600)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(-0.5), y)
	x, y = ScreenToNDC(5, 5, 0, 0)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestSyncAndStore(t *testing.T) {
	s := New()
	p := pair("moved", rl.NewVector3(0, 3, 0), 2)
	anchor := &Pair{Body: physics.NewBody(rl.NewVector3(0, 30, 0), 0), Mesh: NewSphere(10, rl.NewVector3(0, 30, 0), rl.Red)}
	l := &Layout{Anchor: anchor, Pairs: []*Pair{p}}
	s.SetLayout(l)
	assert.Equal(t, 1, s.Count())
	assert.Len(t, s.Meshes(), 3)

	p.Body.Position = rl.NewVector3(1, 2, 3)
	p.Body.Quaternion = rl.NewQuaternion(0, 0, 0, 1)
	s.Sync()
	assert.Equal(t, rl.NewVector3(1, 2, 3), p.Mesh.Position)

	l.Store()
	require.NotNil(t, p.Symbol.Position)
	assert.Equal(t, symbol.Position{X: 1, Y: 2, Z: 3}, *p.Symbol.Position)
	assert.Equal(t, symbol.Quaternion{W: 1}, *p.Symbol.Quaternion)

	assert.Equal(t, []*physics.Body{anchor.Body, p.Body}, l.Bodies())

	s.Clear()
	assert.Nil(t, s.Layout())
	assert.Zero(t, s.Count())
	assert.Len(t, s.Meshes(), 1)
}

func TestLayoutExtendAndFrame(t *testing.T) {
	var l Layout
	l.Extend(rl.NewBoundingBox(rl.NewVector3(0, 0, 0), rl.NewVector3(1, 1, 1)))
	l.Extend(rl.NewBoundingBox(rl.NewVector3(-2, 0.5, 0), rl.NewVector3(0, 3, 0.5)))
	assert.Equal(t, rl.NewBoundingBox(rl.NewVector3(-2, 0, 0), rl.NewVector3(1, 3, 1)), l.Bounds)

	l.Pairs = []*Pair{pair("a", rl.NewVector3(0, 5, 0), 2), pair("b", rl.NewVector3(0, 1, 0), 2)}
	frame := l.Frame()
	assert.Equal(t, rl.NewVector3(-1, 0, -1), frame.Min)
	assert.Equal(t, rl.NewVector3(1, 6, 1), frame.Max)
}
