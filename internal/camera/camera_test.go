package camera

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestLookAt(t *testing.T) {
	cases := []struct {
		name    string
		pos     rl.Vector3
		forward rl.Vector3
	}{
		{"from +z", rl.NewVector3(0, 0, 10), rl.NewVector3(0, 0, -1)},
		{"from +x", rl.NewVector3(10, 0, 0), rl.NewVector3(-1, 0, 0)},
		{"from -x", rl.NewVector3(-10, 0, 0), rl.NewVector3(1, 0, 0)},
		{"from above and behind", rl.NewVector3(0, 10, 10), rl.NewVector3(0, -0.70710677, -0.70710677)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewPerspective(45, 1, 0.1, 100)
			cam.Position = tc.pos
			cam.LookAt(rl.Vector3{})
			assertVec(t, tc.forward, cam.Forward())
		})
	}
}

func TestLookAtKeepsUpRight(t *testing.T) {
	cam := NewPerspective(45, 1, 0.1, 100)
	cam.Position = rl.NewVector3(3, 4, 5)
	cam.LookAt(rl.Vector3{})
	x, y, _ := cam.Basis()
	assert.InDelta(t, 0, x.Y, 1e-5, "no roll")
	assert.Greater(t, y.Y, float32(0))
}

func TestSphericalRoundTrip(t *testing.T) {
	v := rl.NewVector3(3, -4, 12)
	s := SphericalFromVector(v)
	assert.InDelta(t, 13, s.Radius, 1e-5)
	assertVec(t, v, s.Vector())

	s = Spherical{Radius: 1, Phi: 0}
	s.MakeSafe()
	assert.Greater(t, s.Phi, float32(0))
	assert.Equal(t, Spherical{}, SphericalFromVector(rl.Vector3{}))
}

func TestRayThroughCenterIsForward(t *testing.T) {
	cam := NewPerspective(60, 1.5, 0.1, 100)
	cam.Position = rl.NewVector3(4, 4, 4)
	cam.LookAt(rl.Vector3{})
	ray := cam.Ray(0, 0)
	assertVec(t, cam.Position, ray.Position)
	assertVec(t, cam.Forward(), ray.Direction)

	right := cam.Ray(1, 0)
	x, _, _ := cam.Basis()
	assert.Greater(t, dot(right.Direction, x), float32(0))
	// the frustum edge is half the horizontal field of view off axis
	half := math32.Atan(math32.Tan(30*math32.Pi/180) * 1.5)
	assert.InDelta(t, math32.Cos(half), dot(right.Direction, cam.Forward()), 1e-4)
}

func TestOrthographicUnproject(t *testing.T) {
	cam := NewOrthographic(-10, 10, 5, -5, 1, 21)
	cam.Zoom = 2
	p := cam.Unproject(1, 1, 0)
	assertVec(t, rl.NewVector3(5, 2.5, -11), p)

	ray := cam.Ray(-1, 0)
	assertVec(t, rl.NewVector3(-5, 0, -1), ray.Position)
	assertVec(t, rl.NewVector3(0, 0, -1), ray.Direction)
}

func TestLookingRoundTrip(t *testing.T) {
	cam := NewPerspective(45, 1, 0.1, 100)
	cam.Position = rl.NewVector3(1, 2, 3)
	cam.LookAt(rl.Vector3{})
	l := cam.Looking()

	other := NewPerspective(45, 1, 0.1, 100)
	other.SetLooking(l)
	assertVec(t, cam.Position, other.Position)
	assertVec(t, cam.Forward(), other.Forward())

	other.SetLooking(Looking{})
	assert.Equal(t, rl.QuaternionIdentity(), other.Quaternion)
}

func TestRaylibCamera(t *testing.T) {
	cam := NewPerspective(45, 1, 0.1, 100)
	cam.Position = rl.NewVector3(0, 0, 10)
	cam.LookAt(rl.Vector3{})
	rc := cam.Raylib(rl.Vector3{})
	assertVec(t, rl.Vector3{}, rc.Target)
	assertVec(t, rl.NewVector3(0, 1, 0), rc.Up)
	assert.Equal(t, rl.CameraPerspective, rc.Projection)
}
