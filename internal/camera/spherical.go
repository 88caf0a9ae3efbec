package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// poleEpsilon keeps the polar angle off the poles where the azimuth is undefined.
const poleEpsilon = 1e-6

// Spherical is a point relative to an origin: Radius, Phi measured down from +Y and
// Theta measured around +Y from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVector converts a Y-up offset into spherical coordinates.
func SphericalFromVector(v rl.Vector3) Spherical {
	r := math32.Sqrt(dot(v, v))
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math32.Atan2(v.X, v.Z),
		Phi:    math32.Acos(rl.Clamp(v.Y/r, -1, 1)),
	}
}

// Vector converts back to a Y-up offset.
func (s Spherical) Vector() rl.Vector3 {
	sinPhiRadius := math32.Sin(s.Phi) * s.Radius
	return rl.NewVector3(
		sinPhiRadius*math32.Sin(s.Theta),
		math32.Cos(s.Phi)*s.Radius,
		sinPhiRadius*math32.Cos(s.Theta),
	)
}

// MakeSafe pulls Phi off the poles.
func (s *Spherical) MakeSafe() {
	s.Phi = math32.Max(poleEpsilon, math32.Min(math32.Pi-poleEpsilon, s.Phi))
}
