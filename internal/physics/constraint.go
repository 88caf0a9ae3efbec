package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DistanceConstraint keeps two bodies' centers a fixed distance apart.
type DistanceConstraint struct {
	A, B     *Body
	Distance float32
}

// NewDistanceConstraint links a and b at their current separation.
func NewDistanceConstraint(a, b *Body) *DistanceConstraint {
	return &DistanceConstraint{
		A:        a,
		B:        b,
		Distance: rl.Vector3Distance(a.Position, b.Position),
	}
}

// solve moves both bodies along the line between them, split by inverse mass.
func (c *DistanceConstraint) solve() {
	w := c.A.invMass + c.B.invMass
	if w == 0 {
		return
	}
	delta := rl.Vector3Subtract(c.B.Position, c.A.Position)
	d := rl.Vector3Length(delta)
	if d == 0 {
		return
	}
	corr := rl.Vector3Scale(delta, (d-c.Distance)/(d*w))
	c.A.Position = rl.Vector3Add(c.A.Position, rl.Vector3Scale(corr, c.A.invMass))
	c.B.Position = rl.Vector3Subtract(c.B.Position, rl.Vector3Scale(corr, c.B.invMass))
}
