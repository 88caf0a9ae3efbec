package physics

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FixedStep is the simulation step in seconds.
const FixedStep = float32(1) / 60

// DefaultIterations is the number of constraint and contact passes per step.
const DefaultIterations = 10

// World holds bodies and distance constraints and advances them with a
// position-based step: integrate, then relax constraints and contacts, then
// derive velocities from the corrected positions.
type World struct {
	Gravity    rl.Vector3
	Iterations int

	bodies      []*Body
	constraints []*DistanceConstraint
}

// NewWorld returns an empty world with gravity (0, -9.82, 0).
func NewWorld() *World {
	return &World{
		Gravity:    rl.NewVector3(0, -9.82, 0),
		Iterations: DefaultIterations,
	}
}

// AddBody appends a body. Order is preserved.
func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// RemoveBody removes b and every constraint that references it.
func (w *World) RemoveBody(b *Body) {
	w.bodies = slices.DeleteFunc(w.bodies, func(x *Body) bool { return x == b })
	w.constraints = slices.DeleteFunc(w.constraints, func(c *DistanceConstraint) bool {
		return c.A == b || c.B == b
	})
}

// AddConstraint registers c.
func (w *World) AddConstraint(c *DistanceConstraint) {
	w.constraints = append(w.constraints, c)
}

// RemoveConstraint unregisters c.
func (w *World) RemoveConstraint(c *DistanceConstraint) {
	w.constraints = slices.DeleteFunc(w.constraints, func(x *DistanceConstraint) bool { return x == c })
}

func (w *World) Bodies() []*Body                    { return w.bodies }
func (w *World) Constraints() []*DistanceConstraint { return w.constraints }

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.prev = b.Position
		if b.Static() {
			b.Velocity = rl.Vector3{}
			continue
		}
		b.Velocity = rl.Vector3Scale(rl.Vector3Add(b.Velocity, rl.Vector3Scale(w.Gravity, dt)), b.Damping)
		b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(b.Velocity, dt))
	}

	iterations := max(w.Iterations, 1)
	for range iterations {
		for _, c := range w.constraints {
			c.solve()
		}
		w.resolveContacts()
	}

	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		b.Velocity = rl.Vector3Scale(rl.Vector3Subtract(b.Position, b.prev), 1/dt)
	}
}

// resolveContacts pushes overlapping bodies apart along the axis of least
// penetration, away from each other's centers, split by inverse mass.
func (w *World) resolveContacts() {
	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			total := bi.invMass + bj.invMass
			if total == 0 {
				continue
			}
			boxI, boxJ := bi.Bounds(), bj.Bounds()
			if !rl.CheckCollisionBoxes(boxI, boxJ) {
				continue
			}
			depth, axis := penetrationAxis(boxI, boxJ)
			if axis < 0 {
				continue
			}
			// push j toward the side its center is on
			if center(boxJ, axis) < center(boxI, axis) {
				depth = -depth
			}
			moveI := -depth * bi.invMass / total
			moveJ := depth * bj.invMass / total
			setAxis(&bi.Position, axis, component(bi.Position, axis)+moveI)
			setAxis(&bj.Position, axis, component(bj.Position, axis)+moveJ)
		}
	}
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the
// minimum penetration, or (0, -1) when the boxes do not overlap.
func penetrationAxis(a, b rl.BoundingBox) (depth float32, axis int) {
	overlapX := min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
	overlapY := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	overlapZ := min(a.Max.Z, b.Max.Z) - max(a.Min.Z, b.Min.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	depth, axis = overlapX, 0
	if overlapY < depth {
		depth, axis = overlapY, 1
	}
	if overlapZ < depth {
		depth, axis = overlapZ, 2
	}
	return depth, axis
}

func center(b rl.BoundingBox, axis int) float32 {
	return (component(b.Min, axis) + component(b.Max, axis)) / 2
}

func component(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func setAxis(v *rl.Vector3, axis int, value float32) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}
