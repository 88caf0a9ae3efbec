package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultDamping scales velocity once per step.
const DefaultDamping = 0.999

// Shape is an axis-aligned box attached to a body, offset from the body's center.
type Shape struct {
	Offset      rl.Vector3
	HalfExtents rl.Vector3
}

// Box is a single solid box of the given full size centered on the body.
func Box(size rl.Vector3) Shape {
	return Shape{HalfExtents: rl.Vector3Scale(size, 0.5)}
}

// HollowBox returns the six faces of a box shell: each face is a slab of the given
// thickness lying on the corresponding side of a box of the given size.
func HollowBox(size rl.Vector3, thickness float32) []Shape {
	h := rl.Vector3Scale(size, 0.5)
	t := thickness / 2
	return []Shape{
		{Offset: rl.NewVector3(0, h.Y, 0), HalfExtents: rl.NewVector3(h.X, t, h.Z)},
		{Offset: rl.NewVector3(0, -h.Y, 0), HalfExtents: rl.NewVector3(h.X, t, h.Z)},
		{Offset: rl.NewVector3(h.X, 0, 0), HalfExtents: rl.NewVector3(t, h.Y, h.Z)},
		{Offset: rl.NewVector3(-h.X, 0, 0), HalfExtents: rl.NewVector3(t, h.Y, h.Z)},
		{Offset: rl.NewVector3(0, 0, h.Z), HalfExtents: rl.NewVector3(h.X, h.Y, t)},
		{Offset: rl.NewVector3(0, 0, -h.Z), HalfExtents: rl.NewVector3(h.X, h.Y, t)},
	}
}

// Body is a rigid body with position, velocity and a set of box shapes. A body with
// zero mass is static: gravity, velocity and constraints never move it. Orientation
// is carried along for rendering but not simulated.
type Body struct {
	Position   rl.Vector3
	Quaternion rl.Quaternion
	Velocity   rl.Vector3
	Mass       float32
	Damping    float32
	Shapes     []Shape

	invMass float32
	prev    rl.Vector3
}

// NewBody returns a body at position with zero velocity and identity orientation.
// mass <= 0 makes the body static.
func NewBody(position rl.Vector3, mass float32, shapes ...Shape) *Body {
	if mass < 0 {
		mass = 0
	}
	b := &Body{
		Position:   position,
		Quaternion: rl.QuaternionIdentity(),
		Mass:       mass,
		Damping:    DefaultDamping,
		Shapes:     shapes,
		prev:       position,
	}
	if mass > 0 {
		b.invMass = 1 / mass
	}
	return b
}

// Static reports whether the body never moves.
func (b *Body) Static() bool {
	return b.invMass == 0
}

// InvMass is 1/Mass, or 0 for static bodies.
func (b *Body) InvMass() float32 {
	return b.invMass
}

// Bounds is the axis-aligned box enclosing all shapes. A body without shapes is a point.
func (b *Body) Bounds() rl.BoundingBox {
	if len(b.Shapes) == 0 {
		return rl.NewBoundingBox(b.Position, b.Position)
	}
	box := shapeBounds(b.Position, b.Shapes[0])
	for _, s := range b.Shapes[1:] {
		sb := shapeBounds(b.Position, s)
		box.Min = rl.Vector3Min(box.Min, sb.Min)
		box.Max = rl.Vector3Max(box.Max, sb.Max)
	}
	return box
}

func shapeBounds(pos rl.Vector3, s Shape) rl.BoundingBox {
	c := rl.Vector3Add(pos, s.Offset)
	return rl.NewBoundingBox(rl.Vector3Subtract(c, s.HalfExtents), rl.Vector3Add(c, s.HalfExtents))
}

// GroundSize is the full size of the static ground slab. Its top face lies at y = 0.
var GroundSize = rl.NewVector3(5000, 10, 5000)

// NewGround returns the static ground body.
func NewGround() *Body {
	return NewBody(rl.NewVector3(0, -GroundSize.Y/2, 0), 0, Box(GroundSize))
}
