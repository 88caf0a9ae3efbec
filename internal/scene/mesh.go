package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/physics"
	"symbol-world/internal/symbol"
)

// Primitive is the geometry a mesh draws.
type Primitive int

const (
	BoxPrimitive Primitive = iota
	SpherePrimitive
)

// Mesh is the drawable side of a body. Size is the full box size; spheres use Size.X
// as their diameter.
type Mesh struct {
	Primitive  Primitive
	Size       rl.Vector3
	Position   rl.Vector3
	Quaternion rl.Quaternion
	Color      rl.Color
	Wireframe  bool
}

// NewBox returns an opaque box mesh at position.
func NewBox(size, position rl.Vector3, color rl.Color) *Mesh {
	return &Mesh{
		Primitive:  BoxPrimitive,
		Size:       size,
		Position:   position,
		Quaternion: rl.QuaternionIdentity(),
		Color:      color,
	}
}

// NewSphere returns a sphere mesh of the given radius.
func NewSphere(radius float32, position rl.Vector3, color rl.Color) *Mesh {
	d := radius * 2
	return &Mesh{
		Primitive:  SpherePrimitive,
		Size:       rl.NewVector3(d, d, d),
		Position:   position,
		Quaternion: rl.QuaternionIdentity(),
		Color:      color,
	}
}

// Copy takes the body's position and orientation.
func (m *Mesh) Copy(b *physics.Body) {
	m.Position = b.Position
	m.Quaternion = b.Quaternion
}

// Bounds is the world-space box enclosing the mesh in any orientation.
func (m *Mesh) Bounds() rl.BoundingBox {
	half := rl.Vector3Scale(m.Size, 0.5)
	if m.Primitive == BoxPrimitive {
		// a rotated box fits inside the sphere through its corners
		r := rl.Vector3Length(half)
		if !isIdentity(m.Quaternion) {
			half = rl.NewVector3(r, r, r)
		}
	}
	return rl.NewBoundingBox(rl.Vector3Subtract(m.Position, half), rl.Vector3Add(m.Position, half))
}

// hit intersects ray with the mesh, returning the hit distance.
func (m *Mesh) hit(ray rl.Ray) (float32, bool) {
	if m.Primitive == SpherePrimitive {
		c := rl.GetRayCollisionSphere(ray, m.Position, m.Size.X/2)
		return c.Distance, c.Hit
	}
	// test in the box's own frame so rotation is honored
	inv := rl.QuaternionInvert(m.Quaternion)
	local := rl.NewRay(
		rl.Vector3RotateByQuaternion(rl.Vector3Subtract(ray.Position, m.Position), inv),
		rl.Vector3RotateByQuaternion(ray.Direction, inv),
	)
	half := rl.Vector3Scale(m.Size, 0.5)
	c := rl.GetRayCollisionBox(local, rl.NewBoundingBox(rl.Vector3Negate(half), half))
	return c.Distance, c.Hit
}

func isIdentity(q rl.Quaternion) bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0
}

// Pair binds one symbol to its body and mesh.
type Pair struct {
	Body   *physics.Body
	Mesh   *Mesh
	Symbol *symbol.Symbol
}

// Sync copies the body transform onto the mesh.
func (p *Pair) Sync() {
	p.Mesh.Copy(p.Body)
}

// Store writes the mesh transform into the symbol.
func (p *Pair) Store() {
	if p.Symbol == nil {
		return
	}
	pos, q := p.Mesh.Position, p.Mesh.Quaternion
	p.Symbol.SetPosition(pos.X, pos.Y, pos.Z)
	p.Symbol.SetQuaternion(q.X, q.Y, q.Z, q.W)
}
