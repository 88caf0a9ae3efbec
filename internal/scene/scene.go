package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/camera"
	"symbol-world/internal/physics"
	"symbol-world/internal/symbol"
)

// GroundColor is the ground slab's tint.
var GroundColor = rl.NewColor(144, 238, 144, 255)

// Scene holds what gets drawn: the ground and the current layout, if any.
type Scene struct {
	Ground *Pair
	layout *Layout
}

// New returns a scene with only the ground.
func New() *Scene {
	body := physics.NewGround()
	return &Scene{
		Ground: &Pair{Body: body, Mesh: NewBox(physics.GroundSize, body.Position, GroundColor)},
	}
}

// Layout is the layout currently shown, or nil.
func (s *Scene) Layout() *Layout { return s.layout }

// SetLayout replaces the shown layout. nil clears it.
func (s *Scene) SetLayout(l *Layout) { s.layout = l }

// Clear removes the layout, keeping the ground.
func (s *Scene) Clear() { s.layout = nil }

// Sync copies every body transform onto its mesh.
func (s *Scene) Sync() {
	s.Ground.Sync()
	if s.layout != nil {
		s.layout.Sync()
	}
}

// Meshes returns the ground mesh, then the anchor, then each pair's mesh.
func (s *Scene) Meshes() []*Mesh {
	out := []*Mesh{s.Ground.Mesh}
	if s.layout == nil {
		return out
	}
	if s.layout.Anchor != nil {
		out = append(out, s.layout.Anchor.Mesh)
	}
	for _, p := range s.layout.Pairs {
		out = append(out, p.Mesh)
	}
	return out
}

// Count is the number of symbol boxes shown.
func (s *Scene) Count() int {
	if s.layout == nil {
		return 0
	}
	return len(s.layout.Pairs)
}

// Pick casts a ray through the given normalized device coordinates and returns the
// symbols of the nearest mesh it hits. The ground and the anchor occlude but have no
// symbol, so a hit on them returns nothing.
func (s *Scene) Pick(ndcX, ndcY float32, cam *camera.Camera) []*symbol.Symbol {
	ray := cam.Ray(ndcX, ndcY)
	var (
		best    *Pair
		bestHit = float32(-1)
	)
	consider := func(p *Pair) {
		if p == nil {
			return
		}
		d, ok := p.Mesh.hit(ray)
		if !ok || d < 0 {
			return
		}
		if bestHit < 0 || d < bestHit {
			best, bestHit = p, d
		}
	}
	consider(s.Ground)
	if s.layout != nil {
		consider(s.layout.Anchor)
		for _, p := range s.layout.Pairs {
			consider(p)
		}
	}
	if best == nil || best.Symbol == nil {
		return nil
	}
	return []*symbol.Symbol{best.Symbol}
}

// ScreenToNDC maps a window pixel to normalized device coordinates.
func ScreenToNDC(x, y, width, height float32) (ndcX, ndcY float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return 2*x/width - 1, 1 - 2*y/height
}
