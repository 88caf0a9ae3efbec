package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/physics"
	"symbol-world/internal/symbol"
)

// Layout is a built symbol tree: a static anchor and one pair per child, chained by
// distance links. The anchor has no symbol of its own; Root is the tree it hangs.
type Layout struct {
	Root   *symbol.Symbol
	Anchor *Pair
	Pairs  []*Pair
	Links  []*physics.DistanceConstraint
	Bounds rl.BoundingBox
}

// Bodies returns the anchor body followed by every pair's body.
func (l *Layout) Bodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(l.Pairs)+1)
	if l.Anchor != nil {
		out = append(out, l.Anchor.Body)
	}
	for _, p := range l.Pairs {
		out = append(out, p.Body)
	}
	return out
}

// Extend grows Bounds to include box. The first call sets it.
func (l *Layout) Extend(box rl.BoundingBox) {
	if l.Bounds == (rl.BoundingBox{}) {
		l.Bounds = box
		return
	}
	l.Bounds.Min = rl.Vector3Min(l.Bounds.Min, box.Min)
	l.Bounds.Max = rl.Vector3Max(l.Bounds.Max, box.Max)
}

// Sync copies every body transform onto its mesh.
func (l *Layout) Sync() {
	if l.Anchor != nil {
		l.Anchor.Sync()
	}
	for _, p := range l.Pairs {
		p.Sync()
	}
}

// Store writes every child mesh transform into its symbol. The anchor is fixed and
// is not stored.
func (l *Layout) Store() {
	for _, p := range l.Pairs {
		p.Store()
	}
}

// Frame is the current box around all meshes.
func (l *Layout) Frame() rl.BoundingBox {
	var out Layout
	if l.Anchor != nil {
		out.Extend(l.Anchor.Mesh.Bounds())
	}
	for _, p := range l.Pairs {
		out.Extend(p.Mesh.Bounds())
	}
	return out.Bounds
}
