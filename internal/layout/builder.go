package layout

import (
	"context"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"symbol-world/internal/physics"
	"symbol-world/internal/scene"
	"symbol-world/internal/symbol"
)

// ErrNoTree is returned when there is no symbol tree to build.
var ErrNoTree = errors.New("no symbol tree")

// Options tune the layout. Zero values fall back to the defaults.
type Options struct {
	// Size names the size strategy: linear or cuberoot.
	Size               string  `yaml:"size"`
	MinSize            float32 `yaml:"min_size"`
	GapFactor          float32 `yaml:"gap_factor"`
	Density            float32 `yaml:"density"`
	AnchorHeightFactor float32 `yaml:"anchor_height_factor"`
	AnchorRadius       float32 `yaml:"anchor_radius"`
	ShellThickness     float32 `yaml:"shell_thickness"`
}

// DefaultOptions: linear sizing with a 5 unit floor, a quarter-height gap, unit
// density and the anchor 3.5 root sizes up.
func DefaultOptions() Options {
	return Options{
		Size:               "linear",
		MinSize:            5,
		GapFactor:          0.25,
		Density:            1,
		AnchorHeightFactor: 3.5,
		AnchorRadius:       10,
		ShellThickness:     0.1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size == "" {
		o.Size = d.Size
	}
	if o.MinSize <= 0 {
		o.MinSize = d.MinSize
	}
	if o.GapFactor < 0 {
		o.GapFactor = d.GapFactor
	}
	if o.Density <= 0 {
		o.Density = d.Density
	}
	if o.AnchorHeightFactor <= 0 {
		o.AnchorHeightFactor = d.AnchorHeightFactor
	}
	if o.AnchorRadius <= 0 {
		o.AnchorRadius = d.AnchorRadius
	}
	if o.ShellThickness <= 0 {
		o.ShellThickness = d.ShellThickness
	}
	return o
}

// Builder turns a symbol tree into a scene.Layout: a static anchor above the ground
// and the root's children hanging below it in order, each linked to the one above.
type Builder struct {
	opts Options
	size SizeFunc
	log  *zap.Logger

	// beforeChild runs before each child is built. Tests use it to pause a build.
	beforeChild func(ctx context.Context, root *symbol.Symbol, i int)
}

// NewBuilder validates opts and returns a builder. A nil logger discards output.
func NewBuilder(opts Options, log *zap.Logger) (*Builder, error) {
	opts = opts.withDefaults()
	size, err := SizeByName(opts.Size, opts.MinSize)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{opts: opts, size: size, log: log}, nil
}

// Options returns the effective options.
func (b *Builder) Options() Options { return b.opts }

// sizeOf clamps the line count to at least one line and the size to the minimum.
func (b *Builder) sizeOf(s *symbol.Symbol) float32 {
	return max(b.size(max(s.LineCount(), 1)), b.opts.MinSize)
}

// Build lays out root. ctx is checked before each child; a cancelled build returns
// ctx's error and no layout. Stored child positions and rotations are honored.
func (b *Builder) Build(ctx context.Context, root *symbol.Symbol) (*scene.Layout, error) {
	if root == nil {
		return nil, ErrNoTree
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rootSize := b.sizeOf(root)
	anchorPos := rl.NewVector3(0, rootSize*b.opts.AnchorHeightFactor, 0)
	anchorBody := physics.NewBody(anchorPos, 0)
	l := &scene.Layout{
		Root: root,
		Anchor: &scene.Pair{
			Body: anchorBody,
			Mesh: scene.NewSphere(b.opts.AnchorRadius, anchorPos, anchorColor),
		},
	}
	l.Extend(l.Anchor.Mesh.Bounds())

	r := b.opts.AnchorRadius
	cursor := anchorPos.Y - (r + r/4)
	prev := anchorBody
	for i, child := range root.Children {
		if b.beforeChild != nil {
			b.beforeChild(ctx, root, i)
		}
		if err := ctx.Err(); err != nil {
			b.log.Debug("layout cancelled", zap.String("root", root.Name), zap.Int("built", i))
			return nil, err
		}

		edge := b.sizeOf(child)
		size := rl.NewVector3(edge, edge, edge)
		pos := rl.NewVector3(0, cursor-edge/2, 0)
		if child.Position != nil {
			pos = rl.NewVector3(child.Position.X, child.Position.Y, child.Position.Z)
		}
		mass := b.opts.Density * edge * edge * edge / 1000

		body := physics.NewBody(pos, mass, physics.HollowBox(size, b.opts.ShellThickness)...)
		if q := child.Quaternion; q != nil && (q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 0) {
			body.Quaternion = rl.QuaternionNormalize(rl.NewQuaternion(q.X, q.Y, q.Z, q.W))
		}
		mesh := scene.NewBox(size, pos, ColorOf(child.Kind))
		mesh.Quaternion = body.Quaternion

		l.Pairs = append(l.Pairs, &scene.Pair{Body: body, Mesh: mesh, Symbol: child})
		l.Links = append(l.Links, physics.NewDistanceConstraint(prev, body))
		l.Extend(mesh.Bounds())

		prev = body
		cursor -= edge + edge*b.opts.GapFactor
	}
	b.log.Debug("layout built",
		zap.String("root", root.Name),
		zap.Int("children", len(l.Pairs)),
		zap.Float32("anchor_y", anchorPos.Y),
	)
	return l, nil
}
