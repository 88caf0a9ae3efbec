package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/symbol"
)

// Projection is the camera's projection kind. Navigators support Perspective and
// Orthographic; anything else makes pan and zoom switch themselves off.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
	Panoramic
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	case Panoramic:
		return "panoramic"
	}
	return "unknown"
}

// Camera is a view transform plus projection parameters. Orientation is a quaternion;
// the camera looks down its local -Z axis with local +Y up.
type Camera struct {
	Position   rl.Vector3
	Quaternion rl.Quaternion
	Up         rl.Vector3
	Projection Projection

	// Perspective: vertical field of view in degrees and width/height aspect.
	Fov    float32
	Aspect float32

	// Orthographic frustum, divided by Zoom.
	Left, Right, Top, Bottom float32
	Zoom                     float32

	Near, Far float32
}

// NewPerspective returns a perspective camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Quaternion: rl.QuaternionIdentity(),
		Up:         rl.NewVector3(0, 1, 0),
		Projection: Perspective,
		Fov:        fov,
		Aspect:     aspect,
		Zoom:       1,
		Near:       near,
		Far:        far,
	}
}

// NewOrthographic returns an orthographic camera at the origin looking down -Z.
func NewOrthographic(left, right, top, bottom, near, far float32) *Camera {
	return &Camera{
		Quaternion: rl.QuaternionIdentity(),
		Up:         rl.NewVector3(0, 1, 0),
		Projection: Orthographic,
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Zoom:       1,
		Near:       near,
		Far:        far,
		Aspect:     1,
	}
}

// LookAt orients the camera so its -Z axis points at target, keeping Up as close to
// local +Y as possible.
func (c *Camera) LookAt(target rl.Vector3) {
	z := rl.Vector3Subtract(c.Position, target)
	if dot(z, z) == 0 {
		z.Z = 1
	}
	z = rl.Vector3Normalize(z)
	x := rl.Vector3CrossProduct(c.Up, z)
	if dot(x, x) == 0 {
		// up and view direction are parallel
		if math32.Abs(c.Up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = rl.Vector3Normalize(z)
		x = rl.Vector3CrossProduct(c.Up, z)
	}
	x = rl.Vector3Normalize(x)
	y := rl.Vector3CrossProduct(z, x)
	c.Quaternion = quaternionFromBasis(x, y, z)
}

// Basis returns the camera's local axes in world space (the columns of its rotation).
func (c *Camera) Basis() (x, y, z rl.Vector3) {
	x = rl.Vector3RotateByQuaternion(rl.NewVector3(1, 0, 0), c.Quaternion)
	y = rl.Vector3RotateByQuaternion(rl.NewVector3(0, 1, 0), c.Quaternion)
	z = rl.Vector3RotateByQuaternion(rl.NewVector3(0, 0, 1), c.Quaternion)
	return x, y, z
}

// Forward is the unit view direction (local -Z).
func (c *Camera) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.NewVector3(0, 0, -1), c.Quaternion)
}

// Unproject maps normalized device coordinates (each in [-1, 1], z = -1 near, z = 1 far)
// to a world-space point.
func (c *Camera) Unproject(ndcX, ndcY, ndcZ float32) rl.Vector3 {
	var local rl.Vector3
	switch c.Projection {
	case Orthographic:
		zoom := c.zoom()
		cx, cy := (c.Left+c.Right)/2, (c.Top+c.Bottom)/2
		dx, dy := (c.Right-c.Left)/(2*zoom), (c.Top-c.Bottom)/(2*zoom)
		depth := c.Near + (ndcZ+1)/2*(c.Far-c.Near)
		local = rl.NewVector3(cx+ndcX*dx, cy+ndcY*dy, -depth)
	default:
		// perspective depth from NDC z is hyperbolic
		n, f := c.Near, c.Far
		depth := 2 * f * n / (f + n - ndcZ*(f-n))
		tan := math32.Tan(c.Fov*math32.Pi/360) / c.zoom()
		local = rl.NewVector3(ndcX*tan*c.Aspect*depth, ndcY*tan*depth, -depth)
	}
	return rl.Vector3Add(c.Position, rl.Vector3RotateByQuaternion(local, c.Quaternion))
}

// Ray returns the pick ray through the given normalized device coordinates.
func (c *Camera) Ray(ndcX, ndcY float32) rl.Ray {
	if c.Projection == Orthographic {
		origin := c.Unproject(ndcX, ndcY, -1)
		return rl.NewRay(origin, c.Forward())
	}
	far := c.Unproject(ndcX, ndcY, 1)
	return rl.NewRay(c.Position, rl.Vector3Normalize(rl.Vector3Subtract(far, c.Position)))
}

// SetAspect updates the perspective aspect ratio. Non-perspective cameras ignore it.
func (c *Camera) SetAspect(aspect float32) {
	if c.Projection == Perspective && aspect > 0 {
		c.Aspect = aspect
	}
}

// Raylib converts the camera into raylib's look-at form for rendering. target only
// sets the look distance; the direction always comes from the quaternion.
func (c *Camera) Raylib(target rl.Vector3) rl.Camera3D {
	dist := rl.Vector3Length(rl.Vector3Subtract(target, c.Position))
	if dist == 0 {
		dist = 1
	}
	_, up, _ := c.Basis()
	cam := rl.Camera3D{
		Position: c.Position,
		Target:   rl.Vector3Add(c.Position, rl.Vector3Scale(c.Forward(), dist)),
		Up:       up,
		Fovy:     c.Fov,
	}
	if c.Projection == Orthographic {
		cam.Projection = rl.CameraOrthographic
		cam.Fovy = (c.Top - c.Bottom) / c.zoom()
	} else {
		cam.Projection = rl.CameraPerspective
	}
	return cam
}

func (c *Camera) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Looking is the camera pose exchanged with the host: {position, quaternion}.
type Looking struct {
	Position   symbol.Position   `json:"position"`
	Quaternion symbol.Quaternion `json:"quaternion"`
}

// Looking returns the current pose.
func (c *Camera) Looking() Looking {
	return Looking{
		Position:   symbol.Position{X: c.Position.X, Y: c.Position.Y, Z: c.Position.Z},
		Quaternion: symbol.Quaternion{X: c.Quaternion.X, Y: c.Quaternion.Y, Z: c.Quaternion.Z, W: c.Quaternion.W},
	}
}

// SetLooking restores a pose. A zero quaternion is replaced by identity.
func (c *Camera) SetLooking(l Looking) {
	c.Position = rl.NewVector3(l.Position.X, l.Position.Y, l.Position.Z)
	q := rl.NewQuaternion(l.Quaternion.X, l.Quaternion.Y, l.Quaternion.Z, l.Quaternion.W)
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		q = rl.QuaternionIdentity()
	}
	c.Quaternion = rl.QuaternionNormalize(q)
}

func quaternionFromBasis(x, y, z rl.Vector3) rl.Quaternion {
	m := rl.Matrix{
		M0: x.X, M1: x.Y, M2: x.Z,
		M4: y.X, M5: y.Y, M6: y.Z,
		M8: z.X, M9: z.Y, M10: z.Z,
		M15: 1,
	}
	return rl.QuaternionNormalize(rl.QuaternionFromMatrix(m))
}

func dot(a, b rl.Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func quaternionDot(a, b rl.Quaternion) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}
