package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/camera"
)

const (
	gridExtent     = 500
	gridMinorStep  = 10
	gridMajorStep  = 100
	gridMinorAlpha = 60
	gridMajorAlpha = 140
	axisLineAlpha  = 220
	sphereRings    = 16
	sphereSlices   = 16
)

// lightDir points toward the directional light, from above and to one side.
var lightDir = [3]float32{0.5, 1, 0.5}

// Renderer draws a Scene with raylib. Meshes and the lit shader are created on
// first use, after the window exists. All methods must run on the window thread.
type Renderer struct {
	GridVisible bool
	// Hovered, when set, is outlined.
	Hovered *Pair

	loaded bool
	cube   rl.Mesh
	sphere rl.Mesh
	mtl    rl.Material
}

// NewRenderer returns a renderer with the grid on.
func NewRenderer() *Renderer {
	return &Renderer{GridVisible: true}
}

func (r *Renderer) ensureLoaded() {
	if r.loaded {
		return
	}
	r.cube = rl.GenMeshCube(1, 1, 1)
	r.sphere = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	r.mtl = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		r.mtl.Shader = shader
	}
	r.loaded = true
}

// Render draws the scene from cam. Call between BeginDrawing and EndDrawing.
func (r *Renderer) Render(s *Scene, cam *camera.Camera) {
	r.ensureLoaded()
	r.setUniforms(cam.Position)
	rl.BeginMode3D(cam.Raylib(rl.Vector3Add(cam.Position, cam.Forward())))
	var translucent []*Mesh
	for _, m := range s.Meshes() {
		if m.Color.A < 255 {
			translucent = append(translucent, m)
			continue
		}
		r.draw(m)
	}
	if r.GridVisible {
		drawGroundGrid()
	}
	for _, m := range translucent {
		r.draw(m)
	}
	if r.Hovered != nil {
		rl.DrawBoundingBox(r.Hovered.Mesh.Bounds(), rl.Yellow)
	}
	rl.EndMode3D()
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	if !r.loaded {
		return
	}
	rl.UnloadMesh(&r.cube)
	rl.UnloadMesh(&r.sphere)
	if rl.IsShaderValid(r.mtl.Shader) {
		rl.UnloadShader(r.mtl.Shader)
	}
	r.loaded = false
}

func (r *Renderer) draw(m *Mesh) {
	mesh := r.cube
	if m.Primitive == SpherePrimitive {
		mesh = r.sphere
	}
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = m.Color
	}
	transform := rl.MatrixMultiply(
		rl.MatrixMultiply(rl.MatrixScale(m.Size.X, m.Size.Y, m.Size.Z), rl.QuaternionToMatrix(m.Quaternion)),
		rl.MatrixTranslate(m.Position.X, m.Position.Y, m.Position.Z),
	)
	rl.DrawMesh(mesh, r.mtl, transform)
}

func (r *Renderer) setUniforms(viewPos rl.Vector3) {
	shader := r.mtl.Shader
	if !rl.IsShaderValid(shader) {
		return
	}
	// uniform values must live in Go memory for the cgo call
	view := []float32{viewPos.X, viewPos.Y, viewPos.Z}
	light := []float32{lightDir[0], lightDir[1], lightDir[2]}
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, view, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, light, rl.ShaderUniformVec3, 1)
	}
}

// drawGroundGrid draws check lines on the ground's top face with axis lines through
// the origin.
func drawGroundGrid() {
	minor := rl.NewColor(90, 150, 90, gridMinorAlpha)
	major := rl.NewColor(60, 120, 60, gridMajorAlpha)

	var start, end rl.Vector3
	const y = 0.01
	for v := -gridExtent; v <= gridExtent; v += gridMinorStep {
		c := minor
		if v%gridMajorStep == 0 {
			c = major
		}
		start.X, start.Y, start.Z = float32(v), y, -gridExtent
		end.X, end.Y, end.Z = float32(v), y, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Z = -gridExtent, float32(v)
		end.X, end.Z = gridExtent, float32(v)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, y, 0), rl.NewVector3(gridExtent, y, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(0, gridExtent, 0), rl.NewColor(80, 220, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, y, -gridExtent), rl.NewVector3(0, y, gridExtent), rl.NewColor(80, 80, 220, axisLineAlpha))
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(mat3(matModel) * vertexNormal);
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
out vec4 finalColor;
void main() {
  vec3 n = normalize(fragNormal);
  vec3 l = normalize(lightDir);
  vec3 v = normalize(viewPos - fragPosition);
  float diffuse = max(dot(n, l), 0.0) * 0.7;
  float shine = pow(max(dot(n, normalize(l + v)), 0.0), 32.0) * 0.25;
  vec3 rgb = colDiffuse.rgb * (0.35 + diffuse) + vec3(shine);
  finalColor = vec4(rgb, colDiffuse.a);
}
`
)
