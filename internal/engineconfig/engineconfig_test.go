package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbol-world/internal/camera"
	"symbol-world/internal/input"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "viewer.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, math32.Pi/2, cfg.Camera.MaxPolarAngle)
	assert.True(t, math32.IsInf(cfg.Camera.MaxDistance, 1))
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	yamlText := `
navigator: walk
save_interval: 250ms
camera:
  enable_damping: true
layout:
  size: cuberoot
physics:
  gravity: -1
`
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o644))
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, camera.ModeWalk, cfg.Navigator)
	assert.Equal(t, 250*time.Millisecond, cfg.SaveInterval)
	assert.True(t, cfg.Camera.EnableDamping)
	assert.Equal(t, float32(0.05), cfg.Camera.DampingFactor)
	assert.Equal(t, "cuberoot", cfg.Layout.Size)
	assert.Equal(t, float32(5), cfg.Layout.MinSize)
	assert.Equal(t, 1280, cfg.Window.Width)

	w := cfg.PhysicsWorld()
	assert.Equal(t, float32(-1), w.Gravity.Y)
	assert.Equal(t, 10, w.Iterations)
}

func TestInvalidFileReturnsDefaultsAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0o644))
	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "viewer.yaml")
	cfg := Default()
	cfg.ShowFPS = true
	cfg.Camera.MinAzimuthAngle = -1
	cfg.Camera.MaxAzimuthAngle = 1
	require.NoError(t, SaveTo(path, cfg))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SYMWORLD_STORE", "/tmp/x.db")
	t.Setenv("SYMWORLD_BRIDGE", "ws://h/bridge")
	t.Setenv("SYMWORLD_NAVIGATOR", "walk")
	t.Setenv("SYMWORLD_ADDR", "")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "/tmp/x.db", cfg.StorePath)
	assert.Equal(t, "ws://h/bridge", cfg.BridgeURL)
	assert.Equal(t, camera.ModeWalk, cfg.Navigator)
	assert.Equal(t, "localhost:8765", cfg.ServeAddr)
}

type screen struct{}

func (screen) ClientSize() (float32, float32) { return 800, 500 }
func (screen) Bounds() input.Rect             { return input.Rect{Width: 800, Height: 500} }
func (screen) SetPointerCapture(int)          {}
func (screen) ReleasePointerCapture(int)      {}

func TestDefaultWalkLooksBelowHorizon(t *testing.T) {
	cfg := Default()
	cam := camera.NewPerspective(45, 1.6, 0.1, 5000)
	cam.Position = rl.NewVector3(0, 50, 200)
	nav, err := camera.New(camera.ModeWalk, cam, screen{}, cfg.Camera, nil)
	require.NoError(t, err)

	drag := input.PointerEvent{ID: 1, Type: input.Mouse, Button: input.ButtonLeft, PageX: 100, PageY: 100}
	nav.PointerDown(drag)
	drag.PageY = 150
	nav.PointerMove(drag)
	// 50 px of a 500 px tall view pitches down a tenth of a turn
	assert.InDelta(t, -math32.Sin(2*math32.Pi/10), cam.Forward().Y, 1e-3)
	nav.PointerUp(drag)

	pose := camera.NewPerspective(45, 1.6, 0.1, 5000)
	pose.Position = rl.NewVector3(0, 10, 10)
	pose.LookAt(rl.NewVector3(0, 0, 0))
	nav.Restore(pose.Looking())
	nav.Update(0)
	assert.InDelta(t, -math32.Sqrt(0.5), cam.Forward().Y, 1e-3, "a stored downward pose survives the next update")
}

func TestDefaultOrbitStaysAboveGround(t *testing.T) {
	cfg := Default()
	cam := camera.NewPerspective(45, 1.6, 0.1, 5000)
	cam.Position = rl.NewVector3(0, 0, 10)
	nav, err := camera.New(camera.ModeOrbit, cam, screen{}, cfg.Camera, nil)
	require.NoError(t, err)

	drag := input.PointerEvent{ID: 1, Type: input.Mouse, Button: input.ButtonLeft, PageX: 100, PageY: 100, ClientX: 100, ClientY: 100}
	nav.PointerDown(drag)
	for _, y := range []float32{2000, -2000} {
		drag.PageY, drag.ClientY = y, y
		nav.PointerMove(drag)
		assert.GreaterOrEqual(t, cam.Position.Y, float32(-1e-3), "drag to %g", y)
	}
}
