package engineconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"symbol-world/internal/camera"
	"symbol-world/internal/env"
	"symbol-world/internal/layout"
	"symbol-world/internal/physics"
)

// ConfigPath is the viewer config file, relative to the process working directory.
const ConfigPath = "config/viewer.yaml"

// Window is the native window setup.
type Window struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	TargetFPS  int    `yaml:"target_fps"`
}

// Physics tunes the simulation.
type Physics struct {
	Gravity    float32 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
}

// Config holds viewer preferences. Persisted across runs.
type Config struct {
	Window      Window `yaml:"window"`
	ShowFPS     bool   `yaml:"show_fps"`
	GridVisible bool   `yaml:"grid_visible"`

	Navigator camera.Mode    `yaml:"navigator"`
	Camera    camera.Options `yaml:"camera"`
	Layout    layout.Options `yaml:"layout"`
	Physics   Physics        `yaml:"physics"`

	SaveInterval time.Duration `yaml:"save_interval"`
	StorePath    string        `yaml:"store_path"`
	// BridgeURL is the host's websocket, e.g. ws://localhost:8765/bridge. Empty
	// means no websocket host.
	BridgeURL string `yaml:"bridge_url"`
	// ServeAddr is where `symworld serve` listens.
	ServeAddr string `yaml:"serve_addr"`
}

// Default returns the stock configuration: orbit navigation that stays above the
// ground, walk navigation free to look up and down, grid on, FPS overlay off.
func Default() Config {
	cam := camera.DefaultOptions()
	cam.MaxPolarAngle = math32.Pi / 2
	cam.WalkStep = 2
	return Config{
		Window: Window{
			Title:     "symbol world",
			Width:     1280,
			Height:    720,
			TargetFPS: 60,
		},
		GridVisible:  true,
		Navigator:    camera.ModeOrbit,
		Camera:       cam,
		Layout:       layout.DefaultOptions(),
		Physics:      Physics{Gravity: -9.82, Iterations: physics.DefaultIterations},
		SaveInterval: time.Second,
		StorePath:    "data/viewer.db",
		ServeAddr:    "localhost:8765",
	}
}

// Load reads ConfigPath. See LoadFrom.
func Load() (Config, error) {
	return LoadFrom(ConfigPath)
}

// LoadFrom reads the config at path over the defaults, so a partial file only
// changes what it names. A missing file returns Default() and no error; an invalid
// one returns Default() and the parse error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to ConfigPath. See SaveTo.
func Save(cfg Config) error {
	return SaveTo(ConfigPath, cfg)
}

// SaveTo writes cfg to path, creating its directory if needed.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides the store path, bridge URL, serve address and navigator mode
// from SYMWORLD_STORE, SYMWORLD_BRIDGE, SYMWORLD_ADDR and SYMWORLD_NAVIGATOR.
func (c *Config) ApplyEnv() {
	if v, ok := env.Get("STORE"); ok {
		c.StorePath = v
	}
	if v, ok := env.Get("BRIDGE"); ok {
		c.BridgeURL = v
	}
	if v, ok := env.Get("ADDR"); ok {
		c.ServeAddr = v
	}
	if v, ok := env.Get("NAVIGATOR"); ok {
		c.Navigator = camera.Mode(v)
	}
}

// PhysicsWorld returns a world configured from c.
func (c Config) PhysicsWorld() *physics.World {
	w := physics.NewWorld()
	w.Gravity.Y = c.Physics.Gravity
	if c.Physics.Iterations > 0 {
		w.Iterations = c.Physics.Iterations
	}
	return w
}
