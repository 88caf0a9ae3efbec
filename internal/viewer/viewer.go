// Package viewer connects a host bridge to the layout builder, the simulation and
// the camera: trees from the host are laid out and shown, camera moves and saves
// go back to it, and a click on a box asks it to open the symbol's source.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/bridge"
	"symbol-world/internal/camera"
	"symbol-world/internal/debug"
	"symbol-world/internal/engineconfig"
	"symbol-world/internal/graphics"
	"symbol-world/internal/input"
	"symbol-world/internal/layout"
	"symbol-world/internal/logger"
	"symbol-world/internal/physics"
	"symbol-world/internal/scene"
	"symbol-world/internal/sim"
	"symbol-world/internal/symbol"
)

const fov = 45

// initialPosition is where the camera starts until a layout is framed or a saved
// pose is restored.
var initialPosition = rl.NewVector3(0, 50, 200)

// Viewer owns one view. Host messages arrive on the bridge's goroutine and are
// handed to the stepper, which is the only writer of the scene and camera.
type Viewer struct {
	cfg  engineconfig.Config
	log  *logger.Logger
	host bridge.HostBridge

	cam      *camera.Camera
	nav      camera.Navigator
	poller   *input.Poller
	renderer *scene.Renderer
	overlay  *debug.Debug
	coord    *layout.Coordinator
	stepper  *sim.Stepper

	ctx    context.Context
	cancel context.CancelFunc
	builds sync.WaitGroup
	latest atomic.Uint64

	// owner only
	width, height float32
	framed        bool
	hovered       string
}

// New wires a viewer to host. With window set the scene is drawn through raylib;
// without it the viewer runs headless. A nil logger keeps entries in memory.
func New(cfg engineconfig.Config, host bridge.HostBridge, log *logger.Logger, window bool) (*Viewer, error) {
	if log == nil {
		log = logger.NewMemory()
	}
	v := &Viewer{
		cfg:     cfg,
		log:     log,
		host:    host,
		poller:  input.NewPoller(),
		overlay: debug.New(),
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())

	aspect := float32(1)
	if cfg.Window.Width > 0 && cfg.Window.Height > 0 {
		aspect = float32(cfg.Window.Width) / float32(cfg.Window.Height)
	}
	v.cam = camera.NewPerspective(fov, aspect, 0.1, physics.GroundSize.X)
	v.cam.Position = initialPosition

	nav, err := camera.New(cfg.Navigator, v.cam, v.poller, cfg.Camera, log.Zap())
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	v.nav = nav
	v.nav.ListenToKeyEvents()
	v.nav.AddListener(v.onCamera)

	builder, err := layout.NewBuilder(cfg.Layout, log.Zap())
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	v.coord = layout.NewCoordinator(builder)

	simCfg := sim.Config{
		World:        cfg.PhysicsWorld(),
		Scene:        scene.New(),
		Navigator:    v.nav,
		Saver:        sim.SaverFunc(v.save),
		SaveInterval: cfg.SaveInterval,
		Log:          log.Zap(),
	}
	if window {
		v.renderer = scene.NewRenderer()
		v.renderer.GridVisible = cfg.GridVisible
		simCfg.Renderer = v.renderer
	}
	v.stepper, err = sim.New(simCfg)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	v.overlay.ShowFPS = cfg.ShowFPS
	v.overlay.ShowStats = cfg.ShowFPS
	v.poller.OnClick = v.click
	host.OnMessage(v.handle)
	return v, nil
}

// Stepper is the simulation owner.
func (v *Viewer) Stepper() *sim.Stepper { return v.stepper }

// Camera is the view camera. Only the owner may touch it.
func (v *Viewer) Camera() *camera.Camera { return v.cam }

// Run drives the simulation without a window at the configured frame rate until
// ctx is done or Close is called.
func (v *Viewer) Run(ctx context.Context) error {
	fps := v.cfg.Window.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	return v.stepper.Run(ctx, ticker.C)
}

// RunWindow opens the window and runs the frame loop on the calling goroutine,
// which must be the main one.
func (v *Viewer) RunWindow(ctx context.Context) {
	w := v.cfg.Window
	graphics.Run(ctx, graphics.Options{
		Title:      w.Title,
		Width:      w.Width,
		Height:     w.Height,
		Fullscreen: w.Fullscreen,
		TargetFPS:  w.TargetFPS,
		Background: rl.RayWhite,
		OnClose: func() {
			if v.renderer != nil {
				v.renderer.Close()
			}
		},
	}, func(dt time.Duration) {
		v.stepper.Pump(time.Now())
		v.Update(input.ReadFrame(), dt)
	}, func() {
		v.stepper.Tick()
		v.overlay.Draw(v.stats())
	})
}

// Update feeds one frame of input to the navigator, reconciles the camera and
// refreshes the hovered box. Only the owner may call it.
func (v *Viewer) Update(f input.Frame, dt time.Duration) {
	if f.Width != v.width || f.Height != v.height {
		v.resize(f.Width, f.Height)
	}
	v.poller.Feed(f, v.nav)
	v.nav.Update(dt)
	v.hover(f.Mouse.X, f.Mouse.Y)
}

// Close stops pending builds and disposes the stepper. The host bridge stays open;
// it belongs to the caller.
func (v *Viewer) Close() {
	v.cancel()
	v.coord.Cancel()
	v.builds.Wait()
	v.stepper.Dispose()
}

func (v *Viewer) handle(m bridge.Message) {
	switch m := m.(type) {
	case bridge.ShowSymbolTree:
		v.show(m.Value)
	case bridge.RestoreCamera:
		v.do(func() {
			v.nav.Restore(m.Looking)
			v.framed = true
		})
	case bridge.CenterCamera:
		v.do(v.center)
	case bridge.Resize:
		v.do(func() { v.resize(float32(m.Width), float32(m.Height)) })
	default:
		v.log.Warnf("unexpected %s message from host", m.Command())
	}
}

// show parses text and rebuilds the layout in the background. Only the newest
// request is shown; an empty tree changes nothing.
func (v *Viewer) show(text string) {
	root, err := symbol.Parse(text)
	if err != nil {
		v.log.Warnf("ignoring tree: %v", err)
		return
	}
	if root == nil {
		v.log.Debugf("no tree to show")
		return
	}
	seq := v.latest.Add(1)
	v.builds.Go(func() {
		l, err := v.coord.Rebuild(v.ctx, root)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			v.log.Warnf("layout %s: %v", root.Filename, err)
			return
		}
		v.do(func() {
			if v.latest.Load() != seq {
				return
			}
			v.stepper.Show(l)
			v.log.Infof("showing %s: %d symbols", root.Filename, len(l.Pairs))
			if !v.framed {
				v.center()
			}
		})
	})
}

func (v *Viewer) do(fn func()) {
	err := v.stepper.Do(v.ctx, fn)
	if err != nil && !errors.Is(err, sim.ErrDisposed) && !errors.Is(err, context.Canceled) {
		v.log.Warnf("viewer: %v", err)
	}
}

func (v *Viewer) center() {
	l := v.stepper.Scene().Layout()
	if l == nil {
		return
	}
	v.nav.Frame(l.Frame())
	v.framed = true
}

func (v *Viewer) resize(width, height float32) {
	v.width, v.height = width, height
	if width > 0 && height > 0 {
		v.nav.Resize(width / height)
	}
}

func (v *Viewer) onCamera(e camera.Event) {
	switch e := e.(type) {
	case camera.Change:
		if err := v.host.PostMessage(bridge.MoveCamera{Looking: e.Looking}); err != nil {
			v.log.Debugf("camera move not sent: %v", err)
		}
	case camera.Debug:
		v.log.Debugf("%s", e.Message)
	}
}

func (v *Viewer) save(root *symbol.Symbol) error {
	text, err := symbol.Marshal(root)
	if err != nil {
		return err
	}
	return v.host.PostMessage(bridge.SaveSymbol{Value: text})
}

func (v *Viewer) pick(x, y float32) []*symbol.Symbol {
	w, h := v.poller.ClientSize()
	ndcX, ndcY := scene.ScreenToNDC(x, y, w, h)
	return v.stepper.Scene().Pick(ndcX, ndcY, v.cam)
}

func (v *Viewer) click(x, y float32) {
	for _, s := range v.pick(x, y) {
		err := v.host.PostMessage(bridge.ShowFileAtLine{Filename: s.Filename, LineNumber: s.StartLine})
		if err != nil {
			v.log.Warnf("open %s: %v", s.Filename, err)
		}
	}
}

func (v *Viewer) hover(x, y float32) {
	var pair *scene.Pair
	if syms := v.pick(x, y); len(syms) > 0 {
		pair = v.pairOf(syms[0])
	}
	v.hovered = ""
	if pair != nil {
		s := pair.Symbol
		v.hovered = fmt.Sprintf("%s %s (%s:%d)", s.Kind, s.Name, s.Filename, s.StartLine)
	}
	if v.renderer != nil {
		v.renderer.Hovered = pair
	}
}

func (v *Viewer) pairOf(s *symbol.Symbol) *scene.Pair {
	l := v.stepper.Scene().Layout()
	if l == nil {
		return nil
	}
	for _, p := range l.Pairs {
		if p.Symbol == s {
			return p
		}
	}
	return nil
}

func (v *Viewer) stats() debug.Stats {
	mode := string(v.cfg.Navigator)
	if mode == "" {
		mode = string(camera.ModeOrbit)
	}
	return debug.Stats{Symbols: v.stepper.Scene().Count(), Hovered: v.hovered, Navigator: mode}
}
