// Package sim owns the physics world and scene once a layout is shown: it steps,
// syncs and renders each frame and periodically writes transforms back into the
// symbol tree for persistence.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"symbol-world/internal/camera"
	"symbol-world/internal/physics"
	"symbol-world/internal/scene"
	"symbol-world/internal/symbol"
)

// DefaultSaveInterval is how often transforms are persisted.
const DefaultSaveInterval = time.Second

// ErrDisposed is returned by calls made after Dispose.
var ErrDisposed = errors.New("sim: stepper disposed")

// World is the part of physics.World the stepper drives.
type World interface {
	AddBody(b *physics.Body)
	RemoveBody(b *physics.Body)
	AddConstraint(c *physics.DistanceConstraint)
	RemoveConstraint(c *physics.DistanceConstraint)
	Step(dt float32)
}

// Renderer draws the scene from the camera.
type Renderer interface {
	Render(s *scene.Scene, cam *camera.Camera)
}

// Saver receives the tree after each persistence tick. The tree is a copy the
// saver may keep.
type Saver interface {
	Save(root *symbol.Symbol) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(root *symbol.Symbol) error

func (f SaverFunc) Save(root *symbol.Symbol) error { return f(root) }

// Stepper is the single owner of the world and scene. Between New and Run the
// caller may touch them directly; afterwards every mutation goes through Do or Swap,
// or through Pump when the graphics loop owns the thread.
type Stepper struct {
	world    World
	scene    *scene.Scene
	nav      camera.Navigator
	renderer Renderer
	saver    Saver
	interval time.Duration
	log      *zap.Logger

	dos      chan func()
	quit     chan struct{}
	lastSave time.Time

	mu          sync.Mutex
	running     bool
	done        chan struct{}
	disposeOnce sync.Once
}

// Config carries the stepper's collaborators. World and Scene are required; a nil
// Renderer or Navigator skips drawing and a nil Saver only stamps the tree.
type Config struct {
	World        World
	Scene        *scene.Scene
	Navigator    camera.Navigator
	Renderer     Renderer
	Saver        Saver
	SaveInterval time.Duration
	Log          *zap.Logger
}

// New returns a stepper with the scene's ground added to the world.
func New(cfg Config) (*Stepper, error) {
	if cfg.World == nil || cfg.Scene == nil {
		return nil, errors.New("sim: world and scene are required")
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = DefaultSaveInterval
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	s := &Stepper{
		world:    cfg.World,
		scene:    cfg.Scene,
		nav:      cfg.Navigator,
		renderer: cfg.Renderer,
		saver:    cfg.Saver,
		interval: cfg.SaveInterval,
		log:      cfg.Log,
		dos:      make(chan func()),
		quit:     make(chan struct{}),
	}
	s.world.AddBody(s.scene.Ground.Body)
	return s, nil
}

// Scene is the scene the stepper owns.
func (s *Stepper) Scene() *scene.Scene { return s.scene }

// Tick advances the world one fixed step, copies body transforms onto meshes and
// renders, in that order.
func (s *Stepper) Tick() {
	s.world.Step(physics.FixedStep)
	s.scene.Sync()
	if s.renderer != nil && s.nav != nil {
		s.renderer.Render(s.scene, s.nav.Camera())
	}
}

// Persist writes mesh transforms into the shown tree, stamps it with a fresh
// update id and hands a copy to the saver. It does nothing without a layout.
func (s *Stepper) Persist() error {
	l := s.scene.Layout()
	if l == nil || l.Root == nil {
		return nil
	}
	l.Store()
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("stamp tree: %w", err)
	}
	l.Root.UpdateID = id.String()
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(l.Root.Clone()); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}
	return nil
}

// Show replaces the shown layout, moving its bodies and links into the world.
// Only the owner may call it; other goroutines use Swap.
func (s *Stepper) Show(l *scene.Layout) {
	s.detach()
	s.scene.SetLayout(l)
	if l == nil {
		return
	}
	for _, b := range l.Bodies() {
		s.world.AddBody(b)
	}
	for _, c := range l.Links {
		s.world.AddConstraint(c)
	}
	l.Sync()
}

func (s *Stepper) detach() {
	old := s.scene.Layout()
	if old == nil {
		return
	}
	for _, c := range old.Links {
		s.world.RemoveConstraint(c)
	}
	for _, b := range old.Bodies() {
		s.world.RemoveBody(b)
	}
	s.scene.Clear()
}

// Do runs fn on the owner and waits for it to finish. Calling it from the owner
// itself deadlocks.
func (s *Stepper) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case s.dos <- wrapped:
	case <-s.quit:
		return ErrDisposed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Swap shows l from any goroutine.
func (s *Stepper) Swap(ctx context.Context, l *scene.Layout) error {
	return s.Do(ctx, func() { s.Show(l) })
}

// Pump runs pending Do calls and persists when the save interval has passed. It
// never blocks; the graphics loop calls it once per frame in place of Run.
func (s *Stepper) Pump(now time.Time) {
drain:
	for {
		select {
		case fn := <-s.dos:
			fn()
		default:
			break drain
		}
	}
	if s.lastSave.IsZero() {
		s.lastSave = now
		return
	}
	if now.Sub(s.lastSave) >= s.interval {
		s.lastSave = now
		if err := s.Persist(); err != nil {
			s.log.Warn("persist failed", zap.Error(err))
		}
	}
}

// Run owns the world until ctx is done or Dispose is called: each value on frames
// is one Tick, and the tree is persisted every save interval.
func (s *Stepper) Run(ctx context.Context, frames <-chan time.Time) error {
	s.mu.Lock()
	select {
	case <-s.quit:
		s.mu.Unlock()
		return ErrDisposed
	default:
	}
	if s.running {
		s.mu.Unlock()
		return errors.New("sim: already running")
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		disposed := isClosed(s.quit)
		s.mu.Unlock()
		if disposed {
			s.cleanup()
		}
		close(done)
	}()

	save := time.NewTicker(s.interval)
	defer save.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.quit:
			return nil
		case <-frames:
			s.Tick()
		case <-save.C:
			if err := s.Persist(); err != nil {
				s.log.Warn("persist failed", zap.Error(err))
			}
		case fn := <-s.dos:
			fn()
		}
	}
}

// Dispose stops Run, removes every body from the world, clears the scene and
// disposes the navigator. It waits for a running loop to exit and is safe to call
// more than once.
func (s *Stepper) Dispose() {
	s.disposeOnce.Do(func() {
		s.mu.Lock()
		close(s.quit)
		running, done := s.running, s.done
		s.mu.Unlock()
		if running {
			<-done
			return
		}
		s.cleanup()
	})
}

func (s *Stepper) cleanup() {
	s.detach()
	s.world.RemoveBody(s.scene.Ground.Body)
	if s.nav != nil {
		s.nav.Dispose()
	}
	s.log.Debug("stepper disposed")
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
