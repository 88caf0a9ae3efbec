package layout

import (
	"context"
	"sync"

	"symbol-world/internal/scene"
	"symbol-world/internal/symbol"
)

// Coordinator runs one build at a time. Starting a build cancels the one in flight
// and waits for it to finish first.
type Coordinator struct {
	builder *Builder

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoordinator serializes builds on b.
func NewCoordinator(b *Builder) *Coordinator {
	return &Coordinator{builder: b}
}

// Rebuild builds root after cancelling and draining any earlier build. A build that
// is superseded returns context.Canceled.
func (c *Coordinator) Rebuild(ctx context.Context, root *symbol.Symbol) (*scene.Layout, error) {
	c.mu.Lock()
	for c.done != nil {
		c.cancel()
		done := c.done
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}
	bctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.done == done {
			c.cancel, c.done = nil, nil
		}
		c.mu.Unlock()
		close(done)
	}()
	return c.builder.Build(bctx, root)
}

// Cancel stops the build in flight, if any, and waits for it.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	if c.done == nil {
		c.mu.Unlock()
		return
	}
	c.cancel()
	done := c.done
	c.mu.Unlock()
	<-done
}
