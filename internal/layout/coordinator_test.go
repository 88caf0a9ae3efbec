package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"symbol-world/internal/scene"
	"symbol-world/internal/symbol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type result struct {
	layout *scene.Layout
	err    error
}

func TestRebuildSupersedesInFlightBuild(t *testing.T) {
	b := newBuilder(t)
	slow := tree(100, 10, 10, 10)
	fast := tree(200, 10)

	started := make(chan struct{})
	b.beforeChild = func(ctx context.Context, root *symbol.Symbol, i int) {
		if root != slow || i != 1 {
			return
		}
		close(started)
		<-ctx.Done()
	}
	c := NewCoordinator(b)

	first := make(chan result, 1)
	go func() {
		l, err := c.Rebuild(context.Background(), slow)
		first <- result{l, err}
	}()
	<-started

	l, err := c.Rebuild(context.Background(), fast)
	require.NoError(t, err)
	assert.Same(t, fast, l.Root)

	r := <-first
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Nil(t, r.layout)
}

func TestRebuildSequential(t *testing.T) {
	c := NewCoordinator(newBuilder(t))
	for range 3 {
		l, err := c.Rebuild(context.Background(), tree(100, 10, 20))
		require.NoError(t, err)
		assert.Len(t, l.Pairs, 2)
	}
	c.Cancel()
}

func TestCancelStopsBuild(t *testing.T) {
	b := newBuilder(t)
	started := make(chan struct{})
	b.beforeChild = func(ctx context.Context, _ *symbol.Symbol, i int) {
		if i == 0 {
			close(started)
			<-ctx.Done()
		}
	}
	c := NewCoordinator(b)
	errs := make(chan error, 1)
	go func() {
		_, err := c.Rebuild(context.Background(), tree(100, 10))
		errs <- err
	}()
	<-started
	c.Cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
}
