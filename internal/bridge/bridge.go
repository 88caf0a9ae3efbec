// Package bridge carries messages between the viewer and its host: an editor
// extension over a WebSocket, a watched file on disk, or an in-memory pipe in tests.
package bridge

import (
	"errors"
	"sync"
)

// ErrClosed is returned by PostMessage after Close.
var ErrClosed = errors.New("bridge closed")

// HostBridge is one end of a host/viewer connection.
type HostBridge interface {
	// PostMessage sends m to the other end.
	PostMessage(m Message) error
	// OnMessage registers fn for incoming messages. Handlers may run on a
	// goroutine owned by the bridge.
	OnMessage(fn func(Message))
	Close() error
}

type handlers struct {
	mu  sync.Mutex
	fns []func(Message)
}

func (h *handlers) add(fn func(Message)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *handlers) dispatch(m Message) {
	h.mu.Lock()
	fns := append([]func(Message)(nil), h.fns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

var (
	_ HostBridge = (*PipeEnd)(nil)
	_ HostBridge = (*WebSocket)(nil)
	_ HostBridge = (*File)(nil)
)
