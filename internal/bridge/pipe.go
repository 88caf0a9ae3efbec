package bridge

import "sync"

// PipeEnd is one side of an in-memory bridge. Posting delivers synchronously to
// the peer's handlers.
type PipeEnd struct {
	handlers
	peer   *PipeEnd
	mu     sync.Mutex
	closed bool
}

// Pipe returns two connected ends.
func Pipe() (host, viewer *PipeEnd) {
	host, viewer = &PipeEnd{}, &PipeEnd{}
	host.peer, viewer.peer = viewer, host
	return host, viewer
}

func (p *PipeEnd) PostMessage(m Message) error {
	if p.isClosed() || p.peer.isClosed() {
		return ErrClosed
	}
	p.peer.dispatch(m)
	return nil
}

func (p *PipeEnd) OnMessage(fn func(Message)) { p.add(fn) }

// Close closes both ends.
func (p *PipeEnd) Close() error {
	p.markClosed()
	p.peer.markClosed()
	return nil
}

func (p *PipeEnd) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *PipeEnd) markClosed() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
