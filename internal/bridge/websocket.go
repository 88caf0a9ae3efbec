package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// WebSocket is a bridge over one gorilla/websocket connection. Reading starts with
// the first OnMessage call, so handlers registered up front see every message.
type WebSocket struct {
	handlers
	conn *websocket.Conn
	log  *zap.Logger

	writeMu   sync.Mutex
	startOnce sync.Once
	closeOnce sync.Once
	started   chan struct{}
	done      chan struct{}
	closed    chan struct{}
}

func newWebSocket(conn *websocket.Conn, log *zap.Logger) *WebSocket {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocket{
		conn:    conn,
		log:     log,
		started: make(chan struct{}),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// Dial connects to a host listening at url, e.g. ws://localhost:7777/bridge.
func Dial(ctx context.Context, url string, log *zap.Logger) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newWebSocket(conn, log), nil
}

func (w *WebSocket) PostMessage(m Message) error {
	select {
	case <-w.closed:
		return ErrClosed
	default:
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("post %s: %w", m.Command(), err)
	}
	return nil
}

func (w *WebSocket) OnMessage(fn func(Message)) {
	w.add(fn)
	w.startOnce.Do(func() {
		close(w.started)
		go w.readLoop()
	})
}

// Done is closed once the connection stops delivering messages.
func (w *WebSocket) Done() <-chan struct{} {
	return w.done
}

func (w *WebSocket) readLoop() {
	defer close(w.done)
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				w.log.Warn("bridge read failed", zap.Error(err))
			}
			return
		}
		m, err := Decode(data)
		if err != nil {
			w.log.Warn("dropping bridge message", zap.Error(err))
			continue
		}
		w.dispatch(m)
	}
}

// Close sends a close frame, closes the connection and waits for the read loop.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		w.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		w.writeMu.Unlock()
		err = w.conn.Close()
		select {
		case <-w.started:
			<-w.done
		default:
		}
	})
	return err
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}

// Handler upgrades requests to WebSocket bridges and hands each to accept. The
// request goroutine stays with the connection until it ends.
func Handler(accept func(*WebSocket), log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			log.Warn("bridge upgrade failed", zap.Error(err))
			return
		}
		ws := newWebSocket(conn, log)
		log.Info("bridge connected", zap.String("remote", r.RemoteAddr))
		accept(ws)
		select {
		case <-ws.started:
			<-ws.done
		case <-ws.closed:
		}
		ws.Close()
		log.Info("bridge disconnected", zap.String("remote", r.RemoteAddr))
	})
}

// Serve listens on addr and serves Handler at /bridge until ctx is done.
func Serve(ctx context.Context, addr string, accept func(*WebSocket), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/bridge", Handler(accept, log))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	log.Info("bridge listening", zap.String("addr", addr))

	select {
	case err := <-errs:
		return fmt.Errorf("serve bridge: %w", err)
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutdown bridge: %w", err)
	}
	<-errs
	return nil
}
