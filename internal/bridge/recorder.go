package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"symbol-world/internal/store"
	"symbol-world/internal/symbol"
)

// Recorder plays the host's part for persistence: it keeps the trees and camera
// poses a viewer reports in a Store and prepares trees for showing.
type Recorder struct {
	store *store.Store
	log   *zap.Logger

	mu       sync.Mutex
	filename string // root filename of the last tree opened, the camera key
}

// NewRecorder records into st. A nil store only logs.
func NewRecorder(st *store.Store, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: st, log: log}
}

// Open prepares a tree for ShowSymbolTree: stored transforms are carried onto
// symbols that have none. It also returns the camera pose stored for the tree's
// file, if any. Text that is not a tree is returned unchanged.
func (r *Recorder) Open(ctx context.Context, text string) (string, *RestoreCamera) {
	root, err := symbol.Parse(text)
	if err != nil || root == nil {
		return text, nil
	}
	r.mu.Lock()
	r.filename = root.Filename
	r.mu.Unlock()
	if r.store == nil {
		return text, nil
	}

	prev, err := r.store.LoadTree(ctx, root.Filename)
	switch {
	case err == nil:
		root.CarryForward(prev)
		if out, err := symbol.Marshal(root); err == nil {
			text = out
		}
	case !errors.Is(err, store.ErrNotFound):
		r.log.Warn("load stored tree", zap.Error(err))
	}

	l, err := r.store.LoadLooking(ctx, root.Filename)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Warn("load stored camera", zap.Error(err))
		}
		return text, nil
	}
	return text, &RestoreCamera{Looking: l}
}

// Record handles one viewer message: SaveSymbol and MoveCamera are stored,
// ShowFileAtLine and DebugLog are logged.
func (r *Recorder) Record(ctx context.Context, m Message) error {
	switch m := m.(type) {
	case SaveSymbol:
		root, err := symbol.Parse(m.Value)
		if err != nil {
			return fmt.Errorf("save symbol: %w", err)
		}
		if root == nil {
			return errors.New("save symbol: empty tree")
		}
		if r.store == nil {
			r.log.Debug("save without store", zap.String("root", root.Filename))
			return nil
		}
		saved, err := r.store.SaveTree(ctx, root)
		if err != nil {
			return err
		}
		if saved {
			r.log.Debug("tree saved", zap.String("root", root.Filename))
		}
	case MoveCamera:
		key := r.file()
		if r.store == nil || key == "" {
			return nil
		}
		return r.store.SaveLooking(ctx, key, m.Looking)
	case ShowFileAtLine:
		r.log.Info("show file at line", zap.String("filename", m.Filename), zap.Int("line", m.LineNumber))
	case DebugLog:
		r.log.Debug(m.Message)
	default:
		r.log.Warn("ignoring message", zap.String("command", m.Command()))
	}
	return nil
}

func (r *Recorder) file() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filename
}
