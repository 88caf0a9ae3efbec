package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"symbol-world/internal/store"
	"symbol-world/internal/symbol"
)

// DefaultDebounce collapses the bursts of write events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// File hosts the viewer on a symbol tree JSON file. Each change to the file is
// delivered as ShowSymbolTree; saves and camera moves go to a Store.
type File struct {
	handlers
	path     string
	recorder *Recorder
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	Debounce time.Duration

	startOnce sync.Once
	closeOnce sync.Once
	started   chan struct{}
	stop      chan struct{}
	done      chan struct{}
}

// WatchFile watches path. st may be nil, in which case saves are only logged.
func WatchFile(path string, st *store.Store, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// editors replace files on save, so watch the directory and filter by name
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &File{
		path:     abs,
		recorder: NewRecorder(st, log),
		watcher:  w,
		log:      log.With(zap.String("file", abs)),
		Debounce: DefaultDebounce,
		started:  make(chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// OnMessage registers fn. The first call loads the file, restores its stored camera
// and starts watching.
func (f *File) OnMessage(fn func(Message)) {
	f.add(fn)
	f.startOnce.Do(func() {
		close(f.started)
		go f.run()
	})
}

// PostMessage handles viewer messages: SaveSymbol and MoveCamera are stored,
// ShowFileAtLine and DebugLog are logged.
func (f *File) PostMessage(m Message) error {
	select {
	case <-f.stop:
		return ErrClosed
	default:
	}
	return f.recorder.Record(context.Background(), m)
}

// Close stops watching and waits for the watch loop.
func (f *File) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.stop)
		select {
		case <-f.started:
			<-f.done
		default:
		}
		err = f.watcher.Close()
	})
	return err
}

func (f *File) run() {
	defer close(f.done)
	f.load(true)

	var pending <-chan time.Time
	for {
		select {
		case <-f.stop:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if f.Debounce <= 0 {
				f.load(false)
				continue
			}
			pending = time.After(f.Debounce)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn("watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			f.load(false)
		}
	}
}

// load reads the file and delivers it. On the first load the stored camera, if
// any, follows the tree.
func (f *File) load(first bool) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		f.log.Warn("read tree", zap.Error(err))
		return
	}
	if _, err := symbol.Parse(string(data)); err != nil {
		f.log.Warn("tree not loaded", zap.Error(err))
		return
	}
	text, restore := f.recorder.Open(context.Background(), string(data))
	f.dispatch(ShowSymbolTree{Value: text})
	if first && restore != nil {
		f.dispatch(*restore)
	}
}
