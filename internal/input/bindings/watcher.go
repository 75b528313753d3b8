package bindings

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keyflux/internal/logging"
)

// Watcher re-loads a bindings document when the file changes on disk and
// re-applies it to the binder. Editors commonly replace files on save, so
// the watch is placed on the directory and filtered to the target path.
type Watcher struct {
	path   string
	binder Binder
	fsw    *fsnotify.Watcher
	log    *logging.Logger

	mu   sync.Mutex
	last *Set // last successfully applied set

	done      chan struct{}
	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for reload reporting.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watch loads path, applies it to binder, and starts watching for changes.
// The initial load must succeed; later malformed edits keep the last good
// set and are reported through the logger only.
func Watch(path string, binder Binder, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("bindings: resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:   abs,
		binder: binder,
		log:    logging.Null,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	set, err := LoadFile(abs)
	if err != nil {
		return nil, err
	}
	set.Apply(binder)
	w.last = set

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("bindings: creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("bindings: watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	go w.run()
	return w, nil
}

// Last returns the most recently applied set.
func (w *Watcher) Last() *Set {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Close stops watching. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("bindings watcher: %v", err)
		}
	}
}

// relevant reports whether a directory event concerns the bindings file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	set, err := LoadFile(w.path)
	if err != nil {
		w.log.Warn("bindings reload failed, keeping last good set: %v", err)
		return
	}

	set.Apply(w.binder)
	w.mu.Lock()
	w.last = set
	w.mu.Unlock()
	w.log.Info("bindings reloaded: %d entries", len(set.Bindings))
}
