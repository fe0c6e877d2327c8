// Package watcher reports debounced changes to a single document file.
//
// The parent directory is watched rather than the file itself so that
// editors and savers which replace the file by rename are still seen.
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file.
type Watcher struct {
	path string
	dir  string
	base string

	fs       *fsnotify.Watcher
	debounce *Debouncer
	changed  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period before a change is reported.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = NewDebouncer(d)
	}
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		base:     filepath.Base(abs),
		fs:       fw,
		debounce: NewDebouncer(0),
		changed:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.fs.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Changed delivers one value per debounced burst of changes. Bursts that
// arrive while a previous value is still unread are merged into it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		w.cancel()
		w.debounce.Cancel()
		w.fs.Close()
		w.wg.Wait()
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.debounce.Trigger(w.notify)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("warning: watching %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) notify() {
	if w.ctx.Err() != nil {
		return
	}
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
