package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/watcher"
)

// FileChangedMsg is sent when the open document changes on disk.
type FileChangedMsg struct {
	Path string
}

// FileWatch feeds on-disk changes of the open document into the program.
type FileWatch struct {
	path    string
	watcher *watcher.Watcher
	done    chan struct{}
	once    sync.Once
}

// WatchFile starts watching path.
func WatchFile(path string, debounce time.Duration) (*FileWatch, error) {
	w, err := watcher.New(path, watcher.WithDebounceDuration(debounce))
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	logging.Debug("watching document", "path", w.Path())
	return &FileWatch{path: path, watcher: w, done: make(chan struct{})}, nil
}

// Path returns the watched document.
func (f *FileWatch) Path() string { return f.path }

// Wait returns a command that blocks until the next change. It yields nil
// once the watch is stopped.
func (f *FileWatch) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.watcher.Changed():
			return FileChangedMsg{Path: f.path}
		case <-f.done:
			return nil
		}
	}
}

// Stop ends the watch. It is safe to call more than once.
func (f *FileWatch) Stop() {
	f.once.Do(func() {
		close(f.done)
		f.watcher.Stop()
	})
}
