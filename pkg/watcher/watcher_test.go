package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("cancelled callback ran %d times", got)
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	if d := NewDebouncer(0).Duration(); d != DefaultDebounceDuration {
		t.Errorf("Duration() = %v, want %v", d, DefaultDebounceDuration)
	}
}

func waitChanged(w *Watcher, timeout time.Duration) bool {
	select {
	case <-w.Changed():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherReportsWritesToTheFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounceDuration(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if waitChanged(w, 200*time.Millisecond) {
		t.Error("change to a sibling file was reported")
	}

	if err := os.WriteFile(path, []byte(`{"text":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitChanged(w, 2*time.Second) {
		t.Fatal("write to the watched file was not reported")
	}
}

func TestWatcherSeesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, WithDebounceDuration(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	tmp := filepath.Join(dir, ".tmp")
	if err := os.WriteFile(tmp, []byte(`{"text":"y"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	if !waitChanged(w, 2*time.Second) {
		t.Fatal("rename over the watched file was not reported")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
}
