package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openTemp(t *testing.T) (*Library, string) {
	t.Helper()
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "lib", "library.db"), WithClock(tick()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l, dir
}

func mustTouch(t *testing.T, l *Library, path, title string, nodes int) {
	t.Helper()
	if err := l.Touch(context.Background(), path, title, nodes); err != nil {
		t.Fatalf("Touch(%s): %v", path, err)
	}
}

func mustRecent(t *testing.T, l *Library, limit int) []Entry {
	t.Helper()
	got, err := l.Recent(context.Background(), limit)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	return got
}

func TestTouchAndRecent(t *testing.T) {
	l, dir := openTemp(t)
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	mustTouch(t, l, a, "Alpha", 3)
	mustTouch(t, l, b, "Beta", 5)

	got := mustRecent(t, l, 10)
	if len(got) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(got))
	}
	if got[0].Path != b || got[0].Title != "Beta" || got[0].Nodes != 5 {
		t.Errorf("newest = %+v, want Beta", got[0])
	}
	if !got[0].OpenedAt.After(got[1].OpenedAt) {
		t.Errorf("entries not newest first: %v then %v", got[0].OpenedAt, got[1].OpenedAt)
	}

	mustTouch(t, l, a, "Alpha v2", 4)
	got = mustRecent(t, l, 1)
	if len(got) != 1 {
		t.Fatalf("Recent(1) returned %d entries", len(got))
	}
	want := Entry{Path: a, Title: "Alpha v2", Nodes: 4, OpenedAt: got[0].OpenedAt}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestRelativePathsAreResolved(t *testing.T) {
	ctx := context.Background()
	l, _ := openTemp(t)
	mustTouch(t, l, "rel.json", "Rel", 1)

	got := mustRecent(t, l, 10)
	if len(got) != 1 || !filepath.IsAbs(got[0].Path) {
		t.Fatalf("got %+v, want one absolute path", got)
	}

	if err := l.Forget(ctx, "rel.json"); err != nil {
		t.Fatal(err)
	}
	if got := mustRecent(t, l, 10); len(got) != 0 {
		t.Errorf("after Forget: %+v", got)
	}
}

func TestForgetAndPrune(t *testing.T) {
	ctx := context.Background()
	l, dir := openTemp(t)
	keep := filepath.Join(dir, "keep.json")
	gone := filepath.Join(dir, "gone.json")
	if err := os.WriteFile(keep, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	mustTouch(t, l, keep, "Keep", 1)
	mustTouch(t, l, gone, "Gone", 1)
	if err := l.Forget(ctx, filepath.Join(dir, "never-seen.json")); err != nil {
		t.Errorf("Forget of an unknown path: %v", err)
	}

	n, err := l.Prune(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}

	got := mustRecent(t, l, 10)
	if len(got) != 1 || got[0].Path != keep {
		t.Errorf("after Prune: %+v", got)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.db")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	mustTouch(t, l, filepath.Join(dir, "x.json"), "X", 2)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	got := mustRecent(t, l, 10)
	if len(got) != 1 || got[0].Title != "X" {
		t.Errorf("after reopen: %+v", got)
	}
}
