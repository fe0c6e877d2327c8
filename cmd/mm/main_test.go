package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/persist"
)

// testEnv writes a config that keeps the library and logs inside a temp
// directory and returns its path.
func testEnv(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	cfg := "library:\n  path: " + filepath.Join(dir, "library.db") + "\n" +
		"log:\n  dir: " + filepath.Join(dir, "logs") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeMap(t *testing.T, dir, name string) string {
	t.Helper()
	tr := model.NewTree("Launch")
	a, err := tr.AddChild(tr.Root().ID, "Marketing", model.SideUnset)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddChild(a.ID, "Blog post", model.SideUnset); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddChild(tr.Root().ID, "Engineering", model.SideUnset); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if _, err := persist.Save(path, tr); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckCommand(t *testing.T) {
	dir, cfg := testEnv(t)
	good := writeMap(t, dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"id":`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCmd(t, "--config", cfg, "check", good)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	want := "ok   " + good + ": 4 topics, depth 2, 1 left / 1 right, 0 collapsed"
	if !strings.Contains(out, want) {
		t.Errorf("output %q missing %q", out, want)
	}

	out, err = executeCmd(t, "--config", cfg, "check", good, bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, "FAIL "+bad) {
		t.Errorf("output %q missing failure line", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir, cfg := testEnv(t)
	path := writeMap(t, dir, "launch.json")

	out, err := executeCmd(t, "--config", cfg, "export", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", "Launch", "Blog post", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	file := filepath.Join(dir, "launch.svg")
	if _, err := executeCmd(t, "--config", cfg, "export", path, "-o", file); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte(out)) {
		t.Error("file and stdout exports differ")
	}
}

func TestExportMissingFile(t *testing.T) {
	_, cfg := testEnv(t)
	if _, err := executeCmd(t, "--config", cfg, "export", "/nonexistent/map.json"); err == nil {
		t.Error("expected an error")
	}
}

func TestRecentCommand(t *testing.T) {
	dir, cfg := testEnv(t)
	lib, err := library.Open(filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	kept := writeMap(t, dir, "kept.json")
	if err := lib.Touch(ctx, kept, "Launch", 4); err != nil {
		t.Fatal(err)
	}
	if err := lib.Touch(ctx, filepath.Join(dir, "gone.json"), "Gone", 1); err != nil {
		t.Fatal(err)
	}
	lib.Close()

	out, err := executeCmd(t, "--config", cfg, "recent")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "TITLE") || !strings.Contains(out, "Gone") || !strings.Contains(out, kept) {
		t.Errorf("unexpected listing:\n%s", out)
	}

	out, err = executeCmd(t, "--config", cfg, "recent", "--prune", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rows []recentJSON
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if len(rows) != 1 || rows[0].Path != kept || rows[0].Topics != 4 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRecentEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printRecent(&buf, nil, time.Now()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No recent maps\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	_, cfg := testEnv(t)
	out, err := executeCmd(t, "--config", cfg, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "mm dev\n") {
		t.Errorf("got %q", out)
	}
}

func TestBadConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("layout:\n  sibling_gap: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeCmd(t, "--config", cfg, "version")
	if err == nil || !strings.Contains(err.Error(), "sibling_gap") {
		t.Errorf("err = %v", err)
	}
}

func TestEditorNeedsTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	_, cfg := testEnv(t)
	_, err := executeCmd(t, "--config", cfg)
	if err == nil || !strings.Contains(err.Error(), "needs a terminal") {
		t.Errorf("err = %v", err)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("a\nb"); got != "a" {
		t.Errorf("got %q", got)
	}
	if got := firstLine("plain"); got != "plain" {
		t.Errorf("got %q", got)
	}
}

// lockedBuffer is a bytes.Buffer safe for one writer and one reader.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServe(t *testing.T) {
	dir, cfgPath := testEnv(t)
	path := writeMap(t, dir, "live.json")

	a := &app{configPath: cfgPath}
	if err := a.setup(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out lockedBuffer
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, &out, path, "127.0.0.1:0") }()

	addrRe := regexp.MustCompile(`http://(\S+)/`)
	var base string
	deadline := time.Now().Add(5 * time.Second)
	for base == "" {
		if time.Now().After(deadline) {
			t.Fatalf("server did not start; output %q", out.String())
		}
		if m := addrRe.FindStringSubmatch(out.String()); m != nil {
			base = "http://" + m[1]
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(base + "/map.svg")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Engineering") {
		t.Errorf("status %d body %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
