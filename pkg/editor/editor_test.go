package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/nav"
	"github.com/vanderheijden86/mindmap/pkg/persist"
)

var boxes = layout.MeasureFunc(func(text string, style layout.Style) model.Size {
	if style == layout.StyleRoot {
		return model.Size{W: 120, H: 50}
	}
	return model.Size{W: 100, H: 40}
})

func newEditor(t *testing.T) *Editor {
	t.Helper()
	n := 0
	opts := DefaultOptions(boxes)
	opts.IDs = func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
	e := New(opts)
	e.Resize(800, 600)
	return e
}

// addTopic adds a child of the selection and commits text for it.
func addTopic(t *testing.T, e *Editor, text string) *model.Node {
	t.Helper()
	n, err := e.AddChild()
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := e.CommitEdit(text); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	return n
}

func TestNewDocument(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()
	if root.Text != DefaultRootText {
		t.Errorf("root text = %q", root.Text)
	}
	if e.Selected() != root {
		t.Error("root should start selected")
	}
	if e.Dirty() || e.Path() != "" {
		t.Error("fresh document should be clean and unnamed")
	}
	if root.Pos != (model.Point{X: 5000, Y: 5000}) {
		t.Errorf("root at %v", root.Pos)
	}
	if o := e.View().Origin(); o != (model.Point{X: 4600, Y: 4700}) {
		t.Errorf("origin = %v, want view centred on the root", o)
	}
}

func TestAddChildStartsEditing(t *testing.T) {
	e := newEditor(t)
	n, err := e.AddChild()
	if err != nil {
		t.Fatal(err)
	}
	if n.Text != DefaultTopicText {
		t.Errorf("text = %q", n.Text)
	}
	if e.Selected() != n {
		t.Error("new topic should be selected")
	}
	if ed, ok := e.Editing(); !ok || ed != n {
		t.Error("new topic should be in edit mode")
	}
	if !e.Dirty() {
		t.Error("add should mark the document dirty")
	}
	if _, err := e.AddChild(); !errors.Is(err, ErrEditing) {
		t.Errorf("AddChild while editing = %v, want ErrEditing", err)
	}
	if e.BeginEdit() {
		t.Error("second BeginEdit should be ignored")
	}

	if err := e.CommitEdit("first\nline two"); err != nil {
		t.Fatal(err)
	}
	if n.Text != "first\nline two" {
		t.Errorf("text after commit = %q", n.Text)
	}
	if _, ok := e.Editing(); ok {
		t.Error("commit should end the edit")
	}
}

func TestCancelEditKeepsText(t *testing.T) {
	e := newEditor(t)
	n := addTopic(t, e, "keep")
	if !e.BeginEdit() {
		t.Fatal("BeginEdit refused")
	}
	e.CancelEdit()
	if n.Text != "keep" {
		t.Errorf("text = %q after cancel", n.Text)
	}
}

func TestBalancedRootChildren(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root().ID
	var sides []model.Side
	for i := 0; i < 4; i++ {
		e.Select(root)
		sides = append(sides, addTopic(t, e, fmt.Sprint(i)).Side)
	}
	want := []model.Side{model.SideRight, model.SideLeft, model.SideRight, model.SideLeft}
	for i := range want {
		if sides[i] != want[i] {
			t.Errorf("child %d side = %v, want %v", i, sides[i], want[i])
		}
	}
}

func TestAddSibling(t *testing.T) {
	e := newEditor(t)
	if n, err := e.AddSibling(); n != nil || err != nil {
		t.Errorf("AddSibling on root = %v, %v; want no-op", n, err)
	}
	a := addTopic(t, e, "a")
	b := addTopic(t, e, "b")
	e.Select(b.ID)
	s, err := e.AddSibling()
	if err != nil {
		t.Fatal(err)
	}
	if s.ParentID() != a.ID || s.Side != a.Side {
		t.Errorf("sibling parent=%q side=%v, want %q %v", s.ParentID(), s.Side, a.ID, a.Side)
	}
}

func TestDeleteSelectsParent(t *testing.T) {
	e := newEditor(t)
	a := addTopic(t, e, "a")
	b := addTopic(t, e, "b")
	addTopic(t, e, "c")
	e.Select(b.ID)

	ok, err := e.Delete()
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if e.Selected() != a {
		t.Errorf("selected %q, want parent %q", e.Selected().ID, a.ID)
	}
	if e.Tree().Len() != 2 {
		t.Errorf("Len = %d, want 2 (subtree removed)", e.Tree().Len())
	}

	e.Select(e.Tree().Root().ID)
	if ok, _ := e.Delete(); ok {
		t.Error("deleting the root should be a no-op")
	}
}

func TestNavigateCentresSelection(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root().ID
	r := addTopic(t, e, "right")
	e.Select(root)
	l := addTopic(t, e, "left")
	e.Select(root)

	if !e.Navigate(nav.Right) || e.Selected() != r {
		t.Fatalf("Right from root selected %q", e.Selected().ID)
	}
	if !e.Navigate(nav.Left) || e.Selected().ID != root {
		t.Fatalf("Left from right child selected %q", e.Selected().ID)
	}
	e.Navigate(nav.Left)
	if e.Selected() != l {
		t.Fatalf("Left from root selected %q", e.Selected().ID)
	}
	if e.Navigate(nav.Left) {
		t.Error("Left from a leaf should not move")
	}
}

func TestToggleCollapse(t *testing.T) {
	e := newEditor(t)
	a := addTopic(t, e, "a")
	if e.ToggleCollapse() {
		t.Error("a childless topic cannot collapse")
	}
	child := addTopic(t, e, "child")
	e.Select(a.ID)
	if !e.ToggleCollapse() || !a.Collapsed {
		t.Fatal("collapse failed")
	}
	if e.Tree().IsVisible(child) {
		t.Error("child of a collapsed topic should be hidden")
	}
	if e.Select(child.ID) {
		t.Error("hidden topics cannot be selected")
	}

	// Adding to a collapsed topic expands it.
	if _, err := e.AddChild(); err != nil {
		t.Fatal(err)
	}
	e.CancelEdit()
	if a.Collapsed {
		t.Error("parent should be expanded after adding a child")
	}
}

func TestRevealExpandsAncestors(t *testing.T) {
	e := newEditor(t)
	a := addTopic(t, e, "a")
	b := addTopic(t, e, "b")
	c := addTopic(t, e, "c")
	e.Select(a.ID)
	e.ToggleCollapse()
	if e.Tree().IsVisible(c) {
		t.Fatal("c should be hidden")
	}

	if !e.Reveal(c.ID) {
		t.Fatal("Reveal failed")
	}
	if a.Collapsed || b.Collapsed {
		t.Error("ancestors should be expanded")
	}
	if e.Selected() != c {
		t.Error("revealed topic should be selected")
	}
	if e.Reveal("missing") {
		t.Error("unknown id should not be revealed")
	}
}

func TestDragReparent(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root().ID
	a := addTopic(t, e, "a")
	e.Select(root)
	b := addTopic(t, e, "b")

	view := e.View()
	if !e.Press(view.ToScreen(b.Pos)) {
		t.Fatal("press on b missed")
	}
	if e.Selected() != b {
		t.Error("press should select the node")
	}
	e.Motion(view.ToScreen(a.Pos))
	if e.DragState() != drag.Previewing {
		t.Fatalf("state = %v, want previewing", e.DragState())
	}
	s := e.Scene()
	if s.Shadow == nil || s.Ghost == nil {
		t.Fatal("scene should carry the shadow and ghost")
	}
	if b.ParentID() != root {
		t.Fatal("preview must not change the tree")
	}

	m, ok := e.Release(view.ToScreen(a.Pos))
	if !ok {
		t.Fatal("drop on a did not commit")
	}
	if m.OldParent != root || m.NewParent != a.ID {
		t.Errorf("move = %+v", m)
	}
	if b.ParentID() != a.ID || b.Side != a.Side {
		t.Errorf("b parent=%q side=%v", b.ParentID(), b.Side)
	}
	if !e.Dirty() || e.Selected() != b {
		t.Error("drop should dirty the document and select the moved topic")
	}
	if e.DragState() != drag.Idle {
		t.Error("controller should be idle after release")
	}
}

func TestSaveOpenReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")

	lib, err := library.Open(filepath.Join(dir, "lib.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	opts := DefaultOptions(boxes)
	opts.Library = lib
	e := New(opts)
	e.Resize(800, 600)

	if err := e.Save(ctx); !errors.Is(err, ErrNoPath) {
		t.Fatalf("Save without path = %v", err)
	}
	if got := e.SuggestedPath(); got != "Central Topic.json" {
		t.Errorf("SuggestedPath = %q", got)
	}
	addTopic(t, e, "idea")
	if err := e.SaveAs(ctx, path); err != nil {
		t.Fatal(err)
	}
	if e.Dirty() || e.Path() != path {
		t.Errorf("after SaveAs dirty=%v path=%q", e.Dirty(), e.Path())
	}
	recent, err := lib.Recent(ctx, 10)
	if err != nil || len(recent) != 1 || recent[0].Nodes != 2 {
		t.Errorf("library = %+v, %v", recent, err)
	}

	// Our own write is not an external change.
	if changed, err := e.Reload(); changed || err != nil {
		t.Errorf("Reload after own save = %v, %v", changed, err)
	}

	other, err := persist.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.SetText(other.Root().ID, "Renamed"); err != nil {
		t.Fatal(err)
	}
	if _, err := persist.Save(path, other); err != nil {
		t.Fatal(err)
	}
	changed, err := e.Reload()
	if err != nil || !changed {
		t.Fatalf("Reload = %v, %v", changed, err)
	}
	if e.Tree().Root().Text != "Renamed" {
		t.Errorf("root = %q after reload", e.Tree().Root().Text)
	}

	addTopic(t, e, "local")
	other.Root().Text = "Again"
	if _, err := persist.Save(path, other); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Reload(); !errors.Is(err, ErrUnsavedChanges) {
		t.Errorf("Reload with local edits = %v, want ErrUnsavedChanges", err)
	}

	f := New(opts)
	if err := f.Open(ctx, path); err != nil {
		t.Fatal(err)
	}
	if f.Tree().Root().Text != "Again" || f.Dirty() {
		t.Errorf("opened root %q dirty=%v", f.Tree().Root().Text, f.Dirty())
	}
}

func TestOpenFailureKeepsDocument(t *testing.T) {
	e := newEditor(t)
	addTopic(t, e, "keep me")
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := e.Open(context.Background(), bad)
	var pe *persist.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Open = %v, want PersistenceError", err)
	}
	if e.Tree().Len() != 2 || e.Path() != "" {
		t.Error("failed open replaced the document")
	}
}

func TestEditorOperationsKeepTreeValid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := 0
		opts := DefaultOptions(boxes)
		opts.IDs = func() string {
			n++
			return fmt.Sprintf("n%d", n)
		}
		e := New(opts)
		e.Resize(800, 600)

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 5).Draw(rt, "op") {
			case 0:
				if _, err := e.AddChild(); err == nil {
					_ = e.CommitEdit("t")
				}
			case 1:
				if _, err := e.AddSibling(); err == nil {
					e.CancelEdit()
				}
			case 2:
				_, _ = e.Delete()
			case 3:
				e.Navigate(nav.Direction(rapid.IntRange(0, 3).Draw(rt, "dir")))
			case 4:
				e.ToggleCollapse()
			case 5:
				ids := e.Tree().Root().ChildIDs()
				if len(ids) > 0 {
					e.Select(ids[rapid.IntRange(0, len(ids)-1).Draw(rt, "pick")])
				}
			}
			if err := e.Tree().Validate(); err != nil {
				rt.Fatalf("invalid tree after step %d: %v", i, err)
			}
			if !e.Tree().IsVisible(e.Selected()) {
				rt.Fatalf("selection %q is hidden", e.Selected().ID)
			}
		}
	})
}
