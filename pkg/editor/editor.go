// Package editor ties the mind-map core together behind the operations a
// shell exposes: adding, editing, deleting and moving topics, keyboard
// navigation, collapse, and document I/O.
//
// Every structural or text change relayouts the whole tree and keeps the
// selection on screen. An Editor is not safe for concurrent use; shells call
// it from their event loop.
package editor

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/nav"
	"github.com/vanderheijden86/mindmap/pkg/persist"
	"github.com/vanderheijden86/mindmap/pkg/render"
	"github.com/vanderheijden86/mindmap/pkg/viewport"
)

// Default texts for new documents and topics.
const (
	DefaultRootText  = "Central Topic"
	DefaultTopicText = "New Topic"
)

var (
	// ErrEditing is returned by operations that are blocked while a topic's
	// text is being edited.
	ErrEditing = errors.New("a topic is being edited")
	// ErrNoPath is returned by Save before the document has a file.
	ErrNoPath = errors.New("document has no file yet")
	// ErrUnsavedChanges is returned by Reload when local edits would be lost.
	ErrUnsavedChanges = errors.New("document has unsaved changes")
)

// Options configures an Editor.
type Options struct {
	Layout     layout.Config
	Measure    layout.Measurer
	Center     model.Point // logical position of the root
	Viewport   viewport.Config
	Drag       drag.Config
	HitPadding float64 // extra slop around node boxes for pointer hits
	RootText   string
	IDs        func() string    // node id generator, model.NewID when nil
	Library    *library.Library // optional recent-documents store
}

// DefaultOptions returns the pixel defaults with the given measurer.
func DefaultOptions(m layout.Measurer) Options {
	vc := viewport.DefaultConfig()
	return Options{
		Layout:     layout.DefaultConfig(),
		Measure:    m,
		Center:     vc.Center,
		Viewport:   vc,
		Drag:       drag.DefaultConfig(),
		HitPadding: 10,
		RootText:   DefaultRootText,
	}
}

// Editor is one open mind-map document.
type Editor struct {
	opts   Options
	tree   *model.Tree
	engine *layout.Engine
	view   *viewport.Viewport
	sel    viewport.Selection
	drag   *drag.Controller

	path    string
	saved   [sha256.Size]byte // hash of the bytes last read or written
	dirty   bool
	editing string
	sized   bool
}

// New creates an editor holding a fresh document with only a root.
func New(opts Options) *Editor {
	if opts.RootText == "" {
		opts.RootText = DefaultRootText
	}
	e := &Editor{
		opts:   opts,
		engine: layout.New(opts.Layout, opts.Measure),
		view:   viewport.New(opts.Viewport),
	}
	e.drag = drag.NewController(nil, drag.HitFunc(e.HitTest), drag.LayoutFunc(e.layoutOnly), e.view, opts.Drag)
	e.setTree(e.newTree())
	return e
}

func (e *Editor) treeOptions() []model.Option {
	if e.opts.IDs == nil {
		return nil
	}
	return []model.Option{model.WithIDGenerator(e.opts.IDs)}
}

func (e *Editor) newTree() *model.Tree {
	return model.NewTree(e.opts.RootText, e.treeOptions()...)
}

func (e *Editor) setTree(t *model.Tree) {
	e.tree = t
	e.editing = ""
	e.drag.SetTree(t)
	e.sel.Select(t.Root().ID)
	e.view.Recenter()
	e.Relayout()
}

// Tree returns the document tree. Callers must not mutate it directly.
func (e *Editor) Tree() *model.Tree { return e.tree }

// View returns the viewport.
func (e *Editor) View() *viewport.Viewport { return e.view }

// Path returns the document's file, or "" for an unsaved document.
func (e *Editor) Path() string { return e.path }

// Dirty reports whether there are changes since the last save or load.
func (e *Editor) Dirty() bool { return e.dirty }

// Selected returns the active node; never nil.
func (e *Editor) Selected() *model.Node { return e.sel.Active(e.tree) }

// Select makes id the active node and scrolls it into view. Unknown ids
// are ignored.
func (e *Editor) Select(id string) bool {
	n, ok := e.tree.Node(id)
	if !ok || !e.tree.IsVisible(n) {
		return false
	}
	e.sel.Select(id)
	e.view.EnsureVisible(n.Pos, false)
	return true
}

// Reveal expands every collapsed ancestor of id, then selects it and
// centres it.
func (e *Editor) Reveal(id string) bool {
	n, ok := e.tree.Node(id)
	if !ok {
		return false
	}
	expanded := false
	for p := e.tree.Parent(n); p != nil; p = e.tree.Parent(p) {
		if p.Collapsed {
			p.Collapsed = false
			expanded = true
		}
	}
	if expanded {
		e.dirty = true
		e.Relayout()
	}
	e.sel.Select(id)
	e.view.EnsureVisible(n.Pos, true)
	return true
}

// Resize sets the on-screen size of the view. The first call centres the
// view on the root.
func (e *Editor) Resize(w, h float64) {
	e.view.SetSize(w, h)
	if !e.sized {
		e.sized = true
		e.view.Recenter()
		e.Relayout()
	}
}

// Relayout recomputes every position and refreshes the scroll region.
func (e *Editor) Relayout() {
	e.layoutOnly()
	e.view.SetContent(layout.Bounds(e.tree))
	e.sel.Repair(e.tree)
}

func (e *Editor) layoutOnly() {
	e.engine.Apply(e.tree, e.opts.Center)
}

// HitTest returns the visible node at a logical point.
func (e *Editor) HitTest(p model.Point) (*model.Node, bool) {
	return layout.HitTest(e.tree, p, e.opts.HitPadding)
}

func (e *Editor) changed() {
	e.dirty = true
	e.Relayout()
	e.view.EnsureVisible(e.Selected().Pos, false)
}

// AddChild appends a topic to the selection, selects it and starts editing
// it. A collapsed parent is expanded so the new topic is visible.
func (e *Editor) AddChild() (*model.Node, error) {
	if e.editing != "" {
		return nil, ErrEditing
	}
	return e.add(e.Selected())
}

// AddSibling appends a topic to the selection's parent. On the root it does
// nothing and returns nil.
func (e *Editor) AddSibling() (*model.Node, error) {
	if e.editing != "" {
		return nil, ErrEditing
	}
	parent := e.tree.Parent(e.Selected())
	if parent == nil {
		return nil, nil
	}
	return e.add(parent)
}

func (e *Editor) add(parent *model.Node) (*model.Node, error) {
	n, err := e.tree.AddChild(parent.ID, DefaultTopicText, model.SideUnset)
	if err != nil {
		return nil, err
	}
	parent.Collapsed = false
	e.sel.Select(n.ID)
	e.changed()
	e.BeginEdit()
	return n, nil
}

// BeginEdit starts editing the selected topic's text. It reports false when
// an edit is already in progress.
func (e *Editor) BeginEdit() bool {
	if e.editing != "" {
		return false
	}
	e.editing = e.Selected().ID
	return true
}

// Editing returns the node being edited.
func (e *Editor) Editing() (*model.Node, bool) {
	if e.editing == "" {
		return nil, false
	}
	return e.tree.Node(e.editing)
}

// CommitEdit replaces the edited topic's text and ends the edit.
func (e *Editor) CommitEdit(text string) error {
	id := e.editing
	if id == "" {
		return nil
	}
	e.editing = ""
	n, ok := e.tree.Node(id)
	if !ok {
		return fmt.Errorf("commit edit of %q: %w", id, model.ErrNotFound)
	}
	if n.Text == text {
		return nil
	}
	if err := e.tree.SetText(id, text); err != nil {
		return err
	}
	e.changed()
	return nil
}

// CancelEdit ends the edit leaving the text unchanged.
func (e *Editor) CancelEdit() {
	e.editing = ""
}

// Delete removes the selected topic and its subtree and selects its parent.
// Deleting the root does nothing.
func (e *Editor) Delete() (bool, error) {
	if e.editing != "" {
		return false, ErrEditing
	}
	n := e.Selected()
	parent := e.tree.Parent(n)
	if parent == nil {
		return false, nil
	}
	if !e.tree.RemoveChild(n.ID) {
		return false, nil
	}
	e.sel.Select(parent.ID)
	e.changed()
	return true, nil
}

// Navigate moves the selection in a screen direction and centres it.
func (e *Editor) Navigate(dir nav.Direction) bool {
	if e.editing != "" {
		return false
	}
	cur := e.Selected()
	next := nav.Resolve(e.tree, cur.ID, dir)
	e.sel.Select(next)
	n := e.Selected()
	e.view.EnsureVisible(n.Pos, true)
	return n.ID != cur.ID
}

// ToggleCollapse folds or unfolds the selected topic's children. Topics
// without children are left alone.
func (e *Editor) ToggleCollapse() bool {
	if e.editing != "" {
		return false
	}
	n := e.Selected()
	if n.NumChildren() == 0 {
		return false
	}
	_ = e.tree.SetCollapsed(n.ID, !n.Collapsed)
	e.changed()
	return true
}

// Pointer input. Screen positions are relative to the view's top-left.

func (e *Editor) pointer(screen model.Point) drag.Pointer {
	return drag.Pointer{Screen: screen, Logical: e.view.ToLogical(screen)}
}

// Press selects the node under the pointer and arms a drag. It reports
// whether a node was hit.
func (e *Editor) Press(screen model.Point) bool {
	if e.editing != "" {
		return false
	}
	n, ok := e.drag.Press(e.pointer(screen))
	if ok {
		e.sel.Select(n.ID)
	}
	return ok
}

// Motion forwards pointer movement with the button held.
func (e *Editor) Motion(screen model.Point) {
	e.drag.Move(e.pointer(screen))
}

// Release ends a gesture, committing a drop on a valid target.
func (e *Editor) Release(screen model.Point) (drag.Move, bool) {
	m, ok := e.drag.Release(e.pointer(screen))
	if !ok {
		return m, false
	}
	logging.Info("moved topic",
		"node", m.NodeID, "from", m.OldParent, "to", m.NewParent, "side", m.Side.String())
	e.sel.Select(m.NodeID)
	e.changed()
	return m, true
}

// CancelDrag abandons the current gesture.
func (e *Editor) CancelDrag() { e.drag.Cancel() }

// DragState returns the drag controller's state.
func (e *Editor) DragState() drag.State { return e.drag.State() }

// Scene returns everything to draw for the current frame.
func (e *Editor) Scene() render.Scene {
	s := render.Scene{Tree: e.tree, Selected: e.Selected().ID}
	if sh, ok := e.drag.Shadow(); ok {
		s.Shadow = &sh
	}
	if g, ok := e.drag.Ghost(); ok {
		s.Ghost = &g
	}
	return s
}

// Render draws the current frame with r.
func (e *Editor) Render(r render.Renderer) {
	render.Draw(e.Scene(), r)
}

// SuggestedPath returns where Save As should propose writing: next to the
// current file, named after the root topic.
func (e *Editor) SuggestedPath() string {
	name := persist.DefaultFileName(e.tree.Root().Text)
	if e.path == "" {
		return name
	}
	return filepath.Join(filepath.Dir(e.path), name)
}

// Save writes the document to its current file.
func (e *Editor) Save(ctx context.Context) error {
	if e.path == "" {
		return ErrNoPath
	}
	start := time.Now()
	data, err := persist.Save(e.path, e.tree)
	if err != nil {
		return err
	}
	e.saved = sha256.Sum256(data)
	e.dirty = false
	logging.Info("saved document", "path", e.path, "nodes", e.tree.Len(), "duration", time.Since(start))
	e.touch(ctx)
	return nil
}

// SaveAs writes the document to path and makes it the current file.
func (e *Editor) SaveAs(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &persist.PersistenceError{Op: "save", Path: path, Err: err}
	}
	prev := e.path
	e.path = abs
	if err := e.Save(ctx); err != nil {
		e.path = prev
		return err
	}
	return nil
}

// Open replaces the document with the one at path. On error the current
// document is kept unchanged.
func (e *Editor) Open(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &persist.PersistenceError{Op: "load", Path: path, Err: err}
	}
	start := time.Now()
	t, data, err := e.read(abs)
	if err != nil {
		return err
	}
	e.path = abs
	e.saved = sha256.Sum256(data)
	e.dirty = false
	e.setTree(t)
	logging.Info("opened document", "path", abs, "nodes", t.Len(), "duration", time.Since(start))
	e.touch(ctx)
	return nil
}

func (e *Editor) read(path string) (*model.Tree, []byte, error) {
	return persist.Read(path, e.treeOptions()...)
}

// Reload re-reads the current file after an external change. Contents
// identical to the last save or load are ignored, and a document with
// unsaved edits is never replaced. The selection is kept when its node
// still exists.
func (e *Editor) Reload() (bool, error) {
	if e.path == "" {
		return false, ErrNoPath
	}
	t, data, err := e.read(e.path)
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256(data)
	if sum == e.saved {
		return false, nil
	}
	if e.dirty {
		return false, ErrUnsavedChanges
	}
	selected := e.sel.ID()
	e.saved = sum
	e.tree = t
	e.editing = ""
	e.drag.SetTree(t)
	e.sel.Select(selected)
	e.Relayout()
	logging.Info("reloaded document", "path", e.path, "nodes", t.Len())
	return true, nil
}

func (e *Editor) touch(ctx context.Context) {
	if e.opts.Library == nil || e.path == "" {
		return
	}
	if err := e.opts.Library.Touch(ctx, e.path, e.tree.Root().Text, e.tree.Len()); err != nil {
		logging.Warn("record recent document", "path", e.path, "error", err)
	}
}
