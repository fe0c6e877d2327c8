// Package persist reads and writes mind maps as nested JSON documents.
//
// Each node is an object
//
//	{"id": "...", "text": "...", "direction": "left"|"right"|null,
//	 "color": "..."|null, "children": [...]}
//
// with an optional "collapsed": true. The root is the top-level object.
// Missing or duplicate ids are replaced with fresh ones on load.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// ErrNoRoot is returned when a document has no root object.
var ErrNoRoot = errors.New("document has no root node")

// PersistenceError reports a failed load or save.
type PersistenceError struct {
	Op   string // "load", "save", "decode", "encode"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s mind map: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s mind map %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Document is the persisted form of a node and its subtree.
type Document struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Direction *string     `json:"direction"`
	Color     *string     `json:"color"`
	Collapsed bool        `json:"collapsed,omitempty"`
	Children  []*Document `json:"children"`
}

// ToDocument converts the tree into its persisted form.
func ToDocument(t *model.Tree) *Document {
	return toDocument(t, t.Root())
}

func toDocument(t *model.Tree, n *model.Node) *Document {
	d := &Document{
		ID:        n.ID,
		Text:      n.Text,
		Collapsed: n.Collapsed,
		Children:  []*Document{},
	}
	if s := n.Side.String(); s != "" && !n.IsRoot() {
		d.Direction = &s
	}
	if n.Color != "" {
		c := n.Color
		d.Color = &c
	}
	for _, c := range t.Children(n) {
		d.Children = append(d.Children, toDocument(t, c))
	}
	return d
}

// FromDocument rebuilds a tree. Root children without a direction are put
// on the right, which is where the layout draws them, and every subtree is
// given its root child's side. opts configure the new tree; its id
// generator also supplies replacements for missing or duplicate ids.
func FromDocument(d *Document, opts ...model.Option) (*model.Tree, error) {
	if d == nil {
		return nil, ErrNoRoot
	}
	t := model.NewTree(d.Text, append(opts, model.WithRootID(d.ID))...)
	root := t.Root()
	if d.Color != nil {
		root.Color = *d.Color
	}
	root.Collapsed = d.Collapsed

	for _, c := range d.Children {
		if err := attach(t, root.ID, c); err != nil {
			return nil, err
		}
	}
	for _, c := range t.Children(root) {
		side := c.Side
		if side == model.SideUnset {
			side = model.SideRight
		}
		t.PropagateSide(c.ID, side)
	}
	return t, nil
}

func attach(t *model.Tree, parentID string, d *Document) error {
	if d == nil {
		return nil
	}
	n := &model.Node{ID: d.ID, Text: d.Text, Collapsed: d.Collapsed}
	if d.Direction != nil {
		n.Side = model.ParseSide(*d.Direction)
	}
	if d.Color != nil {
		n.Color = *d.Color
	}
	err := t.Attach(parentID, n)
	if errors.Is(err, model.ErrDuplicateID) {
		n.ID = ""
		err = t.Attach(parentID, n)
	}
	if err != nil {
		return err
	}
	for _, c := range d.Children {
		if err := attach(t, n.ID, c); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes the tree as indented UTF-8 JSON.
func Encode(t *model.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(ToDocument(t)); err != nil {
		return nil, &PersistenceError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// Decode parses a document into a new tree.
func Decode(data []byte, opts ...model.Option) (*model.Tree, error) {
	var d *Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	t, err := FromDocument(d, opts...)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	return t, nil
}

// Load reads the document at path.
func Load(path string, opts ...model.Option) (*model.Tree, error) {
	t, _, err := Read(path, opts...)
	return t, err
}

// Read is Load that also returns the raw bytes, so callers can tell their
// own writes apart from external edits.
func Read(path string, opts ...model.Option) (*model.Tree, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	t, err := Decode(data, opts...)
	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return nil, nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return t, data, nil
}

// Save writes the tree to path atomically via a temp file and rename, and
// returns the bytes written.
func Save(path string, t *model.Tree) ([]byte, error) {
	data, err := Encode(t)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(path, data); err != nil {
		return nil, &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mindmap-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmp = nil

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
