package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// DefaultRootText is the text of the root topic of a new map.
const DefaultRootText = "Central Topic"

// DefaultTopicText is the text given to topics created without one.
const DefaultTopicText = "New Topic"

// Tree is an arena of nodes addressed by stable id.
//
// Ownership is strictly top-down: a node's children list is the only owning
// edge, and parent ids are lookups. Every node stored in the arena is
// reachable from the root; removing a node removes its whole subtree.
type Tree struct {
	nodes map[string]*Node
	root  string
	newID func() string
}

// Option configures a Tree at construction.
type Option func(*Tree)

// WithIDGenerator replaces the uuid generator, e.g. for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tree) {
		t.newID = gen
	}
}

// WithRootID fixes the id of the root node instead of generating one.
func WithRootID(id string) Option {
	return func(t *Tree) {
		if id != "" {
			t.root = id
		}
	}
}

// NewID returns a fresh unique node identity.
func NewID() string {
	return uuid.NewString()
}

// NewTree creates a tree holding a single root node.
func NewTree(rootText string, opts ...Option) *Tree {
	t := &Tree{
		nodes: make(map[string]*Node),
		newID: NewID,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.root == "" {
		t.root = t.newID()
	}
	t.nodes[t.root] = &Node{ID: t.root, Text: rootText}
	return t
}

// Root returns the root node. It is never nil.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// FindByID searches depth-first from the root and returns the node with id,
// or nil. Every node in the arena is reachable from the root, so this agrees
// with Node; it exists for callers that want the traversal semantics.
func (t *Tree) FindByID(id string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Parent returns the parent of n, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil || n.parent == "" {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the ordered children of n.
func (t *Tree) Children(n *Node) []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, t.nodes[id])
	}
	return out
}

// ChildIndex returns the position of n in its parent's children, or -1.
func (t *Tree) ChildIndex(n *Node) int {
	p := t.Parent(n)
	if p == nil {
		return -1
	}
	return slices.Index(p.children, n.ID)
}

// IsRootChild reports whether n is a direct child of the root.
func (t *Tree) IsRootChild(n *Node) bool {
	return n != nil && n.parent == t.root
}

// Depth returns the number of edges between n and the root.
func (t *Tree) Depth(n *Node) int {
	d := 0
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		d++
	}
	return d
}

// AddChild appends a new node with the given text to parentID's children.
//
// When side is SideUnset the side is chosen for the caller: balanced across
// the root's children for a root child, inherited from the parent otherwise.
// The new node inherits the parent's color tag.
func (t *Tree) AddChild(parentID, text string, side Side) (*Node, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return nil, fmt.Errorf("add child to %q: %w", parentID, ErrNotFound)
	}
	if side == SideUnset {
		if parent.IsRoot() {
			side = t.BalancedSide("")
		} else {
			side = parent.Side
		}
	}
	n := &Node{
		ID:     t.newID(),
		Text:   text,
		Color:  parent.Color,
		Side:   side,
		parent: parent.ID,
	}
	t.nodes[n.ID] = n
	parent.children = append(parent.children, n.ID)
	return n, nil
}

// Attach adds a fully specified node under parentID. Loaders use it to
// rebuild a persisted tree; no side or color is inferred.
func (t *Tree) Attach(parentID string, n *Node) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return fmt.Errorf("attach under %q: %w", parentID, ErrNotFound)
	}
	if n.ID == "" {
		n.ID = t.newID()
	}
	if _, dup := t.nodes[n.ID]; dup {
		return fmt.Errorf("attach %q: %w", n.ID, ErrDuplicateID)
	}
	n.parent = parent.ID
	n.children = nil
	t.nodes[n.ID] = n
	parent.children = append(parent.children, n.ID)
	return nil
}

// RemoveChild detaches the node and deletes its whole subtree. It is a
// no-op returning false for the root or an unknown id.
func (t *Tree) RemoveChild(id string) bool {
	n, ok := t.nodes[id]
	if !ok || n.IsRoot() {
		return false
	}
	parent := t.nodes[n.parent]
	idx := slices.Index(parent.children, id)
	if idx < 0 {
		return false
	}
	parent.children = slices.Delete(parent.children, idx, idx+1)
	t.forget(n)
	return true
}

func (t *Tree) forget(n *Node) {
	for _, c := range n.children {
		t.forget(t.nodes[c])
	}
	delete(t.nodes, n.ID)
}

// MoveTo detaches the node from its parent and appends it to newParentID's
// children, taking the new parent's color tag. The side is left unchanged;
// callers reassign it with PropagateSide.
func (t *Tree) MoveTo(id, newParentID string) error {
	if err := t.CanMove(id, newParentID); err != nil {
		return err
	}
	n := t.nodes[id]
	np := t.nodes[newParentID]
	t.detach(n)
	n.parent = np.ID
	np.children = append(np.children, n.ID)
	n.Color = np.Color
	return nil
}

// CanMove reports why moving id under newParentID would be rejected, or nil.
func (t *Tree) CanMove(id, newParentID string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("move %q: %w: %w", id, ErrInvalidOperation, ErrNotFound)
	}
	if _, ok := t.nodes[newParentID]; !ok {
		return fmt.Errorf("move %q to %q: %w: target %w", id, newParentID, ErrInvalidOperation, ErrNotFound)
	}
	switch {
	case n.IsRoot():
		return fmt.Errorf("move root: %w", ErrInvalidOperation)
	case id == newParentID:
		return fmt.Errorf("move %q into itself: %w", id, ErrInvalidOperation)
	case t.IsDescendantOf(newParentID, id):
		return fmt.Errorf("move %q into its descendant %q: %w", id, newParentID, ErrInvalidOperation)
	}
	return nil
}

func (t *Tree) detach(n *Node) {
	if p, ok := t.nodes[n.parent]; ok {
		if idx := slices.Index(p.children, n.ID); idx >= 0 {
			p.children = slices.Delete(p.children, idx, idx+1)
		}
	}
	n.parent = ""
}

// IsDescendantOf reports whether id lies strictly below ancestorID.
// A node is not its own descendant.
func (t *Tree) IsDescendantOf(id, ancestorID string) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		if p.ID == ancestorID {
			return true
		}
	}
	return false
}

// BalancedSide picks the side for a new (or re-homed) root child so that the
// two sides stay within one of each other. Ties favour the right. The node
// named by excludeID, if any, is left out of the count.
func (t *Tree) BalancedSide(excludeID string) Side {
	var left, right int
	for _, id := range t.Root().children {
		if id == excludeID {
			continue
		}
		if t.nodes[id].Side.IsLeft() {
			left++
		} else {
			right++
		}
	}
	if right <= left {
		return SideRight
	}
	return SideLeft
}

// PropagateSide sets side on the node and every descendant.
func (t *Tree) PropagateSide(id string, side Side) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	n.Side = side
	for _, c := range n.children {
		t.PropagateSide(c, side)
	}
}

// SetText replaces the node's text.
func (t *Tree) SetText(id, text string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("set text of %q: %w", id, ErrNotFound)
	}
	n.Text = text
	return nil
}

// SetCollapsed hides or shows the node's descendants.
func (t *Tree) SetCollapsed(id string, collapsed bool) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("collapse %q: %w", id, ErrNotFound)
	}
	n.Collapsed = collapsed
	return nil
}

// Walk visits every node pre-order from the root, children in order.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	t.walk(t.Root(), 0, false, fn)
}

// WalkVisible is Walk without descending into collapsed nodes.
func (t *Tree) WalkVisible(fn func(n *Node, depth int) bool) {
	t.walk(t.Root(), 0, true, fn)
}

// WalkFrom visits the subtree rooted at id pre-order.
func (t *Tree) WalkFrom(id string, fn func(n *Node, depth int) bool) {
	if n, ok := t.nodes[id]; ok {
		t.walk(n, 0, false, fn)
	}
}

func (t *Tree) walk(n *Node, depth int, visibleOnly bool, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	if visibleOnly && n.Collapsed {
		return true
	}
	for _, c := range n.children {
		if !t.walk(t.nodes[c], depth+1, visibleOnly, fn) {
			return false
		}
	}
	return true
}

// IsVisible reports whether no ancestor of n is collapsed.
func (t *Tree) IsVisible(n *Node) bool {
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		if p.Collapsed {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants: parent links agree with child
// lists, every node is reachable from the root exactly once, root children
// have a side and descendants share their parent's side.
func (t *Tree) Validate() error {
	root := t.Root()
	if root == nil {
		return fmt.Errorf("validate: missing root %q", t.root)
	}
	if root.parent != "" {
		return fmt.Errorf("validate: root %q has parent %q", root.ID, root.parent)
	}
	seen := make(map[string]bool, len(t.nodes))
	var check func(n *Node) error
	check = func(n *Node) error {
		if seen[n.ID] {
			return fmt.Errorf("validate: node %q reached twice", n.ID)
		}
		seen[n.ID] = true
		for _, cid := range n.children {
			c, ok := t.nodes[cid]
			if !ok {
				return fmt.Errorf("validate: child %q of %q: %w", cid, n.ID, ErrNotFound)
			}
			if c.parent != n.ID {
				return fmt.Errorf("validate: child %q of %q points at parent %q", cid, n.ID, c.parent)
			}
			switch {
			case n.IsRoot() && c.Side == SideUnset:
				return fmt.Errorf("validate: root child %q has no side", cid)
			case !n.IsRoot() && c.Side != n.Side:
				return fmt.Errorf("validate: node %q side %v differs from parent %q side %v", cid, c.Side, n.ID, n.Side)
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(root); err != nil {
		return err
	}
	if len(seen) != len(t.nodes) {
		return fmt.Errorf("validate: %d nodes unreachable from root", len(t.nodes)-len(seen))
	}
	return nil
}
