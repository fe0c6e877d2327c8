package model

import (
	"fmt"
	"slices"
)

// Placement records where a node sits in the tree and the metadata a move
// may change, so a speculative move can be undone exactly.
type Placement struct {
	ID     string
	Parent string
	Index  int
	Side   Side
	Color  string
}

// PlacementOf captures the current placement of a non-root node.
func (t *Tree) PlacementOf(id string) (Placement, bool) {
	n, ok := t.nodes[id]
	if !ok || n.IsRoot() {
		return Placement{}, false
	}
	return Placement{
		ID:     id,
		Parent: n.parent,
		Index:  t.ChildIndex(n),
		Side:   n.Side,
		Color:  n.Color,
	}, true
}

// Restore puts the node back where p says it was: same parent, same index
// among its siblings, same color, and p.Side propagated to the subtree.
func (t *Tree) Restore(p Placement) error {
	n, ok := t.nodes[p.ID]
	if !ok {
		return fmt.Errorf("restore %q: %w", p.ID, ErrNotFound)
	}
	parent, ok := t.nodes[p.Parent]
	if !ok {
		return fmt.Errorf("restore %q under %q: %w", p.ID, p.Parent, ErrNotFound)
	}
	if p.Parent == p.ID || t.IsDescendantOf(p.Parent, p.ID) {
		return fmt.Errorf("restore %q under %q: %w", p.ID, p.Parent, ErrInvalidOperation)
	}
	t.detach(n)
	idx := min(max(p.Index, 0), len(parent.children))
	parent.children = slices.Insert(parent.children, idx, n.ID)
	n.parent = parent.ID
	n.Color = p.Color
	t.PropagateSide(n.ID, p.Side)
	return nil
}
