package drag

import (
	"fmt"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Layouter recomputes the layout of the tree the controller operates on.
type Layouter interface {
	Relayout()
}

// LayoutFunc adapts a function to the Layouter interface.
type LayoutFunc func()

// Relayout calls f.
func (f LayoutFunc) Relayout() { f() }

// Shadow is the transient indicator of where a dragged node would land.
// Positions are relative to the live (unmodified) layout.
type Shadow struct {
	NodeID   string
	TargetID string
	Pos      model.Point // where the node would be drawn
	Size     model.Size
	Side     model.Side
	Anchor   model.Point // the target's current position
	AnchorSz model.Size
}

// Box returns the shadow's rectangle.
func (s Shadow) Box() model.Rect {
	n := model.Node{Pos: s.Pos, Size: s.Size}
	return n.Box()
}

// Move describes a committed reparent.
type Move struct {
	NodeID    string
	OldParent string
	NewParent string
	Side      model.Side
}

// ValidTarget reports why targetID cannot receive nodeID, or nil. Beyond the
// structural rules of a move, dropping a node on its current parent is
// rejected since it would change nothing.
func ValidTarget(t *model.Tree, nodeID, targetID string) error {
	if err := t.CanMove(nodeID, targetID); err != nil {
		return err
	}
	n, _ := t.Node(nodeID)
	if n.ParentID() == targetID {
		return fmt.Errorf("drop %q on its parent %q: %w", nodeID, targetID, model.ErrInvalidOperation)
	}
	return nil
}

// sideUnder returns the side nodeID takes once it is a child of targetID.
func sideUnder(t *model.Tree, nodeID, targetID string) model.Side {
	target, _ := t.Node(targetID)
	if target.IsRoot() {
		return t.BalancedSide(nodeID)
	}
	return target.Side
}

// Preview moves nodeID under targetID, lays the tree out, records where the
// node ends up and then puts everything back. The tree is restored and laid
// out again before Preview returns, including when the layout panics.
//
// A collapsed target is expanded for the speculative layout only, so the
// shadow shows where the node lands once the drop expands it.
func Preview(t *model.Tree, l Layouter, nodeID, targetID string) (s Shadow, err error) {
	if err := ValidTarget(t, nodeID, targetID); err != nil {
		return Shadow{}, err
	}
	orig, _ := t.PlacementOf(nodeID)
	target, _ := t.Node(targetID)
	anchor, anchorSz := target.Pos, target.Size
	wasCollapsed := target.Collapsed

	defer func() {
		target.Collapsed = wasCollapsed
		if rerr := t.Restore(orig); rerr != nil && err == nil {
			err = fmt.Errorf("revert preview of %q: %w", nodeID, rerr)
		}
		l.Relayout()
	}()

	target.Collapsed = false
	if err := t.MoveTo(nodeID, targetID); err != nil {
		return Shadow{}, err
	}
	side := sideUnder(t, nodeID, targetID)
	t.PropagateSide(nodeID, side)
	l.Relayout()

	n, _ := t.Node(nodeID)
	return Shadow{
		NodeID:   nodeID,
		TargetID: targetID,
		Pos:      anchor.Add(n.Pos.Sub(target.Pos)),
		Size:     n.Size,
		Side:     side,
		Anchor:   anchor,
		AnchorSz: anchorSz,
	}, nil
}

// Commit permanently moves nodeID under targetID, assigns its side and
// expands the target. The caller relayouts afterwards.
func Commit(t *model.Tree, nodeID, targetID string) (Move, error) {
	if err := ValidTarget(t, nodeID, targetID); err != nil {
		return Move{}, err
	}
	n, _ := t.Node(nodeID)
	m := Move{NodeID: nodeID, OldParent: n.ParentID(), NewParent: targetID}
	if err := t.MoveTo(nodeID, targetID); err != nil {
		return Move{}, err
	}
	m.Side = sideUnder(t, nodeID, targetID)
	t.PropagateSide(nodeID, m.Side)
	_ = t.SetCollapsed(targetID, false)
	return m, nil
}
