// Package nav maps arrow keys onto tree moves that follow the radial layout,
// so the selection goes where the eye expects it to.
package nav

import (
	"cmp"
	"slices"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Direction is an arrow key.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Resolve returns the id of the node selected after pressing dir on id.
// When there is nowhere to go the current id is returned. Unknown ids are
// returned unchanged.
//
// Left and Right move outward along a node's own side and inward toward the
// root otherwise. Collapsed nodes are not descended into. Up and Down step
// through same-side siblings; under the root they follow the sectors'
// on-screen order (top, middle, bottom) rather than insertion order.
func Resolve(t *model.Tree, id string, dir Direction) string {
	n, ok := t.Node(id)
	if !ok {
		return id
	}
	switch dir {
	case Left, Right:
		return horizontal(t, n, dir == Left)
	case Up, Down:
		return vertical(t, n, dir == Up)
	}
	return id
}

func horizontal(t *model.Tree, n *model.Node, left bool) string {
	if n.IsRoot() {
		side := model.SideRight
		if left {
			side = model.SideLeft
		}
		if kids := layout.SideChildren(t, side); len(kids) > 0 && !n.Collapsed {
			return kids[0].ID
		}
		return n.ID
	}
	if n.Side.IsLeft() == left {
		if n.Expanded() {
			return n.ChildIDs()[0]
		}
		return n.ID
	}
	return n.ParentID()
}

func vertical(t *model.Tree, n *model.Node, up bool) string {
	parent := t.Parent(n)
	if parent == nil {
		return n.ID
	}
	siblings := sameSide(t, parent, n.Side)
	if parent.IsRoot() {
		siblings = visualOrder(siblings)
	}
	i := slices.Index(siblings, n)
	switch {
	case i < 0:
		return n.ID
	case up && i > 0:
		return siblings[i-1].ID
	case !up && i < len(siblings)-1:
		return siblings[i+1].ID
	}
	return n.ID
}

func sameSide(t *model.Tree, parent *model.Node, side model.Side) []*model.Node {
	var out []*model.Node
	for _, c := range t.Children(parent) {
		if c.Side.IsLeft() == side.IsLeft() {
			out = append(out, c)
		}
	}
	return out
}

// visualOrder sorts root children of one side top to bottom. The input is
// in insertion order, which gives each node its side index.
func visualOrder(side []*model.Node) []*model.Node {
	type keyed struct {
		n          *model.Node
		rank, slot int
	}
	ks := make([]keyed, len(side))
	for i, n := range side {
		r, s := layout.VisualKey(i)
		ks[i] = keyed{n, r, s}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return cmp.Or(cmp.Compare(a.rank, b.rank), cmp.Compare(a.slot, b.slot))
	})
	out := make([]*model.Node, len(ks))
	for i, k := range ks {
		out[i] = k.n
	}
	return out
}
