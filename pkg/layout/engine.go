// Package layout positions a mind-map tree radially around its root.
//
// The engine runs two passes over the whole tree on every call:
//
//  1. size pass (post-order): measure every node's text and compute the
//     vertical space its subtree needs;
//  2. position pass (pre-order): pin the root at the given centre, split the
//     root's children into a right and a left side, spread each side's
//     children over three vertical sectors, and stack every subtree outward
//     on its side.
//
// Apply only writes the Pos, Size and SubtreeHeight fields of nodes. Running
// it twice on an unchanged tree yields identical positions.
package layout

import (
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Style selects the text style a node is measured and drawn with.
type Style int

const (
	StyleTopic Style = iota
	StyleRoot
)

// Measurer is the text measurement port: it returns the rendered size of
// text in the given style. It must be deterministic for the same inputs.
type Measurer interface {
	Measure(text string, style Style) model.Size
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(text string, style Style) model.Size

// Measure calls f.
func (f MeasureFunc) Measure(text string, style Style) model.Size {
	return f(text, style)
}

// Config holds the spacing constants, in layout units.
type Config struct {
	HorizontalMargin float64 // gap between a parent's edge and its child's edge
	SiblingGap       float64 // vertical gap between stacked siblings
	SectorGap        float64 // vertical gap between the middle sector and top/bottom
}

// DefaultConfig returns the pixel defaults.
func DefaultConfig() Config {
	return Config{
		HorizontalMargin: 80,
		SiblingGap:       30,
		SectorGap:        40,
	}
}

// Engine computes layouts. It holds no per-tree state.
type Engine struct {
	cfg     Config
	measure Measurer
}

// New creates an engine with the given spacing and measurement port.
func New(cfg Config, m Measurer) *Engine {
	return &Engine{cfg: cfg, measure: m}
}

// Config returns the engine's spacing constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Apply lays out the whole tree with the root centred on center.
func (e *Engine) Apply(t *model.Tree, center model.Point) {
	root := t.Root()
	e.measureSubtree(t, root)

	root.Pos = center

	for _, side := range []model.Side{model.SideRight, model.SideLeft} {
		sectors := Partition(SideChildren(t, side))
		mid := sectors[SectorMiddle]
		top := sectors[SectorTop]
		bottom := sectors[SectorBottom]

		midBoundary := max(root.Size.H/2, e.blockHeight(mid)/2)

		if len(mid) > 0 {
			e.layoutBranch(t, mid, root, center.Y, side)
		}
		if len(top) > 0 {
			h := e.blockHeight(top)
			e.layoutBranch(t, top, root, center.Y-midBoundary-e.cfg.SectorGap-h/2, side)
		}
		if len(bottom) > 0 {
			h := e.blockHeight(bottom)
			e.layoutBranch(t, bottom, root, center.Y+midBoundary+e.cfg.SectorGap+h/2, side)
		}
	}
}

// measureSubtree is the size pass. A collapsed node counts as a leaf.
func (e *Engine) measureSubtree(t *model.Tree, n *model.Node) float64 {
	style := StyleTopic
	if n.IsRoot() {
		style = StyleRoot
	}
	n.Size = e.measure.Measure(n.Text, style)

	if !n.Expanded() {
		n.SubtreeHeight = n.Size.H
		return n.SubtreeHeight
	}

	children := t.Children(n)
	var total float64
	for _, c := range children {
		total += e.measureSubtree(t, c)
	}
	total += e.cfg.SiblingGap * float64(len(children)-1)

	n.SubtreeHeight = max(n.Size.H, total)
	return n.SubtreeHeight
}

// blockHeight is the height of nodes stacked with sibling gaps.
func (e *Engine) blockHeight(nodes []*model.Node) float64 {
	if len(nodes) == 0 {
		return 0
	}
	var h float64
	for _, n := range nodes {
		h += n.SubtreeHeight
	}
	return h + e.cfg.SiblingGap*float64(len(nodes)-1)
}

// layoutBranch stacks nodes vertically, centred on centerY, beside parent,
// and recurses into each expanded node with the same side.
func (e *Engine) layoutBranch(t *model.Tree, nodes []*model.Node, parent *model.Node, centerY float64, side model.Side) {
	cursor := centerY - e.blockHeight(nodes)/2
	for _, n := range nodes {
		offset := parent.Size.W/2 + e.cfg.HorizontalMargin + n.Size.W/2
		if side.IsLeft() {
			n.Pos.X = parent.Pos.X - offset
		} else {
			n.Pos.X = parent.Pos.X + offset
		}
		n.Pos.Y = cursor + n.SubtreeHeight/2

		if n.Expanded() {
			e.layoutBranch(t, t.Children(n), n, n.Pos.Y, side)
		}
		cursor += n.SubtreeHeight + e.cfg.SiblingGap
	}
}
