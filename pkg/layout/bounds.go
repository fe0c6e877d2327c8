package layout

import "github.com/vanderheijden86/mindmap/pkg/model"

// Bounds returns the rectangle covering every visible node box.
func Bounds(t *model.Tree) model.Rect {
	r := t.Root().Box()
	t.WalkVisible(func(n *model.Node, _ int) bool {
		r = r.Union(n.Box())
		return true
	})
	return r
}

// HitTest returns the visible node whose box, grown by padding, contains p.
// Later nodes in walk order are drawn on top, so they win ties.
func HitTest(t *model.Tree, p model.Point, padding float64) (*model.Node, bool) {
	var hit *model.Node
	t.WalkVisible(func(n *model.Node, _ int) bool {
		if n.Box().Inset(padding).Contains(p) {
			hit = n
		}
		return true
	})
	return hit, hit != nil
}
