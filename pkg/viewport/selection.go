package viewport

import "github.com/vanderheijden86/mindmap/pkg/model"

// Selection remembers the active node by id so it survives relayouts and
// structural edits.
type Selection struct {
	id string
}

// Select makes id the active node.
func (s *Selection) Select(id string) {
	s.id = id
}

// ID returns the selected id, which may no longer exist.
func (s *Selection) ID() string {
	return s.id
}

// Active returns the selected node, or the root when the selection is empty
// or stale.
func (s *Selection) Active(t *model.Tree) *model.Node {
	if n, ok := t.Node(s.id); ok {
		return n
	}
	return t.Root()
}

// Repair points a stale selection at the root and a hidden one at its
// nearest visible ancestor. It reports whether the selection changed.
func (s *Selection) Repair(t *model.Tree) bool {
	n, ok := t.Node(s.id)
	if !ok {
		s.id = t.Root().ID
		return true
	}
	target := n
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		if p.Collapsed {
			target = p
		}
	}
	if target == n {
		return false
	}
	s.id = target.ID
	return true
}
