// Package render walks a laid-out tree and issues draw calls to a backend.
//
// Backends implement Renderer; render/svg draws vector output for the
// browser preview and render/term draws into a terminal cell grid.
package render

import (
	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Renderer draws nodes and the connectors between them. Calls are fire and
// forget; positions come from the nodes themselves.
type Renderer interface {
	Node(n *model.Node, selected bool)
	Connector(parent, child *model.Node)
}

// OverlayRenderer is implemented by backends that can show drag feedback.
type OverlayRenderer interface {
	Shadow(s drag.Shadow)
	Ghost(g drag.Ghost)
}

// Scene is everything drawn in one frame.
type Scene struct {
	Tree     *model.Tree
	Selected string
	Shadow   *drag.Shadow
	Ghost    *drag.Ghost
}

// Draw renders the visible part of the scene: the move shadow first so it
// sits underneath, then every connector, then every node, then the ghost.
func Draw(s Scene, r Renderer) {
	overlay, _ := r.(OverlayRenderer)
	if overlay != nil && s.Shadow != nil {
		overlay.Shadow(*s.Shadow)
	}

	s.Tree.WalkVisible(func(n *model.Node, _ int) bool {
		if p := s.Tree.Parent(n); p != nil {
			r.Connector(p, n)
		}
		return true
	})
	s.Tree.WalkVisible(func(n *model.Node, _ int) bool {
		r.Node(n, n.ID == s.Selected)
		return true
	})

	if overlay != nil && s.Ghost != nil {
		overlay.Ghost(*s.Ghost)
	}
}
