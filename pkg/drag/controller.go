// Package drag implements drag-and-drop reparenting.
//
// A drag runs Idle → Pressed → Dragging and then alternates between
// Previewing (the pointer is over a valid drop target and a shadow shows
// where the node would land) and NotPreviewing until the pointer is released.
// Previews never change the tree; only a drop on a valid target does.
package drag

import (
	"math"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// State is the controller's position in the drag state machine.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
	Previewing
	NotPreviewing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case Previewing:
		return "previewing"
	case NotPreviewing:
		return "not-previewing"
	default:
		return "unknown"
	}
}

// Active reports whether a drag gesture is past the threshold.
func (s State) Active() bool {
	return s == Dragging || s == Previewing || s == NotPreviewing
}

// Pointer is a pointer event position in both coordinate spaces.
type Pointer struct {
	Screen  model.Point // relative to the viewport's top-left
	Logical model.Point // in the layout plane
}

// HitTester resolves a logical point to the node drawn there.
type HitTester interface {
	HitTest(p model.Point) (*model.Node, bool)
}

// HitFunc adapts a function to the HitTester interface.
type HitFunc func(p model.Point) (*model.Node, bool)

// HitTest calls f.
func (f HitFunc) HitTest(p model.Point) (*model.Node, bool) { return f(p) }

// Config tunes the gesture.
type Config struct {
	Threshold    float64 // movement on either axis that turns a press into a drag
	ScrollMargin float64 // distance from a viewport edge that triggers auto-scroll
	ScrollEvery  int     // auto-scroll on every n-th motion event
}

// DefaultConfig returns the pixel defaults.
func DefaultConfig() Config {
	return Config{Threshold: 5, ScrollMargin: 50, ScrollEvery: 5}
}

// Ghost is the outline that follows the pointer while dragging.
type Ghost struct {
	NodeID string
	Pos    model.Point
	Size   model.Size
}

// Controller drives one drag gesture at a time over a tree.
type Controller struct {
	tree   *model.Tree
	hit    HitTester
	layout Layouter
	cfg    Config
	scroll *AutoScroller

	state  State
	nodeID string
	start  Pointer
	ghost  Ghost
	shadow *Shadow
}

// NewController creates an idle controller. scroller may be nil to disable
// auto-scroll.
func NewController(t *model.Tree, hit HitTester, l Layouter, scroller Scroller, cfg Config) *Controller {
	c := &Controller{tree: t, hit: hit, layout: l, cfg: cfg}
	if scroller != nil {
		c.scroll = NewAutoScroller(scroller, cfg.ScrollMargin, cfg.ScrollEvery)
	}
	return c
}

// SetTree points the controller at a new tree and drops any gesture.
func (c *Controller) SetTree(t *model.Tree) {
	c.tree = t
	c.Cancel()
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// NodeID returns the id of the node being pressed or dragged, or "".
func (c *Controller) NodeID() string { return c.nodeID }

// Shadow returns the current preview, if any.
func (c *Controller) Shadow() (Shadow, bool) {
	if c.shadow == nil {
		return Shadow{}, false
	}
	return *c.shadow, true
}

// Ghost returns the drag outline while a drag is active.
func (c *Controller) Ghost() (Ghost, bool) {
	if !c.state.Active() {
		return Ghost{}, false
	}
	return c.ghost, true
}

// Press starts a gesture if p lands on a node. It returns the node so the
// caller can select it. A gesture still in progress, whose release was
// never seen, is abandoned first.
func (c *Controller) Press(p Pointer) (*model.Node, bool) {
	if c.state != Idle {
		c.Cancel()
	}
	n, ok := c.hit.HitTest(p.Logical)
	if !ok {
		return nil, false
	}
	c.state = Pressed
	c.nodeID = n.ID
	c.start = p
	if c.scroll != nil {
		c.scroll.Reset()
	}
	return n, true
}

// Move handles pointer motion with the button held.
func (c *Controller) Move(p Pointer) {
	switch c.state {
	case Idle:
		return
	case Pressed:
		dx := math.Abs(p.Screen.X - c.start.Screen.X)
		dy := math.Abs(p.Screen.Y - c.start.Screen.Y)
		if dx <= c.cfg.Threshold && dy <= c.cfg.Threshold {
			return
		}
		n, ok := c.tree.Node(c.nodeID)
		if !ok {
			c.Cancel()
			return
		}
		c.state = Dragging
		c.ghost = Ghost{NodeID: n.ID, Size: n.Size}
	}

	c.ghost.Pos = p.Logical
	c.updateTarget(p.Logical)
	if c.scroll != nil {
		c.scroll.Tick(p.Screen)
	}
}

func (c *Controller) updateTarget(at model.Point) {
	target, ok := c.targetAt(at)
	if !ok {
		c.shadow = nil
		c.state = NotPreviewing
		return
	}
	if c.state == Previewing && c.shadow != nil && c.shadow.TargetID == target {
		return
	}
	s, err := Preview(c.tree, c.layout, c.nodeID, target)
	if err != nil {
		c.shadow = nil
		c.state = NotPreviewing
		return
	}
	c.shadow = &s
	c.state = Previewing
}

// targetAt returns the id of a valid drop target under at.
func (c *Controller) targetAt(at model.Point) (string, bool) {
	n, ok := c.hit.HitTest(at)
	if !ok {
		return "", false
	}
	if ValidTarget(c.tree, c.nodeID, n.ID) != nil {
		return "", false
	}
	return n.ID, true
}

// Release ends the gesture. A drop on a valid target commits the move and
// relayouts; anything else, including a plain click, leaves the tree alone.
func (c *Controller) Release(p Pointer) (Move, bool) {
	defer c.Cancel()
	if !c.state.Active() {
		return Move{}, false
	}
	target, ok := c.targetAt(p.Logical)
	if !ok {
		return Move{}, false
	}
	m, err := Commit(c.tree, c.nodeID, target)
	if err != nil {
		return Move{}, false
	}
	c.layout.Relayout()
	return m, true
}

// Cancel abandons the gesture. Previews are always reverted as they are
// made, so there is nothing to undo.
func (c *Controller) Cancel() {
	c.state = Idle
	c.nodeID = ""
	c.shadow = nil
	c.ghost = Ghost{}
	c.start = Pointer{}
}
