package model

import "strings"

// Side is the left/right placement of a root-descendant subtree.
type Side int

const (
	SideUnset Side = iota // root only
	SideLeft
	SideRight
)

// String returns the persisted name of the side ("" for SideUnset).
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return ""
	}
}

// IsLeft reports whether s is SideLeft. Everything that is not explicitly
// left is laid out on the right, matching how unset sides are treated.
func (s Side) IsLeft() bool {
	return s == SideLeft
}

// ParseSide converts a persisted direction name to a Side.
// Unknown or empty names yield SideUnset.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideUnset
	}
}

// Point is a position in the logical, unbounded layout plane.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a measured width/height in layout units.
type Size struct {
	W float64
	H float64
}

// Node is a single topic in the mind map.
//
// Structural links are private: the parent is a lookup-only id and children
// are an ordered list of ids owned by this node. Use the Tree methods to
// mutate structure so the invariants hold.
type Node struct {
	ID        string
	Text      string
	Color     string // style tag, "" when unset
	Side      Side
	Collapsed bool

	// Written by the layout engine on every pass.
	Pos           Point
	Size          Size
	SubtreeHeight float64

	parent   string
	children []string
}

// ParentID returns the id of the parent node, or "" for the root.
func (n *Node) ParentID() string {
	return n.parent
}

// ChildIDs returns a copy of the ordered child ids.
func (n *Node) ChildIDs() []string {
	out := make([]string, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == ""
}

// Expanded reports whether n has children that are visible in the layout.
func (n *Node) Expanded() bool {
	return len(n.children) > 0 && !n.Collapsed
}

// Box returns the node's bounding rectangle around its centre position.
func (n *Node) Box() Rect {
	return Rect{
		MinX: n.Pos.X - n.Size.W/2,
		MinY: n.Pos.Y - n.Size.H/2,
		MaxX: n.Pos.X + n.Size.W/2,
		MaxY: n.Pos.Y + n.Size.H/2,
	}
}

// Rect is an axis-aligned rectangle in the layout plane.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns MaxX-MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY-MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Inset grows r by d on every edge (shrinks it for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}
