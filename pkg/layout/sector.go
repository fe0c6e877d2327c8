package layout

import "github.com/vanderheijden86/mindmap/pkg/model"

// Sector is one of the three vertical bands a side's root children are
// dealt into, round-robin by their index on that side.
type Sector int

const (
	SectorTop    Sector = iota // index%3 == 0
	SectorBottom               // index%3 == 1
	SectorMiddle               // index%3 == 2
)

// SectorOf returns the sector of the child at sideIndex on its side.
func SectorOf(sideIndex int) Sector {
	return Sector(sideIndex % 3)
}

// Rank orders sectors the way they appear on screen: top, middle, bottom.
func (s Sector) Rank() int {
	switch s {
	case SectorTop:
		return 0
	case SectorMiddle:
		return 1
	default:
		return 2
	}
}

func (s Sector) String() string {
	switch s {
	case SectorTop:
		return "top"
	case SectorMiddle:
		return "middle"
	default:
		return "bottom"
	}
}

// SideChildren returns the root's children on side, in insertion order.
// Anything not explicitly left counts as right.
func SideChildren(t *model.Tree, side model.Side) []*model.Node {
	var out []*model.Node
	for _, c := range t.Children(t.Root()) {
		if c.Side.IsLeft() == side.IsLeft() {
			out = append(out, c)
		}
	}
	return out
}

// Partition deals nodes into sectors by index, preserving relative order.
func Partition(nodes []*model.Node) [3][]*model.Node {
	var sectors [3][]*model.Node
	for i, n := range nodes {
		s := SectorOf(i)
		sectors[s] = append(sectors[s], n)
	}
	return sectors
}

// VisualKey is the top-to-bottom sort key of a root child at sideIndex:
// sector rank first, then position within the sector.
func VisualKey(sideIndex int) (rank, slot int) {
	return SectorOf(sideIndex).Rank(), sideIndex / 3
}
