// Package svg renders a laid-out mind map as an SVG document.
package svg

import (
	"fmt"
	"io"
	"math"

	svgo "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/render"
)

// Wrapper splits node text into display lines.
type Wrapper interface {
	WrapLines(text string, style layout.Style) []string
}

// Theme holds the colors and stroke sizes.
type Theme struct {
	Background string
	RootFill   string
	Outline    string
	Selected   string
	Text       string
	Line       string
	ShadowFill string
	Ghost      string
	FontSize   int
	RootSize   int
	LineHeight int
}

// DefaultTheme returns the light theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fafafa",
		RootFill:   "#f0f0f0",
		Outline:    "#333333",
		Selected:   "#0078d7",
		Text:       "#000000",
		Line:       "#888888",
		ShadowFill: "#e0e0e0",
		Ghost:      "#0078d7",
		FontSize:   10,
		RootSize:   12,
		LineHeight: 14,
	}
}

// Canvas is a render.Renderer that writes SVG elements.
type Canvas struct {
	svg   *svgo.SVG
	wrap  Wrapper
	theme Theme
	tree  *model.Tree
}

// Padding around the content in the output document.
const Padding = 40

// Write renders the whole scene as a standalone SVG document to w.
func Write(w io.Writer, s render.Scene, wrap Wrapper, theme Theme) {
	b := layout.Bounds(s.Tree).Inset(Padding)
	minX, minY := int(math.Floor(b.MinX)), int(math.Floor(b.MinY))
	width, height := int(math.Ceil(b.Width())), int(math.Ceil(b.Height()))

	doc := svgo.New(w)
	doc.Startview(width, height, minX, minY, width, height)
	doc.Rect(minX, minY, width, height, "fill:"+theme.Background)
	c := &Canvas{svg: doc, wrap: wrap, theme: theme, tree: s.Tree}
	doc.Gstyle("font-family:sans-serif")
	render.Draw(s, c)
	doc.Gend()
	doc.End()
}

// Node draws the root as a rounded box and topics as underlined text.
func (c *Canvas) Node(n *model.Node, selected bool) {
	box := n.Box()
	x, y := int(box.MinX), int(box.MinY)
	w, h := int(box.Width()), int(box.Height())
	stroke := c.theme.Outline
	width := 1
	if selected {
		stroke = c.theme.Selected
		width = 2
	}

	style := layout.StyleTopic
	size := c.theme.FontSize
	if n.IsRoot() {
		style = layout.StyleRoot
		size = c.theme.RootSize
		c.svg.Roundrect(x, y, w, h, 10, 10,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", c.theme.RootFill, stroke, width))
	} else {
		c.svg.Line(x, y+h, x+w, y+h,
			fmt.Sprintf("stroke:%s;stroke-width:%d", lineColor(n, stroke, selected), width+1))
		if selected {
			c.svg.Rect(x, y, w, h, fmt.Sprintf("fill:none;stroke:%s;stroke-dasharray:2,2", c.theme.Selected))
		}
	}

	lines := c.wrap.WrapLines(n.Text, style)
	top := int(n.Pos.Y) - (len(lines)-1)*c.theme.LineHeight/2 + size/3
	weight := "normal"
	if n.IsRoot() {
		weight = "bold"
	}
	c.svg.Gstyle(fmt.Sprintf("font-size:%dpx;font-weight:%s;fill:%s;text-anchor:middle", size, weight, c.theme.Text))
	for i, l := range lines {
		c.svg.Text(int(n.Pos.X), top+i*c.theme.LineHeight, l, fmt.Sprintf(`data-node="%s"`, n.ID))
	}
	c.svg.Gend()
}

func lineColor(n *model.Node, fallback string, selected bool) string {
	if n.Color != "" && !selected {
		return n.Color
	}
	return fallback
}

// Connector draws a tapered bezier from parent to child.
func (c *Canvas) Connector(parent, child *model.Node) {
	from, to := render.Anchors(parent, child)
	c.taper(render.Connector(from, to), c.theme.Line, "")
}

func (c *Canvas) taper(curve render.Curve, fill, extra string) {
	pts := curve.Taper(4, 1.5, 16)
	xs, ys := make([]int, len(pts)), make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = int(math.Round(p.X)), int(math.Round(p.Y))
	}
	c.svg.Polygon(xs, ys, "fill:"+fill+extra)
}

// Shadow draws the move preview box and its connector to the target.
func (c *Canvas) Shadow(s drag.Shadow) {
	b := s.Box()
	c.svg.Rect(int(b.MinX), int(b.MinY), int(b.Width()), int(b.Height()),
		fmt.Sprintf("fill:%s;stroke:#cccccc", c.theme.ShadowFill))

	target, ok := c.tree.Node(s.TargetID)
	if !ok {
		return
	}
	anchor := *target
	anchor.Pos, anchor.Size = s.Anchor, s.AnchorSz
	ghost := model.Node{Pos: s.Pos, Size: s.Size, Side: s.Side}
	from, to := render.Anchors(&anchor, &ghost)
	c.taper(render.Connector(from, to), c.theme.ShadowFill, ";fill-opacity:0.8")
}

// Ghost draws the dashed outline following the pointer.
func (c *Canvas) Ghost(g drag.Ghost) {
	n := model.Node{Pos: g.Pos, Size: g.Size}
	b := n.Box()
	c.svg.Rect(int(b.MinX), int(b.MinY), int(b.Width()), int(b.Height()),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:2;stroke-dasharray:4,4", c.theme.Ghost))
}
