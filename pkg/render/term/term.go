// Package term renders a laid-out mind map into a grid of terminal cells.
// Layout units are cells: a node at (x,y) with size w×h covers the columns
// and rows of its box relative to the canvas origin.
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/render"
)

// Wrapper splits node text into the lines it was measured with.
type Wrapper interface {
	Lines(text string) []string
}

type ink uint8

const (
	inkNone ink = iota
	inkLine
	inkText
	inkRoot
	inkSelected
	inkShadow
	inkGhost
	inkMuted
)

// Styles maps each kind of cell to a lipgloss style.
type Styles struct {
	Line     lipgloss.Style
	Text     lipgloss.Style
	Root     lipgloss.Style
	Selected lipgloss.Style
	Shadow   lipgloss.Style
	Ghost    lipgloss.Style
	Muted    lipgloss.Style
}

// PlainStyles renders without any styling.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Line: s, Text: s, Root: s, Selected: s, Shadow: s, Ghost: s, Muted: s}
}

func (s Styles) of(k ink) lipgloss.Style {
	switch k {
	case inkLine:
		return s.Line
	case inkText:
		return s.Text
	case inkRoot:
		return s.Root
	case inkSelected:
		return s.Selected
	case inkShadow:
		return s.Shadow
	case inkGhost:
		return s.Ghost
	case inkMuted:
		return s.Muted
	default:
		return lipgloss.NewStyle()
	}
}

type cell struct {
	r    rune // 0 marks the trailing half of a wide rune
	ink  ink
	wide bool
}

// Canvas is a render.Renderer over a fixed-size cell grid.
type Canvas struct {
	w, h   int
	origin model.Point
	cells  []cell
	wrap   Wrapper
	styles Styles
	tree   *model.Tree
}

// New creates a blank canvas showing the layout plane from origin.
// Call SetTree before drawing a shadow whose target may be the root.
func New(w, h int, origin model.Point, wrap Wrapper, styles Styles) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, origin: origin, wrap: wrap, styles: styles, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

// SetTree gives the canvas access to the tree being drawn.
func (c *Canvas) SetTree(t *model.Tree) { c.tree = t }

// Render draws the scene and returns the styled frame.
func Render(s render.Scene, w, h int, origin model.Point, wrap Wrapper, styles Styles) string {
	c := New(w, h, origin, wrap, styles)
	c.tree = s.Tree
	render.Draw(s, c)
	return c.String()
}

// col and row convert layout coordinates to grid indices.
func (c *Canvas) col(x float64) int { return int(math.Round(x - c.origin.X)) }
func (c *Canvas) row(y float64) int { return int(math.Round(y - c.origin.Y)) }

// box returns the grid rectangle of a node-sized box centred at p.
func (c *Canvas) box(p model.Point, s model.Size) (left, top, w, h int) {
	w, h = int(math.Round(s.W)), int(math.Round(s.H))
	return c.col(p.X - s.W/2), c.row(p.Y - s.H/2), w, h
}

func (c *Canvas) set(x, y int, r rune, k ink) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	// Overwriting half of a wide rune blanks the other half.
	if c.cells[i].wide && x+1 < c.w {
		c.cells[i+1] = cell{r: ' '}
	}
	if c.cells[i].r == 0 && x > 0 {
		c.cells[i-1] = cell{r: ' '}
	}
	c.cells[i] = cell{r: r, ink: k}
}

// text writes s starting at column x, returning the columns used.
func (c *Canvas) text(x, y int, s string, k ink) int {
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.set(x+used, y, r, k)
		if rw == 2 {
			if x+used+1 >= 0 && x+used+1 < c.w && y >= 0 && y < c.h {
				c.cells[y*c.w+x+used].wide = true
				c.cells[y*c.w+x+used+1] = cell{r: 0, ink: k}
			}
		}
		used += rw
	}
	return used
}

func (c *Canvas) hline(x0, x1, y int, r rune, k ink) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.set(x, y, r, k)
	}
}

func (c *Canvas) vline(x, y0, y1 int, r rune, k ink) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.set(x, y, r, k)
	}
}

// Node draws the root as a rounded box and topics as text over an underline.
func (c *Canvas) Node(n *model.Node, selected bool) {
	left, top, w, h := c.box(n.Pos, n.Size)
	lines := c.wrap.Lines(n.Text)

	textInk := inkText
	if selected {
		textInk = inkSelected
	}

	if n.IsRoot() {
		border := inkRoot
		if selected {
			border = inkSelected
		}
		c.frame(left, top, w, h, '╭', '╮', '╰', '╯', '─', '│', border)
		c.centred(lines, left+1, top+1, w-2, h-2, textInk)
		return
	}

	c.centred(lines, left, top, w, h-1, textInk)
	lineInk := inkLine
	if selected {
		lineInk = inkSelected
	}
	c.hline(left, left+w-1, top+h-1, '─', lineInk)
	if n.Collapsed && n.NumChildren() > 0 {
		end := left + w - 1
		if n.Side.IsLeft() {
			end = left
		}
		c.set(end, top+h-1, '▸', inkMuted)
	}
}

// centred writes lines centred in the w×h area at (left, top), blanking it
// first so connectors never show through text.
func (c *Canvas) centred(lines []string, left, top, w, h int, k ink) {
	for y := top; y < top+h; y++ {
		c.hline(left, left+w-1, y, ' ', inkNone)
	}
	y0 := top + (h-len(lines))/2
	for i, l := range lines {
		if i >= h {
			break
		}
		lw := runewidth.StringWidth(l)
		c.text(left+(w-lw)/2, y0+i, l, k)
	}
}

func (c *Canvas) frame(left, top, w, h int, tl, tr, bl, br, hz, vt rune, k ink) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := left+w-1, top+h-1
	c.hline(left+1, right-1, top, hz, k)
	c.hline(left+1, right-1, bottom, hz, k)
	c.vline(left, top+1, bottom-1, vt, k)
	c.vline(right, top+1, bottom-1, vt, k)
	c.set(left, top, tl, k)
	c.set(right, top, tr, k)
	c.set(left, bottom, bl, k)
	c.set(right, bottom, br, k)
}

// Connector draws an elbow from the parent's anchor to the child's
// underline: out horizontally, along the midpoint column, then in.
func (c *Canvas) Connector(parent, child *model.Node) {
	c.elbow(parent.Pos, parent.Size, parent.IsRoot(), child.Pos, child.Size, child.Side, inkLine)
}

func (c *Canvas) elbow(ppos model.Point, psize model.Size, fromRoot bool, pos model.Point, size model.Size, side model.Side, k ink) {
	pl, pt, pw, ph := c.box(ppos, psize)
	cl, ct, cw, ch := c.box(pos, size)

	fy := pt + ph - 1
	if fromRoot {
		fy = pt + ph/2
	}
	ty := ct + ch - 1

	var fx, tx int
	if side.IsLeft() {
		fx, tx = pl-1, cl+cw
	} else {
		fx, tx = pl+pw, cl-1
	}
	mx := (fx + tx) / 2

	switch {
	case fy == ty:
		c.hline(fx, tx, fy, '─', k)
	default:
		c.hline(fx, mx, fy, '─', k)
		c.vline(mx, fy, ty, '│', k)
		c.hline(mx, tx, ty, '─', k)
		c.set(mx, fy, corner(side, fy < ty, true), k)
		c.set(mx, ty, corner(side, fy < ty, false), k)
	}
}

// corner picks the glyph where an elbow turns. first is the turn leaving
// the parent; down reports whether the child is below it.
func corner(side model.Side, down, first bool) rune {
	right := !side.IsLeft()
	switch {
	case first && right && down, !first && !right && !down:
		return '╮'
	case first && right && !down, !first && !right && down:
		return '╯'
	case first && !right && down, !first && right && !down:
		return '╭'
	default:
		return '╰'
	}
}

// Shadow fills the preview box and joins it to the target.
func (c *Canvas) Shadow(s drag.Shadow) {
	fromRoot := false
	if c.tree != nil {
		fromRoot = s.TargetID == c.tree.Root().ID
	}
	c.elbow(s.Anchor, s.AnchorSz, fromRoot, s.Pos, s.Size, s.Side, inkShadow)
	left, top, w, h := c.box(s.Pos, s.Size)
	for y := top; y < top+h; y++ {
		c.hline(left, left+w-1, y, '░', inkShadow)
	}
}

// Ghost draws a dashed outline at the pointer.
func (c *Canvas) Ghost(g drag.Ghost) {
	left, top, w, h := c.box(g.Pos, g.Size)
	c.frame(left, top, w, h, '┌', '┐', '└', '┘', '┄', '┆', inkGhost)
}

// Plain returns the frame without styling, trailing spaces trimmed.
func (c *Canvas) Plain() string {
	rows := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		for x := 0; x < c.w; x++ {
			if r := c.cells[y*c.w+x].r; r != 0 {
				b.WriteRune(r)
			}
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(rows, "\n")
}

// String returns the styled frame, one styled run per stretch of cells with
// the same ink.
func (c *Canvas) String() string {
	rows := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b, run strings.Builder
		cur := inkNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == inkNone {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles.of(cur).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				continue
			}
			if cl.ink != cur {
				flush()
				cur = cl.ink
			}
			run.WriteRune(cl.r)
		}
		flush()
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}
