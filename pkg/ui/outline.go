package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// outlineWidth is the width of the outline pane, separator included.
const outlineWidth = 32

// OutlineRow is one visible topic in the outline pane.
type OutlineRow struct {
	ID     string
	Prefix string // branch characters
	Marker string // • leaf, ▾ expanded, ▸ collapsed
	Text   string // first line of the topic text
}

// OutlineRows lists the visible topics depth-first in child order.
func OutlineRows(t *model.Tree) []OutlineRow {
	var rows []OutlineRow
	var walk func(n *model.Node, indent string, last bool, depth int)
	walk = func(n *model.Node, indent string, last bool, depth int) {
		prefix := ""
		childIndent := ""
		if depth > 0 {
			if last {
				prefix = indent + "└── "
				childIndent = indent + "    "
			} else {
				prefix = indent + "├── "
				childIndent = indent + "│   "
			}
		}
		text, _, _ := strings.Cut(n.Text, "\n")
		rows = append(rows, OutlineRow{ID: n.ID, Prefix: prefix, Marker: outlineMarker(n), Text: text})
		if n.Collapsed {
			return
		}
		kids := t.Children(n)
		for i, c := range kids {
			walk(c, childIndent, i == len(kids)-1, depth+1)
		}
	}
	walk(t.Root(), "", true, 0)
	return rows
}

func outlineMarker(n *model.Node) string {
	if n.NumChildren() == 0 {
		return "•"
	}
	if n.Collapsed {
		return "▸"
	}
	return "▾"
}

// outlineScroll returns the first row shown in a pane of height rows.
func outlineScroll(rows []OutlineRow, selected string, height int) int {
	for i, row := range rows {
		if row.ID == selected {
			if i >= height {
				return i - height + 1
			}
			return 0
		}
	}
	return 0
}

// outlineView renders rows into a pane of the given size, scrolled so the
// selected row is visible.
func outlineView(rows []OutlineRow, selected string, width, height int, theme Theme) string {
	r := theme.Renderer
	branch := r.NewStyle().Foreground(theme.Muted)
	text := r.NewStyle().Foreground(theme.Text)
	sel := r.NewStyle().Foreground(theme.Bg).Background(theme.Secondary).Bold(true)

	top := outlineScroll(rows, selected, height)

	var b strings.Builder
	for i := top; i < len(rows) && i < top+height; i++ {
		row := rows[i]
		head := row.Prefix + row.Marker + " "
		avail := max(width-runewidth.StringWidth(head), 1)
		label := runewidth.Truncate(row.Text, avail, "…")
		style := text
		if row.ID == selected {
			style = sel
		}
		line := branch.Render(head) + style.Render(label)
		if pad := width - runewidth.StringWidth(head) - runewidth.StringWidth(label); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(line)
		if i < top+height-1 {
			b.WriteByte('\n')
		}
	}
	for i := len(rows) - top; i < height; i++ {
		b.WriteString(strings.Repeat(" ", width))
		if i < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
