// Package measure provides the text measurement adapters the layout engine
// consumes: Cells measures in terminal character cells, Font measures in
// pixels against a real TrueType face.
package measure

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Cells measures text as it is drawn by the terminal canvas: topics get a
// space of padding each side and an underline row, the root is boxed.
type Cells struct {
	MaxWidth int // wrap column for node text
	MinWidth int
}

// DefaultCells returns the terminal defaults.
func DefaultCells() Cells {
	return Cells{MaxWidth: 24, MinWidth: 6}
}

// Wrap breaks text at word boundaries to fit width, hard-breaking words
// that are longer than a line. Explicit newlines are kept.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// Lines returns the wrapped lines of text, never empty.
func (c Cells) Lines(text string) []string {
	lines := Wrap(text, c.MaxWidth)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// Measure implements layout.Measurer.
func (c Cells) Measure(text string, style layout.Style) model.Size {
	lines := c.Lines(text)
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	w += 2
	h := len(lines)
	if style == layout.StyleRoot {
		// border on every side
		w += 2
		h += 2
	} else {
		// underline
		h++
	}
	return model.Size{W: float64(max(w, c.MinWidth)), H: float64(h)}
}
