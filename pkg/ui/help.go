package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var helpSections = []string{"Navigation", "Scrolling", "Editing", "Files and views"}

const helpMouse = `
## Mouse

- **Click** a topic to select it.
- **Drag** a topic onto another to move it there. Drop beside the root to
  switch sides. The map scrolls when you drag near an edge.
- **Wheel** scrolls vertically, **shift+wheel** horizontally.
`

// HelpMarkdown builds the help page from the key map.
func HelpMarkdown(k KeyMap) string {
	var b strings.Builder
	b.WriteString("# Mind map\n")
	for i, group := range k.FullHelp() {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n|---|---|\n", helpSections[i])
		for _, binding := range group {
			writeBinding(&b, binding)
		}
	}
	b.WriteString(helpMouse)
	return b.String()
}

func writeBinding(b *strings.Builder, binding key.Binding) {
	h := binding.Help()
	fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
}

// RenderHelp renders the help modal for a width×height screen area.
func RenderHelp(k KeyMap, theme Theme, width, height int) string {
	modalWidth := min(72, width-4)
	md := HelpMarkdown(k)

	body := md
	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(modalWidth-6, 20)),
	); err == nil {
		if out, err := r.Render(md); err == nil {
			body = strings.Trim(out, "\n")
		}
	}

	r := theme.Renderer
	title := r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Keyboard help") +
		r.NewStyle().Foreground(theme.Muted).Italic(true).Render("  esc to close")
	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 1).
		Width(modalWidth).
		MaxHeight(max(height-2, 3)).
		Render(title + "\n\n" + body)
	return modal
}
