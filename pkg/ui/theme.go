package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mindmap/pkg/render/term"
)

// Theme holds the colors used across the TUI. Colors adapt to light and
// dark terminals.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Bg        lipgloss.AdaptiveColor
	BgDark    lipgloss.AdaptiveColor
}

// DefaultTheme is a Dracula-style palette.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Text:      lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#7A5600", Dark: "#F1FA8C"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Error:     lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF5555"},
		Bg:        lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"},
		BgDark:    lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#1E1F29"},
	}
}

// MapStyles returns the canvas styles for this theme.
func (t Theme) MapStyles() term.Styles {
	r := t.Renderer
	return term.Styles{
		Line:     r.NewStyle().Foreground(t.Muted),
		Text:     r.NewStyle().Foreground(t.Text),
		Root:     r.NewStyle().Foreground(t.Primary).Bold(true),
		Selected: r.NewStyle().Foreground(t.Bg).Background(t.Secondary).Bold(true),
		Shadow:   r.NewStyle().Foreground(t.Border),
		Ghost:    r.NewStyle().Foreground(t.Highlight),
		Muted:    r.NewStyle().Foreground(t.Muted),
	}
}
