package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

// pickerRows is the most results a picker shows at once.
const pickerRows = 12

// PickerItem is one choice in a picker.
type PickerItem struct {
	ID     string
	Title  string
	Detail string
}

type pickerKind int

const (
	pickJump pickerKind = iota
	pickRecent
)

// pickedMsg reports the chosen item.
type pickedMsg struct {
	kind pickerKind
	id   string
}

// forgetMsg asks to drop a recent document from the library.
type forgetMsg struct{ path string }

// Picker is a fuzzy-filtered list with a query line.
type Picker struct {
	kind     pickerKind
	title    string
	items    []PickerItem
	filtered []int // indices into items
	cursor   int
	input    textinput.Model
	theme    Theme
}

func newPicker(kind pickerKind, title string, items []PickerItem, theme Theme) (Picker, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 80
	ti.Width = 40
	cmd := ti.Focus()
	p := Picker{kind: kind, title: title, items: items, input: ti, theme: theme}
	p.applyFilter()
	return p, cmd
}

// Filtered returns the items matching the current query, best first.
func (p Picker) Filtered() []PickerItem {
	out := make([]PickerItem, len(p.filtered))
	for i, idx := range p.filtered {
		out[i] = p.items[idx]
	}
	return out
}

func (p *Picker) applyFilter() {
	query := strings.TrimSpace(p.input.Value())
	p.cursor = 0
	p.filtered = p.filtered[:0]
	if query == "" {
		for i := range p.items {
			p.filtered = append(p.filtered, i)
		}
		return
	}
	search := make([]string, len(p.items))
	for i, it := range p.items {
		search[i] = it.Title + " " + it.Detail
	}
	for _, m := range fuzzy.Find(query, search) {
		p.filtered = append(p.filtered, m.Index)
	}
}

// Update handles keys. done is true when the picker should close.
func (p Picker) Update(msg tea.Msg) (Picker, bool, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, false, cmd
	}
	switch k.String() {
	case "esc", "ctrl+c":
		return p, true, nil
	case "enter":
		if p.cursor >= len(p.filtered) {
			return p, true, nil
		}
		out := pickedMsg{kind: p.kind, id: p.items[p.filtered[p.cursor]].ID}
		return p, true, func() tea.Msg { return out }
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, false, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
		return p, false, nil
	case "ctrl+x":
		if p.kind != pickRecent || p.cursor >= len(p.filtered) {
			return p, false, nil
		}
		idx := p.filtered[p.cursor]
		path := p.items[idx].ID
		p.items = append(p.items[:idx:idx], p.items[idx+1:]...)
		p.applyFilter()
		return p, false, func() tea.Msg { return forgetMsg{path: path} }
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.applyFilter()
	return p, false, cmd
}

// View renders the picker modal sized for a screen width columns wide.
func (p Picker) View(width int) string {
	t := p.theme
	r := t.Renderer
	w := min(60, max(width-4, 20))

	titleStyle := r.NewStyle().Bold(true).Foreground(t.Primary)
	detailStyle := r.NewStyle().Foreground(t.Muted)
	itemStyle := r.NewStyle().Foreground(t.Text)
	selStyle := r.NewStyle().Foreground(t.Bg).Background(t.Secondary).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", w-4)))

	top := 0
	if p.cursor >= pickerRows {
		top = p.cursor - pickerRows + 1
	}
	if len(p.filtered) == 0 {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render("no matches"))
	}
	for i := top; i < len(p.filtered) && i < top+pickerRows; i++ {
		it := p.items[p.filtered[i]]
		title, _, _ := strings.Cut(it.Title, "\n")
		detail := ""
		if it.Detail != "" {
			detail = "  " + runewidth.Truncate(it.Detail, max(w-8-runewidth.StringWidth(title), 0), "…")
		}
		title = runewidth.Truncate(title, w-6, "…")
		b.WriteString("\n")
		if i == p.cursor {
			b.WriteString(selStyle.Render("› " + title))
		} else {
			b.WriteString(itemStyle.Render("  " + title))
		}
		b.WriteString(detailStyle.Render(detail))
	}

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(w).
		Render(b.String())
}
