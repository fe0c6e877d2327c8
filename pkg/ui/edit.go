package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// editBoxHeight is the number of rows the rename box occupies, border
// included.
const editBoxHeight = 5

// editCommittedMsg and editCanceledMsg end an inline edit.
type editCommittedMsg struct{ text string }

type editCanceledMsg struct{}

// EditBox edits the selected topic's text. Enter commits, alt+enter or
// ctrl+j inserts a line break, esc cancels.
type EditBox struct {
	input textarea.Model
	theme Theme
	width int
}

// NewEditBox creates a focused edit box holding text.
func NewEditBox(text string, width int, theme Theme) (EditBox, tea.Cmd) {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(max(width-4, 10))
	ta.SetHeight(editBoxHeight - 2)
	ta.SetValue(text)
	cmd := ta.Focus()
	return EditBox{input: ta, theme: theme, width: width}, cmd
}

// Value returns the current text with trailing blank lines removed.
func (b EditBox) Value() string {
	return strings.TrimRight(b.input.Value(), "\n")
}

// Update handles one message.
func (b EditBox) Update(msg tea.Msg) (EditBox, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text := b.Value()
			return b, func() tea.Msg { return editCommittedMsg{text: text} }
		case "esc":
			return b, func() tea.Msg { return editCanceledMsg{} }
		case "alt+enter", "ctrl+j":
			b.input.InsertString("\n")
			return b, nil
		}
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

// View renders the box.
func (b EditBox) View() string {
	r := b.theme.Renderer
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(b.theme.Secondary).
		Width(max(b.width-2, 0)).
		Render(b.input.View())
}
