package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// jumpItems lists every topic, hidden ones included, with its path from
// the root as detail.
func jumpItems(t *model.Tree) []PickerItem {
	var items []PickerItem
	var trail []string
	t.Walk(func(n *model.Node, depth int) bool {
		trail = append(trail[:depth], firstLine(n.Text))
		items = append(items, PickerItem{
			ID:     n.ID,
			Title:  strings.ReplaceAll(n.Text, "\n", " "),
			Detail: strings.Join(trail[:depth], " › "),
		})
		return true
	})
	return items
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func newJumpPicker(t *model.Tree, theme Theme) (Picker, tea.Cmd) {
	return newPicker(pickJump, "Jump to topic", jumpItems(t), theme)
}
