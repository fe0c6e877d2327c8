package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/mindmap/pkg/library"
)

// recentLimit caps how many documents the recent picker lists.
const recentLimit = 50

// recentLoadedMsg carries the library's recent documents.
type recentLoadedMsg struct {
	entries []library.Entry
	err     error
}

func loadRecentCmd(lib *library.Library) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := lib.Recent(ctx, recentLimit)
		return recentLoadedMsg{entries: entries, err: err}
	}
}

func forgetCmd(lib *library.Library, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lib.Forget(ctx, path); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return nil
	}
}

func recentItems(entries []library.Entry, now time.Time) []PickerItem {
	items := make([]PickerItem, len(entries))
	for i, e := range entries {
		items[i] = PickerItem{
			ID:     e.Path,
			Title:  e.Title,
			Detail: fmt.Sprintf("%s · %d topics · %s", e.Path, e.Nodes, humanize.RelTime(e.OpenedAt, now, "ago", "from now")),
		}
	}
	return items
}

func newRecentPicker(entries []library.Entry, theme Theme) (Picker, tea.Cmd) {
	return newPicker(pickRecent, "Recent maps  (ctrl+x forgets)", recentItems(entries, time.Now()), theme)
}
