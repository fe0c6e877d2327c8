package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formSaveAs formKind = iota
	formOpen
	formDelete
	formQuit
)

func (k formKind) String() string {
	switch k {
	case formSaveAs:
		return "save as"
	case formOpen:
		return "open"
	case formDelete:
		return "delete"
	case formQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// formDoneMsg reports a completed form. Aborted forms produce no message.
type formDoneMsg struct {
	kind    formKind
	path    string
	confirm bool
}

// formState holds one modal form. It lives behind a pointer so the huh
// fields keep writing into the same variables as the Model is copied.
type formState struct {
	kind    formKind
	form    *huh.Form
	path    string
	confirm bool
}

func errEmptyPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a file name is required")
	}
	return nil
}

func newPathForm(kind formKind, title, initial string, width int) *formState {
	fs := &formState{kind: kind, path: initial}
	fs.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("map.json").
				Validate(errEmptyPath).
				Value(&fs.path),
		),
	).WithTheme(huh.ThemeDracula()).WithWidth(min(width, 72)).WithShowHelp(false)
	return fs
}

func newConfirmForm(kind formKind, title, affirmative string, width int) *formState {
	fs := &formState{kind: kind}
	fs.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(&fs.confirm),
		),
	).WithTheme(huh.ThemeDracula()).WithWidth(min(width, 72)).WithShowHelp(false)
	return fs
}

// saveAsForm asks where to write the document.
func saveAsForm(suggested string, width int) *formState {
	return newPathForm(formSaveAs, "Save map as", suggested, width)
}

// openForm asks for a file to open.
func openForm(width int) *formState {
	return newPathForm(formOpen, "Open map", "", width)
}

// deleteForm confirms deleting a topic and its subtree.
func deleteForm(text string, descendants, width int) *formState {
	title := fmt.Sprintf("Delete %q?", text)
	if descendants > 0 {
		title = fmt.Sprintf("Delete %q and %d subtopics?", text, descendants)
	}
	return newConfirmForm(formDelete, title, "Delete", width)
}

// quitForm confirms discarding unsaved changes.
func quitForm(width int) *formState {
	return newConfirmForm(formQuit, "Discard unsaved changes and quit?", "Quit", width)
}

func (fs *formState) Init() tea.Cmd {
	return fs.form.Init()
}

// Update forwards msg to the form. done is true once the form is completed
// or aborted; a completed form also yields its formDoneMsg.
func (fs *formState) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return true, nil
	}
	model, cmd := fs.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		fs.form = f
	}
	switch fs.form.State {
	case huh.StateCompleted:
		out := formDoneMsg{kind: fs.kind, path: strings.TrimSpace(fs.path), confirm: fs.confirm}
		return true, tea.Batch(cmd, func() tea.Msg { return out })
	case huh.StateAborted:
		return true, cmd
	}
	return false, cmd
}

func (fs *formState) View() string {
	return fs.form.View()
}
