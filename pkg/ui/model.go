// Package ui is the terminal front end of the mind-map editor, built on
// bubbletea. Layout runs in cell units so the map renders straight into
// the terminal grid.
package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/drag"
	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/library"
	"github.com/vanderheijden86/mindmap/pkg/logging"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/nav"
	"github.com/vanderheijden86/mindmap/pkg/render/term"
)

type mode int

const (
	modeMap mode = iota
	modeEdit
	modeForm
	modePicker
	modeHelp
)

// statusMsg sets the status bar text.
type statusMsg struct {
	text    string
	isError bool
}

// EditorOptions returns editor options for the terminal: cell measurement
// and cell-sized spacing, scrolling and drag thresholds.
func EditorOptions(cfg config.Config) editor.Options {
	return editor.Options{
		Layout:   cfg.TerminalLayout(),
		Measure:  cfg.Cells(),
		Center:   cfg.Center(),
		Viewport: cfg.TerminalView(),
		Drag:     cfg.TerminalDrag(),
		RootText: editor.DefaultRootText,
	}
}

// Model is the bubbletea model for one editor session.
type Model struct {
	ed     *editor.Editor
	wrap   term.Wrapper
	keys   KeyMap
	theme  Theme
	styles term.Styles
	help   help.Model
	lib    *library.Library

	watch    *FileWatch
	watching bool
	debounce time.Duration
	pending  bool // a change arrived during an edit

	clipRead  func() (string, error)
	clipWrite func(string) error

	mode   mode
	edit   EditBox
	form   *formState
	picker Picker

	showOutline bool
	ready       bool
	quitting    bool
	width       int
	height      int

	statusMsg     string
	statusIsError bool
}

// NewModel creates the UI for ed. wrap must split text the same way the
// editor's measurer does.
func NewModel(ed *editor.Editor, wrap term.Wrapper) Model {
	theme := DefaultTheme(nil)
	h := help.New()
	h.ShortSeparator = " · "
	return Model{
		ed:        ed,
		wrap:      wrap,
		keys:      DefaultKeyMap(),
		theme:     theme,
		styles:    theme.MapStyles(),
		help:      h,
		clipRead:  clipboard.ReadAll,
		clipWrite: clipboard.WriteAll,
	}
}

// WithTheme replaces the color theme.
func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.styles = t.MapStyles()
	return m
}

// WithLibrary enables the recent-documents picker.
func (m Model) WithLibrary(lib *library.Library) Model {
	m.lib = lib
	return m
}

// WithClipboard replaces the system clipboard.
func (m Model) WithClipboard(read func() (string, error), write func(string) error) Model {
	m.clipRead = read
	m.clipWrite = write
	return m
}

// WithWatch reloads the document when it changes on disk.
func (m Model) WithWatch(debounce time.Duration) Model {
	m.watching = true
	m.debounce = debounce
	m.rewatch()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watch != nil {
		return m.watch.Wait()
	}
	return nil
}

// Close releases the file watch.
func (m Model) Close() {
	if m.watch != nil {
		m.watch.Stop()
	}
}

// Editor returns the editor behind the UI.
func (m Model) Editor() *editor.Editor { return m.ed }

// Status returns the status bar message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// ShowOutline reports whether the outline pane is open.
func (m Model) ShowOutline() bool { return m.showOutline }

func (m *Model) setStatus(text string, isError bool) {
	m.statusMsg = text
	m.statusIsError = isError
}

func (m *Model) setError(err error) {
	m.setStatus(err.Error(), true)
}

func (m Model) footerHeight() int {
	if m.mode == modeEdit {
		return editBoxHeight
	}
	return 1
}

func (m Model) mapLeft() int {
	if m.showOutline {
		return outlineWidth
	}
	return 0
}

func (m Model) mapSize() (int, int) {
	return max(m.width-m.mapLeft(), 1), max(m.height-1-m.footerHeight(), 1)
}

// resize tells the editor how much room the map has and keeps the
// selection on screen.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	w, h := m.mapSize()
	m.ed.Resize(float64(w), float64(h))
	m.ed.Select(m.ed.Selected().ID)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case statusMsg:
		m.setStatus(msg.text, msg.isError)
		return m, nil

	case FileChangedMsg:
		return m.fileChanged(msg)

	case recentLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		p, cmd := newRecentPicker(msg.entries, m.theme)
		m.picker = p
		m.mode = modePicker
		return m, cmd

	case editCommittedMsg:
		err := m.ed.CommitEdit(msg.text)
		cmd := m.endEdit()
		if err != nil {
			m.setError(err)
		}
		return m, cmd

	case editCanceledMsg:
		m.ed.CancelEdit()
		return m, m.endEdit()

	case formDoneMsg:
		return m.formDone(msg)

	case pickedMsg:
		return m.picked(msg)

	case forgetMsg:
		if m.lib == nil {
			return m, nil
		}
		return m, forgetCmd(m.lib, msg.path)
	}

	switch m.mode {
	case modeEdit:
		var cmd tea.Cmd
		m.edit, cmd = m.edit.Update(msg)
		return m, cmd

	case modeForm:
		done, cmd := m.form.Update(msg)
		if done {
			m.form = nil
			m.mode = modeMap
		}
		return m, cmd

	case modePicker:
		p, done, cmd := m.picker.Update(msg)
		m.picker = p
		if done {
			m.mode = modeMap
		}
		return m, cmd

	case modeHelp:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc", "?", "q", "enter":
				m.mode = modeMap
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.setStatus("", false)
	ed := m.ed

	switch {
	case key.Matches(msg, m.keys.Quit):
		if ed.Dirty() {
			return m.openForm(quitForm(m.width))
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		ed.CancelDrag()

	case key.Matches(msg, m.keys.Up):
		ed.Navigate(nav.Up)
	case key.Matches(msg, m.keys.Down):
		ed.Navigate(nav.Down)
	case key.Matches(msg, m.keys.Left):
		ed.Navigate(nav.Left)
	case key.Matches(msg, m.keys.Right):
		ed.Navigate(nav.Right)
	case key.Matches(msg, m.keys.Center):
		ed.Reveal(ed.Selected().ID)

	case key.Matches(msg, m.keys.ScrollUp):
		ed.View().Scroll(0, -2)
	case key.Matches(msg, m.keys.ScrollDown):
		ed.View().Scroll(0, 2)
	case key.Matches(msg, m.keys.ScrollLeft):
		ed.View().Scroll(-4, 0)
	case key.Matches(msg, m.keys.ScrollRight):
		ed.View().Scroll(4, 0)

	case key.Matches(msg, m.keys.AddChild):
		if _, err := ed.AddChild(); err != nil {
			m.setError(err)
			return m, nil
		}
		return m.startEdit()

	case key.Matches(msg, m.keys.AddSibling):
		n, err := ed.AddSibling()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if n == nil {
			m.setStatus("The central topic has no siblings; use tab to add a child", false)
			return m, nil
		}
		return m.startEdit()

	case key.Matches(msg, m.keys.Rename):
		ed.BeginEdit()
		return m.startEdit()

	case key.Matches(msg, m.keys.Delete):
		n := ed.Selected()
		if n.IsRoot() {
			m.setStatus("The central topic cannot be deleted", true)
			return m, nil
		}
		below := -1
		ed.Tree().WalkFrom(n.ID, func(*model.Node, int) bool {
			below++
			return true
		})
		return m.openForm(deleteForm(firstLine(n.Text), below, m.width))

	case key.Matches(msg, m.keys.Collapse):
		ed.ToggleCollapse()

	case key.Matches(msg, m.keys.Yank):
		if err := m.clipWrite(ed.Selected().Text); err != nil {
			m.setError(fmt.Errorf("copy: %w", err))
		} else {
			m.setStatus("Copied topic text", false)
		}

	case key.Matches(msg, m.keys.Paste):
		m.paste()

	case key.Matches(msg, m.keys.Save):
		if ed.Path() == "" {
			return m.openForm(saveAsForm(ed.SuggestedPath(), m.width))
		}
		return m, m.save("")

	case key.Matches(msg, m.keys.SaveAs):
		return m.openForm(saveAsForm(ed.SuggestedPath(), m.width))

	case key.Matches(msg, m.keys.Open):
		return m.openForm(openForm(m.width))

	case key.Matches(msg, m.keys.Recent):
		if m.lib == nil {
			m.setStatus("No recent-documents library is configured", true)
			return m, nil
		}
		return m, loadRecentCmd(m.lib)

	case key.Matches(msg, m.keys.Jump):
		p, cmd := newJumpPicker(ed.Tree(), m.theme)
		m.picker = p
		m.mode = modePicker
		return m, cmd

	case key.Matches(msg, m.keys.Outline):
		m.showOutline = !m.showOutline
		m.resize()

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}
	return m, nil
}

// handleMouse routes clicks in the outline to selection and everything in
// the map to the editor's pointer handling.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	ed := m.ed
	mapTop := 1
	mapW, mapH := m.mapSize()
	inMap := msg.Y >= mapTop && msg.Y < mapTop+mapH && msg.X >= m.mapLeft()
	if !inMap && ed.DragState() != drag.Idle {
		switch msg.Action {
		case tea.MouseActionRelease:
			// Nothing outside the map is a drop target.
			ed.CancelDrag()
			return m
		case tea.MouseActionMotion:
			x := min(max(msg.X-m.mapLeft(), 0), mapW-1)
			y := min(max(msg.Y-mapTop, 0), mapH-1)
			ed.Motion(model.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			return m
		}
	}
	if msg.Y < mapTop || msg.Y >= mapTop+mapH {
		return m
	}

	if msg.X < m.mapLeft() {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			rows := OutlineRows(ed.Tree())
			i := outlineScroll(rows, ed.Selected().ID, mapH) + msg.Y - mapTop
			if i < len(rows) {
				ed.Select(rows[i].ID)
			}
		}
		return m
	}

	// Cell centres, so a click anywhere in a cell hits the node drawn there.
	screen := model.Point{X: float64(msg.X-m.mapLeft()) + 0.5, Y: float64(msg.Y-mapTop) + 0.5}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			ed.View().Scroll(-4, 0)
		} else {
			ed.View().Scroll(0, -2)
		}
		return m
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			ed.View().Scroll(4, 0)
		} else {
			ed.View().Scroll(0, 2)
		}
		return m
	case tea.MouseButtonWheelLeft:
		ed.View().Scroll(-4, 0)
		return m
	case tea.MouseButtonWheelRight:
		ed.View().Scroll(4, 0)
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.setStatus("", false)
			ed.Press(screen)
		}
	case tea.MouseActionMotion:
		ed.Motion(screen)
	case tea.MouseActionRelease:
		mv, ok := ed.Release(screen)
		if ok {
			m.setStatus(m.describeMove(mv.NodeID, mv.NewParent), false)
		}
	}
	return m
}

func (m Model) describeMove(nodeID, parentID string) string {
	t := m.ed.Tree()
	n, _ := t.Node(nodeID)
	p, _ := t.Node(parentID)
	if n == nil || p == nil {
		return "Moved topic"
	}
	return fmt.Sprintf("Moved %q under %q", firstLine(n.Text), firstLine(p.Text))
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	n, ok := m.ed.Editing()
	if !ok {
		return m, nil
	}
	m.mode = modeEdit
	box, cmd := NewEditBox(n.Text, m.width, m.theme)
	m.edit = box
	m.resize()
	return m, cmd
}

func (m *Model) endEdit() tea.Cmd {
	m.mode = modeMap
	m.resize()
	if m.pending {
		m.pending = false
		m.reload()
	}
	return nil
}

func (m Model) openForm(fs *formState) (tea.Model, tea.Cmd) {
	m.form = fs
	m.mode = modeForm
	return m, fs.Init()
}

func (m Model) formDone(msg formDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case formSaveAs:
		return m, m.save(msg.path)
	case formOpen:
		return m, m.open(msg.path)
	case formDelete:
		if msg.confirm {
			if _, err := m.ed.Delete(); err != nil {
				m.setError(err)
			}
		}
	case formQuit:
		if msg.confirm {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) picked(msg pickedMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case pickJump:
		m.ed.Reveal(msg.id)
	case pickRecent:
		return m, m.open(msg.id)
	}
	return m, nil
}

// paste adds the clipboard text as a child of the selection.
func (m *Model) paste() {
	text, err := m.clipRead()
	if err != nil {
		m.setError(fmt.Errorf("paste: %w", err))
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		m.setStatus("Clipboard is empty", true)
		return
	}
	if _, err := m.ed.AddChild(); err != nil {
		m.setError(err)
		return
	}
	if err := m.ed.CommitEdit(text); err != nil {
		m.setError(err)
	}
}

// save writes to path, or to the current file when path is empty.
func (m *Model) save(path string) tea.Cmd {
	var err error
	if path == "" {
		err = m.ed.Save(context.Background())
	} else {
		err = m.ed.SaveAs(context.Background(), path)
	}
	if err != nil {
		logging.Error("save failed", "error", err)
		m.setError(err)
		return nil
	}
	m.setStatus("Saved "+m.ed.Path(), false)
	return m.rewatch()
}

func (m *Model) open(path string) tea.Cmd {
	if m.ed.Dirty() {
		m.setStatus("Save your changes before opening another map", true)
		return nil
	}
	if err := m.ed.Open(context.Background(), path); err != nil {
		logging.Warn("open failed", "path", path, "error", err)
		m.setError(err)
		return nil
	}
	m.resize()
	m.setStatus("Opened "+m.ed.Path(), false)
	return m.rewatch()
}

// rewatch points the file watch at the editor's current file and returns
// the command that waits for its next change.
func (m *Model) rewatch() tea.Cmd {
	path := m.ed.Path()
	if !m.watching || path == "" {
		return nil
	}
	if m.watch != nil {
		if m.watch.Path() == path {
			return nil
		}
		m.watch.Stop()
		m.watch = nil
	}
	fw, err := WatchFile(path, m.debounce)
	if err != nil {
		logging.Warn("watch failed", "path", path, "error", err)
		return nil
	}
	m.watch = fw
	return fw.Wait()
}

func (m Model) fileChanged(msg FileChangedMsg) (tea.Model, tea.Cmd) {
	if m.watch == nil || msg.Path != m.watch.Path() {
		return m, nil
	}
	if m.mode == modeEdit {
		m.pending = true
	} else {
		m.reload()
	}
	return m, m.watch.Wait()
}

func (m *Model) reload() {
	changed, err := m.ed.Reload()
	switch {
	case errors.Is(err, editor.ErrUnsavedChanges):
		m.setStatus("The file changed on disk; keeping your unsaved edits", true)
	case err != nil:
		m.setError(err)
	case changed:
		m.resize()
		m.setStatus("Reloaded "+filepath.Base(m.ed.Path()), false)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	mapW, mapH := m.mapSize()

	ed := m.ed
	body := term.Render(ed.Scene(), mapW, mapH, ed.View().Origin(), m.wrap, m.styles)
	if m.showOutline {
		pane := outlineView(OutlineRows(ed.Tree()), ed.Selected().ID, outlineWidth-1, mapH, m.theme)
		sep := m.theme.Renderer.NewStyle().Foreground(m.theme.Border).
			Render(strings.TrimSuffix(strings.Repeat("│\n", mapH), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, pane, sep, body)
	}

	var modal string
	switch m.mode {
	case modeHelp:
		modal = RenderHelp(m.keys, m.theme, m.width, mapH)
	case modePicker:
		modal = m.picker.View(m.width)
	case modeForm:
		modal = m.form.View()
	}
	if modal != "" {
		body = overlay.New(staticView(modal), staticView(body), overlay.Center, overlay.Center, 0, 0).View()
	}

	var footer string
	if m.mode == modeEdit {
		footer = m.edit.View()
	} else {
		footer = m.renderFooter()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// staticView adapts a rendered string to tea.Model for overlay compositing.
type staticView string

func (v staticView) Init() tea.Cmd                       { return nil }
func (v staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v staticView) View() string                        { return string(v) }

func (m Model) renderHeader() string {
	r := m.theme.Renderer
	ed := m.ed

	name := "untitled"
	if p := ed.Path(); p != "" {
		name = filepath.Base(p)
	}
	if ed.Dirty() {
		name += " ●"
	}
	title := r.NewStyle().Bold(true).Foreground(m.theme.Bg).Background(m.theme.Primary).Padding(0, 1).Render("mindmap")
	file := r.NewStyle().Foreground(m.theme.Text).Background(m.theme.BgDark).Padding(0, 1).Render(name)

	info := fmt.Sprintf("%d topics", ed.Tree().Len())
	if s := ed.DragState(); s.Active() {
		info = "dragging: " + s.String()
	}
	right := r.NewStyle().Foreground(m.theme.Subtext).Background(m.theme.BgDark).Padding(0, 1).Render(info)

	fill := max(m.width-lipgloss.Width(title)-lipgloss.Width(file)-lipgloss.Width(right), 0)
	filler := r.NewStyle().Background(m.theme.BgDark).Width(fill).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, file, filler, right)
}

func (m Model) renderFooter() string {
	r := m.theme.Renderer
	if m.statusMsg != "" {
		fg := m.theme.Secondary
		if m.statusIsError {
			fg = m.theme.Error
		}
		return r.NewStyle().Foreground(fg).Width(m.width).MaxWidth(m.width).Padding(0, 1).Render(m.statusMsg)
	}
	return r.NewStyle().Padding(0, 1).MaxWidth(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
