package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the map view's keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Center key.Binding

	// Scrolling
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding

	// Editing
	AddChild   key.Binding
	AddSibling key.Binding
	Rename     key.Binding
	Delete     key.Binding
	Collapse   key.Binding
	Yank       key.Binding
	Paste      key.Binding

	// Files
	Save   key.Binding
	SaveAs key.Binding
	Open   key.Binding
	Recent key.Binding

	// Views
	Jump    key.Binding
	Outline key.Binding
	Help    key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Center: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "centre selection"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("⇧↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("⇧↓", "scroll down"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("⇧←", "scroll left"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("⇧→", "scroll right"),
		),
		AddChild: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "add child"),
		),
		AddSibling: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add sibling"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e", "f2"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "backspace"),
			key.WithHelp("d", "delete"),
		),
		Collapse: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fold"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy text"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste as child"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "save as"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		Recent: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recent"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump"),
		),
		Outline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "outline"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddChild, k.AddSibling, k.Rename, k.Delete, k.Collapse, k.Save, k.Jump, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Center},
		{k.ScrollUp, k.ScrollDown, k.ScrollLeft, k.ScrollRight},
		{k.AddChild, k.AddSibling, k.Rename, k.Delete, k.Collapse, k.Yank, k.Paste},
		{k.Save, k.SaveAs, k.Open, k.Recent, k.Jump, k.Outline, k.Help, k.Quit},
	}
}
