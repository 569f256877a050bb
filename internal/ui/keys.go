package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding

	// Session
	Reload      key.Binding
	Clear       key.Binding
	ToggleOrder key.Binding
	Search      key.Binding
	Filters     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Tags (detail view and filter sheet)
	Toggle       key.Binding
	SwitchAction key.Binding
	ClearTags    key.Binding
	Export       key.Binding
	Subsystem    key.Binding
	Category     key.Binding
	Sender       key.Binding
	Level        key.Binding
	NextSection  key.Binding
	PrevSection  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / confirm"),
		),

		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear entries"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle order"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search messages"),
		),
		Filters: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter sheet"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "Toggle tag"),
		),
		SwitchAction: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Switch Show/Hide"),
		),
		ClearTags: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear tags"),
		),
		Export: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Export entry"),
		),
		Subsystem: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Toggle subsystem"),
		),
		Category: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Toggle category"),
		),
		Sender: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Toggle library"),
		),
		Level: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Toggle level"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "Next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "Previous section"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.Confirm, k.Escape},
		{k.Reload, k.Clear, k.ToggleOrder, k.Search, k.Filters},
		{k.Subsystem, k.Category, k.Sender, k.Level, k.SwitchAction, k.ClearTags, k.Export},
		{k.NextSection, k.PrevSection, k.Toggle},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
