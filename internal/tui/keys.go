package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	ToggleView key.Binding
	RingsView  key.Binding
	BarsView   key.Binding
	Refresh    key.Binding
	Pause      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("tab", "b"),
			key.WithHelp("tab/b", "rings/bars"),
		),
		RingsView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "rings"),
		),
		BarsView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "bars"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleView, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleView, k.RingsView, k.BarsView},
		{k.Refresh, k.Pause},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
