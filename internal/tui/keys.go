package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept  key.Binding
	Format  key.Binding
	Wake    key.Binding
	Reset   key.Binding
	Browse  key.Binding
	Cancel  key.Binding
	Quit    key.Binding
	LogUp   key.Binding
	LogDown key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select path / convert"),
		),
		Format: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "html/pdf"),
		),
		Wake: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "wake service"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "choose another file"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear/back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		LogUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "older log"),
		),
		LogDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "newer log"),
		),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Format, k.Wake, k.Reset, k.Browse, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Accept, k.Format, k.Browse},
		{k.Wake, k.Reset, k.Cancel},
		{k.LogUp, k.LogDown, k.Quit},
	}
}
