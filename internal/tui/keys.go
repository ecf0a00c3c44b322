package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept       key.Binding
	Reject       key.Binding
	Dismiss      key.Binding
	NextCard     key.Binding
	PrevCard     key.Binding
	Save         key.Binding
	ClearSession key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept ghost text"),
		),
		Reject: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "reject ghost text"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "dismiss card"),
		),
		NextCard: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next card"),
		),
		PrevCard: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev card"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		ClearSession: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear session"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
