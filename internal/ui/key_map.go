package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	left   key.Binding
	right  key.Binding
	up     key.Binding
	down   key.Binding
	pick   key.Binding
	remove key.Binding
	window key.Binding
	save   key.Binding
	search key.Binding
	back   key.Binding
	yes    key.Binding
	no     key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		up:     key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "prev result")),
		down:   key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "next result")),
		pick:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select/swap")),
		remove: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		window: key.NewBinding(key.WithKeys("tab", "w"), key.WithHelp("tab", "time range")),
		save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save playlist")),
		search: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search/choose")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.pick, k.remove},
		{k.window, k.save, k.back},
		{k.yes, k.no, k.quit},
	}
}
