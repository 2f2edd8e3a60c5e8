package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Overlay  key.Binding
	Sort     key.Binding
	Delete   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column right")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "row up / scroll")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "row down / scroll")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Overlay:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "show content")),
		Sort:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort by column")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete row")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// eventFor maps a key press to a browser event (EventNone if unbound).
func (k keyMap) eventFor(msg tea.KeyMsg) Event {
	switch {
	case key.Matches(msg, k.Quit):
		return EventQuit
	case key.Matches(msg, k.Left):
		return EventLeft
	case key.Matches(msg, k.Right):
		return EventRight
	case key.Matches(msg, k.Up):
		return EventUp
	case key.Matches(msg, k.Down):
		return EventDown
	case key.Matches(msg, k.PageUp):
		return EventPageUp
	case key.Matches(msg, k.PageDown):
		return EventPageDown
	case key.Matches(msg, k.Top):
		return EventTop
	case key.Matches(msg, k.Bottom):
		return EventBottom
	case key.Matches(msg, k.Overlay):
		return EventToggleOverlay
	case key.Matches(msg, k.Sort):
		return EventSort
	case key.Matches(msg, k.Delete):
		return EventDelete
	default:
		return EventNone
	}
}
