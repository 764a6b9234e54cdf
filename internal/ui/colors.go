package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	slot     lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	empty    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	slot := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(h)).
		Width(18).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center)

	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		tab:      NewStyle(h).Padding(0, 1),
		tabOn:    NewBold(t).Padding(0, 1).Underline(true),
		slot:     slot,
		cursor:   slot.BorderForeground(lipgloss.Color(t)),
		selected: slot.BorderForeground(lipgloss.Color(s)).BorderStyle(lipgloss.ThickBorder()),
		empty:    NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
