package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#E50914", "#10B981", "#F87171", "#F59E0B", "#9CA3AF", "#A855F7")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	brand    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	muted    lipgloss.Style
	card     lipgloss.Style
	focus    lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
}

func NewPalette(t, s, e, w, h, a string) *Palette {
	border := lipgloss.RoundedBorder()
	card := lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color(h)).Padding(0, 1).Width(24)

	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		brand:    NewBold(t),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		muted:    NewStyle(h),
		card:     card,
		focus:    card.BorderForeground(lipgloss.Color(t)),
		selected: card.BorderForeground(lipgloss.Color(a)).Foreground(lipgloss.Color(a)),
		label:    NewStyle(h),
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
