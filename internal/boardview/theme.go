package boardview

import (
	"github.com/charmbracelet/lipgloss"

	"gridboard-cli/internal/model"
)

type theme struct {
	title lipgloss.Style
	faint lipgloss.Style

	analytics lipgloss.Color
	data      lipgloss.Color
	tools     lipgloss.Color
	custom    lipgloss.Color
	selected  lipgloss.Color
}

// palette picks border colors per widget category. dark selects the
// brighter variants so boxes stay readable on dark terminals.
func palette(dark bool) theme {
	th := theme{
		title:     lipgloss.NewStyle().Bold(true),
		faint:     lipgloss.NewStyle().Faint(true),
		analytics: lipgloss.Color("25"),
		data:      lipgloss.Color("28"),
		tools:     lipgloss.Color("130"),
		custom:    lipgloss.Color("90"),
		selected:  lipgloss.Color("205"),
	}
	if dark {
		th.analytics = lipgloss.Color("39")
		th.data = lipgloss.Color("42")
		th.tools = lipgloss.Color("214")
		th.custom = lipgloss.Color("135")
	}
	return th
}

func (th theme) categoryColor(c model.Category, selected bool) lipgloss.Color {
	if selected {
		return th.selected
	}
	switch c {
	case model.CategoryAnalytics:
		return th.analytics
	case model.CategoryData:
		return th.data
	case model.CategoryCustom:
		return th.custom
	default:
		return th.tools
	}
}
