package tui

import (
	"github.com/charmbracelet/lipgloss"

	"parallax/pkg/card"
)

type styles struct {
	editorPane  lipgloss.Style
	sidebarPane lipgloss.Style
	ghost       lipgloss.Style
	cursor      lipgloss.Style
	statusBar   lipgloss.Style
	statusError lipgloss.Style
	cardBox     lipgloss.Style
	cardBoxSel  lipgloss.Style
	cardHeader  lipgloss.Style
	kindBadge   map[card.Kind]lipgloss.Style
	helpLine    lipgloss.Style
}

func defaultStyles() styles {
	badge := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111111")).
			Background(lipgloss.Color(color)).
			Padding(0, 1)
	}

	return styles{
		editorPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1),
		sidebarPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4B5563")).
			Padding(0, 1),
		ghost: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true),
		cursor: lipgloss.NewStyle().Reverse(true),
		statusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")),
		statusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")),
		cardBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("#374151")).
			PaddingBottom(0),
		cardBoxSel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("#A78BFA")),
		cardHeader: lipgloss.NewStyle().Bold(true),
		kindBadge: map[card.Kind]lipgloss.Style{
			card.KindQuestion: badge("#FBBF24"),
			card.KindContext:  badge("#60A5FA"),
			card.KindMath:     badge("#34D399"),
			card.KindEmail:    badge("#F472B6"),
		},
		helpLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
	}
}
