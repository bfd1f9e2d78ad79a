package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// Common Styles
// The accent color comes from settings at render time; these are the
// fixed styles around it.
var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(types.NeonViolet)

	tipsStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(types.BrightWhite)

	cardBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CBD5E1"))

	tabStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(types.BrightWhite).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray).
			Padding(0, 1)

	errorColor = lipgloss.Color("203")
)

// cardStyle is the rounded box of a start-page section. Focused sections
// take the accent as their border.
func cardStyle(width int, focused bool, accent lipgloss.Color) lipgloss.Style {
	border := lipgloss.Color("#334155")
	if focused {
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width)
}
