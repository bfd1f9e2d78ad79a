package types

import "github.com/charmbracelet/lipgloss"

// Color Palette
// Shared by the shell and its overlays. The accent color is dynamic and
// comes from settings; these are the fixed tones around it.
var (
	NeonViolet  = lipgloss.Color("#7C3AED") // Default accent
	NeonCyan    = lipgloss.Color("#22D3EE") // Secondary highlight
	MintGreen   = lipgloss.Color("#A8E6CF") // Enabled toggles, success
	SalmonPink  = lipgloss.Color("#FFB3BA") // Errors, destructive actions
	MutedGray   = lipgloss.Color("#6B7280") // Secondary text
	DeepSlate   = lipgloss.Color("#0F172A") // Panel background
	BrightWhite = lipgloss.Color("#F9FAFB") // Primary text
)

var (
	// OverlayTitleStyle is used for main overlay titles
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(NeonViolet)

	// OverlaySubtitleStyle is used for overlay subtitles and secondary text
	OverlaySubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedGray)

	// OverlayHelpStyle is used for help text and hints
	OverlayHelpStyle = lipgloss.NewStyle().
				Foreground(MutedGray).
				Italic(true)

	// SectionTitleStyle heads a group of items inside an overlay
	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(NeonCyan)
)

// CreateOverlayContainerStyle returns the bordered box overlays render in.
// Border and padding add 6 columns to width.
func CreateOverlayContainerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(NeonViolet).
		Padding(1, 2).
		Width(width)
}

// AccentColor returns the accent as a lipgloss color, falling back to the
// default violet for empty input.
func AccentColor(accent string) lipgloss.Color {
	if accent == "" {
		return NeonViolet
	}
	return lipgloss.Color(accent)
}
