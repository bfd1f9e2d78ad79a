package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// View renders the entire TUI interface.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	accent := types.AccentColor(m.state.AccentColor)

	bodyHeight := max(1, m.height-chromeRows)
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidebar(bodyHeight, accent),
		" ",
		m.viewport.View(),
	)

	baseView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabBar(accent),
		m.renderAddressBar(accent),
		m.renderBand("▄"),
		body,
		m.renderBand("▀"),
		m.renderStatusBar(),
	)

	return m.applyOverlays(baseView)
}

// applyOverlays layers the active overlay and the toast on top of the
// base view. Easy Setup docks to the right as a drawer; the other panels
// are centered modals.
func (m *model) applyOverlays(baseView string) string {
	if m.overlay.isActive() {
		if m.overlay.mode == types.OverlayModeEasySetup {
			baseView = renderDrawer(baseView, m.overlay.overlay, m.width)
		} else {
			baseView = renderOverlay(baseView, m.overlay.overlay, m.width, m.height)
		}
	}

	if m.toast.Active && time.Now().Before(m.toast.ShowUntil) {
		baseView = renderToastOverlay(baseView, m.renderToast())
	}

	return baseView
}

// renderToast renders a toast notification
func (m *model) renderToast() string {
	boxWidth := min(m.width-4, 60)
	if boxWidth < 30 {
		boxWidth = 30
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s %s", m.toast.Icon, m.toast.Message))
	if m.toast.Details != "" {
		content.WriteString("\n")
		content.WriteString(tipsStyle.Render(m.toast.Details))
	}

	borderColor := types.AccentColor(m.state.AccentColor)
	if m.toast.IsError {
		borderColor = errorColor
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(boxWidth)

	return boxStyle.Render(content.String())
}
