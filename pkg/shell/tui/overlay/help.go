package overlay

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

const (
	helpWidth  = 76
	helpHeight = 20
)

// HelpOverlay displays the shortcut reference in a modal dialog
type HelpOverlay struct {
	panel *scrollPanel
}

// NewHelpOverlay creates a help overlay listing keys, followed by extra
// free-form content.
func NewHelpOverlay(title string, keys help.KeyMap, extra string) *HelpOverlay {
	h := help.New()
	h.ShowAll = true
	h.Width = helpWidth
	content := h.View(keys)
	if extra != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", extra)
	}
	return &HelpOverlay{
		panel: newScrollPanel(title, "Press ESC or Enter to close", content, helpWidth, helpHeight),
	}
}

// Update handles messages for the help overlay
func (h *HelpOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	// Enter closes as well as Esc
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		return nil, nil
	}
	closed, cmd := h.panel.update(msg)
	if closed {
		return nil, cmd
	}
	return h, cmd
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	return h.panel.view()
}

// Focused implements types.Overlay
func (h *HelpOverlay) Focused() bool { return true }

// Width implements types.Overlay
func (h *HelpOverlay) Width() int { return helpWidth + 4 }

// Height implements types.Overlay
func (h *HelpOverlay) Height() int { return helpHeight + 5 }
