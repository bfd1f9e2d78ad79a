package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/settings"
)

// Overlay is a modal component drawn over the shell. Update returns nil
// to signal that the overlay closed itself.
type Overlay interface {
	Update(msg tea.Msg, state StateProvider, actions ActionHandler) (Overlay, tea.Cmd)
	View() string
	Focused() bool
	Width() int
	Height() int
}

// StateProvider exposes read-only shell state to overlays.
type StateProvider interface {
	SettingsState() settings.State
	ActiveURL() string
	ScreenSize() (width, height int)
}

// ActionHandler lets overlays act on the shell.
type ActionHandler interface {
	ShowToast(message, details, icon string, isError bool)
	ClearOverlay()
	PushOverlay(mode OverlayMode, overlay Overlay)
}
