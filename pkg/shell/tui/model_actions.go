package tui

import (
	"time"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell/tui/overlay"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/sound"
)

const toastDuration = 3 * time.Second

// ShowToast displays a toast notification. Error toasts also play the
// error cue.
func (m *model) ShowToast(message, details, icon string, isError bool) {
	if isError {
		m.ctrl.Sound().Play(sound.CueError)
	}
	m.toast = &types.ToastNotification{
		Active:    true,
		Message:   message,
		Details:   details,
		Icon:      icon,
		IsError:   isError,
		ShowUntil: time.Now().Add(toastDuration),
	}
	m.toastPending = true
}

// ClearOverlay closes the current overlay and the panel behind it.
// A stacked overlay underneath becomes active again.
func (m *model) ClearOverlay() {
	m.logger.Debugf("overlay %s closed", m.overlay.mode)
	m.closePanel(m.overlay.mode)
	m.overlay.popOverlay()
}

// PushOverlay shows an overlay above the current one
func (m *model) PushOverlay(mode types.OverlayMode, o types.Overlay) {
	m.overlay.pushOverlay(mode, o)
}

// SettingsState implements types.StateProvider
func (m *model) SettingsState() settings.State { return m.state }

// ActiveURL implements types.StateProvider
func (m *model) ActiveURL() string {
	for _, t := range m.tabs {
		if t.ID == m.activeID {
			return t.URL
		}
	}
	return ""
}

// ScreenSize implements types.StateProvider
func (m *model) ScreenSize() (int, int) { return m.width, m.height }

// Quit triggers application exit on the next Update.
func (m *model) Quit() {
	m.shouldQuit = true
}

// syncPanels mirrors the controller's panel flags onto the overlay
// stack. Newly opened panels go on top.
func (m *model) syncPanels() {
	p := m.ctrl.Panels()
	panels := []struct {
		mode types.OverlayMode
		open bool
		make func() types.Overlay
	}{
		{types.OverlayModeEasySetup, p.EasySetup, func() types.Overlay {
			return overlay.NewEasySetupOverlay(m.ctrl, m.width, m.height)
		}},
		{types.OverlayModeSettings, p.Settings, func() types.Overlay {
			return overlay.NewSettingsOverlay(m.ctrl, m.width, m.height)
		}},
		{types.OverlayModeHelp, p.Help, func() types.Overlay {
			return overlay.NewHelpOverlay("⌨ Shortcuts", m.ctrl.Keys(), areaHelp)
		}},
	}
	for _, panel := range panels {
		shown := m.overlay.contains(panel.mode)
		switch {
		case panel.open && !shown:
			m.overlay.pushOverlay(panel.mode, panel.make())
		case !panel.open && shown:
			m.overlay.remove(panel.mode)
		}
	}
}

// closePanel clears the controller flag behind an overlay mode.
func (m *model) closePanel(mode types.OverlayMode) {
	switch mode {
	case types.OverlayModeEasySetup:
		m.ctrl.OpenEasySetup(false)
	case types.OverlayModeSettings:
		m.ctrl.OpenSettings(false)
	case types.OverlayModeHelp:
		m.ctrl.OpenHelp(false)
	}
}

// areaHelp lists the keys of the start-page areas under the shortcuts.
const areaHelp = `Start page
  tab / shift+tab   move between search, speed dial, GX Control and sidebar
  ↑ / ↓             switch search engine (search box)

Speed dial
  arrows            select a tile         enter   open in the active tab
  shift+←/→         move the tile         o       open in the system browser
  a                 add a site            d       remove the tile

GX Control
  ↑ / ↓             select a limit        ←/→     adjust (shift for ×10)`
