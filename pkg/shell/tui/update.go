package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/overlay"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/speeddial"
)

// Update handles all state updates for the TUI model.
//
// Uses pointer receiver so overlay mutations through ActionHandler
// persist between calls.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.reveal = true
		if m.overlay.isActive() {
			m.overlay.overlay, cmd = m.overlay.overlay.Update(msg, m, m)
		}

	case types.TabsChangedMsg, types.SettingsChangedMsg, toastExpiredMsg:
		// sync below picks up the new state

	case types.FrameMsg:
		m.animating = false
		m.state = m.ctrl.Settings().State()
		if interval := shell.FrameInterval(m.state.BackgroundMode, m.state.FPSLimit); interval > 0 {
			m.frame++
			m.animating = true
			cmd = frameTick(interval)
		}

	case types.ToastMsg:
		m.ShowToast(msg.Message, msg.Details, msg.Icon, msg.IsError)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	m.sync()
	if m.shouldQuit || m.ctrl.Quitting() {
		return m, tea.Quit
	}
	return m, tea.Batch(cmd, m.ensureAnimation(), m.toastTick())
}

// toastTick schedules a redraw for when the latest toast expires.
func (m *model) toastTick() tea.Cmd {
	if !m.toastPending {
		return nil
	}
	m.toastPending = false
	return tea.Tick(time.Until(m.toast.ShowUntil), func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

// handleKey routes a key press. Panel shortcuts and quit stay live while
// an overlay is open; everything else goes to the overlay first, then to
// the global key map, then to the focused start-page area.
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.overlay.isActive() {
		switch m.ctrl.Keys().Lookup(msg) {
		case shell.ActionQuit, shell.ActionToggleEasySetup, shell.ActionOpenSettings, shell.ActionHelp:
			m.ctrl.HandleKey(msg)
			return nil
		}
		return m.updateOverlay(msg)
	}

	if m.ctrl.HandleKey(msg) {
		return nil
	}

	m.reveal = true
	switch m.focus {
	case shell.FocusAddressBar:
		return m.handleAddressKey(msg)
	case shell.FocusSpeedDial:
		return m.handleSpeedDialKey(msg)
	case shell.FocusGXControl:
		return m.handleGXKey(msg)
	case shell.FocusSidebar:
		return m.handleSidebarKey(msg)
	default:
		return m.handleSearchKey(msg)
	}
}

// updateOverlay forwards msg to the active overlay. An overlay that
// returns nil has closed itself.
func (m *model) updateOverlay(msg tea.Msg) tea.Cmd {
	next, cmd := m.overlay.overlay.Update(msg, m, m)
	if next == nil {
		m.ClearOverlay()
		return cmd
	}
	m.overlay.overlay = next
	return cmd
}

// cycleFocus handles tab and shift+tab, reporting whether msg was one.
func (m *model) cycleFocus(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "tab":
		m.ctrl.CycleFocus(1)
	case "shift+tab":
		m.ctrl.CycleFocus(-1)
	default:
		return false
	}
	return true
}

func (m *model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	if m.cycleFocus(msg) {
		return nil
	}
	switch msg.String() {
	case "enter":
		if _, err := m.ctrl.Search(m.search.Value()); err != nil {
			m.ShowToast("Search failed", err.Error(), "✗", true)
		}
		return nil
	case "up", "down":
		if m.state.SearchEngine == settings.EngineGoogle {
			m.ctrl.Settings().SetSearchEngine(settings.EngineBing)
		} else {
			m.ctrl.Settings().SetSearchEngine(settings.EngineGoogle)
		}
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *model) handleAddressKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if _, err := m.ctrl.Tabs().NavigateActive(m.address.Value()); err != nil {
			m.ShowToast("Navigation failed", err.Error(), "✗", true)
		}
		m.ctrl.SetFocus(shell.FocusStartPage)
		return nil
	case "esc", "tab":
		m.ctrl.SetFocus(shell.FocusStartPage)
		return nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return cmd
}

func (m *model) handleSpeedDialKey(msg tea.KeyMsg) tea.Cmd {
	if m.cycleFocus(msg) {
		return nil
	}
	items := m.state.SpeedDial
	cols := m.dialColumns()
	dial := m.ctrl.SpeedDial()

	switch msg.String() {
	case "esc":
		m.ctrl.SetFocus(shell.FocusStartPage)
	case "left", "h":
		m.dialIndex = max(0, m.dialIndex-1)
	case "right", "l":
		m.dialIndex = min(len(items)-1, m.dialIndex+1)
	case "up", "k":
		if m.dialIndex-cols >= 0 {
			m.dialIndex -= cols
		}
	case "down", "j":
		if m.dialIndex+cols < len(items) {
			m.dialIndex += cols
		}
	case "shift+left":
		if dial.Move(m.dialIndex, m.dialIndex-1) {
			m.dialIndex--
		}
	case "shift+right":
		if dial.Move(m.dialIndex, m.dialIndex+1) {
			m.dialIndex++
		}
	case "a", "+":
		m.PushOverlay(types.OverlayModeAddTile, overlay.NewAddTileOverlay(m.ctrl, m.width, m.height))
	case "enter", "o", "d", "delete", "x":
		if len(items) == 0 {
			return nil
		}
		m.tileAction(msg.String(), items[m.dialIndex])
	}
	return nil
}

func (m *model) tileAction(k string, item speeddial.Item) {
	switch k {
	case "enter":
		if _, err := m.ctrl.OpenSpeedDial(item.ID); err != nil {
			m.ShowToast("Could not open tile", err.Error(), "✗", true)
		}
	case "o":
		if err := m.ctrl.OpenSpeedDialExternal(item.ID); err != nil {
			m.ShowToast("Could not open in browser", err.Error(), "✗", true)
			return
		}
		m.ShowToast("Opened in system browser", item.URL, "↗", false)
	default:
		m.ctrl.SpeedDial().Remove(item.ID)
		m.ShowToast("Tile removed", item.Title, "✖", false)
	}
}

func (m *model) handleGXKey(msg tea.KeyMsg) tea.Cmd {
	if m.cycleFocus(msg) {
		return nil
	}
	which := gxSliders[m.gxIndex].id
	switch msg.String() {
	case "esc":
		m.ctrl.SetFocus(shell.FocusStartPage)
	case "up", "k":
		m.gxIndex = (m.gxIndex - 1 + len(gxSliders)) % len(gxSliders)
	case "down", "j":
		m.gxIndex = (m.gxIndex + 1) % len(gxSliders)
	case "left", "h":
		m.ctrl.StepLimit(which, -1)
	case "right", "l":
		m.ctrl.StepLimit(which, 1)
	case "shift+left":
		m.ctrl.StepLimit(which, -10)
	case "shift+right":
		m.ctrl.StepLimit(which, 10)
	}
	return nil
}

func (m *model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	if m.cycleFocus(msg) {
		return nil
	}
	items := shell.SidebarItems()
	switch msg.String() {
	case "esc":
		m.ctrl.SetFocus(shell.FocusStartPage)
	case "up", "k":
		m.sidebarIndex = (m.sidebarIndex - 1 + len(items)) % len(items)
	case "down", "j":
		m.sidebarIndex = (m.sidebarIndex + 1) % len(items)
	case "enter", " ":
		m.activateSidebar(items[m.sidebarIndex])
	}
	return nil
}

// activateSidebar runs a rail entry, telling the user when it has no
// destination.
func (m *model) activateSidebar(item shell.SidebarItem) {
	for i, it := range shell.SidebarItems() {
		if it == item {
			m.sidebarIndex = i
		}
	}
	if !m.ctrl.Sidebar(item) {
		m.ShowToast(fmt.Sprintf("%s is not available yet", sidebarLabels[item].title), "", "ℹ", false)
	}
}

// handleMouse supports clicks on the tab bar and the sidebar, and wheel
// scrolling of the start page.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.overlay.isActive() {
		return nil
	}
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	switch {
	case msg.Y == tabBarRow:
		m.clickTabBar(msg.X)
	case msg.Y == addressBarRow:
		m.ctrl.SetFocus(shell.FocusAddressBar)
	case msg.X < sidebarWidth:
		if item, ok := sidebarItemAt(msg.Y); ok {
			m.ctrl.SetFocus(shell.FocusSidebar)
			m.activateSidebar(item)
		}
	}
	return nil
}

func (m *model) clickTabBar(x int) {
	spans, end := tabSpans(m.tabs)
	reg := m.ctrl.Tabs().Registry()
	for _, s := range spans {
		if x < s.start || x >= s.end {
			continue
		}
		if x == s.closeAt {
			reg.SelectTab(s.id)
			m.ctrl.Dispatch(shell.ActionCloseTab)
			return
		}
		reg.SelectTab(s.id)
		return
	}
	if x >= end && x < end+len(newTabButton) {
		m.ctrl.Dispatch(shell.ActionNewTab)
	}
}
