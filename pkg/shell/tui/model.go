package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/tabs"
)

// defaultQuery prefills the start-page search box.
const defaultQuery = "HyperGX"

// model represents the state of the TUI application.
// Everything that outlives a frame lives in the controller, the tab
// registry or the settings store; the model keeps render snapshots of
// them plus the cursor positions of each start-page area.
type model struct {
	ctrl   *shell.Controller
	logger *logging.Logger

	// Bubble Tea components
	help     help.Model
	search   textinput.Model
	address  textinput.Model
	viewport viewport.Model

	// UI state
	overlay      *overlayState
	toast        *types.ToastNotification
	toastPending bool // ShowToast ran; an expiry tick must be scheduled

	// Snapshots refreshed after every Update
	tabs     []tabs.Record
	activeID string
	state    settings.State
	focus    shell.Focus

	// Cursor positions
	sidebarIndex int
	dialIndex    int
	gxIndex      int

	// Start-page line offsets of the focusable sections, for scrolling
	sectionTop map[shell.Focus]int
	reveal     bool

	// Background animation
	frame     int
	animating bool

	// Window dimensions
	width  int
	height int
	ready  bool

	// Application state
	shouldQuit bool
}

// toastExpiredMsg triggers a redraw once a toast has run out
type toastExpiredMsg struct{}

// gxSliders lists the GX Control rows in display order.
var gxSliders = []struct {
	id    string
	label string
	max   int
}{
	{"cpu", "CPU", settings.MaxCPULimit},
	{"ram", "RAM", settings.MaxRAMLimit},
	{"fps", "FPS", settings.MaxFPSLimit},
}

func newModel(ctrl *shell.Controller, logger *logging.Logger) *model {
	search := textinput.New()
	search.Placeholder = "Type a search or a URL"
	search.Prompt = "⌕ "
	search.SetValue(defaultQuery)
	search.CharLimit = 512
	search.Focus()

	address := textinput.New()
	address.Placeholder = "Search or enter address"
	address.Prompt = ""
	address.CharLimit = 2048

	h := help.New()

	m := &model{
		ctrl:       ctrl,
		logger:     logger,
		help:       h,
		search:     search,
		address:    address,
		viewport:   viewport.New(0, 0),
		overlay:    newOverlayState(),
		toast:      &types.ToastNotification{},
		sectionTop: map[shell.Focus]int{},
	}
	m.sync()
	return m
}

// Init implements tea.Model
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ensureAnimation())
}

// sync refreshes the snapshots from the controller and re-applies focus
// to the text inputs.
func (m *model) sync() {
	reg := m.ctrl.Tabs().Registry()
	m.tabs = reg.Tabs()
	m.activeID = reg.ActiveID()
	m.state = m.ctrl.Settings().State()

	if n := len(m.state.SpeedDial); m.dialIndex >= n {
		m.dialIndex = n - 1
	}
	if m.dialIndex < 0 {
		m.dialIndex = 0
	}

	focus := m.ctrl.Focus()
	if focus != m.focus {
		m.onFocusChange(m.focus, focus)
		m.focus = focus
	}
	m.syncPanels()
	m.layout()
}

func (m *model) onFocusChange(from, to shell.Focus) {
	if from == shell.FocusAddressBar {
		m.address.Blur()
	}
	if from == shell.FocusStartPage {
		m.search.Blur()
	}
	switch to {
	case shell.FocusAddressBar:
		m.address.SetValue(m.ActiveURL())
		m.address.CursorEnd()
		m.address.Focus()
	case shell.FocusStartPage:
		m.search.Focus()
	}
	m.reveal = true
}

// ensureAnimation schedules the next background frame when the
// background is animated and no tick is already pending.
func (m *model) ensureAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	interval := shell.FrameInterval(m.state.BackgroundMode, m.state.FPSLimit)
	if interval <= 0 {
		return nil
	}
	m.animating = true
	return frameTick(interval)
}

func frameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return types.FrameMsg{Time: t}
	})
}
