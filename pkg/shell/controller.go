// Package shell is the top-level orchestration of the start-page shell:
// it dispatches global shortcuts to the tab workspace, tracks which side
// panel is open and which area has focus, and turns start-page input
// into navigations. It holds no rendering code; pkg/shell/tui draws it.
package shell

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/sound"
	"github.com/entrhq/hypergx/pkg/speeddial"
	"github.com/entrhq/hypergx/pkg/tabs"
	"github.com/entrhq/hypergx/pkg/weburl"
)

// Tabs is the tab surface the controller drives. *workspace.Workspace
// implements it.
type Tabs interface {
	Registry() *tabs.Registry
	NewTab() string
	CloseActive() bool
	NavigateActive(rawInput string) (string, error)
	OpenExternal(rawURL string) error
	Back() bool
	Forward() bool
	Reload() bool
}

// Focus is the start-page area receiving keys.
type Focus int

const (
	FocusStartPage Focus = iota
	FocusAddressBar
	FocusSpeedDial
	FocusGXControl
	FocusSidebar
)

// focusCycle is the Tab order of the start-page areas. The address bar
// is reached with its own shortcut.
var focusCycle = []Focus{FocusStartPage, FocusSpeedDial, FocusGXControl, FocusSidebar}

func (f Focus) String() string {
	switch f {
	case FocusAddressBar:
		return "address-bar"
	case FocusSpeedDial:
		return "speed-dial"
	case FocusGXControl:
		return "gx-control"
	case FocusSidebar:
		return "sidebar"
	default:
		return "start-page"
	}
}

// SidebarItem is one entry of the left navigation rail.
type SidebarItem string

const (
	SidebarHome      SidebarItem = "home"
	SidebarFavorites SidebarItem = "favorites"
	SidebarHistory   SidebarItem = "history"
	SidebarDownloads SidebarItem = "downloads"
	SidebarSettings  SidebarItem = "settings"
	SidebarGX        SidebarItem = "gx"
	SidebarSetup     SidebarItem = "setup"
	SidebarAbout     SidebarItem = "about"
)

// SidebarItems lists the rail in display order.
func SidebarItems() []SidebarItem {
	return []SidebarItem{
		SidebarHome, SidebarFavorites, SidebarHistory, SidebarDownloads,
		SidebarSettings, SidebarGX, SidebarSetup, SidebarAbout,
	}
}

// Panels is the visibility of the side panels. Easy Setup and Settings
// are independent; showing one at a time is left to the renderer.
type Panels struct {
	EasySetup bool
	Settings  bool
	Help      bool
}

// Controller owns shell state that is not a tab or a setting.
type Controller struct {
	tabs   Tabs
	store  *settings.Store
	dial   *speeddial.Registry
	sound  *sound.Player
	keys   KeyMap
	logger *logging.Logger

	panels   Panels
	focus    Focus
	quitting bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSound plays cues for tab and toggle actions.
func WithSound(p *sound.Player) Option {
	return func(c *Controller) { c.sound = p }
}

// WithKeyMap overrides DefaultKeyMap.
func WithKeyMap(k KeyMap) Option {
	return func(c *Controller) { c.keys = k }
}

// WithLogger overrides the controller logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller over the tab workspace and settings store.
func New(t Tabs, store *settings.Store, opts ...Option) *Controller {
	c := &Controller{
		tabs:   t,
		store:  store,
		dial:   speeddial.New(store),
		keys:   DefaultKeyMap(),
		logger: logging.NewLogger("shell"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tabs returns the tab workspace.
func (c *Controller) Tabs() Tabs { return c.tabs }

// Settings returns the settings store.
func (c *Controller) Settings() *settings.Store { return c.store }

// SpeedDial returns the speed-dial registry.
func (c *Controller) SpeedDial() *speeddial.Registry { return c.dial }

// Sound returns the cue player, which may be nil.
func (c *Controller) Sound() *sound.Player { return c.sound }

// Keys returns the active key map.
func (c *Controller) Keys() KeyMap { return c.keys }

// Panels returns the current panel visibility.
func (c *Controller) Panels() Panels { return c.panels }

// Focus returns the focused start-page area.
func (c *Controller) Focus() Focus { return c.focus }

// Quitting reports whether a quit was requested.
func (c *Controller) Quitting() bool { return c.quitting }

// SetFocus moves focus to f.
func (c *Controller) SetFocus(f Focus) { c.focus = f }

// CycleFocus moves focus along the Tab order, backwards for delta < 0.
// From the address bar it returns to the start page.
func (c *Controller) CycleFocus(delta int) Focus {
	idx := -1
	for i, f := range focusCycle {
		if f == c.focus {
			idx = i
		}
	}
	if idx < 0 {
		c.focus = FocusStartPage
		return c.focus
	}
	n := len(focusCycle)
	c.focus = focusCycle[((idx+delta)%n+n)%n]
	return c.focus
}

// OpenEasySetup shows or hides the Easy Setup drawer.
func (c *Controller) OpenEasySetup(open bool) { c.panels.EasySetup = open }

// OpenSettings shows or hides the Settings modal.
func (c *Controller) OpenSettings(open bool) { c.panels.Settings = open }

// OpenHelp shows or hides the shortcut reference.
func (c *Controller) OpenHelp(open bool) { c.panels.Help = open }

// ClosePanels hides every panel.
func (c *Controller) ClosePanels() { c.panels = Panels{} }

// HandleKey resolves msg against the key map and dispatches it. It
// reports whether the key was a global shortcut.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	a := c.keys.Lookup(msg)
	if a == ActionNone {
		return false
	}
	return c.Dispatch(a)
}

// Dispatch runs a shell action.
func (c *Controller) Dispatch(a Action) bool {
	c.logger.Debugf("dispatch %s", a)
	switch a {
	case ActionNewTab:
		c.tabs.NewTab()
		c.sound.Play(sound.CueTabOpen)
	case ActionCloseTab:
		if c.tabs.CloseActive() {
			c.sound.Play(sound.CueTabClose)
		}
	case ActionToggleEasySetup:
		c.panels.EasySetup = !c.panels.EasySetup
	case ActionFocusGXControl:
		c.focus = FocusGXControl
	case ActionOpenSettings:
		c.panels.Settings = true
	case ActionFocusAddressBar:
		c.focus = FocusAddressBar
	case ActionBack:
		c.tabs.Back()
	case ActionForward:
		c.tabs.Forward()
	case ActionReload:
		c.tabs.Reload()
	case ActionNextTab:
		c.tabs.Registry().SelectNext()
	case ActionPrevTab:
		c.tabs.Registry().SelectPrev()
	case ActionHelp:
		c.panels.Help = !c.panels.Help
	case ActionQuit:
		c.quitting = true
	default:
		return false
	}
	return true
}

// Sidebar runs a rail entry. It reports false for entries that have no
// destination in this shell (history and downloads).
func (c *Controller) Sidebar(item SidebarItem) bool {
	switch item {
	case SidebarHome:
		c.ClosePanels()
		c.focus = FocusStartPage
	case SidebarFavorites:
		c.focus = FocusSpeedDial
	case SidebarSettings:
		return c.Dispatch(ActionOpenSettings)
	case SidebarSetup:
		c.panels.EasySetup = true
	case SidebarGX:
		return c.Dispatch(ActionFocusGXControl)
	case SidebarAbout:
		c.panels.Help = true
	default:
		return false
	}
	return true
}

// SearchTarget is the URL start-page input leads to: the input itself
// when it looks like an address, otherwise a results page on the
// configured engine. Blank input yields "".
func (c *Controller) SearchTarget(query string) string {
	return weburl.Target(c.store.State().SearchEngine, query)
}

// Search loads start-page input in the active tab and returns the URL.
func (c *Controller) Search(query string) (string, error) {
	target := c.SearchTarget(query)
	if target == "" {
		return "", nil
	}
	u, err := c.tabs.NavigateActive(target)
	if err != nil {
		return "", fmt.Errorf("failed to search: %w", err)
	}
	c.focus = FocusStartPage
	return u, nil
}

// OpenSpeedDial loads a tile in the active tab.
func (c *Controller) OpenSpeedDial(id string) (string, error) {
	item, ok := c.dial.Get(id)
	if !ok {
		return "", fmt.Errorf("speed-dial item %q not found", id)
	}
	return c.tabs.NavigateActive(item.URL)
}

// OpenSpeedDialExternal hands a tile to the platform browser.
func (c *Controller) OpenSpeedDialExternal(id string) error {
	item, ok := c.dial.Get(id)
	if !ok {
		return fmt.Errorf("speed-dial item %q not found", id)
	}
	return c.tabs.OpenExternal(item.URL)
}

// Toggle flips a boolean setting by its export key and plays the toggle
// cue.
func (c *Controller) Toggle(field string) bool {
	switch field {
	case "themeSounds":
		c.store.ToggleThemeSounds()
	case "showSuggestions":
		c.store.ToggleSuggestions()
	case "showWeather":
		c.store.ToggleWeather()
	case "showNews":
		c.store.ToggleNews()
	case "startPageDefault":
		c.store.SetStartPageDefault(!c.store.State().StartPageDefault)
	default:
		return false
	}
	c.sound.Play(sound.CueToggle)
	return true
}

// SetAccentHue sets the accent color from a hue slider position.
func (c *Controller) SetAccentHue(hue float64) {
	c.store.SetAccent(AccentFromHue(hue))
}

// CycleTheme selects the next (or previous, for delta < 0) preset.
func (c *Controller) CycleTheme(delta int) settings.ThemeID {
	themes := settings.Themes()
	current := c.store.State().Theme
	idx := 0
	for i, t := range themes {
		if t.ID == current {
			idx = i
			break
		}
	}
	next := themes[((idx+delta)%len(themes)+len(themes))%len(themes)].ID
	c.store.SetTheme(next)
	return next
}

// StepLimit nudges one GX Control slider. which is "cpu", "ram" or "fps";
// FPS moves in FPSStep increments.
func (c *Controller) StepLimit(which string, delta int) bool {
	s := c.store.State()
	switch which {
	case "cpu":
		c.store.SetCPULimit(s.CPULimit + delta)
	case "ram":
		c.store.SetRAMLimit(s.RAMLimit + delta)
	case "fps":
		c.store.SetFPSLimit(s.FPSLimit + delta*settings.FPSStep)
	default:
		return false
	}
	return true
}
