package shell

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/tabs"
	"github.com/entrhq/hypergx/pkg/weburl"
)

type fakeTabs struct {
	reg      *tabs.Registry
	external []string
	history  []string
}

func newFakeTabs() *fakeTabs {
	return &fakeTabs{reg: tabs.NewRegistry(tabs.WithLogger(quiet()))}
}

func (f *fakeTabs) Registry() *tabs.Registry { return f.reg }
func (f *fakeTabs) NewTab() string           { return f.reg.NewTab() }
func (f *fakeTabs) CloseActive() bool {
	_, ok := f.reg.CloseTab(f.reg.ActiveID())
	return ok
}
func (f *fakeTabs) NavigateActive(raw string) (string, error) {
	u, _ := f.reg.Navigate(f.reg.ActiveID(), raw)
	return u, nil
}
func (f *fakeTabs) OpenExternal(raw string) error {
	f.external = append(f.external, weburl.Normalize(raw))
	return nil
}
func (f *fakeTabs) Back() bool    { f.history = append(f.history, "back"); return true }
func (f *fakeTabs) Forward() bool { f.history = append(f.history, "forward"); return true }
func (f *fakeTabs) Reload() bool  { f.history = append(f.history, "reload"); return true }

func quiet() *logging.Logger {
	return logging.NewWithWriter("test", io.Discard, logging.LevelError)
}

func newController(t *testing.T) (*Controller, *fakeTabs, *settings.Store) {
	t.Helper()
	ft := newFakeTabs()
	store := settings.New(settings.WithLogger(quiet()))
	return New(ft, store, WithLogger(quiet())), ft, store
}

func ctrl(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyType(int(r) - 'a' + int(tea.KeyCtrlA))}
}

func TestHandleKey_TabShortcuts(t *testing.T) {
	c, ft, _ := newController(t)
	first := ft.reg.ActiveID()

	require.True(t, c.HandleKey(ctrl('t')))
	assert.Equal(t, 2, ft.reg.Len())
	assert.NotEqual(t, first, ft.reg.ActiveID())

	require.True(t, c.HandleKey(ctrl('w')))
	assert.Equal(t, 1, ft.reg.Len())
	assert.Equal(t, first, ft.reg.ActiveID())
}

func TestHandleKey_Panels(t *testing.T) {
	c, _, _ := newController(t)

	c.HandleKey(ctrl('e'))
	assert.True(t, c.Panels().EasySetup)
	c.HandleKey(ctrl('o'))
	assert.True(t, c.Panels().Settings)
	assert.True(t, c.Panels().EasySetup, "panels are independent")

	c.HandleKey(ctrl('e'))
	assert.False(t, c.Panels().EasySetup)
	assert.True(t, c.Panels().Settings)

	c.HandleKey(tea.KeyMsg{Type: tea.KeyF2})
	assert.True(t, c.Panels().Settings)
}

func TestHandleKey_Focus(t *testing.T) {
	c, _, _ := newController(t)
	assert.Equal(t, FocusStartPage, c.Focus())

	c.HandleKey(ctrl('l'))
	assert.Equal(t, FocusAddressBar, c.Focus())
	c.HandleKey(ctrl('g'))
	assert.Equal(t, FocusGXControl, c.Focus())
}

func TestHandleKey_History(t *testing.T) {
	c, ft, _ := newController(t)
	c.HandleKey(tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyRight, Alt: true})
	c.HandleKey(ctrl('r'))
	assert.Equal(t, []string{"back", "forward", "reload"}, ft.history)
}

func TestHandleKey_CycleTabs(t *testing.T) {
	c, ft, _ := newController(t)
	first := ft.reg.ActiveID()
	second := ft.NewTab()

	c.HandleKey(ctrl('n'))
	assert.Equal(t, first, ft.reg.ActiveID())
	c.HandleKey(ctrl('p'))
	assert.Equal(t, second, ft.reg.ActiveID())
}

func TestHandleKey_UnboundAndQuit(t *testing.T) {
	c, _, _ := newController(t)
	assert.False(t, c.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}))
	assert.False(t, c.Quitting())

	assert.True(t, c.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, c.Quitting())
}

func TestSidebar(t *testing.T) {
	c, _, _ := newController(t)

	assert.True(t, c.Sidebar(SidebarSettings))
	assert.True(t, c.Panels().Settings)
	assert.True(t, c.Sidebar(SidebarSetup))
	assert.True(t, c.Panels().EasySetup)
	assert.True(t, c.Sidebar(SidebarGX))
	assert.Equal(t, FocusGXControl, c.Focus())

	assert.True(t, c.Sidebar(SidebarHome))
	assert.Equal(t, Panels{}, c.Panels())
	assert.Equal(t, FocusStartPage, c.Focus())

	assert.False(t, c.Sidebar(SidebarHistory))
	assert.False(t, c.Sidebar(SidebarDownloads))
	assert.Len(t, SidebarItems(), 8)
}

func TestSearch(t *testing.T) {
	c, ft, store := newController(t)

	u, err := c.Search("hyper gx")
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/search?q=hyper+gx", u)
	assert.Equal(t, u, ft.reg.Active().URL)

	store.SetSearchEngine(settings.EngineBing)
	u, _ = c.Search("HyperGX")
	assert.Equal(t, "https://www.bing.com/search?q=HyperGX", u)

	u, _ = c.Search("example.com")
	assert.Equal(t, "https://example.com", u)

	before := ft.reg.Active().URL
	u, err = c.Search("   ")
	require.NoError(t, err)
	assert.Empty(t, u)
	assert.Equal(t, before, ft.reg.Active().URL)
}

func TestOpenSpeedDial(t *testing.T) {
	c, ft, _ := newController(t)

	u, err := c.OpenSpeedDial("github")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com", u)
	assert.Equal(t, "https://github.com", ft.reg.Active().URL)

	require.NoError(t, c.OpenSpeedDialExternal("notion"))
	assert.Equal(t, []string{"https://www.notion.so"}, ft.external)

	_, err = c.OpenSpeedDial("missing")
	assert.Error(t, err)
	assert.Error(t, c.OpenSpeedDialExternal("missing"))
}

func TestToggleAndLimits(t *testing.T) {
	c, _, store := newController(t)

	assert.True(t, c.Toggle("showWeather"))
	assert.True(t, store.State().ShowWeather)
	assert.True(t, c.Toggle("startPageDefault"))
	assert.False(t, store.State().StartPageDefault)
	assert.False(t, c.Toggle("nope"))

	c.StepLimit("cpu", 10)
	c.StepLimit("fps", 1)
	c.StepLimit("ram", -100)
	s := store.State()
	assert.Equal(t, 55, s.CPULimit)
	assert.Equal(t, 125, s.FPSLimit)
	assert.Equal(t, 0, s.RAMLimit)
	assert.False(t, c.StepLimit("gpu", 1))
}

func TestCycleTheme(t *testing.T) {
	c, _, store := newController(t)
	assert.Equal(t, settings.ThemeClassic, c.CycleTheme(1))
	assert.Equal(t, settings.ThemeNoir, c.CycleTheme(1))
	assert.Equal(t, settings.ThemeAurora, c.CycleTheme(1))
	assert.Equal(t, settings.ThemeNoir, c.CycleTheme(-1))
	assert.Equal(t, settings.ThemeNoir, store.State().Theme)
}

func TestAccentHue(t *testing.T) {
	assert.Equal(t, "#ee4f4f", AccentFromHue(0))
	assert.Equal(t, AccentFromHue(30), AccentFromHue(390))
	assert.Equal(t, AccentFromHue(330), AccentFromHue(-30))
	assert.InDelta(t, 200, HueFromAccent(AccentFromHue(200)), 1)
	assert.Equal(t, 0, HueFromAccent("not-a-color"))

	c, _, store := newController(t)
	c.SetAccentHue(120)
	assert.Equal(t, AccentFromHue(120), store.State().AccentColor)
}

func TestFrameInterval(t *testing.T) {
	assert.Zero(t, FrameInterval(settings.BackgroundImage, 60))
	assert.Zero(t, FrameInterval(settings.BackgroundVideo, 0))
	assert.Equal(t, 100*time.Millisecond, FrameInterval(settings.BackgroundVideo, 10))
	assert.Equal(t, time.Second/MaxTerminalFPS, FrameInterval(settings.BackgroundVideo, 240))
}

func TestGradient(t *testing.T) {
	stops := []string{"#000000", "#7c3aed", "#22d3ee"}

	g := Gradient(stops, 8, 0)
	require.Len(t, g, 8)
	assert.Equal(t, "#000000", g[0])

	shifted := Gradient(stops, 8, 1)
	assert.Equal(t, g[1:], shifted[:7])

	assert.Nil(t, Gradient(stops, 0, 0))
	assert.Nil(t, Gradient([]string{"bogus"}, 4, 0))
	assert.Equal(t, []string{"#7c3aed", "#7c3aed"}, Gradient([]string{"#7c3aed"}, 2, 3))
}

func TestCycleFocus(t *testing.T) {
	c, _, _ := newController(t)
	assert.Equal(t, FocusSpeedDial, c.CycleFocus(1))
	assert.Equal(t, FocusGXControl, c.CycleFocus(1))
	assert.Equal(t, FocusSidebar, c.CycleFocus(1))
	assert.Equal(t, FocusStartPage, c.CycleFocus(1))
	assert.Equal(t, FocusSidebar, c.CycleFocus(-1))

	c.SetFocus(FocusAddressBar)
	assert.Equal(t, FocusStartPage, c.CycleFocus(1))
}
