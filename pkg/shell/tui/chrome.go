package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/tabs"
	"github.com/entrhq/hypergx/pkg/weburl"
)

// Layout rows of the window chrome, top to bottom.
const (
	tabBarRow     = 0
	addressBarRow = 1
	bodyTop       = 3 // below the gradient band

	sidebarWidth   = 16
	maxTabTitle    = 22
	newTabButton   = " + "
	closeTabButton = "×"
)

// tabSpan is the horizontal extent of one tab in the tab bar.
type tabSpan struct {
	id         string
	start, end int // [start, end) in cells
	closeAt    int // cell of the close button
}

// tabLabel is the text of a tab without styling.
func tabLabel(t tabs.Record) string {
	title := t.Title
	if title == "" {
		title = weburl.Display(t.URL)
	}
	return runewidth.Truncate(title, maxTabTitle, "…")
}

// tabSpans lays out the tab bar. Each tab renders as " label × " padded
// by one cell on both sides; the new-tab button follows the last tab.
func tabSpans(records []tabs.Record) ([]tabSpan, int) {
	spans := make([]tabSpan, 0, len(records))
	x := 0
	for _, t := range records {
		w := runewidth.StringWidth(tabLabel(t)) + 4 // padding, space, ×
		spans = append(spans, tabSpan{id: t.ID, start: x, end: x + w, closeAt: x + w - 2})
		x += w
	}
	return spans, x
}

// renderTabBar draws the tabs and the new-tab button.
func (m *model) renderTabBar(accent lipgloss.Color) string {
	var b strings.Builder
	for _, t := range m.tabs {
		label := tabLabel(t) + " " + closeTabButton
		if t.ID == m.activeID {
			b.WriteString(activeTabStyle.Foreground(accent).Underline(true).Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
	}
	b.WriteString(tipsStyle.Render(newTabButton))
	return truncateCells(b.String(), m.width)
}

// renderAddressBar draws the navigation buttons and the active URL.
func (m *model) renderAddressBar(accent lipgloss.Color) string {
	nav := tipsStyle.Render("← → ⟳ ")
	var field string
	if m.focus == shell.FocusAddressBar {
		field = lipgloss.NewStyle().Foreground(types.BrightWhite).Render(m.address.View())
		nav = lipgloss.NewStyle().Foreground(accent).Render("← → ⟳ ")
	} else {
		u := m.ActiveURL()
		field = cardBodyStyle.Render(weburl.Display(u))
		if strings.HasPrefix(u, "https://") {
			field = tipsStyle.Render("🔒 ") + field
		}
	}
	return truncateCells(nav+field, m.width)
}

// renderBand paints one row of the theme gradient, shifted by the
// animation frame when the background is animated.
func (m *model) renderBand(glyph string) string {
	stops := settings.LookupTheme(m.state.Theme).Gradient
	var b strings.Builder
	for _, c := range shell.Gradient(stops, m.width, m.frame) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(glyph))
	}
	return b.String()
}

// sidebarLabels are the rail entries' icons and titles.
var sidebarLabels = map[shell.SidebarItem]struct{ icon, title string }{
	shell.SidebarHome:      {"⌂", "Home"},
	shell.SidebarFavorites: {"★", "Favorites"},
	shell.SidebarHistory:   {"◷", "History"},
	shell.SidebarDownloads: {"⇣", "Downloads"},
	shell.SidebarSettings:  {"⚙", "Settings"},
	shell.SidebarGX:        {"◈", "GX Control"},
	shell.SidebarSetup:     {"✦", "Easy Setup"},
	shell.SidebarAbout:     {"?", "About"},
}

// renderSidebar draws the left rail: the logo row, then one row per item.
func (m *model) renderSidebar(height int, accent lipgloss.Color) string {
	lines := []string{logoStyle.Foreground(accent).Render("HyperGX")}
	for i, item := range shell.SidebarItems() {
		style := tipsStyle
		prefix := "  "
		if m.focus == shell.FocusSidebar && i == m.sidebarIndex {
			style = lipgloss.NewStyle().Foreground(accent).Bold(true)
			prefix = "➜ "
		}
		label := sidebarLabels[item]
		lines = append(lines, prefix+style.Render(label.icon+" "+label.title))
	}
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// sidebarItemAt maps a screen row to a rail entry.
func sidebarItemAt(y int) (shell.SidebarItem, bool) {
	idx := y - bodyTop - 1 // logo row
	items := shell.SidebarItems()
	if idx < 0 || idx >= len(items) {
		return "", false
	}
	return items[idx], true
}

// renderStatusBar draws the focus hint and the short help.
func (m *model) renderStatusBar() string {
	left := m.statusLeft()
	return statusBarStyle.Width(m.width).Render(left + "  " + m.help.View(m.ctrl.Keys()))
}

func (m *model) statusLeft() string {
	return fmt.Sprintf("%d tab(s) • %s", len(m.tabs), m.focus)
}

// truncateCells cuts a styled line to width cells.
func truncateCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
