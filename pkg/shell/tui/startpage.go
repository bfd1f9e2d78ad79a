package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
	"github.com/entrhq/hypergx/pkg/weburl"
)

const (
	tileWidth  = 20 // including border
	tileHeight = 4
	chromeRows = 5 // tab bar, address bar, two bands, status bar
)

// moduleCards are the start-page info cards, keyed by the setting that
// shows them.
var moduleCards = []struct {
	field string
	title string
	lines []string
}{
	{"showSuggestions", "Suggestions", []string{
		"🎮 Try the latest indie cyberpunk demo tonight.",
		"🎧 Neon Chill playlist updated with fresh synthwave.",
		"🧠 Boost focus: set the GX Control CPU limiter to 60%.",
	}},
	{"showWeather", "Weather", []string{
		"🌌 Neo-Paris · 12°C · Neon haze.",
		"💨 Wind: 8km/h north-east.",
		"💡 Tip: switch on the video background for contrast.",
	}},
	{"showNews", "News", []string{
		"🚀 HyperGX 0.1.0 unveils modular browsing.",
		"🛰️ The Aurora satellite streams auroras in 8K.",
		"🔧 Patch notes: JSON import/export stabilised.",
	}},
}

func (m *model) contentWidth() int {
	return max(20, m.width-sidebarWidth-1)
}

// dialColumns is the number of speed-dial tiles per grid row.
func (m *model) dialColumns() int {
	return max(1, (m.contentWidth()-4)/tileWidth)
}

// layout sizes the components for the window and rebuilds the start
// page. With reveal set it scrolls the focused section into view.
func (m *model) layout() {
	if !m.ready {
		return
	}
	cw := m.contentWidth()
	m.viewport.Width = cw
	m.viewport.Height = max(1, m.height-chromeRows)
	m.search.Width = max(10, cw-24)
	m.address.Width = max(10, m.width-12)
	m.help.Width = max(0, m.width-lipgloss.Width(m.statusLeft())-4)

	m.viewport.SetContent(m.renderStartPage(cw))

	if m.reveal {
		m.reveal = false
		top := m.sectionTop[m.focus]
		if m.focus == shell.FocusSpeedDial {
			top += 1 + (m.dialIndex/m.dialColumns())*tileHeight
		}
		if top < m.viewport.YOffset || top >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(top)
		}
	}
}

// renderStartPage stacks the start-page sections and records where each
// focusable one begins.
func (m *model) renderStartPage(width int) string {
	accent := types.AccentColor(m.state.AccentColor)
	sections := []struct {
		focus shell.Focus
		view  string
	}{
		{shell.FocusStartPage, m.renderHero(width, accent)},
		{shell.FocusSpeedDial, m.renderSpeedDial(width, accent)},
		{shell.FocusGXControl, m.renderGXControl(width, accent)},
	}

	var parts []string
	line := 0
	for _, s := range sections {
		m.sectionTop[s.focus] = line
		parts = append(parts, s.view)
		line += lipgloss.Height(s.view)
	}
	if modules := m.renderModules(width); modules != "" {
		parts = append(parts, modules)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHero draws the welcome card with the engine switch and the
// search box.
func (m *model) renderHero(width int, accent lipgloss.Color) string {
	focused := m.focus == shell.FocusStartPage

	title := cardTitleStyle.Render("Explore the neon flow")
	subtitle := tipsStyle.Render("HyperGX brings your creative worlds together in one hub.")
	buttons := tipsStyle.Render("ctrl+o settings • ctrl+e easy setup")

	engines := make([]string, 0, 2)
	for _, e := range []struct {
		id    settings.SearchEngine
		label string
	}{{settings.EngineGoogle, "Google"}, {settings.EngineBing, "Bing"}} {
		if m.state.SearchEngine == e.id {
			engines = append(engines, lipgloss.NewStyle().Foreground(accent).Bold(true).Render("["+e.label+"]"))
		} else {
			engines = append(engines, tipsStyle.Render(" "+e.label+" "))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#1E293B")).
		Padding(0, 1).
		Width(width - 8)
	if focused {
		box = box.BorderForeground(accent)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		strings.Join(engines, " ")+"  "+buttons,
		box.Render(m.search.View()+tipsStyle.Render("  ⏎ Go")),
	)
	return cardStyle(width-2, focused, accent).Render(body)
}

// renderSpeedDial draws the tile grid.
func (m *model) renderSpeedDial(width int, accent lipgloss.Color) string {
	focused := m.focus == shell.FocusSpeedDial
	items := m.state.SpeedDial
	cols := m.dialColumns()

	header := cardTitleStyle.Render("Speed Dial")
	if focused {
		header += tipsStyle.Render("  enter open • o system browser • a add • d remove • shift+←→ move")
	}

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		var row []string
		for i := start; i < end; i++ {
			row = append(row, m.renderTile(items[i], focused && i == m.dialIndex, accent))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	if len(items) == 0 {
		rows = append(rows, tipsStyle.Render("No tiles yet. Press a to add a site."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...)
	return cardStyle(width-2, focused, accent).Render(body)
}

func (m *model) renderTile(item settings.SpeedDialItem, selected bool, accent lipgloss.Color) string {
	border := lipgloss.Color("#334155")
	title := cardTitleStyle
	if selected {
		border = accent
		title = title.Foreground(accent)
	}
	inner := tileWidth - 4
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(tileWidth - 2).
		Render(truncateCells(title.Render(item.Title), inner) + "\n" +
			truncateCells(tipsStyle.Render(weburl.Host(item.URL)), inner))
}

// renderGXControl draws the resource limit sliders.
func (m *model) renderGXControl(width int, accent lipgloss.Color) string {
	focused := m.focus == shell.FocusGXControl
	lines := []string{
		cardTitleStyle.Render("GX Control"),
		tipsStyle.Render("Adjust the limits to simulate performance."),
	}
	barWidth := max(10, width-30)
	values := map[string]int{"cpu": m.state.CPULimit, "ram": m.state.RAMLimit, "fps": m.state.FPSLimit}
	for i, s := range gxSliders {
		v := values[s.id]
		unit := "%"
		if s.id == "fps" {
			unit = " fps"
		}
		prefix := "  "
		label := cardBodyStyle
		if focused && i == m.gxIndex {
			prefix = "➜ "
			label = label.Foreground(accent).Bold(true)
		}
		filled := min(barWidth, barWidth*v/s.max)
		bar := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("━", filled)) +
			lipgloss.NewStyle().Foreground(lipgloss.Color("#1E293B")).Render(strings.Repeat("─", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%s%s %s %s", prefix, label.Render(fmt.Sprintf("%-4s", s.label)), bar, fmt.Sprintf("%d%s", v, unit)))
	}
	return cardStyle(width-2, focused, accent).Render(strings.Join(lines, "\n"))
}

// renderModules draws the enabled info cards side by side.
func (m *model) renderModules(width int) string {
	var enabled []int
	for i, c := range moduleCards {
		if moduleEnabled(m.state, c.field) {
			enabled = append(enabled, i)
		}
	}
	if len(enabled) == 0 {
		return ""
	}
	cardWidth := max(20, (width-2)/len(enabled)-2)
	var views []string
	for _, i := range enabled {
		c := moduleCards[i]
		body := cardTitleStyle.Render(c.title) + "\n" + cardBodyStyle.Render(strings.Join(c.lines, "\n"))
		views = append(views, cardStyle(cardWidth, false, "").Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func moduleEnabled(s settings.State, field string) bool {
	switch field {
	case "showSuggestions":
		return s.ShowSuggestions
	case "showWeather":
		return s.ShowWeather
	case "showNews":
		return s.ShowNews
	}
	return false
}
