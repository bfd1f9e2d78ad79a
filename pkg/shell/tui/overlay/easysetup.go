package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

const (
	drawerWidth = 56
	hueStep     = 10
	sliderWidth = 36
)

type setupRowKind int

const (
	rowTheme setupRowKind = iota
	rowAccent
	rowToggle
	rowBackground
)

type setupRow struct {
	kind    setupRowKind
	section string
	label   string
	hint    string
	theme   settings.ThemeID
	field   string
}

// EasySetupOverlay is the Easy Setup drawer: theme presets, accent hue,
// ambiance and start-page modules. Every change is written to the store
// as it is made.
type EasySetupOverlay struct {
	ctrl     *shell.Controller
	width    int
	height   int
	rows     []setupRow
	selected int
}

// NewEasySetupOverlay creates the drawer.
func NewEasySetupOverlay(ctrl *shell.Controller, width, height int) *EasySetupOverlay {
	var rows []setupRow
	for _, t := range settings.Themes() {
		rows = append(rows, setupRow{kind: rowTheme, section: "Themes", label: t.Name, hint: t.Description, theme: t.ID})
	}
	rows = append(rows,
		setupRow{kind: rowAccent, section: "Accent color", label: "Hue"},
		setupRow{kind: rowToggle, section: "Ambiance", label: "Theme sounds", hint: "Futuristic beeps and chimes", field: "themeSounds"},
		setupRow{kind: rowBackground, section: "Ambiance", label: "Dynamic background", hint: "Static image or looping video"},
		setupRow{kind: rowToggle, section: "Modules", label: "Suggestions", field: "showSuggestions"},
		setupRow{kind: rowToggle, section: "Modules", label: "Weather", field: "showWeather"},
		setupRow{kind: rowToggle, section: "Modules", label: "News", field: "showNews"},
	)
	return &EasySetupOverlay{ctrl: ctrl, width: width, height: height, rows: rows}
}

// Update handles messages for the drawer
func (e *EasySetupOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case keyEsc, keyCtrlC, "q", "ctrl+e":
			return nil, nil
		case keyUp, "k", keyShiftTab:
			e.selected = (e.selected - 1 + len(e.rows)) % len(e.rows)
		case keyDown, "j", keyTab:
			e.selected = (e.selected + 1) % len(e.rows)
		case keyLeft, "h":
			e.adjust(-1)
		case keyRight, "l":
			e.adjust(1)
		case keySpace, keyEnter:
			e.activate()
		}
	}
	return e, nil
}

// Selected returns the label of the focused row.
func (e *EasySetupOverlay) Selected() string {
	return e.rows[e.selected].label
}

func (e *EasySetupOverlay) adjust(delta int) {
	row := e.rows[e.selected]
	store := e.ctrl.Settings()
	switch row.kind {
	case rowAccent:
		hue := shell.HueFromAccent(store.State().AccentColor) + delta*hueStep
		e.ctrl.SetAccentHue(float64(hue))
	case rowBackground:
		e.flipBackground()
	case rowTheme:
		e.ctrl.CycleTheme(delta)
	}
}

func (e *EasySetupOverlay) activate() {
	row := e.rows[e.selected]
	switch row.kind {
	case rowTheme:
		e.ctrl.Settings().SetTheme(row.theme)
	case rowToggle:
		e.ctrl.Toggle(row.field)
	case rowBackground:
		e.flipBackground()
	case rowAccent:
		e.adjust(1)
	}
}

func (e *EasySetupOverlay) flipBackground() {
	store := e.ctrl.Settings()
	if store.State().BackgroundMode == settings.BackgroundVideo {
		store.SetBackgroundMode(settings.BackgroundImage)
	} else {
		store.SetBackgroundMode(settings.BackgroundVideo)
	}
}

// View renders the drawer docked to the right edge
func (e *EasySetupOverlay) View() string {
	state := e.ctrl.Settings().State()
	accent := types.AccentColor(state.AccentColor)

	var b strings.Builder
	b.WriteString(types.OverlayTitleStyle.Foreground(accent).Render("🎨 Easy Setup"))
	b.WriteString("\n")
	b.WriteString(types.OverlayHelpStyle.Render("↑↓: Move • ←→: Adjust • Enter: Select • Esc: Close"))
	b.WriteString("\n")

	section := ""
	for i, row := range e.rows {
		if row.section != section {
			section = row.section
			b.WriteString("\n")
			b.WriteString(types.SectionTitleStyle.Render(section))
			b.WriteString("\n")
		}
		b.WriteString(e.renderRow(row, i == e.selected, state, accent))
		b.WriteString("\n")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(drawerWidth)
	return box.Render(b.String())
}

func (e *EasySetupOverlay) renderRow(row setupRow, focused bool, state settings.State, accent lipgloss.Color) string {
	prefix := "  "
	label := lipgloss.NewStyle().Foreground(types.MutedGray)
	if focused {
		prefix = "➜ "
		label = label.Foreground(types.BrightWhite).Bold(true)
	}

	var line string
	switch row.kind {
	case rowTheme:
		mark := "○"
		if state.Theme == row.theme {
			mark = lipgloss.NewStyle().Foreground(accent).Render("●")
		}
		def := settings.LookupTheme(row.theme)
		line = fmt.Sprintf("%s %s %s", mark, label.Render(row.label), swatch(def.Gradient, 8))
		if row.hint != "" {
			line += "\n    " + types.OverlayHelpStyle.Render(row.hint)
		}
	case rowAccent:
		line = fmt.Sprintf("%s %s\n    %s", label.Render(row.label), state.AccentColor,
			swatch([]string{"#6366f1", state.AccentColor, "#22d3ee"}, sliderWidth))
	case rowToggle:
		line = fmt.Sprintf("%s %s", checkbox(toggleValue(state, row.field)), label.Render(row.label))
		if row.hint != "" {
			line += "  " + types.OverlayHelpStyle.Render(row.hint)
		}
	case rowBackground:
		image, video := " Image ", " Video "
		on := lipgloss.NewStyle().Foreground(accent).Bold(true)
		if state.BackgroundMode == settings.BackgroundVideo {
			video = on.Render("[Video]")
		} else {
			image = on.Render("[Image]")
		}
		line = fmt.Sprintf("%s: %s %s", label.Render(row.label), image, video)
	}
	return prefix + line
}

func toggleValue(state settings.State, field string) bool {
	switch field {
	case "themeSounds":
		return state.ThemeSounds
	case "showSuggestions":
		return state.ShowSuggestions
	case "showWeather":
		return state.ShowWeather
	case "showNews":
		return state.ShowNews
	}
	return false
}

// swatch draws a horizontal color ramp through stops.
func swatch(stops []string, width int) string {
	var b strings.Builder
	for _, c := range shell.Gradient(stops, width, 0) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("█"))
	}
	return b.String()
}

// Focused returns whether this overlay should handle input
func (e *EasySetupOverlay) Focused() bool { return true }

// Width returns the overlay width
func (e *EasySetupOverlay) Width() int { return e.width }

// Height returns the overlay height
func (e *EasySetupOverlay) Height() int { return e.height }
