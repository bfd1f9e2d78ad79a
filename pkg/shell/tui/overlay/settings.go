package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// DefaultExportFile is the file name offered by "Export to file".
const DefaultExportFile = "hypergx-settings.json"

const previewLines = 8

// settingsItem represents a selectable row
type settingsItem struct {
	key         string
	displayName string
	itemType    itemType
}

// itemType defines the type of setting item
type itemType int

const (
	itemTypeToggle itemType = iota
	itemTypeChoice
	itemTypeText
	itemTypeAction
)

// settingsSection represents a section with its items
type settingsSection struct {
	title       string
	description string
	items       []settingsItem
}

// Item keys
const (
	itemStartPage  = "startPageDefault"
	itemEngine     = "searchEngine"
	itemFavorites  = "favorites"
	itemCopyExport = "copyExport"
	itemExportFile = "exportFile"
	itemImportClip = "importClipboard"
	itemImportFile = "importFile"
)

// SettingsOverlay is the Settings modal: start page, search engine,
// favorites, and snapshot import/export. Changes apply immediately.
type SettingsOverlay struct {
	ctrl   *shell.Controller
	width  int
	height int

	sections        []settingsSection
	selectedSection int
	selectedItem    int

	activeDialog *inputDialog
	status       string

	clipboardWrite func(string) error
	clipboardRead  func() (string, error)
	readFile       func(string) ([]byte, error)
	writeFile      func(string, []byte, os.FileMode) error
}

// NewSettingsOverlay creates the Settings modal.
func NewSettingsOverlay(ctrl *shell.Controller, width, height int) *SettingsOverlay {
	return &SettingsOverlay{
		ctrl:   ctrl,
		width:  width,
		height: height,
		sections: []settingsSection{
			{
				title:       "Start page",
				description: "Use HyperGX as the home page at launch.",
				items: []settingsItem{
					{key: itemStartPage, displayName: "Start page by default", itemType: itemTypeToggle},
					{key: itemEngine, displayName: "Search engine", itemType: itemTypeChoice},
				},
			},
			{
				title:       "Local data",
				description: "Favorites, speed-dial and themes are saved locally. Export to share a setup.",
				items: []settingsItem{
					{key: itemFavorites, displayName: "Favorites", itemType: itemTypeText},
				},
			},
			{
				title:       "Import / Export",
				description: "Snapshots are JSON.",
				items: []settingsItem{
					{key: itemCopyExport, displayName: "Copy export to clipboard", itemType: itemTypeAction},
					{key: itemExportFile, displayName: "Export to file…", itemType: itemTypeAction},
					{key: itemImportClip, displayName: "Import from clipboard", itemType: itemTypeAction},
					{key: itemImportFile, displayName: "Import from file…", itemType: itemTypeAction},
				},
			},
		},
		clipboardWrite: clipboard.WriteAll,
		clipboardRead:  clipboard.ReadAll,
		readFile:       os.ReadFile,
		writeFile:      os.WriteFile,
	}
}

// Update handles messages for the settings overlay
func (s *SettingsOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if s.activeDialog != nil {
		done, cmd := s.activeDialog.update(msg)
		if done {
			s.activeDialog = nil
		}
		return s, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return s.handleKeyPress(msg, actions)
	}
	return s, nil
}

func (s *SettingsOverlay) handleKeyPress(keyMsg tea.KeyMsg, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	switch keyMsg.String() {
	case keyEsc, keyCtrlC, "q":
		return nil, nil
	case keyUp, "k":
		s.navigateUp()
	case keyDown, "j":
		s.navigateDown()
	case keyTab:
		s.nextSection()
	case keyShiftTab:
		s.prevSection()
	case keyLeft, keyRight, "h", "l":
		s.cycleChoice()
	case keySpace, keyEnter:
		s.activate(actions)
	}
	return s, nil
}

func (s *SettingsOverlay) navigateUp() {
	if s.selectedItem > 0 {
		s.selectedItem--
	} else if s.selectedSection > 0 {
		s.selectedSection--
		s.selectedItem = len(s.sections[s.selectedSection].items) - 1
	}
}

func (s *SettingsOverlay) navigateDown() {
	if s.selectedItem < len(s.sections[s.selectedSection].items)-1 {
		s.selectedItem++
	} else if s.selectedSection < len(s.sections)-1 {
		s.selectedSection++
		s.selectedItem = 0
	}
}

func (s *SettingsOverlay) nextSection() {
	if s.selectedSection < len(s.sections)-1 {
		s.selectedSection++
		s.selectedItem = 0
	}
}

func (s *SettingsOverlay) prevSection() {
	if s.selectedSection > 0 {
		s.selectedSection--
		s.selectedItem = 0
	}
}

func (s *SettingsOverlay) current() settingsItem {
	return s.sections[s.selectedSection].items[s.selectedItem]
}

// cycleChoice flips the engine; there are only two.
func (s *SettingsOverlay) cycleChoice() {
	if s.current().key != itemEngine {
		return
	}
	store := s.ctrl.Settings()
	if store.State().SearchEngine == settings.EngineGoogle {
		store.SetSearchEngine(settings.EngineBing)
	} else {
		store.SetSearchEngine(settings.EngineGoogle)
	}
}

// activate runs the selected row.
func (s *SettingsOverlay) activate(actions types.ActionHandler) {
	item := s.current()
	switch item.key {
	case itemStartPage:
		s.ctrl.Toggle(itemStartPage)
	case itemEngine:
		s.cycleChoice()
	case itemFavorites:
		s.showFavoritesDialog()
	case itemCopyExport:
		s.copyExport(actions)
	case itemExportFile:
		s.showExportDialog(actions)
	case itemImportClip:
		text, err := s.clipboardRead()
		if err != nil {
			s.report(actions, "Clipboard unavailable", err)
			return
		}
		s.importText(actions, text)
	case itemImportFile:
		s.showImportDialog(actions)
	}
}

func (s *SettingsOverlay) copyExport(actions types.ActionHandler) {
	data, err := s.ctrl.Settings().Export()
	if err != nil {
		s.report(actions, "Export failed", err)
		return
	}
	if err := s.clipboardWrite(data); err != nil {
		s.report(actions, "Clipboard unavailable", err)
		return
	}
	s.status = "Export copied ✔"
	actions.ShowToast("Settings copied to clipboard", "", "📋", false)
}

func (s *SettingsOverlay) importText(actions types.ActionHandler, text string) {
	if err := s.ctrl.Settings().Import(text); err != nil {
		s.report(actions, "Import failed", err)
		return
	}
	s.status = "Import succeeded ✨"
	actions.ShowToast("Settings imported", "", "✨", false)
}

func (s *SettingsOverlay) report(actions types.ActionHandler, title string, err error) {
	details := err.Error()
	if errors.Is(err, settings.ErrInvalidFormat) {
		details = "The snapshot is not valid HyperGX settings JSON."
	}
	s.status = title
	actions.ShowToast(title, details, "✗", true)
}

func (s *SettingsOverlay) showFavoritesDialog() {
	current := strings.Join(s.ctrl.Settings().State().Favorites, ", ")
	s.activeDialog = newInputDialog("Favorites", []inputField{
		newInputField("Favorites (comma separated)", "favorites", current, "https://hypergx.app, https://openai.com", false),
	}, func(vals map[string]string) error {
		s.ctrl.Settings().SetFavorites(strings.Split(vals["favorites"], ","))
		s.status = "Favorites updated"
		return nil
	})
}

func (s *SettingsOverlay) showExportDialog(actions types.ActionHandler) {
	s.activeDialog = newInputDialog("Export settings", []inputField{
		newInputField("File", "path", DefaultExportFile, DefaultExportFile, true),
	}, func(vals map[string]string) error {
		data, err := s.ctrl.Settings().Export()
		if err != nil {
			return err
		}
		if err := s.writeFile(vals["path"], []byte(data+"\n"), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", vals["path"], err)
		}
		s.status = "Export done ✔"
		actions.ShowToast("Settings exported", vals["path"], "💾", false)
		return nil
	})
}

func (s *SettingsOverlay) showImportDialog(actions types.ActionHandler) {
	s.activeDialog = newInputDialog("Import settings", []inputField{
		newInputField("File", "path", "", DefaultExportFile, true),
	}, func(vals map[string]string) error {
		data, err := s.readFile(vals["path"])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", vals["path"], err)
		}
		if err := s.ctrl.Settings().Import(string(data)); err != nil {
			return err
		}
		s.status = "Import succeeded ✨"
		actions.ShowToast("Settings imported", vals["path"], "✨", false)
		return nil
	})
}

// View renders the settings overlay
func (s *SettingsOverlay) View() string {
	boxWidth := s.boxWidth()
	if s.activeDialog != nil {
		return s.activeDialog.view(boxWidth)
	}

	state := s.ctrl.Settings().State()
	var content strings.Builder
	content.WriteString(types.OverlayTitleStyle.Render("HyperGX Settings"))
	content.WriteString("\n")
	content.WriteString(types.OverlaySubtitleStyle.Render(s.buildHelpText()))
	content.WriteString("\n\n")

	for i, section := range s.sections {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(s.renderSection(section, i == s.selectedSection, state))
	}

	content.WriteString("\n")
	content.WriteString(types.SectionTitleStyle.Render("Quick export"))
	content.WriteString("\n")
	content.WriteString(s.renderPreview())

	if s.status != "" {
		content.WriteString("\n\n")
		content.WriteString(lipgloss.NewStyle().Foreground(types.MintGreen).Render(s.status))
	}

	return types.CreateOverlayContainerStyle(boxWidth).Render(content.String())
}

func (s *SettingsOverlay) boxWidth() int {
	w := s.width - 10
	if w > 90 {
		w = 90
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (s *SettingsOverlay) buildHelpText() string {
	shortcuts := []string{"↑↓/jk: Navigate", "Tab: Section"}
	switch s.current().itemType {
	case itemTypeToggle:
		shortcuts = append(shortcuts, "Space/Enter: Toggle")
	case itemTypeChoice:
		shortcuts = append(shortcuts, "←→/Enter: Change")
	case itemTypeText:
		shortcuts = append(shortcuts, "Enter: Edit")
	case itemTypeAction:
		shortcuts = append(shortcuts, "Enter: Run")
	}
	shortcuts = append(shortcuts, "Esc/q: Close")
	return strings.Join(shortcuts, " • ")
}

func (s *SettingsOverlay) renderSection(section settingsSection, isSelected bool, state settings.State) string {
	var out strings.Builder

	titleStyle := types.SectionTitleStyle
	if isSelected {
		titleStyle = titleStyle.Foreground(types.NeonViolet)
	}
	out.WriteString(titleStyle.Render("▸ " + section.title))
	out.WriteString("\n")
	if section.description != "" {
		out.WriteString("  ")
		out.WriteString(types.OverlayHelpStyle.Render(section.description))
		out.WriteString("\n")
	}

	for i, item := range section.items {
		out.WriteString(s.renderItem(item, isSelected && i == s.selectedItem, state))
	}
	return out.String()
}

func (s *SettingsOverlay) renderItem(item settingsItem, isFocused bool, state settings.State) string {
	prefix := "  "
	labelStyle := lipgloss.NewStyle().Foreground(types.MutedGray)
	if isFocused {
		prefix = "➜ "
		labelStyle = labelStyle.Foreground(types.BrightWhite).Bold(true)
	}
	valueStyle := lipgloss.NewStyle().Foreground(types.MutedGray)

	var line string
	switch item.itemType {
	case itemTypeToggle:
		line = fmt.Sprintf("%s %s", checkbox(state.StartPageDefault), labelStyle.Render(item.displayName))
	case itemTypeChoice:
		line = fmt.Sprintf("%s: %s", labelStyle.Render(item.displayName), engineChoice(state.SearchEngine))
	case itemTypeText:
		value := strings.Join(state.Favorites, ", ")
		if value == "" {
			value = "(none)"
		}
		line = fmt.Sprintf("%s: %s", labelStyle.Render(item.displayName), valueStyle.Render(value))
	case itemTypeAction:
		line = "• " + labelStyle.Render(item.displayName)
	}
	return prefix + line + "\n"
}

func checkbox(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(types.MintGreen).Render("[x]")
	}
	return "[ ]"
}

func engineChoice(current settings.SearchEngine) string {
	on := lipgloss.NewStyle().Foreground(types.NeonViolet).Bold(true)
	off := lipgloss.NewStyle().Foreground(types.MutedGray)
	google, bing := off.Render(" Google "), off.Render(" Bing ")
	if current == settings.EngineBing {
		bing = on.Render("[Bing]")
	} else {
		google = on.Render("[Google]")
	}
	return google + " " + bing
}

func (s *SettingsOverlay) renderPreview() string {
	data, err := s.ctrl.Settings().Export()
	if err != nil {
		return types.OverlayHelpStyle.Render("(export unavailable)")
	}
	lines := strings.Split(highlightJSON(data), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], types.OverlayHelpStyle.Render("…"))
	}
	return strings.Join(lines, "\n")
}

// highlightJSON colors a JSON document for the terminal, returning it
// unchanged if highlighting fails.
func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// Focused returns whether this overlay should handle input
func (s *SettingsOverlay) Focused() bool { return true }

// Width returns the overlay width
func (s *SettingsOverlay) Width() int { return s.width }

// Height returns the overlay height
func (s *SettingsOverlay) Height() int { return s.height }
