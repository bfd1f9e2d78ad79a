package overlay

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// scrollPanel is a titled, scrollable block of read-only text with a
// footer hint. Read-only overlays embed it.
type scrollPanel struct {
	viewport viewport.Model
	title    string
	hint     string
}

func newScrollPanel(title, hint, content string, width, height int) *scrollPanel {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()
	vp.SetContent(content)
	return &scrollPanel{viewport: vp, title: title, hint: hint}
}

// update scrolls on arrow and page keys and reports whether the panel
// should close (esc or ctrl+c).
func (p *scrollPanel) update(msg tea.Msg) (closed bool, cmd tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch k.String() {
	case keyEsc, keyCtrlC:
		return true, nil
	}
	switch k.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		p.viewport, cmd = p.viewport.Update(msg)
	}
	return false, cmd
}

func (p *scrollPanel) view() string {
	footer := p.hint
	if !p.viewport.AtTop() || !p.viewport.AtBottom() {
		footer = fmt.Sprintf("%s · %3.f%%", p.hint, p.viewport.ScrollPercent()*100)
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		types.OverlayTitleStyle.Render(p.title),
		p.viewport.View(),
		types.OverlayHelpStyle.Render(footer),
	)
	return types.CreateOverlayContainerStyle(p.viewport.Width).Render(content)
}
