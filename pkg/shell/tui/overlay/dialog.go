package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// inputDialog is a small form of labelled text fields.
type inputDialog struct {
	title         string
	fields        []inputField
	selectedField int
	errorMsg      string
	onConfirm     func(values map[string]string) error
}

// inputField represents a single input field in a dialog
type inputField struct {
	label    string
	key      string
	required bool
	input    textinput.Model
}

func newInputField(label, key, value, placeholder string, required bool) inputField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 2048
	ti.Width = 56
	ti.SetValue(value)
	return inputField{label: label, key: key, required: required, input: ti}
}

func newInputDialog(title string, fields []inputField, onConfirm func(map[string]string) error) *inputDialog {
	d := &inputDialog{title: title, fields: fields, onConfirm: onConfirm}
	d.focus(0)
	return d
}

func (d *inputDialog) focus(i int) {
	for j := range d.fields {
		if j == i {
			d.fields[j].input.Focus()
			d.fields[j].input.CursorEnd()
		} else {
			d.fields[j].input.Blur()
		}
	}
	d.selectedField = i
}

func (d *inputDialog) values() map[string]string {
	out := make(map[string]string, len(d.fields))
	for _, f := range d.fields {
		out[f.key] = strings.TrimSpace(f.input.Value())
	}
	return out
}

// update feeds msg to the dialog. done is true when the dialog should be
// dismissed, either confirmed or cancelled.
func (d *inputDialog) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			return true, nil
		case keyTab, keyDown:
			d.focus((d.selectedField + 1) % len(d.fields))
			return false, nil
		case keyShiftTab, keyUp:
			d.focus((d.selectedField - 1 + len(d.fields)) % len(d.fields))
			return false, nil
		case keyEnter:
			return d.confirm(), nil
		}
	}
	d.fields[d.selectedField].input, cmd = d.fields[d.selectedField].input.Update(msg)
	return false, cmd
}

func (d *inputDialog) confirm() bool {
	vals := d.values()
	for _, f := range d.fields {
		if f.required && vals[f.key] == "" {
			d.errorMsg = f.label + " is required"
			return false
		}
	}
	if d.onConfirm != nil {
		if err := d.onConfirm(vals); err != nil {
			d.errorMsg = err.Error()
			return false
		}
	}
	return true
}

func (d *inputDialog) view(width int) string {
	var b strings.Builder
	b.WriteString(types.OverlayTitleStyle.Render(d.title))
	b.WriteString("\n\n")

	for i, f := range d.fields {
		labelStyle := lipgloss.NewStyle().Foreground(types.MutedGray)
		if i == d.selectedField {
			labelStyle = labelStyle.Foreground(types.BrightWhite).Bold(true)
		}
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n\n")
	}

	if d.errorMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(types.SalmonPink).Render("✗ " + d.errorMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(types.OverlayHelpStyle.Render("Tab: Next field • Enter: Confirm • Esc: Cancel"))

	return types.CreateOverlayContainerStyle(width).Render(b.String())
}
