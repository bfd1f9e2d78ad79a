package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// overlayState tracks the active overlay and the ones beneath it
type overlayState struct {
	mode    types.OverlayMode
	overlay types.Overlay
	stack   []overlayStackEntry // Overlays hidden under the active one
}

// overlayStackEntry represents a saved overlay state
type overlayStackEntry struct {
	mode    types.OverlayMode
	overlay types.Overlay
}

// newOverlayState creates a new overlay state
func newOverlayState() *overlayState {
	return &overlayState{
		mode: types.OverlayModeNone,
	}
}

// pushOverlay saves current overlay and activates a new one
func (o *overlayState) pushOverlay(mode types.OverlayMode, overlay types.Overlay) {
	if o.mode != types.OverlayModeNone && o.overlay != nil {
		o.stack = append(o.stack, overlayStackEntry{
			mode:    o.mode,
			overlay: o.overlay,
		})
	}
	o.mode = mode
	o.overlay = overlay
}

// popOverlay returns to the previous overlay in the stack
// Returns true if there was a previous overlay, false if stack was empty
func (o *overlayState) popOverlay() bool {
	if len(o.stack) == 0 {
		o.deactivate()
		return false
	}

	lastIdx := len(o.stack) - 1
	prev := o.stack[lastIdx]
	o.stack = o.stack[:lastIdx]

	o.mode = prev.mode
	o.overlay = prev.overlay
	return true
}

// contains reports whether mode is active or stacked
func (o *overlayState) contains(mode types.OverlayMode) bool {
	if o.mode == mode && o.overlay != nil {
		return true
	}
	for _, e := range o.stack {
		if e.mode == mode {
			return true
		}
	}
	return false
}

// remove drops mode wherever it sits, restoring the entry below it when
// it was on top
func (o *overlayState) remove(mode types.OverlayMode) {
	if o.mode == mode {
		o.popOverlay()
		return
	}
	kept := o.stack[:0]
	for _, e := range o.stack {
		if e.mode != mode {
			kept = append(kept, e)
		}
	}
	o.stack = kept
}

// deactivate closes the current overlay
func (o *overlayState) deactivate() {
	o.mode = types.OverlayModeNone
	o.overlay = nil
}

// isActive returns whether any overlay is currently active
func (o *overlayState) isActive() bool {
	if o.mode == types.OverlayModeNone {
		return false
	}
	// A mode without an overlay would panic on render
	if o.overlay == nil {
		o.mode = types.OverlayModeNone
		return false
	}
	return true
}

// renderOverlay renders an overlay centered on a clean background
func renderOverlay(baseView string, overlay types.Overlay, width, height int) string {
	if overlay == nil {
		return baseView
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay.View(),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// renderDrawer docks an overlay against the right edge, keeping the
// left part of the base view visible
func renderDrawer(baseView string, overlay types.Overlay, width int) string {
	if overlay == nil {
		return baseView
	}
	view := overlay.View()
	drawer := strings.Split(view, "\n")
	keep := max(0, width-lipgloss.Width(view))

	baseLines := strings.Split(baseView, "\n")
	var result strings.Builder
	for i, line := range baseLines {
		if i < len(drawer) {
			left := truncateCells(line, keep)
			pad := keep - lipgloss.Width(left)
			if pad > 0 {
				left += strings.Repeat(" ", pad)
			}
			line = left + drawer[i]
		}
		result.WriteString(line)
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// renderToastOverlay renders a toast-style overlay at the bottom of the screen
// without affecting the base view's layout
func renderToastOverlay(baseView string, toastContent string) string {
	if toastContent == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(strings.TrimRight(toastContent, "\n"), "\n")

	// Just above the status bar
	startLine := len(baseLines) - 2 - len(toastLines)
	if startLine < 0 {
		startLine = 0
	}

	var result strings.Builder
	for i, line := range baseLines {
		toastLineIdx := i - startLine
		if toastLineIdx >= 0 && toastLineIdx < len(toastLines) {
			result.WriteString(strings.Repeat(" ", 2))
			result.WriteString(toastLines[toastLineIdx])
		} else {
			result.WriteString(line)
		}
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}
