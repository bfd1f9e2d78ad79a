package types

// OverlayMode represents the current overlay state
type OverlayMode int

const (
	// OverlayModeNone indicates no overlay is active
	OverlayModeNone OverlayMode = iota
	// OverlayModeHelp shows the shortcut reference
	OverlayModeHelp
	// OverlayModeSettings shows the settings modal
	OverlayModeSettings
	// OverlayModeEasySetup shows the Easy Setup drawer
	OverlayModeEasySetup
	// OverlayModeAddTile shows the speed-dial add form
	OverlayModeAddTile
)

func (m OverlayMode) String() string {
	switch m {
	case OverlayModeHelp:
		return "help"
	case OverlayModeSettings:
		return "settings"
	case OverlayModeEasySetup:
		return "easy-setup"
	case OverlayModeAddTile:
		return "add-tile"
	default:
		return "none"
	}
}
