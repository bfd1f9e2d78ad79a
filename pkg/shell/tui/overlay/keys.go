package overlay

const (
	keyEsc      = "esc"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keyLeft     = "left"
	keyRight    = "right"
	keySpace    = " "
)
