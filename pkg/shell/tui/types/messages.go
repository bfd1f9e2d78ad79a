package types

import (
	"time"

	"github.com/entrhq/hypergx/pkg/settings"
)

// ToastNotification represents a temporary notification message
type ToastNotification struct {
	Active    bool
	Message   string
	Details   string
	Icon      string
	IsError   bool
	ShowUntil time.Time
}

// ToastMsg is a message type for showing toast notifications
type ToastMsg struct {
	Message string
	Details string
	Icon    string
	IsError bool
}

// TabsChangedMsg is sent when the tab registry changed outside Update,
// typically a host event folded in by a pump goroutine.
type TabsChangedMsg struct{}

// SettingsChangedMsg carries the settings state after a mutation.
type SettingsChangedMsg struct {
	State settings.State
}

// FrameMsg advances the animated background.
type FrameMsg struct {
	Time time.Time
}

// ClipboardMsg reports the result of a clipboard read for an import.
type ClipboardMsg struct {
	Text string
	Err  error
}
