package shell

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a shell-level command reachable from a global shortcut.
type Action int

const (
	ActionNone Action = iota
	ActionNewTab
	ActionCloseTab
	ActionToggleEasySetup
	ActionFocusGXControl
	ActionOpenSettings
	ActionFocusAddressBar
	ActionBack
	ActionForward
	ActionReload
	ActionNextTab
	ActionPrevTab
	ActionHelp
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionNewTab:          "new-tab",
	ActionCloseTab:        "close-tab",
	ActionToggleEasySetup: "toggle-easy-setup",
	ActionFocusGXControl:  "focus-gx-control",
	ActionOpenSettings:    "open-settings",
	ActionFocusAddressBar: "focus-address-bar",
	ActionBack:            "back",
	ActionForward:         "forward",
	ActionReload:          "reload",
	ActionNextTab:         "next-tab",
	ActionPrevTab:         "prev-tab",
	ActionHelp:            "help",
	ActionQuit:            "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// KeyMap holds the global shortcut bindings.
type KeyMap struct {
	NewTab     key.Binding
	CloseTab   key.Binding
	EasySetup  key.Binding
	GXControl  key.Binding
	Settings   key.Binding
	AddressBar key.Binding
	Back       key.Binding
	Forward    key.Binding
	Reload     key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the stock bindings. Settings sits on ctrl+o and
// f2 because terminals do not deliver ctrl+comma.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NewTab:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "new tab")),
		CloseTab:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		EasySetup:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "easy setup")),
		GXControl:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "gx control")),
		Settings:   key.NewBinding(key.WithKeys("ctrl+o", "f2"), key.WithHelp("ctrl+o", "settings")),
		AddressBar: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "address bar")),
		Back:       key.NewBinding(key.WithKeys("alt+left"), key.WithHelp("alt+←", "back")),
		Forward:    key.NewBinding(key.WithKeys("alt+right"), key.WithHelp("alt+→", "forward")),
		Reload:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		NextTab:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous tab")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k KeyMap) bindings() []struct {
	b key.Binding
	a Action
} {
	return []struct {
		b key.Binding
		a Action
	}{
		{k.NewTab, ActionNewTab},
		{k.CloseTab, ActionCloseTab},
		{k.EasySetup, ActionToggleEasySetup},
		{k.GXControl, ActionFocusGXControl},
		{k.Settings, ActionOpenSettings},
		{k.AddressBar, ActionFocusAddressBar},
		{k.Back, ActionBack},
		{k.Forward, ActionForward},
		{k.Reload, ActionReload},
		{k.NextTab, ActionNextTab},
		{k.PrevTab, ActionPrevTab},
		{k.Help, ActionHelp},
		{k.Quit, ActionQuit},
	}
}

// Lookup maps a key press to its action, or ActionNone.
func (k KeyMap) Lookup(msg tea.KeyMsg) Action {
	for _, entry := range k.bindings() {
		if key.Matches(msg, entry.b) {
			return entry.a
		}
	}
	return ActionNone
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTab, k.CloseTab, k.AddressBar, k.EasySetup, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab},
		{k.AddressBar, k.Back, k.Forward, k.Reload},
		{k.EasySetup, k.GXControl, k.Settings, k.Help, k.Quit},
	}
}
