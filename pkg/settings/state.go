package settings

// ThemeID names one of the preset themes.
type ThemeID string

const (
	ThemeAurora  ThemeID = "aurora"
	ThemeClassic ThemeID = "classic"
	ThemeNoir    ThemeID = "noir"
)

// SearchEngine selects the engine used by the start-page search box.
type SearchEngine string

const (
	EngineGoogle SearchEngine = "google"
	EngineBing   SearchEngine = "bing"
)

// BackgroundMode selects how the start page background is drawn.
type BackgroundMode string

const (
	BackgroundImage BackgroundMode = "image"
	BackgroundVideo BackgroundMode = "video"
)

// Resource slider bounds.
const (
	MaxCPULimit = 100
	MaxRAMLimit = 100
	MaxFPSLimit = 240
	FPSStep     = 5
)

// SpeedDialItem is one shortcut tile on the start page.
type SpeedDialItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// State is the full persisted settings record.
// Field names and JSON keys match the export format.
type State struct {
	Theme            ThemeID         `json:"theme"`
	AccentColor      string          `json:"accentColor"`
	ThemeSounds      bool            `json:"themeSounds"`
	ShowSuggestions  bool            `json:"showSuggestions"`
	ShowWeather      bool            `json:"showWeather"`
	ShowNews         bool            `json:"showNews"`
	SearchEngine     SearchEngine    `json:"searchEngine"`
	StartPageDefault bool            `json:"startPageDefault"`
	BackgroundMode   BackgroundMode  `json:"backgroundMode"`
	CPULimit         int             `json:"cpuLimit"`
	RAMLimit         int             `json:"ramLimit"`
	FPSLimit         int             `json:"fpsLimit"`
	SpeedDial        []SpeedDialItem `json:"speedDial"`
	Favorites        []string        `json:"favorites"`
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.SpeedDial = append([]SpeedDialItem(nil), s.SpeedDial...)
	out.Favorites = append([]string(nil), s.Favorites...)
	if out.SpeedDial == nil {
		out.SpeedDial = []SpeedDialItem{}
	}
	if out.Favorites == nil {
		out.Favorites = []string{}
	}
	return out
}

// DefaultAccent is the accent color of a fresh install.
const DefaultAccent = "#7c3aed"

// DefaultSpeedDial returns the tiles of a fresh install.
func DefaultSpeedDial() []SpeedDialItem {
	return []SpeedDialItem{
		{ID: "chatgpt", Title: "ChatGPT", URL: "https://chat.openai.com", Icon: "/assets/icons/chatgpt.svg"},
		{ID: "youtube", Title: "YouTube", URL: "https://www.youtube.com", Icon: "/assets/icons/youtube.svg"},
		{ID: "gmail", Title: "Gmail", URL: "https://mail.google.com", Icon: "/assets/icons/gmail.svg"},
		{ID: "discord", Title: "Discord", URL: "https://discord.com/app", Icon: "/assets/icons/discord.svg"},
		{ID: "netflix", Title: "Netflix", URL: "https://www.netflix.com", Icon: "/assets/icons/netflix.svg"},
		{ID: "twitch", Title: "Twitch", URL: "https://www.twitch.tv", Icon: "/assets/icons/twitch.svg"},
		{ID: "spotify", Title: "Spotify", URL: "https://open.spotify.com", Icon: "/assets/icons/spotify.svg"},
		{ID: "twitter", Title: "X", URL: "https://twitter.com", Icon: "/assets/icons/x.svg"},
		{ID: "amazon", Title: "Amazon", URL: "https://www.amazon.com", Icon: "/assets/icons/amazon.svg"},
		{ID: "reddit", Title: "Reddit", URL: "https://www.reddit.com", Icon: "/assets/icons/reddit.svg"},
		{ID: "github", Title: "GitHub", URL: "https://github.com", Icon: "/assets/icons/github.svg"},
		{ID: "notion", Title: "Notion", URL: "https://www.notion.so", Icon: "/assets/icons/notion.svg"},
	}
}

// Defaults returns the state of a fresh install.
func Defaults() State {
	return State{
		Theme:            ThemeAurora,
		AccentColor:      DefaultAccent,
		ThemeSounds:      false,
		ShowSuggestions:  true,
		ShowWeather:      false,
		ShowNews:         false,
		SearchEngine:     EngineGoogle,
		StartPageDefault: true,
		BackgroundMode:   BackgroundImage,
		CPULimit:         45,
		RAMLimit:         60,
		FPSLimit:         120,
		SpeedDial:        DefaultSpeedDial(),
		Favorites:        []string{},
	}
}

// ThemeDefinition describes a preset theme.
// Gradient holds the hex stops used to paint the start page background.
type ThemeDefinition struct {
	ID          ThemeID
	Name        string
	Description string
	Gradient    []string
}

var themePresets = []ThemeDefinition{
	{
		ID:          ThemeAurora,
		Name:        "Aurora",
		Description: "Polar glow with neon accents.",
		Gradient:    []string{"#a855f7", "#0ea5e9", "#22d3ee"},
	},
	{
		ID:          ThemeClassic,
		Name:        "Classic",
		Description: "Modern and readable balance.",
		Gradient:    []string{"#475569", "#334155", "#0f172a"},
	},
	{
		ID:          ThemeNoir,
		Name:        "Noir total",
		Description: "Maximum contrast and immersion.",
		Gradient:    []string{"#000000", "#020617", "#000000"},
	},
}

// Themes returns the preset themes in display order.
func Themes() []ThemeDefinition {
	out := make([]ThemeDefinition, len(themePresets))
	copy(out, themePresets)
	return out
}

// LookupTheme returns the preset for id, falling back to Aurora.
func LookupTheme(id ThemeID) ThemeDefinition {
	for _, t := range themePresets {
		if t.ID == id {
			return t
		}
	}
	return themePresets[0]
}

// Valid reports whether id names a preset theme.
func (id ThemeID) Valid() bool {
	switch id {
	case ThemeAurora, ThemeClassic, ThemeNoir:
		return true
	}
	return false
}

// Valid reports whether e is a supported engine.
func (e SearchEngine) Valid() bool {
	return e == EngineGoogle || e == EngineBing
}

// Valid reports whether m is a supported background mode.
func (m BackgroundMode) Valid() bool {
	return m == BackgroundImage || m == BackgroundVideo
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
