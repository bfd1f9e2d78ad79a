package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidFormat is returned by Import when the text is not a settings snapshot.
var ErrInvalidFormat = errors.New("invalid settings format")

// snapshot is the import shape: every field is optional.
type snapshot struct {
	Theme            *ThemeID         `json:"theme"`
	AccentColor      *string          `json:"accentColor"`
	ThemeSounds      *bool            `json:"themeSounds"`
	ShowSuggestions  *bool            `json:"showSuggestions"`
	ShowWeather      *bool            `json:"showWeather"`
	ShowNews         *bool            `json:"showNews"`
	SearchEngine     *SearchEngine    `json:"searchEngine"`
	StartPageDefault *bool            `json:"startPageDefault"`
	BackgroundMode   *BackgroundMode  `json:"backgroundMode"`
	CPULimit         *float64         `json:"cpuLimit"`
	RAMLimit         *float64         `json:"ramLimit"`
	FPSLimit         *float64         `json:"fpsLimit"`
	SpeedDial        *[]SpeedDialItem `json:"speedDial"`
	Favorites        *[]string        `json:"favorites"`
}

// encodeState renders the fixed export field set, indented by two spaces.
func encodeState(s State) (string, error) {
	s = s.Clone()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// decodeSnapshot parses text and validates every present field.
// It never touches store state.
func decodeSnapshot(text string) (*snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidFormat)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if snap.Theme != nil && !snap.Theme.Valid() {
		return nil, fmt.Errorf("%w: unknown theme %q", ErrInvalidFormat, *snap.Theme)
	}
	if snap.SearchEngine != nil && !snap.SearchEngine.Valid() {
		return nil, fmt.Errorf("%w: unknown search engine %q", ErrInvalidFormat, *snap.SearchEngine)
	}
	if snap.BackgroundMode != nil && !snap.BackgroundMode.Valid() {
		return nil, fmt.Errorf("%w: unknown background mode %q", ErrInvalidFormat, *snap.BackgroundMode)
	}
	if snap.SpeedDial != nil {
		if err := validateSpeedDial(*snap.SpeedDial); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

func validateSpeedDial(items []SpeedDialItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: speedDial[%d] has no id", ErrInvalidFormat, i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate speedDial id %q", ErrInvalidFormat, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// apply merges the present fields of snap over s.
func (snap *snapshot) apply(s *State) {
	if snap.Theme != nil {
		s.Theme = *snap.Theme
	}
	if snap.AccentColor != nil {
		s.AccentColor = *snap.AccentColor
	}
	if snap.ThemeSounds != nil {
		s.ThemeSounds = *snap.ThemeSounds
	}
	if snap.ShowSuggestions != nil {
		s.ShowSuggestions = *snap.ShowSuggestions
	}
	if snap.ShowWeather != nil {
		s.ShowWeather = *snap.ShowWeather
	}
	if snap.ShowNews != nil {
		s.ShowNews = *snap.ShowNews
	}
	if snap.SearchEngine != nil {
		s.SearchEngine = *snap.SearchEngine
	}
	if snap.StartPageDefault != nil {
		s.StartPageDefault = *snap.StartPageDefault
	}
	if snap.BackgroundMode != nil {
		s.BackgroundMode = *snap.BackgroundMode
	}
	if snap.CPULimit != nil {
		s.CPULimit = clamp(roundLimit(*snap.CPULimit), 0, MaxCPULimit)
	}
	if snap.RAMLimit != nil {
		s.RAMLimit = clamp(roundLimit(*snap.RAMLimit), 0, MaxRAMLimit)
	}
	if snap.FPSLimit != nil {
		s.FPSLimit = clamp(roundLimit(*snap.FPSLimit), 0, MaxFPSLimit)
	}
	if snap.SpeedDial != nil {
		s.SpeedDial = append([]SpeedDialItem{}, (*snap.SpeedDial)...)
	}
	if snap.Favorites != nil {
		s.Favorites = append([]string{}, (*snap.Favorites)...)
	}
}

func roundLimit(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(math.Round(v))
}
