// Package settings holds the persisted user preferences of the shell:
// theme, accent, start-page modules, search engine, resource limits,
// speed-dial tiles and favorites.
//
// A Store is the single owner of that state. Every mutation is written
// through to a Persister and then announced to subscribers, so panels
// never poll and never hold a private copy that can drift.
package settings

import (
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/hypergx/pkg/logging"
)

// Store owns the settings state.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	logger    *logging.Logger
	lastErr   error

	subs    map[int]func(State)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the store logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates an in-memory store holding defaults.
func New(opts ...Option) *Store {
	s := &Store{
		state:  Defaults(),
		logger: logging.NewLogger("settings"),
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open hydrates a store from p. A missing snapshot yields defaults; a
// corrupt one is logged and replaced by defaults on the next write.
// Fields absent from the snapshot keep their defaults.
func Open(p Persister, opts ...Option) (*Store, error) {
	s := New(opts...)
	s.persister = p
	if p == nil {
		return s, nil
	}

	raw, found, err := p.LoadSnapshot(SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings snapshot: %w", err)
	}
	if !found {
		s.logger.Debugf("no persisted settings, using defaults")
		return s, nil
	}

	snap, err := decodeSnapshot(string(raw))
	if err != nil {
		s.logger.Warnf("ignoring persisted settings: %v", err)
		return s, nil
	}
	snap.apply(&s.state)
	s.logger.Infof("settings hydrated (theme=%s, %d speed-dial items)", s.state.Theme, len(s.state.SpeedDial))
	return s, nil
}

// State returns a copy of the current settings.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every change. The returned func
// removes the subscription. fn runs on the mutating goroutine, outside
// the store lock, and may read the store.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// LastError returns the most recent persistence failure, or nil once a
// later write succeeds.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Update applies fn to a copy of the state and commits the result.
func (s *Store) Update(fn func(*State)) {
	s.mutate(func(st *State) bool {
		fn(st)
		return true
	})
}

// mutate runs fn under the lock. When fn reports a change the new state
// is persisted and subscribers are notified.
func (s *Store) mutate(fn func(*State) bool) {
	s.mu.Lock()
	next := s.state.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.persistLocked()

	snapshot := s.state.Clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// persistLocked writes the state through. Failures never undo the mutation.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	text, err := encodeState(s.state)
	if err == nil {
		err = s.persister.SaveSnapshot(SnapshotKey, []byte(text))
	}
	if err != nil {
		s.logger.Errorf("failed to persist settings: %v", err)
	}
	s.lastErr = err
}

// SetTheme selects a preset theme. Unknown ids are ignored.
func (s *Store) SetTheme(id ThemeID) {
	if !id.Valid() {
		s.logger.Warnf("ignoring unknown theme %q", id)
		return
	}
	s.mutate(func(st *State) bool {
		st.Theme = id
		return true
	})
}

// SetAccent sets the accent color.
func (s *Store) SetAccent(color string) {
	color = strings.TrimSpace(color)
	if color == "" {
		return
	}
	s.mutate(func(st *State) bool {
		st.AccentColor = color
		return true
	})
}

// ToggleThemeSounds flips theme sounds.
func (s *Store) ToggleThemeSounds() {
	s.mutate(func(st *State) bool {
		st.ThemeSounds = !st.ThemeSounds
		return true
	})
}

// ToggleSuggestions flips the suggestions card.
func (s *Store) ToggleSuggestions() {
	s.mutate(func(st *State) bool {
		st.ShowSuggestions = !st.ShowSuggestions
		return true
	})
}

// ToggleWeather flips the weather card.
func (s *Store) ToggleWeather() {
	s.mutate(func(st *State) bool {
		st.ShowWeather = !st.ShowWeather
		return true
	})
}

// ToggleNews flips the news card.
func (s *Store) ToggleNews() {
	s.mutate(func(st *State) bool {
		st.ShowNews = !st.ShowNews
		return true
	})
}

// SetSearchEngine selects the start-page search engine.
func (s *Store) SetSearchEngine(e SearchEngine) {
	if !e.Valid() {
		s.logger.Warnf("ignoring unknown search engine %q", e)
		return
	}
	s.mutate(func(st *State) bool {
		st.SearchEngine = e
		return true
	})
}

// SetStartPageDefault sets whether the start page opens by default.
func (s *Store) SetStartPageDefault(v bool) {
	s.mutate(func(st *State) bool {
		st.StartPageDefault = v
		return true
	})
}

// SetBackgroundMode selects image or video background.
func (s *Store) SetBackgroundMode(m BackgroundMode) {
	if !m.Valid() {
		s.logger.Warnf("ignoring unknown background mode %q", m)
		return
	}
	s.mutate(func(st *State) bool {
		st.BackgroundMode = m
		return true
	})
}

// SetCPULimit sets the simulated CPU limit, clamped to 0..100.
func (s *Store) SetCPULimit(v int) {
	s.mutate(func(st *State) bool {
		st.CPULimit = clamp(v, 0, MaxCPULimit)
		return true
	})
}

// SetRAMLimit sets the simulated RAM limit, clamped to 0..100.
func (s *Store) SetRAMLimit(v int) {
	s.mutate(func(st *State) bool {
		st.RAMLimit = clamp(v, 0, MaxRAMLimit)
		return true
	})
}

// SetFPSLimit sets the frame cap, clamped to 0..240.
func (s *Store) SetFPSLimit(v int) {
	s.mutate(func(st *State) bool {
		st.FPSLimit = clamp(v, 0, MaxFPSLimit)
		return true
	})
}

// SetFavorites replaces the favorites list. Blank entries are dropped.
func (s *Store) SetFavorites(favorites []string) {
	cleaned := make([]string, 0, len(favorites))
	for _, f := range favorites {
		if f = strings.TrimSpace(f); f != "" {
			cleaned = append(cleaned, f)
		}
	}
	s.mutate(func(st *State) bool {
		st.Favorites = cleaned
		return true
	})
}

// SetSpeedDial replaces the speed-dial sequence wholesale.
func (s *Store) SetSpeedDial(items []SpeedDialItem) {
	items = append([]SpeedDialItem{}, items...)
	s.mutate(func(st *State) bool {
		st.SpeedDial = items
		return true
	})
}

// Export serialises the fixed export field set as indented JSON.
func (s *Store) Export() (string, error) {
	return encodeState(s.State())
}

// Import merges a snapshot produced by Export (or a subset of it) into
// the current state. On ErrInvalidFormat nothing changes.
func (s *Store) Import(text string) error {
	snap, err := decodeSnapshot(text)
	if err != nil {
		s.logger.Warnf("import rejected: %v", err)
		return err
	}
	s.mutate(func(st *State) bool {
		snap.apply(st)
		return true
	})
	s.logger.Infof("settings imported")
	return nil
}
