// Package tabs keeps the declared tab list, the active selection and the
// live content views consistent.
//
// Three independent triggers drive it: user navigation input, user tab
// actions (new, close, select) and asynchronous events from the content
// host. Record.URL is what should be loaded; the view's own location is
// what the user sees. Host events reconcile the two. Titles and favicons
// only ever change through host events.
package tabs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/weburl"
)

// Defaults used when the registry is created without options.
const (
	DefaultNewTabURL   = "https://www.google.com"
	DefaultNewTabTitle = "New tab"
	DefaultHomeURL     = "https://www.perplexity.ai"
	DefaultHomeTitle   = "Perplexity"
	FailedTitle        = "Failed to load"
)

// Registry owns the tab records and the id-to-view side table.
type Registry struct {
	mu       sync.RWMutex
	tabs     []Record
	activeID string
	views    map[string]View

	newTabURL string
	homeURL   string
	homeTitle string
	newID     func() string
	logger    *logging.Logger

	subs    map[int]func()
	nextSub int
}

// Option configures a Registry.
type Option func(*Registry)

// WithNewTabURL sets the URL of tabs created by NewTab.
func WithNewTabURL(u string) Option {
	return func(r *Registry) {
		if n := weburl.Normalize(u); n != "" {
			r.newTabURL = n
		}
	}
}

// WithHome sets the URL and title of the initial and fallback tab.
func WithHome(u, title string) Option {
	return func(r *Registry) {
		if n := weburl.Normalize(u); n != "" {
			r.homeURL = n
		}
		if title != "" {
			r.homeTitle = title
		}
	}
}

// WithIDGenerator overrides tab id generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		r.newID = fn
	}
}

// WithLogger overrides the registry logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates a registry seeded with one home tab.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		views:     make(map[string]View),
		newTabURL: DefaultNewTabURL,
		homeURL:   DefaultHomeURL,
		homeTitle: DefaultHomeTitle,
		newID:     shortID,
		logger:    logging.NewLogger("tabs"),
		subs:      make(map[int]func()),
	}
	for _, opt := range opts {
		opt(r)
	}

	home := r.homeRecordLocked()
	r.tabs = []Record{home}
	r.activeID = home.ID
	return r
}

func shortID() string {
	return "tab-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
}

// uniqueIDLocked draws ids until one is unused.
func (r *Registry) uniqueIDLocked() string {
	for {
		id := r.newID()
		if r.indexLocked(id) < 0 {
			return id
		}
	}
}

func (r *Registry) homeRecordLocked() Record {
	return Record{ID: r.uniqueIDLocked(), URL: r.homeURL, Title: r.homeTitle}
}

func (r *Registry) indexLocked(id string) int {
	for i := range r.tabs {
		if r.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// Subscribe registers fn to run after every change.
// The returned func removes the subscription.
func (r *Registry) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// unlockAndNotify releases the write lock, then runs subscribers.
func (r *Registry) unlockAndNotify() {
	subs := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// NewTab appends a tab at the new-tab URL and activates it.
func (r *Registry) NewTab() string {
	r.mu.Lock()
	rec := Record{ID: r.uniqueIDLocked(), URL: r.newTabURL, Title: DefaultNewTabTitle}
	r.tabs = append(r.tabs, rec)
	r.activeID = rec.ID
	r.logger.Debugf("new tab %s", rec.ID)
	r.unlockAndNotify()
	return rec.ID
}

// NewTabWithURL appends a tab pointed at rawURL and activates it.
// Blank input behaves like NewTab.
func (r *Registry) NewTabWithURL(rawURL string) string {
	u := weburl.Normalize(rawURL)
	if u == "" {
		return r.NewTab()
	}

	r.mu.Lock()
	rec := Record{ID: r.uniqueIDLocked(), URL: u, Title: DefaultNewTabTitle}
	r.tabs = append(r.tabs, rec)
	r.activeID = rec.ID
	r.logger.Debugf("new tab %s at %s", rec.ID, u)
	r.unlockAndNotify()
	return rec.ID
}

// CloseTab removes the tab and returns its released view, if one was
// bound. Closing the active tab activates the first remaining tab;
// closing the last tab synthesizes a home tab. Unknown ids are a no-op.
func (r *Registry) CloseTab(id string) (View, bool) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return nil, false
	}

	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)
	view := r.views[id]
	delete(r.views, id)

	if len(r.tabs) == 0 {
		home := r.homeRecordLocked()
		r.tabs = []Record{home}
		r.activeID = home.ID
		r.logger.Infof("closed last tab %s, opened fallback %s", id, home.ID)
	} else if r.activeID == id {
		r.activeID = r.tabs[0].ID
	}

	r.logger.Debugf("closed tab %s (active=%s)", id, r.activeID)
	r.unlockAndNotify()
	return view, true
}

// Navigate normalizes rawInput, records it as the tab URL and, when a
// view is bound, tells the view to load it. It does not wait for the
// load and does not touch title or favicon. It returns the normalized
// URL and false when the tab is unknown or the input is blank.
func (r *Registry) Navigate(id, rawInput string) (string, bool) {
	u := weburl.Normalize(rawInput)
	if u == "" {
		return "", false
	}

	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return "", false
	}
	r.tabs[idx].URL = u
	view := r.views[id]
	r.logger.Debugf("navigate %s -> %s (bound=%t)", id, u, view != nil)
	r.unlockAndNotify()

	if view != nil {
		view.LoadURL(u)
	}
	return u, true
}

// BindView registers the mounted view for id and reconciles it with the
// declared URL. It returns false for unknown ids and for tabs that
// already have a view; the caller then owns the view and should close it.
func (r *Registry) BindView(id string, view View) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	if _, bound := r.views[id]; bound {
		r.mu.Unlock()
		r.logger.Warnf("tab %s already has a view, refusing a second one", id)
		return false
	}
	r.views[id] = view
	want := r.tabs[idx].URL
	r.mu.Unlock()

	if view.URL() != want {
		view.LoadURL(want)
	}
	return true
}

// View returns the view bound to id.
func (r *Registry) View(id string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

// OnHostEvent folds a host event into the tab record. Events for ids that
// are no longer registered are dropped and false is returned.
func (r *Registry) OnHostEvent(id string, ev Event) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}

	rec := &r.tabs[idx]
	changed := false
	switch ev.Type {
	case EventNavigationCommitted:
		if ev.URL != "" && ev.URL != rec.URL {
			rec.URL = ev.URL
			changed = true
		}
	case EventTitleChanged:
		if ev.Title != rec.Title {
			rec.Title = ev.Title
			changed = true
		}
	case EventFaviconDiscovered:
		// Only the first candidate is considered, and an empty one never
		// clears a favicon we already have.
		if len(ev.Candidates) > 0 && ev.Candidates[0] != "" && ev.Candidates[0] != rec.Favicon {
			rec.Favicon = ev.Candidates[0]
			changed = true
		}
	case EventNavigationFailed:
		rec.Title = FailedTitle
		changed = true
		r.logger.Warnf("tab %s failed to load %s: %s", id, ev.URL, ev.Reason)
	default:
		r.logger.Debugf("ignoring host event %q for %s", ev.Type, id)
	}

	if !changed {
		r.mu.Unlock()
		return true
	}
	r.unlockAndNotify()
	return true
}

// SelectTab activates id. It does not touch the view.
func (r *Registry) SelectTab(id string) bool {
	r.mu.Lock()
	if r.indexLocked(id) < 0 {
		r.mu.Unlock()
		return false
	}
	if r.activeID == id {
		r.mu.Unlock()
		return true
	}
	r.activeID = id
	r.unlockAndNotify()
	return true
}

// SelectNext activates the tab after the active one, wrapping around.
func (r *Registry) SelectNext() string {
	return r.selectOffset(1)
}

// SelectPrev activates the tab before the active one, wrapping around.
func (r *Registry) SelectPrev() string {
	return r.selectOffset(-1)
}

func (r *Registry) selectOffset(delta int) string {
	r.mu.Lock()
	n := len(r.tabs)
	idx := r.indexLocked(r.activeID)
	next := ((idx+delta)%n + n) % n
	if next == idx {
		r.mu.Unlock()
		return r.activeID
	}
	r.activeID = r.tabs[next].ID
	id := r.activeID
	r.unlockAndNotify()
	return id
}

// Back asks the view bound to id to go back.
func (r *Registry) Back(id string) bool {
	return r.withView(id, View.GoBack)
}

// Forward asks the view bound to id to go forward.
func (r *Registry) Forward(id string) bool {
	return r.withView(id, View.GoForward)
}

// Reload asks the view bound to id to reload.
func (r *Registry) Reload(id string) bool {
	return r.withView(id, View.Reload)
}

func (r *Registry) withView(id string, fn func(View)) bool {
	v, ok := r.View(id)
	if !ok || v == nil {
		return false
	}
	fn(v)
	return true
}

// Tabs returns a copy of the records in display order.
func (r *Registry) Tabs() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.tabs))
	copy(out, r.tabs)
	return out
}

// Get returns the record for id.
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.indexLocked(id); idx >= 0 {
		return r.tabs[idx], true
	}
	return Record{}, false
}

// ActiveID returns the id of the active tab.
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Active returns the active record.
func (r *Registry) Active() Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tabs[r.indexLocked(r.activeID)]
}

// ActiveIndex returns the display position of the active tab.
func (r *Registry) ActiveIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexLocked(r.activeID)
}

// Len returns the number of tabs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tabs)
}

// Views returns every bound view, keyed by tab id.
func (r *Registry) Views() map[string]View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]View, len(r.views))
	for id, v := range r.views {
		out[id] = v
	}
	return out
}

// String renders a one-line summary used in logs.
func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("tabs(%d, active=%s, bound=%d)", len(r.tabs), r.activeID, len(r.views))
}
