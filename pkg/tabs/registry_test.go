package tabs

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hypergx/pkg/logging"
)

type fakeView struct {
	mu       sync.Mutex
	location string
	title    string
	loads    []string
	backs    int
	forwards int
	reloads  int
}

func (v *fakeView) LoadURL(u string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loads = append(v.loads, u)
}
func (v *fakeView) GoBack()    { v.mu.Lock(); v.backs++; v.mu.Unlock() }
func (v *fakeView) GoForward() { v.mu.Lock(); v.forwards++; v.mu.Unlock() }
func (v *fakeView) Reload()    { v.mu.Lock(); v.reloads++; v.mu.Unlock() }
func (v *fakeView) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.location
}
func (v *fakeView) Title() string { return v.title }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tab-%d", n)
	}
}

func newTestRegistry(opts ...Option) *Registry {
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithLogger(logging.NewWithWriter("tabs", io.Discard, logging.LevelError)),
	}
	return NewRegistry(append(base, opts...)...)
}

func TestNewRegistry_SeedsHomeTab(t *testing.T) {
	r := newTestRegistry()

	require.Equal(t, 1, r.Len())
	active := r.Active()
	assert.Equal(t, "tab-1", active.ID)
	assert.Equal(t, DefaultHomeURL, active.URL)
	assert.Equal(t, DefaultHomeTitle, active.Title)
}

func TestNewTab_AppendsAndActivates(t *testing.T) {
	r := newTestRegistry()
	id := r.NewTab()

	assert.Equal(t, "tab-2", id)
	assert.Equal(t, id, r.ActiveID())
	tabs := r.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, Record{ID: id, URL: DefaultNewTabURL, Title: DefaultNewTabTitle}, tabs[1])
}

func TestNewTab_SkipsCollidingIDs(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls <= 3 {
			return "tab-dup"
		}
		return fmt.Sprintf("tab-%d", calls)
	}
	r := newTestRegistry(WithIDGenerator(gen))
	id := r.NewTab()

	assert.NotEqual(t, "tab-dup", id)
	assert.Equal(t, 2, r.Len())
}

func TestNewTabWithURL(t *testing.T) {
	r := newTestRegistry()
	id := r.NewTabWithURL("go.dev")

	rec, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "https://go.dev", rec.URL)
}

func TestCloseTab_ActiveMovesToFirst(t *testing.T) {
	r := newTestRegistry()
	r.NewTab()
	third := r.NewTab()
	require.Equal(t, third, r.ActiveID())

	_, ok := r.CloseTab(third)
	require.True(t, ok)
	assert.Equal(t, "tab-1", r.ActiveID())
}

func TestCloseTab_NonActiveKeepsSelection(t *testing.T) {
	r := newTestRegistry()
	second := r.NewTab()
	third := r.NewTab()

	r.CloseTab(second)
	assert.Equal(t, third, r.ActiveID())
}

func TestCloseTab_LastTabSynthesizesFallback(t *testing.T) {
	r := newTestRegistry(WithHome("home.example", "Home"))
	only := r.ActiveID()

	_, ok := r.CloseTab(only)
	require.True(t, ok)

	tabs := r.Tabs()
	require.Len(t, tabs, 1)
	assert.NotEqual(t, only, tabs[0].ID)
	assert.Equal(t, "https://home.example", tabs[0].URL)
	assert.Equal(t, "Home", tabs[0].Title)
	assert.Equal(t, tabs[0].ID, r.ActiveID())
}

func TestCloseTab_ReleasesView(t *testing.T) {
	r := newTestRegistry()
	id := r.NewTab()
	v := &fakeView{location: DefaultNewTabURL}
	require.True(t, r.BindView(id, v))

	released, ok := r.CloseTab(id)
	require.True(t, ok)
	assert.Same(t, v, released)

	_, bound := r.View(id)
	assert.False(t, bound)
}

func TestCloseTab_UnknownIsNoop(t *testing.T) {
	r := newTestRegistry()
	v, ok := r.CloseTab("nope")
	assert.Nil(t, v)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestActiveAlwaysValid(t *testing.T) {
	r := newTestRegistry()
	ops := []func(){
		func() { r.NewTab() },
		func() { r.CloseTab(r.ActiveID()) },
		func() { r.NewTab() },
		func() { r.NewTab() },
		func() { r.CloseTab(r.Tabs()[0].ID) },
		func() { r.SelectTab(r.Tabs()[0].ID) },
		func() { r.CloseTab(r.ActiveID()) },
		func() { r.CloseTab(r.ActiveID()) },
		func() { r.CloseTab(r.ActiveID()) },
	}
	for i, op := range ops {
		op()
		_, ok := r.Get(r.ActiveID())
		assert.True(t, ok, "active id missing after op %d", i)
		assert.GreaterOrEqual(t, r.Len(), 1)
	}
}

func TestNavigate_Normalizes(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()

	u, ok := r.Navigate(id, "example.com")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", u)

	r.Navigate(id, "https://x.com")
	rec, _ := r.Get(id)
	assert.Equal(t, "https://x.com", rec.URL)

	r.Navigate(id, "http://plain.example")
	rec, _ = r.Get(id)
	assert.Equal(t, "http://plain.example", rec.URL)
}

func TestNavigate_NoOptimisticTitleOrFavicon(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()
	r.OnHostEvent(id, FaviconDiscovered("https://www.perplexity.ai/favicon.ico"))

	r.Navigate(id, "example.com")

	rec, _ := r.Get(id)
	assert.Equal(t, DefaultHomeTitle, rec.Title)
	assert.Equal(t, "https://www.perplexity.ai/favicon.ico", rec.Favicon)
}

func TestNavigate_IssuesLoadOnBoundView(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()
	v := &fakeView{location: DefaultHomeURL}
	r.BindView(id, v)

	r.Navigate(id, "go.dev")
	assert.Equal(t, []string{"https://go.dev"}, v.loads)
}

func TestNavigate_BlankOrUnknown(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.Navigate(r.ActiveID(), "   ")
	assert.False(t, ok)
	assert.Equal(t, DefaultHomeURL, r.Active().URL)

	_, ok = r.Navigate("nope", "go.dev")
	assert.False(t, ok)
}

func TestBindView_Reconciles(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()

	stale := &fakeView{location: "about:blank"}
	require.True(t, r.BindView(id, stale))
	assert.Equal(t, []string{DefaultHomeURL}, stale.loads)

	second := r.NewTab()
	inSync := &fakeView{location: DefaultNewTabURL}
	require.True(t, r.BindView(second, inSync))
	assert.Empty(t, inSync.loads)
}

func TestBindView_RefusesSecondView(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()

	first := &fakeView{location: DefaultHomeURL}
	require.True(t, r.BindView(id, first))

	second := &fakeView{location: "about:blank"}
	assert.False(t, r.BindView(id, second))
	assert.Empty(t, second.loads)

	bound, ok := r.View(id)
	require.True(t, ok)
	assert.Same(t, first, bound)

	r.Navigate(id, "go.dev")
	assert.Equal(t, []string{"https://go.dev"}, first.loads)
	assert.Empty(t, second.loads)
}

func TestBindView_UnknownID(t *testing.T) {
	r := newTestRegistry()
	v := &fakeView{}
	assert.False(t, r.BindView("gone", v))
	assert.Empty(t, v.loads)
}

func TestOnHostEvent_Folds(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()

	assert.True(t, r.OnHostEvent(id, NavigationCommitted("https://www.perplexity.ai/search")))
	assert.True(t, r.OnHostEvent(id, TitleChanged("Search")))
	assert.True(t, r.OnHostEvent(id, FaviconDiscovered("https://p.ai/a.png", "https://p.ai/b.png")))

	rec, _ := r.Get(id)
	assert.Equal(t, "https://www.perplexity.ai/search", rec.URL)
	assert.Equal(t, "Search", rec.Title)
	assert.Equal(t, "https://p.ai/a.png", rec.Favicon)
}

func TestOnHostEvent_FaviconNeverCleared(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()
	r.OnHostEvent(id, FaviconDiscovered("https://p.ai/a.png"))

	r.OnHostEvent(id, FaviconDiscovered())
	r.OnHostEvent(id, FaviconDiscovered(""))
	r.OnHostEvent(id, FaviconDiscovered("", "https://p.ai/b.png"))

	rec, _ := r.Get(id)
	assert.Equal(t, "https://p.ai/a.png", rec.Favicon)
}

func TestOnHostEvent_NavigationFailed(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()
	r.OnHostEvent(id, NavigationFailed("https://nowhere.invalid", "net::ERR_NAME_NOT_RESOLVED"))

	rec, _ := r.Get(id)
	assert.Equal(t, FailedTitle, rec.Title)
	assert.Equal(t, DefaultHomeURL, rec.URL)
}

func TestOnHostEvent_LateEventIgnored(t *testing.T) {
	r := newTestRegistry()
	id := r.NewTab()
	r.CloseTab(id)

	before := r.Tabs()
	assert.False(t, r.OnHostEvent(id, TitleChanged("late")))
	assert.Equal(t, before, r.Tabs())
}

func TestSelectTab(t *testing.T) {
	r := newTestRegistry()
	first := r.ActiveID()
	r.NewTab()

	v := &fakeView{location: DefaultHomeURL}
	r.BindView(first, v)

	assert.True(t, r.SelectTab(first))
	assert.Equal(t, first, r.ActiveID())
	assert.Empty(t, v.loads)
	assert.False(t, r.SelectTab("nope"))
	assert.Equal(t, first, r.ActiveID())
}

func TestSelectNextPrev(t *testing.T) {
	r := newTestRegistry()
	r.NewTab()
	r.NewTab()
	r.SelectTab("tab-1")

	assert.Equal(t, "tab-2", r.SelectNext())
	assert.Equal(t, "tab-3", r.SelectNext())
	assert.Equal(t, "tab-1", r.SelectNext())
	assert.Equal(t, "tab-3", r.SelectPrev())
}

func TestHistoryCommands(t *testing.T) {
	r := newTestRegistry()
	id := r.ActiveID()
	assert.False(t, r.Back(id))

	v := &fakeView{location: DefaultHomeURL}
	r.BindView(id, v)
	assert.True(t, r.Back(id))
	assert.True(t, r.Forward(id))
	assert.True(t, r.Reload(id))
	assert.Equal(t, 1, v.backs)
	assert.Equal(t, 1, v.forwards)
	assert.Equal(t, 1, v.reloads)
}

func TestSubscribe(t *testing.T) {
	r := newTestRegistry()
	count := 0
	cancel := r.Subscribe(func() { count++ })

	id := r.NewTab()
	r.Navigate(id, "a.example")
	r.OnHostEvent(id, TitleChanged("A"))
	r.OnHostEvent(id, TitleChanged("A"))
	cancel()
	r.NewTab()

	assert.Equal(t, 3, count)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry(WithIDGenerator(shortID))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := r.NewTab()
				r.Navigate(id, "example.com")
				r.OnHostEvent(id, TitleChanged("x"))
				r.CloseTab(id)
			}
		}()
	}
	wg.Wait()

	_, ok := r.Get(r.ActiveID())
	assert.True(t, ok)
}
