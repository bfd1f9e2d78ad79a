package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/host/memhost"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/tabs"
)

func quiet(component string) *logging.Logger {
	return logging.NewWithWriter(component, io.Discard, logging.LevelError)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("tab-%d", n)
	}
}

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
}

func (o *recordingOpener) OpenExternal(u string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, u)
	return nil
}

func setup(t *testing.T, opts ...Option) (*Workspace, *memhost.Host) {
	t.Helper()
	reg := tabs.NewRegistry(tabs.WithIDGenerator(sequentialIDs()), tabs.WithLogger(quiet("tabs")))
	h := memhost.New(memhost.WithTitle("https://www.perplexity.ai", "Perplexity"))
	base := []Option{WithLogger(quiet("workspace")), WithOpener(&recordingOpener{})}
	w := New(reg, h, append(base, opts...)...)
	w.Start()
	t.Cleanup(func() { _ = w.Close() })
	return w, h
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestStart_MountsAndReconcilesInitialTab(t *testing.T) {
	w, h := setup(t)
	id := w.Registry().ActiveID()

	waitFor(t, func() bool {
		v, ok := w.Registry().View(id)
		return ok && v.URL() == "https://www.perplexity.ai"
	})
	assert.Equal(t, 1, h.Opened())

	waitFor(t, func() bool {
		rec, _ := w.Registry().Get(id)
		return rec.Favicon == "https://www.perplexity.ai/favicon.ico"
	})
}

func TestNewTab_MountsView(t *testing.T) {
	w, h := setup(t)
	id := w.NewTab()

	waitFor(t, func() bool {
		rec, _ := w.Registry().Get(id)
		return rec.Title == "google.com"
	})
	assert.Equal(t, 2, h.Opened())
}

func TestNavigate_FoldsHostEvents(t *testing.T) {
	w, _ := setup(t)
	id := w.Registry().ActiveID()
	waitFor(t, func() bool { _, ok := w.Registry().View(id); return ok })

	u, err := w.Navigate(id, "go.dev/doc")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/doc", u)

	waitFor(t, func() bool {
		rec, _ := w.Registry().Get(id)
		return rec.Title == "go.dev" && rec.URL == "https://go.dev/doc"
	})
}

func TestNavigate_UnknownTab(t *testing.T) {
	w, _ := setup(t)
	_, err := w.Navigate("nope", "go.dev")
	assert.Error(t, err)
}

func TestCloseTab_ClosesView(t *testing.T) {
	w, h := setup(t)
	id := w.NewTab()
	waitFor(t, func() bool { _, ok := w.Registry().View(id); return ok })
	require.Equal(t, 2, h.Live())

	assert.True(t, w.CloseTab(id))
	assert.Equal(t, 1, h.Live())
	assert.False(t, w.CloseTab(id))
}

func TestCloseLastTab_MountsFallback(t *testing.T) {
	w, h := setup(t)
	first := w.Registry().ActiveID()
	waitFor(t, func() bool { _, ok := w.Registry().View(first); return ok })

	w.CloseActive()
	fallback := w.Registry().ActiveID()
	require.NotEqual(t, first, fallback)

	waitFor(t, func() bool { _, ok := w.Registry().View(fallback); return ok })
	assert.Equal(t, 2, h.Opened())
	assert.Equal(t, 1, h.Live())
}

func TestHistory_ActsOnActiveTab(t *testing.T) {
	w, _ := setup(t)
	id := w.Registry().ActiveID()
	waitFor(t, func() bool {
		v, ok := w.Registry().View(id)
		return ok && v.URL() == "https://www.perplexity.ai"
	})

	w.NavigateActive("a.example")
	waitFor(t, func() bool { rec, _ := w.Registry().Get(id); return rec.Title == "a.example" })

	assert.True(t, w.Back())
	waitFor(t, func() bool { rec, _ := w.Registry().Get(id); return rec.URL == "https://www.perplexity.ai" })

	assert.True(t, w.Forward())
	waitFor(t, func() bool { rec, _ := w.Registry().Get(id); return rec.URL == "https://a.example" })
	assert.True(t, w.Reload())
}

func TestExternalRouting(t *testing.T) {
	router, err := host.NewExternalRouter([]string{"*://zoom.us/*"})
	require.NoError(t, err)
	opener := &recordingOpener{}
	w, _ := setup(t, WithExternalRouter(router), WithOpener(opener))

	id, err := w.OpenURL("https://zoom.us/j/1")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 1, w.Registry().Len())

	_, err = w.NavigateActive("zoom.us/j/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://zoom.us/j/1", "https://zoom.us/j/2"}, opener.urls)
}

type brokenHost struct{}

func (brokenHost) Name() string                              { return "broken" }
func (brokenHost) Open(context.Context) (host.View, error) { return nil, errors.New("no browser") }
func (brokenHost) Close() error                              { return nil }

func TestMountFailure_ReportedOnce(t *testing.T) {
	reg := tabs.NewRegistry(tabs.WithLogger(quiet("tabs")))
	w := New(reg, brokenHost{}, WithLogger(quiet("workspace")))
	w.Start()
	t.Cleanup(func() { _ = w.Close() })

	waitFor(t, func() bool { return len(w.Errors()) == 1 })
	assert.Equal(t, tabs.FailedTitle, reg.Active().Title)

	reg.NewTab()
	waitFor(t, func() bool { return len(w.Errors()) == 2 })
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, w.Errors(), 2)
}

func TestMountFailure_CallsHandler(t *testing.T) {
	var mu sync.Mutex
	var failed []string
	reg := tabs.NewRegistry(tabs.WithIDGenerator(sequentialIDs()), tabs.WithLogger(quiet("tabs")))
	w := New(reg, brokenHost{}, WithLogger(quiet("workspace")), WithMountFailureHandler(func(id string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, id+": "+err.Error())
	}))
	w.Start()
	t.Cleanup(func() { _ = w.Close() })

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	})
	assert.Equal(t, []string{"tab-1: no browser"}, failed)
}

// slowHost delays Open so mounts overlap with registry notifications.
type slowHost struct {
	*memhost.Host
	delay time.Duration
}

func (h slowHost) Open(ctx context.Context) (host.View, error) {
	time.Sleep(h.delay)
	return h.Host.Open(ctx)
}

func TestMount_OneViewPerTabUnderEventLoad(t *testing.T) {
	reg := tabs.NewRegistry(tabs.WithIDGenerator(sequentialIDs()), tabs.WithLogger(quiet("tabs")))
	mh := memhost.New()
	w := New(reg, slowHost{Host: mh, delay: 200 * time.Microsecond}, WithLogger(quiet("workspace")))
	w.Start()
	t.Cleanup(func() { _ = w.Close() })

	// Every title change notifies subscribers, which rescans for tabs
	// without a view while mounts are finishing.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; ; n++ {
				select {
				case <-stop:
					return
				default:
				}
				reg.OnHostEvent(reg.ActiveID(), tabs.TitleChanged(fmt.Sprintf("title %d-%d", i, n)))
			}
		}(i)
	}
	for i := 0; i < 30; i++ {
		reg.NewTab()
		time.Sleep(100 * time.Microsecond)
	}
	close(stop)
	wg.Wait()

	waitFor(t, func() bool { return len(reg.Views()) == reg.Len() })
	assert.Equal(t, 31, reg.Len())
	assert.Equal(t, reg.Len(), mh.Opened())
	assert.Equal(t, reg.Len(), mh.Live())
}

// gatedHost holds Open after its context check until Close runs, and
// its Close leaves views it handed out open.
type gatedHost struct {
	inner   *memhost.Host
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedHost() *gatedHost {
	return &gatedHost{
		inner:   memhost.New(),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (h *gatedHost) Name() string { return "gated" }

func (h *gatedHost) Open(ctx context.Context) (host.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case h.entered <- struct{}{}:
	default:
	}
	<-h.release
	return h.inner.Open(context.Background())
}

func (h *gatedHost) Close() error {
	h.once.Do(func() { close(h.release) })
	return nil
}

func closeWithin(t *testing.T, w *Workspace, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		_ = w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Workspace.Close did not return")
	}
}

func TestClose_DropsViewMountedDuringShutdown(t *testing.T) {
	reg := tabs.NewRegistry(tabs.WithLogger(quiet("tabs")))
	h := newGatedHost()
	w := New(reg, h, WithLogger(quiet("workspace")))
	w.Start()

	select {
	case <-h.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("mount never reached Open")
	}

	closeWithin(t, w, 2*time.Second)

	_, bound := reg.View(reg.ActiveID())
	assert.False(t, bound)
	assert.Equal(t, 1, h.inner.Opened())
	assert.Equal(t, 0, h.inner.Live())
}

// leakyHost forgets to close its views on Close.
type leakyHost struct {
	*memhost.Host
}

func (leakyHost) Close() error { return nil }

func TestClose_ClosesViewsTheHostKeeps(t *testing.T) {
	reg := tabs.NewRegistry(tabs.WithLogger(quiet("tabs")))
	mh := memhost.New()
	w := New(reg, leakyHost{Host: mh}, WithLogger(quiet("workspace")))
	w.Start()

	waitFor(t, func() bool {
		_, ok := reg.View(reg.ActiveID())
		return ok
	})

	closeWithin(t, w, 2*time.Second)
	waitFor(t, func() bool { return mh.Live() == 0 })
}
