// Package memhost is an in-process content host. It keeps a history per
// view and answers navigation with the same events a real browser would,
// without rendering anything.
package memhost

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/tabs"
)

// Host creates simulated views.
type Host struct {
	mu     sync.Mutex
	titles map[string]string
	fail   map[string]string
	views  map[*View]struct{}
	opened int
	logger *logging.Logger
	closed bool
}

// Option configures a Host.
type Option func(*Host)

// WithTitle makes pages at url report title.
func WithTitle(u, title string) Option {
	return func(h *Host) { h.titles[u] = title }
}

// WithFailure makes navigation to url fail with reason.
func WithFailure(u, reason string) Option {
	return func(h *Host) { h.fail[u] = reason }
}

// New creates a simulated host.
func New(opts ...Option) *Host {
	h := &Host{
		titles: make(map[string]string),
		fail:   make(map[string]string),
		views:  make(map[*View]struct{}),
		logger: logging.NewLogger("memhost"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name identifies the backend.
func (h *Host) Name() string { return "memory" }

// Open mounts a view on about:blank.
func (h *Host) Open(ctx context.Context) (host.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, host.ErrClosed
	}
	v := &View{
		host:     h,
		history:  []string{"about:blank"},
		queue:    host.NewCommandQueue(),
		events:   host.NewEventStream(),
		location: "about:blank",
	}
	h.views[v] = struct{}{}
	h.opened++
	h.logger.Debugf("opened view %d", h.opened)
	return v, nil
}

// Opened returns how many views were ever opened.
func (h *Host) Opened() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opened
}

// Live returns how many views are still open.
func (h *Host) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.views)
}

// Close closes every view.
func (h *Host) Close() error {
	h.mu.Lock()
	views := make([]*View, 0, len(h.views))
	for v := range h.views {
		views = append(views, v)
	}
	h.closed = true
	h.mu.Unlock()

	for _, v := range views {
		_ = v.Close()
	}
	return nil
}

func (h *Host) forget(v *View) {
	h.mu.Lock()
	delete(h.views, v)
	h.mu.Unlock()
}

func (h *Host) lookup(u string) (title string, failure string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if reason, ok := h.fail[u]; ok {
		return "", reason
	}
	if t, ok := h.titles[u]; ok {
		return t, ""
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
		return strings.TrimPrefix(parsed.Hostname(), "www."), ""
	}
	return u, ""
}

// View is a simulated tab with back/forward history.
type View struct {
	host   *Host
	queue  *host.CommandQueue
	events *host.EventStream

	mu       sync.Mutex
	history  []string
	cursor   int
	location string
	title    string
	loads    []string
	closed   bool
}

// LoadURL navigates, truncating forward history.
func (v *View) LoadURL(u string) {
	v.queue.Push(func() {
		v.mu.Lock()
		v.loads = append(v.loads, u)
		v.mu.Unlock()

		if !v.commit(u) {
			return
		}
		v.mu.Lock()
		v.history = append(v.history[:v.cursor+1], u)
		v.cursor = len(v.history) - 1
		v.mu.Unlock()
	})
}

// GoBack moves one entry back in history.
func (v *View) GoBack() {
	v.queue.Push(func() { v.step(-1) })
}

// GoForward moves one entry forward in history.
func (v *View) GoForward() {
	v.queue.Push(func() { v.step(1) })
}

// Reload re-commits the current entry.
func (v *View) Reload() {
	v.queue.Push(func() {
		v.commit(v.URL())
	})
}

func (v *View) step(delta int) {
	v.mu.Lock()
	next := v.cursor + delta
	if next < 0 || next >= len(v.history) {
		v.mu.Unlock()
		return
	}
	v.cursor = next
	u := v.history[next]
	v.mu.Unlock()
	v.commit(u)
}

// commit emits the events of a successful or failed navigation.
func (v *View) commit(u string) bool {
	title, failure := v.host.lookup(u)
	if failure != "" {
		v.events.Emit(tabs.NavigationFailed(u, failure))
		return false
	}

	v.mu.Lock()
	v.location = u
	v.title = title
	v.mu.Unlock()

	v.events.Emit(tabs.NavigationCommitted(u))
	v.events.Emit(tabs.TitleChanged(title))
	if parsed, err := url.Parse(u); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		v.events.Emit(tabs.FaviconDiscovered(parsed.Scheme + "://" + parsed.Host + "/favicon.ico"))
	}
	return true
}

// URL returns the committed location.
func (v *View) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.location
}

// Title returns the committed title.
func (v *View) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

// Loads returns every URL passed to LoadURL, in order.
func (v *View) Loads() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.loads...)
}

// Events delivers navigation events.
func (v *View) Events() <-chan tabs.Event {
	return v.events.C()
}

// Close stops the view. Pending commands are dropped.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	v.queue.Stop()
	v.events.Close()
	v.host.forget(v)
	return nil
}

// Closed reports whether Close has run.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
