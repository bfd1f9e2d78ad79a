// Package workspace mounts content views for tabs. It owns the link
// between the tab registry and a content host: opening a tab mounts a
// view, every view gets a pump goroutine folding its events into the
// registry, and closing a tab closes its released view.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/tabs"
	"github.com/entrhq/hypergx/pkg/weburl"
)

// DefaultMountTimeout bounds Host.Open for one tab.
const DefaultMountTimeout = 30 * time.Second

// Workspace ties a tab registry to a content host.
type Workspace struct {
	registry *tabs.Registry
	host     host.Host
	opener   host.Opener
	router   *host.ExternalRouter
	logger   *logging.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	onFailure func(id string, err error)

	mu       sync.Mutex
	mounting map[string]struct{}
	failed   map[string]struct{}
	errs     []error
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithOpener sets the handler for external URLs.
func WithOpener(o host.Opener) Option {
	return func(w *Workspace) { w.opener = o }
}

// WithExternalRouter routes matching URLs to the opener instead of a tab.
func WithExternalRouter(r *host.ExternalRouter) Option {
	return func(w *Workspace) { w.router = r }
}

// WithMountTimeout overrides DefaultMountTimeout.
func WithMountTimeout(d time.Duration) Option {
	return func(w *Workspace) { w.timeout = d }
}

// WithMountFailureHandler calls fn, off the workspace lock, whenever a
// view fails to mount.
func WithMountFailureHandler(fn func(id string, err error)) Option {
	return func(w *Workspace) { w.onFailure = fn }
}

// WithLogger overrides the workspace logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// New creates a workspace. Call Start to mount the initial tabs.
func New(registry *tabs.Registry, h host.Host, opts ...Option) *Workspace {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		registry: registry,
		host:     h,
		opener:   host.SystemOpener{},
		logger:   logging.NewLogger("workspace"),
		timeout:  DefaultMountTimeout,
		ctx:      ctx,
		cancel:   cancel,
		mounting: make(map[string]struct{}),
		failed:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the tab registry.
func (w *Workspace) Registry() *tabs.Registry { return w.registry }

// HostName returns the content host backend name.
func (w *Workspace) HostName() string { return w.host.Name() }

// Start mounts a view for every tab that has none and keeps doing so for
// tabs created later, including the fallback tab the registry
// synthesizes when the last tab closes.
func (w *Workspace) Start() {
	w.registry.Subscribe(w.mountMissing)
	w.mountMissing()
}

// mountMissing starts a mount for each unbound, not yet mounting tab.
//
// The bound set is read under w.mu: mount binds before it clears its
// mounting entry under the same lock, so a tab is always seen as either
// bound or mounting.
func (w *Workspace) mountMissing() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}

	bound := w.registry.Views()
	for _, rec := range w.registry.Tabs() {
		if _, ok := bound[rec.ID]; ok {
			continue
		}
		if _, busy := w.mounting[rec.ID]; busy {
			continue
		}
		if _, gaveUp := w.failed[rec.ID]; gaveUp {
			continue
		}
		w.mounting[rec.ID] = struct{}{}
		w.wg.Add(1)
		go w.mount(rec.ID)
	}
}

// mount opens a view and binds it. The view is closed again when the
// workspace shut down during Open, the tab closed meanwhile or the tab
// already has a view.
func (w *Workspace) mount(id string) {
	defer w.wg.Done()
	defer func() {
		w.mu.Lock()
		delete(w.mounting, id)
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	view, err := w.host.Open(ctx)
	if err != nil {
		if w.ctx.Err() != nil {
			return
		}
		w.logger.Errorf("failed to mount view for %s: %v", id, err)
		w.mu.Lock()
		w.failed[id] = struct{}{}
		w.errs = append(w.errs, fmt.Errorf("mount %s: %w", id, err))
		w.mu.Unlock()
		if w.onFailure != nil {
			w.onFailure(id, err)
		}
		w.registry.OnHostEvent(id, tabs.NavigationFailed("", err.Error()))
		return
	}

	if w.ctx.Err() != nil {
		w.logger.Debugf("workspace closed while mounting %s", id)
		_ = view.Close()
		return
	}

	if !w.registry.BindView(id, view) {
		w.logger.Debugf("dropping view for %s: tab closed or already bound", id)
		_ = view.Close()
		return
	}

	// Events emitted before the pump starts wait in the view's buffer.
	w.wg.Add(1)
	go w.pump(id, view)
	w.logger.Debugf("mounted view for %s", id)
}

// pump folds a view's events into the registry until the view closes.
// When the workspace shuts down it closes the view itself, so a view the
// host no longer tracks cannot keep Close waiting.
func (w *Workspace) pump(id string, view host.View) {
	defer w.wg.Done()
	events := view.Events()
	done := w.ctx.Done()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !w.registry.OnHostEvent(id, ev) {
				w.logger.Debugf("dropped %s event for closed tab %s", ev.Type, id)
			}
		case <-done:
			done = nil
			// Close may wait on an emitter blocked on a full buffer, so keep
			// draining while it runs.
			go func() { _ = view.Close() }()
		}
	}
}

// Errors returns mount failures seen so far.
func (w *Workspace) Errors() []error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]error(nil), w.errs...)
}

// NewTab opens a tab at the default new-tab URL.
func (w *Workspace) NewTab() string {
	return w.registry.NewTab()
}

// OpenURL opens rawURL in a new tab, or hands it to the external opener
// when it matches an external pattern. It returns the new tab id, or ""
// when the URL went external.
func (w *Workspace) OpenURL(rawURL string) (string, error) {
	u := weburl.Normalize(rawURL)
	if u != "" && w.router.IsExternal(u) {
		return "", w.OpenExternal(u)
	}
	return w.registry.NewTabWithURL(u), nil
}

// Navigate loads rawInput in tab id, or opens it externally when it
// matches an external pattern.
func (w *Workspace) Navigate(id, rawInput string) (string, error) {
	u := weburl.Normalize(rawInput)
	if u == "" {
		return "", nil
	}
	if w.router.IsExternal(u) {
		return u, w.OpenExternal(u)
	}
	if _, ok := w.registry.Navigate(id, u); !ok {
		return "", fmt.Errorf("tab %q not found", id)
	}
	return u, nil
}

// NavigateActive navigates the active tab.
func (w *Workspace) NavigateActive(rawInput string) (string, error) {
	return w.Navigate(w.registry.ActiveID(), rawInput)
}

// CloseTab closes the tab and its view.
func (w *Workspace) CloseTab(id string) bool {
	view, ok := w.registry.CloseTab(id)
	if !ok {
		return false
	}
	if hv, isHost := view.(host.View); isHost && hv != nil {
		if err := hv.Close(); err != nil {
			w.logger.Warnf("failed to close view for %s: %v", id, err)
		}
	}
	return true
}

// CloseActive closes the active tab.
func (w *Workspace) CloseActive() bool {
	return w.CloseTab(w.registry.ActiveID())
}

// Back, Forward and Reload act on the active tab.
func (w *Workspace) Back() bool    { return w.registry.Back(w.registry.ActiveID()) }
func (w *Workspace) Forward() bool { return w.registry.Forward(w.registry.ActiveID()) }
func (w *Workspace) Reload() bool  { return w.registry.Reload(w.registry.ActiveID()) }

// OpenExternal hands u to the external opener.
func (w *Workspace) OpenExternal(rawURL string) error {
	u := weburl.Normalize(rawURL)
	if u == "" {
		return nil
	}
	w.logger.Infof("opening %s externally", u)
	if err := w.opener.OpenExternal(u); err != nil {
		w.logger.Warnf("external open failed: %v", err)
		return err
	}
	return nil
}

// Close stops mounting, closes the host and waits for pumps to drain.
func (w *Workspace) Close() error {
	// Cancel under w.mu so no mount starts once Wait may be running.
	w.mu.Lock()
	w.cancel()
	w.mu.Unlock()
	err := w.host.Close()
	w.wg.Wait()
	return err
}
