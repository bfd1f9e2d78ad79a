// Package cdphost renders tabs as page targets of an already running
// Chromium reached over the DevTools protocol, e.g. one started with
// --remote-debugging-port=9222.
package cdphost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
)

// DefaultCommandTimeout bounds each CDP command issued for a view.
const DefaultCommandTimeout = 30 * time.Second

// Host creates one page target per view on a remote browser.
type Host struct {
	mu          sync.Mutex
	url         string
	timeout     time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
	views       map[*View]struct{}
	closed      bool
	logger      *logging.Logger
}

// New creates a host for the browser at cdpURL (ws:// or http://).
func New(cdpURL string, timeout time.Duration) *Host {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &Host{
		url:     cdpURL,
		timeout: timeout,
		views:   make(map[*View]struct{}),
		logger:  logging.NewLogger("cdphost"),
	}
}

// Name identifies the backend.
func (h *Host) Name() string { return "cdp" }

// Connect checks the browser is reachable. Open connects lazily as well.
func (h *Host) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connectLocked(ctx)
}

func (h *Host) connectLocked(ctx context.Context) error {
	if h.closed {
		return host.ErrClosed
	}
	if h.allocCtx != nil {
		return nil
	}
	h.logger.Infof("connecting to chromium at %s", h.url)
	h.allocCtx, h.allocCancel = chromedp.NewRemoteAllocator(context.Background(), h.url)

	checkCtx, checkCancel := chromedp.NewContext(h.allocCtx)
	defer checkCancel()

	runCtx, cancel := context.WithTimeout(checkCtx, h.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	targets, err := chromedp.Targets(runCtx)
	if err != nil {
		h.allocCancel()
		h.allocCtx, h.allocCancel = nil, nil
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	h.logger.Infof("connected, %d existing targets", len(targets))
	return nil
}

// Open creates a fresh page target and attaches to it.
func (h *Host) Open(ctx context.Context) (host.View, error) {
	h.mu.Lock()
	if err := h.connectLocked(ctx); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	allocCtx := h.allocCtx
	h.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	runCtx, cancel := context.WithTimeout(tabCtx, h.timeout)
	defer cancel()
	if err := chromedp.Run(runCtx, page.Enable()); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to create page target: %w", err)
	}

	v := newView(tabCtx, tabCancel, h.timeout, h.logger, func(v *View) {
		h.mu.Lock()
		delete(h.views, v)
		h.mu.Unlock()
	})

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = v.Close()
		return nil, host.ErrClosed
	}
	h.views[v] = struct{}{}
	h.mu.Unlock()

	h.logger.Debugf("attached to target %s", v.TargetID())
	return v, nil
}

// Close closes every target this host created and drops the connection.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	views := make([]*View, 0, len(h.views))
	for v := range h.views {
		views = append(views, v)
	}
	h.mu.Unlock()

	for _, v := range views {
		_ = v.Close()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.allocCancel != nil {
		h.allocCancel()
		h.allocCtx, h.allocCancel = nil, nil
	}
	h.logger.Infof("cdp host closed")
	return nil
}
