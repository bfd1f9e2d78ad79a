// Package pwhost renders tabs as pages of a playwright-launched Chromium.
// All pages share one browser and one browser context, so cookies and
// storage behave like a single browser profile.
package pwhost

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
)

// Default page settings.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultTimeout        = 30000.0
)

// Options configures the browser launch.
type Options struct {
	Headless bool
	// Install downloads the browser driver on first start.
	Install bool
	// UserDataDir keeps a persistent profile when set.
	UserDataDir string
	Width       int
	Height      int
	// Timeout is the per-navigation timeout in milliseconds.
	Timeout float64
}

// Host owns the playwright driver, the browser and every open view.
type Host struct {
	mu          sync.Mutex
	opts        Options
	pw          *playwright.Playwright
	browser     playwright.Browser
	bctx        playwright.BrowserContext
	views       map[*View]struct{}
	initialized bool
	closed      bool
	logger      *logging.Logger
}

// New creates a host. The browser starts lazily on the first Open.
func New(opts Options) *Host {
	if opts.Width == 0 {
		opts.Width = DefaultViewportWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultViewportHeight
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Host{
		opts:   opts,
		views:  make(map[*View]struct{}),
		logger: logging.NewLogger("pwhost"),
	}
}

// Name identifies the backend.
func (h *Host) Name() string { return "playwright" }

// initLocked starts the driver and the browser context.
func (h *Host) initLocked() error {
	if h.initialized {
		return nil
	}

	// Keep driver output off the terminal, the TUI owns it.
	runOpts := &playwright.RunOptions{
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Browsers: []string{"chromium"},
	}
	if h.opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	viewport := &playwright.Size{Width: h.opts.Width, Height: h.opts.Height}

	if h.opts.UserDataDir != "" {
		bctx, err := pw.Chromium.LaunchPersistentContext(h.opts.UserDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(h.opts.Headless),
			Viewport: viewport,
		})
		if err != nil {
			_ = pw.Stop()
			return fmt.Errorf("failed to launch persistent context: %w", err)
		}
		h.pw, h.bctx = pw, bctx
	} else {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(h.opts.Headless),
		})
		if err != nil {
			_ = pw.Stop()
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{Viewport: viewport})
		if err != nil {
			browser.Close()
			_ = pw.Stop()
			return fmt.Errorf("failed to create context: %w", err)
		}
		h.pw, h.browser, h.bctx = pw, browser, bctx
	}

	h.bctx.SetDefaultNavigationTimeout(h.opts.Timeout)
	h.initialized = true
	h.logger.Infof("chromium started (headless=%t)", h.opts.Headless)
	return nil
}

// Open creates a page and wraps it as a view.
func (h *Host) Open(ctx context.Context) (host.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// A closed host must not relaunch the browser for a late mount.
	if h.closed {
		return nil, host.ErrClosed
	}
	if err := h.initLocked(); err != nil {
		return nil, err
	}

	page, err := h.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	v := newView(page, h.logger, func(v *View) {
		h.mu.Lock()
		delete(h.views, v)
		h.mu.Unlock()
	})
	h.views[v] = struct{}{}
	return v, nil
}

// Close closes all views and stops the browser and driver.
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

	if !h.initialized {
		return nil
	}

	var errs []error
	if err := h.bctx.Close(); err != nil {
		errs = append(errs, err)
	}
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	h.initialized = false

	if len(errs) > 0 {
		return fmt.Errorf("errors closing browser: %v", errs)
	}
	return nil
}
