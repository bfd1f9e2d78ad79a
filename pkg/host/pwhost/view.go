package pwhost

import (
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/hypergx/pkg/favicon"
	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/tabs"
)

// View is one playwright page.
//
// Playwright delivers page events on its dispatcher goroutine, and calling
// back into the page from there blocks the dispatcher. Every page call
// therefore goes through the command queue, including the title and
// favicon lookups triggered by a load event.
type View struct {
	page    playwright.Page
	queue   *host.CommandQueue
	events  *host.EventStream
	logger  *logging.Logger
	release func(*View)

	mu     sync.Mutex
	title  string
	closed bool
}

func newView(page playwright.Page, logger *logging.Logger, release func(*View)) *View {
	v := &View{
		page:    page,
		queue:   host.NewCommandQueue(),
		events:  host.NewEventStream(),
		logger:  logger,
		release: release,
	}

	page.OnFrameNavigated(func(f playwright.Frame) {
		if f.ParentFrame() != nil {
			return
		}
		v.events.Emit(tabs.NavigationCommitted(f.URL()))
	})
	page.OnLoad(func(playwright.Page) {
		v.queue.Push(v.inspect)
	})
	page.OnClose(func(playwright.Page) {
		v.logger.Debugf("page closed")
	})
	return v
}

// inspect reads the title and favicon candidates of the loaded document.
func (v *View) inspect() {
	title, err := v.page.Title()
	if err != nil {
		v.logger.Debugf("failed to read title: %v", err)
		return
	}
	v.mu.Lock()
	v.title = title
	v.mu.Unlock()
	v.events.Emit(tabs.TitleChanged(title))

	content, err := v.page.Content()
	if err != nil {
		v.logger.Debugf("failed to read content: %v", err)
		return
	}
	if candidates := favicon.Discover(v.page.URL(), content); len(candidates) > 0 {
		v.events.Emit(tabs.FaviconDiscovered(candidates...))
	}
}

// LoadURL navigates the page. Only the commit is awaited; the load event
// arrives later.
func (v *View) LoadURL(u string) {
	v.queue.Push(func() {
		_, err := v.page.Goto(u, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateCommit,
		})
		if err != nil {
			v.logger.Warnf("navigation to %s failed: %v", u, err)
			v.events.Emit(tabs.NavigationFailed(u, err.Error()))
		}
	})
}

// GoBack navigates one entry back.
func (v *View) GoBack() {
	v.queue.Push(func() {
		if _, err := v.page.GoBack(playwright.PageGoBackOptions{WaitUntil: playwright.WaitUntilStateCommit}); err != nil {
			v.logger.Debugf("back failed: %v", err)
		}
	})
}

// GoForward navigates one entry forward.
func (v *View) GoForward() {
	v.queue.Push(func() {
		if _, err := v.page.GoForward(playwright.PageGoForwardOptions{WaitUntil: playwright.WaitUntilStateCommit}); err != nil {
			v.logger.Debugf("forward failed: %v", err)
		}
	})
}

// Reload reloads the page.
func (v *View) Reload() {
	v.queue.Push(func() {
		if _, err := v.page.Reload(playwright.PageReloadOptions{WaitUntil: playwright.WaitUntilStateCommit}); err != nil {
			v.logger.Debugf("reload failed: %v", err)
		}
	})
}

// URL returns the page location as last reported by the browser.
func (v *View) URL() string {
	return v.page.URL()
}

// Title returns the title read after the last load.
func (v *View) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

// Events delivers navigation events.
func (v *View) Events() <-chan tabs.Event {
	return v.events.C()
}

// Close closes the page, aborting any navigation in flight.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	err := v.page.Close()
	v.queue.Stop()
	v.events.Close()
	if v.release != nil {
		v.release(v)
	}
	return err
}
