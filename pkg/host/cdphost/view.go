package cdphost

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/entrhq/hypergx/pkg/favicon"
	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/tabs"
)

// View is one CDP page target. Target events arrive on chromedp's
// listener goroutine, where running actions would deadlock, so follow-up
// reads are pushed onto the command queue.
type View struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	queue   *host.CommandQueue
	events  *host.EventStream
	logger  *logging.Logger
	release func(*View)

	mu       sync.Mutex
	location string
	title    string
	closed   bool
}

func newView(ctx context.Context, cancel context.CancelFunc, timeout time.Duration, logger *logging.Logger, release func(*View)) *View {
	v := &View{
		ctx:      ctx,
		cancel:   cancel,
		timeout:  timeout,
		queue:    host.NewCommandQueue(),
		events:   host.NewEventStream(),
		logger:   logger,
		release:  release,
		location: "about:blank",
	}
	chromedp.ListenTarget(ctx, v.handleEvent)
	return v
}

func (v *View) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *page.EventFrameNavigated:
		if e.Frame.ParentID == "" {
			v.commit(e.Frame.URL)
		}
	case *page.EventNavigatedWithinDocument:
		v.commit(e.URL)
	case *page.EventLoadEventFired:
		v.queue.Push(v.inspect)
	}
}

func (v *View) commit(u string) {
	v.mu.Lock()
	v.location = u
	v.mu.Unlock()
	v.events.Emit(tabs.NavigationCommitted(u))
}

// run executes actions against the target with the command timeout.
func (v *View) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// inspect reads the title and favicon candidates after a load.
func (v *View) inspect() {
	var title, location, html string
	if err := v.run(
		chromedp.Title(&title),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		v.logger.Debugf("failed to inspect page: %v", err)
		return
	}

	v.mu.Lock()
	v.title = title
	v.mu.Unlock()
	v.events.Emit(tabs.TitleChanged(title))

	if candidates := favicon.Discover(location, html); len(candidates) > 0 {
		v.events.Emit(tabs.FaviconDiscovered(candidates...))
	}
}

// LoadURL navigates the target.
func (v *View) LoadURL(u string) {
	v.queue.Push(func() {
		if err := v.run(chromedp.Navigate(u)); err != nil {
			v.logger.Warnf("navigation to %s failed: %v", u, err)
			v.events.Emit(tabs.NavigationFailed(u, err.Error()))
		}
	})
}

// GoBack navigates one entry back.
func (v *View) GoBack() {
	v.queue.Push(func() {
		if err := v.run(chromedp.NavigateBack()); err != nil {
			v.logger.Debugf("back failed: %v", err)
		}
	})
}

// GoForward navigates one entry forward.
func (v *View) GoForward() {
	v.queue.Push(func() {
		if err := v.run(chromedp.NavigateForward()); err != nil {
			v.logger.Debugf("forward failed: %v", err)
		}
	})
}

// Reload reloads the target.
func (v *View) Reload() {
	v.queue.Push(func() {
		if err := v.run(chromedp.Reload()); err != nil {
			v.logger.Debugf("reload failed: %v", err)
		}
	})
}

// URL returns the last committed main-frame location.
func (v *View) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.location
}

// Title returns the title read after the last load.
func (v *View) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

// TargetID returns the DevTools target id, or "" before attach.
func (v *View) TargetID() string {
	if c := chromedp.FromContext(v.ctx); c != nil && c.Target != nil {
		return string(c.Target.TargetID)
	}
	return ""
}

// Events delivers navigation events.
func (v *View) Events() <-chan tabs.Event {
	return v.events.C()
}

// Close closes the target.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	v.queue.Stop()
	err := chromedp.Cancel(v.ctx)
	v.cancel()
	v.events.Close()
	if v.release != nil {
		v.release(v)
	}
	return err
}
