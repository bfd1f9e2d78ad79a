// Package host defines the content-host contract the shell renders pages
// through, plus the plumbing shared by every backend: a FIFO command
// queue per view and a per-view event stream.
//
// Backends live in sub-packages:
//
//	pwhost  - pages in a playwright-launched Chromium
//	cdphost - targets of an already running Chromium, over CDP
//	memhost - a simulated host for tests and offline use
package host

import (
	"context"
	"errors"

	"github.com/entrhq/hypergx/pkg/tabs"
)

// ErrClosed is returned by Open once the host has been closed.
var ErrClosed = errors.New("content host is closed")

// View is one mounted content view. Commands are fire-and-forget and
// executed in the order issued; their outcome arrives on Events.
type View interface {
	tabs.View

	// Events delivers host notifications in FIFO order. The channel is
	// closed by Close.
	Events() <-chan tabs.Event

	// Close releases the view. Safe to call more than once.
	Close() error
}

// Host creates content views.
type Host interface {
	// Name identifies the backend in logs and the status line.
	Name() string

	// Open mounts a new view. The view starts on about:blank; the tab
	// registry reconciles it to the declared URL on bind.
	Open(ctx context.Context) (View, error)

	// Close releases every view and the underlying browser. Open fails
	// with ErrClosed afterwards.
	Close() error
}
