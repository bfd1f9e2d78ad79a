package memhost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/tabs"
)

func collect(t *testing.T, ch <-chan tabs.Event, n int) []tabs.Event {
	t.Helper()
	var out []tabs.Event
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestView_LoadEmitsEvents(t *testing.T) {
	h := New(WithTitle("https://go.dev", "The Go Programming Language"))
	v, err := h.Open(context.Background())
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, "about:blank", v.URL())
	v.LoadURL("https://go.dev")

	evs := collect(t, v.Events(), 3)
	assert.Equal(t, tabs.NavigationCommitted("https://go.dev"), evs[0])
	assert.Equal(t, tabs.TitleChanged("The Go Programming Language"), evs[1])
	assert.Equal(t, tabs.FaviconDiscovered("https://go.dev/favicon.ico"), evs[2])
	assert.Equal(t, "https://go.dev", v.URL())
}

func TestView_History(t *testing.T) {
	h := New()
	v, err := h.Open(context.Background())
	require.NoError(t, err)
	defer v.Close()

	v.LoadURL("https://a.example")
	v.LoadURL("https://b.example")
	v.GoBack()
	collect(t, v.Events(), 9)
	assert.Equal(t, "https://a.example", v.URL())

	v.GoForward()
	collect(t, v.Events(), 3)
	assert.Equal(t, "https://b.example", v.URL())
}

func TestView_Failure(t *testing.T) {
	h := New(WithFailure("https://down.example", "connection refused"))
	v, err := h.Open(context.Background())
	require.NoError(t, err)
	defer v.Close()

	v.LoadURL("https://down.example")
	evs := collect(t, v.Events(), 1)
	assert.Equal(t, tabs.EventNavigationFailed, evs[0].Type)
	assert.Equal(t, "connection refused", evs[0].Reason)
	assert.Equal(t, "about:blank", v.URL())
}

func TestHost_CloseClosesViews(t *testing.T) {
	h := New()
	v, err := h.Open(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, h.Live())

	require.NoError(t, h.Close())
	assert.Equal(t, 0, h.Live())
	assert.True(t, v.(*View).Closed())

	_, ok := <-v.Events()
	assert.False(t, ok)

	_, err = h.Open(context.Background())
	assert.ErrorIs(t, err, host.ErrClosed)
}
