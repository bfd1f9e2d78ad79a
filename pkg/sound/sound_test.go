package sound

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/hypergx/pkg/logging"
)

type beepCall struct {
	freq float64
	ms   int
}

func newTestPlayer(enabled *bool) (*Player, chan beepCall) {
	calls := make(chan beepCall, 8)
	p := New(func() bool { return *enabled },
		WithLogger(logging.NewWithWriter("sound", io.Discard, logging.LevelError)),
		WithBeeper(func(freq float64, ms int) error {
			calls <- beepCall{freq, ms}
			return nil
		}),
	)
	return p, calls
}

func TestPlay_RespectsSetting(t *testing.T) {
	enabled := false
	p, calls := newTestPlayer(&enabled)

	p.Play(CueTabOpen)
	select {
	case <-calls:
		t.Fatal("played while disabled")
	case <-time.After(30 * time.Millisecond):
	}

	enabled = true
	p.Play(CueTabClose)
	select {
	case c := <-calls:
		assert.Equal(t, beepCall{440, 40}, c)
	case <-time.After(time.Second):
		t.Fatal("expected a beep")
	}
}

func TestPlay_NilPlayer(t *testing.T) {
	var p *Player
	assert.NotPanics(t, func() { p.Play(CueToggle) })
	assert.NoError(t, p.Notify("HyperGX", "x"))
}

func TestNotify(t *testing.T) {
	enabled := false
	p, _ := newTestPlayer(&enabled)

	var gotTitle, gotMessage string
	p.notify = func(title, message string, icon any) error {
		gotTitle, gotMessage = title, message
		return nil
	}
	assert.NoError(t, p.Notify("HyperGX", "Settings imported"))
	assert.Equal(t, "HyperGX", gotTitle)
	assert.Equal(t, "Settings imported", gotMessage)

	p.notify = func(string, string, any) error { return errors.New("no dbus") }
	assert.Error(t, p.Notify("HyperGX", "x"))
}
