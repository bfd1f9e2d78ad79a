// Package sound plays the shell's theme sounds and desktop notifications.
// It uses the beeep library, which speaks to the platform audio and
// notification services on macOS, Linux, and Windows.
package sound

import (
	"github.com/gen2brain/beeep"

	"github.com/entrhq/hypergx/pkg/logging"
)

// Cue names a UI moment that has a sound.
type Cue int

const (
	CueTabOpen Cue = iota
	CueTabClose
	CueToggle
	CueError
)

// tone is the frequency (Hz) and length (ms) of each cue.
var tones = map[Cue]struct {
	freq float64
	ms   int
}{
	CueTabOpen:  {freq: 880, ms: 40},
	CueTabClose: {freq: 440, ms: 40},
	CueToggle:   {freq: 660, ms: 25},
	CueError:    {freq: beeep.DefaultFreq, ms: 120},
}

// Player plays cues while enabled reports true.
type Player struct {
	enabled func() bool
	beep    func(freq float64, duration int) error
	notify  func(title, message string, icon any) error
	logger  *logging.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithBeeper replaces the platform beep, e.g. in tests.
func WithBeeper(fn func(freq float64, duration int) error) Option {
	return func(p *Player) { p.beep = fn }
}

// WithNotifier replaces the platform notification call.
func WithNotifier(fn func(title, message string, icon any) error) Option {
	return func(p *Player) { p.notify = fn }
}

// WithLogger overrides the player logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// New creates a player. enabled is consulted on every cue, typically
// reading the themeSounds setting.
func New(enabled func() bool, opts ...Option) *Player {
	p := &Player{
		enabled: enabled,
		beep:    beeep.Beep,
		notify:  beeep.Notify,
		logger:  logging.NewLogger("sound"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play sounds c in the background when sounds are enabled.
func (p *Player) Play(c Cue) {
	if p == nil || p.enabled == nil || !p.enabled() {
		return
	}
	t, ok := tones[c]
	if !ok {
		return
	}
	go func() {
		if err := p.beep(t.freq, t.ms); err != nil {
			p.logger.Debugf("beep failed: %v", err)
		}
	}()
}

// Notify shows a desktop notification. It is not gated by the sound
// setting.
func (p *Player) Notify(title, message string) error {
	if p == nil {
		return nil
	}
	p.logger.Debugf("notification: title=%q, message=%q", title, message)
	// Empty icon lets beeep pick the platform default.
	err := p.notify(title, message, "")
	if err != nil {
		p.logger.Warnf("failed to send notification: %v", err)
	}
	return err
}
