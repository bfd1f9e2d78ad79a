// Package tui provides the terminal front end of the HyperGX shell.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle and change notifications
// - model.go: core model structure and state
// - update.go: Bubble Tea Update function and key routing
// - view.go: Bubble Tea View function and overlay layering
// - chrome.go: tab bar, address bar, sidebar and status bar
// - startpage.go: search, speed dial, GX Control and module cards
// - overlay.go: overlay stack and placement
// - styles.go: shared styles
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/shell/tui/types"
)

// notifyBuffer bounds pending change notifications. They only wake the
// model, which re-reads state on every Update, so dropping extras is
// harmless.
const notifyBuffer = 16

// Executor runs the shell in the terminal.
type Executor struct {
	ctrl    *shell.Controller
	program *tea.Program
	logger  *logging.Logger
}

// NewExecutor creates a TUI executor for the controller.
func NewExecutor(ctrl *shell.Controller) *Executor {
	return &Executor{
		ctrl:   ctrl,
		logger: logging.NewLogger("tui"),
	}
}

// Run starts the TUI and blocks until the user quits or ctx ends.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.Infof("TUI starting")

	m := newModel(e.ctrl, e.logger)
	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Registry and store callbacks may run inside Update, where
	// program.Send would block; route them through a buffered channel.
	notify := make(chan tea.Msg, notifyBuffer)
	post := func(msg tea.Msg) {
		select {
		case notify <- msg:
		default:
		}
	}
	unsubTabs := e.ctrl.Tabs().Registry().Subscribe(func() { post(types.TabsChangedMsg{}) })
	unsubSettings := e.ctrl.Settings().Subscribe(func(s settings.State) { post(types.SettingsChangedMsg{State: s}) })
	defer unsubTabs()
	defer unsubSettings()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case msg := <-notify:
				e.program.Send(msg)
			case <-done:
				return
			}
		}
	}()

	_, err := e.program.Run()
	close(done)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	e.logger.Infof("TUI stopped")
	return nil
}
