package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/entrhq/hypergx/pkg/config"
	"github.com/entrhq/hypergx/pkg/control"
	"github.com/entrhq/hypergx/pkg/host"
	"github.com/entrhq/hypergx/pkg/host/cdphost"
	"github.com/entrhq/hypergx/pkg/host/memhost"
	"github.com/entrhq/hypergx/pkg/host/pwhost"
	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/shell"
	"github.com/entrhq/hypergx/pkg/sound"
	"github.com/entrhq/hypergx/pkg/tabs"
	"github.com/entrhq/hypergx/pkg/workspace"
)

// app is the wired shell: settings, tabs over a content host, and the
// controller the front ends drive.
type app struct {
	cfg    *config.Config
	store  *settings.Store
	ws     *workspace.Workspace
	ctrl   *shell.Controller
	logger *logging.Logger
}

// openStore opens the persisted settings under the data dir.
func openStore(cfg *config.Config) (*settings.Store, error) {
	fs, err := settings.NewFileStore(cfg.SettingsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	store, err := settings.Open(fs)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newHost builds the content host selected by the config.
func newHost(cfg *config.Config) host.Host {
	switch cfg.Host {
	case config.HostCDP:
		return cdphost.New(cfg.CDPURL, cfg.NavigationTimeout)
	case config.HostMemory:
		return memhost.New()
	default:
		return pwhost.New(pwhost.Options{
			Headless:    cfg.Headless,
			Install:     cfg.InstallBrowser,
			UserDataDir: cfg.ProfileDir(),
			Width:       cfg.Viewport.Width,
			Height:      cfg.Viewport.Height,
			Timeout:     float64(cfg.NavigationTimeout.Milliseconds()),
		})
	}
}

func newApp(cfg *config.Config) (*app, error) {
	if err := logging.Setup(cfg.LogDir(), cfg.Level()); err != nil {
		// Logging stays on stderr; the TUI still starts.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger := logging.NewLogger("main")
	logger.Infof("hypergx %s starting (host=%s, data_dir=%s)", version, cfg.Host, cfg.DataDir)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	router, err := host.NewExternalRouter(cfg.ExternalPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid external_patterns: %w", err)
	}

	reg := tabs.NewRegistry(
		tabs.WithHome(cfg.HomeURL, cfg.HomeTitle),
		tabs.WithNewTabURL(cfg.NewTabURL),
	)
	player := sound.New(func() bool { return store.State().ThemeSounds })
	ws := workspace.New(reg, newHost(cfg),
		workspace.WithExternalRouter(router),
		workspace.WithMountTimeout(cfg.NavigationTimeout),
		workspace.WithMountFailureHandler(mountFailureNotifier(player)),
	)
	ws.Start()

	ctrl := shell.New(ws, store, shell.WithSound(player))

	return &app{cfg: cfg, store: store, ws: ws, ctrl: ctrl, logger: logger}, nil
}

// mountFailureNotifier raises a desktop notification for the first view
// that fails to mount; later failures usually share its cause and only
// go to the log.
func mountFailureNotifier(p *sound.Player) func(id string, err error) {
	var once sync.Once
	return func(id string, err error) {
		once.Do(func() {
			_ = p.Notify("HyperGX", fmt.Sprintf("Could not load a tab: %v", err))
		})
	}
}

// runFront runs front, with the control API alongside when one is
// configured. The API is stopped and waited for before runFront returns,
// so the caller can close the app afterwards.
func (a *app) runFront(ctx context.Context, front func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	served := make(chan struct{})
	if a.cfg.Listen == "" {
		close(served)
	} else {
		go func() {
			defer close(served)
			_ = a.serveControl(ctx)
		}()
	}

	err := front(ctx)
	cancel()
	<-served
	return err
}

// serveControl runs the control API until ctx ends. Failures are logged;
// the shell keeps running without the API.
func (a *app) serveControl(ctx context.Context) error {
	srv := control.New(a.ws, a.store)
	defer srv.Close()
	if err := srv.ListenAndServe(ctx, a.cfg.Listen); err != nil {
		a.logger.Errorf("control API failed: %v", err)
		return err
	}
	return nil
}

// Close shuts the workspace and flushes the log file.
func (a *app) Close() {
	for _, err := range a.ws.Errors() {
		a.logger.Warnf("content host: %v", err)
	}
	if err := a.ws.Close(); err != nil {
		a.logger.Warnf("failed to close content host: %v", err)
	}
	a.logger.Infof("hypergx stopped")
	_ = logging.Shutdown()
}
