package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/hypergx/pkg/config"
	"github.com/entrhq/hypergx/pkg/shell/tui"
)

// flags holds command-line overrides applied on top of the loaded config.
type flags struct {
	configPath string
	listen     string
	host       string
	headless   bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "hypergx",
		Short: "Terminal start page and tab shell for a Chromium browser",
		Long: `HyperGX is a terminal shell around a Chromium browser: tabs, an address
bar and a start page with search, speed dial, GX Control limits and themes.
Pages render in the browser window driven by playwright, or in an existing
Chromium reached over the DevTools protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate(versionTemplate())

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to config file (default <data_dir>/config.yaml)")
	pf.StringVar(&f.listen, "listen", "", "Serve the control API on this address, e.g. 127.0.0.1:7420")
	pf.StringVar(&f.host, "host", "", "Content host: playwright, cdp or memory")
	pf.BoolVar(&f.headless, "headless", false, "Run the browser without a window")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(newServeCmd(f), newSettingsCmd(f))
	return root
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("hypergx %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("hypergx %s\n", version)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	fs := cmd.Flags()
	if fs.Changed("listen") {
		cfg.Listen = f.listen
	}
	if fs.Changed("host") {
		cfg.Host = config.HostKind(f.host)
	}
	if fs.Changed("headless") {
		cfg.Headless = f.headless
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, f *flags) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.runFront(ctx, tui.NewExecutor(a.ctrl).Run)
}
