package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultListen = "127.0.0.1:7420"

func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the shell without the TUI, driven by the control API",
		Long: `Serve keeps the tabs and the content host running and exposes them on the
control API only. Use it to script the browser or to drive it from another
front end. The address defaults to ` + defaultListen + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if cfg.Listen == "" {
				cfg.Listen = defaultListen
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "HyperGX control API on http://%s (docs at /docs)\n", cfg.Listen)
			return a.serveControl(ctx)
		},
	}
}
