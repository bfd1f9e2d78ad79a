// Package main provides the HyperGX terminal shell: a tabbed start page
// with speed dial, GX Control limits and theme settings, driving a real
// browser through playwright or the DevTools protocol.
package main

import (
	"fmt"
	"os"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
