package host

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
)

// Opener hands a URL to something outside the shell.
type Opener interface {
	OpenExternal(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// OpenExternal calls f.
func (f OpenerFunc) OpenExternal(url string) error { return f(url) }

// SystemOpener opens URLs with the platform's default handler.
type SystemOpener struct{}

// OpenExternal starts the platform handler and does not wait for it.
func (SystemOpener) OpenExternal(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "mailto:") {
		return fmt.Errorf("refusing to open %q externally: unsupported scheme", url)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// ExternalRouter decides which URLs bypass the content host.
type ExternalRouter struct {
	patterns []glob.Glob
	sources  []string
}

// NewExternalRouter compiles glob patterns such as "*://zoom.us/*".
// '.' and '/' are not separators, so '*' spans the whole URL.
func NewExternalRouter(patterns []string) (*ExternalRouter, error) {
	r := &ExternalRouter{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid external pattern '%s': %w", pattern, err)
		}
		r.patterns = append(r.patterns, g)
		r.sources = append(r.sources, pattern)
	}
	return r, nil
}

// IsExternal reports whether url matches any pattern.
func (r *ExternalRouter) IsExternal(url string) bool {
	if r == nil {
		return false
	}
	for _, g := range r.patterns {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (r *ExternalRouter) Patterns() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.sources...)
}
