// Package weburl turns address-bar input into loadable URLs.
package weburl

import (
	"net/url"
	"strings"

	"github.com/entrhq/hypergx/pkg/settings"
)

// schemes that are loaded as typed instead of being prefixed with https://
var passthroughPrefixes = []string{
	"about:",
	"chrome:",
	"data:",
	"file:",
	"mailto:",
	"view-source:",
}

// Normalize trims input and prefixes https:// when no scheme is present.
// Empty input returns "".
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if HasScheme(s) {
		return s
	}
	return "https://" + s
}

// HasScheme reports whether s already names a scheme the host can load.
func HasScheme(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return true
	}
	for _, p := range passthroughPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// SearchURL builds the results URL for query on engine.
// Unknown engines fall back to Google.
func SearchURL(engine settings.SearchEngine, query string) string {
	q := url.QueryEscape(strings.TrimSpace(query))
	if engine == settings.EngineBing {
		return "https://www.bing.com/search?q=" + q
	}
	return "https://www.google.com/search?q=" + q
}

// LooksLikeAddress reports whether start-page input should be opened as
// a location rather than searched.
func LooksLikeAddress(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	if HasScheme(s) {
		return true
	}
	host := s
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if host == "localhost" || strings.HasPrefix(host, "localhost:") {
		return true
	}
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1
}

// Target resolves typed input to the URL it leads to: the input itself
// when it looks like an address, otherwise a results page on engine.
// Blank input yields "".
func Target(engine settings.SearchEngine, input string) string {
	q := strings.TrimSpace(input)
	if q == "" {
		return ""
	}
	if LooksLikeAddress(q) {
		return Normalize(q)
	}
	return SearchURL(engine, q)
}

// Display strips the scheme and a trailing slash for compact rendering.
func Display(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	out := u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return strings.TrimSuffix(out, "/")
}

// Host returns the host part of raw, or "" if raw has none.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
