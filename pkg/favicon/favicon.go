// Package favicon extracts favicon candidates from a loaded document.
package favicon

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Page is what the host learns about a document after it loads.
type Page struct {
	Title      string
	Candidates []string
}

// Parse reads rawHTML and returns the document title and favicon
// candidates resolved against baseURL. Candidates keep document order,
// with /favicon.ico appended as a last resort for http(s) pages.
func Parse(baseURL, rawHTML string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	page := &Page{Title: extractTitle(doc)}
	seen := make(map[string]struct{})
	add := func(href string) {
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || href == "" {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		page.Candidates = append(page.Candidates, abs)
	}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || !strings.EqualFold(n.Data, "link") {
			return
		}
		if isIconRel(attr(n, "rel")) {
			add(attr(n, "href"))
		}
	})

	if base.Scheme == "http" || base.Scheme == "https" {
		add("/favicon.ico")
	}
	return page, nil
}

// Discover returns just the favicon candidates of rawHTML.
func Discover(baseURL, rawHTML string) []string {
	page, err := Parse(baseURL, rawHTML)
	if err != nil {
		return nil
	}
	return page.Candidates
}

func isIconRel(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "icon" || token == "apple-touch-icon" || token == "mask-icon" {
			return true
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// extractTitle finds the text of the first <title> element.
func extractTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := extractTitle(c); title != "" {
			return title
		}
	}
	return ""
}
