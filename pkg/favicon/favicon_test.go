package favicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `<html><head>
		<title> GitHub </title>
		<link rel="stylesheet" href="/main.css">
		<link rel="icon" href="/fav/a.svg">
		<link rel="Shortcut Icon" href="https://cdn.example/b.ico">
		<link rel="apple-touch-icon" href="touch.png">
		<link rel="icon" href="/fav/a.svg">
	</head><body></body></html>`

	page, err := Parse("https://github.com/entrhq/", doc)
	require.NoError(t, err)

	assert.Equal(t, "GitHub", page.Title)
	assert.Equal(t, []string{
		"https://github.com/fav/a.svg",
		"https://cdn.example/b.ico",
		"https://github.com/entrhq/touch.png",
		"https://github.com/favicon.ico",
	}, page.Candidates)
}

func TestDiscover_FallbackOnly(t *testing.T) {
	got := Discover("https://example.com/a/b", "<html><head></head></html>")
	assert.Equal(t, []string{"https://example.com/favicon.ico"}, got)
}

func TestDiscover_NonHTTPBaseHasNoFallback(t *testing.T) {
	assert.Empty(t, Discover("about:blank", "<html></html>"))
}

func TestParse_InvalidBase(t *testing.T) {
	_, err := Parse("://bad", "<html></html>")
	assert.Error(t, err)
}
