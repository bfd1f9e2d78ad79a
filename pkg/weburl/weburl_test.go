package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/hypergx/pkg/settings"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path  ", "https://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"about:blank", "about:blank"},
		{"mailto:a@b.c", "mailto:a@b.c"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.google.com/search?q=go+tabs", SearchURL(settings.EngineGoogle, "go tabs"))
	assert.Equal(t, "https://www.bing.com/search?q=a%26b", SearchURL(settings.EngineBing, " a&b "))
	assert.Equal(t, "https://www.google.com/search?q=x", SearchURL("other", "x"))
}

func TestLooksLikeAddress(t *testing.T) {
	assert.True(t, LooksLikeAddress("github.com"))
	assert.True(t, LooksLikeAddress("https://x"))
	assert.True(t, LooksLikeAddress("localhost:8080/api"))
	assert.False(t, LooksLikeAddress("golang generics"))
	assert.False(t, LooksLikeAddress("hello"))
	assert.False(t, LooksLikeAddress("trailing."))
	assert.False(t, LooksLikeAddress(""))
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name   string
		engine settings.SearchEngine
		input  string
		want   string
	}{
		{"address", settings.EngineGoogle, "example.com", "https://example.com"},
		{"scheme kept", settings.EngineBing, "http://localhost:3000", "http://localhost:3000"},
		{"words search google", settings.EngineGoogle, "hello world", "https://www.google.com/search?q=hello+world"},
		{"words search bing", settings.EngineBing, " hello ", "https://www.bing.com/search?q=hello"},
		{"blank", settings.EngineGoogle, "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Target(tt.engine, tt.input))
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "www.google.com", Display("https://www.google.com/"))
	assert.Equal(t, "github.com/entrhq?tab=repos", Display("https://github.com/entrhq?tab=repos"))
	assert.Equal(t, "about:blank", Display("about:blank"))
	assert.Equal(t, "github.com", Host("https://github.com/x"))
}
