package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, HostPlaywright, cfg.Host)
	assert.Equal(t, "https://www.perplexity.ai", cfg.HomeURL)
	assert.Equal(t, "https://www.google.com", cfg.NewTabURL)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout)
}

func TestLoad_ImplicitFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("HYPERGX_DATA_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, HostPlaywright, cfg.Host)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPERGX_DATA_DIR", dir)
	path := writeFile(t, dir, "custom.yaml", `
host: cdp
cdp_url: ws://127.0.0.1:9333/devtools/browser/abc
navigation_timeout: 5s
viewport:
  width: 800
  height: 600
listen: 127.0.0.1:7777
external_patterns:
  - "*://zoom.us/*"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, HostCDP, cfg.Host)
	assert.Equal(t, "ws://127.0.0.1:9333/devtools/browser/abc", cfg.CDPURL)
	assert.Equal(t, 5*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, cfg.Viewport)
	assert.Equal(t, "127.0.0.1:7777", cfg.Listen)
	assert.Equal(t, []string{"*://zoom.us/*"}, cfg.ExternalPatterns)
	assert.Equal(t, "https://www.perplexity.ai", cfg.HomeURL)
}

func TestLoad_ImplicitFileInDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPERGX_DATA_DIR", dir)
	writeFile(t, dir, "config.yaml", "host: memory\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, HostMemory, cfg.Host)
	assert.Equal(t, filepath.Join(dir, "settings.json"), cfg.SettingsPath())
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPERGX_DATA_DIR", dir)
	writeFile(t, dir, "config.yaml", "host: cdp\nheadless: false\n")
	t.Setenv("HYPERGX_HOST", "memory")
	t.Setenv("HYPERGX_HEADLESS", "true")
	t.Setenv("HYPERGX_EXTERNAL_PATTERNS", "mailto:*, *://zoom.us/*,")
	t.Setenv("HYPERGX_VIEWPORT_WIDTH", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, HostMemory, cfg.Host)
	assert.True(t, cfg.Headless)
	assert.Equal(t, []string{"mailto:*", "*://zoom.us/*"}, cfg.ExternalPatterns)
	assert.Equal(t, 1280, cfg.Viewport.Width)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "host: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown host", func(c *Config) { c.Host = "webkit" }},
		{"cdp without url", func(c *Config) { c.Host = HostCDP; c.CDPURL = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"negative timeout", func(c *Config) { c.NavigationTimeout = -time.Second }},
		{"negative viewport", func(c *Config) { c.Viewport.Width = -1 }},
		{"empty home", func(c *Config) { c.HomeURL = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
