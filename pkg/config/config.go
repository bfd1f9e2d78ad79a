// Package config loads the launch configuration of the shell.
//
// Values are layered: built-in defaults, then an optional YAML file,
// then a .env file and HYPERGX_* environment variables, then command-line
// flags applied by the caller. Validate runs last.
//
// Launch configuration is about how the shell runs (which content host,
// where data lives, which address the control API binds). User
// preferences such as theme or speed-dial live in the settings store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/hypergx/pkg/logging"
)

// HostKind selects the content host backend.
type HostKind string

const (
	// HostPlaywright launches Chromium through playwright.
	HostPlaywright HostKind = "playwright"
	// HostCDP attaches to a running Chromium over the DevTools protocol.
	HostCDP HostKind = "cdp"
	// HostMemory simulates pages in-process.
	HostMemory HostKind = "memory"
)

// Config is the launch configuration.
type Config struct {
	Host              HostKind      `yaml:"host" json:"host"`
	Headless          bool          `yaml:"headless" json:"headless"`
	InstallBrowser    bool          `yaml:"install_browser" json:"install_browser"`
	CDPURL            string        `yaml:"cdp_url" json:"cdp_url"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	Viewport          Viewport      `yaml:"viewport" json:"viewport"`

	DataDir  string `yaml:"data_dir" json:"data_dir"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Listen is the control API address; empty disables it.
	Listen string `yaml:"listen" json:"listen"`

	HomeURL          string   `yaml:"home_url" json:"home_url"`
	HomeTitle        string   `yaml:"home_title" json:"home_title"`
	NewTabURL        string   `yaml:"new_tab_url" json:"new_tab_url"`
	ExternalPatterns []string `yaml:"external_patterns" json:"external_patterns"`
}

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := ".hypergx"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".hypergx")
	}
	return &Config{
		Host:              HostPlaywright,
		Headless:          false,
		InstallBrowser:    true,
		CDPURL:            "http://127.0.0.1:9222",
		NavigationTimeout: 30 * time.Second,
		Viewport:          Viewport{Width: 1280, Height: 800},
		DataDir:           dataDir,
		LogLevel:          "info",
		HomeURL:           "https://www.perplexity.ai",
		HomeTitle:         "Perplexity",
		NewTabURL:         "https://www.google.com",
	}
}

// Load builds the configuration. An explicit path must exist; with an
// empty path, <data_dir>/config.yaml is read when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.NewLogger("config").Debugf("failed to load .env file: %v", err)
	}

	// The data dir can move the implicit config file, so read it first.
	if dir := os.Getenv("HYPERGX_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Host = HostKind(getEnvOrDefault("HYPERGX_HOST", string(c.Host)))
	c.Headless = getEnvBoolOrDefault("HYPERGX_HEADLESS", c.Headless)
	c.InstallBrowser = getEnvBoolOrDefault("HYPERGX_INSTALL_BROWSER", c.InstallBrowser)
	c.CDPURL = getEnvOrDefault("HYPERGX_CDP_URL", c.CDPURL)
	c.NavigationTimeout = getEnvDurationOrDefault("HYPERGX_NAVIGATION_TIMEOUT", c.NavigationTimeout)
	c.Viewport.Width = getEnvIntOrDefault("HYPERGX_VIEWPORT_WIDTH", c.Viewport.Width)
	c.Viewport.Height = getEnvIntOrDefault("HYPERGX_VIEWPORT_HEIGHT", c.Viewport.Height)
	c.DataDir = getEnvOrDefault("HYPERGX_DATA_DIR", c.DataDir)
	c.LogLevel = getEnvOrDefault("HYPERGX_LOG_LEVEL", c.LogLevel)
	c.Listen = getEnvOrDefault("HYPERGX_LISTEN", c.Listen)
	c.HomeURL = getEnvOrDefault("HYPERGX_HOME_URL", c.HomeURL)
	c.HomeTitle = getEnvOrDefault("HYPERGX_HOME_TITLE", c.HomeTitle)
	c.NewTabURL = getEnvOrDefault("HYPERGX_NEW_TAB_URL", c.NewTabURL)
	if v := os.Getenv("HYPERGX_EXTERNAL_PATTERNS"); v != "" {
		c.ExternalPatterns = splitList(v)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Host {
	case HostPlaywright, HostCDP, HostMemory:
	default:
		return fmt.Errorf("unknown host %q (want playwright, cdp or memory)", c.Host)
	}
	if c.Host == HostCDP && c.CDPURL == "" {
		return fmt.Errorf("cdp_url is required when host is cdp")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.NavigationTimeout < 0 {
		return fmt.Errorf("navigation_timeout cannot be negative")
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}
	if strings.TrimSpace(c.HomeURL) == "" {
		return fmt.Errorf("home_url cannot be empty")
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// SettingsPath is the settings store file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}

// LogDir is where log files rotate.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ProfileDir is the persistent browser profile used by the playwright host.
func (c *Config) ProfileDir() string {
	return filepath.Join(c.DataDir, "profile")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
