// Package config holds newsai configuration.
// Settings live in <home>/config.yaml (default ~/.newsai/config.yaml) and can
// be overridden with NEWSAI_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all newsai configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Backend API configuration
	Backend BackendConfig `yaml:"backend"`

	// Default extraction parameters
	Defaults DefaultsConfig `yaml:"defaults"`

	// Chat assistant settings
	Chat ChatConfig `yaml:"chat"`

	// Terminal UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the news backend connection.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	Timeout        string `yaml:"timeout"`
	HealthInterval string `yaml:"health_interval"` // How often the dashboard polls /health
}

// DefaultsConfig configures default extraction parameters.
type DefaultsConfig struct {
	Sources             []string `yaml:"sources"`
	Categories          []string `yaml:"categories"`
	MaxArticles         int      `yaml:"max_articles"`
	ArticlesPerCategory int      `yaml:"articles_per_category"`
	HoursBack           int      `yaml:"hours_back"`
}

// ChatConfig configures the chat assistant.
type ChatConfig struct {
	UserID       string `yaml:"user_id"`
	HistoryLimit int    `yaml:"history_limit"` // Max turns kept in the transcript, 0 = unlimited
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, dark, light
	Color string `yaml:"color"` // auto, always, never
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "newsai",
		Version: "0.4.0",

		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000",
			Timeout:        "30s",
			HealthInterval: "30s",
		},

		Defaults: DefaultsConfig{
			Sources:             []string{"abc", "guardian", "smh", "news_com_au"},
			Categories:          []string{"sports", "finance", "lifestyle", "music"},
			MaxArticles:         10,
			ArticlesPerCategory: 5,
			HoursBack:           24,
		},

		Chat: ChatConfig{
			UserID:       "anonymous",
			HistoryLimit: 0,
		},

		UI: UIConfig{
			Theme: "auto",
			Color: "auto",
		},

		Logging: LoggingConfig{
			Level:      "info",
			DebugMode:  false,
			JSONFormat: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("NEWSAI_BASE_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if t := os.Getenv("NEWSAI_TIMEOUT"); t != "" {
		c.Backend.Timeout = t
	}
	if id := os.Getenv("NEWSAI_USER"); id != "" {
		c.Chat.UserID = id
	}
	if theme := os.Getenv("NEWSAI_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if mode := os.Getenv("NEWSAI_COLOR"); mode != "" {
		c.UI.Color = mode
	}
	if os.Getenv("NEWSAI_DEBUG") == "1" || os.Getenv("NEWSAI_DEBUG") == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// GetTimeout returns the backend request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetHealthInterval returns the health poll interval as a duration.
func (c *Config) GetHealthInterval() time.Duration {
	d, err := time.ParseDuration(c.Backend.HealthInterval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValidThemes lists supported UI themes.
var ValidThemes = []string{"auto", "dark", "light"}

// ValidColorModes lists supported color modes.
var ValidColorModes = []string{"auto", "always", "never"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url not configured (set NEWSAI_BASE_URL or edit config.yaml)")
	}
	if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base_url %q: %w", c.Backend.BaseURL, err)
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	validColor := false
	for _, m := range ValidColorModes {
		if c.UI.Color == m {
			validColor = true
			break
		}
	}
	if !validColor {
		return fmt.Errorf("invalid ui color mode: %s (valid: %v)", c.UI.Color, ValidColorModes)
	}

	return nil
}

// Dir returns the newsai home directory (default ~/.newsai).
// NEWSAI_HOME overrides the default.
func Dir() string {
	if dir := os.Getenv("NEWSAI_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".newsai"
	}
	return filepath.Join(home, ".newsai")
}

// DefaultPath returns the default path to config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
