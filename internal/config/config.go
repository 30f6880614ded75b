// ABOUTME: Configuration management for flasker with YAML config loading.
// ABOUTME: Handles API origin, poll intervals, log settings, env overrides, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the origin the Flasker API listens on in development.
const DefaultAPIURL = "http://127.0.0.1:5000"

const (
	defaultTimeout      = 30 * time.Second
	defaultHomeInterval = 80 * time.Second
	defaultPostInterval = time.Second
)

// Config stores flasker configuration loaded from ~/.config/flasker/config.yaml.
type Config struct {
	API  APIConfig  `yaml:"api"`
	Poll PollConfig `yaml:"poll"`
	Log  LogConfig  `yaml:"log"`
}

// APIConfig holds the remote Flasker API settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout,omitempty"`
}

// PollConfig holds per-page refresh intervals as Go duration strings.
type PollConfig struct {
	HomeInterval string `yaml:"home_interval,omitempty"`
	PostInterval string `yaml:"post_interval,omitempty"`
}

// LogConfig holds optional log destination and level.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// BaseURL returns the API origin with env override applied and trailing slashes trimmed.
func (c *Config) BaseURL() string {
	u := c.API.BaseURL
	if v := os.Getenv("FLASKER_API_URL"); v != "" {
		u = v
	}
	if u == "" {
		u = DefaultAPIURL
	}
	return NormalizeURL(u)
}

// NormalizeURL trims whitespace and trailing slashes from an API origin.
func NormalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

// RequestTimeout returns the HTTP client timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return parseDuration("api.timeout", c.API.Timeout, defaultTimeout)
}

// HomeInterval returns the Home page poll interval.
func (c *Config) HomeInterval() (time.Duration, error) {
	return parseDuration("poll.home_interval", c.Poll.HomeInterval, defaultHomeInterval)
}

// PostInterval returns the Post page poll interval.
func (c *Config) PostInterval() (time.Duration, error) {
	return parseDuration("poll.post_interval", c.Poll.PostInterval, defaultPostInterval)
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

// LogFile returns the log file path, defaulting to $XDG_STATE_HOME/flasker/flasker.log.
func (c *Config) LogFile() (string, error) {
	if v := os.Getenv("FLASKER_LOG_FILE"); v != "" {
		return ExpandPath(v)
	}
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "flasker", "flasker.log"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "flasker", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
