// ABOUTME: Tests for flasker configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, env overrides, durations, and save/load.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FLASKER_API_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.BaseURL(); got != DefaultAPIURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultAPIURL)
	}
	home, err := cfg.HomeInterval()
	if err != nil || home != 80*time.Second {
		t.Errorf("HomeInterval() = %v, %v; want 80s", home, err)
	}
	post, err := cfg.PostInterval()
	if err != nil || post != time.Second {
		t.Errorf("PostInterval() = %v, %v; want 1s", post, err)
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil || timeout != 30*time.Second {
		t.Errorf("RequestTimeout() = %v, %v; want 30s", timeout, err)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("FLASKER_API_URL", "")
	t.Setenv("FLASKER_LOG_FILE", "")

	configDir := filepath.Join(tmpDir, "flasker")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configData := `api:
  base_url: "https://flasker.example.com/"
  timeout: "5s"
poll:
  home_interval: "2m"
  post_interval: "500ms"
log:
  file: "~/logs/flasker.log"
  level: "debug"
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configData), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.BaseURL(); got != "https://flasker.example.com" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
	if d, _ := cfg.HomeInterval(); d != 2*time.Minute {
		t.Errorf("HomeInterval() = %v, want 2m", d)
	}
	if d, _ := cfg.PostInterval(); d != 500*time.Millisecond {
		t.Errorf("PostInterval() = %v, want 500ms", d)
	}
	if d, _ := cfg.RequestTimeout(); d != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", d)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.Log.Level)
	}

	home, _ := os.UserHomeDir()
	logFile, err := cfg.LogFile()
	if err != nil {
		t.Fatalf("LogFile() error: %v", err)
	}
	if want := filepath.Join(home, "logs", "flasker.log"); logFile != want {
		t.Errorf("LogFile() = %q, want %q", logFile, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLASKER_API_URL", "http://localhost:9999///")
	t.Setenv("FLASKER_LOG_FILE", "/tmp/flasker-test.log")

	cfg := &Config{API: APIConfig{BaseURL: "http://ignored"}}
	if got := cfg.BaseURL(); got != "http://localhost:9999" {
		t.Errorf("BaseURL() = %q, want env override", got)
	}
	logFile, err := cfg.LogFile()
	if err != nil {
		t.Fatalf("LogFile() error: %v", err)
	}
	if logFile != "/tmp/flasker-test.log" {
		t.Errorf("LogFile() = %q, want env override", logFile)
	}
}

func TestDefaultLogFile(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)
	t.Setenv("FLASKER_LOG_FILE", "")

	cfg := &Config{}
	got, err := cfg.LogFile()
	if err != nil {
		t.Fatalf("LogFile() error: %v", err)
	}
	if want := filepath.Join(stateDir, "flasker", "flasker.log"); got != want {
		t.Errorf("LogFile() = %q, want %q", got, want)
	}
}

func TestInvalidDurations(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		get  func(*Config) (time.Duration, error)
	}{
		{"garbage home", Config{Poll: PollConfig{HomeInterval: "soon"}}, (*Config).HomeInterval},
		{"negative post", Config{Poll: PollConfig{PostInterval: "-1s"}}, (*Config).PostInterval},
		{"zero timeout", Config{API: APIConfig{Timeout: "0s"}}, (*Config).RequestTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if _, err := tt.get(&cfg); err == nil {
				t.Error("expected error for invalid duration")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("FLASKER_API_URL", "")

	cfg := &Config{
		API: APIConfig{
			BaseURL: "https://saved.example.com",
		},
		Poll: PollConfig{
			HomeInterval: "10s",
		},
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.BaseURL() != "https://saved.example.com" {
		t.Errorf("expected saved base_url, got %q", loaded.BaseURL())
	}
	if d, _ := loaded.HomeInterval(); d != 10*time.Second {
		t.Errorf("expected saved home interval 10s, got %v", d)
	}

	path, _ := GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected config mode 0600, got %o", info.Mode().Perm())
	}
}
