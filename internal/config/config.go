package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	BaseURL       string        `yaml:"base_url"`
	SessionCookie string        `yaml:"session_cookie"` // Flask session cookie value, sent as "session=<value>"
	Timeout       time.Duration `yaml:"timeout"`        // 0 = no client-side timeout
}

type PollConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Serialize bool          `yaml:"serialize"` // skip a tick while the previous cycle is still in flight
}

type NotifyConfig struct {
	Lifetime time.Duration `yaml:"lifetime"`
}

type DashboardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Bind    string `yaml:"bind"`
}

type FormatConfig struct {
	TimestampLayout string `yaml:"timestamp_layout"` // display layout for last-ban-check
	TimeLayout      string `yaml:"time_layout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Server    ServerConfig    `yaml:"server"`
	Poll      PollConfig      `yaml:"poll"`
	Notify    NotifyConfig    `yaml:"notify"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Format    FormatConfig    `yaml:"format"`
	Log       LogConfig       `yaml:"log"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir: filepath.Join(home, ".aveumdash"),
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:5000",
		},
		Poll: PollConfig{
			Interval: 5 * time.Second,
		},
		Notify: NotifyConfig{
			Lifetime: 5 * time.Second,
		},
		Dashboard: DashboardConfig{
			Enabled: true,
			Port:    8403,
			Bind:    "127.0.0.1",
		},
		Format: FormatConfig{
			TimestampLayout: "1/2/2006, 3:04:05 PM",
			TimeLayout:      "3:04:05 PM",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and merges it with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file: defaults + env overlay
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if len(cfg.DataDir) > 0 && cfg.DataDir[0] == '~' {
		home, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(home, cfg.DataDir[1:])
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFromBytes parses YAML config from bytes and merges with defaults.
// Used by the mobile package where there's no config file on disk.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyEnv overlays environment variables on top of config values.
func (c *Config) applyEnv() {
	if v := os.Getenv("AVEUMDASH_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("AVEUMDASH_SESSION_COOKIE"); v != "" {
		c.Server.SessionCookie = v
	}
	if v := os.Getenv("AVEUMDASH_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Poll.Interval = d
		}
	}
	if v := os.Getenv("AVEUMDASH_DASHBOARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Dashboard.Port = p
		}
	}
	if v := os.Getenv("AVEUMDASH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// Validate rejects settings the poller and dispatcher cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: unsupported scheme %q", u.Scheme)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %v", c.Poll.Interval)
	}
	if c.Notify.Lifetime <= 0 {
		return fmt.Errorf("notify.lifetime must be positive, got %v", c.Notify.Lifetime)
	}
	if c.Dashboard.Enabled && (c.Dashboard.Port <= 0 || c.Dashboard.Port > 65535) {
		return fmt.Errorf("dashboard.port out of range: %d", c.Dashboard.Port)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	return nil
}

// Debug reports whether per-cycle logging is enabled.
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
}

// ConfigPath returns the default location of aveumdash.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, "aveumdash.yaml")
}
