package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AVEUMDASH_SERVER_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Poll.Interval != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s", cfg.Poll.Interval)
	}
	if cfg.Notify.Lifetime != 5*time.Second {
		t.Errorf("notify lifetime = %v, want 5s", cfg.Notify.Lifetime)
	}
	if cfg.Server.Timeout != 0 {
		t.Errorf("server timeout = %v, want 0 (none)", cfg.Server.Timeout)
	}
}

func TestLoadMergesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aveumdash.yaml")
	yml := `
server:
  base_url: https://aveum.example.com
poll:
  interval: 2s
  serialize: true
dashboard:
  port: 9000
`
	if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "https://aveum.example.com" {
		t.Errorf("base_url = %s", cfg.Server.BaseURL)
	}
	if cfg.Poll.Interval != 2*time.Second || !cfg.Poll.Serialize {
		t.Errorf("poll = %+v", cfg.Poll)
	}
	if cfg.Dashboard.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Dashboard.Port)
	}
	// Untouched sections keep defaults
	if cfg.Notify.Lifetime != 5*time.Second {
		t.Errorf("lifetime = %v, want default 5s", cfg.Notify.Lifetime)
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("AVEUMDASH_SERVER_URL", "http://10.0.0.5:5000")
	t.Setenv("AVEUMDASH_POLL_INTERVAL", "750ms")
	t.Setenv("AVEUMDASH_SESSION_COOKIE", "abc123")

	cfg, err := LoadFromBytes(nil)
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:5000" {
		t.Errorf("base_url = %s", cfg.Server.BaseURL)
	}
	if cfg.Poll.Interval != 750*time.Millisecond {
		t.Errorf("interval = %v", cfg.Poll.Interval)
	}
	if cfg.Server.SessionCookie != "abc123" {
		t.Errorf("cookie = %q", cfg.Server.SessionCookie)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, false},
		{"zero interval", func(c *Config) { c.Poll.Interval = 0 }, false},
		{"zero lifetime", func(c *Config) { c.Notify.Lifetime = 0 }, false},
		{"port out of range", func(c *Config) { c.Dashboard.Port = 70000 }, false},
		{"port ignored when disabled", func(c *Config) {
			c.Dashboard.Enabled = false
			c.Dashboard.Port = 0
		}, true},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, false},
	}

	for _, tc := range tests {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if (err == nil) != tc.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestDataDirAndConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AVEUMDASH_DATA_DIR", dir)
	cfg, err := LoadFromBytes(nil)
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if want := filepath.Join(dir, "aveumdash.yaml"); cfg.ConfigPath() != want {
		t.Errorf("ConfigPath = %s, want %s", cfg.ConfigPath(), want)
	}

	t.Setenv("AVEUMDASH_DATA_DIR", "")
	path := filepath.Join(dir, "aveumdash.yaml")
	if err := os.WriteFile(path, []byte("data_dir: ~/aveum-data\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "aveum-data"); cfg.DataDir != want {
		t.Errorf("data_dir = %s, want %s", cfg.DataDir, want)
	}
}
