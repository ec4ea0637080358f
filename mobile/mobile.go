// Package mobile provides gomobile-bindable functions for the Aveum dashboard.
// All complex data is returned as JSON strings since gomobile cannot export
// maps, slices, or structs with unexported fields.
package mobile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/app"
	"github.com/b0ase/path402/apps/aveumdash/internal/config"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"

	// Required by gomobile bind at build time
	_ "golang.org/x/mobile/bind"
)

var (
	mu      sync.Mutex
	a       *app.App
	running bool
	version = "0.1.0"
)

func errJSON(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

// Start initialises and starts the dashboard.
// configYAML may be empty to use defaults. dataDir is the path to the app's
// private files directory.
func Start(configYAML string, dataDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if running {
		return fmt.Errorf("already running")
	}

	cfg, err := config.LoadFromBytes([]byte(configYAML))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	// The native UI mirrors the page through these bindings; no web host.
	cfg.Dashboard.Enabled = false

	a, err = app.New(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	if err := a.Start(); err != nil {
		a = nil
		return fmt.Errorf("start app: %w", err)
	}

	running = true
	return nil
}

// Stop shuts the dashboard down.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if a != nil {
		a.Stop()
		a = nil
	}
	running = false
}

// IsRunning returns true if the dashboard is currently running.
func IsRunning() bool {
	mu.Lock()
	defer mu.Unlock()
	return running
}

// GetPage returns every page element as a JSON array, or "[]" when stopped.
func GetPage() string {
	mu.Lock()
	defer mu.Unlock()

	if a == nil {
		return `[]`
	}
	data, _ := json.Marshal(a.Document().Elements())
	return string(data)
}

// GetStatus returns the last rendered snapshot and poll counters as JSON.
func GetStatus() string {
	mu.Lock()
	defer mu.Unlock()

	if a == nil {
		return `{"running":false}`
	}

	status := map[string]interface{}{
		"running":    true,
		"uptime_ms":  a.Uptime().Milliseconds(),
		"server_url": a.ServerURL(),
		"poller":     a.PollerStats(),
	}
	if snap := a.Latest(); snap != nil {
		status["snapshot"] = snap
	}

	data, _ := json.Marshal(status)
	return string(data)
}

// Click presses a page element, usually a control button or a notification
// close button. Returns JSON: {"clicked":"id"} or {"error":"..."}.
func Click(id string) string {
	mu.Lock()
	defer mu.Unlock()

	if a == nil {
		return `{"error":"dashboard not running"}`
	}
	if err := a.Document().Click(id); err != nil {
		if errors.Is(err, page.ErrNoElement) {
			return errJSON(fmt.Errorf("no element %q", id))
		}
		return errJSON(err)
	}
	data, _ := json.Marshal(map[string]string{"clicked": id})
	return string(data)
}

// RefreshStats runs the stats panel refresh and waits for it.
// Returns JSON: {"refreshed":true} or {"error":"..."}.
func RefreshStats() string {
	mu.Lock()
	cur := a
	mu.Unlock()

	if cur == nil {
		return `{"error":"dashboard not running"}`
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := cur.StatsPanel().Refresh(ctx); err != nil {
		return errJSON(err)
	}
	return `{"refreshed":true}`
}

// GetVersion returns the dashboard version string.
func GetVersion() string {
	return version
}
