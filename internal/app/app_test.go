package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/config"
	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
)

func mockAveum(t *testing.T, mining *atomic.Bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/status":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":         true,
				"aveum_email":     "miner@example.com",
				"login_status":    true,
				"is_mining":       mining.Load(),
				"current_balance": 12345.5,
			})
		case "/api/start-mining":
			mining.Store(true)
			json.NewEncoder(w).Encode(map[string]string{"message": "Mining started"})
		default:
			w.WriteHeader(404)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAppPollsAndDispatches(t *testing.T) {
	var mining atomic.Bool
	srv := mockAveum(t, &mining)

	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = srv.URL
	cfg.Server.SessionCookie = "s3cret"
	cfg.Poll.Interval = time.Hour
	cfg.Dashboard.Enabled = false

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop()

	waitFor(t, "first render", func() bool { return a.Latest() != nil })

	doc := a.Document()
	if e, _ := doc.Get(dashboard.IDCurrentBalance); e.Text != "12,345.5" {
		t.Errorf("current-balance = %q", e.Text)
	}
	if e, _ := doc.Get(dashboard.IDStartMining); e.Disabled {
		t.Error("start-mining disabled while idle")
	}

	if err := doc.Click(dashboard.IDStartMining); err != nil {
		t.Fatalf("Click: %v", err)
	}
	waitFor(t, "re-render after start", func() bool {
		e, _ := doc.Get(dashboard.IDStartMining)
		return e.Disabled
	})

	toasts := doc.Children(notify.ToastContainerID)
	if len(toasts) != 1 || !strings.Contains(toasts[0].Text, "Mining started successfully!") {
		t.Errorf("toasts = %+v", toasts)
	}
	if a.Uptime() <= 0 || a.Port() != 0 {
		t.Errorf("uptime=%v port=%d", a.Uptime(), a.Port())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = "ftp://example.com"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected config error")
	}
}

func TestStopWithoutStart(t *testing.T) {
	a, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.Stop()
}
