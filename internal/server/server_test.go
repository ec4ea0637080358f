package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

type fakeApp struct{}

func (fakeApp) Uptime() time.Duration { return 3 * time.Second }
func (fakeApp) ServerURL() string     { return "http://aveum.test" }
func (fakeApp) Latest() *status.Snapshot {
	return &status.Snapshot{Success: true, AveumEmail: "miner@example.com"}
}
func (fakeApp) PollerStats() dashboard.PollerStats { return dashboard.PollerStats{Cycles: 4, Rendered: 3} }

type countingStats struct {
	calls atomic.Int32
	err   error
}

func (c *countingStats) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func newTestServer(t *testing.T) (*Server, *page.Document, *httptest.Server) {
	t.Helper()
	doc := dashboard.NewDocument()
	s := New("127.0.0.1", 0, doc, fakeApp{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.hub.Stop()
	})
	return s, doc, ts
}

func post(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndStatus(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var health map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&health)
	if health["status"] != "ok" || health["server_url"] != "http://aveum.test" {
		t.Errorf("health = %v", health)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	resp2, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var st struct {
		Poller   dashboard.PollerStats `json:"poller"`
		Snapshot status.Snapshot      `json:"snapshot"`
	}
	json.NewDecoder(resp2.Body).Decode(&st)
	if st.Poller.Cycles != 4 || st.Snapshot.AveumEmail != "miner@example.com" {
		t.Errorf("status = %+v", st)
	}
}

func TestDashboardPage(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content-type = %q", resp.Header.Get("Content-Type"))
	}
	for _, id := range append(append([]string{}, dashboard.ButtonIDs...), dashboard.IDCurrentBalance, dashboard.IDActivityLog) {
		if !strings.Contains(dashboardHTML, `id="`+id+`"`) {
			t.Errorf("page has no element %s", id)
		}
	}
}

func TestElements(t *testing.T) {
	_, doc, ts := newTestServer(t)
	doc.SetText(dashboard.IDCurrentBalance, "1,500")

	resp, err := http.Get(ts.URL + "/page/elements")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var els []page.Element
	if err := json.NewDecoder(resp.Body).Decode(&els); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range els {
		if e.ID == dashboard.IDCurrentBalance {
			found = e.Text == "1,500"
		}
	}
	if !found {
		t.Errorf("current-balance not in %d elements", len(els))
	}
}

func TestClick(t *testing.T) {
	_, doc, ts := newTestServer(t)

	clicked := make(chan struct{}, 1)
	doc.OnClick(dashboard.IDCheckBan, func() { clicked <- struct{}{} })
	doc.SetDisabled(dashboard.IDStopMining, true)
	doc.OnClick(dashboard.IDStopMining, func() { t.Error("disabled button ran") })

	tests := []struct {
		id   string
		want int
	}{
		{dashboard.IDCheckBan, http.StatusAccepted},
		{"no-such-button", http.StatusNotFound},
		{dashboard.IDStopMining, http.StatusConflict},
		{dashboard.IDSwitchMode, http.StatusConflict}, // unbound
	}
	for _, tt := range tests {
		if resp := post(t, ts.URL+"/page/click/"+tt.id); resp.StatusCode != tt.want {
			t.Errorf("click %s = %d, want %d", tt.id, resp.StatusCode, tt.want)
		}
	}

	select {
	case <-clicked:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestDismiss(t *testing.T) {
	s, doc, ts := newTestServer(t)
	toasts := notify.NewToaster(doc, time.Minute)
	alerts := notify.NewAlerter(doc, time.Minute)
	s.SetDismissers(toasts, alerts)

	tid := toasts.Notify("hello", notify.Info)
	aid := alerts.Notify("oops", notify.Danger)

	if resp := post(t, ts.URL+"/page/dismiss/"+tid); resp.StatusCode != http.StatusOK {
		t.Errorf("dismiss toast = %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/page/dismiss/"+aid); resp.StatusCode != http.StatusOK {
		t.Errorf("dismiss alert = %d", resp.StatusCode)
	}
	if doc.Has(tid) || doc.Has(aid) {
		t.Error("notification still on page")
	}
	if resp := post(t, ts.URL+"/page/dismiss/"+dashboard.IDCurrentBalance); resp.StatusCode != http.StatusNotFound {
		t.Errorf("dismiss page element = %d, want 404", resp.StatusCode)
	}
	if !doc.Has(dashboard.IDCurrentBalance) {
		t.Error("dismiss removed a page element")
	}
}

func TestStats(t *testing.T) {
	s, _, ts := newTestServer(t)

	if resp := post(t, ts.URL+"/page/stats"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("no panel = %d", resp.StatusCode)
	}

	stats := &countingStats{}
	s.SetStatsPanel(stats)
	if resp := post(t, ts.URL+"/page/stats"); resp.StatusCode != http.StatusOK {
		t.Errorf("refresh = %d", resp.StatusCode)
	}
	stats.err = errors.New("boom")
	if resp := post(t, ts.URL+"/page/stats"); resp.StatusCode != http.StatusBadGateway {
		t.Errorf("failed refresh = %d", resp.StatusCode)
	}
	if n := stats.calls.Load(); n != 2 {
		t.Errorf("calls = %d", n)
	}
}

func TestWebSocketResetThenChanges(t *testing.T) {
	_, doc, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var first Message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read reset: %v", err)
	}
	if first.Type != "reset" || len(first.Elements) == 0 {
		t.Fatalf("first message = %+v", first)
	}

	doc.SetText(dashboard.IDCurrentBalance, "42")

	var next Message
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read change: %v", err)
	}
	if next.Type != "change" || next.Change == nil ||
		next.Change.Kind != page.ChangeUpdate || next.Change.Element.Text != "42" {
		t.Errorf("change = %+v", next)
	}
}

func TestWebSocketClick(t *testing.T) {
	_, doc, ts := newTestServer(t)
	clicked := make(chan struct{}, 1)
	doc.OnClick(dashboard.IDRefreshToken, func() { clicked <- struct{}{} })

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "click", "id": dashboard.IDRefreshToken}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-clicked:
	case <-time.After(2 * time.Second):
		t.Fatal("websocket click never ran")
	}
}
