package mobile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "is_mining": false})
	}))
	defer srv.Close()

	if IsRunning() || GetPage() != "[]" {
		t.Fatal("running before Start")
	}

	yaml := "server:\n  base_url: " + srv.URL + "\npoll:\n  interval: 1h\n"
	if err := Start(yaml, t.TempDir()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer Stop()

	if err := Start(yaml, ""); err == nil {
		t.Error("second Start succeeded")
	}
	if !IsRunning() {
		t.Error("IsRunning = false")
	}

	var els []map[string]interface{}
	if err := json.Unmarshal([]byte(GetPage()), &els); err != nil || len(els) == 0 {
		t.Fatalf("GetPage: %v (%d elements)", err, len(els))
	}
	if !strings.Contains(GetStatus(), `"running":true`) {
		t.Errorf("GetStatus = %s", GetStatus())
	}
	if got := Click("no-such-element"); !strings.Contains(got, "error") {
		t.Errorf("Click unknown = %s", got)
	}

	Stop()
	if IsRunning() || GetStatus() != `{"running":false}` {
		t.Error("still running after Stop")
	}
}
