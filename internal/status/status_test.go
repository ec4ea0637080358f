package status

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{1234.5, "1,234.5"},
		{-98765, "-98,765"},
	}
	for _, tc := range tests {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumberSeparatorEveryThreeDigits(t *testing.T) {
	for n := 1000.0; n < 1e12; n = n*7 + 3 {
		got := FormatNumber(n)
		groups := strings.Split(got, ",")
		if len(groups[0]) < 1 || len(groups[0]) > 3 {
			t.Fatalf("FormatNumber(%v) = %q: bad leading group", n, got)
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				t.Fatalf("FormatNumber(%v) = %q: group %q not 3 digits", n, got, g)
			}
		}
		if strings.ReplaceAll(got, ",", "") != strconv.FormatFloat(n, 'f', -1, 64) {
			t.Fatalf("FormatNumber(%v) = %q: digits changed", n, got)
		}
	}
}

func TestFormatDateTimeNever(t *testing.T) {
	for _, in := range []string{"", "Never"} {
		if got := FormatDateTime(in); got != "Never" {
			t.Errorf("FormatDateTime(%q) = %q, want Never", in, got)
		}
	}
}

func TestFormatDateTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	f := Formatter{Location: loc}

	in := "2025-03-09 17:45:12"
	out := f.DateTime(in)
	if out != "3/9/2025, 5:45:12 PM" {
		t.Fatalf("DateTime(%q) = %q", in, out)
	}

	want, _ := f.ParseServerTime(in)
	back, err := f.ParseDisplay(out)
	if err != nil {
		t.Fatalf("ParseDisplay(%q): %v", out, err)
	}
	if !back.Equal(want) {
		t.Errorf("round trip = %v, want %v", back, want)
	}
}

func TestFormatDateTimeRFC3339(t *testing.T) {
	f := Formatter{Location: time.UTC}
	got := f.DateTime("2025-01-02T03:04:05+01:00")
	if got != "1/2/2025, 2:04:05 AM" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDateTimeUnparseablePassesThrough(t *testing.T) {
	if got := FormatDateTime("yesterday"); got != "yesterday" {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestDecodeDefaults(t *testing.T) {
	snap, err := Parse([]byte(`{"success": true, "aveum_email": "", "current_balance": null}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !snap.Success {
		t.Error("success = false")
	}
	if snap.AveumEmail != NotSet || snap.DeviceID != NotSet || snap.DeviceModel != NotSet || snap.PlatformVersion != NotSet {
		t.Errorf("identity defaults not applied: %+v", snap)
	}
	if snap.LastBanCheckTime != Never {
		t.Errorf("last_ban_check_time = %q, want Never", snap.LastBanCheckTime)
	}
	if snap.CurrentBalance != 0 || snap.TotalLikes != 0 {
		t.Errorf("numeric defaults not 0: %+v", snap)
	}
	if snap.IsMining || snap.MiningActive || snap.IsBanned || snap.LoginStatus {
		t.Errorf("boolean defaults not false: %+v", snap)
	}
	if snap.LastActivity != "" {
		t.Errorf("last_activity = %q, want empty", snap.LastActivity)
	}
}

func TestDecodeFullPayload(t *testing.T) {
	payload := `{
		"success": true,
		"aveum_email": "miner@example.com",
		"login_status": true,
		"device_id": "abc123",
		"device_model": "SM-G991B",
		"platform_version": "13",
		"is_mining": true,
		"current_balance": 1234.5,
		"total_rewards": 98765,
		"mining_sessions_completed": 12,
		"mining_errors": 1,
		"auto_like_active": false,
		"total_likes": 4000,
		"daily_likes": 40,
		"like_errors": 0,
		"is_banned": false,
		"last_ban_check_time": "2025-03-09 17:45:12",
		"last_activity": "[2025-03-09 17:45:12] Ban check: Not banned"
	}`
	snap, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.AveumEmail != "miner@example.com" || !snap.IsMining || snap.CurrentBalance != 1234.5 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.MiningSessionsCompleted != 12 || snap.TotalLikes != 4000 {
		t.Errorf("counters: %+v", snap)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Parse([]byte(`<html>login</html>`)); err == nil {
		t.Error("expected error for non-JSON payload")
	}
	if _, err := Parse([]byte(`{"current_balance": "lots"}`)); err == nil {
		t.Error("expected error for mistyped field")
	}
}

func TestFormatTime(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 7, 0, 0, time.UTC)
	if got := (Formatter{Location: time.UTC}).Time(at); got != "9:07:00 AM" {
		t.Errorf("default layout = %q", got)
	}
	f := Formatter{TimeLayout: "15:04", Location: time.UTC}
	if got := f.Time(at.Add(12 * time.Hour)); got != "21:07" {
		t.Errorf("custom layout = %q", got)
	}
}
