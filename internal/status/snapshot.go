// Package status holds the typed status snapshot returned by the Aveum
// automation server and the formatting helpers used to display it.
package status

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	NotSet = "Not set"
	Never  = "Never"
)

// Snapshot is one full GET /api/status payload with defaults applied.
// Each poll replaces the previous snapshot; nothing is merged.
type Snapshot struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	AveumEmail      string `json:"aveum_email"`
	LoginStatus     bool   `json:"login_status"`
	DeviceID        string `json:"device_id"`
	DeviceModel     string `json:"device_model"`
	PlatformVersion string `json:"platform_version"`

	MiningActive            bool    `json:"mining_active"`
	IsMining                bool    `json:"is_mining"`
	CurrentBalance          float64 `json:"current_balance"`
	TotalRewards            float64 `json:"total_rewards"`
	MiningSessionsCompleted float64 `json:"mining_sessions_completed"`
	MiningErrors            float64 `json:"mining_errors"`

	AutoLikeActive bool    `json:"auto_like_active"`
	TotalLikes     float64 `json:"total_likes"`
	DailyLikes     float64 `json:"daily_likes"`
	LikeErrors     float64 `json:"like_errors"`

	IsBanned         bool   `json:"is_banned"`
	LastBanCheckTime string `json:"last_ban_check_time"`

	LastActivity string `json:"last_activity"`
}

// wireSnapshot mirrors the payload with nullable fields so absent and null
// values can be told apart from zero values.
type wireSnapshot struct {
	Success *bool   `json:"success"`
	Error   *string `json:"error"`

	AveumEmail      *string `json:"aveum_email"`
	LoginStatus     *bool   `json:"login_status"`
	DeviceID        *string `json:"device_id"`
	DeviceModel     *string `json:"device_model"`
	PlatformVersion *string `json:"platform_version"`

	MiningActive            *bool    `json:"mining_active"`
	IsMining                *bool    `json:"is_mining"`
	CurrentBalance          *float64 `json:"current_balance"`
	TotalRewards            *float64 `json:"total_rewards"`
	MiningSessionsCompleted *float64 `json:"mining_sessions_completed"`
	MiningErrors            *float64 `json:"mining_errors"`

	AutoLikeActive *bool    `json:"auto_like_active"`
	TotalLikes     *float64 `json:"total_likes"`
	DailyLikes     *float64 `json:"daily_likes"`
	LikeErrors     *float64 `json:"like_errors"`

	IsBanned         *bool   `json:"is_banned"`
	LastBanCheckTime *string `json:"last_ban_check_time"`

	LastActivity *string `json:"last_activity"`
}

// Decode parses a status payload and applies the per-field defaults:
// identity strings fall back to "Not set", the ban check time to "Never",
// booleans to false and numbers to 0.
func Decode(r io.Reader) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return w.snapshot(), nil
}

// Parse is Decode for an in-memory payload.
func Parse(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return w.snapshot(), nil
}

func (w *wireSnapshot) snapshot() *Snapshot {
	return &Snapshot{
		Success: boolOr(w.Success),
		Error:   stringOr(w.Error, ""),

		AveumEmail:      stringOr(w.AveumEmail, NotSet),
		LoginStatus:     boolOr(w.LoginStatus),
		DeviceID:        stringOr(w.DeviceID, NotSet),
		DeviceModel:     stringOr(w.DeviceModel, NotSet),
		PlatformVersion: stringOr(w.PlatformVersion, NotSet),

		MiningActive:            boolOr(w.MiningActive),
		IsMining:                boolOr(w.IsMining),
		CurrentBalance:          numberOr(w.CurrentBalance),
		TotalRewards:            numberOr(w.TotalRewards),
		MiningSessionsCompleted: numberOr(w.MiningSessionsCompleted),
		MiningErrors:            numberOr(w.MiningErrors),

		AutoLikeActive: boolOr(w.AutoLikeActive),
		TotalLikes:     numberOr(w.TotalLikes),
		DailyLikes:     numberOr(w.DailyLikes),
		LikeErrors:     numberOr(w.LikeErrors),

		IsBanned:         boolOr(w.IsBanned),
		LastBanCheckTime: stringOr(w.LastBanCheckTime, Never),

		LastActivity: stringOr(w.LastActivity, ""),
	}
}

// Empty strings count as absent, same as null.
func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

func numberOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// MiningStats is the GET /api/mining-status payload.
type MiningStats struct {
	IsMining       bool    `json:"is_mining"`
	CurrentBalance float64 `json:"current_balance"`
	TotalRewards   float64 `json:"total_rewards"`
	Error          string  `json:"error,omitempty"`
}

// ActivityLog is the GET /api/get_activity_log payload.
type ActivityLog struct {
	Status      string `json:"status"`
	ActivityLog string `json:"activity_log"`
}
