// Package client talks to the Aveum automation server's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

const (
	PathStatus      = "/api/status"
	PathMiningStats = "/api/mining-status"
	PathActivityLog = "/api/get_activity_log"
)

// HTTPError is a non-2xx reply to a GET.
type HTTPError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Config configures a Client.
type Config struct {
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration // 0 = none
}

// Client is safe for concurrent use. Requests are independent: nothing is
// queued, deduplicated or retried.
type Client struct {
	baseURL string
	cookie  string
	http    *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cookie:  cfg.SessionCookie,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.cookie})
	}
	return req, nil
}

// get fetches path and returns the body of a 2xx reply.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Method: http.MethodGet, Path: path, Code: resp.StatusCode, Body: trimBody(data)}
	}
	return data, nil
}

func trimBody(b []byte) string {
	s := string(bytes.TrimSpace(b))
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}

// Status fetches the current snapshot. A decoded snapshot is returned even
// when its success flag is false; the caller decides what to do with it.
func (c *Client) Status(ctx context.Context) (*status.Snapshot, error) {
	data, err := c.get(ctx, PathStatus)
	if err != nil {
		return nil, err
	}
	return status.Parse(data)
}

// MiningStats fetches the lightweight mining counters.
func (c *Client) MiningStats(ctx context.Context) (*status.MiningStats, error) {
	data, err := c.get(ctx, PathMiningStats)
	if err != nil {
		return nil, err
	}
	var ms status.MiningStats
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("decode mining stats: %w", err)
	}
	return &ms, nil
}

// ActivityLog fetches the account's activity log text.
func (c *Client) ActivityLog(ctx context.Context) (*status.ActivityLog, error) {
	data, err := c.get(ctx, PathActivityLog)
	if err != nil {
		return nil, err
	}
	var al status.ActivityLog
	if err := json.Unmarshal(data, &al); err != nil {
		return nil, fmt.Errorf("decode activity log: %w", err)
	}
	return &al, nil
}

// ActionResponse is the JSON body of a control endpoint reply.
type ActionResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	HTTPStatus int    `json:"-"`
}

// Post sends a bodyless POST to a control endpoint. The server reports
// failures as JSON with 4xx/5xx codes, so the body is decoded whatever the
// status; only transport and decode failures are errors.
func (c *Client) Post(ctx context.Context, path string) (*ActionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s reply (HTTP %d): %w", path, resp.StatusCode, err)
	}
	// null, arrays and bare values carry no success or error field to read
	if raw = bytes.TrimSpace(raw); len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("decode %s reply (HTTP %d): not a JSON object: %.32s", path, resp.StatusCode, raw)
	}
	var ar ActionResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return nil, fmt.Errorf("decode %s reply (HTTP %d): %w", path, resp.StatusCode, err)
	}
	ar.HTTPStatus = resp.StatusCode
	return &ar, nil
}
