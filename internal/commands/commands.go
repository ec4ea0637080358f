// Package commands binds the dashboard's control buttons to the Aveum
// server's action endpoints.
package commands

import (
	"github.com/b0ase/path402/apps/aveumdash/internal/client"
	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
)

// SuccessRule decides whether an action reply means success.
type SuccessRule int

const (
	// SuccessFlag: the reply's boolean success field.
	SuccessFlag SuccessRule = iota
	// MessagePresent: a non-empty message field. The mining start/stop
	// endpoints reply this way instead of with a success flag.
	MessagePresent
)

func (r SuccessRule) String() string {
	if r == MessagePresent {
		return "message"
	}
	return "success"
}

// Succeeded applies the rule to a reply.
func (r SuccessRule) Succeeded(ar *client.ActionResponse) bool {
	if r == MessagePresent {
		return ar.Message != ""
	}
	return ar.Success
}

// Command is one control button and the endpoint it triggers.
type Command struct {
	ButtonID string
	Path     string
	Rule     SuccessRule
	// Verb completes "Failed to <Verb>" and OK names the success toast.
	Verb    string
	Gerund  string
	OK      string
	Summary string
}

// FailureText is the danger toast for an unsuccessful reply.
func (c Command) FailureText(serverErr string) string {
	if serverErr == "" {
		serverErr = "unknown error"
	}
	return "Failed to " + c.Verb + ": " + serverErr
}

// ExceptionText is the danger toast for a transport or decode failure.
func (c Command) ExceptionText() string {
	return "An error occurred while " + c.Gerund
}

// All lists the six commands in page order.
var All = []Command{
	{
		ButtonID: dashboard.IDRefreshToken,
		Path:     "/api/refresh_token",
		Rule:     SuccessFlag,
		Verb:     "refresh token",
		Gerund:   "refreshing token",
		OK:       "Token refreshed successfully!",
		Summary:  "Log in to Aveum again and store a fresh access token",
	},
	{
		ButtonID: dashboard.IDSwitchMode,
		Path:     "/api/switch-mode",
		Rule:     SuccessFlag,
		Verb:     "switch mode",
		Gerund:   "switching mode",
		OK:       "Mode switched successfully!",
		Summary:  "Switch between mining mode and auto-like mode",
	},
	{
		ButtonID: dashboard.IDStartMining,
		Path:     "/api/start-mining",
		Rule:     MessagePresent,
		Verb:     "start mining",
		Gerund:   "starting mining",
		OK:       "Mining started successfully!",
		Summary:  "Start a mining session",
	},
	{
		ButtonID: dashboard.IDStopMining,
		Path:     "/api/stop-mining",
		Rule:     MessagePresent,
		Verb:     "stop mining",
		Gerund:   "stopping mining",
		OK:       "Mining stopped successfully!",
		Summary:  "Stop the running mining session",
	},
	{
		ButtonID: dashboard.IDToggleAutoLike,
		Path:     "/api/toggle_auto_like",
		Rule:     SuccessFlag,
		Verb:     "toggle auto-like",
		Gerund:   "toggling auto-like",
		OK:       "Auto-like toggled successfully!",
		Summary:  "Turn auto-like on or off",
	},
	{
		ButtonID: dashboard.IDCheckBan,
		Path:     "/api/check-ban",
		Rule:     SuccessFlag,
		Verb:     "check ban status",
		Gerund:   "checking ban status",
		OK:       "Ban status checked successfully!",
		Summary:  "Ask Aveum whether the account is banned",
	},
}

// Lookup finds a command by button id.
func Lookup(buttonID string) (Command, bool) {
	for _, c := range All {
		if c.ButtonID == buttonID {
			return c, true
		}
	}
	return Command{}, false
}
