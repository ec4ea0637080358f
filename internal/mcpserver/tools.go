package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/b0ase/path402/apps/aveumdash/internal/commands"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

type emptyInput struct{}

// toolName maps a button id to its tool: check-ban -> aveum_check_ban.
func toolName(buttonID string) string {
	return "aveum_" + strings.ReplaceAll(buttonID, "-", "_")
}

// registerTools adds all dashboard MCP tools to the server.
func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "aveum_status",
		Description: "Account, device, mining, auto-like and ban status as the dashboard shows it",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "aveum_mining_stats",
		Description: "Lightweight mining counters: running flag, balance, total rewards",
	}, s.handleMiningStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "aveum_activity_log",
		Description: "The account's activity log",
	}, s.handleActivityLog)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "aveum_page",
		Description: "Every element on the dashboard page with its text and state",
	}, s.handlePage)

	for _, c := range commands.All {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        toolName(c.ButtonID),
			Description: c.Summary,
		}, s.commandHandler(c))
	}
}

// --- Handlers ---

func (s *MCPServer) handleStatus(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.api.Status(ctx)
	if err != nil {
		return errResult(fmt.Sprintf("failed to get status: %v", err)), nil, nil
	}
	if !snap.Success {
		return errResult(fmt.Sprintf("status reported failure: %s", snap.Error)), nil, nil
	}
	return textResult(s.formatStatus(snap, time.Now())), nil, nil
}

func (s *MCPServer) formatStatus(snap *status.Snapshot, at time.Time) string {
	onOff := func(b bool, on, off string) string {
		if b {
			return on
		}
		return off
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Aveum Status (as of %s)\n\n", s.fmt.Time(at))
	fmt.Fprintf(&b, "## Account\n")
	fmt.Fprintf(&b, "- Email: %s\n", snap.AveumEmail)
	fmt.Fprintf(&b, "- Login: %s\n", onOff(snap.LoginStatus, "Logged In", "Not Logged In"))
	fmt.Fprintf(&b, "- Device: %s (%s, %s)\n", snap.DeviceID, snap.DeviceModel, snap.PlatformVersion)
	fmt.Fprintf(&b, "- Ban status: %s\n", onOff(snap.IsBanned, "Banned", "Not Banned"))
	fmt.Fprintf(&b, "- Last ban check: %s\n\n", s.fmt.DateTime(snap.LastBanCheckTime))

	fmt.Fprintf(&b, "## Mining\n")
	fmt.Fprintf(&b, "- Mode: %s\n", onOff(snap.MiningActive, "Mining", "Auto-Like"))
	fmt.Fprintf(&b, "- Status: %s\n", onOff(snap.IsMining, "Active", "Inactive"))
	fmt.Fprintf(&b, "- Balance: %s\n", status.FormatNumber(snap.CurrentBalance))
	fmt.Fprintf(&b, "- Total rewards: %s\n", status.FormatNumber(snap.TotalRewards))
	fmt.Fprintf(&b, "- Sessions: %s\n", status.FormatNumber(snap.MiningSessionsCompleted))
	fmt.Fprintf(&b, "- Errors: %s\n\n", status.FormatNumber(snap.MiningErrors))

	fmt.Fprintf(&b, "## Auto-Like\n")
	fmt.Fprintf(&b, "- Status: %s\n", onOff(snap.AutoLikeActive, "Active", "Inactive"))
	fmt.Fprintf(&b, "- Total likes: %s\n", status.FormatNumber(snap.TotalLikes))
	fmt.Fprintf(&b, "- Today: %s\n", status.FormatNumber(snap.DailyLikes))
	fmt.Fprintf(&b, "- Errors: %s\n", status.FormatNumber(snap.LikeErrors))
	return b.String()
}

func (s *MCPServer) handleMiningStats(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	ms, err := s.api.MiningStats(ctx)
	if err != nil {
		return errResult(fmt.Sprintf("failed to get mining stats: %v", err)), nil, nil
	}
	if ms.Error != "" {
		return errResult(ms.Error), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Mining Stats\n\n")
	fmt.Fprintf(&b, "- Mining: %v\n", ms.IsMining)
	fmt.Fprintf(&b, "- Balance: %s\n", status.FormatNumber(ms.CurrentBalance))
	fmt.Fprintf(&b, "- Total rewards: %s AVEUM\n", status.FormatNumber(ms.TotalRewards))
	return textResult(b.String()), nil, nil
}

func (s *MCPServer) handleActivityLog(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	al, err := s.api.ActivityLog(ctx)
	if err != nil {
		return errResult(fmt.Sprintf("failed to get activity log: %v", err)), nil, nil
	}
	if al.ActivityLog == "" {
		return textResult("No activity yet."), nil, nil
	}
	return textResult(al.ActivityLog), nil, nil
}

func (s *MCPServer) handlePage(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dashboard Page\n\n")
	for _, e := range s.page.Elements() {
		if e.ID == page.BodyID {
			continue
		}
		fmt.Fprintf(&b, "- `%s` <%s>", e.ID, e.Tag)
		if e.Text != "" {
			fmt.Fprintf(&b, " %q", e.Text)
		}
		if e.Class != "" {
			fmt.Fprintf(&b, " class=%q", e.Class)
		}
		if e.Disabled {
			b.WriteString(" (disabled)")
		}
		b.WriteString("\n")
	}
	return textResult(b.String()), nil, nil
}

func (s *MCPServer) commandHandler(c commands.Command) mcp.ToolHandlerFor[emptyInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
		out, err := s.cmds.Dispatch(ctx, c.ButtonID)
		if err != nil {
			return errResult(err.Error()), nil, nil
		}
		switch out.Result {
		case commands.ResultSuccess:
			text := out.Message
			if out.Reply != nil && out.Reply.Message != "" {
				text += "\n\n" + out.Reply.Message
			}
			return textResult(text), nil, nil
		case commands.ResultException:
			return errResult(fmt.Sprintf("%s: %v", out.Message, out.Err)), nil, nil
		default:
			return errResult(out.Message), nil, nil
		}
	}
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
