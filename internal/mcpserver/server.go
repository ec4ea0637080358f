package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/b0ase/path402/apps/aveumdash/internal/commands"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// AveumAPI is the read side of the Aveum server.
type AveumAPI interface {
	Status(ctx context.Context) (*status.Snapshot, error)
	MiningStats(ctx context.Context) (*status.MiningStats, error)
	ActivityLog(ctx context.Context) (*status.ActivityLog, error)
}

// Commander runs a dashboard command by button id.
type Commander interface {
	Dispatch(ctx context.Context, buttonID string) (commands.Outcome, error)
}

// PageReader exposes the current dashboard page.
type PageReader interface {
	Elements() []page.Element
}

// MCPServer wraps the MCP protocol server with Aveum dashboard tools.
type MCPServer struct {
	server *mcp.Server
	api    AveumAPI
	cmds   Commander
	page   PageReader
	fmt    status.Formatter
}

// New creates an MCP server with all dashboard tools registered.
func New(version string, api AveumAPI, cmds Commander, pg PageReader, f status.Formatter) *MCPServer {
	s := &MCPServer{
		api:  api,
		cmds: cmds,
		page: pg,
		fmt:  f,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    "aveumdash",
				Version: version,
			},
			&mcp.ServerOptions{
				Instructions: "Aveum automation dashboard. Query account, mining and auto-like status, and run the dashboard's control commands.",
			},
		),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
