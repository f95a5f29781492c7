package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xwm/internal/ipc"
)

const (
	ServerName    = "xwm"
	ServerVersion = "0.1.0"
)

// StatusClient is the read-only view of a running window manager the tools
// are served from. *ipc.Client satisfies it.
type StatusClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetWindows(filter ipc.WindowsPayload) (*ipc.WindowsData, error)
	GetOutputs() (*ipc.OutputsData, error)
}

// Server is the MCP server exposing window manager state.
type Server struct {
	mcpServer *mcpsdk.Server
	client    StatusClient
	logger    *slog.Logger
}

// NewServer creates an MCP server whose tools query client.
func NewServer(client StatusClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client: client,
		logger: logger.With("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the running window manager's uptime, event loop iterations, events processed, and window and output counts.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows known to the window manager with class, title, geometry, managed and mapped flags. Filter with managed_only and mapped_only.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_outputs",
		Description: "List the active RandR outputs with their names and geometry.",
	}, s.handleListOutputs)
}
