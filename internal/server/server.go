package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/localrivet/gomcp/server"

	"github.com/hudulabs/hudumcp/internal/errortypes"
	"github.com/hudulabs/hudumcp/internal/router"
)

// ServerName is the name announced to MCP clients.
const ServerName = "hudumcp"

// HuduToolServer implements the ToolServer interface, bridging the MCP
// transport to the tool router.
type HuduToolServer struct {
	router    *router.Router
	mcpServer server.Server
}

// NewHuduToolServer creates a new HuduToolServer around a populated router.
func NewHuduToolServer(r *router.Router) *HuduToolServer {
	return &HuduToolServer{router: r}
}

// Initialize registers every routed tool with the MCP server.
func (s *HuduToolServer) Initialize() error {
	if s.router == nil {
		return errortypes.ConfigError(errors.New("missing router"), "server initialization failed")
	}

	slog.Info("Initializing MCP Hudu Tool Server")

	srv := server.NewServer(ServerName)
	tools := s.router.Tools()
	for _, tool := range tools {
		srv = srv.Tool(tool.Name, tool.Description, s.makeHandler(tool.Name))
	}

	s.mcpServer = srv
	slog.Info("MCP Hudu Tool Server initialized successfully", "tool_count", len(tools))
	return nil
}

// makeHandler adapts one routed tool to the MCP handler signature. The
// router produces the final reply text; transport-level framing is left to
// the MCP server.
func (s *HuduToolServer) makeHandler(name string) func(*server.Context, map[string]interface{}) (string, error) {
	return func(_ *server.Context, args map[string]interface{}) (string, error) {
		// Tool calls are not cancellable mid-flight; the HTTP client's
		// own timeout bounds the outbound request.
		result, err := s.router.Call(context.Background(), name, args)
		if err != nil {
			return "", err
		}
		return result.Text(), nil
	}
}

// Start starts the MCP server on the stdio transport.
func (s *HuduToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(errors.New("server not initialized"), "cannot start server")
	}

	slog.Info("Starting MCP Hudu Tool Server")

	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *HuduToolServer) Stop() error {
	slog.Info("Stopping MCP Hudu Tool Server")
	// The server exits when stdin is closed.
	return nil
}
