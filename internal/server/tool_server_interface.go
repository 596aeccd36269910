// Package server provides the MCP server implementation for the Hudu tool
// service.
package server

// ToolServer defines the interface for the MCP server that exposes the
// Hudu tool surface to MCP clients.
type ToolServer interface {
	// Initialize registers all tools and prepares the server.
	Initialize() error

	// Start starts the MCP server on the stdio transport.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}
