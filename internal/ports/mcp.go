package ports

import (
	"context"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests and blocks until the transport closes.
	Start(ctx context.Context) error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}
