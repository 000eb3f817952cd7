// Package mcpserver exposes the memory store's operations as MCP tools
// so AI agents can use the store over stdio. It is a thin composition
// layer: every tool translates arguments, calls one store operation,
// and renders the result as JSON. No store logic lives here.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Yeseh/cortex/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

const instructions = `cortex is a hierarchical memory store. Memories live at
slash-separated paths of lowercase slugs (e.g. project/cortex/decisions);
the final segment names the memory, the rest are nested categories.
Use memory_list to discover what is stored before creating duplicates.`

// New builds the MCP server with all memory tools registered against
// the given operations surface.
func New(ops store.Operations) *server.MCPServer {
	s := server.NewMCPServer(
		"cortex",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	registerTools(s, ops)
	return s
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
