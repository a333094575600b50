// Package mcp serves a generated registry to coding agents over the Model
// Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uireg/pkg/registry"
)

const serverVersion = "0.1.0-dev"

// Server exposes read-only registry queries as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	reg       *registry.Registry
	logger    *slog.Logger
}

// NewServer creates an MCP server backed by reg. Tool calls are logged at
// debug level through logger.
func NewServer(reg *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{reg: reg, logger: logger}

	s.mcpServer = server.NewMCPServer(
		"uireg",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentTool(), Handler: s.handleGetComponent},
		server.ServerTool{Tool: getComponentExamplesTool(), Handler: s.handleGetComponentExamples},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
