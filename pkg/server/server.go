// Package server assembles the MCP server: it computes the startup
// result once, registers the tool surface when configuration is valid,
// and always registers get_status so a misconfigured process still
// answers instead of crashing the whole tool surface.
package server

import (
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/config"
	"github.com/spanlens/spanlens/pkg/experiment"
	"github.com/spanlens/spanlens/pkg/tools"
)

const (
	// Name is the MCP server name announced to clients.
	Name = "Arize AX"
	// Version is the server version announced to clients.
	Version = "0.2.0"

	instructions = "Query and analyze traces, spans, datasets, and experiments " +
		"from the Arize AX observability platform"
)

// Server wraps the MCP server plus the held startup result.
type Server struct {
	mcp     *mcpserver.MCPServer
	initErr error
}

// New loads configuration, builds the upstream clients and registers
// the tool surface. Configuration failure is captured, not returned:
// the server still serves get_status.
func New(configPath string) *Server {
	s := &Server{
		mcp: mcpserver.NewMCPServer(Name, Version,
			mcpserver.WithInstructions(instructions),
			mcpserver.WithToolCapabilities(false),
		),
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		s.initErr = err
		slog.Error("startup configuration failed", "error", err)
	} else {
		clients := arize.NewClients(cfg)
		runner := experiment.NewRunner(clients.Rest, cfg.CompletionAPIKey)
		tools.RegisterAll(s.mcp, &tools.Deps{Clients: clients, Runner: runner})
		slog.Info("registered tool surface", "rest_url", cfg.RESTBaseURL)
	}

	tools.RegisterStatusTool(s.mcp, s.initErr)
	return s
}

// InitErr returns the held startup result; nil means the full tool
// surface is registered.
func (s *Server) InitErr() error {
	return s.initErr
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}

// MCP exposes the underlying MCP server, mainly for tests.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}
