package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterStatusTool registers get_status, which reports the startup
// result computed once at process start. When configuration failed,
// every other tool is absent but this one still answers, so a caller
// can learn why.
func RegisterStatusTool(s *server.MCPServer, initErr error) {
	s.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Get the status of the Arize MCP server. "+
			"Returns configuration errors if the server failed to initialize."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return statusResult(initErr)
	})
}

func statusResult(initErr error) (*mcp.CallToolResult, error) {
	if initErr != nil {
		return toolResult(map[string]any{
			"status": "error",
			"error":  initErr.Error(),
			"hint":   "Check your ARIZE_API_KEY and ARIZE_SPACE_ID environment variables.",
		})
	}
	return toolResult(map[string]any{"status": "ok"})
}
