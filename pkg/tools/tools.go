// Package tools registers the MCP tool surface over the Arize AX
// clients. Every handler returns structured JSON content; failures
// become {error, hint?} objects rather than protocol faults, so a
// caller always receives a response object.
package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/experiment"
)

// Deps carries everything the tool handlers need.
type Deps struct {
	Clients *arize.Clients
	Runner  *experiment.Runner
}

// RegisterAll registers every tool group on the server.
func RegisterAll(s *server.MCPServer, deps *Deps) {
	RegisterProjectTools(s, deps)
	RegisterTraceTools(s, deps)
	RegisterAnalysisTools(s, deps)
	RegisterDatasetTools(s, deps)
	RegisterExperimentTools(s, deps)
}

// toolResult renders v as the tool's JSON content.
func toolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf(`{"error":"failed to encode result: %v"}`, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult renders an error object, optionally with a hint.
func errorResult(err error, hint string) (*mcp.CallToolResult, error) {
	payload := map[string]any{"error": err.Error()}
	if hint != "" {
		payload["hint"] = hint
	}
	return toolResult(payload)
}

// timeRange returns the UTC window covering the last days days.
func timeRange(days int) (time.Time, time.Time) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	return start, end
}
