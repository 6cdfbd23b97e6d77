package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
)

// RegisterProjectTools registers project and schema discovery tools.
func RegisterProjectTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects (tracing endpoints) in the Arize space. "+
			"Use the project 'name' (not 'id') when calling trace tools."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listProjects(ctx, deps)
	})

	s.AddTool(mcp.NewTool("get_model_schema",
		mcp.WithDescription("Get the tracing schema for a project, showing available span "+
			"properties and evaluations. Use this to discover filterable columns. "+
			"Requires GraphQL developer permissions."),
		mcp.WithString("model_id", mcp.Required(),
			mcp.Description("The project/model ID from list_projects (the 'id' field, not 'name')")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back for schema discovery"),
			mcp.DefaultNumber(7)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		modelID, err := req.RequireString("model_id")
		if err != nil {
			return errorResult(err, "")
		}
		days := req.GetInt("days", 7)
		return getModelSchema(ctx, deps, modelID, days)
	})
}

// listProjects tries the REST listing first and falls back to GraphQL
// when REST signals an auth or permission failure. Both failures are
// reported when the whole chain fails.
func listProjects(ctx context.Context, deps *Deps) (*mcp.CallToolResult, error) {
	projects, restErr := deps.Clients.Rest.ListProjects(ctx)
	if restErr == nil {
		return toolResult(map[string]any{
			"projects": projects,
			"count":    len(projects),
		})
	}

	if arize.IsAuthError(restErr) || arize.IsPermissionError(restErr) {
		models, gqlErr := deps.Clients.GraphQL.ListModels(ctx, deps.Clients.SpaceID())
		if gqlErr == nil {
			return toolResult(map[string]any{
				"projects": models,
				"count":    len(models),
				"note":     "Retrieved via GraphQL API",
			})
		}
		return toolResult(map[string]any{
			"error":         restErr.Error(),
			"graphql_error": gqlErr.Error(),
			"hint": "If you know your project name, you can use export_traces " +
				"directly with that name.",
		})
	}

	return errorResult(restErr, "")
}

func getModelSchema(ctx context.Context, deps *Deps, modelID string, days int) (*mcp.CallToolResult, error) {
	start, end := timeRange(days)

	schema, err := deps.Clients.GraphQL.GetTracingSchema(ctx, modelID,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return errorResult(err, "Use export_traces to see available columns in the trace data.")
	}
	return toolResult(schema)
}
