package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/filter"
	"github.com/spanlens/spanlens/pkg/table"
)

// RegisterTraceTools registers span export and filtering tools.
func RegisterTraceTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(mcp.NewTool("export_traces",
		mcp.WithDescription("Export traces/spans from an Arize project as a table. "+
			"Common columns: context.span_id, context.trace_id, attributes.input.value, "+
			"attributes.output.value, attributes.llm.token_count.total, status_code."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name to export traces from")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"), mcp.DefaultNumber(7)),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of spans to return"), mcp.DefaultNumber(100)),
		mcp.WithArray("columns",
			mcp.Description("Optional list of specific columns to include"),
			mcp.Items(map[string]any{"type": "string"})),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}
		return exportTraces(ctx, deps,
			projectName,
			req.GetInt("days", 7),
			req.GetInt("limit", 100),
			req.GetStringSlice("columns", nil),
		)
	})

	s.AddTool(mcp.NewTool("get_trace",
		mcp.WithDescription("Get all spans for a specific trace."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name")),
		mcp.WithString("trace_id", mcp.Required(),
			mcp.Description("The trace ID to retrieve")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to search back"), mcp.DefaultNumber(7)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}
		traceID, err := req.RequireString("trace_id")
		if err != nil {
			return errorResult(err, "")
		}
		return getTrace(ctx, deps, projectName, traceID, req.GetInt("days", 7))
	})

	s.AddTool(mcp.NewTool("filter_spans",
		mcp.WithDescription("Filter spans by various criteria."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"), mcp.DefaultNumber(7)),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of spans to return"), mcp.DefaultNumber(100)),
		mcp.WithString("where",
			mcp.Description("Filter expression, e.g. \"attributes.llm.token_count.total > 1000\"")),
		mcp.WithString("span_kind",
			mcp.Description("Filter by span kind (LLM, CHAIN, RETRIEVER, TOOL, EMBEDDING, AGENT)")),
		mcp.WithBoolean("has_error",
			mcp.Description("If true, only spans with errors; if false, only spans without")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}

		var hasError *bool
		if _, ok := req.GetArguments()["has_error"]; ok {
			v := req.GetBool("has_error", false)
			hasError = &v
		}

		return filterSpans(ctx, deps,
			projectName,
			req.GetInt("days", 7),
			req.GetInt("limit", 100),
			req.GetString("where", ""),
			req.GetString("span_kind", ""),
			hasError,
		)
	})
}

func exportTraces(ctx context.Context, deps *Deps, projectName string, days, limit int, columns []string) (*mcp.CallToolResult, error) {
	start, end := timeRange(days)

	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
		Columns:     columns,
	})
	if err != nil {
		return exportError(err, projectName)
	}

	return toolResult(map[string]any{
		"total_rows": t.Len(),
		"columns":    t.Columns,
		"traces":     table.Records(t, limit),
	})
}

func getTrace(ctx context.Context, deps *Deps, projectName, traceID string, days int) (*mcp.CallToolResult, error) {
	if !filter.ValidTraceID(traceID) {
		return toolResult(map[string]any{
			"error": fmt.Sprintf("Invalid trace_id: %q", traceID),
			"hint":  "Trace IDs contain only hexadecimal digits and hyphens.",
		})
	}

	start, end := timeRange(days)
	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
		Where:       filter.TraceIDIs(traceID),
	})
	if err != nil {
		return exportError(err, projectName)
	}

	spans := table.Records(t, 1000)
	return toolResult(map[string]any{
		"trace_id":   traceID,
		"span_count": len(spans),
		"spans":      spans,
	})
}

func filterSpans(ctx context.Context, deps *Deps, projectName string, days, limit int, where, spanKind string, hasError *bool) (*mcp.CallToolResult, error) {
	conditions := make([]string, 0, 3)
	if where != "" {
		conditions = append(conditions, where)
	}
	if spanKind != "" {
		if !filter.ValidSpanKind(spanKind) {
			return toolResult(map[string]any{
				"error":       fmt.Sprintf("Invalid span_kind: %q", spanKind),
				"valid_kinds": filter.SpanKindValues(),
			})
		}
		conditions = append(conditions, filter.SpanKindIs(spanKind))
	}
	if hasError != nil {
		conditions = append(conditions, filter.HasError(*hasError))
	}

	whereClause := filter.Combine(conditions...)

	start, end := timeRange(days)
	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
		Where:       whereClause,
	})
	if err != nil {
		return exportError(err, projectName)
	}

	result := map[string]any{
		"total_matches": t.Len(),
		"spans":         table.Records(t, limit),
	}
	if whereClause != "" {
		result["filter_applied"] = whereClause
	}
	return toolResult(result)
}

// exportError classifies an export failure into the structured error
// shapes the caller can act on.
func exportError(err error, projectName string) (*mcp.CallToolResult, error) {
	switch {
	case arize.IsAuthError(err):
		return toolResult(map[string]any{
			"error":   "Authentication failed",
			"details": err.Error(),
			"hint":    "Please verify your ARIZE_API_KEY is valid and has export permissions.",
		})
	case arize.IsNotFoundError(err) || strings.Contains(strings.ToLower(err.Error()), "not found"):
		return toolResult(map[string]any{
			"error":   fmt.Sprintf("Project '%s' not found", projectName),
			"details": err.Error(),
			"hint":    "Check that the project name matches exactly (case-sensitive).",
		})
	default:
		return errorResult(err, "")
	}
}
