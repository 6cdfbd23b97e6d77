package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/filter"
	"github.com/spanlens/spanlens/pkg/stats"
	"github.com/spanlens/spanlens/pkg/table"
)

// Column candidates probed in priority order; the first present wins.
var (
	latencyColumns = []string{"latency_ms", "duration_ms", "attributes.latency_ms"}
	errorColumns   = []string{"status_message", "exception.message", "attributes.exception.message"}
	tokenColumns   = []string{
		"attributes.llm.token_count.total",
		"attributes.llm.token_count.prompt",
		"llm.token_count.total",
	}
)

// RegisterAnalysisTools registers the client-side aggregation tools.
func RegisterAnalysisTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(mcp.NewTool("analyze_errors",
		mcp.WithDescription("Analyze errors in traces to identify patterns."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name to analyze")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"), mcp.DefaultNumber(7)),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of error examples to return"), mcp.DefaultNumber(20)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}
		return analyzeErrors(ctx, deps, projectName, req.GetInt("days", 7), req.GetInt("limit", 20))
	})

	s.AddTool(mcp.NewTool("analyze_latency",
		mcp.WithDescription("Analyze latency distribution for traces, including percentiles."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name to analyze")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"), mcp.DefaultNumber(7)),
		mcp.WithString("span_kind",
			mcp.Description("Optional filter by span kind (LLM, CHAIN, RETRIEVER, TOOL, EMBEDDING, AGENT)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}
		return analyzeLatency(ctx, deps, projectName, req.GetInt("days", 7), req.GetString("span_kind", ""))
	})

	s.AddTool(mcp.NewTool("get_trace_statistics",
		mcp.WithDescription("Get aggregate statistics for traces: counts by span kind and status, token usage."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name to analyze")),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"), mcp.DefaultNumber(7)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectName, err := req.RequireString("project_name")
		if err != nil {
			return errorResult(err, "")
		}
		return traceStatistics(ctx, deps, projectName, req.GetInt("days", 7))
	})
}

func analyzeErrors(ctx context.Context, deps *Deps, projectName string, days, limit int) (*mcp.CallToolResult, error) {
	start, end := timeRange(days)

	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
		Where:       filter.HasError(true),
	})
	if err != nil {
		return exportError(err, projectName)
	}

	if t.IsEmpty() {
		return toolResult(map[string]any{
			"error_count":     0,
			"time_range_days": days,
			"message":         "No errors found in the specified time range",
		})
	}

	result := map[string]any{
		"error_count":     t.Len(),
		"time_range_days": days,
	}

	if col, ok := t.FirstColumn(errorColumns...); ok {
		messages := stringColumn(t, col)
		result["error_patterns"] = stats.ErrorPatterns(messages, 10)
	}

	result["sample_errors"] = table.Records(t, limit)
	return toolResult(result)
}

func analyzeLatency(ctx context.Context, deps *Deps, projectName string, days int, spanKind string) (*mcp.CallToolResult, error) {
	where := ""
	if spanKind != "" {
		if !filter.ValidSpanKind(spanKind) {
			return toolResult(map[string]any{
				"error":       fmt.Sprintf("Invalid span_kind: %q", spanKind),
				"valid_kinds": filter.SpanKindValues(),
			})
		}
		where = filter.SpanKindIs(spanKind)
	}

	start, end := timeRange(days)
	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
		Where:       where,
	})
	if err != nil {
		return exportError(err, projectName)
	}

	if t.IsEmpty() {
		return toolResult(map[string]any{
			"span_count":      0,
			"time_range_days": days,
			"message":         "No spans found in the specified time range",
		})
	}

	col, ok := t.FirstColumn(latencyColumns...)
	if !ok {
		return toolResult(map[string]any{
			"span_count":        t.Len(),
			"time_range_days":   days,
			"error":             "No latency column found in data",
			"available_columns": t.Columns,
		})
	}

	latencies := floatColumn(t, col)
	if len(latencies) == 0 {
		return toolResult(map[string]any{
			"span_count":      t.Len(),
			"time_range_days": days,
			"message":         "Latency column contains no values",
		})
	}

	result := map[string]any{
		"span_count":      t.Len(),
		"time_range_days": days,
		"latency_stats":   stats.Latency(latencies),
	}
	if spanKind != "" {
		result["span_kind"] = spanKind
	}
	return toolResult(result)
}

func traceStatistics(ctx context.Context, deps *Deps, projectName string, days int) (*mcp.CallToolResult, error) {
	start, end := timeRange(days)

	t, err := deps.Clients.Exporter.ExportSpans(ctx, arize.ExportParams{
		ProjectName: projectName,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		return exportError(err, projectName)
	}

	if t.IsEmpty() {
		return toolResult(map[string]any{
			"total_spans":     0,
			"time_range_days": days,
			"message":         "No spans found in the specified time range",
		})
	}

	result := map[string]any{
		"total_spans":     t.Len(),
		"time_range_days": days,
	}

	if t.HasColumn("context.trace_id") {
		result["unique_traces"] = len(stats.Breakdown(stringColumn(t, "context.trace_id")))
	}
	if t.HasColumn("span_kind") {
		result["by_span_kind"] = stats.Breakdown(stringColumn(t, "span_kind"))
	}
	if t.HasColumn("status_code") {
		result["by_status"] = stats.Breakdown(stringColumn(t, "status_code"))
	}

	if col, ok := t.FirstColumn(tokenColumns...); ok {
		if tokens := floatColumn(t, col); len(tokens) > 0 {
			result["token_usage"] = stats.TokenUsage(tokens)
		}
	}

	return toolResult(result)
}

// floatColumn extracts the named column as floats, dropping missing
// entries.
func floatColumn(t *table.Table, name string) []float64 {
	values, ok := t.Column(name)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := asFloat(table.Normalize(v)); ok {
			out = append(out, f)
		}
	}
	return out
}

// stringColumn extracts the named column as strings, dropping missing
// entries.
func stringColumn(t *table.Table, name string) []string {
	values, ok := t.Column(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		normalized := table.Normalize(v)
		if normalized == nil {
			continue
		}
		if s, ok := normalized.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", normalized))
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
