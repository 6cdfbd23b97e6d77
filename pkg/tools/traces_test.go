package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/table"
)

func spanTable() *table.Table {
	return &table.Table{
		Columns: []string{"context.span_id", "context.trace_id", "span_kind", "status_code"},
		Rows: [][]any{
			{"span-1", "abc123", "LLM", "OK"},
			{"span-2", "abc123", "TOOL", "ERROR"},
			{"span-3", "def456", "LLM", "OK"},
		},
	}
}

func TestExportTraces(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	result, err := exportTraces(context.Background(), deps, "my-project", 7, 100, []string{"context.span_id"})
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Equal(t, float64(3), payload["total_rows"])
	require.Len(t, payload["traces"], 3)

	require.Equal(t, "my-project", exporter.params.ProjectName)
	require.Equal(t, []string{"context.span_id"}, exporter.params.Columns)
	require.Empty(t, exporter.params.Where)
}

func TestExportTraces_LimitCapsRows(t *testing.T) {
	deps := depsWithExporter(&fakeExporter{table: spanTable()})

	result, err := exportTraces(context.Background(), deps, "my-project", 7, 2, nil)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Equal(t, float64(3), payload["total_rows"])
	require.Len(t, payload["traces"], 2)
}

func TestGetTrace(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	result, err := getTrace(context.Background(), deps, "my-project", "abc123", 7)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Equal(t, "abc123", payload["trace_id"])
	require.Equal(t, float64(3), payload["span_count"])
	require.Equal(t, "context.trace_id = 'abc123'", exporter.params.Where)
}

func TestGetTrace_RejectsInvalidID(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	result, err := getTrace(context.Background(), deps, "my-project", "'; DROP TABLE traces; --", 7)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Contains(t, payload["error"], "Invalid trace_id")
	// The exporter must never see the rejected value.
	require.Empty(t, exporter.params.ProjectName)
}

func TestFilterSpans_CombinesConditions(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	hasError := true
	result, err := filterSpans(context.Background(), deps, "my-project", 7, 100,
		"attributes.llm.token_count.total > 1000", "llm", &hasError)
	require.NoError(t, err)

	want := "attributes.llm.token_count.total > 1000 AND span_kind = 'LLM' AND status_code = 'ERROR'"
	require.Equal(t, want, exporter.params.Where)

	payload := decodeResult(t, result)
	require.Equal(t, want, payload["filter_applied"])
	require.Equal(t, float64(3), payload["total_matches"])
}

func TestFilterSpans_HasErrorFalse(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	hasError := false
	_, err := filterSpans(context.Background(), deps, "my-project", 7, 100, "", "", &hasError)
	require.NoError(t, err)
	require.Equal(t, "status_code != 'ERROR'", exporter.params.Where)
}

func TestFilterSpans_NoConditions(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	result, err := filterSpans(context.Background(), deps, "my-project", 7, 100, "", "", nil)
	require.NoError(t, err)
	require.Empty(t, exporter.params.Where)

	payload := decodeResult(t, result)
	require.NotContains(t, payload, "filter_applied")
}

func TestFilterSpans_RejectsInvalidKind(t *testing.T) {
	exporter := &fakeExporter{table: spanTable()}
	deps := depsWithExporter(exporter)

	result, err := filterSpans(context.Background(), deps, "my-project", 7, 100, "", "DATABASE", nil)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Contains(t, payload["error"], "Invalid span_kind")
	require.ElementsMatch(t,
		[]any{"AGENT", "CHAIN", "EMBEDDING", "LLM", "RETRIEVER", "TOOL"},
		payload["valid_kinds"])
	require.Empty(t, exporter.params.ProjectName)
}

func TestExportError_Auth(t *testing.T) {
	deps := depsWithExporter(&fakeExporter{
		err: &arize.APIError{StatusCode: 401, Endpoint: "/spans/export", Detail: "invalid key"},
	})

	result, err := exportTraces(context.Background(), deps, "my-project", 7, 100, nil)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Equal(t, "Authentication failed", payload["error"])
	require.Contains(t, payload["hint"], "ARIZE_API_KEY")
}

func TestExportError_ProjectNotFound(t *testing.T) {
	deps := depsWithExporter(&fakeExporter{
		err: &arize.APIError{StatusCode: 404, Endpoint: "/spans/export", Detail: "no such project"},
	})

	result, err := exportTraces(context.Background(), deps, "missing", 7, 100, nil)
	require.NoError(t, err)

	payload := decodeResult(t, result)
	require.Equal(t, "Project 'missing' not found", payload["error"])
	require.Contains(t, payload["hint"], "case-sensitive")
}
