package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolNames lists the registered tools via the JSON-RPC surface.
func toolNames(t *testing.T, s *Server) []string {
	t.Helper()

	raw := s.MCP().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(raw)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &response))
	require.Nil(t, response.Error)

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestNew_ValidConfig(t *testing.T) {
	t.Setenv("ARIZE_API_KEY", "ak-test-key")
	t.Setenv("ARIZE_SPACE_ID", "U3BhY2U6dGVzdA==")

	s := New("")
	require.NoError(t, s.InitErr())

	names := toolNames(t, s)
	assert.Contains(t, names, "get_status")
	assert.Contains(t, names, "list_projects")
	assert.Contains(t, names, "get_model_schema")
	assert.Contains(t, names, "export_traces")
	assert.Contains(t, names, "get_trace")
	assert.Contains(t, names, "filter_spans")
	assert.Contains(t, names, "analyze_errors")
	assert.Contains(t, names, "analyze_latency")
	assert.Contains(t, names, "get_trace_statistics")
	assert.Contains(t, names, "list_datasets")
	assert.Contains(t, names, "get_dataset")
	assert.Contains(t, names, "create_dataset")
	assert.Contains(t, names, "delete_dataset")
	assert.Contains(t, names, "list_experiments")
	assert.Contains(t, names, "get_experiment")
	assert.Contains(t, names, "run_experiment")
}

func TestNew_InvalidAPIKeyPrefix(t *testing.T) {
	t.Setenv("ARIZE_API_KEY", "sk-wrong-prefix")
	t.Setenv("ARIZE_SPACE_ID", "U3BhY2U6dGVzdA==")

	s := New("")
	require.Error(t, s.InitErr())

	// Only the status tool survives a failed startup.
	names := toolNames(t, s)
	assert.Equal(t, []string{"get_status"}, names)
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("ARIZE_API_KEY", "")
	t.Setenv("ARIZE_SPACE_ID", "")

	s := New("")
	require.Error(t, s.InitErr())
	assert.Contains(t, s.InitErr().Error(), "ARIZE_API_KEY")
}

func TestNew_InvalidSpaceID(t *testing.T) {
	t.Setenv("ARIZE_API_KEY", "ak-test-key")
	t.Setenv("ARIZE_SPACE_ID", "not!!!base64")

	s := New("")
	require.Error(t, s.InitErr())
}

func TestGetStatus_ReportsStartupError(t *testing.T) {
	t.Setenv("ARIZE_API_KEY", "bad-key")
	t.Setenv("ARIZE_SPACE_ID", "U3BhY2U6dGVzdA==")

	s := New("")
	require.Error(t, s.InitErr())

	raw := s.MCP().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_status"}}`))

	data, err := json.Marshal(raw)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &response))
	require.Len(t, response.Result.Content, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(response.Result.Content[0].Text), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["hint"], "ARIZE_API_KEY")
}
