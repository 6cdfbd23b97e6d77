package arize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanlens/spanlens/pkg/config"
)

func testConfig(restURL, graphqlURL string) *config.Config {
	return &config.Config{
		APIKey:          "ak-test-key",
		SpaceID:         "U3BhY2U6dGVzdA==",
		RESTBaseURL:     restURL,
		GraphQLEndpoint: graphqlURL,
		Timeout:         5,
		MaxRetries:      0,
	}
}

func TestListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "Bearer ak-test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"projects": []map[string]any{
				{"id": "proj-1", "name": "test-project"},
				{"id": "proj-2", "name": "bloom_prod"},
			},
		})
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	projects, err := client.ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "test-project", projects[0].Name)
}

func TestListProjects_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "Invalid API key"})
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	_, err := client.ListProjects(context.Background())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestGetDataset_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "dataset does not exist"})
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	_, err := client.GetDataset(context.Background(), "nope")

	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsAuthError(err))
}

func TestCreateDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/datasets", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "new-dataset", payload["name"])
		assert.Equal(t, "A test dataset", payload["description"])

		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ds-new", "name": "new-dataset"})
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	dataset, err := client.CreateDataset(context.Background(), "new-dataset", "A test dataset", nil)

	require.NoError(t, err)
	assert.Equal(t, "ds-new", dataset["id"])
}

func TestListDatasetExamples_PassesLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/ds-1/examples", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"examples": []map[string]any{{"id": "ex-1", "input": "q", "output": "a"}},
		})
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	examples, err := client.ListDatasetExamples(context.Background(), "ds-1", 25)

	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "ex-1", examples[0]["id"])
}

func TestDeleteDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewRestClient(testConfig(server.URL, ""))
	require.NoError(t, client.DeleteDataset(context.Background(), "ds-1"))
}

func TestExportSpans(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spans/export", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "U3BhY2U6dGVzdA==", payload["space_id"])
		assert.Equal(t, "test-project", payload["project_name"])
		assert.Equal(t, "span_kind = 'LLM'", payload["where"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"columns": []string{"context.trace_id", "latency_ms"},
			"rows":    [][]any{{"trace-1", 100.0}},
		})
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	exporter := NewExportClient(NewRestClient(cfg), cfg.SpaceID)

	tbl, err := exporter.ExportSpans(context.Background(), ExportParams{
		ProjectName: "test-project",
		Where:       "span_kind = 'LLM'",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.True(t, tbl.HasColumn("latency_ms"))
}

func TestExportSpans_EmptyTableNonNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	exporter := NewExportClient(NewRestClient(cfg), cfg.SpaceID)

	tbl, err := exporter.ExportSpans(context.Background(), ExportParams{ProjectName: "p"})

	require.NoError(t, err)
	assert.NotNil(t, tbl.Columns)
	assert.NotNil(t, tbl.Rows)
	assert.True(t, tbl.IsEmpty())
}
