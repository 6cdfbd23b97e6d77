package arize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test-key", r.Header.Get("x-api-key"))

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload.Query, "ListModels")
		assert.Equal(t, "space-1", payload.Variables["spaceId"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"node": map[string]any{
					"models": map[string]any{
						"edges": []any{
							map[string]any{"node": map[string]any{
								"id": "model-1", "name": "test-project", "modelType": "GENERATIVE_LLM",
							}},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	models, err := client.ListModels(context.Background(), "space-1")

	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "test-project", models[0].Name)
	assert.Equal(t, "GENERATIVE_LLM", models[0].ModelType)
}

func TestListModels_NullNode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"node": nil}})
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	models, err := client.ListModels(context.Background(), "space-1")

	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestQuery_DeveloperPermissionsHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "this endpoint requires developer permissions"}`))
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	_, err := client.Query(context.Background(), listModelsQuery, nil)

	require.Error(t, err)
	assert.True(t, IsPermissionError(err))
	assert.Contains(t, err.Error(), "developer permissions")
	assert.Contains(t, err.Error(), "developer access enabled")
}

func TestQuery_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "unknown field"}},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	_, err := client.Query(context.Background(), getModelQuery, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestGetTracingSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"model": map[string]any{
					"name": "test-project",
					"tracingSchema": map[string]any{
						"spanProperties": map[string]any{
							"edges": []any{
								map[string]any{"node": map[string]any{
									"dimension": map[string]any{
										"name": "span_kind", "dataType": "STRING", "category": "spanProperty",
									},
								}},
							},
						},
						"llmEvals":    map[string]any{"edges": []any{}},
						"annotations": map[string]any{"edges": []any{}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	schema, err := client.GetTracingSchema(context.Background(), "model-1",
		"2024-01-01T00:00:00Z", "2024-01-08T00:00:00Z")

	require.NoError(t, err)
	assert.Equal(t, "test-project", schema.ModelName)
	require.Len(t, schema.SpanProperties, 1)
	assert.Equal(t, "span_kind", schema.SpanProperties[0].Name)
	assert.Empty(t, schema.LLMEvals)
	assert.Empty(t, schema.Annotations)
}

func TestGetTracingSchema_MissingSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"model": nil},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient(testConfig("", server.URL))
	schema, err := client.GetTracingSchema(context.Background(), "model-1", "a", "b")

	require.NoError(t, err)
	assert.NotNil(t, schema.SpanProperties)
	assert.Empty(t, schema.SpanProperties)
}
