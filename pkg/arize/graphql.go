package arize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spanlens/spanlens/pkg/config"
	"github.com/spanlens/spanlens/pkg/httpclient"
)

const listModelsQuery = `
query ListModels($spaceId: ID!) {
  node(id: $spaceId) {
    ... on Space {
      models(first: 50) {
        edges {
          node {
            id
            name
            modelType
          }
        }
        pageInfo {
          hasNextPage
        }
      }
    }
  }
}
`

const getModelQuery = `
query GetModel($modelId: ID!) {
  node(id: $modelId) {
    ... on Model {
      id
      name
      modelType
    }
  }
}
`

const getTracingSchemaQuery = `
query GetTracingSchema($modelId: ID!, $startTime: DateTime!, $endTime: DateTime!) {
  model: node(id: $modelId) {
    ... on Model {
      name
      tracingSchema(startTime: $startTime, endTime: $endTime) {
        spanProperties(first: 50) {
          edges {
            node {
              dimension {
                name
                dataType
                category
              }
            }
          }
        }
        llmEvals(first: 50) {
          edges {
            node {
              dimension {
                name
                dataType
                category
              }
            }
          }
        }
        annotations(first: 50) {
          edges {
            node {
              dimension {
                name
                dataType
                category
              }
            }
          }
        }
      }
    }
  }
}
`

// Dimension is one schema dimension (span property, eval or
// annotation) as reported by the tracing schema query.
type Dimension struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Category string `json:"category"`
}

// TracingSchema describes the columns available for a project's traces.
type TracingSchema struct {
	ModelName      string      `json:"model_name"`
	SpanProperties []Dimension `json:"span_properties"`
	LLMEvals       []Dimension `json:"llm_evals"`
	Annotations    []Dimension `json:"annotations"`
}

// GraphQLClient talks to the Arize AX GraphQL API, which requires
// developer permissions on the API key.
type GraphQLClient struct {
	endpoint string
	apiKey   string
	http     *httpclient.Client
}

// NewGraphQLClient builds a GraphQL client from the server configuration.
func NewGraphQLClient(cfg *config.Config) *GraphQLClient {
	return &GraphQLClient{
		endpoint: cfg.GraphQLEndpoint,
		apiKey:   cfg.APIKey,
		http: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Timeout) * time.Second,
			}),
			httpclient.WithMaxRetries(cfg.MaxRetries),
		),
	}
}

// Query executes a GraphQL query and returns the data object.
func (c *GraphQLClient) Query(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	// Do returns both the response and an error for non-2xx statuses;
	// classify by status whenever a response came back.
	resp, err := c.http.Do(req)
	if resp == nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if strings.Contains(strings.ToLower(string(body)), "developer permissions") {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Endpoint:   "graphql",
				Detail: "GraphQL API requires developer permissions. " +
					"Please ensure your API key has developer access enabled in Arize AX settings.",
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: "graphql", Detail: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: "graphql", Detail: string(body)}
	}

	var result struct {
		Data   map[string]any `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}
	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("GraphQL error: %s", strings.Join(messages, "; "))
	}
	return result.Data, nil
}

// ListModels lists all models (projects) in a space.
func (c *GraphQLClient) ListModels(ctx context.Context, spaceID string) ([]Project, error) {
	data, err := c.Query(ctx, listModelsQuery, map[string]any{"spaceId": spaceID})
	if err != nil {
		return nil, err
	}

	node, _ := data["node"].(map[string]any)
	if node == nil {
		return []Project{}, nil
	}
	models, _ := node["models"].(map[string]any)
	edges, _ := models["edges"].([]any)

	projects := make([]Project, 0, len(edges))
	for _, edge := range edges {
		e, _ := edge.(map[string]any)
		n, _ := e["node"].(map[string]any)
		if n == nil {
			continue
		}
		p := Project{}
		p.ID, _ = n["id"].(string)
		p.Name, _ = n["name"].(string)
		p.ModelType, _ = n["modelType"].(string)
		projects = append(projects, p)
	}
	return projects, nil
}

// GetModel fetches one model by id, or nil when it does not exist.
func (c *GraphQLClient) GetModel(ctx context.Context, modelID string) (*Project, error) {
	data, err := c.Query(ctx, getModelQuery, map[string]any{"modelId": modelID})
	if err != nil {
		return nil, err
	}

	node, _ := data["node"].(map[string]any)
	if node == nil {
		return nil, nil
	}
	p := &Project{}
	p.ID, _ = node["id"].(string)
	p.Name, _ = node["name"].(string)
	p.ModelType, _ = node["modelType"].(string)
	return p, nil
}

// GetTracingSchema fetches the tracing schema for a model over a time
// range. Times are RFC3339 strings.
func (c *GraphQLClient) GetTracingSchema(ctx context.Context, modelID, startTime, endTime string) (*TracingSchema, error) {
	data, err := c.Query(ctx, getTracingSchemaQuery, map[string]any{
		"modelId":   modelID,
		"startTime": startTime,
		"endTime":   endTime,
	})
	if err != nil {
		return nil, err
	}

	schema := &TracingSchema{
		SpanProperties: []Dimension{},
		LLMEvals:       []Dimension{},
		Annotations:    []Dimension{},
	}

	model, _ := data["model"].(map[string]any)
	if model == nil {
		return schema, nil
	}
	schema.ModelName, _ = model["name"].(string)

	tracing, _ := model["tracingSchema"].(map[string]any)
	if tracing == nil {
		return schema, nil
	}

	schema.SpanProperties = extractDimensions(tracing["spanProperties"])
	schema.LLMEvals = extractDimensions(tracing["llmEvals"])
	schema.Annotations = extractDimensions(tracing["annotations"])
	return schema, nil
}

func extractDimensions(connection any) []Dimension {
	conn, _ := connection.(map[string]any)
	edges, _ := conn["edges"].([]any)

	dims := make([]Dimension, 0, len(edges))
	for _, edge := range edges {
		e, _ := edge.(map[string]any)
		n, _ := e["node"].(map[string]any)
		d, _ := n["dimension"].(map[string]any)
		if d == nil {
			continue
		}
		dim := Dimension{}
		dim.Name, _ = d["name"].(string)
		dim.DataType, _ = d["dataType"].(string)
		dim.Category, _ = d["category"].(string)
		dims = append(dims, dim)
	}
	return dims
}
