// Package arize contains the clients for the Arize AX upstream
// surfaces: the REST API v2, the GraphQL API and the span export
// endpoint.
package arize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spanlens/spanlens/pkg/config"
	"github.com/spanlens/spanlens/pkg/httpclient"
)

// Project is one tracing project as reported by the REST API.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ModelType string `json:"model_type,omitempty"`
}

// RestClient talks to the Arize AX REST API v2 with Bearer auth.
type RestClient struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

// NewRestClient builds a REST client from the server configuration.
func NewRestClient(cfg *config.Config) *RestClient {
	return &RestClient{
		baseURL: cfg.RESTBaseURL,
		apiKey:  cfg.APIKey,
		http: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Timeout) * time.Second,
			}),
			httpclient.WithMaxRetries(cfg.MaxRetries),
		),
	}
}

func (c *RestClient) request(ctx context.Context, method, endpoint string, params url.Values, body, out any) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	// Do returns both the response and an error for non-2xx statuses;
	// classify by status whenever a response came back.
	resp, err := c.http.Do(req)
	if resp == nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(endpoint, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *RestClient) apiError(endpoint string, resp *http.Response) error {
	detail := ""
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Message
		}
	}
	if detail == "" {
		detail = string(data)
	}
	return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Detail: detail}
}

// ListProjects lists the tracing projects in the space.
func (c *RestClient) ListProjects(ctx context.Context) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.request(ctx, http.MethodGet, "/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// GetProject fetches one project by id.
func (c *RestClient) GetProject(ctx context.Context, projectID string) (map[string]any, error) {
	var out map[string]any
	if err := c.request(ctx, http.MethodGet, "/projects/"+projectID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDatasets lists all datasets in the space.
func (c *RestClient) ListDatasets(ctx context.Context) ([]map[string]any, error) {
	var out struct {
		Datasets []map[string]any `json:"datasets"`
	}
	if err := c.request(ctx, http.MethodGet, "/datasets", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// GetDataset fetches one dataset by id.
func (c *RestClient) GetDataset(ctx context.Context, datasetID string) (map[string]any, error) {
	var out map[string]any
	if err := c.request(ctx, http.MethodGet, "/datasets/"+datasetID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDataset creates a dataset, optionally seeded with examples.
func (c *RestClient) CreateDataset(ctx context.Context, name, description string, examples []map[string]any) (map[string]any, error) {
	payload := map[string]any{"name": name}
	if description != "" {
		payload["description"] = description
	}
	if len(examples) > 0 {
		payload["examples"] = examples
	}

	var out map[string]any
	if err := c.request(ctx, http.MethodPost, "/datasets", nil, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDataset deletes a dataset by id.
func (c *RestClient) DeleteDataset(ctx context.Context, datasetID string) error {
	return c.request(ctx, http.MethodDelete, "/datasets/"+datasetID, nil, nil, nil)
}

// ListDatasetExamples lists examples in a dataset, up to limit.
func (c *RestClient) ListDatasetExamples(ctx context.Context, datasetID string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))

	var out struct {
		Examples []map[string]any `json:"examples"`
	}
	if err := c.request(ctx, http.MethodGet, "/datasets/"+datasetID+"/examples", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Examples, nil
}

// ListExperiments lists all experiments in the space.
func (c *RestClient) ListExperiments(ctx context.Context) ([]map[string]any, error) {
	var out struct {
		Experiments []map[string]any `json:"experiments"`
	}
	if err := c.request(ctx, http.MethodGet, "/experiments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Experiments, nil
}

// GetExperiment fetches one experiment by id.
func (c *RestClient) GetExperiment(ctx context.Context, experimentID string) (map[string]any, error) {
	var out map[string]any
	if err := c.request(ctx, http.MethodGet, "/experiments/"+experimentID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExperimentRuns lists runs for an experiment, up to limit.
func (c *RestClient) ListExperimentRuns(ctx context.Context, experimentID string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))

	var out struct {
		Runs []map[string]any `json:"runs"`
	}
	if err := c.request(ctx, http.MethodGet, "/experiments/"+experimentID+"/runs", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}
