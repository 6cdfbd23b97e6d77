// Package experiment runs a prompt template over every example of a
// dataset, optionally invoking a completion provider per row.
package experiment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spanlens/spanlens/pkg/llms"
	"github.com/spanlens/spanlens/pkg/prompt"
)

// Status tracks the run lifecycle.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

const (
	// MaxSampleRows caps how many result rows a report returns. The
	// true row count is reported separately in TotalRows.
	MaxSampleRows = 100

	// fetchLimit bounds how many dataset examples one run processes.
	fetchLimit = 1000

	defaultConcurrency = 4
)

// ErrNoCredential is returned when a live (non-passthrough) run has no
// completion credential, neither as a parameter nor as the environment
// default.
var ErrNoCredential = fmt.Errorf("no completion API key configured")

// Params describes one experiment run.
type Params struct {
	DatasetID    string
	Name         string
	Template     string
	SystemPrompt string

	// Provider/Model/Endpoint/APIKey configure the completion call for
	// live runs. APIKey falls back to the environment default.
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Temperature float64

	// Concurrency bounds parallel completion calls.
	Concurrency int

	// Passthrough emits the formatted prompt as each row's output
	// without calling a model, so templates can be validated for free.
	Passthrough bool
}

// ResultRow is the outcome for one dataset example.
type ResultRow struct {
	ID        string `json:"id"`
	ExampleID string `json:"example_id"`
	Output    string `json:"output"`
}

// Report summarizes a finished run. Results holds at most
// MaxSampleRows rows; TotalRows is the full count.
type Report struct {
	Name        string      `json:"experiment_name"`
	DatasetID   string      `json:"dataset_id"`
	Status      Status      `json:"status"`
	Passthrough bool        `json:"passthrough"`
	Model       string      `json:"model,omitempty"`
	TotalRows   int         `json:"total_rows"`
	Results     []ResultRow `json:"results"`
}

// ExampleLister fetches dataset examples. *arize.RestClient satisfies it.
type ExampleLister interface {
	ListDatasetExamples(ctx context.Context, datasetID string, limit int) ([]map[string]any, error)
}

// Runner executes experiments.
type Runner struct {
	examples ExampleLister
	// defaultAPIKey is the environment-level completion credential.
	defaultAPIKey string
	// newProvider is swappable for tests.
	newProvider func(llms.ProviderConfig) (llms.Provider, error)
}

// NewRunner builds a runner over a dataset example source.
func NewRunner(examples ExampleLister, defaultAPIKey string) *Runner {
	return &Runner{
		examples:      examples,
		defaultAPIKey: defaultAPIKey,
		newProvider:   llms.New,
	}
}

// Run processes every example of the dataset through the template and,
// for live runs, the completion provider. Row processing order is not
// guaranteed, but results are re-associated by example and returned in
// dataset order.
func (r *Runner) Run(ctx context.Context, params Params) (*Report, error) {
	report := &Report{
		Name:        params.Name,
		DatasetID:   params.DatasetID,
		Status:      StatusNotStarted,
		Passthrough: params.Passthrough,
		Model:       params.Model,
		Results:     []ResultRow{},
	}

	if params.Template == "" {
		return report, fmt.Errorf("template is required")
	}

	var provider llms.Provider
	if !params.Passthrough {
		apiKey := params.APIKey
		if apiKey == "" {
			apiKey = r.defaultAPIKey
		}
		if apiKey == "" {
			report.Status = StatusFailed
			return report, ErrNoCredential
		}

		var err error
		provider, err = r.newProvider(llms.ProviderConfig{
			Type:     params.Provider,
			Endpoint: params.Endpoint,
			Model:    params.Model,
			APIKey:   apiKey,
		})
		if err != nil {
			report.Status = StatusFailed
			return report, fmt.Errorf("failed to build completion provider: %w", err)
		}
		defer func() { _ = provider.Close() }()
	}

	examples, err := r.examples.ListDatasetExamples(ctx, params.DatasetID, fetchLimit)
	if err != nil {
		report.Status = StatusFailed
		return report, fmt.Errorf("failed to load dataset %s: %w", params.DatasetID, err)
	}
	report.Status = StatusRunning

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	rows := make([]ResultRow, len(examples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, example := range examples {
		g.Go(func() error {
			formatted := prompt.Format(params.Template, prompt.FromMap(example))

			output := formatted
			if provider != nil {
				completed, err := provider.Complete(gctx, llms.CompletionRequest{
					System:      params.SystemPrompt,
					Prompt:      formatted,
					Temperature: params.Temperature,
				})
				if err != nil {
					return fmt.Errorf("completion failed for example %s: %w", exampleID(example), err)
				}
				output = completed
			}

			rows[i] = ResultRow{
				ID:        uuid.NewString(),
				ExampleID: exampleID(example),
				Output:    output,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		report.Status = StatusFailed
		return report, err
	}

	report.Status = StatusCompleted
	report.TotalRows = len(rows)
	report.Results = rows
	if len(report.Results) > MaxSampleRows {
		report.Results = report.Results[:MaxSampleRows]
	}
	return report, nil
}

func exampleID(example map[string]any) string {
	if id, ok := example["id"].(string); ok {
		return id
	}
	return ""
}
