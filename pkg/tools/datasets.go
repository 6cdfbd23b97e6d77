package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
)

// RegisterDatasetTools registers dataset and experiment CRUD tools.
func RegisterDatasetTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List all datasets in the Arize space."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		datasets, err := deps.Clients.Rest.ListDatasets(ctx)
		if err != nil {
			return restError(err, "")
		}
		return toolResult(map[string]any{
			"datasets": datasets,
			"count":    len(datasets),
		})
	})

	s.AddTool(mcp.NewTool("get_dataset",
		mcp.WithDescription("Get a dataset and its examples."),
		mcp.WithString("dataset_id", mcp.Required(),
			mcp.Description("ID of the dataset")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of examples to return"), mcp.DefaultNumber(100)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		datasetID, err := req.RequireString("dataset_id")
		if err != nil {
			return errorResult(err, "")
		}
		limit := req.GetInt("limit", 100)

		dataset, err := deps.Clients.Rest.GetDataset(ctx, datasetID)
		if err != nil {
			return restError(err, datasetID)
		}
		examples, err := deps.Clients.Rest.ListDatasetExamples(ctx, datasetID, limit)
		if err != nil {
			return restError(err, datasetID)
		}
		return toolResult(map[string]any{
			"dataset":       dataset,
			"examples":      examples,
			"example_count": len(examples),
		})
	})

	s.AddTool(mcp.NewTool("create_dataset",
		mcp.WithDescription("Create a new dataset in Arize."),
		mcp.WithString("name", mcp.Required(),
			mcp.Description("Name for the new dataset")),
		mcp.WithString("description",
			mcp.Description("Optional description of the dataset")),
		mcp.WithArray("examples",
			mcp.Description("Optional list of example objects to add"),
			mcp.Items(map[string]any{"type": "object"})),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return errorResult(err, "")
		}

		var examples []map[string]any
		if raw, ok := req.GetArguments()["examples"].([]any); ok {
			for _, item := range raw {
				if m, ok := item.(map[string]any); ok {
					examples = append(examples, m)
				}
			}
		}

		dataset, err := deps.Clients.Rest.CreateDataset(ctx, name, req.GetString("description", ""), examples)
		if err != nil {
			return restError(err, name)
		}
		return toolResult(map[string]any{
			"success": true,
			"dataset": dataset,
		})
	})

	s.AddTool(mcp.NewTool("delete_dataset",
		mcp.WithDescription("Delete a dataset from Arize."),
		mcp.WithString("dataset_id", mcp.Required(),
			mcp.Description("ID of the dataset to delete")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		datasetID, err := req.RequireString("dataset_id")
		if err != nil {
			return errorResult(err, "")
		}
		if err := deps.Clients.Rest.DeleteDataset(ctx, datasetID); err != nil {
			return restError(err, datasetID)
		}
		return toolResult(map[string]any{
			"success":    true,
			"deleted_id": datasetID,
		})
	})

	s.AddTool(mcp.NewTool("list_experiments",
		mcp.WithDescription("List all experiments in the Arize space."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		experiments, err := deps.Clients.Rest.ListExperiments(ctx)
		if err != nil {
			return restError(err, "")
		}
		return toolResult(map[string]any{
			"experiments": experiments,
			"count":       len(experiments),
		})
	})

	s.AddTool(mcp.NewTool("get_experiment",
		mcp.WithDescription("Get results from an experiment."),
		mcp.WithString("experiment_id", mcp.Required(),
			mcp.Description("ID of the experiment")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return"), mcp.DefaultNumber(100)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		experimentID, err := req.RequireString("experiment_id")
		if err != nil {
			return errorResult(err, "")
		}
		limit := req.GetInt("limit", 100)

		exp, err := deps.Clients.Rest.GetExperiment(ctx, experimentID)
		if err != nil {
			return restError(err, experimentID)
		}
		runs, err := deps.Clients.Rest.ListExperimentRuns(ctx, experimentID, limit)
		if err != nil {
			return restError(err, experimentID)
		}
		return toolResult(map[string]any{
			"experiment": exp,
			"runs":       runs,
			"run_count":  len(runs),
		})
	})
}

// restError maps REST failures onto the structured error taxonomy,
// echoing the identifying name or id for not-found failures.
func restError(err error, id string) (*mcp.CallToolResult, error) {
	switch {
	case arize.IsAuthError(err):
		return errorResult(err, "Please verify your ARIZE_API_KEY is valid.")
	case arize.IsNotFoundError(err) && id != "":
		return toolResult(map[string]any{
			"error": fmt.Sprintf("Not found: %s", id),
		})
	default:
		return errorResult(err, "")
	}
}
