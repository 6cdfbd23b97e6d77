package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spanlens/spanlens/pkg/arize"
	"github.com/spanlens/spanlens/pkg/experiment"
)

// RegisterExperimentTools registers the experiment execution tool.
func RegisterExperimentTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(mcp.NewTool("run_experiment",
		mcp.WithDescription("Run an experiment over a dataset: format the prompt template for "+
			"each example and, unless passthrough is set, send it to a completion model. "+
			"Templates use {input}, {output}, {metadata}, {id}, {dataset_row} and dotted "+
			"subkeys like {input.question}."),
		mcp.WithString("dataset_id", mcp.Required(),
			mcp.Description("ID of the dataset to run over")),
		mcp.WithString("name", mcp.Required(),
			mcp.Description("Name for the experiment run")),
		mcp.WithString("template", mcp.Required(),
			mcp.Description("Prompt template with {key} placeholders")),
		mcp.WithString("system_prompt",
			mcp.Description("Optional system message for the completion call")),
		mcp.WithString("provider",
			mcp.Description("Completion provider: openai or anthropic"), mcp.DefaultString("openai")),
		mcp.WithString("model",
			mcp.Description("Model id for the completion call")),
		mcp.WithString("endpoint",
			mcp.Description("Override the completion API base URL")),
		mcp.WithString("api_key",
			mcp.Description("Completion API key; falls back to the COMPLETION_API_KEY environment default")),
		mcp.WithNumber("temperature",
			mcp.Description("Sampling temperature"), mcp.DefaultNumber(0.0)),
		mcp.WithNumber("concurrency",
			mcp.Description("Maximum parallel completion calls"), mcp.DefaultNumber(4)),
		mcp.WithBoolean("passthrough",
			mcp.Description("If true, return the formatted prompt as each row's output without calling a model")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		datasetID, err := req.RequireString("dataset_id")
		if err != nil {
			return errorResult(err, "")
		}
		name, err := req.RequireString("name")
		if err != nil {
			return errorResult(err, "")
		}
		template, err := req.RequireString("template")
		if err != nil {
			return errorResult(err, "")
		}

		report, err := deps.Runner.Run(ctx, experiment.Params{
			DatasetID:    datasetID,
			Name:         name,
			Template:     template,
			SystemPrompt: req.GetString("system_prompt", ""),
			Provider:     req.GetString("provider", "openai"),
			Model:        req.GetString("model", ""),
			Endpoint:     req.GetString("endpoint", ""),
			APIKey:       req.GetString("api_key", ""),
			Temperature:  req.GetFloat("temperature", 0.0),
			Concurrency:  req.GetInt("concurrency", 4),
			Passthrough:  req.GetBool("passthrough", false),
		})
		if err != nil {
			return runError(err, datasetID)
		}
		return toolResult(report)
	})
}

func runError(err error, datasetID string) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, experiment.ErrNoCredential):
		return errorResult(err,
			"Pass api_key or set COMPLETION_API_KEY, or use passthrough=true to validate the template without a model.")
	case arize.IsNotFoundError(err):
		return toolResult(map[string]any{
			"error": "Dataset not found: " + datasetID,
			"hint":  "Use list_datasets to see available dataset ids.",
		})
	case arize.IsAuthError(err):
		return errorResult(err, "Please verify your ARIZE_API_KEY is valid.")
	default:
		return errorResult(err, "")
	}
}
