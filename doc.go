// Package spanlens serves the Arize AX observability platform as MCP
// tools, so LLM agents can query traces, spans, datasets and
// experiments over stdio.
//
// # Quick Start
//
// Install the server:
//
//	go install github.com/spanlens/spanlens/cmd/spanlens@latest
//
// Provide the Arize identity values, either in the environment or in a
// .env file next to the binary:
//
//	ARIZE_API_KEY=ak-...
//	ARIZE_SPACE_ID=<base64 space id>
//
// Start the server:
//
//	spanlens serve
//
// Register it with an MCP client (Claude Desktop, Cursor, etc.) as a
// stdio server named "Arize AX".
//
// # Tools
//
// The server exposes discovery (list_projects, get_model_schema), span
// export (export_traces, get_trace, filter_spans), client-side analysis
// (analyze_errors, analyze_latency, get_trace_statistics), dataset and
// experiment CRUD (list_datasets, get_dataset, create_dataset,
// delete_dataset, list_experiments, get_experiment), experiment
// execution (run_experiment) and get_status.
//
// When startup configuration fails the process keeps serving: every
// tool except get_status is absent, and get_status reports the error so
// the client can tell the user what to fix.
//
// # Packages
//
//   - pkg/server: MCP server assembly
//   - pkg/tools: the tool handlers
//   - pkg/arize: REST, GraphQL and span export clients
//   - pkg/stats, pkg/table: client-side aggregation over exported spans
//   - pkg/filter: predicate validation and assembly
//   - pkg/prompt, pkg/experiment, pkg/llms: experiment execution
package spanlens
