// Package observability wires OpenTelemetry tracing for the server's
// own outbound calls. Tracing is opt-in; with no provider installed
// every span is a no-op.
package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys used across the codebase.
const (
	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMTokensInput  = "llm.tokens.input"
	AttrLLMTokensOutput = "llm.tokens.output"

	SpanLLMRequest = "llm.request"
)

// GetTracer returns a tracer from the installed global provider.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Init installs a stdout-exporting tracer provider and returns its
// shutdown function. Export goes to stderr; stdout belongs to the MCP
// transport.
func Init(ctx context.Context) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}
