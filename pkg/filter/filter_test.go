package filter

import (
	"strings"
	"testing"
)

func TestValidSpanKind(t *testing.T) {
	valid := []string{"LLM", "llm", "CHAIN", "RETRIEVER", "TOOL", "EMBEDDING", "AGENT", "Agent"}
	for _, kind := range valid {
		if !ValidSpanKind(kind) {
			t.Errorf("ValidSpanKind(%q) = false, want true", kind)
		}
	}

	invalid := []string{"INVALID", "unknown", "", "LLM '", "LLM;--"}
	for _, kind := range invalid {
		if ValidSpanKind(kind) {
			t.Errorf("ValidSpanKind(%q) = true, want false", kind)
		}
	}
}

func TestValidTraceID(t *testing.T) {
	valid := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"abc123def456",
		"ABCDEF123456",
	}
	for _, id := range valid {
		if !ValidTraceID(id) {
			t.Errorf("ValidTraceID(%q) = false, want true", id)
		}
	}

	invalid := []string{
		"'; DROP TABLE traces; --",
		"invalid<script>",
		"",
		strings.Repeat("a", 65),
		`" OR 1=1`,
	}
	for _, id := range invalid {
		if ValidTraceID(id) {
			t.Errorf("ValidTraceID(%q) = true, want false", id)
		}
	}
}

func TestCombine(t *testing.T) {
	got := Combine(SpanKindIs("llm"), HasError(true))
	want := "span_kind = 'LLM' AND status_code = 'ERROR'"
	if got != want {
		t.Errorf("Combine() = %q, want %q", got, want)
	}
}

func TestCombine_SkipsEmpty(t *testing.T) {
	got := Combine("", HasError(false), "")
	if got != "status_code != 'ERROR'" {
		t.Errorf("Combine() = %q", got)
	}
}

func TestCombine_NoParts(t *testing.T) {
	if got := Combine(); got != "" {
		t.Errorf("Combine() = %q, want empty", got)
	}
}

func TestTraceIDIs(t *testing.T) {
	got := TraceIDIs("abc123")
	if got != "context.trace_id = 'abc123'" {
		t.Errorf("TraceIDIs() = %q", got)
	}
}

func TestSpanKindValues_SortedAndComplete(t *testing.T) {
	values := SpanKindValues()
	if len(values) != 6 {
		t.Fatalf("SpanKindValues() returned %d values, want 6", len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			t.Errorf("SpanKindValues() not sorted: %v", values)
		}
	}
}
