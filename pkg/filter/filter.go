// Package filter validates caller-supplied filter values and assembles
// safe query predicates for the span export endpoint.
//
// Identifier and enum values are checked against allow-lists before
// they are ever interpolated into a predicate, so quote characters,
// angle brackets and SQL control keywords are rejected by construction.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SpanKinds is the fixed set of valid span kind values.
var SpanKinds = map[string]struct{}{
	"LLM":       {},
	"CHAIN":     {},
	"RETRIEVER": {},
	"TOOL":      {},
	"EMBEDDING": {},
	"AGENT":     {},
}

// traceIDPattern restricts trace ids to hex digits and hyphens, which
// covers both UUIDs and raw 128-bit hex ids.
var traceIDPattern = regexp.MustCompile(`^[a-fA-F0-9-]+$`)

const maxTraceIDLen = 64

// ValidSpanKind reports whether s is a member of the span kind set,
// case-insensitively.
func ValidSpanKind(s string) bool {
	_, ok := SpanKinds[strings.ToUpper(s)]
	return ok
}

// SpanKindValues returns the valid span kinds, sorted, for inclusion
// in validation error responses.
func SpanKindValues() []string {
	values := make([]string, 0, len(SpanKinds))
	for k := range SpanKinds {
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

// ValidTraceID reports whether s is a plausible trace identifier:
// non-empty, bounded in length, hex digits and hyphens only.
func ValidTraceID(s string) bool {
	if s == "" || len(s) > maxTraceIDLen {
		return false
	}
	return traceIDPattern.MatchString(s)
}

// SpanKindIs builds a span kind equality fragment. The value must have
// passed ValidSpanKind.
func SpanKindIs(kind string) string {
	return fmt.Sprintf("span_kind = '%s'", strings.ToUpper(kind))
}

// TraceIDIs builds a trace id equality fragment. The value must have
// passed ValidTraceID.
func TraceIDIs(traceID string) string {
	return fmt.Sprintf("context.trace_id = '%s'", traceID)
}

// HasError builds a status fragment selecting error or non-error spans.
func HasError(hasError bool) string {
	if hasError {
		return "status_code = 'ERROR'"
	}
	return "status_code != 'ERROR'"
}

// Combine joins predicate fragments with AND. Empty fragments are
// skipped; no fragments yields the empty string.
func Combine(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " AND ")
}
