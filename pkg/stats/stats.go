// Package stats computes client-side descriptive statistics over
// exported span columns: latency distributions, error message
// frequencies, categorical breakdowns and token usage.
package stats

import (
	"math"
	"sort"
)

// LatencySummary is the fixed-shape latency distribution report. All
// values are milliseconds.
type LatencySummary struct {
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	StdMs    float64 `json:"std_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P75Ms    float64 `json:"p75_ms"`
	P90Ms    float64 `json:"p90_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Latency summarizes a non-empty slice of latency values. The caller
// is expected to have dropped missing entries already.
func Latency(values []float64) LatencySummary {
	if len(values) == 0 {
		return LatencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return LatencySummary{
		MinMs:    sorted[0],
		MaxMs:    sorted[len(sorted)-1],
		MeanMs:   mean(sorted),
		MedianMs: Quantile(sorted, 0.50),
		StdMs:    stdDev(sorted),
		P50Ms:    Quantile(sorted, 0.50),
		P75Ms:    Quantile(sorted, 0.75),
		P90Ms:    Quantile(sorted, 0.90),
		P95Ms:    Quantile(sorted, 0.95),
		P99Ms:    Quantile(sorted, 0.99),
	}
}

// Quantile computes the q-th quantile of an ascending-sorted slice
// using linear interpolation between order statistics.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	frac := pos - float64(lo)
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the sample standard deviation. It is defined only for two
// or more values; otherwise, and when numerically undefined, it
// reports 0.0 rather than NaN.
func stdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0.0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	sd := math.Sqrt(sum / float64(n-1))
	if math.IsNaN(sd) {
		return 0.0
	}
	return sd
}

// Pattern is one grouped error message with its occurrence count.
type Pattern struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ErrorPatterns groups messages by exact equality, sorts by count
// descending (ties keep first-encountered order) and truncates to topN.
func ErrorPatterns(messages []string, topN int) []Pattern {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i, msg := range messages {
		if _, seen := counts[msg]; !seen {
			order[msg] = i
		}
		counts[msg]++
	}

	patterns := make([]Pattern, 0, len(counts))
	for msg, count := range counts {
		patterns = append(patterns, Pattern{Message: msg, Count: count})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return order[patterns[i].Message] < order[patterns[j].Message]
	})

	if topN > 0 && len(patterns) > topN {
		patterns = patterns[:topN]
	}
	return patterns
}

// Breakdown counts occurrences of each distinct value. Exact-match
// grouping, no binning.
func Breakdown(values []string) map[string]int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	return counts
}

// Tokens summarizes a token-count column.
type Tokens struct {
	Total int64   `json:"total"`
	Mean  float64 `json:"mean"`
	Max   int64   `json:"max"`
}

// TokenUsage computes totals over non-missing token counts. The caller
// must pass at least one value.
func TokenUsage(values []float64) Tokens {
	if len(values) == 0 {
		return Tokens{}
	}
	var total, max float64
	for i, v := range values {
		total += v
		if i == 0 || v > max {
			max = v
		}
	}
	return Tokens{
		Total: int64(total),
		Mean:  total / float64(len(values)),
		Max:   int64(max),
	}
}
