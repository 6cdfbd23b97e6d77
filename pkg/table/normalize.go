package table

import (
	"encoding/json"
	"math"
	"time"
)

// Normalize converts an exported cell value into a canonical
// JSON-compatible form. Containers are checked before any scalar
// missing-value handling so that arrays and mappings recurse instead of
// being probed for NaN. Unrecognized types pass through unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil

	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Normalize(elem)
		}
		return out

	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Normalize(elem)
		}
		return out

	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return val

	case float32:
		f := float64(val)
		if math.IsNaN(f) {
			return nil
		}
		return f

	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			if math.IsNaN(f) {
				return nil
			}
			return f
		}
		return val.String()

	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)

	case bool:
		return val

	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)

	default:
		return v
	}
}
