package prompt

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// reservedKeys are the example fields exposed to every template.
var reservedKeys = []string{"input", "output", "metadata", "id"}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+(?:\.[a-zA-Z0-9_]+)*)\}`)

// Format resolves {key} and {key.subkey} placeholders in template from
// one dataset example and returns the final prompt string.
//
// Placeholders that cannot be resolved are left verbatim so partially
// applicable templates still produce output.
func Format(template string, ex Example) string {
	lookup := buildLookup(ex)

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := lookup[key]
		if !ok {
			return match
		}
		return stringify(value)
	})
}

// buildLookup flattens the example into the placeholder table: each
// reserved key, one level of key.subkey entries for mapping-valued
// keys, and the whole example as dataset_row.
func buildLookup(ex Example) map[string]any {
	lookup := make(map[string]any)

	for _, key := range reservedKeys {
		value, ok := ex.Get(key)
		if !ok {
			continue
		}
		value = coerce(value)
		lookup[key] = value

		if nested, ok := value.(map[string]any); ok {
			for subkey, subvalue := range nested {
				lookup[key+"."+subkey] = subvalue
			}
		}
	}

	lookup["dataset_row"] = ex.Map()
	return lookup
}

// coerce turns mapping-like values into plain mappings; strings and
// everything else pass through unchanged.
func coerce(v any) any {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		return val
	case Example:
		return val.Map()
	default:
		return v
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if data, err := json.Marshal(val); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
