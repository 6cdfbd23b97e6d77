// Package prompt formats experiment prompts from a template and one
// dataset example.
package prompt

import (
	"reflect"
	"strings"
)

// Example provides uniform access to one dataset example regardless of
// how it is represented. Two variants exist: mapping-backed (decoded
// JSON) and field-backed (typed structs).
type Example interface {
	// Get resolves a top-level key.
	Get(key string) (any, bool)
	// Map renders the whole example as a plain mapping when possible.
	Map() map[string]any
}

type mapExample struct {
	data map[string]any
}

// FromMap wraps a decoded-JSON mapping as an Example.
func FromMap(m map[string]any) Example {
	if m == nil {
		m = map[string]any{}
	}
	return &mapExample{data: m}
}

func (e *mapExample) Get(key string) (any, bool) {
	v, ok := e.data[key]
	return v, ok
}

func (e *mapExample) Map() map[string]any {
	return e.data
}

type structExample struct {
	value reflect.Value
	keys  map[string]int
}

// FromStruct wraps a struct (or pointer to struct) as an Example.
// Exported fields are addressed by their json tag when present,
// otherwise by the lowercased field name.
func FromStruct(v any) Example {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	keys := make(map[string]int)
	if rv.Kind() == reflect.Struct {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			name := strings.ToLower(field.Name)
			if tag, ok := field.Tag.Lookup("json"); ok {
				if tagName, _, _ := strings.Cut(tag, ","); tagName != "" && tagName != "-" {
					name = tagName
				}
			}
			keys[name] = i
		}
	}

	return &structExample{value: rv, keys: keys}
}

func (e *structExample) Get(key string) (any, bool) {
	idx, ok := e.keys[key]
	if !ok {
		return nil, false
	}
	return e.value.Field(idx).Interface(), true
}

func (e *structExample) Map() map[string]any {
	out := make(map[string]any, len(e.keys))
	for name, idx := range e.keys {
		out[name] = e.value.Field(idx).Interface()
	}
	return out
}
