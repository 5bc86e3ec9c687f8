// Package jsonpath walks decoded JSON trees by dotted path. Lookups never
// fail: a missing or mistyped node resolves to the zero value so callers can
// treat bad payload shapes as absent data.
package jsonpath

import (
	"fmt"
	"strings"
)

// Filter narrows an array-valued path segment to a single element during
// traversal. When the resolver descends into a segment named Segment and
// finds an array, it continues from the first element whose Field stringifies
// equal to Value. If no element matches, traversal continues against the
// unfiltered array and later lookups resolve to missing.
type Filter struct {
	Segment string `yaml:"segment" json:"segment"`
	Field   string `yaml:"field" json:"field"`
	Value   string `yaml:"value" json:"value"`
}

// Resolve walks root by the dotted path and returns the terminal node.
// The second return is false if any segment was absent or not descendable.
func Resolve(root any, path string, filter *Filter) (any, bool) {
	if path == "" {
		return nil, false
	}

	node := root
	for _, segment := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[segment]
		if !ok {
			return nil, false
		}

		if filter != nil && segment == filter.Segment {
			if arr, isArr := next.([]any); isArr {
				next = narrow(arr, filter)
			}
		}
		node = next
	}
	return node, true
}

// narrow picks the first array element whose filter field matches, or returns
// the array unchanged when nothing matches.
func narrow(arr []any, filter *Filter) any {
	for _, elem := range arr {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m[filter.Field]; ok && stringify(v) == filter.Value {
			return elem
		}
	}
	return any(arr)
}

// String resolves path to a scalar and coerces it to a string. Missing or
// non-scalar nodes yield the empty string.
func String(root any, path string, filter *Filter) string {
	node, ok := Resolve(root, path, filter)
	if !ok {
		return ""
	}
	switch node.(type) {
	case map[string]any, []any, nil:
		return ""
	}
	return stringify(node)
}

// Array resolves path to an array; anything else yields nil.
func Array(root any, path string, filter *Filter) []any {
	node, ok := Resolve(root, path, filter)
	if !ok {
		return nil
	}
	arr, _ := node.([]any)
	return arr
}

// Map resolves path to an object; anything else yields nil.
func Map(root any, path string, filter *Filter) map[string]any {
	node, ok := Resolve(root, path, filter)
	if !ok {
		return nil
	}
	m, _ := node.(map[string]any)
	return m
}

// Stringify coerces a scalar node to its string form. Containers and nil
// coerce to the empty string.
func Stringify(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
