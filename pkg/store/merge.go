package store

import "fmt"

// Clone deep copies a tree. Nested maps and slices are copied; other values
// are shared.
func Clone(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for key, value := range tree {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep copies maps and slices found in value. map[any]any is
// normalised to map[string]any.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = CloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = CloneValue(nested)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

// Merge returns a new tree holding every value of strong, with missing keys
// filled from weak. Nested maps merge recursively.
func Merge(strong, weak map[string]any) map[string]any {
	out := Clone(strong)
	if out == nil {
		out = map[string]any{}
	}
	for key, weakValue := range weak {
		strongValue, exists := out[key]
		if !exists {
			out[key] = CloneValue(weakValue)
			continue
		}
		strongMap, strongIsMap := strongValue.(map[string]any)
		weakMap, weakIsMap := weakValue.(map[string]any)
		if strongIsMap && weakIsMap {
			out[key] = Merge(strongMap, weakMap)
		}
	}
	return out
}
