package mapsafe

// Float64s retrieves a list of numbers stored under key.
// It reports false when the key is missing, the value is not a list,
// or any element is not numeric.
func Float64s(m map[string]any, key string) ([]float64, bool) {
	items, ok := m[key].([]any)
	if !ok {
		return nil, false
	}

	out := make([]float64, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case float64:
			out[i] = x
		case int:
			out[i] = float64(x)
		case int64:
			out[i] = float64(x)
		default:
			return nil, false
		}
	}

	return out, true
}
