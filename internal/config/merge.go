package config

// Merge deeply merges overlay onto base and returns a new record.
//
// Record values merge recursively. Any other overlay value, including
// slices, replaces the base value outright. Neither input is mutated.
func Merge(base, overlay map[string]any) map[string]any {
	out := copyRecord(base)
	for key, ov := range overlay {
		ovRec, ok := asRecord(ov)
		if !ok {
			out[key] = copyValue(ov)
			continue
		}
		baseRec, ok := asRecord(base[key])
		if !ok {
			out[key] = copyRecord(ovRec)
			continue
		}
		out[key] = Merge(baseRec, ovRec)
	}
	return out
}

// MergeValues merges overlay onto base when both are records.
// When either side is not a record, base is returned unchanged.
func MergeValues(base, overlay any) any {
	baseRec, ok := asRecord(base)
	if !ok {
		return base
	}
	ovRec, ok := asRecord(overlay)
	if !ok {
		return base
	}
	return Merge(baseRec, ovRec)
}

// asRecord reports whether v is a plain record.
// yaml.v3 decodes nested mappings into map[string]interface{}, which is the
// same type, so records from JSON and YAML files are handled alike.
func asRecord(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

func copyRecord(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyRecord(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
