package analysis

import "strconv"

// The model is free to drift on field types (a score of "high", a number
// as a string). The contract layer only guarantees presence; these
// helpers convert loose values into strict internal types, falling back
// to the field's default when a value cannot be interpreted.

func toString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return parsed
		}
		return def
	default:
		return def
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toStringSlice(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, el := range list {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func toRanking(v any) []RankedCandidate {
	list, ok := v.([]any)
	if !ok {
		return []RankedCandidate{}
	}
	out := make([]RankedCandidate, 0, len(list))
	for _, el := range list {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, RankedCandidate{
			Name:   toString(entry["name"], ""),
			Rank:   int(toFloat(entry["rank"], 0)),
			Reason: toString(entry["reason"], ""),
		})
	}
	return out
}
