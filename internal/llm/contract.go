package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schema declares the fields one AI call site expects in a structured
// response, mapped to the default backfilled when the model omits a field.
// This is the response contract, not a database schema.
type Schema map[string]any

// ExtractJSON pulls an embedded JSON payload out of a free-form model
// response. Models routinely wrap JSON in explanatory prose or markdown
// fences even when told not to.
//
// If the text contains a "```json" marker, the substring between the first
// such marker and the next "```" is returned; otherwise if it contains any
// "```", the substring between the first and second occurrence; otherwise
// the text is returned verbatim. The result is whitespace-trimmed, which
// makes the function idempotent on already-unfenced JSON.
func ExtractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// ParseWithSchema decodes a model response into a map and backfills every
// schema key missing from the response with its declared default. Keys the
// model returned but the schema does not declare pass through unchanged.
// Field types are deliberately not validated here; callers coerce values
// into strict internal types before use.
//
// A decode failure (even after fence stripping) is a hard error for this
// call. Callers substitute their full fallback object in that case.
func ParseWithSchema(text string, schema Schema) (map[string]any, error) {
	payload := ExtractJSON(text)

	var result map[string]any
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}

	for key, def := range schema {
		if _, ok := result[key]; !ok {
			result[key] = copyDefault(def)
		}
	}
	return result, nil
}

// copyDefault clones slice and map defaults so callers never alias the
// schema's own values.
func copyDefault(v any) any {
	switch d := v.(type) {
	case []string:
		out := make([]string, len(d))
		copy(out, d)
		return out
	case []any:
		out := make([]any, len(d))
		copy(out, d)
		return out
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, val := range d {
			out[k] = val
		}
		return out
	default:
		return v
	}
}
