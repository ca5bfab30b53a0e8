package utils

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes v without HTML escaping, indented with two spaces when
// indent is true. The result ends with a newline.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONToString renders v as JSON for prompts and log output. On failure it
// returns a JSON object describing the error instead.
func JSONToString(v any, indent bool) string {
	b, err := MarshalJSON(v, indent)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": "failed to marshal to JSON: " + err.Error()})
		return string(b)
	}
	return string(bytes.TrimRight(b, "\n"))
}
