package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs converts content into T. Primitive kinds are converted
// directly, unwrapping {"type": ..., "value": ...} envelopes when needed.
// Complex kinds go through encoding/json; when the raw text does not
// unmarshal, the JSON span is extracted and normalized as in [Decoder.Decode],
// then repaired with jsonrepair, and finally schema envelopes are unwrapped.
//
//	type Story struct {
//	    Title string `json:"title"`
//	    Plot  string `json:"plot"`
//	}
//
//	story, err := ParseStringAs[Story]("```json\n{\"title\": \"A\", \"plot\": \"B\",}\n```")
//	n, err := ParseStringAs[int]("3")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	rv := reflect.ValueOf(&result).Elem()

	switch rv.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				rv.SetString(unwrapped)
				return result, nil
			}
		}
		rv.SetString(content)
		return result, nil

	case reflect.Bool:
		v, err := parsePrimitive(content, "bool", strconv.ParseBool)
		if err != nil {
			return result, err
		}
		rv.SetBool(v)
		return result, nil

	case reflect.Float32, reflect.Float64:
		v, err := parsePrimitive(content, "float", func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
		if err != nil {
			return result, err
		}
		rv.SetFloat(v)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := parsePrimitive(content, "int", func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		})
		if err != nil {
			return result, err
		}
		rv.SetInt(v)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := parsePrimitive(content, "uint", func(s string) (uint64, error) {
			return strconv.ParseUint(s, 10, 64)
		})
		if err != nil {
			return result, err
		}
		rv.SetUint(v)
		return result, nil

	default:
		err := json.Unmarshal([]byte(content), &result)
		if err == nil {
			return result, nil
		}

		candidate := content
		if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
			if span := bracketBlock(content); span != "" {
				candidate = span
			}
		} else if span, _, ok := ExtractCandidate(content); ok {
			candidate = span
		}
		normalized := Normalize(candidate)
		if err = json.Unmarshal([]byte(normalized), &result); err == nil {
			return result, nil
		}

		repairedJSON, repairErr := jsonrepair.JSONRepair(normalized)
		if repairErr != nil {
			return result, fmt.Errorf("unmarshal content as %T: %w (repair failed: %v)", result, err, repairErr)
		}
		if err = json.Unmarshal([]byte(repairedJSON), &result); err == nil {
			return result, nil
		}

		// models sometimes echo the schema shape around each value
		if unwrapped, unwrapErr := unwrapSchemaValues(repairedJSON); unwrapErr == nil {
			if err = json.Unmarshal([]byte(unwrapped), &result); err == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("unmarshal repaired content as %T: %w", result, err)
	}
}

// parsePrimitive converts content with conv, retrying on the unwrapped value
// when content is a {"type", "value"} envelope.
func parsePrimitive[V any](content, kind string, conv func(string) (V, error)) (V, error) {
	v, err := conv(strings.TrimSpace(content))
	if err == nil {
		return v, nil
	}
	if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
		if v, convErr := conv(unwrapped); convErr == nil {
			return v, nil
		}
	}
	var zero V
	return zero, fmt.Errorf("parse content as %s: %w", kind, err)
}

// bracketBlock returns everything from the first '[' to the last ']'.
func bracketBlock(text string) string {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

var errNotWrapped = errors.New("not a schema-wrapped value")

// envelopeValue returns the "value" of a {"type": ..., "value": ...} map.
func envelopeValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"]; !ok {
		return nil, false
	}
	v, ok := m["value"]
	return v, ok
}

// tryUnwrapPrimitive returns the textual form of an enveloped value.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	value, ok := envelopeValue(data)
	if !ok {
		return "", errNotWrapped
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// unwrapSchemaValues replaces every envelope in the document with its value:
//
//	{"title": {"type": "string", "value": "A"}}  ->  {"title": "A"}
func unwrapSchemaValues(doc string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return "", err
	}
	b, err := json.Marshal(unwrap(data))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if inner, ok := envelopeValue(v); ok {
			return unwrap(inner)
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = unwrap(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = unwrap(val)
		}
		return out
	default:
		return data
	}
}
