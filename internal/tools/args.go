package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// DefaultLimit caps list and query results when no limit is given.
const DefaultLimit = 20

// decodeArgs unmarshals raw tool arguments into dst. Empty arguments leave dst untouched.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func requireString(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// resolveLimit applies DefaultLimit and rejects non-positive or fractional limits.
func resolveLimit(limit *float64) (int, error) {
	if limit == nil {
		return DefaultLimit, nil
	}
	v := *limit
	if v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("limit must be a positive integer, got %v", v)
	}
	return int(v), nil
}

// parseDataArg decodes the "data" argument: a string holding a JSON object.
func parseDataArg(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("data is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, errors.New("data must be a string containing a JSON object")
	}
	v, err := decodeJSON(text)
	if err != nil {
		return nil, fmt.Errorf("invalid data JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("data must be a JSON object")
	}
	return obj, nil
}

// parseQueryValue resolves the "value" argument of query_documents. A string is
// parsed as JSON when it is valid JSON and compared verbatim otherwise, so "5"
// matches the number 5 while "not-json" stays a string. Non-string arguments are
// used as their JSON value.
func parseQueryValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return decodeJSON(string(raw))
	}
	if v, err := decodeJSON(text); err == nil {
		return v, nil
	}
	return text, nil
}

// decodeJSON parses a complete JSON text. Integral numbers become int64 and the
// rest float64, matching how the database distinguishes integers from doubles.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return convertNumbers(v), nil
}

func convertNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = convertNumbers(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = convertNumbers(x[k])
		}
		return x
	default:
		return v
	}
}
