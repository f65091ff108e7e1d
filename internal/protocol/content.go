package protocol

import (
	"bytes"
	"encoding/json"
)

// JSONResult encodes v, indented with two spaces, as a single text part.
func JSONResult(v any) (CallResult, error) {
	text, err := encodeJSON(v, "  ")
	if err != nil {
		return CallResult{}, err
	}
	return TextResult(text), nil
}

// CompactJSONResult encodes v on one line as a single text part.
func CompactJSONResult(v any) (CallResult, error) {
	text, err := encodeJSON(v, "")
	if err != nil {
		return CallResult{}, err
	}
	return TextResult(text), nil
}

// ErrorPayload is the body of a tool-level failure.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ErrorResult reports a tool-level failure inside a successful call result.
func ErrorResult(message string) CallResult {
	res, err := CompactJSONResult(ErrorPayload{Error: message})
	if err != nil {
		return TextResult(`{"error":"internal error"}`)
	}
	return res
}

func encodeJSON(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
