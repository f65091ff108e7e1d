package protocol

import "encoding/json"

// JSONRPCVersion is the only JSON-RPC version spoken by the server.
const JSONRPCVersion = "2.0"

// JSON-RPC error codes used by the server.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request represents a minimal JSON-RPC 2.0 request.
// A request without an id is a notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`

	nullID bool
}

// UnmarshalJSON records an explicit "id": null, which is not a notification.
func (r *Request) UnmarshalJSON(b []byte) error {
	type plain Request
	var w struct {
		plain
		RawID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Request(w.plain)
	r.ID = nil
	r.nullID = false
	switch {
	case len(w.RawID) == 0:
	case string(w.RawID) == "null":
		r.nullID = true
	default:
		if err := json.Unmarshal(w.RawID, &r.ID); err != nil {
			return err
		}
	}
	return nil
}

// IsNotification reports whether the request carries no id member at all.
func (r Request) IsNotification() bool {
	return r.ID == nil && !r.nullID
}

// HasNullID reports whether the request carried "id": null.
func (r Request) HasNullID() bool {
	return r.nullID
}

// Response models a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string         `json:"jsonrpc,omitempty"`
	ID      any            `json:"id"`
	Result  any            `json:"result,omitempty"`
	Error   *ResponseError `json:"error,omitempty"`
}

// ResponseError holds JSON-RPC error data.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	return e.Message
}

// ToolDescriptor describes a tool available from the MCP server.
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema *JSONSchema `json:"inputSchema,omitempty"`
}

// JSONSchema is a minimal subset to describe tool input shapes.
type JSONSchema struct {
	Type        string                `json:"type,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty"`
	Enum        []string              `json:"enum,omitempty"`
	Description string                `json:"description,omitempty"`
	Default     any                   `json:"default,omitempty"`
}

// ObjectSchema builds an object schema. Required is always emitted, even when empty.
func ObjectSchema(props map[string]JSONSchema, required ...string) *JSONSchema {
	if props == nil {
		props = map[string]JSONSchema{}
	}
	if required == nil {
		required = []string{}
	}
	return &JSONSchema{Type: "object", Properties: props, Required: required}
}

// ServerInfo identifies the server in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the subset of initialize params the server reads.
type InitializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
}

// InitializeResult is the payload for initialize.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

// ListResult is the payload for tools/list.
type ListResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallParams represents parameters for tools/call.
type CallParams struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"arguments,omitempty"`
}

// ContentPart is a single piece of tool output.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the payload for a tool invocation.
type CallResult struct {
	Content []ContentPart `json:"content"`
}

// TextResult wraps text into a single-part call result.
func TextResult(text string) CallResult {
	return CallResult{Content: []ContentPart{{Type: "text", Text: text}}}
}
