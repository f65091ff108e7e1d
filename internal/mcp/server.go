package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// SupportedProtocolVersions lists the MCP revisions the server accepts, newest first.
var SupportedProtocolVersions = []string{"2025-06-18", "2025-03-26", "2024-11-05"}

// Server handles MCP JSON-RPC requests against a toolbox.
type Server struct {
	toolbox *Toolbox
	info    protocol.ServerInfo
}

// NewServer wires a toolbox into an MCP server.
func NewServer(tb *Toolbox, info protocol.ServerInfo) *Server {
	return &Server{toolbox: tb, info: info}
}

// Handle routes a single request. Callers must not write a response for
// notifications (requests without an id).
func (s *Server) Handle(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	if err := validateJSONRPC(req); err != nil {
		return errorResponse(req.ID, err), nil
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return errorResponse(req.ID, &protocol.ResponseError{Code: protocol.CodeInvalidParams, Message: "invalid params"}), nil
			}
		}
		return resultResponse(req.ID, protocol.InitializeResult{
			ProtocolVersion: negotiateVersion(params.ProtocolVersion),
			ServerInfo:      s.info,
			Capabilities: map[string]any{
				"tools": map[string]any{},
			},
		}), nil
	case "ping":
		return resultResponse(req.ID, map[string]any{}), nil
	case "tools/list":
		return resultResponse(req.ID, protocol.ListResult{Tools: s.toolbox.Describe()}), nil
	case "tools/call":
		var params protocol.CallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, &protocol.ResponseError{Code: protocol.CodeInvalidParams, Message: "invalid params"}), nil
		}
		if params.Name == "" {
			return errorResponse(req.ID, &protocol.ResponseError{Code: protocol.CodeInvalidParams, Message: "tool name required"}), nil
		}
		return resultResponse(req.ID, s.toolbox.Call(ctx, params.Name, params.Args)), nil
	default:
		if req.IsNotification() {
			return protocol.Response{}, nil
		}
		return errorResponse(req.ID, &protocol.ResponseError{Code: protocol.CodeMethodNotFound, Message: "method not found"}), nil
	}
}

// WriteError builds a response with an error and wraps encode issues.
func WriteError(id any, code int, message string, err error) protocol.Response {
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	return errorResponse(id, &protocol.ResponseError{Code: code, Message: detail})
}

func resultResponse(id any, result any) protocol.Response {
	return protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: normalizeID(id), Result: result}
}

func errorResponse(id any, err *protocol.ResponseError) protocol.Response {
	return protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: normalizeID(id), Error: err}
}

func negotiateVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return SupportedProtocolVersions[0]
}

func validateJSONRPC(req protocol.Request) *protocol.ResponseError {
	if req.JSONRPC != "" && req.JSONRPC != protocol.JSONRPCVersion {
		return &protocol.ResponseError{Code: protocol.CodeInvalidRequest, Message: "invalid jsonrpc version"}
	}
	if req.Method == "" {
		return &protocol.ResponseError{Code: protocol.CodeInvalidRequest, Message: "method required"}
	}
	if req.HasNullID() {
		return &protocol.ResponseError{Code: protocol.CodeInvalidRequest, Message: "id must not be null"}
	}
	return nil
}

func normalizeID(id any) any {
	switch v := id.(type) {
	case nil:
		return nil
	case string, float64, json.Number:
		return v
	case int, int32, int64, uint32, uint64:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
