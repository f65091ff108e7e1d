package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

func newTestServer() *Server {
	return NewServer(NewToolbox(echoTool("echo")), protocol.ServerInfo{Name: "test", Version: "0.0.1"})
}

func handle(t *testing.T, s *Server, raw string) protocol.Response {
	t.Helper()
	var req protocol.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("bad request fixture: %v", err)
	}
	resp, err := s.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	return resp
}

// roundTrip re-decodes a response the way a client would see it.
func roundTrip(t *testing.T, resp protocol.Response, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
}

func TestInitializeNegotiatesVersion(t *testing.T) {
	s := newTestServer()

	cases := map[string]string{
		"2024-11-05": "2024-11-05",
		"2025-03-26": "2025-03-26",
		"1999-01-01": SupportedProtocolVersions[0],
		"":           SupportedProtocolVersions[0],
	}
	for requested, want := range cases {
		resp := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"`+requested+`"}}`)
		if resp.Error != nil {
			t.Fatalf("initialize error: %v", resp.Error)
		}
		var res protocol.InitializeResult
		roundTrip(t, resp, &res)
		if res.ProtocolVersion != want {
			t.Errorf("requested %q: got %q, want %q", requested, res.ProtocolVersion, want)
		}
		if res.ServerInfo.Name != "test" {
			t.Errorf("unexpected server info %+v", res.ServerInfo)
		}
		if _, ok := res.Capabilities["tools"]; !ok {
			t.Errorf("tools capability not advertised")
		}
	}
}

func TestToolsListAndCall(t *testing.T) {
	s := newTestServer()

	resp := handle(t, s, `{"jsonrpc":"2.0","id":"a","method":"tools/list"}`)
	var list protocol.ListResult
	roundTrip(t, resp, &list)
	if len(list.Tools) != 1 || list.Tools[0].Name != "echo" {
		t.Fatalf("unexpected tools %+v", list.Tools)
	}
	if resp.ID != "a" {
		t.Fatalf("id not echoed: %v", resp.ID)
	}

	resp = handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"k":"v"}}}`)
	var call protocol.CallResult
	roundTrip(t, resp, &call)
	if call.Content[0].Text != `{"k":"v"}` {
		t.Fatalf("unexpected call result %+v", call)
	}

	resp = handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"nope"}}`)
	if resp.Error != nil {
		t.Fatalf("unknown tool must not be a protocol error: %v", resp.Error)
	}
	roundTrip(t, resp, &call)
	if call.Content[0].Text != `{"error":"Unknown tool: nope"}` {
		t.Fatalf("unexpected unknown-tool payload %q", call.Content[0].Text)
	}
}

func TestHandleProtocolErrors(t *testing.T) {
	s := newTestServer()
	cases := []struct {
		name string
		raw  string
		code int
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, protocol.CodeMethodNotFound},
		{"bad version", `{"jsonrpc":"1.0","id":1,"method":"ping"}`, protocol.CodeInvalidRequest},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, protocol.CodeInvalidRequest},
		{"missing tool name", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`, protocol.CodeInvalidParams},
		{"bad call params", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":[1]}`, protocol.CodeInvalidParams},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"ping"}`, protocol.CodeInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := handle(t, s, tc.raw)
			if resp.Error == nil || resp.Error.Code != tc.code {
				t.Fatalf("expected code %d, got %+v", tc.code, resp.Error)
			}
		})
	}
}

func TestPingAndNotifications(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, `{"jsonrpc":"2.0","id":7,"method":"ping"}`)
	if resp.Error != nil || resp.Result == nil {
		t.Fatalf("unexpected ping response %+v", resp)
	}

	resp = handle(t, s, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if resp.Error != nil || resp.Result != nil {
		t.Fatalf("notification should produce an empty response, got %+v", resp)
	}
}
