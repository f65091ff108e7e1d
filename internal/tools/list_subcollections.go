package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// listSubcollectionsTool lists the collections nested under one document.
type listSubcollectionsTool struct {
	store docstore.Store
}

// ListSubcollections constructs the list_subcollections tool.
func ListSubcollections(store docstore.Store) *listSubcollectionsTool {
	return &listSubcollectionsTool{store: store}
}

func (t *listSubcollectionsTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "list_subcollections",
		Description: "List subcollections of a document",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"documentPath": {Type: "string", Description: "Path to the document (e.g., 'users/userId123')"},
		}, "documentPath"),
	}
}

type documentPathArgs struct {
	DocumentPath string `json:"documentPath"`
}

func (t *listSubcollectionsTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args documentPathArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("documentPath", args.DocumentPath); err != nil {
		return protocol.CallResult{}, err
	}

	ids, err := t.store.ListSubcollections(ctx, args.DocumentPath)
	if err != nil {
		return protocol.CallResult{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return protocol.JSONResult(struct {
		Subcollections []string `json:"subcollections"`
	}{Subcollections: ids})
}
