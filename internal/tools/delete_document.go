package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// deleteDocumentTool removes a document. Its subcollections are left in place.
type deleteDocumentTool struct {
	store docstore.Store
}

// DeleteDocument constructs the delete_document tool.
func DeleteDocument(store docstore.Store) *deleteDocumentTool {
	return &deleteDocumentTool{store: store}
}

func (t *deleteDocumentTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "delete_document",
		Description: "Delete a document",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"documentPath": {Type: "string", Description: "Path to the document to delete"},
		}, "documentPath"),
	}
}

type deletePayload struct {
	Success bool   `json:"success"`
	Deleted string `json:"deleted"`
}

func (t *deleteDocumentTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args documentPathArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("documentPath", args.DocumentPath); err != nil {
		return protocol.CallResult{}, err
	}

	if err := t.store.DeleteDocument(ctx, args.DocumentPath); err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(deletePayload{Success: true, Deleted: args.DocumentPath})
}
