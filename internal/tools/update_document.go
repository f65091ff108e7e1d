package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// updateDocumentTool merges into or replaces a document.
type updateDocumentTool struct {
	store docstore.Store
}

// UpdateDocument constructs the update_document tool.
func UpdateDocument(store docstore.Store) *updateDocumentTool {
	return &updateDocumentTool{store: store}
}

func (t *updateDocumentTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "update_document",
		Description: "Update an existing document",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"documentPath": {Type: "string", Description: "Path to the document"},
			"data":         {Type: "string", Description: "JSON string of the fields to update"},
			"merge": {
				Type:        "boolean",
				Description: "If true, merge with existing data. If false, replace entirely (default: true)",
				Default:     true,
			},
		}, "documentPath", "data"),
	}
}

type updateDocumentArgs struct {
	DocumentPath string          `json:"documentPath"`
	Data         json.RawMessage `json:"data"`
	Merge        *bool           `json:"merge"`
}

type updatePayload struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Merged  bool   `json:"merged"`
}

func (t *updateDocumentTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args updateDocumentArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("documentPath", args.DocumentPath); err != nil {
		return protocol.CallResult{}, err
	}
	data, err := parseDataArg(args.Data)
	if err != nil {
		return protocol.CallResult{}, err
	}
	merge := true
	if args.Merge != nil {
		merge = *args.Merge
	}

	if err := t.store.SetDocument(ctx, args.DocumentPath, data, merge); err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(updatePayload{Success: true, Path: args.DocumentPath, Merged: merge})
}
