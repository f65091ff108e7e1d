package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// createDocumentTool writes a new document, at a given id or a generated one.
type createDocumentTool struct {
	store docstore.Store
}

// CreateDocument constructs the create_document tool.
func CreateDocument(store docstore.Store) *createDocumentTool {
	return &createDocumentTool{store: store}
}

func (t *createDocumentTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "create_document",
		Description: "Create a new document in a collection",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"collectionPath": {Type: "string", Description: "Path to the collection"},
			"documentId":     {Type: "string", Description: "Optional document ID (auto-generated if not provided)"},
			"data":           {Type: "string", Description: "JSON string of the document data"},
		}, "collectionPath", "data"),
	}
}

type createDocumentArgs struct {
	CollectionPath string          `json:"collectionPath"`
	DocumentID     string          `json:"documentId"`
	Data           json.RawMessage `json:"data"`
}

type createPayload struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Path    string `json:"path"`
}

func (t *createDocumentTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args createDocumentArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("collectionPath", args.CollectionPath); err != nil {
		return protocol.CallResult{}, err
	}
	data, err := parseDataArg(args.Data)
	if err != nil {
		return protocol.CallResult{}, err
	}

	ref, err := t.store.CreateDocument(ctx, args.CollectionPath, strings.TrimSpace(args.DocumentID), data)
	if err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(createPayload{Success: true, ID: ref.ID, Path: ref.Path})
}
