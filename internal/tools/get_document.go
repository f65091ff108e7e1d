package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// getDocumentTool fetches a single document by path.
type getDocumentTool struct {
	store docstore.Store
}

// GetDocument constructs the get_document tool.
func GetDocument(store docstore.Store) *getDocumentTool {
	return &getDocumentTool{store: store}
}

func (t *getDocumentTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "get_document",
		Description: "Get a single document by path",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"documentPath": {Type: "string", Description: "Path to the document (e.g., 'users/userId123')"},
		}, "documentPath"),
	}
}

// Invoke reports a missing document as a normal result carrying an error field,
// not as a failure.
func (t *getDocumentTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args documentPathArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("documentPath", args.DocumentPath); err != nil {
		return protocol.CallResult{}, err
	}

	doc, ok, err := t.store.GetDocument(ctx, args.DocumentPath)
	if err != nil {
		return protocol.CallResult{}, err
	}
	if !ok {
		return protocol.CompactJSONResult(notFoundPayload{Error: "Document not found", Path: args.DocumentPath})
	}
	return protocol.JSONResult(toDocumentPayload(doc))
}
