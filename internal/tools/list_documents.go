package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// listDocumentsTool returns up to limit documents of a collection.
type listDocumentsTool struct {
	store docstore.Store
}

// ListDocuments constructs the list_documents tool.
func ListDocuments(store docstore.Store) *listDocumentsTool {
	return &listDocumentsTool{store: store}
}

func (t *listDocumentsTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "list_documents",
		Description: "List documents in a collection with optional limit",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"collectionPath": {Type: "string", Description: "Path to the collection (e.g., 'users' or 'users/userId123/notes')"},
			"limit":          {Type: "number", Description: "Maximum number of documents to return (default: 20)", Default: DefaultLimit},
		}, "collectionPath"),
	}
}

type listDocumentsArgs struct {
	CollectionPath string   `json:"collectionPath"`
	Limit          *float64 `json:"limit"`
}

func (t *listDocumentsTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args listDocumentsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("collectionPath", args.CollectionPath); err != nil {
		return protocol.CallResult{}, err
	}
	limit, err := resolveLimit(args.Limit)
	if err != nil {
		return protocol.CallResult{}, err
	}

	docs, err := t.store.ListDocuments(ctx, args.CollectionPath, limit)
	if err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(toDocumentList(docs))
}
