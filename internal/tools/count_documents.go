package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// countDocumentsTool runs a server-side count over a collection.
type countDocumentsTool struct {
	store docstore.Store
}

// CountDocuments constructs the count_documents tool.
func CountDocuments(store docstore.Store) *countDocumentsTool {
	return &countDocumentsTool{store: store}
}

func (t *countDocumentsTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "count_documents",
		Description: "Count documents in a collection",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"collectionPath": {Type: "string", Description: "Path to the collection"},
		}, "collectionPath"),
	}
}

type countPayload struct {
	Collection string `json:"collection"`
	Count      int64  `json:"count"`
}

func (t *countDocumentsTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args struct {
		CollectionPath string `json:"collectionPath"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	if err := requireString("collectionPath", args.CollectionPath); err != nil {
		return protocol.CallResult{}, err
	}

	n, err := t.store.CountDocuments(ctx, args.CollectionPath)
	if err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(countPayload{Collection: args.CollectionPath, Count: n})
}
