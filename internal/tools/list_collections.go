package tools

import (
	"context"
	"encoding/json"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// listCollectionsTool lists the top-level collections of the database.
type listCollectionsTool struct {
	store docstore.Store
}

// ListCollections constructs the list_collections tool.
func ListCollections(store docstore.Store) *listCollectionsTool {
	return &listCollectionsTool{store: store}
}

func (t *listCollectionsTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "list_collections",
		Description: "List all top-level collections in Firestore",
		InputSchema: protocol.ObjectSchema(nil),
	}
}

func (t *listCollectionsTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	ids, err := t.store.ListCollections(ctx)
	if err != nil {
		return protocol.CallResult{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return protocol.JSONResult(struct {
		Collections []string `json:"collections"`
	}{Collections: ids})
}
