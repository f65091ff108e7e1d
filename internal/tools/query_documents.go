package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// queryDocumentsTool filters a collection by one field/operator/value triple.
// The operator is handed to the store unchecked; unsupported operators come back
// as store errors.
type queryDocumentsTool struct {
	store docstore.Store
}

// QueryDocuments constructs the query_documents tool.
func QueryDocuments(store docstore.Store) *queryDocumentsTool {
	return &queryDocumentsTool{store: store}
}

func (t *queryDocumentsTool) Descriptor() protocol.ToolDescriptor {
	return protocol.ToolDescriptor{
		Name:        "query_documents",
		Description: "Query documents with filters",
		InputSchema: protocol.ObjectSchema(map[string]protocol.JSONSchema{
			"collectionPath": {Type: "string", Description: "Path to the collection"},
			"field":          {Type: "string", Description: "Field to filter on"},
			"operator": {
				Type:        "string",
				Description: "Comparison operator (" + strings.Join(docstore.Operators, ", ") + ")",
			},
			"value": {Type: "string", Description: "Value to compare against (use JSON for arrays/objects)"},
			"limit": {Type: "number", Description: "Maximum number of documents to return (default: 20)", Default: DefaultLimit},
		}, "collectionPath", "field", "operator", "value"),
	}
}

type queryDocumentsArgs struct {
	CollectionPath string          `json:"collectionPath"`
	Field          string          `json:"field"`
	Operator       string          `json:"operator"`
	Value          json.RawMessage `json:"value"`
	Limit          *float64        `json:"limit"`
}

func (t *queryDocumentsTool) Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error) {
	var args queryDocumentsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return protocol.CallResult{}, err
	}
	for _, f := range []struct{ name, value string }{
		{"collectionPath", args.CollectionPath},
		{"field", args.Field},
		{"operator", args.Operator},
	} {
		if err := requireString(f.name, f.value); err != nil {
			return protocol.CallResult{}, err
		}
	}
	value, err := parseQueryValue(args.Value)
	if err != nil {
		return protocol.CallResult{}, err
	}
	limit, err := resolveLimit(args.Limit)
	if err != nil {
		return protocol.CallResult{}, err
	}

	filter := docstore.Filter{Field: args.Field, Operator: args.Operator, Value: value}
	docs, err := t.store.QueryDocuments(ctx, args.CollectionPath, filter, limit)
	if err != nil {
		return protocol.CallResult{}, err
	}
	return protocol.JSONResult(toDocumentList(docs))
}
