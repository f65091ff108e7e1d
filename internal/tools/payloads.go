package tools

import (
	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
)

// Result payloads. Field order here is the order keys appear in the tool output.

type documentPayload struct {
	ID   string         `json:"id"`
	Path string         `json:"path"`
	Data map[string]any `json:"data"`
}

type notFoundPayload struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

type documentListPayload struct {
	Count     int               `json:"count"`
	Documents []documentPayload `json:"documents"`
}

func toDocumentPayload(doc docstore.Document) documentPayload {
	return documentPayload{ID: doc.ID, Path: doc.Path, Data: docstore.Normalize(doc.Data)}
}

func toDocumentList(docs []docstore.Document) documentListPayload {
	out := make([]documentPayload, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentPayload(d))
	}
	return documentListPayload{Count: len(out), Documents: out}
}
