// Package docstore is the document database boundary: the Store contract the tools
// call, a Cloud Firestore implementation, an in-memory implementation, and the
// normalizer that turns stored values into JSON-safe trees.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath reports a path with the wrong shape for the requested target.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidOperator reports a query operator the database does not support.
	ErrInvalidOperator = errors.New("invalid operator")
)

// Document is a stored document. Data may hold database-native values and must be
// passed through Normalize before it is encoded.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// DocumentRef identifies a document by id and database-relative path.
type DocumentRef struct {
	ID   string
	Path string
}

// Filter is a single field/operator/value predicate.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// Store is the set of database operations exposed as tools.
type Store interface {
	ListCollections(ctx context.Context) ([]string, error)
	ListSubcollections(ctx context.Context, documentPath string) ([]string, error)
	// GetDocument reports exists=false, with a nil error, when nothing is stored at the path.
	GetDocument(ctx context.Context, documentPath string) (Document, bool, error)
	ListDocuments(ctx context.Context, collectionPath string, limit int) ([]Document, error)
	QueryDocuments(ctx context.Context, collectionPath string, filter Filter, limit int) ([]Document, error)
	// CreateDocument overwrites at documentID when given, otherwise generates an id.
	CreateDocument(ctx context.Context, collectionPath, documentID string, data map[string]any) (DocumentRef, error)
	SetDocument(ctx context.Context, documentPath string, data map[string]any, merge bool) error
	DeleteDocument(ctx context.Context, documentPath string) error
	CountDocuments(ctx context.Context, collectionPath string) (int64, error)
	Close() error
}

// Operators lists the query operators understood by both store implementations.
var Operators = []string{"==", "!=", "<", "<=", ">", ">=", "array-contains", "array-contains-any", "in", "not-in"}

func validOperator(op string) bool {
	for _, o := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// DocumentPath cleans p and checks it addresses a document.
func DocumentPath(p string) (string, error) {
	clean, segs, err := splitPath(p)
	if err != nil {
		return "", err
	}
	if len(segs)%2 != 0 {
		return "", fmt.Errorf("%w: %q must point to a document, but has an odd number of segments", ErrInvalidPath, p)
	}
	return clean, nil
}

// CollectionPath cleans p and checks it addresses a collection.
func CollectionPath(p string) (string, error) {
	clean, segs, err := splitPath(p)
	if err != nil {
		return "", err
	}
	if len(segs)%2 != 1 {
		return "", fmt.Errorf("%w: %q must point to a collection, but has an even number of segments", ErrInvalidPath, p)
	}
	return clean, nil
}

func splitPath(p string) (string, []string, error) {
	clean := strings.Trim(strings.TrimSpace(p), "/")
	if clean == "" {
		return "", nil, fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	segs := strings.Split(clean, "/")
	for _, s := range segs {
		if s == "" {
			return "", nil, fmt.Errorf("%w: %q contains an empty segment", ErrInvalidPath, p)
		}
	}
	return clean, segs, nil
}

func validDocumentID(id string) error {
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: document id %q must not contain '/'", ErrInvalidPath, id)
	}
	return nil
}

// lastSegment returns the final segment and its parent path.
func lastSegment(p string) (parent, id string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
