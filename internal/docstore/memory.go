package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with Firestore-like semantics. It backs the
// "memory" backend and the tool tests.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]map[string]any
	newID func() string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  map[string]map[string]any{},
		newID: autoID,
	}
}

// autoID returns a 20 character id, the length Firestore uses for generated ids.
func autoID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func (m *MemoryStore) ListCollections(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]struct{}{}
	for p := range m.docs {
		first, _, _ := strings.Cut(p, "/")
		seen[first] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func (m *MemoryStore) ListSubcollections(ctx context.Context, documentPath string) ([]string, error) {
	doc, err := DocumentPath(documentPath)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := doc + "/"
	seen := map[string]struct{}{}
	for p := range m.docs {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok {
			continue
		}
		sub, _, _ := strings.Cut(rest, "/")
		seen[sub] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func (m *MemoryStore) GetDocument(ctx context.Context, documentPath string) (Document, bool, error) {
	doc, err := DocumentPath(documentPath)
	if err != nil {
		return Document{}, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, id := lastSegment(doc)
	data, ok := m.docs[doc]
	if !ok {
		return Document{ID: id, Path: doc}, false, nil
	}
	return Document{ID: id, Path: doc, Data: cloneMap(data)}, true, nil
}

func (m *MemoryStore) ListDocuments(ctx context.Context, collectionPath string, limit int) ([]Document, error) {
	coll, err := CollectionPath(collectionPath)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return limitDocs(m.collectionDocs(coll, nil), limit), nil
}

func (m *MemoryStore) QueryDocuments(ctx context.Context, collectionPath string, filter Filter, limit int) ([]Document, error) {
	coll, err := CollectionPath(collectionPath)
	if err != nil {
		return nil, err
	}
	pred, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return limitDocs(m.collectionDocs(coll, pred), limit), nil
}

func (m *MemoryStore) CreateDocument(ctx context.Context, collectionPath, documentID string, data map[string]any) (DocumentRef, error) {
	coll, err := CollectionPath(collectionPath)
	if err != nil {
		return DocumentRef{}, err
	}
	if err := validDocumentID(documentID); err != nil {
		return DocumentRef{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := documentID
	if id == "" {
		id = m.newID()
	}
	p := coll + "/" + id
	m.docs[p] = cloneMap(data)
	return DocumentRef{ID: id, Path: p}, nil
}

func (m *MemoryStore) SetDocument(ctx context.Context, documentPath string, data map[string]any, merge bool) error {
	doc, err := DocumentPath(documentPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[doc]
	if !merge || !ok {
		m.docs[doc] = cloneMap(data)
		return nil
	}
	mergeInto(existing, data)
	return nil
}

func (m *MemoryStore) DeleteDocument(ctx context.Context, documentPath string) error {
	doc, err := DocumentPath(documentPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, doc)
	return nil
}

func (m *MemoryStore) CountDocuments(ctx context.Context, collectionPath string) (int64, error) {
	coll, err := CollectionPath(collectionPath)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for p := range m.docs {
		if parent, _ := lastSegment(p); parent == coll {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Close() error { return nil }

// collectionDocs returns the documents directly under coll, ordered by id.
// Callers hold the read lock.
func (m *MemoryStore) collectionDocs(coll string, pred func(map[string]any) bool) []Document {
	var out []Document
	for p, data := range m.docs {
		parent, id := lastSegment(p)
		if parent != coll {
			continue
		}
		if pred != nil && !pred(data) {
			continue
		}
		out = append(out, Document{ID: id, Path: p, Data: cloneMap(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func limitDocs(docs []Document, limit int) []Document {
	if docs == nil {
		return []Document{}
	}
	if limit > 0 && len(docs) > limit {
		return docs[:limit]
	}
	return docs
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[k].(map[string]any); ok {
				mergeInto(cur, sub)
				continue
			}
		}
		dst[k] = cloneValue(v)
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

