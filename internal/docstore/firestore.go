package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "count"

// FirestoreStore implements Store on top of a Cloud Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// OpenFirestore creates a client for the given credentials.
func OpenFirestore(ctx context.Context, creds Credentials) (*FirestoreStore, error) {
	opts, err := creds.clientOptions()
	if err != nil {
		return nil, err
	}

	projectID := creds.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	databaseID := creds.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return NewFirestoreStore(client), nil
}

func (s *FirestoreStore) ListCollections(ctx context.Context) ([]string, error) {
	refs, err := s.client.Collections(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return collectionIDs(refs), nil
}

func (s *FirestoreStore) ListSubcollections(ctx context.Context, documentPath string) ([]string, error) {
	ref, err := s.doc(documentPath)
	if err != nil {
		return nil, err
	}
	refs, err := ref.Collections(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return collectionIDs(refs), nil
}

func (s *FirestoreStore) GetDocument(ctx context.Context, documentPath string) (Document, bool, error) {
	ref, err := s.doc(documentPath)
	if err != nil {
		return Document{}, false, err
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{ID: ref.ID, Path: RelativePath(ref.Path)}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	if !snap.Exists() {
		return Document{ID: ref.ID, Path: RelativePath(ref.Path)}, false, nil
	}
	return snapshotDocument(snap), true, nil
}

func (s *FirestoreStore) ListDocuments(ctx context.Context, collectionPath string, limit int) ([]Document, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, coll.Limit(limit))
}

func (s *FirestoreStore) QueryDocuments(ctx context.Context, collectionPath string, filter Filter, limit int) ([]Document, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return nil, err
	}
	q := coll.Where(filter.Field, filter.Operator, filter.Value).Limit(limit)
	return fetch(ctx, q)
}

func (s *FirestoreStore) CreateDocument(ctx context.Context, collectionPath, documentID string, data map[string]any) (DocumentRef, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return DocumentRef{}, err
	}

	if documentID == "" {
		ref, _, err := coll.Add(ctx, data)
		if err != nil {
			return DocumentRef{}, err
		}
		return DocumentRef{ID: ref.ID, Path: RelativePath(ref.Path)}, nil
	}

	if err := validDocumentID(documentID); err != nil {
		return DocumentRef{}, err
	}
	ref := coll.Doc(documentID)
	if _, err := ref.Set(ctx, data); err != nil {
		return DocumentRef{}, err
	}
	return DocumentRef{ID: ref.ID, Path: RelativePath(ref.Path)}, nil
}

func (s *FirestoreStore) SetDocument(ctx context.Context, documentPath string, data map[string]any, merge bool) error {
	ref, err := s.doc(documentPath)
	if err != nil {
		return err
	}
	if merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	return err
}

func (s *FirestoreStore) DeleteDocument(ctx context.Context, documentPath string) error {
	ref, err := s.doc(documentPath)
	if err != nil {
		return err
	}
	_, err = ref.Delete(ctx)
	return err
}

func (s *FirestoreStore) CountDocuments(ctx context.Context, collectionPath string) (int64, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return 0, err
	}

	res, err := coll.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, err
	}
	switch v := res[countAlias].(type) {
	case *firestorepb.Value:
		return v.GetIntegerValue(), nil
	case int64:
		return v, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected count result type %T", v)
	}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) doc(p string) (*firestore.DocumentRef, error) {
	clean, err := DocumentPath(p)
	if err != nil {
		return nil, err
	}
	ref := s.client.Doc(clean)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return ref, nil
}

func (s *FirestoreStore) collection(p string) (*firestore.CollectionRef, error) {
	clean, err := CollectionPath(p)
	if err != nil {
		return nil, err
	}
	ref := s.client.Collection(clean)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return ref, nil
}

func fetch(ctx context.Context, q firestore.Query) ([]Document, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

func snapshotDocument(snap *firestore.DocumentSnapshot) Document {
	data := snap.Data()
	if data == nil {
		data = map[string]any{}
	}
	return Document{ID: snap.Ref.ID, Path: RelativePath(snap.Ref.Path), Data: data}
}

func collectionIDs(refs []*firestore.CollectionRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

// serviceAccountJSON renders the three credential fields as a service account key file.
func serviceAccountJSON(c Credentials) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   c.ProjectID,
		"client_email": c.ClientEmail,
		"private_key":  c.PrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

func (c Credentials) clientOptions() ([]option.ClientOption, error) {
	switch {
	case c.PrivateKey != "":
		raw, err := serviceAccountJSON(c)
		if err != nil {
			return nil, fmt.Errorf("encode service account: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
	case c.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}, nil
	default:
		return nil, nil
	}
}
