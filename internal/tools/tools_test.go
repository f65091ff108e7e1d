package tools

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
	"google.golang.org/genproto/googleapis/type/latlng"
)

type invoker interface {
	Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error)
}

// invokeJSON calls tool with args and decodes the single text part.
func invokeJSON(t *testing.T, tool invoker, args string) (map[string]any, string) {
	t.Helper()
	res, err := tool.Invoke(context.Background(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("invoke %s: %v", args, err)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("expected one text part, got %+v", res.Content)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(res.Content[0].Text), &out); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, res.Content[0].Text)
	}
	return out, res.Content[0].Text
}

func invokeErr(t *testing.T, tool invoker, args string) error {
	t.Helper()
	_, err := tool.Invoke(context.Background(), json.RawMessage(args))
	if err == nil {
		t.Fatalf("expected error for %s", args)
	}
	return err
}

func newSeededStore(t *testing.T) *docstore.MemoryStore {
	t.Helper()
	st := docstore.NewMemoryStore()
	ctx := context.Background()
	seed := map[string]map[string]any{
		"users/alice":          {"name": "alice", "score": int64(5), "tags": []any{"a", "b"}},
		"users/bob":            {"name": "bob", "score": int64(7)},
		"users/five":           {"name": "5", "score": "5"},
		"users/alice/notes/n1": {"text": "hi"},
	}
	for p, d := range seed {
		if err := st.SetDocument(ctx, p, d, false); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return st
}

func TestListCollections(t *testing.T) {
	st := newSeededStore(t)
	out, text := invokeJSON(t, ListCollections(st), `{}`)
	if !reflect.DeepEqual(out["collections"], []any{"users"}) {
		t.Fatalf("unexpected collections %v", out)
	}
	if !strings.Contains(text, "\n  \"collections\"") {
		t.Fatalf("expected two-space indented output, got %q", text)
	}

	out, _ = invokeJSON(t, ListCollections(docstore.NewMemoryStore()), ``)
	if !reflect.DeepEqual(out["collections"], []any{}) {
		t.Fatalf("empty database should list [], got %v", out)
	}
}

func TestListSubcollections(t *testing.T) {
	st := newSeededStore(t)
	out, _ := invokeJSON(t, ListSubcollections(st), `{"documentPath":"users/alice"}`)
	if !reflect.DeepEqual(out["subcollections"], []any{"notes"}) {
		t.Fatalf("unexpected subcollections %v", out)
	}

	if err := invokeErr(t, ListSubcollections(st), `{}`); err.Error() != "documentPath is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGetDocumentNormalizesNativeValues(t *testing.T) {
	st := docstore.NewMemoryStore()
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	err := st.SetDocument(context.Background(), "places/berlin", map[string]any{
		"founded": ts,
		"country": &firestore.DocumentRef{ID: "de", Path: "projects/p/databases/(default)/documents/countries/de"},
		"center":  &latlng.LatLng{Latitude: 52.5, Longitude: 13.4},
	}, false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, _ := invokeJSON(t, GetDocument(st), `{"documentPath":"places/berlin"}`)
	if out["id"] != "berlin" || out["path"] != "places/berlin" {
		t.Fatalf("unexpected identity %v", out)
	}
	want := map[string]any{
		"founded": "2024-05-06T07:08:09.000Z",
		"country": "countries/de",
		"center":  map[string]any{"latitude": 52.5, "longitude": 13.4},
	}
	if !reflect.DeepEqual(out["data"], want) {
		t.Fatalf("data %v, want %v", out["data"], want)
	}
}

func TestReadsSurviveNonFiniteNumbers(t *testing.T) {
	st := docstore.NewMemoryStore()
	err := st.SetDocument(context.Background(), "readings/r1", map[string]any{
		"v":    math.NaN(),
		"w":    math.Inf(1),
		"name": "x",
	}, false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, _ := invokeJSON(t, GetDocument(st), `{"documentPath":"readings/r1"}`)
	want := map[string]any{"v": nil, "w": nil, "name": "x"}
	if !reflect.DeepEqual(out["data"], want) {
		t.Fatalf("data %v, want %v", out["data"], want)
	}

	out, _ = invokeJSON(t, ListDocuments(st), `{"collectionPath":"readings"}`)
	if out["count"] != float64(1) {
		t.Fatalf("unexpected list payload %v", out)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	st := newSeededStore(t)
	out, text := invokeJSON(t, GetDocument(st), `{"documentPath":"users/nobody"}`)
	if out["error"] != "Document not found" || out["path"] != "users/nobody" {
		t.Fatalf("unexpected not-found payload %v", out)
	}
	if text != `{"error":"Document not found","path":"users/nobody"}` {
		t.Fatalf("not-found payload should be compact, got %q", text)
	}
}

func TestGetDocumentInvalidPath(t *testing.T) {
	err := invokeErr(t, GetDocument(newSeededStore(t)), `{"documentPath":"users"}`)
	if !errors.Is(err, docstore.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestListDocumentsLimit(t *testing.T) {
	st := newSeededStore(t)

	out, _ := invokeJSON(t, ListDocuments(st), `{"collectionPath":"users"}`)
	if out["count"] != float64(3) {
		t.Fatalf("expected 3 documents, got %v", out["count"])
	}

	out, _ = invokeJSON(t, ListDocuments(st), `{"collectionPath":"users","limit":1}`)
	docs := out["documents"].([]any)
	if out["count"] != float64(1) || len(docs) != 1 {
		t.Fatalf("limit not applied: %v", out)
	}
	first := docs[0].(map[string]any)
	if first["id"] != "alice" || first["path"] != "users/alice" {
		t.Fatalf("unexpected first document %v", first)
	}

	for _, bad := range []string{`{"collectionPath":"users","limit":0}`, `{"collectionPath":"users","limit":2.5}`, `{"collectionPath":"users","limit":"3"}`} {
		invokeErr(t, ListDocuments(st), bad)
	}
}

func TestListDocumentsDefaultLimit(t *testing.T) {
	st := docstore.NewMemoryStore()
	for i := 0; i < DefaultLimit+5; i++ {
		if _, err := st.CreateDocument(context.Background(), "bulk", "", map[string]any{"i": int64(i)}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	out, _ := invokeJSON(t, ListDocuments(st), `{"collectionPath":"bulk"}`)
	if out["count"] != float64(DefaultLimit) {
		t.Fatalf("expected default limit %d, got %v", DefaultLimit, out["count"])
	}
}

func TestQueryDocumentsValueParsing(t *testing.T) {
	st := newSeededStore(t)
	cases := []struct {
		name string
		args string
		want []string
	}{
		{"json number", `{"collectionPath":"users","field":"score","operator":"==","value":"5"}`, []string{"alice"}},
		{"plain string", `{"collectionPath":"users","field":"name","operator":"==","value":"bob"}`, []string{"bob"}},
		{"quoted json string", `{"collectionPath":"users","field":"score","operator":"==","value":"\"5\""}`, []string{"five"}},
		{"json array", `{"collectionPath":"users","field":"score","operator":"in","value":"[5,7]"}`, []string{"alice", "bob"}},
		{"non-string value", `{"collectionPath":"users","field":"score","operator":">","value":6}`, []string{"bob"}},
		{"not json", `{"collectionPath":"users","field":"name","operator":"==","value":"not-json"}`, nil},
		{"limit", `{"collectionPath":"users","field":"score","operator":">=","value":"0","limit":1}`, []string{"alice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := invokeJSON(t, QueryDocuments(st), tc.args)
			var ids []string
			for _, d := range out["documents"].([]any) {
				ids = append(ids, d.(map[string]any)["id"].(string))
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("got %v, want %v", ids, tc.want)
			}
			if out["count"] != float64(len(tc.want)) {
				t.Fatalf("count %v does not match %d documents", out["count"], len(tc.want))
			}
		})
	}
}

func TestParseQueryValue(t *testing.T) {
	cases := []struct {
		raw  string
		want any
	}{
		{`"5"`, int64(5)},
		{`"5.5"`, 5.5},
		{`"not-json"`, "not-json"},
		{`"true"`, true},
		{`"[1,\"a\"]"`, []any{int64(1), "a"}},
		{`"{\"k\":2}"`, map[string]any{"k": int64(2)}},
		{`"5 6"`, "5 6"},
		{`""`, ""},
		{`null`, nil},
		{`7`, int64(7)},
	}
	for _, tc := range cases {
		got, err := parseQueryValue(json.RawMessage(tc.raw))
		if err != nil {
			t.Errorf("%s: %v", tc.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestQueryDocumentsPassesOperatorThrough(t *testing.T) {
	err := invokeErr(t, QueryDocuments(newSeededStore(t)), `{"collectionPath":"users","field":"score","operator":"like","value":"5"}`)
	if !errors.Is(err, docstore.ErrInvalidOperator) {
		t.Fatalf("expected store operator error, got %v", err)
	}

	err = invokeErr(t, QueryDocuments(newSeededStore(t)), `{"collectionPath":"users","field":"score","value":"5"}`)
	if err.Error() != "operator is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateDocumentGeneratedID(t *testing.T) {
	st := docstore.NewMemoryStore()
	out, _ := invokeJSON(t, CreateDocument(st), `{"collectionPath":"notes","data":"{\"title\":\"t\"}"}`)
	id, _ := out["id"].(string)
	if out["success"] != true || id == "" || out["path"] != "notes/"+id {
		t.Fatalf("unexpected create payload %v", out)
	}

	got, _ := invokeJSON(t, GetDocument(st), `{"documentPath":"`+out["path"].(string)+`"}`)
	if !reflect.DeepEqual(got["data"], map[string]any{"title": "t"}) {
		t.Fatalf("created document data %v", got["data"])
	}
}

func TestCreateDocumentExplicitID(t *testing.T) {
	st := docstore.NewMemoryStore()
	out, _ := invokeJSON(t, CreateDocument(st), `{"collectionPath":"notes","documentId":"n1","data":"{\"n\":1}"}`)
	if out["id"] != "n1" || out["path"] != "notes/n1" {
		t.Fatalf("unexpected create payload %v", out)
	}
	doc, ok, _ := st.GetDocument(context.Background(), "notes/n1")
	if !ok || doc.Data["n"] != int64(1) {
		t.Fatalf("integral JSON numbers should be stored as int64, got %#v", doc.Data)
	}
}

func TestCreateDocumentRejectsBadData(t *testing.T) {
	st := docstore.NewMemoryStore()
	cases := map[string]string{
		`{"collectionPath":"notes"}`:                                "data is required",
		`{"collectionPath":"notes","data":{"a":1}}`:                 "data must be a string containing a JSON object",
		`{"collectionPath":"notes","data":"[1,2]"}`:                 "data must be a JSON object",
		`{"collectionPath":"notes","data":"{not json"}`:             "invalid data JSON",
		`{"data":"{}"}`:                                             "collectionPath is required",
		`{"collectionPath":"notes","documentId":"a/b","data":"{}"}`: "invalid path",
	}
	for args, want := range cases {
		err := invokeErr(t, CreateDocument(st), args)
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%s: error %q does not mention %q", args, err, want)
		}
	}
}

func TestUpdateDocumentMergeSemantics(t *testing.T) {
	st := docstore.NewMemoryStore()
	ctx := context.Background()
	seed := func() {
		if err := st.SetDocument(ctx, "items/x", map[string]any{"a": int64(1), "b": int64(2)}, false); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	seed()
	out, _ := invokeJSON(t, UpdateDocument(st), `{"documentPath":"items/x","data":"{\"a\":9}"}`)
	if out["success"] != true || out["merged"] != true || out["path"] != "items/x" {
		t.Fatalf("unexpected update payload %v", out)
	}
	doc, _, _ := st.GetDocument(ctx, "items/x")
	if !reflect.DeepEqual(doc.Data, map[string]any{"a": int64(9), "b": int64(2)}) {
		t.Fatalf("merge=true result %v", doc.Data)
	}

	seed()
	out, _ = invokeJSON(t, UpdateDocument(st), `{"documentPath":"items/x","data":"{\"a\":9}","merge":false}`)
	if out["merged"] != false {
		t.Fatalf("expected merged=false, got %v", out)
	}
	doc, _, _ = st.GetDocument(ctx, "items/x")
	if !reflect.DeepEqual(doc.Data, map[string]any{"a": int64(9)}) {
		t.Fatalf("merge=false result %v", doc.Data)
	}
}

func TestDeleteDocument(t *testing.T) {
	st := newSeededStore(t)
	out, _ := invokeJSON(t, DeleteDocument(st), `{"documentPath":"users/bob"}`)
	if out["success"] != true || out["deleted"] != "users/bob" {
		t.Fatalf("unexpected delete payload %v", out)
	}
	if _, ok, _ := st.GetDocument(context.Background(), "users/bob"); ok {
		t.Fatalf("document still present")
	}
}

func TestCountDocuments(t *testing.T) {
	st := newSeededStore(t)
	out, _ := invokeJSON(t, CountDocuments(st), `{"collectionPath":"users"}`)
	if out["collection"] != "users" || out["count"] != float64(3) {
		t.Fatalf("unexpected count payload %v", out)
	}

	out, _ = invokeJSON(t, CountDocuments(st), `{"collectionPath":"empty"}`)
	if out["count"] != float64(0) {
		t.Fatalf("empty collection should count 0, got %v", out)
	}
}

func TestDescriptorsDeclareRequiredArguments(t *testing.T) {
	st := docstore.NewMemoryStore()
	want := map[string][]string{
		"list_collections":    {},
		"list_subcollections": {"documentPath"},
		"get_document":        {"documentPath"},
		"list_documents":      {"collectionPath"},
		"query_documents":     {"collectionPath", "field", "operator", "value"},
		"create_document":     {"collectionPath", "data"},
		"update_document":     {"documentPath", "data"},
		"delete_document":     {"documentPath"},
		"count_documents":     {"collectionPath"},
	}
	descs := []protocol.ToolDescriptor{
		ListCollections(st).Descriptor(),
		ListSubcollections(st).Descriptor(),
		GetDocument(st).Descriptor(),
		ListDocuments(st).Descriptor(),
		QueryDocuments(st).Descriptor(),
		CreateDocument(st).Descriptor(),
		UpdateDocument(st).Descriptor(),
		DeleteDocument(st).Descriptor(),
		CountDocuments(st).Descriptor(),
	}
	for _, d := range descs {
		req, ok := want[d.Name]
		if !ok {
			t.Fatalf("unexpected tool %s", d.Name)
		}
		if d.InputSchema == nil || d.InputSchema.Type != "object" {
			t.Fatalf("%s: missing object schema", d.Name)
		}
		if !reflect.DeepEqual(d.InputSchema.Required, req) {
			t.Errorf("%s: required %v, want %v", d.Name, d.InputSchema.Required, req)
		}
		for _, r := range req {
			if _, ok := d.InputSchema.Properties[r]; !ok {
				t.Errorf("%s: required %s not declared", d.Name, r)
			}
		}
	}
}
