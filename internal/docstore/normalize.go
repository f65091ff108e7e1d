package docstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
)

// TimestampLayout renders timestamps as UTC ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Kind is the closed set of value shapes the normalizer recognizes.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindBytes
	KindTimestamp
	KindReference
	KindGeoPoint
	KindSequence
	KindMapping
	KindObject
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindBytes:     "bytes",
	KindTimestamp: "timestamp",
	KindReference: "reference",
	KindGeoPoint:  "geopoint",
	KindSequence:  "sequence",
	KindMapping:   "mapping",
	KindObject:    "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf classifies v. Native database types are checked before the generic
// sequence and mapping shapes.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case []byte:
		return KindBytes
	case time.Time, *time.Time:
		return KindTimestamp
	case *firestore.DocumentRef:
		return KindReference
	case *latlng.LatLng:
		return KindGeoPoint
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return KindSequence
	}
	return KindObject
}

// Normalize converts a document's fields into a tree of JSON primitives,
// sequences and mappings.
func Normalize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = NormalizeValue(v)
	}
	return out
}

// NormalizeValue converts a single value. It never fails: unknown object shapes
// are copied through their JSON encoding.
func NormalizeValue(v any) any {
	switch KindOf(v) {
	case KindNull, KindBool, KindString:
		return v
	case KindNumber:
		return normalizeNumber(v)
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.([]byte))
	case KindTimestamp:
		return normalizeTime(v)
	case KindReference:
		ref := v.(*firestore.DocumentRef)
		if ref == nil {
			return nil
		}
		return RelativePath(ref.Path)
	case KindGeoPoint:
		p := v.(*latlng.LatLng)
		if p == nil {
			return nil
		}
		return map[string]any{"latitude": p.GetLatitude(), "longitude": p.GetLongitude()}
	case KindSequence:
		return normalizeSequence(v)
	case KindMapping:
		return Normalize(v.(map[string]any))
	case KindObject:
		return normalizeObject(v)
	}
	return v
}

// normalizeNumber maps NaN and infinities, which JSON cannot represent, to null.
func normalizeNumber(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

func normalizeTime(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(TimestampLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(TimestampLayout)
	}
	return nil
}

func normalizeSequence(v any) any {
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = NormalizeValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = NormalizeValue(rv.Index(i).Interface())
	}
	return out
}

func normalizeObject(v any) any {
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Map) && rv.IsNil() {
		return nil
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = NormalizeValue(iter.Value().Interface())
		}
		return out
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Sprint(v)
	}
	return generic
}

// RelativePath strips the "projects/<p>/databases/<d>/documents/" prefix from a
// fully qualified resource name. Paths without the prefix are returned as-is.
func RelativePath(name string) string {
	const marker = "/documents/"
	if i := strings.Index(name, marker); i >= 0 {
		return name[i+len(marker):]
	}
	return name
}
