package docstore

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
)

// compileFilter turns a Filter into a predicate over document data, following
// Firestore's matching rules: missing fields never match, inequalities only
// compare values of the same type class, and != / not-in skip null fields.
func compileFilter(f Filter) (func(map[string]any) bool, error) {
	if strings.TrimSpace(f.Field) == "" {
		return nil, fmt.Errorf("firestore: field path is empty")
	}
	if !validOperator(f.Operator) {
		return nil, fmt.Errorf("%w %q: expected one of %s", ErrInvalidOperator, f.Operator, strings.Join(Operators, ", "))
	}

	var list []any
	switch f.Operator {
	case "in", "not-in", "array-contains-any":
		items, ok := asSequence(f.Value)
		if !ok {
			return nil, fmt.Errorf("firestore: operator %q requires an array value", f.Operator)
		}
		list = items
	}

	return func(data map[string]any) bool {
		v, ok := lookupField(data, f.Field)
		if !ok {
			return false
		}
		switch f.Operator {
		case "==":
			return valuesEqual(v, f.Value)
		case "!=":
			return v != nil && !valuesEqual(v, f.Value)
		case "<", "<=", ">", ">=":
			c, ok := compareValues(v, f.Value)
			if !ok {
				return false
			}
			switch f.Operator {
			case "<":
				return c < 0
			case "<=":
				return c <= 0
			case ">":
				return c > 0
			default:
				return c >= 0
			}
		case "array-contains":
			items, ok := asSequence(v)
			return ok && containsValue(items, f.Value)
		case "array-contains-any":
			items, ok := asSequence(v)
			if !ok {
				return false
			}
			for _, want := range list {
				if containsValue(items, want) {
					return true
				}
			}
			return false
		case "in":
			return containsValue(list, v)
		case "not-in":
			return v != nil && !containsValue(list, v)
		}
		return false
	}, nil
}

// lookupField resolves a dotted field path through nested mappings.
func lookupField(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asSequence(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if _, isBytes := v.([]byte); isBytes {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func containsValue(items []any, want any) bool {
	for _, item := range items {
		if valuesEqual(item, want) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if at, ok := toTime(a); ok {
		bt, ok := toTime(b)
		return ok && at.Equal(bt)
	}
	if ar, ok := a.(*firestore.DocumentRef); ok {
		br, ok := b.(*firestore.DocumentRef)
		return ok && ar != nil && br != nil && RelativePath(ar.Path) == RelativePath(br.Path)
	}
	if as, ok := asSequence(a); ok {
		bs, ok := asSequence(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valuesEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders a and b when they share a type class.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return cmpOrdered(af, bf), true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if at, ok := toTime(a); ok {
		bt, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func cmpOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
