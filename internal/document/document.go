// Package document holds the generic JSON document model shared by builders,
// the aggregation buffer and the writer: normalization, the provenance marker,
// deterministic encoding and the write decision.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/ohler55/ojg/oj"
)

const (
	MarkerKey   = "__comment__"
	MarkerValue = "This file was automatically created by resgen"
)

var (
	ErrNotObject = errors.New("document is not a JSON object")
	// ErrNonFinite rejects NaN and infinities, which JSON cannot represent.
	ErrNonFinite = errors.New("number is not finite")
)

// Document is an artifact body: field name to JSON-representable value.
type Document map[string]any

// Normalize converts v into the generic tree the encoder and comparator work
// on: map[string]any, []any, string, int64, float64, bool. Nil map entries and
// nil list elements are dropped. Integral floats become int64 and invalid
// UTF-8 in strings becomes U+FFFD so values survive an encode/decode round
// trip unchanged.
func Normalize(v any) (any, error) {
	if isNilValue(v) {
		return nil, nil
	}
	switch t := v.(type) {
	case Document:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[validString(k)] = validString(s)
		}
		return out, nil
	case []any:
		return normalizeSlice(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = validString(s)
		}
		return out, nil
	case []Document:
		out := make([]any, 0, len(t))
		for _, d := range t {
			if d == nil {
				continue
			}
			n, err := normalizeMap(d)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		return validString(t), nil
	case bool:
		return t, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return float64(t), nil
		}
		return int64(t), nil
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("normalize number %q: %w", t, err)
		}
		return normalizeFloat(f)
	}
	return normalizeReflect(v)
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		if n == nil {
			continue
		}
		out[validString(k)] = n
	}
	return out, nil
}

func normalizeSlice(s []any) ([]any, error) {
	out := make([]any, 0, len(s))
	for i, v := range s {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		if n == nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func normalizeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return f, nil
}

// validString matches what the encoder writes for invalid UTF-8.
func validString(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// isNilValue reports an untyped nil or a nil pointer, map or slice. Both
// count as absent.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// normalizeReflect handles typed values builders hand in (structs, typed
// slices and maps) by going through their JSON form.
func normalizeReflect(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	parsed, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	return Normalize(parsed)
}

// NormalizeDocument is Normalize for a whole document.
func NormalizeDocument(d Document) (Document, error) {
	if d == nil {
		return Document{}, nil
	}
	m, err := normalizeMap(d)
	if err != nil {
		return nil, err
	}
	return Document(m), nil
}

// Mark returns a normalized copy of d carrying the provenance marker.
func Mark(d Document) (Document, error) {
	out, err := NormalizeDocument(d)
	if err != nil {
		return nil, err
	}
	out[MarkerKey] = MarkerValue
	return out, nil
}

// HasMarker reports whether d was written by this tool.
func HasMarker(d Document) bool {
	if d == nil {
		return false
	}
	v, ok := d[MarkerKey].(string)
	return ok && v == MarkerValue
}

// Strip returns a shallow copy of d without the marker field.
func Strip(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == MarkerKey {
			continue
		}
		out[k] = v
	}
	return out
}
