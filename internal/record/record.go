// Package record converts host records into plain field maps.
//
// Conversion never mutates the source record: every call returns a fresh map
// the caller is free to modify.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNotObject is returned when a record does not serialize to an object.
var ErrNotObject = errors.New("record: value is not an object")

// Mapper is implemented by records that expose their own field map.
type Mapper interface {
	ToMap() map[string]any
}

// Fields returns the fields of v keyed by their serialized names.
//
// Maps and Mappers are copied. Any other value is converted through its JSON
// form, so `json` struct tags, custom marshalers and `json:"-"` are honored.
// Integral numbers are decoded as int64, or uint64 above the int64 range,
// and other numbers as float64. Integers wider than 64 bits stay json.Number.
func Fields(v any) (map[string]any, error) {
	switch r := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotObject)
	case map[string]any:
		return maps.Clone(r), nil
	case Mapper:
		m := r.ToMap()
		if m == nil {
			return map[string]any{}, nil
		}
		return maps.Clone(m), nil
	}
	if IsNil(v) {
		return nil, fmt.Errorf("%w: nil %T", ErrNotObject, v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record: marshal %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("record: decode %T: %w", v, err)
	}
	m, ok := normalize(out).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotObject, v)
	}
	return m, nil
}

// Field returns a single field of v.
func Field(v any, name string) (any, bool, error) {
	switch r := v.(type) {
	case map[string]any:
		f, ok := r[name]
		return f, ok, nil
	case Mapper:
		f, ok := r.ToMap()[name]
		return f, ok, nil
	}
	m, err := Fields(v)
	if err != nil {
		return nil, false, err
	}
	f, ok := m[name]
	return f, ok, nil
}

// IsNil reports whether v is nil or a nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// TypeOf returns the dereferenced Go type of v.
func TypeOf(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Collection returns the elements of v and true when v is a slice or array.
// Byte slices are not collections.
func Collection(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if !strings.ContainsAny(t.String(), ".eE") {
			// Integers beyond 64 bits are kept verbatim.
			return t
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	}
	return v
}
