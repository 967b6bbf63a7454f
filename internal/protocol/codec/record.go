package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
)

// Record maps field names to values and remembers insertion order.
// Setting a name that already exists replaces its value and keeps its
// original position.
//
// Decode produces these value types: uint8, int16, uint16, int32, uint32,
// int64, uint64, float64, string and []byte.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return newRecord(0)
}

func newRecord(capacity int) *Record {
	return &Record{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// RecordFromMap copies m into a record. Keys are ordered lexically since a
// Go map has no order of its own.
func RecordFromMap(m map[string]any) *Record {
	r := newRecord(len(m))
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		r.Set(k, m[k])
	}
	return r
}

// Set stores v under name and returns r. The zero Record is ready to use.
func (r *Record) Set(name string, v any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
	return r
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Map returns a shallow copy of the record as a plain map.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same names and values. Order
// is not compared; []byte values are compared by content.
func (r *Record) Equal(o *Record) bool {
	if r.Len() != o.Len() {
		return false
	}
	for _, k := range r.Keys() {
		a, _ := r.Get(k)
		b, ok := o.Get(k)
		if !ok || !valueEqual(a, b) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if aok || bok {
		return aok && bok && bytes.Equal(ab, bb)
	}
	return reflect.DeepEqual(a, b)
}

// Field returns the value stored under name as a T. It fails with
// ErrMissingField or ErrValueType.
func Field[T any](r *Record, name string) (T, error) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T, want %T", ErrValueType, name, v, zero)
	}
	return t, nil
}
