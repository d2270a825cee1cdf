package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap is a string-keyed map that remembers the order keys were first
// set. Payload objects are decoded into OrderedMap values so that "natural
// order" means the order fields appear in the source document. A nil
// *OrderedMap reads as empty.
type OrderedMap[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// Object is a decoded JSON object.
type Object = OrderedMap[any]

// Counts is a flat label→number mapping.
type Counts = OrderedMap[float64]

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{m: orderedmap.New[string, V]()}
}

// Set stores v under key. Re-setting a key keeps its original position.
func (o *OrderedMap[V]) Set(key string, v V) {
	if o.m == nil {
		o.m = orderedmap.New[string, V]()
	}
	o.m.Set(key, v)
}

func (o *OrderedMap[V]) Get(key string) (V, bool) {
	if o == nil || o.m == nil {
		var zero V
		return zero, false
	}
	return o.m.Get(key)
}

func (o *OrderedMap[V]) Keys() []string {
	var keys []string
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

func (o *OrderedMap[V]) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

// All iterates over the entries in order.
func (o *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if o == nil || o.m == nil {
			return
		}
		for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// ParseObject decodes a JSON document whose top-level value is an object.
// Nested objects become *Object, arrays []any and numbers json.Number.
func ParseObject(data []byte) (*Object, error) {
	if !json.Valid(data) {
		return nil, newError(InvalidInput, "decoding JSON: malformed document")
	}
	v, err := decodeRaw(data)
	if err != nil {
		return nil, newError(InvalidInput, "decoding JSON: %v", err)
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, newError(InvalidInput, "top-level value is %s, not an object", describe(v))
	}
	return obj, nil
}

// decodeRaw decodes one valid JSON value, keeping object key order at every
// depth.
func decodeRaw(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '{':
		fields := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(raw, fields); err != nil {
			return nil, err
		}
		obj := NewOrderedMap[any]()
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			v, err := decodeRaw(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pair.Key, err)
			}
			obj.Set(pair.Key, v)
		}
		return obj, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		arr := make([]any, len(items))
		for i, item := range items {
			v, err := decodeRaw(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// CountsFrom validates that v is a flat label→number mapping.
// Accepted inputs are *Object, *Counts and map[string]float64 (which has no
// natural order, so its labels are sorted).
func CountsFrom(v any) (*Counts, error) {
	switch m := v.(type) {
	case *Counts:
		if m == nil {
			return nil, newError(InvalidInput, "missing mapping")
		}
		return m, nil
	case *Object:
		if m == nil {
			return nil, newError(InvalidInput, "missing mapping")
		}
		counts := NewOrderedMap[float64]()
		for label, raw := range m.All() {
			f, ok := toFloat(raw)
			if !ok {
				return nil, newError(InvalidInput, "label %q holds %s, not a number", label, describe(raw))
			}
			counts.Set(label, f)
		}
		return counts, nil
	case map[string]float64:
		counts := NewOrderedMap[float64]()
		for _, k := range slices.Sorted(maps.Keys(m)) {
			counts.Set(k, m[k])
		}
		return counts, nil
	case nil:
		return nil, newError(InvalidInput, "missing mapping")
	default:
		return nil, newError(InvalidInput, "expected a label→number mapping, got %s", describe(v))
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Object:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number, float64, float32, int, int64, uint64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
