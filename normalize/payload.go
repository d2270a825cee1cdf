package normalize

import (
	"strings"
)

// Payload is the analytics document for one contact. Fields are looked up by
// path and validated by the extractor that needs them, so a malformed field
// only affects the charts built from it.
type Payload struct {
	root *Object
}

func NewPayload() *Payload {
	return &Payload{root: NewOrderedMap[any]()}
}

func ParsePayload(data []byte) (*Payload, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	return &Payload{root: obj}, nil
}

// Merge copies the top-level fields of obj into the payload, replacing
// fields that already exist.
func (p *Payload) Merge(obj *Object) {
	for k, v := range obj.All() {
		p.root.Set(k, v)
	}
}

// Fields returns the top-level field names in document order.
func (p *Payload) Fields() []string {
	return p.root.Keys()
}

// Lookup walks path through nested objects.
func (p *Payload) Lookup(path ...string) (any, error) {
	var cur any = p.root
	for i, key := range path {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, newError(InvalidInput, "%s is %s, not an object", strings.Join(path[:i], "."), describe(cur))
		}
		v, ok := obj.Get(key)
		if !ok {
			return nil, newError(InvalidInput, "missing field %s", strings.Join(path[:i+1], "."))
		}
		cur = v
	}
	return cur, nil
}

// Object looks up path and requires an object there.
func (p *Payload) Object(path ...string) (*Object, error) {
	v, err := p.Lookup(path...)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, newError(InvalidInput, "%s is %s, not an object", strings.Join(path, "."), describe(v))
	}
	return obj, nil
}

// Array looks up path and requires an array there.
func (p *Payload) Array(path ...string) ([]any, error) {
	v, err := p.Lookup(path...)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, newError(InvalidInput, "%s is %s, not an array", strings.Join(path, "."), describe(v))
	}
	return arr, nil
}

// Number looks up path and requires a number there.
func (p *Payload) Number(path ...string) (float64, error) {
	v, err := p.Lookup(path...)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, newError(InvalidInput, "%s is %s, not a number", strings.Join(path, "."), describe(v))
	}
	return f, nil
}

// Counts looks up path and requires a flat label→number mapping there.
func (p *Payload) Counts(path ...string) (*Counts, error) {
	v, err := p.Lookup(path...)
	if err != nil {
		return nil, err
	}
	counts, err := CountsFrom(v)
	if err != nil {
		return nil, newError(InvalidInput, "%s: %s", strings.Join(path, "."), err.(*Error).Detail)
	}
	return counts, nil
}
