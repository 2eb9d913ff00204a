// Package value models the untyped, ordered object tree that the ORT
// compiler accepts: a nested mapping of field names to scalars, nested
// objects, or sequences of objects. Key ordering within an Object is
// preserved because it determines the emitted column order (spec §3, §5).
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindSeq
)

// Value is a tagged variant: Null, Scalar, Object (ordered), or Seq.
type Value struct {
	kind   Kind
	scalar any
	keys   []string
	fields map[string]Value
	items  []Value
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Scalar wraps a leaf value (number, string, bool, temporal, bytes, ...).
// Its content is never inspected by compilation — only the key it is
// stored under matters (spec §4.3).
func Scalar(v any) Value { return Value{kind: KindScalar, scalar: v} }

// NewObject returns an empty ordered Object.
func NewObject() Value {
	return Value{kind: KindObject, fields: map[string]Value{}}
}

// NewSeq returns a Seq wrapping items.
func NewSeq(items []Value) Value {
	return Value{kind: KindSeq, items: items}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsSeq() bool    { return v.kind == KindSeq }
func (v Value) IsScalar() bool { return v.kind == KindScalar }

// Raw returns the wrapped scalar value, or nil if v is not a Scalar.
func (v Value) Raw() any { return v.scalar }

// Keys returns the Object's field names in insertion order. Returns nil
// for non-Objects.
func (v Value) Keys() []string { return v.keys }

// Get returns the value stored under key and whether it was present.
func (v Value) Get(key string) (Value, bool) {
	val, ok := v.fields[key]
	return val, ok
}

// Len returns the number of entries for an Object or items for a Seq.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.keys)
	case KindSeq:
		return len(v.items)
	default:
		return 0
	}
}

// Items returns the Seq's elements. Returns nil for non-Seq values.
func (v Value) Items() []Value { return v.items }

// IsEmpty reports whether an Object has no entries or a Seq has no items.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindObject:
		return len(v.keys) == 0
	case KindSeq:
		return len(v.items) == 0
	default:
		return false
	}
}

// Set appends key/val to the Object, or overwrites val in place if key is
// already present (preserving its original position).
func (v *Value) Set(key string, val Value) {
	if v.kind != KindObject {
		*v = NewObject()
	}
	if v.fields == nil {
		v.fields = map[string]Value{}
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// FromAny converts a decoded Go value (as produced by encoding/json or a
// hand-built map[string]any) into a Value. Ordering for map[string]any
// inputs is not guaranteed by Go's map iteration; callers that need exact
// key order should build the Value directly with Set, or decode JSON
// through FromJSON, which preserves source order.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case map[string]any:
		obj := NewObject()
		for k, val := range t {
			obj.Set(k, FromAny(val))
		}
		return obj
	case []any:
		items := make([]Value, len(t))
		for i, it := range t {
			items[i] = FromAny(it)
		}
		return NewSeq(items)
	default:
		return Scalar(t)
	}
}

// FromJSON decodes a JSON object or array into a Value, walking tokens so
// that Object key order matches the order keys appeared in the source
// document (encoding/json's generic map[string]any decoding does not
// preserve this, which is why this function exists).
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null(), fmt.Errorf("value: decode json: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), fmt.Errorf("value: expected object key, got %T", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Null(), err
			}
			return obj, nil
		case '[':
			var items []Value
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null(), err
			}
			return NewSeq(items), nil
		default:
			return Null(), fmt.Errorf("value: unexpected delimiter %v", t)
		}
	case nil:
		return Null(), nil
	default:
		return Scalar(t), nil
	}
}
