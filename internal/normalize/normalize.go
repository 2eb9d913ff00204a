// Package normalize implements the Structure Normalizer (spec §4.3): it
// reduces an input object tree to a canonical shape map by collapsing
// sequences of sibling objects into a single merged template.
package normalize

import "ort/internal/value"

// Normalize reduces v to its canonical shape. For each entry (k, v) of an
// Object:
//
//   - v is an empty sequence       -> (k, {}) (empty Object)
//   - v is a sequence of Objects   -> (k, merge(map(Normalize, v)))
//   - v is an Object               -> (k, Normalize(v))
//   - otherwise                    -> (k, v) unchanged
func Normalize(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindObject:
		out := value.NewObject()
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			out.Set(k, normalizeEntry(child))
		}
		return out
	default:
		return v
	}
}

func normalizeEntry(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindSeq:
		if v.IsEmpty() {
			return value.NewObject()
		}
		normalized := make([]value.Value, len(v.Items()))
		for i, item := range v.Items() {
			normalized[i] = Normalize(item)
		}
		return Merge(normalized)
	case value.KindObject:
		return Normalize(v)
	default:
		return v
	}
}

// Merge folds a list of (already-normalized) Objects left-to-right. Only
// keys present in the head (lm[0]) Object survive the fold; the head
// establishes the template. At each key the pair (v1, v2) combines as:
//
//   - both Objects, both non-empty -> Merge([v1, v2])
//   - v1 Object non-empty, v2 not  -> v1
//   - v1 not, v2 Object non-empty  -> v2
//   - otherwise                    -> v1
func Merge(lm []value.Value) value.Value {
	if len(lm) == 0 {
		return value.NewObject()
	}

	acc := lm[0]
	for _, next := range lm[1:] {
		acc = mergePair(acc, next)
	}
	return acc
}

func mergePair(v1, v2 value.Value) value.Value {
	if !v1.IsObject() {
		return v1
	}

	out := value.NewObject()
	for _, k := range v1.Keys() {
		a, _ := v1.Get(k)
		b, bOK := v2.Get(k)
		if !bOK {
			out.Set(k, a)
			continue
		}
		out.Set(k, combine(a, b))
	}
	return out
}

func combine(a, b value.Value) value.Value {
	aObj := a.IsObject() && !a.IsEmpty()
	bObj := b.IsObject() && !b.IsEmpty()

	switch {
	case aObj && bObj:
		return Merge([]value.Value{a, b})
	case aObj && !bObj:
		return a
	case !aObj && bObj:
		return b
	default:
		return a
	}
}
