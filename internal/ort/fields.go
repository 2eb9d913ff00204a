package ort

import (
	"ort/internal/catalog"
	"ort/internal/normalize"
	"ort/internal/tresql"
	"ort/internal/value"
)

// childField is a struct entry whose value is a nested Object or Seq: a
// child table relationship rather than a plain column.
type childField struct {
	key   string
	value value.Value
}

// classifyFields walks v's entries in order and splits them into plain
// column bindings, lookup-edit fragments (and their column bindings), and
// child-table fields to be compiled separately by the caller (spec §4.4
// step 4). refsAndPk columns are dropped — they are supplied by the
// caller from the parent linkage, not from the object.
func classifyFields(schema *catalog.Schema, table *catalog.Table, v value.Value, refsAndPk map[string]bool) (cols, vals, lookupFrags []string, children []childField, err error) {
	for _, k := range v.Keys() {
		if refsAndPk[k] {
			continue
		}
		fv, _ := v.Get(k)

		switch {
		case fv.IsSeq():
			children = append(children, childField{key: k, value: fv})

		case fv.IsObject() && !fv.IsEmpty():
			if lookupTable, ok := table.RefTableFor(k); ok {
				frag, lerr := buildLookupEdit(schema, lookupTable, k, normalize.Normalize(fv))
				if lerr != nil {
					return nil, nil, nil, nil, lerr
				}
				lookupFrags = append(lookupFrags, frag)
				if col, okc := table.ColOption(k); okc {
					cols = append(cols, col)
					vals = append(vals, table.ValueExpr(col))
				}
				continue
			}
			children = append(children, childField{key: k, value: fv})

		case fv.IsObject(): // empty object: nothing to emit
			continue

		default: // scalar or null
			col, okc := table.ColOption(k)
			if !okc {
				continue
			}
			cols = append(cols, col)
			vals = append(vals, table.ValueExpr(col))
		}
	}
	return cols, vals, lookupFrags, children, nil
}

// buildLookupEdit compiles the nested object under refCol as a lookup-edit:
// an insert-or-update of the referenced row, assigned to a bind variable
// that the enclosing statement's own column binding then references (spec
// §4.4 step 4, §4.7, scenario S6).
func buildLookupEdit(schema *catalog.Schema, lookupTable, refCol string, normalizedObj value.Value) (string, error) {
	insertFrag, err := insertTRESQL(schema, lookupTable, normalizedObj, "", nil, "")
	if err != nil {
		return "", err
	}

	tbl, ok := schema.TableOption(lookupTable)
	if !ok {
		return "", &catalog.ErrTableNotFound{Table: lookupTable}
	}
	pk, hasPK := tbl.SinglePK()

	updateFrag, err := updateTRESQL(schema, lookupTable, normalizedObj, "", nil, "")
	if err != nil {
		return "", err
	}

	pkName := ""
	if hasPK {
		pkName = pk
	}
	return tresql.BindAssign(refCol, tresql.LookupEditExpr(refCol, pkName, insertFrag, updateFrag)), nil
}

// wrap joins a non-empty set of top-level statement fragments into the
// bracketed list form used whenever more than one statement must execute
// together (spec §4.4 step 8).
func wrap(frags []string) string {
	switch len(frags) {
	case 0:
		return ""
	case 1:
		return frags[0]
	default:
		out := "["
		for i, f := range frags {
			if i > 0 {
				out += ", "
			}
			out += f
		}
		return out + "]"
	}
}
