package ort

import (
	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/normalize"
	"ort/internal/tresql"
	"ort/internal/value"
)

// insertTRESQL compiles a single object tree into one or more "+table{...}"
// statements (spec §4.4). parentTable and pinned describe the link back to
// an enclosing row, if any; both are empty at the root of a compile. filter,
// when non-empty, is only honored at the root of a compile (it is never
// propagated down to child/linked-table recursion, per spec §4.4 step 7) and
// switches the root statement to the correlated select-from-filter variant.
func insertTRESQL(schema *catalog.Schema, tableName string, v value.Value, parentTable string, pinned []string, filter string) (string, error) {
	table, ok := schema.TableOption(tableName)
	if !ok {
		return "", &catalog.ErrTableNotFound{Table: tableName}
	}

	refs, err := resolveRefs(table, parentTable, pinned)
	if err != nil {
		return "", err
	}
	pk, _ := table.SinglePK()

	refsAndPk := make(map[string]bool, len(refs))
	for _, r := range refs {
		refsAndPk[r] = true
	}

	cols, vals, lookupFrags, children, err := classifyFields(schema, table, v, refsAndPk)
	if err != nil {
		return "", err
	}

	if len(refs) > 0 {
		refCols := make([]string, len(refs))
		refVals := make([]string, len(refs))
		for i, r := range refs {
			refCols[i] = r
			refVals[i] = refBindExpr(parentTable, r, table.Name, pk)
		}
		cols = append(refCols, cols...)
		vals = append(refVals, vals...)
	}

	var frags []string
	frags = append(frags, lookupFrags...)
	if filter == "" {
		frags = append(frags, tresql.Insert(table.Name, cols, vals))
	} else {
		frags = append(frags, tresql.CorrelatedInsert(table.Name, cols, vals, table.Name, filter))
	}

	childFrags, err := insertChildren(schema, table.Name, children)
	if err != nil {
		return "", err
	}
	frags = append(frags, childFrags...)

	return wrap(frags), nil
}

// insertChildren compiles every nested object/seq field of a row being
// inserted into one statement per child table, correlated back to the
// parent via the field's descriptor (spec §4.4 step 5). A to-many sequence
// is first reduced by the Structure Normalizer to a single merged template
// (spec §4.3, §8 S2) before compilation, so a child table yields exactly
// one fragment regardless of how many sibling rows the input carried — the
// execution engine re-walks the original sequence to run that template once
// per actual row. A child descriptor with its insert option turned off is
// skipped entirely.
func insertChildren(schema *catalog.Schema, parentTable string, children []childField) ([]string, error) {
	var frags []string
	for _, c := range children {
		childProp, err := descriptor.Parse(c.key)
		if err != nil {
			return nil, err
		}
		if !childProp.Insert {
			continue
		}
		link := childProp.Primary()

		var items []value.Value
		switch {
		case c.value.IsSeq():
			items = c.value.Items()
		case c.value.IsObject() && !c.value.IsEmpty():
			items = []value.Value{c.value}
		}
		if len(items) == 0 {
			continue
		}

		alias := childProp.Alias
		if alias == "" {
			alias = c.key
		}

		merged := normalizeMerge(items)
		expr, err := insertTRESQL(schema, link.Table, merged, parentTable, link.Refs, "")
		if err != nil {
			return nil, err
		}
		frags = append(frags, expr+tresql.Alias(alias))
	}
	return frags, nil
}

// normalizeMerge normalizes each of items and folds them into the single
// merged template the Structure Normalizer produces for a to-many field
// (spec §4.3).
func normalizeMerge(items []value.Value) value.Value {
	normalized := make([]value.Value, len(items))
	for i, item := range items {
		normalized[i] = normalize.Normalize(item)
	}
	return normalize.Merge(normalized)
}
