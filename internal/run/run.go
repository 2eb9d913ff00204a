// Package run is a teaching aid, not part of the ORT compiler's contract
// (spec §1 explicitly keeps the execution engine out of scope): it walks the
// same object tree and catalog the compiler would, but instead of emitting
// TRESQL text it drives an internal/macro.Executor directly, so a reader can
// see an insert actually happen against an in-memory table store without
// standing up a real TRESQL parser and execution engine. It covers a smaller
// slice of spec §4.4/§4.5 than the compiler does: inserts only, of the root
// row and its linked tables — see Insert's doc comment.
package run

import (
	"context"
	"fmt"

	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/macro"
	"ort/internal/normalize"
	"ort/internal/value"
)

// Insert walks v (normalized beforehand) and performs one macro.Executor.Exec
// call per table named in the descriptor: the root row first, then each
// linked one-to-one table, whose row carries only its foreign-key column,
// filled via ResolveIDRef (the _id_ref_id macro) with the root row's
// generated id. Nested object and sequence fields of v are skipped: no
// child-table rows are inserted and no lookup-edit is resolved. Returns the
// root row's generated id.
func Insert(ctx context.Context, schema *catalog.Schema, name string, v value.Value, exec macro.Executor) (any, error) {
	prop, err := descriptor.Parse(name)
	if err != nil {
		return nil, err
	}
	link := prop.Primary()

	id, err := insertRow(ctx, schema, link.Table, normalize.Normalize(v), "", exec)
	if err != nil {
		return nil, err
	}

	for _, linked := range prop.Tables[1:] {
		if _, err := insertRow(ctx, schema, linked.Table, value.NewObject(), link.Table, exec); err != nil {
			return nil, fmt.Errorf("run: linked table %q: %w", linked.Table, err)
		}
	}

	return id, nil
}

func insertRow(ctx context.Context, schema *catalog.Schema, tableName string, v value.Value, parentTable string, exec macro.Executor) (any, error) {
	table, ok := schema.TableOption(tableName)
	if !ok {
		return nil, &catalog.ErrTableNotFound{Table: tableName}
	}

	var refCols []string
	if parentTable != "" {
		fks := table.RefsTo(parentTable)
		if len(fks) == 0 {
			return nil, fmt.Errorf("run: no foreign key from %q to %q", tableName, parentTable)
		}
		if col, _, ok := fks[0].SingleColumn(); ok {
			refCols = append(refCols, col)
		}
	}

	pk, hasPK := table.SinglePK()
	refSet := make(map[string]bool, len(refCols))
	for _, c := range refCols {
		refSet[c] = true
	}
	if hasPK {
		refSet[pk] = true
	}

	var cols []string
	var vals []any
	for _, k := range v.Keys() {
		if refSet[k] {
			continue
		}
		fv, _ := v.Get(k)
		switch {
		case fv.IsSeq(), fv.IsObject() && !fv.IsEmpty():
			continue // nested fields are not inserted
		case fv.IsObject():
			continue
		default:
			col, ok := table.ColOption(k)
			if !ok {
				continue
			}
			cols = append(cols, col)
			vals = append(vals, fv.Raw())
		}
	}

	for _, col := range refCols {
		refID, err := exec.ResolveIDRef(ctx, tableName, parentTable)
		if err != nil {
			return nil, err
		}
		cols = append([]string{col}, cols...)
		vals = append([]any{refID}, vals...)
	}

	return exec.Exec(ctx, macro.Statement{Table: table.Name, Cols: cols, Vals: vals})
}

// DeleteChildren runs the _delete_children macro for a to-many field: every
// id present in keepIDs survives, every other row of table is removed.
func DeleteChildren(ctx context.Context, objName, table string, keepIDs []any, exec macro.Executor) (int64, error) {
	return exec.DeleteChildren(ctx, objName, table, macro.Statement{Table: table, Vals: keepIDs})
}
