package ort

import (
	"fmt"

	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/tresql"
)

// DeleteByID implements spec §6's delete(name, id, filter?, filterParams?)
// entry point: deletes a single row of a single table by its primary key
// value, optionally conjoined with a caller-supplied raw filter expression
// that uses positional "?" placeholders (scenario S4). Unlike every other
// entry point in this package, the row is located by a bare scalar rather
// than read out of an object, so the id itself also needs a bind position —
// it is always position 1, and filterParams's own keys name the remaining
// positions exactly as the caller intends them to be bound.
//
// DeleteByID only supports single-table descriptors; a "#"-linked chain
// returns an error, since spec §6's delete(name, id, ...) signature has no
// way to supply per-link filters or multiple ids.
func DeleteByID(schema *catalog.Schema, name string, id any, filter string, filterParams map[string]any) (string, map[string]any, error) {
	prop, err := descriptor.Parse(name)
	if err != nil {
		return "", nil, err
	}
	if len(prop.Tables) != 1 {
		return "", nil, fmt.Errorf("ort: delete(%q, id, ...) only supports a single-table descriptor", name)
	}

	link := prop.Primary()
	table, ok := schema.TableOption(link.Table)
	if !ok {
		return "", nil, &catalog.ErrTableNotFound{Table: link.Table}
	}
	pk, hasPK := table.SinglePK()
	if !hasPK {
		return "", nil, &ErrNoPrimaryKey{Table: table.Name}
	}

	bindings := map[string]any{"1": id}
	for k, v := range filterParams {
		bindings[k] = v
	}

	whereExpr := pk + " = " + tresql.Placeholder()
	if filter != "" {
		whereExpr += " & (" + filter + ")"
	}

	return tresql.Delete(table.Name, whereExpr), bindings, nil
}
