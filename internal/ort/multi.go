package ort

import (
	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/tresql"
	"ort/internal/value"
)

// compileChain folds a descriptor's table chain (spec §4.6, the "#"-joined
// form such as "emp#car") into one statement per linked table, each
// correlated to the previous table as its parent. Exactly one of
// insertOp/updateOp/deleteOp selects which compiler runs at every link;
// insertOp and updateOp together run both, combined through
// _insert_or_update exactly as a child field would be. filter is honored
// only at the chain's first link, matching the public entry points'
// single optional filter argument (spec §6).
func compileChain(schema *catalog.Schema, links []descriptor.TableLink, v value.Value, insertOp, updateOp, deleteOp bool, filter string) (string, error) {
	var frags []string
	parentTable := ""

	for _, link := range links {
		var expr string
		var err error
		linkFilter := ""
		if parentTable == "" {
			linkFilter = filter
		}

		switch {
		case deleteOp:
			expr, err = deleteTRESQL(schema, link.Table, v, parentTable, link.Refs)
		case insertOp || updateOp:
			table, ok := schema.TableOption(link.Table)
			if !ok {
				return "", &catalog.ErrTableNotFound{Table: link.Table}
			}
			refs, rerr := resolveRefs(table, parentTable, link.Refs)
			if rerr != nil {
				return "", rerr
			}
			expr, err = upsertChild(schema, link.Table, v, parentTable, refs, insertOp, updateOp, linkFilter)
		default:
			continue
		}
		if err != nil {
			return "", err
		}
		frags = append(frags, expr)
		parentTable = link.Table
	}

	return wrap(frags), nil
}

// deleteTRESQL renders a plain "-table[filter]" statement: filtered by the
// table's own primary key at the root of a compile, or by the foreign
// key(s) linking it to parentTable otherwise.
func deleteTRESQL(schema *catalog.Schema, tableName string, v value.Value, parentTable string, pinned []string) (string, error) {
	table, ok := schema.TableOption(tableName)
	if !ok {
		return "", &catalog.ErrTableNotFound{Table: tableName}
	}
	pk, hasPK := table.SinglePK()

	var filter string
	if parentTable == "" {
		if !hasPK {
			return "", &ErrNoPrimaryKey{Table: table.Name}
		}
		filter = pk + " = " + tresql.Bind(pk)
	} else {
		refs, err := resolveRefs(table, parentTable, pinned)
		if err != nil {
			return "", err
		}
		filter = refFilter(refs, parentTable, table.Name, pk)
	}

	return tresql.Delete(table.Name, filter), nil
}
