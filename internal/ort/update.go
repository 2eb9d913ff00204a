package ort

import (
	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/tresql"
	"ort/internal/value"
)

// updateTRESQL compiles a single object tree into one or more "=table[...]"
// statements (spec §4.5). At the root of a compile (parentTable == "") the
// row is located by its own single-column primary key; as a nested child it
// is located by the foreign key(s) linking it to its parent. userFilter, when
// non-empty, is only honored at the root of a compile (never propagated to
// child recursion) and is conjoined onto the row-location filter.
func updateTRESQL(schema *catalog.Schema, tableName string, v value.Value, parentTable string, pinned []string, userFilter string) (string, error) {
	table, ok := schema.TableOption(tableName)
	if !ok {
		return "", &catalog.ErrTableNotFound{Table: tableName}
	}

	pk, hasPK := table.SinglePK()

	var refs []string
	var filter string
	if parentTable == "" {
		if !hasPK {
			return "", &ErrNoPrimaryKey{Table: table.Name}
		}
		filter = pk + " = " + tresql.Bind(pk)
	} else {
		var err error
		refs, err = resolveRefs(table, parentTable, pinned)
		if err != nil {
			return "", err
		}
		filter = refFilter(refs, parentTable, table.Name, pk)
	}
	if userFilter != "" {
		filter += " & (" + userFilter + ")"
	}

	refsAndPk := make(map[string]bool, len(refs)+1)
	for _, r := range refs {
		refsAndPk[r] = true
	}
	if hasPK {
		refsAndPk[pk] = true
	}

	cols, vals, lookupFrags, children, err := classifyFields(schema, table, v, refsAndPk)
	if err != nil {
		return "", err
	}

	childFrags, err := updateChildren(schema, table.Name, children)
	if err != nil {
		return "", err
	}

	if len(cols) == 0 && len(lookupFrags) == 0 && len(childFrags) == 0 {
		return "", &ErrNoUpdatableColumns{Table: table.Name}
	}

	var frags []string
	frags = append(frags, lookupFrags...)
	if len(cols) > 0 {
		frags = append(frags, tresql.Update(table.Name, "", filter, cols, vals))
	}
	frags = append(frags, childFrags...)

	return wrap(frags), nil
}

// updateChildren implements the child policy-selection state machine of
// spec §4.5: each to-many or one-to-one nested field is reconciled against
// its current rows by upserting one merged template per child table (the
// sequence is first folded by the Structure Normalizer, spec §4.3, §8 S2 —
// never one upsert per item) and removing rows no longer present, using the
// richest removal strategy the catalog supports.
//
// Per the worked scenarios (§8 S3), a single-column primary key on the
// child yields delete_missing: `_delete_children` collects the kept
// primary-key values under `:ids` and the delete filter excludes them with
// a `pk !in :ids` predicate, so only rows absent from the new value are
// removed. delete_all — an unconditional wipe of every row under the
// parent before reinsertion — is used only when the child has no usable
// primary key to distinguish kept rows from dropped ones. §9 flags an open
// tension here: the original source reportedly falls back to delete_all
// whenever update=false even with a PK present; this implementation
// follows the literal worked scenario instead (see DESIGN.md).
func updateChildren(schema *catalog.Schema, parentTable string, children []childField) ([]string, error) {
	var frags []string
	for _, c := range children {
		childProp, err := descriptor.Parse(c.key)
		if err != nil {
			return nil, err
		}
		link := childProp.Primary()

		childTable, ok := schema.TableOption(link.Table)
		if !ok {
			return nil, &catalog.ErrTableNotFound{Table: link.Table}
		}
		childRefs, err := resolveRefs(childTable, parentTable, link.Refs)
		if err != nil {
			return nil, err
		}
		childPK, childHasPK := childTable.SinglePK()

		var items []value.Value
		switch {
		case c.value.IsSeq():
			items = c.value.Items()
		case c.value.IsObject() && !c.value.IsEmpty():
			items = []value.Value{c.value}
		}

		alias := childProp.Alias
		if alias == "" {
			alias = c.key
		}

		if (childProp.Insert || childProp.Update) && len(items) > 0 {
			merged := normalizeMerge(items)
			expr, err := upsertChild(schema, childTable.Name, merged, parentTable, childRefs, childProp.Insert, childProp.Update, "")
			if err != nil {
				return nil, err
			}
			frags = append(frags, expr+tresql.Alias(alias))
		}

		if childProp.Delete {
			filter := refFilter(childRefs, parentTable, childTable.Name, childPK)
			if childHasPK {
				filter += " & " + tresql.NotIn(childPK, "ids")
				deleteExpr := tresql.Delete(childTable.Name, filter)
				frags = append(frags, tresql.DeleteChildrenExpr(c.key, childTable.Name, deleteExpr))
			} else {
				frags = append(frags, tresql.Delete(childTable.Name, filter))
			}
		}
	}
	return frags, nil
}

// upsertChild renders the insert and/or update half of one child row,
// wrapping both in _insert_or_update when a descriptor allows either, so
// the execution engine's runtime primary-key check (spec §4.7) governs
// which branch actually runs. filter is only meaningful for a multi-table
// compositor's root link (spec §4.6); nested children always pass "".
func upsertChild(schema *catalog.Schema, childTable string, item value.Value, parentTable string, refs []string, allowInsert, allowUpdate bool, filter string) (string, error) {
	var insertExpr, updateExpr string
	var err error

	if allowInsert {
		insertExpr, err = insertTRESQL(schema, childTable, item, parentTable, refs, filter)
		if err != nil {
			return "", err
		}
	}
	if allowUpdate {
		updateExpr, err = updateTRESQL(schema, childTable, item, parentTable, refs, filter)
		if err != nil {
			return "", err
		}
	}

	switch {
	case allowInsert && allowUpdate:
		return tresql.InsertOrUpdateExpr(childTable, insertExpr, updateExpr), nil
	case allowInsert:
		return insertExpr, nil
	default:
		return updateExpr, nil
	}
}
