package ort

import (
	"ort/internal/catalog"
	"ort/internal/tresql"
)

// resolveRefs implements spec §3 invariant 2: the set of columns on child
// that reference parentTable, chosen by three rules in strict order:
//
//  1. descriptor-pinned refs, accepted only if every pinned column is
//     actually a foreign key to parentTable;
//  2. a single single-column FK from the catalog;
//  3. otherwise, compile fails with ErrAmbiguousReference.
//
// parentTable == "" (no parent) always yields (nil, nil).
func resolveRefs(child *catalog.Table, parentTable string, pinned []string) ([]string, error) {
	if parentTable == "" {
		return nil, nil
	}

	fks := child.RefsTo(parentTable)

	if len(pinned) > 0 {
		for _, col := range pinned {
			if !pinnedColIsFK(fks, col) {
				return nil, &ErrAmbiguousReference{
					Table: child.Name, Parent: parentTable,
					Reason: "pinned column " + col + " is not a foreign key to the parent table",
				}
			}
		}
		return pinned, nil
	}

	var singleCols []string
	for _, fk := range fks {
		if col, _, ok := fk.SingleColumn(); ok {
			singleCols = append(singleCols, col)
		}
	}

	switch len(dedupe(singleCols)) {
	case 0:
		return nil, &ErrAmbiguousReference{
			Table: child.Name, Parent: parentTable,
			Reason: "no single-column foreign key found and none was pinned",
		}
	case 1:
		return []string{singleCols[0]}, nil
	default:
		return nil, &ErrAmbiguousReference{
			Table: child.Name, Parent: parentTable,
			Reason: "more than one single-column foreign key candidate; pin one explicitly",
		}
	}
}

func pinnedColIsFK(fks []catalog.ForeignKey, col string) bool {
	for _, fk := range fks {
		for _, c := range fk.Columns {
			if c == col {
				return true
			}
		}
	}
	return false
}

func dedupe(ss []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// refBindExpr renders the bind-form for a ref column r linking a child row
// to parentTable: _id_ref_id(parentTable, thisTable) when r is also the
// child's own PK (the one-to-one same-key case), otherwise the plain id
// reference :#parentTable.
func refBindExpr(parentTable, r, thisTable, pk string) string {
	if pk != "" && r == pk {
		return tresql.IDRefIDExpr(parentTable, thisTable)
	}
	return tresql.IDRef(parentTable)
}

// refFilter renders the conjunction r1 = v1 & r2 = v2 & ... used by update
// and delete-missing/delete-all fragments (spec §4.5).
func refFilter(refs []string, parentTable, thisTable, pk string) string {
	out := ""
	for i, r := range refs {
		if i > 0 {
			out += " & "
		}
		out += r + " = " + refBindExpr(parentTable, r, thisTable, pk)
	}
	return out
}
