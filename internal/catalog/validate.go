package catalog

import "fmt"

// Validate checks a Schema's internal consistency: every foreign key's
// target table and columns must exist in the catalog, and every foreign
// key's own columns must exist on the declaring table. It does not require
// a primary key on every table — absent/composite PKs are a valid, if
// policy-limiting, catalog state (spec §3 invariant 3) — but it reports a
// table with no primary key at all, so "ort schema validate" can flag it
// before a compile discovers the limitation the hard way. A composite
// primary key is not reported. It also reports primary-key columns that are
// not declared among the table's columns.
func Validate(s *Schema) []string {
	var problems []string

	for _, t := range s.Tables() {
		if len(t.PrimaryKey) == 0 {
			problems = append(problems, fmt.Sprintf("table %q: no primary key declared", t.Name))
		}
		for _, pkCol := range t.PrimaryKey {
			if _, ok := t.index()[pkCol]; !ok {
				problems = append(problems, fmt.Sprintf("table %q: primary key column %q is not declared among its columns", t.Name, pkCol))
			}
		}

		for _, fk := range t.ForeignKeys {
			for _, col := range fk.Columns {
				if _, ok := t.index()[col]; !ok {
					problems = append(problems, fmt.Sprintf("table %q: foreign key column %q is not declared among its columns", t.Name, col))
				}
			}

			refTable, ok := s.TableOption(fk.RefTable)
			if !ok {
				problems = append(problems, fmt.Sprintf("table %q: foreign key references unknown table %q", t.Name, fk.RefTable))
				continue
			}
			for _, refCol := range fk.RefColumns {
				if _, ok := refTable.index()[refCol]; !ok {
					problems = append(problems, fmt.Sprintf("table %q: foreign key references unknown column %q.%q", t.Name, fk.RefTable, refCol))
				}
			}
		}
	}

	return problems
}
