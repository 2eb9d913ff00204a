// Package catalog is the Schema Probe (spec §4.2): a thin, read-only
// adapter over a relational metadata snapshot. It is consulted by the
// insert/update compilers to resolve table names to columns, discover
// primary keys, and disambiguate foreign-key references between a child
// table and its parent.
//
// A Schema is built once per compile (or reused across compiles, since it
// is immutable) either from a TOML catalog file (internal/catalogio) or
// from live introspection (internal/introspect/...).
package catalog

import (
	"fmt"
	"sort"
)

// Column is one column of a Table, as far as the ORT compiler needs to
// know about it: its canonical name and an optional bind-form override
// (primary-key membership is recorded on Table.PrimaryKey). Unlike a DDL-generation catalog, it carries no
// storage/charset/collation options — those belong to a schema-migration
// tool, not to this compiler.
type Column struct {
	Name string
	// ValueExpr overrides the default ":col" bind-form for this column.
	// Empty means use the default.
	ValueExpr string
}

// ForeignKey describes a single foreign key from a Table to another table.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// SingleColumn reports whether fk is a single-column FK, and returns that
// column and its single referenced column.
func (fk ForeignKey) SingleColumn() (col, refCol string, ok bool) {
	if len(fk.Columns) == 1 && len(fk.RefColumns) == 1 {
		return fk.Columns[0], fk.RefColumns[0], true
	}
	return "", "", false
}

// Table is one table's metadata, as consumed by the Schema Probe contract
// of spec §4.2.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string // ordered; empty, single, or composite
	ForeignKeys []ForeignKey

	colIndex map[string]*Column
}

func (t *Table) index() map[string]*Column {
	if t.colIndex != nil {
		return t.colIndex
	}
	idx := make(map[string]*Column, len(t.Columns))
	for i := range t.Columns {
		idx[t.Columns[i].Name] = &t.Columns[i]
	}
	t.colIndex = idx
	return idx
}

// ColOption returns the canonical column name for fieldName, or ("", false)
// when the table has no such column. Unknown fields are not an error —
// callers drop them silently (spec §4.4 step 4, §7).
func (t *Table) ColOption(fieldName string) (string, bool) {
	if _, ok := t.index()[fieldName]; ok {
		return fieldName, true
	}
	return "", false
}

// ValueExpr returns the DSL bind-form for a column: ":col" by default, or
// the column's host-configured override.
func (t *Table) ValueExpr(col string) string {
	if c, ok := t.index()[col]; ok && c.ValueExpr != "" {
		return c.ValueExpr
	}
	return ":" + col
}

// SinglePK returns the table's single-column primary key name, or
// ("", false) when the PK is absent or composite (spec §3 invariant 3).
func (t *Table) SinglePK() (string, bool) {
	if len(t.PrimaryKey) == 1 {
		return t.PrimaryKey[0], true
	}
	return "", false
}

// RefsTo returns every foreign key declared on t that targets parentTable.
func (t *Table) RefsTo(parentTable string) []ForeignKey {
	var out []ForeignKey
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == parentTable {
			out = append(out, fk)
		}
	}
	return out
}

// RefTableFor returns the table referenced by a single-column foreign key
// on exactly the given column, for use by the lookup-edit rule of §4.4
// step 4 ("check refTable[[n]]"). Returns ("", false) when no such
// single-column FK exists.
func (t *Table) RefTableFor(col string) (string, bool) {
	for _, fk := range t.ForeignKeys {
		if c, _, ok := fk.SingleColumn(); ok && c == col {
			return fk.RefTable, true
		}
	}
	return "", false
}

// Schema is an immutable collection of Tables, keyed by name.
type Schema struct {
	tables map[string]*Table
}

// NewSchema builds a Schema from a list of tables.
func NewSchema(tables []*Table) *Schema {
	s := &Schema{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// TableOption returns the metadata for name, or (nil, false) when no such
// table is in the catalog (spec §4.2, §3 invariant 1).
func (s *Schema) TableOption(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns every table in the catalog, ordered by name, for callers
// that need to walk the whole schema (catalog I/O, validation).
func (s *Schema) Tables() []*Table {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Table, len(names))
	for i, name := range names {
		out[i] = s.tables[name]
	}
	return out
}

// ErrTableNotFound is returned when a descriptor's primary table has no
// catalog entry.
type ErrTableNotFound struct{ Table string }

func (e *ErrTableNotFound) Error() string {
	return fmt.Sprintf("catalog: table %q not found", e.Table)
}
