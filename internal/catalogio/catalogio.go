// Package catalogio loads a relational Schema from a TOML catalog file: a
// hand-maintained or checked-in snapshot of the tables the ORT compiler is
// allowed to consult, as an alternative to live introspection.
package catalogio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"ort/internal/catalog"
)

// schemaFile is the top-level TOML document: a flat list of tables, each
// carrying its columns, primary key, and foreign keys.
type schemaFile struct {
	Tables []tomlTable `toml:"tables"`
}

type tomlTable struct {
	Name        string          `toml:"name"`
	Columns     []tomlColumn    `toml:"columns"`
	PrimaryKey  []string        `toml:"primary_key"`
	ForeignKeys []tomlForeignKey `toml:"foreign_keys"`
}

type tomlColumn struct {
	Name      string `toml:"name"`
	ValueExpr string `toml:"value_expr"`
}

type tomlForeignKey struct {
	Columns    []string `toml:"columns"`
	RefTable   string   `toml:"ref_table"`
	RefColumns []string `toml:"ref_columns"`
}

// Load reads path and parses it as a TOML catalog.
func Load(path string) (*catalog.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogio: open file %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads TOML content from r and converts it to a catalog.Schema.
func Parse(r io.Reader) (*catalog.Schema, error) {
	var sf schemaFile
	if _, err := toml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("catalogio: decode error: %w", err)
	}
	return convert(&sf), nil
}

func convert(sf *schemaFile) *catalog.Schema {
	tables := make([]*catalog.Table, 0, len(sf.Tables))
	for _, t := range sf.Tables {
		tables = append(tables, convertTable(t))
	}
	return catalog.NewSchema(tables)
}

// Render serializes schema back into the same TOML catalog format Parse
// reads, for "ort introspect" to print a live-discovered schema as a
// checked-in-able catalog file.
func Render(schema *catalog.Schema) string {
	sf := schemaFile{}
	for _, t := range schema.Tables() {
		sf.Tables = append(sf.Tables, renderTable(t))
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sf); err != nil {
		// Encoding a schema built entirely of plain strings/slices cannot
		// fail; a non-nil error here means toml itself is broken.
		panic(fmt.Sprintf("catalogio: render: %v", err))
	}
	return buf.String()
}

func renderTable(t *catalog.Table) tomlTable {
	cols := make([]tomlColumn, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, tomlColumn{Name: c.Name, ValueExpr: c.ValueExpr})
	}

	fks := make([]tomlForeignKey, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		fks = append(fks, tomlForeignKey{
			Columns:    fk.Columns,
			RefTable:   fk.RefTable,
			RefColumns: fk.RefColumns,
		})
	}

	return tomlTable{
		Name:        t.Name,
		Columns:     cols,
		PrimaryKey:  t.PrimaryKey,
		ForeignKeys: fks,
	}
}

func convertTable(t tomlTable) *catalog.Table {
	cols := make([]catalog.Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, catalog.Column{Name: c.Name, ValueExpr: c.ValueExpr})
	}

	fks := make([]catalog.ForeignKey, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		fks = append(fks, catalog.ForeignKey{
			Columns:    fk.Columns,
			RefTable:   fk.RefTable,
			RefColumns: fk.RefColumns,
		})
	}

	return &catalog.Table{
		Name:        t.Name,
		Columns:     cols,
		PrimaryKey:  t.PrimaryKey,
		ForeignKeys: fks,
	}
}
