// Package mysql introspects MySQL and MariaDB information_schema metadata
// into a catalog.Schema, for callers that want the ORT compiler's catalog
// sourced live from a database rather than from a checked-in TOML file.
package mysql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ort/internal/catalog"
	"ort/internal/introspect"
)

func init() {
	introspect.Register("mysql", New)
	introspect.Register("mariadb", New)
}

type introspecter struct{}

// New returns an Introspecter for MySQL-family databases.
func New() introspect.Introspecter { return &introspecter{} }

func (introspecter) Introspect(ctx context.Context, db *sqlx.DB) (*catalog.Schema, error) {
	tableNames, err := queryTableNames(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("introspect/mysql: list tables: %w", err)
	}

	tables := make([]*catalog.Table, 0, len(tableNames))
	for _, name := range tableNames {
		t, err := introspectTable(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("introspect/mysql: table %q: %w", name, err)
		}
		tables = append(tables, t)
	}

	return catalog.NewSchema(tables), nil
}

func queryTableNames(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var names []string
	err := db.SelectContext(ctx, &names, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	return names, err
}

func introspectTable(ctx context.Context, db *sqlx.DB, name string) (*catalog.Table, error) {
	cols, err := introspectColumns(ctx, db, name)
	if err != nil {
		return nil, err
	}
	pk, err := introspectPrimaryKey(ctx, db, name)
	if err != nil {
		return nil, err
	}
	fks, err := introspectForeignKeys(ctx, db, name)
	if err != nil {
		return nil, err
	}

	return &catalog.Table{
		Name:        name,
		Columns:     cols,
		PrimaryKey:  pk,
		ForeignKeys: fks,
	}, nil
}

func introspectColumns(ctx context.Context, db *sqlx.DB, table string) ([]catalog.Column, error) {
	var names []string
	err := db.SelectContext(ctx, &names, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}

	cols := make([]catalog.Column, len(names))
	for i, n := range names {
		cols[i] = catalog.Column{Name: n}
	}
	return cols, nil
}

func introspectPrimaryKey(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	var cols []string
	err := db.SelectContext(ctx, &cols, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`, table)
	return cols, err
}

type fkRow struct {
	ConstraintName string `db:"constraint_name"`
	ColumnName     string `db:"column_name"`
	RefTable       string `db:"referenced_table_name"`
	RefColumn      string `db:"referenced_column_name"`
}

func introspectForeignKeys(ctx context.Context, db *sqlx.DB, table string) ([]catalog.ForeignKey, error) {
	var rows []fkRow
	err := db.SelectContext(ctx, &rows, `
		SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND table_name = ? AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}

	return groupForeignKeys(rows), nil
}

// groupForeignKeys folds key_column_usage rows (one per column) into one
// ForeignKey per constraint name, preserving column order within each.
func groupForeignKeys(rows []fkRow) []catalog.ForeignKey {
	order := make([]string, 0)
	byName := make(map[string]*catalog.ForeignKey)

	for _, r := range rows {
		fk, ok := byName[r.ConstraintName]
		if !ok {
			fk = &catalog.ForeignKey{RefTable: r.RefTable}
			byName[r.ConstraintName] = fk
			order = append(order, r.ConstraintName)
		}
		fk.Columns = append(fk.Columns, r.ColumnName)
		fk.RefColumns = append(fk.RefColumns, r.RefColumn)
	}

	out := make([]catalog.ForeignKey, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}
