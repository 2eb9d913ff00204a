// Package postgres introspects PostgreSQL catalog metadata (via
// information_schema, the same SQL-standard views the mysql introspecter
// reads) into a catalog.Schema.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ort/internal/catalog"
	"ort/internal/introspect"
)

func init() {
	introspect.Register("postgres", New)
	introspect.Register("postgresql", New)
}

type introspecter struct{}

// New returns an Introspecter for PostgreSQL.
func New() introspect.Introspecter { return &introspecter{} }

func (introspecter) Introspect(ctx context.Context, db *sqlx.DB) (*catalog.Schema, error) {
	tableNames, err := queryTableNames(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("introspect/postgres: list tables: %w", err)
	}

	tables := make([]*catalog.Table, 0, len(tableNames))
	for _, name := range tableNames {
		t, err := introspectTable(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("introspect/postgres: table %q: %w", name, err)
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
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
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
		WHERE table_schema = 'public' AND table_name = $1
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
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = 'public' AND tc.table_name = $1 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`, table)
	return cols, err
}

type fkRow struct {
	ConstraintName string `db:"constraint_name"`
	ColumnName     string `db:"column_name"`
	RefTable       string `db:"ref_table"`
	RefColumn      string `db:"ref_column"`
}

func introspectForeignKeys(ctx context.Context, db *sqlx.DB, table string) ([]catalog.ForeignKey, error) {
	var rows []fkRow
	err := db.SelectContext(ctx, &rows, `
		SELECT
			tc.constraint_name AS constraint_name,
			kcu.column_name    AS column_name,
			ccu.table_name     AS ref_table,
			ccu.column_name    AS ref_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
		WHERE tc.table_schema = 'public' AND tc.table_name = $1 AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}

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
	return out, nil
}
