// Package macro defines the runtime contract for the four macro calls the
// ORT compiler emits (_id_ref_id, _lookup_edit, _insert_or_update,
// _delete_children) and ships an in-memory reference implementation used
// by tests and the "ort run" demo command. A real execution engine backs
// these against the actual database instead.
package macro

import "context"

// IDRefResolver resolves a previously generated row id for idName,
// correlated to the statement that produced it under idRefName. Backs the
// _id_ref_id macro.
type IDRefResolver interface {
	ResolveIDRef(ctx context.Context, idRefName, idName string) (any, error)
}

// LookupEditor inserts or updates a lookup-table row and returns its
// primary key. Backs the _lookup_edit macro.
type LookupEditor interface {
	LookupEdit(ctx context.Context, table, pkCol string, insert, update Statement) (any, error)
}

// InsertOrUpdater picks the insert or update branch for a row depending on
// whether its primary key is already known. Backs the _insert_or_update
// macro.
type InsertOrUpdater interface {
	InsertOrUpdate(ctx context.Context, table string, insert, update Statement) (any, error)
}

// ChildDeleter removes child rows of objName/table that were present
// before a save but are no longer named among the kept ids. Backs the
// _delete_children macro.
type ChildDeleter interface {
	DeleteChildren(ctx context.Context, objName, table string, del Statement) (int64, error)
}

// Statement is an already-bound (table, filter/column/value) fragment an
// Executor can run; how it is represented is up to the execution engine.
// The compiler itself never constructs one — it only emits the DSL text
// that a real engine would parse into this shape.
type Statement struct {
	Table  string
	Filter string
	Cols   []string
	Vals   []any
}

// Executor composes all four macro contracts, plus plain Exec for the
// non-macro insert/update/delete statements the compiler also emits.
type Executor interface {
	IDRefResolver
	LookupEditor
	InsertOrUpdater
	ChildDeleter
	Exec(ctx context.Context, stmt Statement) (any, error)
}
