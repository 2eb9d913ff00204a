package ort

import "fmt"

// ErrNoUpdatableColumns is returned when an update compile produced no
// columns to set (spec §7).
type ErrNoUpdatableColumns struct{ Table string }

func (e *ErrNoUpdatableColumns) Error() string {
	return fmt.Sprintf("ort: table %q: update produced no updatable columns", e.Table)
}

// ErrAmbiguousReference is returned when more than one single-column
// foreign key links a child to its parent and the descriptor did not pin
// one, or when the only candidate foreign keys are multi-column (spec §7).
type ErrAmbiguousReference struct {
	Table, Parent string
	Reason        string
}

func (e *ErrAmbiguousReference) Error() string {
	return fmt.Sprintf("ort: cannot resolve reference from %q to %q: %s", e.Table, e.Parent, e.Reason)
}

// ErrNoPrimaryKey is returned when an operation that requires a
// single-column primary key (delete by id, or a root-level update) is
// invoked on a table whose primary key is absent or composite (spec §7).
type ErrNoPrimaryKey struct{ Table string }

func (e *ErrNoPrimaryKey) Error() string {
	return fmt.Sprintf("ort: table %q has no single-column primary key", e.Table)
}

// ErrShapeError is returned when a macro expects the environment bound
// under a name to be a particular shape — an object for _lookup_edit, a
// sequence for _delete_children — and finds otherwise. The compiler never
// raises it itself; it is surfaced at execution time by an Executor (spec
// §4.7, §7).
type ErrShapeError struct {
	Name     string
	Expected string // "object" or "sequence"
}

func (e *ErrShapeError) Error() string {
	return fmt.Sprintf("ort: %q: expected bound value to be a %s", e.Name, e.Expected)
}
