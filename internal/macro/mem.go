package macro

import (
	"context"
	"fmt"
	"sync"

	"ort/internal/ort"
)

// MemExecutor is an in-memory Executor backed by plain Go maps, keyed by
// table name then by primary key value. It exists for tests and the demo
// CLI command, not for production use: no transactions, no concurrency
// isolation beyond a single mutex.
type MemExecutor struct {
	mu     sync.Mutex
	tables map[string]map[any]map[string]any
	seq    int64
}

// NewMemExecutor returns an empty MemExecutor.
func NewMemExecutor() *MemExecutor {
	return &MemExecutor{tables: make(map[string]map[any]map[string]any)}
}

func (m *MemExecutor) rows(table string) map[any]map[string]any {
	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[any]map[string]any)
		m.tables[table] = rows
	}
	return rows
}

func (m *MemExecutor) nextID() int64 {
	m.seq++
	return m.seq
}

// Exec inserts a new row under a freshly generated id when Filter is empty.
// With a non-empty Filter it writes Cols/Vals into one arbitrary existing
// row of the table and returns that row's id; the filter text is not
// evaluated, and Exec never deletes a row.
func (m *MemExecutor) Exec(_ context.Context, stmt Statement) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exec(stmt)
}

func (m *MemExecutor) exec(stmt Statement) (any, error) {
	rows := m.rows(stmt.Table)

	if stmt.Filter == "" {
		id := m.nextID()
		row := make(map[string]any, len(stmt.Cols))
		for i, c := range stmt.Cols {
			row[c] = stmt.Vals[i]
		}
		rows[id] = row
		return id, nil
	}

	for id, row := range rows {
		for i, c := range stmt.Cols {
			row[c] = stmt.Vals[i]
		}
		return id, nil
	}
	return nil, fmt.Errorf("macro: no row in %q matches filter %q", stmt.Table, stmt.Filter)
}

// ResolveIDRef returns the most recently inserted id for idName.
func (m *MemExecutor) ResolveIDRef(_ context.Context, _, idName string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Ids come from nextID, so the most recent one is the largest.
	var latest int64
	for id := range m.tables[idName] {
		if n, ok := id.(int64); ok && n > latest {
			latest = n
		}
	}
	if latest == 0 {
		return nil, fmt.Errorf("macro: no row to reference for %q", idName)
	}
	return latest, nil
}

// LookupEdit runs update when the table already holds at least one row and
// update carries a non-empty Filter, otherwise insert; pkCol is not
// consulted. Both
// insert and update arrive empty when the name bound in the environment
// wasn't object-shaped, so neither statement could be built.
func (m *MemExecutor) LookupEdit(ctx context.Context, table, pkCol string, insert, update Statement) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if insert.Table == "" && update.Table == "" {
		return nil, &ort.ErrShapeError{Name: table, Expected: "object"}
	}

	if len(m.rows(table)) > 0 && update.Filter != "" {
		return m.exec(update)
	}
	_ = pkCol
	return m.exec(insert)
}

// InsertOrUpdate runs update when update carries a non-empty Filter
// (meaning the caller resolved a primary key), otherwise insert.
func (m *MemExecutor) InsertOrUpdate(_ context.Context, _ string, insert, update Statement) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if update.Filter != "" {
		return m.exec(update)
	}
	return m.exec(insert)
}

// DeleteChildren removes every row of table whose primary key is not
// mentioned in del.Vals, reporting how many rows were removed. del arrives
// with no Table set when the name bound in the environment wasn't
// sequence-shaped, so no rows could be collected to delete.
func (m *MemExecutor) DeleteChildren(_ context.Context, objName, table string, del Statement) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if del.Table == "" {
		return 0, &ort.ErrShapeError{Name: objName, Expected: "sequence"}
	}

	keep := make(map[any]bool, len(del.Vals))
	for _, v := range del.Vals {
		keep[v] = true
	}

	rows := m.rows(table)
	var removed int64
	for id := range rows {
		if !keep[id] {
			delete(rows, id)
			removed++
		}
	}
	return removed, nil
}
