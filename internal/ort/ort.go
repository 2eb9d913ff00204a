// Package ort is the Object-Relational Transformation compiler: a pure
// function from a hierarchical object tree and a save-descriptor, consulted
// against a relational catalog, to a DML statement in the tresql DSL. It
// performs no I/O and no SQL parsing; internal/catalog supplies everything
// it needs to know about the target schema, and internal/tresql supplies
// the vocabulary it renders into.
package ort

import (
	"fmt"

	"ort/internal/catalog"
	"ort/internal/descriptor"
	"ort/internal/value"
)

// Insert compiles v as a new row (or chain of rows, for a "#"-linked
// descriptor) under name, ignoring name's own insert/update/delete option
// flags — those govern only how nested child fields are reconciled, not
// what an explicit Insert call itself does. An optional filter switches the
// root statement to the correlated select-from-filter variant (spec §4.4
// step 7); at most one filter argument is accepted.
func Insert(schema *catalog.Schema, name string, v value.Value, filter ...string) (string, error) {
	prop, err := descriptor.Parse(name)
	if err != nil {
		return "", err
	}
	return compileChain(schema, prop.Tables, v, true, false, false, oneFilter(filter))
}

// Update compiles v as an update of an existing row (or chain of rows),
// located by its own primary key at the root of the descriptor's chain. An
// optional filter is conjoined onto the root statement's row-location
// filter (spec §6).
func Update(schema *catalog.Schema, name string, v value.Value, filter ...string) (string, error) {
	prop, err := descriptor.Parse(name)
	if err != nil {
		return "", err
	}
	return compileChain(schema, prop.Tables, v, false, true, false, oneFilter(filter))
}

// Delete compiles a delete of the row (or chain of rows) named by v's
// primary key. Used for the multi-table compositor (§4.6); callers
// implementing the plain delete(name, id, filter?, filterParams?) entry
// point of §6 should use DeleteByID instead.
func Delete(schema *catalog.Schema, name string, v value.Value) (string, error) {
	prop, err := descriptor.Parse(name)
	if err != nil {
		return "", err
	}
	return compileChain(schema, prop.Tables, v, false, false, true, "")
}

// InsertMultiple compiles a batch of independent rows under the same
// descriptor, as when a caller has many new objects to save in one call.
func InsertMultiple(schema *catalog.Schema, name string, items []value.Value) (string, error) {
	return compileBatch(schema, name, items, func(s *catalog.Schema, n string, v value.Value) (string, error) {
		return Insert(s, n, v)
	})
}

// UpdateMultiple compiles a batch of independent row updates under the
// same descriptor.
func UpdateMultiple(schema *catalog.Schema, name string, items []value.Value) (string, error) {
	return compileBatch(schema, name, items, func(s *catalog.Schema, n string, v value.Value) (string, error) {
		return Update(s, n, v)
	})
}

func oneFilter(filter []string) string {
	if len(filter) == 0 {
		return ""
	}
	return filter[0]
}

func compileBatch(schema *catalog.Schema, name string, items []value.Value, one func(*catalog.Schema, string, value.Value) (string, error)) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("ort: no rows to compile for %q", name)
	}
	frags := make([]string, 0, len(items))
	for i, item := range items {
		expr, err := one(schema, name, item)
		if err != nil {
			return "", fmt.Errorf("ort: row %d of %q: %w", i, name, err)
		}
		frags = append(frags, expr)
	}
	return wrap(frags), nil
}
