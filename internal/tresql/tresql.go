// Package tresql renders the small vocabulary of DSL tokens the ORT
// compiler emits (spec §6): bind variables, id references, and macro
// calls. Keeping these as named functions rather than inline string
// concatenation in the compiler keeps the lexicon — the contract with the
// downstream execution engine — in one reviewable place.
package tresql

import "strings"

// Bind renders a plain named bind variable: ":col".
func Bind(name string) string { return ":" + name }

// IDRef renders an id-reference binding site: ":#table", which resolves at
// execution time to the most recently generated primary key for table.
func IDRef(table string) string { return ":#" + table }

// Placeholder renders a positional bind placeholder: "?". Used only by the
// delete(name, id, filter?) entry point (spec §6, scenario S4), whose
// caller-supplied filter text is itself written with "?" placeholders
// rather than the named ":col" binds every other emitted form uses.
func Placeholder() string { return "?" }

// Call renders a macro invocation: "_name(arg1, arg2, ...)".
func Call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

// Alias renders a trailing column alias used to correlate a nested
// statement with its parent object: " 'name'".
func Alias(name string) string {
	return " '" + name + "'"
}

// Quote wraps s in single quotes, for macro string-literal arguments such
// as table and object names.
func Quote(s string) string { return "'" + s + "'" }

// Insert renders an insert form: "+table{col1, col2, ...}[v1, v2, ...]".
func Insert(table string, cols, vals []string) string {
	var b strings.Builder
	b.WriteByte('+')
	b.WriteString(table)
	b.WriteByte('{')
	b.WriteString(strings.Join(cols, ", "))
	b.WriteByte('}')
	b.WriteByte('[')
	b.WriteString(strings.Join(vals, ", "))
	b.WriteByte(']')
	return b.String()
}

// CorrelatedInsert renders the select-from-filter conditional-insert
// variant used when a filter is supplied (spec §4.4 step 7):
//
//	+table{cols} (table{c1 = v1 & c2 = v2 ...} @(1)) alias [filter] {cols}
//
// The alias is written bare: no alias-qualified column list follows it.
func CorrelatedInsert(table string, cols, vals []string, alias, filter string) string {
	var b strings.Builder
	b.WriteByte('+')
	b.WriteString(table)
	b.WriteByte('{')
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString("} (")
	b.WriteString(table)
	b.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" & ")
		}
		b.WriteString(c)
		b.WriteString(" = ")
		b.WriteString(vals[i])
	}
	b.WriteString("} @(1)) ")
	b.WriteString(alias)
	b.WriteString(" [")
	b.WriteString(filter)
	b.WriteString("] {")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteByte('}')
	return b.String()
}

// Update renders an update form:
// "=table alias [refFilter & (userFilter)?] {cols}[vals]".
func Update(table, alias, filter string, cols, vals []string) string {
	var b strings.Builder
	b.WriteByte('=')
	b.WriteString(table)
	if alias != "" {
		b.WriteByte(' ')
		b.WriteString(alias)
	}
	b.WriteString(" [")
	b.WriteString(filter)
	b.WriteString("] {")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteByte('}')
	b.WriteByte('[')
	b.WriteString(strings.Join(vals, ", "))
	b.WriteByte(']')
	return b.String()
}

// Delete renders a delete form: "-table[filter]".
func Delete(table, filter string) string {
	return "-" + table + "[" + filter + "]"
}

// NotIn renders a "!in" exclusion predicate: "col !in :name". Used by
// delete_missing to exclude the primary-key values collected under :ids
// (spec §4.5, §4.7).
func NotIn(col, name string) string {
	return col + " !in " + Bind(name)
}

// LookupEditExpr renders a _lookup_edit macro call.
func LookupEditExpr(refCol, pkName, insertExpr, updateExpr string) string {
	pk := "null"
	if pkName != "" {
		pk = Quote(pkName)
	}
	return Call("_lookup_edit", Quote(refCol), pk, insertExpr, updateExpr)
}

// InsertOrUpdateExpr renders an _insert_or_update macro call.
func InsertOrUpdateExpr(table, insertExpr, updateExpr string) string {
	return Call("_insert_or_update", Quote(table), insertExpr, updateExpr)
}

// DeleteChildrenExpr renders a _delete_children macro call.
func DeleteChildrenExpr(objName, table, deleteExpr string) string {
	return Call("_delete_children", Quote(objName), Quote(table), deleteExpr)
}

// IDRefIDExpr renders an _id_ref_id macro call.
func IDRefIDExpr(idRefName, idName string) string {
	return Call("_id_ref_id", Quote(idRefName), Quote(idName))
}

// BindAssign renders a bind-variable assignment: ":name = expr". Used to
// stage a lookup-edit's resolved id into a bind variable the enclosing
// statement's own column value then reads back.
func BindAssign(name, expr string) string {
	return Bind(name) + " = " + expr
}
