package ort_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ort/internal/catalog"
	"ort/internal/ort"
	"ort/internal/value"
)

// deptEmpCarSchema mirrors the worked dept/emp/car scenarios: emp's
// foreign key column is named "dept" (not "deptno") so that a nested
// object keyed "dept" on an emp row exercises the lookup-edit path
// exactly as written.
func deptEmpCarSchema() *catalog.Schema {
	dept := &catalog.Table{
		Name:       "dept",
		Columns:    []catalog.Column{{Name: "deptno"}, {Name: "dname"}},
		PrimaryKey: []string{"deptno"},
	}
	emp := &catalog.Table{
		Name:       "emp",
		Columns:    []catalog.Column{{Name: "empno"}, {Name: "dept"}, {Name: "ename"}},
		PrimaryKey: []string{"empno"},
		ForeignKeys: []catalog.ForeignKey{
			{Columns: []string{"dept"}, RefTable: "dept", RefColumns: []string{"deptno"}},
		},
	}
	car := &catalog.Table{
		Name:       "car",
		Columns:    []catalog.Column{{Name: "nr"}, {Name: "deptnr"}},
		PrimaryKey: []string{"nr"},
		ForeignKeys: []catalog.ForeignKey{
			{Columns: []string{"deptnr"}, RefTable: "dept", RefColumns: []string{"deptno"}},
		},
	}
	return catalog.NewSchema([]*catalog.Table{dept, emp, car})
}

func mustValue(t *testing.T, jsonText string) value.Value {
	t.Helper()
	v, err := value.FromJSON([]byte(jsonText))
	require.NoError(t, err)
	return v
}

func TestInsertSimpleRow(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10,"dname":"Accounting"}`)

	got, err := ort.Insert(schema, "dept", v)
	require.NoError(t, err)
	assert.Equal(t, "+dept{deptno, dname}[:deptno, :dname]", got)
}

func TestInsertWithToManyChildren(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10,"dname":"Accounting","emp":[{"empno":1,"ename":"Smith"},{"empno":2,"ename":"Jones"}]}`)

	got, err := ort.Insert(schema, "dept", v)
	require.NoError(t, err)

	empFrag := "+emp{dept, empno, ename}[:#dept, :empno, :ename] 'emp'"
	want := "[+dept{deptno, dname}[:deptno, :dname], " + empFrag + "]"
	assert.Equal(t, want, got)
}

func TestUpdateWithDeleteMissingChildren(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10,"dname":"Accounting","emp":[{"empno":1,"ename":"A"}]}`)

	got, err := ort.Update(schema, "dept[+=]", v)
	require.NoError(t, err)

	want := "[=dept [deptno = :deptno] {dname}[:dname], " +
		"+emp{dept, empno, ename}[:#dept, :empno, :ename] 'emp', " +
		"_delete_children('emp', 'emp', -emp[dept = :#dept & empno !in :ids])]"
	assert.Equal(t, want, got)
}

func TestInsertWithLookupEditChild(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"empno":5,"ename":"Scott","dept":{"deptno":10,"dname":"Accounting"}}`)

	got, err := ort.Insert(schema, "emp", v)
	require.NoError(t, err)

	lookup := ":dept = _lookup_edit('dept', 'deptno', " +
		"+dept{deptno, dname}[:deptno, :dname], " +
		"=dept [deptno = :deptno] {dname}[:dname])"
	main := "+emp{empno, ename, dept}[:empno, :ename, :dept]"
	assert.Equal(t, "["+lookup+", "+main+"]", got)
}

func TestDeleteRootByPrimaryKey(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10}`)

	got, err := ort.Delete(schema, "dept", v)
	require.NoError(t, err)
	assert.Equal(t, "-dept[deptno = :deptno]", got)
}

func TestUpdateRootRequiresPrimaryKey(t *testing.T) {
	noPK := &catalog.Table{
		Name:    "audit_log",
		Columns: []catalog.Column{{Name: "message"}},
	}
	schema := catalog.NewSchema([]*catalog.Table{noPK})
	v := mustValue(t, `{"message":"hi"}`)

	_, err := ort.Update(schema, "audit_log", v)
	require.Error(t, err)
	var target *ort.ErrNoPrimaryKey
	assert.ErrorAs(t, err, &target)
}

func TestAmbiguousForeignKeyFailsCompile(t *testing.T) {
	dept := &catalog.Table{
		Name:       "dept",
		Columns:    []catalog.Column{{Name: "deptno"}, {Name: "dname"}},
		PrimaryKey: []string{"deptno"},
	}
	car := &catalog.Table{
		Name:       "car",
		Columns:    []catalog.Column{{Name: "nr"}, {Name: "deptnr1"}, {Name: "deptnr2"}},
		PrimaryKey: []string{"nr"},
		ForeignKeys: []catalog.ForeignKey{
			{Columns: []string{"deptnr1"}, RefTable: "dept", RefColumns: []string{"deptno"}},
			{Columns: []string{"deptnr2"}, RefTable: "dept", RefColumns: []string{"deptno"}},
		},
	}
	schema := catalog.NewSchema([]*catalog.Table{dept, car})
	v := mustValue(t, `{"deptno":10,"dname":"X","car":[{"nr":1}]}`)

	_, err := ort.Insert(schema, "dept", v)
	require.Error(t, err)
	var target *ort.ErrAmbiguousReference
	assert.ErrorAs(t, err, &target)
}

func TestPinnedReferenceDisambiguates(t *testing.T) {
	dept := &catalog.Table{
		Name:       "dept",
		Columns:    []catalog.Column{{Name: "deptno"}, {Name: "dname"}},
		PrimaryKey: []string{"deptno"},
	}
	car := &catalog.Table{
		Name:       "car",
		Columns:    []catalog.Column{{Name: "nr"}, {Name: "deptnr1"}, {Name: "deptnr2"}},
		PrimaryKey: []string{"nr"},
		ForeignKeys: []catalog.ForeignKey{
			{Columns: []string{"deptnr1"}, RefTable: "dept", RefColumns: []string{"deptno"}},
			{Columns: []string{"deptnr2"}, RefTable: "dept", RefColumns: []string{"deptno"}},
		},
	}
	schema := catalog.NewSchema([]*catalog.Table{dept, car})
	v := mustValue(t, `{"deptno":10,"dname":"X","car:deptnr1":[{"nr":1}]}`)

	got, err := ort.Insert(schema, "dept", v)
	require.NoError(t, err)
	assert.Contains(t, got, "+car{deptnr1, nr}[:#dept, :nr] 'car:deptnr1'")
}

func TestInsertMultipleRows(t *testing.T) {
	schema := deptEmpCarSchema()
	rows := []value.Value{
		mustValue(t, `{"deptno":10,"dname":"Accounting"}`),
		mustValue(t, `{"deptno":20,"dname":"Research"}`),
	}

	got, err := ort.InsertMultiple(schema, "dept", rows)
	require.NoError(t, err)

	row := "+dept{deptno, dname}[:deptno, :dname]"
	assert.Equal(t, "["+row+", "+row+"]", got)
}

func TestUpdateMultipleRequiresAtLeastOneRow(t *testing.T) {
	schema := deptEmpCarSchema()
	_, err := ort.UpdateMultiple(schema, "dept", nil)
	require.Error(t, err)
}

func TestInsertWithFilterUsesCorrelatedForm(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10,"dname":"SALES"}`)

	got, err := ort.Insert(schema, "dept", v, "dname = :dname")
	require.NoError(t, err)
	assert.Equal(t,
		"+dept{deptno, dname} (dept{deptno = :deptno & dname = :dname} @(1)) dept [dname = :dname] {deptno, dname}",
		got)
}

func TestUpdateWithFilterConjoinsRowLocation(t *testing.T) {
	schema := deptEmpCarSchema()
	v := mustValue(t, `{"deptno":10,"dname":"SALES"}`)

	got, err := ort.Update(schema, "dept", v, "dname != :locked")
	require.NoError(t, err)
	assert.Equal(t, "=dept [deptno = :deptno & (dname != :locked)] {dname}[:dname]", got)
}

func TestDeleteByIDRendersPositionalBindings(t *testing.T) {
	schema := deptEmpCarSchema()

	got, bindings, err := ort.DeleteByID(schema, "dept", 10, "dname != ?", map[string]any{"2": "LOCKED"})
	require.NoError(t, err)
	assert.Equal(t, "-dept[deptno = ? & (dname != ?)]", got)
	assert.Equal(t, map[string]any{"1": 10, "2": "LOCKED"}, bindings)
}

func TestDeleteByIDWithoutFilter(t *testing.T) {
	schema := deptEmpCarSchema()

	got, bindings, err := ort.DeleteByID(schema, "dept", 10, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "-dept[deptno = ?]", got)
	assert.Equal(t, map[string]any{"1": 10}, bindings)
}

func TestDeleteByIDRejectsMultiTableDescriptor(t *testing.T) {
	schema := deptEmpCarSchema()
	_, _, err := ort.DeleteByID(schema, "dept#car", 10, "", nil)
	require.Error(t, err)
}

// TestInsertWithUUIDSurrogateKey exercises a table whose primary key is a
// client-generated surrogate (no DB sequence to fall back on), the way a
// session table or an event log is commonly keyed.
func TestInsertWithUUIDSurrogateKey(t *testing.T) {
	session := &catalog.Table{
		Name:       "session",
		Columns:    []catalog.Column{{Name: "id"}, {Name: "user_agent"}},
		PrimaryKey: []string{"id"},
	}
	schema := catalog.NewSchema([]*catalog.Table{session})

	id := uuid.NewString()
	v := mustValue(t, `{"id":"`+id+`","user_agent":"curl/8.0"}`)

	got, err := ort.Insert(schema, "session", v)
	require.NoError(t, err)
	assert.Equal(t, "+session{id, user_agent}[:id, :user_agent]", got)
}
