package tresql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ort/internal/tresql"
)

func TestInsert(t *testing.T) {
	got := tresql.Insert("dept", []string{"deptno", "dname"}, []string{":deptno", ":dname"})
	assert.Equal(t, "+dept{deptno, dname}[:deptno, :dname]", got)
}

func TestUpdateWithAlias(t *testing.T) {
	got := tresql.Update("emp", "e", "empno = :#dept", []string{"ename"}, []string{":ename"})
	assert.Equal(t, "=emp e [empno = :#dept] {ename}[:ename]", got)
}

func TestDelete(t *testing.T) {
	assert.Equal(t, "-dept[deptno = :deptno]", tresql.Delete("dept", "deptno = :deptno"))
}

func TestIDRefAndBind(t *testing.T) {
	assert.Equal(t, ":#dept", tresql.IDRef("dept"))
	assert.Equal(t, ":dname", tresql.Bind("dname"))
}

func TestMacroCalls(t *testing.T) {
	assert.Equal(t, "_id_ref_id('dept', 'car')", tresql.IDRefIDExpr("dept", "car"))
	assert.Equal(t, "_insert_or_update('emp', INS, UPD)", tresql.InsertOrUpdateExpr("emp", "INS", "UPD"))
	assert.Equal(t, "_delete_children('emp', 'emp', DEL)", tresql.DeleteChildrenExpr("emp", "emp", "DEL"))
	assert.Equal(t, "_lookup_edit('dept', 'deptno', INS, UPD)", tresql.LookupEditExpr("dept", "deptno", "INS", "UPD"))
	assert.Equal(t, "_lookup_edit('dept', null, INS, UPD)", tresql.LookupEditExpr("dept", "", "INS", "UPD"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", tresql.Placeholder())
}

func TestCorrelatedInsert(t *testing.T) {
	got := tresql.CorrelatedInsert("dept", []string{"deptno", "dname"}, []string{":deptno", ":dname"}, "dept", "dname = :dname")
	assert.Equal(t, "+dept{deptno, dname} (dept{deptno = :deptno & dname = :dname} @(1)) dept [dname = :dname] {deptno, dname}", got)
}
