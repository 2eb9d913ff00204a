package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ort/internal/catalog"
)

func deptEmpCarSchema() *catalog.Schema {
	dept := &catalog.Table{
		Name:       "dept",
		Columns:    []catalog.Column{{Name: "deptno"}, {Name: "dname"}},
		PrimaryKey: []string{"deptno"},
	}
	emp := &catalog.Table{
		Name:       "emp",
		Columns:    []catalog.Column{{Name: "empno"}, {Name: "deptno"}, {Name: "ename"}},
		PrimaryKey: []string{"empno"},
		ForeignKeys: []catalog.ForeignKey{
			{Columns: []string{"deptno"}, RefTable: "dept", RefColumns: []string{"deptno"}},
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

func TestTableOption(t *testing.T) {
	s := deptEmpCarSchema()

	t.Run("found", func(t *testing.T) {
		tbl, ok := s.TableOption("dept")
		require.True(t, ok)
		assert.Equal(t, "dept", tbl.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, ok := s.TableOption("nope")
		assert.False(t, ok)
	})
}

func TestColOptionDropsUnknownFields(t *testing.T) {
	s := deptEmpCarSchema()
	dept, _ := s.TableOption("dept")

	col, ok := dept.ColOption("dname")
	require.True(t, ok)
	assert.Equal(t, "dname", col)

	_, ok = dept.ColOption("not_a_column")
	assert.False(t, ok)
}

func TestValueExprDefaultsToBindForm(t *testing.T) {
	s := deptEmpCarSchema()
	dept, _ := s.TableOption("dept")
	assert.Equal(t, ":dname", dept.ValueExpr("dname"))
}

func TestSinglePK(t *testing.T) {
	s := deptEmpCarSchema()
	dept, _ := s.TableOption("dept")
	pk, ok := dept.SinglePK()
	require.True(t, ok)
	assert.Equal(t, "deptno", pk)
}

func TestRefsToSingleColumnFK(t *testing.T) {
	s := deptEmpCarSchema()
	emp, _ := s.TableOption("emp")

	fks := emp.RefsTo("dept")
	require.Len(t, fks, 1)
	col, refCol, ok := fks[0].SingleColumn()
	require.True(t, ok)
	assert.Equal(t, "deptno", col)
	assert.Equal(t, "deptno", refCol)
}

func TestRefTableForLookupEdit(t *testing.T) {
	s := deptEmpCarSchema()
	emp, _ := s.TableOption("emp")

	refTable, ok := emp.RefTableFor("deptno")
	require.True(t, ok)
	assert.Equal(t, "dept", refTable)

	_, ok = emp.RefTableFor("ename")
	assert.False(t, ok)
}

func TestTablesReturnsSortedByName(t *testing.T) {
	s := deptEmpCarSchema()

	var names []string
	for _, t := range s.Tables() {
		names = append(names, t.Name)
	}
	assert.Equal(t, []string{"car", "dept", "emp"}, names)
}
