package macro_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ort/internal/macro"
	"ort/internal/ort"
)

func TestExecInsertThenUpdate(t *testing.T) {
	m := macro.NewMemExecutor()
	ctx := context.Background()

	id, err := m.Exec(ctx, macro.Statement{Table: "dept", Cols: []string{"dname"}, Vals: []any{"Accounting"}})
	require.NoError(t, err)
	assert.NotNil(t, id)

	_, err = m.Exec(ctx, macro.Statement{Table: "dept", Filter: "deptno = :deptno", Cols: []string{"dname"}, Vals: []any{"Renamed"}})
	require.NoError(t, err)
}

func TestInsertOrUpdateChoosesUpdateWhenFilterPresent(t *testing.T) {
	m := macro.NewMemExecutor()
	ctx := context.Background()

	_, err := m.Exec(ctx, macro.Statement{Table: "emp", Cols: []string{"ename"}, Vals: []any{"Scott"}})
	require.NoError(t, err)

	insert := macro.Statement{Table: "emp", Cols: []string{"ename"}, Vals: []any{"New"}}
	update := macro.Statement{Table: "emp", Filter: "empno = :empno", Cols: []string{"ename"}, Vals: []any{"Updated"}}

	_, err = m.InsertOrUpdate(ctx, "emp", insert, update)
	require.NoError(t, err)
}

func TestDeleteChildrenRemovesUnkeptRows(t *testing.T) {
	m := macro.NewMemExecutor()
	ctx := context.Background()

	id1, _ := m.Exec(ctx, macro.Statement{Table: "emp", Cols: []string{"ename"}, Vals: []any{"Smith"}})
	_, _ = m.Exec(ctx, macro.Statement{Table: "emp", Cols: []string{"ename"}, Vals: []any{"Jones"}})

	removed, err := m.DeleteChildren(ctx, "emp", "emp", macro.Statement{Table: "emp", Vals: []any{id1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestLookupEditShapeErrorWhenNameNotObjectShaped(t *testing.T) {
	m := macro.NewMemExecutor()
	ctx := context.Background()

	_, err := m.LookupEdit(ctx, "dept", "deptno", macro.Statement{}, macro.Statement{})
	require.Error(t, err)
	var target *ort.ErrShapeError
	assert.ErrorAs(t, err, &target)
}

func TestDeleteChildrenShapeErrorWhenNameNotSequenceShaped(t *testing.T) {
	m := macro.NewMemExecutor()
	ctx := context.Background()

	_, err := m.DeleteChildren(ctx, "emp", "emp", macro.Statement{})
	require.Error(t, err)
	var target *ort.ErrShapeError
	assert.ErrorAs(t, err, &target)
}
