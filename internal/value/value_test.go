package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ort/internal/value"
)

func TestFromJSONPreservesKeyOrder(t *testing.T) {
	v, err := value.FromJSON([]byte(`{"deptno":10,"dname":"SALES","emp":[{"ename":"A"},{"ename":"B"}]}`))
	require.NoError(t, err)
	require.True(t, v.IsObject())
	assert.Equal(t, []string{"deptno", "dname", "emp"}, v.Keys())

	emp, ok := v.Get("emp")
	require.True(t, ok)
	require.True(t, emp.IsSeq())
	require.Len(t, emp.Items(), 2)
}

func TestFromJSONEmptyArray(t *testing.T) {
	v, err := value.FromJSON([]byte(`{"emp":[]}`))
	require.NoError(t, err)
	emp, ok := v.Get("emp")
	require.True(t, ok)
	require.True(t, emp.IsSeq())
	assert.True(t, emp.IsEmpty())
}

func TestFromJSONNull(t *testing.T) {
	v, err := value.FromJSON([]byte(`{"dname":null}`))
	require.NoError(t, err)
	dname, ok := v.Get("dname")
	require.True(t, ok)
	assert.True(t, dname.IsNull())
}

func TestSetPreservesPositionOnOverwrite(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Scalar(1))
	obj.Set("b", value.Scalar(2))
	obj.Set("a", value.Scalar(99))

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, 99, a.Raw())
}
