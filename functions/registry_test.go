package functions

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/sqlagg/types"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	def := types.ExprAggregate{Name: "Product", Init: []string{"1"}, Add: []string{"acc[0] * arg"}}

	t.Run("注册与查找", func(t *testing.T) {
		require.NoError(t, RegisterExpression(r, def, "乘积"))
		fn, ok := r.Get("PRODUCT")
		require.True(t, ok)
		assert.Equal(t, TypeExpression, fn.GetType())
		assert.Equal(t, "乘积", fn.GetDescription())

		exprFn, ok := fn.(ExpressionFunction)
		require.True(t, ok)
		assert.Equal(t, def, exprFn.Definition())
	})

	t.Run("重复注册", func(t *testing.T) {
		err := RegisterExpression(r, def, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	})

	t.Run("按类型与名称列出", func(t *testing.T) {
		require.NoError(t, RegisterAggregate[welford](r, "var_pop", "", varianceAggregate{}))
		assert.Len(t, r.GetByType(TypeExpression), 1)
		assert.Len(t, r.GetByType(TypeTyped), 1)
		assert.Equal(t, []string{"product", "var_pop"}, r.Names())
	})

	t.Run("注销", func(t *testing.T) {
		assert.True(t, r.Unregister("product"))
		assert.False(t, r.Unregister("product"))
		_, ok := r.Get("product")
		assert.False(t, ok)
		assert.Empty(t, r.GetByType(TypeExpression))
	})

	t.Run("空名称", func(t *testing.T) {
		assert.Error(t, r.Register(NewExprFunction(types.ExprAggregate{}, "")))
	})
}

func TestRegisterExpressionShape(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, RegisterExpression(r, types.ExprAggregate{Name: "empty"}, ""))
	assert.Error(t, RegisterExpression(r, types.ExprAggregate{
		Name: "mismatch",
		Init: []string{"0", "0"},
		Add:  []string{"acc[0] + arg"},
	}, ""))
}

func TestValidateArgCount(t *testing.T) {
	fn := NewBaseFunction("f", TypeTyped, "", 1, 1)
	assert.NoError(t, fn.ValidateArgCount(1))
	assert.Error(t, fn.ValidateArgCount(0))
	assert.Error(t, fn.ValidateArgCount(2))

	unbounded := NewBaseFunction("g", TypeTyped, "", 0, -1)
	assert.NoError(t, unbounded.ValidateArgCount(10))
}

func TestDefaultRegistry(t *testing.T) {
	for _, name := range []string{"product", "sum_sq", "bool_and", "bool_or", "concat_agg", "spread",
		"var_pop", "var_samp", "stddev_pop", "stddev_samp", "geomean",
		"median", "collect", "first_value", "last_value", "deduplicate"} {
		_, ok := Get(name)
		assert.True(t, ok, name)
	}
}
