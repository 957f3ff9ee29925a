package sqlagg

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/sqlagg/aggregator"
	"github.com/rulego/sqlagg/functions"
	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/operator"
	"github.com/rulego/sqlagg/types"
)

func newEngine(t *testing.T, options ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithDiscardLog()}, options...)...)
	require.NoError(t, err)
	return e
}

func TestEndToEndScenarios(t *testing.T) {
	ctx := context.Background()
	input := []types.Row{
		types.RowOf(1, "a", 10),
		types.RowOf(1, "a", 20),
		types.RowOf(2, "b", 5),
	}
	byFirst := []types.GroupSet{{0}}

	for _, strategy := range []types.Strategy{types.StrategyAuto, types.StrategySort, types.StrategyHash} {
		engine := newEngine(t, WithStrategy(strategy), WithCheckOrdering(true))
		t.Run(string(strategy), func(t *testing.T) {
			t.Run("场景1 COUNT与SUM", func(t *testing.T) {
				rows, err := engine.AggregateRows(ctx, types.AggregateSpec{
					InputWidth: 3,
					GroupSets:  byFirst,
					Calls: []types.AggregateCall{
						types.NewCall(types.Count, types.BigInt),
						types.NewCall(types.Sum, types.BigInt, 2),
					},
				}, input...)
				require.NoError(t, err)
				assert.Equal(t, []types.Row{{1, int64(2), int64(30)}, {2, int64(1), int64(5)}}, rows)
			})

			t.Run("场景2 AVG", func(t *testing.T) {
				rows, err := engine.AggregateRows(ctx, types.AggregateSpec{
					InputWidth: 3,
					GroupSets:  byFirst,
					Calls:      []types.AggregateCall{types.NewCall(types.Avg, types.Double, 2)},
				}, input...)
				require.NoError(t, err)
				assert.Equal(t, []types.Row{{1, 15.0}, {2, 5.0}}, rows)
			})

			t.Run("场景3 空值", func(t *testing.T) {
				nullInput := []types.Row{types.RowOf(1, 10), types.RowOf(1, nil), types.RowOf(2, nil)}
				spec := types.AggregateSpec{
					InputWidth: 2,
					GroupSets:  byFirst,
					Calls:      []types.AggregateCall{types.NewCall(types.Sum, types.BigInt, 1)},
				}
				rows, err := engine.AggregateRows(ctx, spec, nullInput...)
				require.NoError(t, err)
				assert.Equal(t, []types.Row{{1, int64(10)}, {2, nil}}, rows)

				spec.Calls[0].Kind = types.Sum0
				rows, err = engine.AggregateRows(ctx, spec, nullInput...)
				require.NoError(t, err)
				assert.Equal(t, []types.Row{{1, int64(10)}, {2, int64(0)}}, rows)
			})

			t.Run("场景4 空输入", func(t *testing.T) {
				rows, err := engine.AggregateRows(ctx, types.AggregateSpec{
					InputWidth: 3,
					GroupSets:  byFirst,
					Calls: []types.AggregateCall{
						types.NewCall(types.Count, types.BigInt),
						types.NewCall(types.Avg, types.Double, 2),
						types.NewCall(types.Min, types.Integer, 2),
					},
				})
				require.NoError(t, err)
				assert.Empty(t, rows)
			})

			t.Run("场景5 FILTER", func(t *testing.T) {
				rows, err := engine.AggregateRows(ctx, types.AggregateSpec{
					InputWidth: 3,
					GroupSets:  byFirst,
					Calls:      []types.AggregateCall{types.NewCall(types.Sum, types.BigInt, 2).WithFilter(1)},
				}, types.RowOf(1, true, 5), types.RowOf(1, false, 99), types.RowOf(2, true, 7))
				require.NoError(t, err)
				assert.Equal(t, []types.Row{{1, int64(5)}, {2, int64(7)}}, rows)
			})
		})
	}
}

const rollupSpec = `
inputWidth: 4
groupSets:
  - [0, 1]
  - [0]
  - []
calls:
  - kind: COUNT
    resultType: BIGINT
  - kind: SUM
    args: [3]
    resultType: DECIMAL
  - kind: MAX
    args: [2]
    resultType: INTEGER
`

func TestGroupingSetsFromYAML(t *testing.T) {
	spec, err := types.LoadAggregateSpec([]byte(rollupSpec))
	require.NoError(t, err)

	engine := newEngine(t)
	rows, err := engine.AggregateRows(context.Background(), spec,
		types.RowOf("cn", "sh", 3, "1.10"),
		types.RowOf("cn", "bj", 5, "2.20"),
		types.RowOf("us", "ny", 1, "0.70"),
		types.RowOf("cn", "sh", 4, "1.00"),
	)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	dec := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	expect := []types.Row{
		{"cn", "sh", int64(2), dec("2.10"), int32(4)},
		{"cn", "bj", int64(1), dec("2.20"), int32(5)},
		{"us", "ny", int64(1), dec("0.70"), int32(1)},
		{"cn", nil, int64(3), dec("4.30"), int32(5)},
		{"us", nil, int64(1), dec("0.70"), int32(1)},
		{nil, nil, int64(4), dec("5.00"), int32(5)},
	}
	for i, row := range rows {
		assert.Equal(t, expect[i][:3], row[:3], "row %d", i)
		assert.True(t, expect[i][3].(decimal.Decimal).Equal(row[3].(decimal.Decimal)), "row %d: %v", i, row[3])
		assert.Equal(t, expect[i][4], row[4], "row %d", i)
	}
}

type rangeState struct {
	lo, hi float64
	n      int
}

// rangeAggregate is a typed catalog aggregate computing max-min
type rangeAggregate struct{}

func (rangeAggregate) Init() rangeState { return rangeState{} }

func (rangeAggregate) Add(acc rangeState, value any) (rangeState, error) {
	v, ok := value.(float64)
	if !ok {
		return acc, errors.Newf("range expects float64, got %T", value)
	}
	if acc.n == 0 || v < acc.lo {
		acc.lo = v
	}
	if acc.n == 0 || v > acc.hi {
		acc.hi = v
	}
	acc.n++
	return acc, nil
}

func (rangeAggregate) Merge(a, b rangeState) rangeState {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	return rangeState{lo: min(a.lo, b.lo), hi: max(a.hi, b.hi), n: a.n + b.n}
}

func (rangeAggregate) Result(acc rangeState) (any, error) {
	if acc.n == 0 {
		return nil, nil
	}
	return acc.hi - acc.lo, nil
}

func TestCustomAggregates(t *testing.T) {
	ctx := context.Background()
	reg := functions.NewRegistry()
	require.NoError(t, functions.RegisterAggregate[rangeState](reg, "value_range", "极差", rangeAggregate{}))
	require.NoError(t, functions.RegisterExpression(reg, types.ExprAggregate{
		Name: "sum_abs",
		Init: []string{"0"},
		Add:  []string{"arg < 0 ? acc[0] - arg : acc[0] + arg"},
	}, "绝对值之和"))
	engine := newEngine(t, WithCatalog(reg))

	rangeCall := types.NewCall(types.Other, types.Double, 1)
	rangeCall.Name = "value_range"
	absCall := types.NewCall(types.Other, types.Double, 1)
	absCall.Name = "sum_abs"
	spec := types.AggregateSpec{
		InputWidth: 2,
		GroupSets:  []types.GroupSet{{0}},
		Calls:      []types.AggregateCall{rangeCall, absCall},
	}
	rows, err := engine.AggregateRows(ctx, spec,
		types.RowOf("a", 1.5), types.RowOf("a", -4.0), types.RowOf("b", nil), types.RowOf("b", 2.0),
	)
	require.NoError(t, err)
	assert.Equal(t, []types.Row{{"a", 5.5, 5.5}, {"b", 0.0, 2.0}}, rows)
	assert.Equal(t, 1, engine.CachedPrograms())

	_, err = engine.AggregateRows(ctx, spec, types.RowOf("a", 1))
	assert.True(t, errors.Is(err, aggregator.ErrInvocation))

	// the builtin catalog is not consulted once a catalog is set
	productCall := types.NewCall(types.Other, types.BigInt, 1)
	productCall.Name = "product"
	_, err = engine.Aggregate(operator.NewValuesOp(), types.AggregateSpec{InputWidth: 2, Calls: []types.AggregateCall{productCall}})
	assert.True(t, errors.Is(err, aggregator.ErrUnknownAggregate))
}

func TestInlineExpressionAggregate(t *testing.T) {
	engine := newEngine(t)
	call := types.NewCall(types.Other, types.BigInt, 1)
	call.Name = "count_even"
	call.Inline = &types.ExprAggregate{
		Name: "count_even",
		Init: []string{"0"},
		Add:  []string{"arg % 2 == 0 ? acc[0] + 1 : acc[0]"},
	}
	rows, err := engine.AggregateRows(context.Background(), types.AggregateSpec{
		InputWidth: 2,
		GroupSets:  []types.GroupSet{{0}},
		Calls:      []types.AggregateCall{call},
	}, types.RowOf("x", 2), types.RowOf("x", 3), types.RowOf("x", 4), types.RowOf("y", 5))
	require.NoError(t, err)
	assert.Equal(t, []types.Row{{"x", int64(2)}, {"y", int64(0)}}, rows)
}

func TestEngineErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("配置无效", func(t *testing.T) {
		_, err := New(WithDiscardLog(), WithStrategy("random"))
		assert.Error(t, err)
		_, err = New(WithDiscardLog(), WithProgramCacheSize(0))
		assert.Error(t, err)
		_, err = New(WithConfig(types.Config{Strategy: types.StrategyAuto, ProgramCacheSize: 1, LogLevel: "loud"}))
		assert.Error(t, err)
	})

	t.Run("形状错误在构建时返回", func(t *testing.T) {
		engine := newEngine(t)
		_, err := engine.Aggregate(operator.NewValuesOp(), types.AggregateSpec{
			InputWidth: 2,
			Calls:      []types.AggregateCall{types.NewCall(types.Avg, types.Double, 0, 1)},
		})
		assert.True(t, errors.Is(err, aggregator.ErrUnsupportedShape))

		_, err = engine.Aggregate(operator.NewValuesOp(), types.AggregateSpec{
			InputWidth: 1,
			Calls:      []types.AggregateCall{types.NewCall(types.Sum, types.BigInt, 3)},
		})
		assert.Error(t, err)
	})

	t.Run("乱序输入", func(t *testing.T) {
		engine := newEngine(t, WithStrategy(types.StrategySort), WithCheckOrdering(true))
		_, err := engine.AggregateRows(ctx, types.AggregateSpec{
			InputWidth: 1,
			GroupSets:  []types.GroupSet{{0}},
			Calls:      []types.AggregateCall{types.NewCall(types.Count, types.BigInt)},
		}, types.RowOf(2), types.RowOf(1))
		assert.True(t, errors.Is(err, aggregator.ErrUnsortedInput))
	})

	t.Run("出错后仍关闭上游", func(t *testing.T) {
		engine := newEngine(t)
		input := &closeCounter{Operator: operator.NewValuesOp(types.RowOf("bad"))}
		op, err := engine.Aggregate(input, types.AggregateSpec{
			InputWidth: 1,
			Calls:      []types.AggregateCall{types.NewCall(types.Sum, types.BigInt, 0)},
		})
		require.NoError(t, err)
		_, err = Collect(ctx, op)
		assert.True(t, errors.Is(err, aggregator.ErrInvocation))
		assert.Equal(t, 1, input.closes)
	})
}

type closeCounter struct {
	operator.Operator
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return c.Operator.Close()
}

func TestEngineOptions(t *testing.T) {
	var buf bytes.Buffer
	engine, err := New(
		WithLogOutput(&buf, logger.INFO),
		WithLogLevel(logger.DEBUG),
		WithDecimalPrecision(2),
		WithProgramCacheSize(4),
	)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", engine.Config().LogLevel)
	assert.Equal(t, int32(2), engine.Config().DecimalDivisionPrecision)
	assert.Contains(t, buf.String(), "aggregate engine created")

	rows, err := engine.AggregateRows(context.Background(), types.AggregateSpec{
		InputWidth: 1,
		Calls:      []types.AggregateCall{types.NewCall(types.Avg, types.Decimal, 0)},
	}, types.RowOf(1), types.RowOf(1), types.RowOf(2))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.33", rows[0][0].(decimal.Decimal).String())

	cfg, err := types.LoadConfig([]byte("strategy: hash\nlogLevel: warn\n"))
	require.NoError(t, err)
	engine, err = New(WithConfig(cfg), WithDiscardLog())
	require.NoError(t, err)
	assert.Equal(t, types.StrategyHash, engine.Config().Strategy)
	assert.NotNil(t, engine.Logger())
}

// TestEngineLoggerScope 测试引擎日志不落入全局日志器
func TestEngineLoggerScope(t *testing.T) {
	original := logger.GetDefault()
	defer logger.SetDefault(original)
	var global, own bytes.Buffer
	logger.SetDefault(logger.NewLogger(logger.DEBUG, &global))

	engine, err := New(WithLogOutput(&own, logger.DEBUG))
	require.NoError(t, err)
	call := types.NewCall(types.Other, types.BigInt, 1)
	call.Name = "count_odd"
	call.Inline = &types.ExprAggregate{
		Name: "count_odd",
		Init: []string{"0"},
		Add:  []string{"arg % 2 == 1 ? acc[0] + 1 : acc[0]"},
	}
	spec := types.AggregateSpec{
		InputWidth: 2,
		GroupSets:  []types.GroupSet{{0}},
		Calls:      []types.AggregateCall{call},
	}
	for i := 0; i < 2; i++ {
		rows, err := engine.AggregateRows(context.Background(), spec, types.RowOf("x", 1), types.RowOf("x", 2))
		require.NoError(t, err)
		assert.Equal(t, []types.Row{{"x", int64(1)}}, rows)
	}

	assert.Contains(t, own.String(), "compiled aggregate program")
	assert.Contains(t, own.String(), "program cache hit")
	assert.Contains(t, own.String(), "with sort-merge")
	assert.Zero(t, global.Len(), global.String())

	quiet, err := New(WithDiscardLog(), WithStrategy(types.StrategyHash))
	require.NoError(t, err)
	_, err = quiet.AggregateRows(context.Background(), spec, types.RowOf("x", 1))
	require.NoError(t, err)
	assert.Zero(t, global.Len(), global.String())
}
