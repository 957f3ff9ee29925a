package aggregator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// comparator is the operation table of MIN or MAX over T
type comparator[T any] struct {
	sentinel T
	choose   func(a, b T) T
	convert  func(any) (T, error)
}

func minOf[T int32 | int64 | float32 | float64](a, b T) T {
	return min(a, b)
}

func maxOf[T int32 | int64 | float32 | float64](a, b T) T {
	return max(a, b)
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if b.LessThan(a) {
		return b
	}
	return a
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if b.GreaterThan(a) {
		return b
	}
	return a
}

// false < true
func minBool(a, b bool) bool { return a && b }
func maxBool(a, b bool) bool { return a || b }

var (
	decimalCeiling = decimal.NewFromFloat(math.MaxFloat64)
	decimalFloor   = decimal.NewFromFloat(-math.MaxFloat64)
)

var (
	minInt     = comparator[int32]{sentinel: math.MaxInt32, choose: minOf[int32], convert: cast.ToInt32E}
	minLong    = comparator[int64]{sentinel: math.MaxInt64, choose: minOf[int64], convert: cast.ToInt64E}
	minFloat   = comparator[float32]{sentinel: math.MaxFloat32, choose: minOf[float32], convert: cast.ToFloat32E}
	minDouble  = comparator[float64]{sentinel: math.MaxFloat64, choose: minOf[float64], convert: cast.ToFloat64E}
	minDec     = comparator[decimal.Decimal]{sentinel: decimalCeiling, choose: minDecimal, convert: cast.ToDecimalE}
	minBoolean = comparator[bool]{sentinel: true, choose: minBool, convert: cast.ToBoolE}

	maxInt     = comparator[int32]{sentinel: math.MinInt32, choose: maxOf[int32], convert: cast.ToInt32E}
	maxLong    = comparator[int64]{sentinel: math.MinInt64, choose: maxOf[int64], convert: cast.ToInt64E}
	maxFloat   = comparator[float32]{sentinel: -math.MaxFloat32, choose: maxOf[float32], convert: cast.ToFloat32E}
	maxDouble  = comparator[float64]{sentinel: -math.MaxFloat64, choose: maxOf[float64], convert: cast.ToFloat64E}
	maxDec     = comparator[decimal.Decimal]{sentinel: decimalFloor, choose: maxDecimal, convert: cast.ToDecimalE}
	maxBoolean = comparator[bool]{sentinel: false, choose: maxBool, convert: cast.ToBoolE}
)

// extremumAccumulator folds values with choose, starting at the sentinel.
// The sentinel never escapes: an accumulator that absorbed nothing returns NULL.
type extremumAccumulator[T any] struct {
	call  types.AggregateCall
	arg   int
	ops   *comparator[T]
	value T
	seen  bool
}

func (e *extremumAccumulator[T]) Send(row types.Row) error {
	v := row[e.arg]
	if v == nil {
		return nil
	}
	x, err := e.ops.convert(v)
	if err != nil {
		return invocationError(e.call, err)
	}
	e.value = e.ops.choose(e.value, x)
	e.seen = true
	return nil
}

func (e *extremumAccumulator[T]) End() (any, error) {
	if !e.seen {
		return nil, nil
	}
	return e.value, nil
}

func extremumFactory[T any](call types.AggregateCall, ops *comparator[T]) Factory {
	arg := call.Args[0]
	return FactoryFunc(func() (Accumulator, error) {
		return &extremumAccumulator[T]{call: call, arg: arg, ops: ops, value: ops.sentinel}, nil
	})
}

// newMinMaxFactory picks the comparator from the declared result type.
// Types without a dedicated comparator fall back to BIGINT.
func newMinMaxFactory(call types.AggregateCall) (Factory, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "%s takes exactly one operand, got %d", call.Kind, len(call.Args))
	}
	isMin := call.Kind == types.Min
	switch call.ResultType {
	case types.Integer:
		return pick(call, isMin, &minInt, &maxInt), nil
	case types.Float:
		return pick(call, isMin, &minFloat, &maxFloat), nil
	case types.Real, types.Double:
		return pick(call, isMin, &minDouble, &maxDouble), nil
	case types.Decimal:
		return pick(call, isMin, &minDec, &maxDec), nil
	case types.Boolean:
		return pick(call, isMin, &minBoolean, &maxBoolean), nil
	case types.Varchar:
		return nil, unsupportedShape(call, "no comparator for %s", call.ResultType)
	default:
		return pick(call, isMin, &minLong, &maxLong), nil
	}
}

func pick[T any](call types.AggregateCall, isMin bool, minOps, maxOps *comparator[T]) Factory {
	if isMin {
		return extremumFactory(call, minOps)
	}
	return extremumFactory(call, maxOps)
}
