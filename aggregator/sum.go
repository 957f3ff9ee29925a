package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// arithmetic is the operation table of one SUM representation
type arithmetic[T any] struct {
	zero    T
	add     func(a, b T) T
	convert func(any) (T, error)
}

func addNumbers[T int32 | int64 | float64](a, b T) T {
	return a + b
}

// Integer sums wrap on overflow.
var (
	intArithmetic     = arithmetic[int32]{zero: 0, add: addNumbers[int32], convert: cast.ToInt32E}
	longArithmetic    = arithmetic[int64]{zero: 0, add: addNumbers[int64], convert: cast.ToInt64E}
	doubleArithmetic  = arithmetic[float64]{zero: 0, add: addNumbers[float64], convert: cast.ToFloat64E}
	decimalArithmetic = arithmetic[decimal.Decimal]{
		zero:    decimal.Zero,
		add:     func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) },
		convert: cast.ToDecimalE,
	}
)

// sumAccumulator keeps a running sum in representation T.
// With nullIfEmpty it returns NULL when nothing was absorbed (SUM),
// otherwise the zero of T ($SUM0).
type sumAccumulator[T any] struct {
	call        types.AggregateCall
	arg         int
	ops         *arithmetic[T]
	nullIfEmpty bool
	sum         T
	empty       bool
}

func (s *sumAccumulator[T]) Send(row types.Row) error {
	v := row[s.arg]
	if v == nil {
		return nil
	}
	x, err := s.ops.convert(v)
	if err != nil {
		return invocationError(s.call, err)
	}
	s.sum = s.ops.add(s.sum, x)
	s.empty = false
	return nil
}

func (s *sumAccumulator[T]) End() (any, error) {
	if s.empty {
		if s.nullIfEmpty {
			return nil, nil
		}
		return s.ops.zero, nil
	}
	return s.sum, nil
}

func sumFactory[T any](call types.AggregateCall, ops *arithmetic[T]) Factory {
	arg := call.Args[0]
	nullIfEmpty := call.Kind != types.Sum0
	return FactoryFunc(func() (Accumulator, error) {
		return &sumAccumulator[T]{
			call:        call,
			arg:         arg,
			ops:         ops,
			nullIfEmpty: nullIfEmpty,
			sum:         ops.zero,
			empty:       true,
		}, nil
	})
}

// newSumFactory picks the representation from the declared result type.
// Types without a dedicated representation sum as BIGINT.
func newSumFactory(call types.AggregateCall) (Factory, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "%s takes exactly one operand, got %d", call.Kind, len(call.Args))
	}
	switch call.ResultType {
	case types.Integer:
		return sumFactory(call, &intArithmetic), nil
	case types.Float, types.Real, types.Double:
		return sumFactory(call, &doubleArithmetic), nil
	case types.Decimal:
		return sumFactory(call, &decimalArithmetic), nil
	case types.Boolean, types.Varchar:
		return nil, unsupportedShape(call, "cannot sum %s values", call.ResultType)
	default:
		return sumFactory(call, &longArithmetic), nil
	}
}
