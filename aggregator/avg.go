package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// avgAccumulator tracks count and sum of the first operand.
// Integer inputs are summed exactly in intSum, everything else in floatSum.
type avgAccumulator struct {
	call     types.AggregateCall
	arg      int
	count    int64
	intSum   int64
	floatSum float64
}

func (a *avgAccumulator) Send(row types.Row) error {
	v := row[a.arg]
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case int:
		a.intSum += int64(x)
	case int8:
		a.intSum += int64(x)
	case int16:
		a.intSum += int64(x)
	case int32:
		a.intSum += int64(x)
	case int64:
		a.intSum += x
	case uint8:
		a.intSum += int64(x)
	case uint16:
		a.intSum += int64(x)
	case uint32:
		a.intSum += int64(x)
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return invocationError(a.call, err)
		}
		a.floatSum += f
	}
	a.count++
	return nil
}

// End returns NULL when no row was absorbed
func (a *avgAccumulator) End() (any, error) {
	if a.count == 0 {
		return nil, nil
	}
	avg := (float64(a.intSum) + a.floatSum) / float64(a.count)
	switch a.call.ResultType {
	case types.Any, types.Real, types.Double:
		return avg, nil
	}
	v, err := cast.Coerce(avg, a.call.ResultType)
	if err != nil {
		return nil, invocationError(a.call, err)
	}
	return v, nil
}

// decimalAvgAccumulator averages in decimal arithmetic for DECIMAL results
type decimalAvgAccumulator struct {
	call      types.AggregateCall
	arg       int
	precision int32
	count     int64
	sum       decimal.Decimal
}

func (a *decimalAvgAccumulator) Send(row types.Row) error {
	v := row[a.arg]
	if v == nil {
		return nil
	}
	d, err := cast.ToDecimalE(v)
	if err != nil {
		return invocationError(a.call, err)
	}
	a.sum = a.sum.Add(d)
	a.count++
	return nil
}

func (a *decimalAvgAccumulator) End() (any, error) {
	if a.count == 0 {
		return nil, nil
	}
	return a.sum.DivRound(decimal.NewFromInt(a.count), a.precision), nil
}

func newAvgFactory(call types.AggregateCall, precision int32) (Factory, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "AVG takes exactly one operand, got %d", len(call.Args))
	}
	arg := call.Args[0]
	if call.ResultType == types.Decimal {
		return FactoryFunc(func() (Accumulator, error) {
			return &decimalAvgAccumulator{call: call, arg: arg, precision: precision, sum: decimal.Zero}, nil
		}), nil
	}
	return FactoryFunc(func() (Accumulator, error) {
		return &avgAccumulator{call: call, arg: arg}, nil
	}), nil
}
