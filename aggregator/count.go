package aggregator

import (
	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// countAccumulator counts rows whose operands are all non-null.
// Without operands it counts every row.
type countAccumulator struct {
	args       []int
	resultType types.DataType
	count      int64
}

func (c *countAccumulator) Send(row types.Row) error {
	for _, a := range c.args {
		if row[a] == nil {
			return nil
		}
	}
	c.count++
	return nil
}

func (c *countAccumulator) End() (any, error) {
	if c.resultType == types.Any {
		return c.count, nil
	}
	return cast.Coerce(c.count, c.resultType)
}

func newCountFactory(call types.AggregateCall) Factory {
	return FactoryFunc(func() (Accumulator, error) {
		return &countAccumulator{args: call.Args, resultType: call.ResultType}, nil
	})
}
