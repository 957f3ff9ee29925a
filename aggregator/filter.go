package aggregator

import (
	"github.com/rulego/sqlagg/types"
)

// filterAccumulator forwards a row only when its filter column holds boolean true
type filterAccumulator struct {
	col   int
	inner Accumulator
}

func (f *filterAccumulator) Send(row types.Row) error {
	if b, ok := row[f.col].(bool); ok && b {
		return f.inner.Send(row)
	}
	return nil
}

func (f *filterAccumulator) End() (any, error) {
	return f.inner.End()
}

func newFilterFactory(col int, inner Factory) Factory {
	return FactoryFunc(func() (Accumulator, error) {
		acc, err := inner.New()
		if err != nil {
			return nil, err
		}
		return &filterAccumulator{col: col, inner: acc}, nil
	})
}
