package aggregator

import (
	"github.com/rulego/sqlagg/types"
)

// Accumulator is the per-group state of one aggregate call.
// Send absorbs one input row. End returns the final value and is called at most once.
type Accumulator interface {
	Send(row types.Row) error
	End() (any, error)
}

// Factory creates a fresh Accumulator for every new group.
// Factories hold no group state.
type Factory interface {
	New() (Accumulator, error)
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func() (Accumulator, error)

// New implements Factory
func (f FactoryFunc) New() (Accumulator, error) {
	return f()
}

// AccumulatorList holds one accumulator per call, in call order
type AccumulatorList []Accumulator

// NewAccumulatorList creates one accumulator per factory
func NewAccumulatorList(factories []Factory) (AccumulatorList, error) {
	list := make(AccumulatorList, len(factories))
	for i, f := range factories {
		acc, err := f.New()
		if err != nil {
			return nil, err
		}
		list[i] = acc
	}
	return list, nil
}

// Send feeds row to every accumulator in call order
func (l AccumulatorList) Send(row types.Row) error {
	for _, acc := range l {
		if err := acc.Send(row); err != nil {
			return err
		}
	}
	return nil
}

// End finalizes every accumulator into the trailing len(l) positions of out
func (l AccumulatorList) End(out types.Row) error {
	offset := len(out) - len(l)
	for i, acc := range l {
		v, err := acc.End()
		if err != nil {
			return err
		}
		out[offset+i] = v
	}
	return nil
}
