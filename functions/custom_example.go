package functions

import (
	"math"

	"github.com/cockroachdb/errors"
)

// geomeanState 几何平均数的累加状态
type geomeanState struct {
	LogSum float64
	N      int64
}

// geomeanAggregate is resolved by reflection. Being zero-size it is invoked statically.
type geomeanAggregate struct{}

func (geomeanAggregate) Init() geomeanState {
	return geomeanState{}
}

func (geomeanAggregate) Add(acc geomeanState, v float64) (geomeanState, error) {
	if v <= 0 {
		return acc, errors.Newf("geomean requires positive values, got %v", v)
	}
	acc.LogSum += math.Log(v)
	acc.N++
	return acc, nil
}

func (geomeanAggregate) Merge(a, b geomeanState) geomeanState {
	return geomeanState{LogSum: a.LogSum + b.LogSum, N: a.N + b.N}
}

func (geomeanAggregate) Result(acc geomeanState) any {
	if acc.N == 0 {
		return nil
	}
	return math.Exp(acc.LogSum / float64(acc.N))
}
