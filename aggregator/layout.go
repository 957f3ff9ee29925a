package aggregator

import (
	"context"

	"github.com/rulego/sqlagg/types"
)

// Source is the pull side of the upstream operator.
// Next returns a nil row once the input is exhausted.
type Source interface {
	Next(ctx context.Context) (types.Row, error)
}

// GroupIterator yields finalized output rows, nil when done
type GroupIterator interface {
	Next(ctx context.Context) (types.Row, error)
}

// outputLayout places the key columns of one grouping set within the union-wide output row
type outputLayout struct {
	width  int
	keyPos []int
}

// newOutputLayout maps each column of set to its position in union.
// set must be a subset of union; both are ascending.
func newOutputLayout(set, union types.GroupSet, calls int) outputLayout {
	pos := make([]int, len(set))
	j := 0
	for i, col := range set {
		for union[j] != col {
			j++
		}
		pos[i] = j
	}
	return outputLayout{width: len(union) + calls, keyPos: pos}
}

// emit builds an output row: key values at their union positions, NULL in
// the other key columns, aggregate results after the keys
func (l outputLayout) emit(key types.Row, accs AccumulatorList) (types.Row, error) {
	out := types.NewRow(l.width)
	for i, p := range l.keyPos {
		out[p] = key[i]
	}
	if err := accs.End(out); err != nil {
		return nil, err
	}
	return out, nil
}
