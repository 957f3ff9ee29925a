package aggregator

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/types"
)

// SortedGroupIterator aggregates input sorted by the key columns of a single
// grouping set. Only the current group is held in memory; each group is emitted
// as soon as the first row of the next group arrives.
type SortedGroupIterator struct {
	src           Source
	keyCols       types.GroupSet
	layout        outputLayout
	factories     []Factory
	collation     types.Collation
	checkOrdering bool

	curKey  types.Row
	curAccs AccumulatorList
	done    bool
}

// NewSortedGroupIterator creates a sort-merge iterator for one grouping set.
// union is the union of every grouping set of the query.
func NewSortedGroupIterator(src Source, set, union types.GroupSet, factories []Factory, collation types.Collation, checkOrdering bool) *SortedGroupIterator {
	return &SortedGroupIterator{
		src:           src,
		keyCols:       set,
		layout:        newOutputLayout(set, union, len(factories)),
		factories:     factories,
		collation:     collation,
		checkOrdering: checkOrdering,
	}
}

// Next returns the next finalized group, or nil when the input is exhausted
func (s *SortedGroupIterator) Next(ctx context.Context) (types.Row, error) {
	if s.done {
		return nil, nil
	}
	for {
		row, err := s.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			s.done = true
			if s.curAccs == nil {
				return nil, nil
			}
			return s.finish()
		}

		key := row.Project(s.keyCols)
		if s.curAccs == nil {
			if err := s.start(key, row); err != nil {
				return nil, err
			}
			continue
		}

		c := types.CompareKeys(s.curKey, key, s.keyCols, s.collation)
		if c == 0 {
			if err := s.curAccs.Send(row); err != nil {
				return nil, err
			}
			continue
		}
		if c > 0 && s.checkOrdering {
			return nil, errors.Mark(errors.Newf("key %s arrived after %s", key, s.curKey), ErrUnsortedInput)
		}
		out, err := s.finish()
		if err != nil {
			return nil, err
		}
		if err := s.start(key, row); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (s *SortedGroupIterator) start(key, row types.Row) error {
	accs, err := NewAccumulatorList(s.factories)
	if err != nil {
		return err
	}
	s.curKey = key
	s.curAccs = accs
	return accs.Send(row)
}

func (s *SortedGroupIterator) finish() (types.Row, error) {
	out, err := s.layout.emit(s.curKey, s.curAccs)
	s.curKey, s.curAccs = nil, nil
	return out, err
}
