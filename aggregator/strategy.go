package aggregator

import (
	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/types"
)

// NewGroupIterator picks the grouping strategy for spec.
// With StrategyAuto a single grouping set streams through sort-merge and
// several grouping sets go through the hash strategy. A nil log falls back
// to the package default.
func NewGroupIterator(src Source, spec types.AggregateSpec, factories []Factory, cfg types.Config, log logger.Logger) (GroupIterator, error) {
	if log == nil {
		log = logger.GetDefault()
	}
	sets := spec.Sets()
	strategy := cfg.Strategy
	if strategy == "" || strategy == types.StrategyAuto {
		strategy = types.StrategySort
		if len(sets) > 1 {
			strategy = types.StrategyHash
		}
	}

	switch strategy {
	case types.StrategySort:
		if len(sets) != 1 {
			return nil, errors.Mark(
				errors.Newf("sort-merge grouping supports one grouping set, got %d", len(sets)),
				ErrUnsupportedShape)
		}
		log.Debug("grouping %d calls by %v with sort-merge", len(factories), []int(sets[0]))
		return NewSortedGroupIterator(src, sets[0], spec.Union(), factories, spec.Collation, cfg.CheckOrdering), nil
	case types.StrategyHash:
		log.Debug("grouping %d calls over %d grouping sets with hash", len(factories), len(sets))
		return NewHashGroupIterator(src, sets, factories), nil
	default:
		return nil, errors.Newf("unknown grouping strategy %q", strategy)
	}
}
