package aggregator

import (
	"context"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/rulego/sqlagg/types"
)

type hashGroup struct {
	key  types.Row
	accs AccumulatorList
}

// HashGroupIterator aggregates every grouping set at once without any ordering
// requirement on the input. Groups are buffered until the input is exhausted, then
// emitted set by set, each set in first-seen key order.
type HashGroupIterator struct {
	src       Source
	sets      []types.GroupSet
	layouts   []outputLayout
	factories []Factory
	groups    []*linkedhashmap.Map

	drained bool
	setIdx  int
	it      linkedhashmap.Iterator
}

// NewHashGroupIterator creates a hash iterator over one or more grouping sets
func NewHashGroupIterator(src Source, sets []types.GroupSet, factories []Factory) *HashGroupIterator {
	union := types.UnionGroupSets(sets)
	h := &HashGroupIterator{
		src:       src,
		sets:      sets,
		layouts:   make([]outputLayout, len(sets)),
		factories: factories,
		groups:    make([]*linkedhashmap.Map, len(sets)),
	}
	for i, set := range sets {
		h.layouts[i] = newOutputLayout(set, union, len(factories))
		h.groups[i] = linkedhashmap.New()
	}
	return h
}

// Groups returns the number of buffered groups across all sets
func (h *HashGroupIterator) Groups() int {
	n := 0
	for _, m := range h.groups {
		n += m.Size()
	}
	return n
}

func (h *HashGroupIterator) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := h.src.Next(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		for i, set := range h.sets {
			key := row.Project(set)
			encoded := types.EncodeKey(key)
			var g *hashGroup
			if v, found := h.groups[i].Get(encoded); found {
				g = v.(*hashGroup)
			} else {
				accs, err := NewAccumulatorList(h.factories)
				if err != nil {
					return err
				}
				g = &hashGroup{key: key, accs: accs}
				h.groups[i].Put(encoded, g)
			}
			if err := g.accs.Send(row); err != nil {
				return err
			}
		}
	}
}

// Next consumes the whole input on the first call, then returns one group per call
func (h *HashGroupIterator) Next(ctx context.Context) (types.Row, error) {
	if !h.drained {
		if err := h.drain(ctx); err != nil {
			return nil, err
		}
		h.drained = true
		if len(h.groups) > 0 {
			h.it = h.groups[0].Iterator()
		}
	}
	for h.setIdx < len(h.groups) {
		if h.it.Next() {
			g := h.it.Value().(*hashGroup)
			return h.layouts[h.setIdx].emit(g.key, g.accs)
		}
		// release the drained set before moving on
		h.groups[h.setIdx].Clear()
		h.setIdx++
		if h.setIdx < len(h.groups) {
			h.it = h.groups[h.setIdx].Iterator()
		}
	}
	return nil, nil
}
