package functions

import (
	"sort"

	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// medianAggregate 中位数，需要缓存组内全部数值
type medianAggregate struct{}

func (medianAggregate) Init() []float64 {
	return nil
}

func (medianAggregate) Add(acc []float64, value any) ([]float64, error) {
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return acc, err
	}
	return append(acc, v), nil
}

func (medianAggregate) Merge(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func (medianAggregate) Result(acc []float64) (any, error) {
	if len(acc) == 0 {
		return nil, nil
	}
	values := make([]float64, len(acc))
	copy(values, acc)
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2, nil
	}
	return values[mid], nil
}

// collectAggregate 收集组内所有非空值组成数组
type collectAggregate struct{}

func (collectAggregate) Init() []any {
	return nil
}

func (collectAggregate) Add(acc []any, value any) ([]any, error) {
	return append(acc, value), nil
}

func (collectAggregate) Merge(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func (collectAggregate) Result(acc []any) (any, error) {
	result := make([]any, len(acc))
	copy(result, acc)
	return result, nil
}

type firstState struct {
	value    any
	hasValue bool
}

// firstValueAggregate 返回组中第一个非空值
type firstValueAggregate struct{}

func (firstValueAggregate) Init() firstState {
	return firstState{}
}

func (firstValueAggregate) Add(acc firstState, value any) (firstState, error) {
	if !acc.hasValue {
		acc.value, acc.hasValue = value, true
	}
	return acc, nil
}

func (firstValueAggregate) Merge(a, b firstState) firstState {
	if a.hasValue {
		return a
	}
	return b
}

func (firstValueAggregate) Result(acc firstState) (any, error) {
	return acc.value, nil
}

// lastValueAggregate 返回组中最后一个非空值
type lastValueAggregate struct{}

func (lastValueAggregate) Init() firstState {
	return firstState{}
}

func (lastValueAggregate) Add(acc firstState, value any) (firstState, error) {
	return firstState{value: value, hasValue: true}, nil
}

func (lastValueAggregate) Merge(a, b firstState) firstState {
	if b.hasValue {
		return b
	}
	return a
}

func (lastValueAggregate) Result(acc firstState) (any, error) {
	return acc.value, nil
}

type dedupState struct {
	seen   map[string]struct{}
	values []any
}

// deduplicateAggregate 去除重复值，保留首次出现的顺序。
// 数值相等的整数视为同一个值。
type deduplicateAggregate struct{}

func (deduplicateAggregate) Init() dedupState {
	return dedupState{seen: make(map[string]struct{})}
}

func (deduplicateAggregate) Add(acc dedupState, value any) (dedupState, error) {
	key := types.EncodeKey(types.Row{value})
	if _, ok := acc.seen[key]; !ok {
		acc.seen[key] = struct{}{}
		acc.values = append(acc.values, value)
	}
	return acc, nil
}

func (d deduplicateAggregate) Merge(a, b dedupState) dedupState {
	for _, v := range b.values {
		a, _ = d.Add(a, v)
	}
	return a
}

func (deduplicateAggregate) Result(acc dedupState) (any, error) {
	result := make([]any, len(acc.values))
	copy(result, acc.values)
	return result, nil
}
