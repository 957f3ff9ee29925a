package functions

import (
	"math"

	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// 表达式定义的内置聚合
var builtinExpressions = []struct {
	def         types.ExprAggregate
	description string
}{
	{types.ExprAggregate{Name: "product", Init: []string{"1"}, Add: []string{"acc[0] * arg"}}, "乘积"},
	{types.ExprAggregate{Name: "sum_sq", Init: []string{"0"}, Add: []string{"acc[0] + arg * arg"}}, "平方和"},
	{types.ExprAggregate{Name: "bool_and", Init: []string{"true"}, Add: []string{"acc[0] && arg"}}, "逻辑与"},
	{types.ExprAggregate{Name: "bool_or", Init: []string{"false"}, Add: []string{"acc[0] || arg"}}, "逻辑或"},
	{types.ExprAggregate{Name: "concat_agg", Init: []string{`""`}, Add: []string{"acc[0] + string(arg)"}}, "字符串拼接"},
	{types.ExprAggregate{
		Name: "spread",
		Init: []string{"nil", "nil"},
		Add: []string{
			"acc[0] == nil || arg < acc[0] ? arg : acc[0]",
			"acc[1] == nil || arg > acc[1] ? arg : acc[1]",
		},
		Result: "acc[0] == nil ? nil : acc[1] - acc[0]",
	}, "最大值与最小值之差"},
}

// welford is the running state of variance aggregates
type welford struct {
	n    int64
	mean float64
	m2   float64
}

// varianceAggregate computes population or sample variance with Welford's update
type varianceAggregate struct {
	sample bool
	sqrt   bool
}

func (v varianceAggregate) Init() welford {
	return welford{}
}

func (v varianceAggregate) Add(acc welford, value any) (welford, error) {
	x, err := cast.ToFloat64E(value)
	if err != nil {
		return acc, err
	}
	acc.n++
	delta := x - acc.mean
	acc.mean += delta / float64(acc.n)
	acc.m2 += delta * (x - acc.mean)
	return acc, nil
}

// Merge combines two partial states (Chan et al.)
func (v varianceAggregate) Merge(a, b welford) welford {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	n := a.n + b.n
	delta := b.mean - a.mean
	return welford{
		n:    n,
		mean: a.mean + delta*float64(b.n)/float64(n),
		m2:   a.m2 + b.m2 + delta*delta*float64(a.n)*float64(b.n)/float64(n),
	}
}

func (v varianceAggregate) Result(acc welford) (any, error) {
	d := acc.n
	if v.sample {
		d--
	}
	if d <= 0 {
		return nil, nil
	}
	r := acc.m2 / float64(d)
	if v.sqrt {
		r = math.Sqrt(r)
	}
	return r, nil
}

func registerBuiltinAggregates(r *Registry) {
	for _, e := range builtinExpressions {
		_ = RegisterExpression(r, e.def, e.description)
	}
	_ = RegisterAggregate[welford](r, "var_pop", "总体方差", varianceAggregate{})
	_ = RegisterAggregate[welford](r, "var_samp", "样本方差", varianceAggregate{sample: true})
	_ = RegisterAggregate[welford](r, "stddev_pop", "总体标准差", varianceAggregate{sqrt: true})
	_ = RegisterAggregate[welford](r, "stddev_samp", "样本标准差", varianceAggregate{sample: true, sqrt: true})
	_ = RegisterAggregate[[]float64](r, "median", "中位数", medianAggregate{})
	_ = RegisterAggregate[[]any](r, "collect", "收集所有值组成数组", collectAggregate{})
	_ = RegisterAggregate[firstState](r, "first_value", "返回第一个值", firstValueAggregate{})
	_ = RegisterAggregate[firstState](r, "last_value", "返回最后一个值", lastValueAggregate{})
	_ = RegisterAggregate[dedupState](r, "deduplicate", "去除重复值", deduplicateAggregate{})
	_ = RegisterType(r, "geomean", "几何平均数", geomeanAggregate{})
}
