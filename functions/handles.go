package functions

import (
	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/types"
)

// AggregateHandles is the resolved operation table of a user-defined aggregate.
// The state value is opaque to the engine.
type AggregateHandles struct {
	// Static is true when the handles need no per-factory instance
	Static bool
	Init   func() (any, error)
	Add    func(acc any, value any) (any, error)
	Merge  func(a, b any) (any, error)
	Result func(acc any) (any, error)
}

// Aggregate is a typed user-defined aggregate over state S
type Aggregate[S any] interface {
	Init() S
	Add(acc S, value any) (S, error)
	Merge(a, b S) S
	Result(acc S) (any, error)
}

// TypedFunction wraps an Aggregate implementation. No reflection is involved.
type TypedFunction[S any] struct {
	*BaseFunction
	impl Aggregate[S]
}

// NewTypedFunction 创建类型化聚合函数
func NewTypedFunction[S any](name, description string, impl Aggregate[S]) *TypedFunction[S] {
	return &TypedFunction[S]{
		BaseFunction: NewBaseFunction(name, TypeTyped, description, 1, 1),
		impl:         impl,
	}
}

// Handles implements HandleFunction
func (f *TypedFunction[S]) Handles() (AggregateHandles, error) {
	impl := f.impl
	state := func(v any) (S, error) {
		s, ok := v.(S)
		if !ok {
			var zero S
			return zero, errors.Newf("%s: unexpected state type %T", f.GetName(), v)
		}
		return s, nil
	}
	return AggregateHandles{
		Static: true,
		Init: func() (acc any, err error) {
			defer f.recoverPanic("Init", &err)
			return impl.Init(), nil
		},
		Add: func(acc any, value any) (next any, err error) {
			defer f.recoverPanic("Add", &err)
			s, err := state(acc)
			if err != nil {
				return nil, err
			}
			return impl.Add(s, value)
		},
		Merge: func(a, b any) (merged any, err error) {
			defer f.recoverPanic("Merge", &err)
			sa, err := state(a)
			if err != nil {
				return nil, err
			}
			sb, err := state(b)
			if err != nil {
				return nil, err
			}
			return impl.Merge(sa, sb), nil
		},
		Result: func(acc any) (result any, err error) {
			defer f.recoverPanic("Result", &err)
			s, err := state(acc)
			if err != nil {
				return nil, err
			}
			return impl.Result(s)
		},
	}, nil
}

// recoverPanic turns a panic in a user method into an error
func (f *TypedFunction[S]) recoverPanic(method string, err *error) {
	if r := recover(); r != nil {
		*err = errors.Newf("%s: %s panicked: %v", f.GetName(), method, r)
	}
}

// RegisterAggregate registers a typed aggregate in r
func RegisterAggregate[S any](r *Registry, name, description string, impl Aggregate[S]) error {
	return r.Register(NewTypedFunction[S](name, description, impl))
}

// ExprFunction is a catalog entry defined by init/add/result expressions
type ExprFunction struct {
	*BaseFunction
	def types.ExprAggregate
}

// NewExprFunction 创建表达式聚合函数
func NewExprFunction(def types.ExprAggregate, description string) *ExprFunction {
	return &ExprFunction{
		BaseFunction: NewBaseFunction(def.Name, TypeExpression, description, 1, 1),
		def:          def,
	}
}

// Definition implements ExpressionFunction
func (f *ExprFunction) Definition() types.ExprAggregate {
	return f.def
}

// RegisterExpression registers an expression-defined aggregate in r
func RegisterExpression(r *Registry, def types.ExprAggregate, description string) error {
	if len(def.Init) == 0 {
		return errors.Newf("%s: at least one state slot is required", def.Name)
	}
	if len(def.Add) != len(def.Init) {
		return errors.Newf("%s: %d add expressions for %d state slots", def.Name, len(def.Add), len(def.Init))
	}
	return r.Register(NewExprFunction(def, description))
}
