package aggregator

import (
	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/functions"
	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/types"
)

// Catalog resolves user-defined aggregates by name
type Catalog interface {
	Get(name string) (functions.AggregateFunction, bool)
}

// Resolver turns aggregate calls into accumulator factories.
// It runs once per query while the plan is built; every error it returns is terminal.
type Resolver struct {
	catalog   Catalog
	compiler  *Compiler
	precision int32
	log       logger.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithCatalog sets the catalog for OTHER aggregates
func WithCatalog(c Catalog) ResolverOption {
	return func(r *Resolver) {
		r.catalog = c
	}
}

// WithCompiler sets the code generation backend. Without one,
// expression aggregates fail to build.
func WithCompiler(c *Compiler) ResolverOption {
	return func(r *Resolver) {
		r.compiler = c
	}
}

// WithDecimalPrecision sets the scale of DECIMAL averages
func WithDecimalPrecision(precision int32) ResolverOption {
	return func(r *Resolver) {
		r.precision = precision
	}
}

// WithLogger sets the logger, the package default otherwise
func WithLogger(l logger.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a resolver backed by the default catalog
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog:   functions.Default(),
		precision: 16,
		log:       logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFactories resolves every call of spec, in call order
func (r *Resolver) NewFactories(spec types.AggregateSpec) ([]Factory, error) {
	factories := make([]Factory, len(spec.Calls))
	for i, call := range spec.Calls {
		f, err := r.NewFactory(call, spec.InputWidth)
		if err != nil {
			return nil, err
		}
		factories[i] = f
	}
	return factories, nil
}

// NewFactory selects the accumulator strategy for call.
// A FILTER is resolved first: the unfiltered call is resolved and then wrapped.
func (r *Resolver) NewFactory(call types.AggregateCall, inputWidth int) (Factory, error) {
	if call.HasFilter() {
		inner, err := r.NewFactory(call.WithoutFilter(), inputWidth)
		if err != nil {
			return nil, err
		}
		return newFilterFactory(call.FilterArg, inner), nil
	}

	r.log.Debug("resolving accumulator for %s", call)
	switch call.Kind {
	case types.Count:
		return newCountFactory(call), nil
	case types.Sum, types.Sum0:
		return newSumFactory(call)
	case types.Min, types.Max:
		return newMinMaxFactory(call)
	case types.Avg:
		return newAvgFactory(call, r.precision)
	default:
		return r.newOtherFactory(call, inputWidth)
	}
}

// newOtherFactory resolves aggregates without a built-in accumulator:
// an inline expression definition, then the catalog.
func (r *Resolver) newOtherFactory(call types.AggregateCall, inputWidth int) (Factory, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "custom aggregate takes exactly one operand, got %d", len(call.Args))
	}
	if call.Inline != nil {
		return r.newCompiledFactory(call, *call.Inline, inputWidth)
	}
	if r.catalog == nil {
		return nil, errors.Mark(errors.Newf("%s: no catalog configured", call), ErrUnknownAggregate)
	}
	fn, ok := r.catalog.Get(call.FunctionName())
	if !ok {
		return nil, errors.Mark(errors.Newf("%s: function %q not found", call, call.FunctionName()), ErrUnknownAggregate)
	}
	if err := fn.ValidateArgCount(len(call.Args)); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", call), ErrUnsupportedShape)
	}

	switch f := fn.(type) {
	case functions.ExpressionFunction:
		return r.newCompiledFactory(call, f.Definition(), inputWidth)
	case functions.HandleFunction:
		handles, err := f.Handles()
		if err != nil {
			return nil, invocationError(call, err)
		}
		r.log.Debug("%s resolved to %s handles, static=%v", call, fn.GetType(), handles.Static)
		return newUdaFactory(call, handles, false)
	default:
		return nil, unsupportedShape(call, "catalog entry %s of type %s cannot be executed", fn.GetName(), fn.GetType())
	}
}

func (r *Resolver) newCompiledFactory(call types.AggregateCall, def types.ExprAggregate, inputWidth int) (Factory, error) {
	if r.compiler == nil {
		return nil, compilationError(call, errors.New("no code generation backend configured"))
	}
	compiled, err := r.compiler.Build(call, def, inputWidth)
	if err != nil {
		r.log.Warn("failed to build %s: %v", call, err)
		return nil, err
	}
	return newScalarFactory(compiled), nil
}
