package aggregator

import (
	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/types"
)

// Error classes. Test with errors.Is.
var (
	// ErrUnsupportedShape marks a call whose operand count or type has no strategy.
	// Raised while building factories.
	ErrUnsupportedShape = errors.New("unsupported aggregate shape")
	// ErrCompilation marks a failure to build the compiled update routine
	ErrCompilation = errors.New("aggregate compilation failed")
	// ErrInvocation marks a failure inside an accumulator while absorbing or finalizing
	ErrInvocation = errors.New("aggregate invocation failed")
	// ErrUnknownAggregate marks a function name the catalog cannot resolve
	ErrUnknownAggregate = errors.New("unknown aggregate function")
	// ErrUnsortedInput marks a sort-merge input that violates the promised collation
	ErrUnsortedInput = errors.New("input not sorted by group key")
)

func unsupportedShape(call types.AggregateCall, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(errors.Newf(format, args...), "%s", call), ErrUnsupportedShape)
}

func compilationError(call types.AggregateCall, err error) error {
	return errors.Mark(errors.Wrapf(err, "compile %s", call), ErrCompilation)
}

func invocationError(call types.AggregateCall, err error) error {
	return errors.Mark(errors.Wrapf(err, "%s", call), ErrInvocation)
}
