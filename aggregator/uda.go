package aggregator

import (
	"github.com/rulego/sqlagg/functions"
	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

// udaAccumulator drives a catalog aggregate through its resolved handles
type udaAccumulator struct {
	call        types.AggregateCall
	arg         int
	handles     *functions.AggregateHandles
	nullIfEmpty bool
	acc         any
	seen        bool
}

func (u *udaAccumulator) Send(row types.Row) error {
	v := row[u.arg]
	if v == nil {
		return nil
	}
	acc, err := u.handles.Add(u.acc, v)
	if err != nil {
		return invocationError(u.call, err)
	}
	u.acc = acc
	u.seen = true
	return nil
}

func (u *udaAccumulator) End() (any, error) {
	if !u.seen && u.nullIfEmpty {
		return nil, nil
	}
	r, err := u.handles.Result(u.acc)
	if err != nil {
		return nil, invocationError(u.call, err)
	}
	r, err = cast.Coerce(r, u.call.ResultType)
	if err != nil {
		return nil, invocationError(u.call, err)
	}
	return r, nil
}

// newUdaFactory binds handles resolved once at build time.
// Every accumulator starts from a fresh Init state.
func newUdaFactory(call types.AggregateCall, handles functions.AggregateHandles, nullIfEmpty bool) (Factory, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "user-defined aggregate takes exactly one operand, got %d", len(call.Args))
	}
	arg := call.Args[0]
	h := &handles
	return FactoryFunc(func() (Accumulator, error) {
		acc, err := h.Init()
		if err != nil {
			return nil, invocationError(call, err)
		}
		return &udaAccumulator{call: call, arg: arg, handles: h, nullIfEmpty: nullIfEmpty, acc: acc}, nil
	}), nil
}
