package functions

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ReflectiveFunction resolves the Init, Add, Merge and Result methods of a Go type once.
// Supported shapes, where S is the state type and R any result type:
//
//	Init() S
//	Add(acc S, value V) S            or (S, error)
//	Merge(a, b S) S                  or (S, error)
//	Result(acc S) R                  or (R, error)
//
// Zero-size types are invoked statically. Other types get a fresh zero
// instance for every factory built from the catalog entry.
type ReflectiveFunction struct {
	*BaseFunction
	typ       reflect.Type
	stateType reflect.Type
	valueType reflect.Type
	static    *reflect.Value
	init      reflect.Method
	add       reflect.Method
	merge     reflect.Method
	result    reflect.Method
}

// NewReflectiveFunction inspects prototype and validates its method set
func NewReflectiveFunction(name, description string, prototype any) (*ReflectiveFunction, error) {
	if prototype == nil {
		return nil, errors.Newf("%s: prototype must not be nil", name)
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	pt := reflect.PointerTo(t)
	f := &ReflectiveFunction{
		BaseFunction: NewBaseFunction(name, TypeReflective, description, 1, 1),
		typ:          t,
	}

	lookup := func(method string, numIn int) (reflect.Method, error) {
		m, ok := pt.MethodByName(method)
		if !ok {
			return m, errors.Newf("%s: type %s has no %s method", name, t, method)
		}
		// the receiver is the first input
		if m.Type.NumIn() != numIn+1 {
			return m, errors.Newf("%s: %s.%s takes %d arguments, want %d", name, t, method, m.Type.NumIn()-1, numIn)
		}
		switch m.Type.NumOut() {
		case 1:
		case 2:
			if m.Type.Out(1) != errorType {
				return m, errors.Newf("%s: second result of %s.%s must be error", name, t, method)
			}
		default:
			return m, errors.Newf("%s: %s.%s must return one value and an optional error", name, t, method)
		}
		return m, nil
	}

	var err error
	if f.init, err = lookup("Init", 0); err != nil {
		return nil, err
	}
	if f.add, err = lookup("Add", 2); err != nil {
		return nil, err
	}
	if f.merge, err = lookup("Merge", 2); err != nil {
		return nil, err
	}
	if f.result, err = lookup("Result", 1); err != nil {
		return nil, err
	}

	f.stateType = f.init.Type.Out(0)
	f.valueType = f.add.Type.In(2)
	if f.add.Type.In(1) != f.stateType || f.add.Type.Out(0) != f.stateType {
		return nil, errors.Newf("%s: Add must take and return the state type %s", name, f.stateType)
	}
	if f.merge.Type.In(1) != f.stateType || f.merge.Type.In(2) != f.stateType || f.merge.Type.Out(0) != f.stateType {
		return nil, errors.Newf("%s: Merge must combine two %s states", name, f.stateType)
	}
	if f.result.Type.In(1) != f.stateType {
		return nil, errors.Newf("%s: Result must take the state type %s", name, f.stateType)
	}

	if t.Size() == 0 {
		recv := reflect.New(t)
		f.static = &recv
	}
	return f, nil
}

// RegisterType registers a reflective aggregate in r
func RegisterType(r *Registry, name, description string, prototype any) error {
	fn, err := NewReflectiveFunction(name, description, prototype)
	if err != nil {
		return err
	}
	return r.Register(fn)
}

// IsStatic reports whether the methods are invoked without a dedicated instance
func (f *ReflectiveFunction) IsStatic() bool {
	return f.static != nil
}

// Handles implements HandleFunction
func (f *ReflectiveFunction) Handles() (AggregateHandles, error) {
	var recv reflect.Value
	if f.static != nil {
		recv = *f.static
	} else {
		recv = reflect.New(f.typ)
	}

	return AggregateHandles{
		Static: f.static != nil,
		Init: func() (any, error) {
			return f.invoke(f.init, recv)
		},
		Add: func(acc any, value any) (any, error) {
			s, err := f.argument(acc, f.stateType)
			if err != nil {
				return nil, err
			}
			v, err := f.argument(value, f.valueType)
			if err != nil {
				return nil, err
			}
			return f.invoke(f.add, recv, s, v)
		},
		Merge: func(a, b any) (any, error) {
			sa, err := f.argument(a, f.stateType)
			if err != nil {
				return nil, err
			}
			sb, err := f.argument(b, f.stateType)
			if err != nil {
				return nil, err
			}
			return f.invoke(f.merge, recv, sa, sb)
		},
		Result: func(acc any) (any, error) {
			s, err := f.argument(acc, f.stateType)
			if err != nil {
				return nil, err
			}
			return f.invoke(f.result, recv, s)
		},
	}, nil
}

func (f *ReflectiveFunction) argument(v any, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if isNumericKind(rv.Kind()) && isNumericKind(want.Kind()) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, errors.Newf("%s: cannot use %v (%T) as %s", f.GetName(), v, v, want)
}

func (f *ReflectiveFunction) invoke(m reflect.Method, recv reflect.Value, args ...reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("%s: %s.%s panicked: %v", f.GetName(), f.typ, m.Name, r)
		}
	}()
	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, recv)
	in = append(in, args...)
	out := m.Func.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, errors.Wrapf(out[1].Interface().(error), "%s.%s", f.typ, m.Name)
	}
	return out[0].Interface(), nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
