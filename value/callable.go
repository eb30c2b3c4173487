package value

import (
	"github.com/dynobj/dynobj-go/internal/errors"
)

// Callable is implemented by functions stored in Callable-kind values.
//
// The receiver is the value the callable was invoked through. It is nil for
// plain calls, the enclosing map for CallMethod, and the bound value for
// callables created with Bind.
//
// Example implementation:
//
//	type counter struct{}
//
//	func (counter) Call(arg Value, receiver *Value) (Value, error) {
//	    count, err := receiver.Entry("count")
//	    if err != nil {
//	        return None(), err
//	    }
//	    return count.PostInc()
//	}
type Callable interface {
	Call(arg Value, receiver *Value) (Value, error)
}

// CallableFunc adapts an ordinary function to the Callable interface.
type CallableFunc func(arg Value, receiver *Value) (Value, error)

// Call calls f(arg, receiver).
func (f CallableFunc) Call(arg Value, receiver *Value) (Value, error) {
	return f(arg, receiver)
}

// callable is the payload of Callable-kind values. The receiver field
// replaces a reserved map key for binding a function to its container.
type callable struct {
	fn       Callable
	receiver *Value
}

// FromCallable creates a Value from a Callable. A nil Callable yields None.
//
// Example usage:
//
//	inc := FromCallable(CallableFunc(func(arg Value, _ *Value) (Value, error) {
//	    return arg.Add(FromInt(1))
//	}))
//	out, _ := inc.Call(FromInt(2), nil) // 3
func FromCallable(c Callable) Value {
	if c == nil {
		return None()
	}
	return Value{data: &callable{fn: c}}
}

// FromFunc creates a Value from a plain function.
func FromFunc(f func(arg Value, receiver *Value) (Value, error)) Value {
	if f == nil {
		return None()
	}
	return FromCallable(CallableFunc(f))
}

// Bind creates a Callable value that passes receiver to c whenever it is
// called without an explicit receiver.
func Bind(c Callable, receiver *Value) Value {
	if c == nil {
		return None()
	}
	return Value{data: &callable{fn: c, receiver: receiver}}
}

// AsCallable returns the function of a Callable value.
func (v Value) AsCallable() (Callable, error) {
	if c, ok := v.data.(*callable); ok {
		return c.fn, nil
	}
	return nil, conversionError("callable", v)
}

// Receiver returns the bound receiver of a Callable value, or nil.
func (v Value) Receiver() *Value {
	if c, ok := v.data.(*callable); ok {
		return c.receiver
	}
	return nil
}

// Call invokes a Callable value with arg and receiver and returns its
// result. A nil receiver falls back to the bound receiver, if any. Calling
// any other kind fails with a type error.
func (v Value) Call(arg Value, receiver *Value) (Value, error) {
	c, ok := v.data.(*callable)
	if !ok {
		return None(), errors.Newf(errors.ErrTypeError, "cannot call %s", v.Kind())
	}
	if receiver == nil {
		receiver = c.receiver
	}
	return c.fn.Call(arg, receiver)
}

// CallMethod invokes the Callable stored under name in a Map value, passing
// the map itself as the receiver. This gives the callable access to its
// own container:
//
//	var obj Value
//	_ = obj.Set("count", FromInt(0))
//	_ = obj.Set("bump", FromCallable(counter{}))
//	_, _ = obj.CallMethod("bump", None()) // obj["count"] is now 1
func (v *Value) CallMethod(name string, arg Value) (Value, error) {
	d, ok := v.data.(*dict)
	if !ok {
		return None(), errors.Newf(errors.ErrTypeError, "cannot call method %q on %s", name, v.Kind())
	}
	slot, exists := d.entries[name]
	if !exists {
		return None(), errors.Newf(errors.ErrOutOfRange, "method %q not found", name)
	}
	c, ok := slot.data.(*callable)
	if !ok {
		return None(), errors.Newf(errors.ErrTypeError, "method %q is %s, not callable", name, slot.Kind())
	}
	return c.fn.Call(arg, v)
}
