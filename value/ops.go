package value

import (
	"math"

	"github.com/dynobj/dynobj-go/internal/errors"
)

// numPair holds two numeric operands after promotion. When ints is set the
// integer fields are valid, otherwise the float fields are.
type numPair struct {
	ai, bi int64
	af, bf float64
	ints   bool
}

// promote applies the numeric promotion rule: Int op Int stays Int, any
// Double operand makes both Double.
func promote(a, b Value) (numPair, bool) {
	switch x := a.data.(type) {
	case int64:
		switch y := b.data.(type) {
		case int64:
			return numPair{ai: x, bi: y, ints: true}, true
		case float64:
			return numPair{af: float64(x), bf: y}, true
		}
	case float64:
		switch y := b.data.(type) {
		case int64:
			return numPair{af: x, bf: float64(y)}, true
		case float64:
			return numPair{af: x, bf: y}, true
		}
	}
	return numPair{}, false
}

// Neg performs unary negation.
func (v Value) Neg() (Value, error) {
	switch d := v.data.(type) {
	case int64:
		return FromInt(-d), nil
	case float64:
		return FromFloat(-d), nil
	default:
		return None(), errors.Newf(errors.ErrTypeError, "cannot negate %s", v.Kind())
	}
}

// Add performs numeric addition, string concatenation or list
// concatenation. Concatenated list elements are deep copies.
func (v Value) Add(other Value) (Value, error) {
	if p, ok := promote(v, other); ok {
		if p.ints {
			return FromInt(p.ai + p.bi), nil
		}
		return FromFloat(p.af + p.bf), nil
	}

	switch a := v.data.(type) {
	case string:
		if b, ok := other.data.(string); ok {
			return FromString(a + b), nil
		}
	case *list:
		if b, ok := other.data.(*list); ok {
			l := &list{items: make([]*Value, 0, len(a.items)+len(b.items))}
			for _, item := range a.items {
				c := item.Clone()
				l.items = append(l.items, &c)
			}
			for _, item := range b.items {
				c := item.Clone()
				l.items = append(l.items, &c)
			}
			return Value{data: l}, nil
		}
	}

	return None(), errors.Newf(errors.ErrTypeError, "cannot add %s and %s", v.Kind(), other.Kind())
}

// Sub performs subtraction.
func (v Value) Sub(other Value) (Value, error) {
	if p, ok := promote(v, other); ok {
		if p.ints {
			return FromInt(p.ai - p.bi), nil
		}
		return FromFloat(p.af - p.bf), nil
	}
	return None(), errors.Newf(errors.ErrTypeError, "cannot subtract %s from %s", other.Kind(), v.Kind())
}

// Mul performs multiplication.
func (v Value) Mul(other Value) (Value, error) {
	if p, ok := promote(v, other); ok {
		if p.ints {
			return FromInt(p.ai * p.bi), nil
		}
		return FromFloat(p.af * p.bf), nil
	}
	return None(), errors.Newf(errors.ErrTypeError, "cannot multiply %s and %s", v.Kind(), other.Kind())
}

// Div performs division.
//
// Integer division truncates toward zero and fails with an out of range
// error when the divisor is zero. Double division follows IEEE 754 and
// yields inf or nan instead of failing.
func (v Value) Div(other Value) (Value, error) {
	if p, ok := promote(v, other); ok {
		if p.ints {
			if p.bi == 0 {
				return None(), errors.New(errors.ErrOutOfRange, "division by zero")
			}
			return FromInt(p.ai / p.bi), nil
		}
		return FromFloat(p.af / p.bf), nil
	}
	return None(), errors.Newf(errors.ErrTypeError, "cannot divide %s by %s", v.Kind(), other.Kind())
}

// AddAssign replaces v with v + other. On error v is left unchanged.
func (v *Value) AddAssign(other Value) error {
	return v.assignResult(v.Add(other))
}

// SubAssign replaces v with v - other. On error v is left unchanged.
func (v *Value) SubAssign(other Value) error {
	return v.assignResult(v.Sub(other))
}

// MulAssign replaces v with v * other. On error v is left unchanged.
func (v *Value) MulAssign(other Value) error {
	return v.assignResult(v.Mul(other))
}

// DivAssign replaces v with v / other. On error v is left unchanged.
func (v *Value) DivAssign(other Value) error {
	return v.assignResult(v.Div(other))
}

func (v *Value) assignResult(result Value, err error) error {
	if err != nil {
		return err
	}
	*v = result
	return nil
}

func floatEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < Epsilon
}

// Equal returns true if two values are equal.
//
// Values of different kinds are never equal, so FromInt(1) does not equal
// FromFloat(1). Doubles compare within Epsilon. Strings, lists and maps
// compare structurally. Callables are equal only to the same callable
// (or a copy of it).
func (v Value) Equal(other Value) bool {
	switch a := v.data.(type) {
	case nil:
		return other.data == nil
	case int64:
		b, ok := other.data.(int64)
		return ok && a == b
	case float64:
		b, ok := other.data.(float64)
		return ok && floatEqual(a, b)
	case string:
		b, ok := other.data.(string)
		return ok && a == b
	case *list:
		b, ok := other.data.(*list)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !a.items[i].Equal(*b.items[i]) {
				return false
			}
		}
		return true
	case *dict:
		b, ok := other.data.(*dict)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if len(a.entries) != len(b.entries) {
			return false
		}
		for k, item := range a.entries {
			if o, exists := b.entries[k]; !exists || !item.Equal(*o) {
				return false
			}
		}
		return true
	case *callable:
		b, ok := other.data.(*callable)
		return ok && a == b
	}
	return false
}

// NotEqual is the negation of Equal.
func (v Value) NotEqual(other Value) bool {
	return !v.Equal(other)
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
//
// Only numeric kinds are ordered; they are promoted like in arithmetic.
// Doubles within Epsilon of each other compare as equal. NaN has no
// position in the order, so comparing it fails with a type error, as does
// any other kind pairing.
func (v Value) Compare(other Value) (int, error) {
	cmp, unordered, err := v.order(other)
	if err != nil {
		return 0, err
	}
	if unordered {
		return 0, errors.New(errors.ErrTypeError, "cannot order nan")
	}
	return cmp, nil
}

// order is Compare without the NaN error. unordered is set when either
// operand is NaN.
func (v Value) order(other Value) (cmp int, unordered bool, err error) {
	p, ok := promote(v, other)
	if !ok {
		return 0, false, errors.Newf(errors.ErrTypeError, "cannot compare %s and %s", v.Kind(), other.Kind())
	}
	if p.ints {
		switch {
		case p.ai < p.bi:
			return -1, false, nil
		case p.ai > p.bi:
			return 1, false, nil
		}
		return 0, false, nil
	}
	switch {
	case math.IsNaN(p.af) || math.IsNaN(p.bf):
		return 0, true, nil
	case floatEqual(p.af, p.bf):
		return 0, false, nil
	case p.af < p.bf:
		return -1, false, nil
	}
	return 1, false, nil
}

// Less reports whether v < other. Like the other relational operators it
// is false when either side is NaN.
func (v Value) Less(other Value) (bool, error) {
	cmp, unordered, err := v.order(other)
	return err == nil && !unordered && cmp < 0, err
}

// Greater reports whether v > other.
func (v Value) Greater(other Value) (bool, error) {
	cmp, unordered, err := v.order(other)
	return err == nil && !unordered && cmp > 0, err
}

// LessEqual reports whether v <= other.
func (v Value) LessEqual(other Value) (bool, error) {
	cmp, unordered, err := v.order(other)
	return err == nil && !unordered && cmp <= 0, err
}

// GreaterEqual reports whether v >= other.
func (v Value) GreaterEqual(other Value) (bool, error) {
	cmp, unordered, err := v.order(other)
	return err == nil && !unordered && cmp >= 0, err
}

// Inc increments v in place and returns v (prefix increment).
func (v *Value) Inc() (*Value, error) {
	if err := v.step(1, "increment"); err != nil {
		return nil, err
	}
	return v, nil
}

// Dec decrements v in place and returns v (prefix decrement).
func (v *Value) Dec() (*Value, error) {
	if err := v.step(-1, "decrement"); err != nil {
		return nil, err
	}
	return v, nil
}

// PostInc increments v in place and returns the value it had before.
func (v *Value) PostInc() (Value, error) {
	old := *v
	if err := v.step(1, "increment"); err != nil {
		return None(), err
	}
	return old, nil
}

// PostDec decrements v in place and returns the value it had before.
func (v *Value) PostDec() (Value, error) {
	old := *v
	if err := v.step(-1, "decrement"); err != nil {
		return None(), err
	}
	return old, nil
}

func (v *Value) step(delta int64, op string) error {
	switch d := v.data.(type) {
	case int64:
		v.data = d + delta
	case float64:
		v.data = d + float64(delta)
	default:
		return errors.Newf(errors.ErrTypeError, "cannot %s %s", op, v.Kind())
	}
	return nil
}
