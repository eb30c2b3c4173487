package value

import (
	"github.com/dynobj/dynobj-go/internal/errors"
)

// Entry returns the slot for key, creating it when needed.
//
// A None value is first promoted in place to an empty Map, and a missing key
// is inserted with a None value. The returned pointer stays valid while the
// entry exists, so nested writes need no prior declaration:
//
//	var v Value
//	a, _ := v.Entry("a")
//	b, _ := a.Entry("b")
//	b.Assign(FromInt(1)) // v is now {"a": {"b": 1}}
//
// Any kind other than None or Map fails with a type error.
func (v *Value) Entry(key string) (*Value, error) {
	if v.data == nil {
		v.data = newDict(0)
	}
	d, ok := v.data.(*dict)
	if !ok {
		return nil, errors.Newf(errors.ErrTypeError, "cannot index %s with key %q", v.Kind(), key)
	}
	slot, exists := d.entries[key]
	if !exists {
		slot = &Value{}
		d.entries[key] = slot
	}
	return slot, nil
}

// Path walks keys with Entry, creating intermediate maps along the way, and
// returns the final slot.
func (v *Value) Path(keys ...string) (*Value, error) {
	cur := v
	for _, key := range keys {
		next, err := cur.Entry(key)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Get returns a deep copy of the entry for key. Writing to the result never
// changes v; use Entry or Path for in-place access.
//
// It fails with an out of range error when v is a Map without key, and
// with a type error when v is not a Map.
func (v Value) Get(key string) (Value, error) {
	slot, err := v.mapSlot(key)
	if err != nil {
		return None(), err
	}
	return slot.Clone(), nil
}

func (v Value) mapSlot(key string) (*Value, error) {
	d, ok := v.data.(*dict)
	if !ok {
		return nil, errors.Newf(errors.ErrTypeError, "cannot index %s with key %q", v.Kind(), key)
	}
	slot, exists := d.entries[key]
	if !exists {
		return nil, errors.Newf(errors.ErrOutOfRange, "key %q not found", key)
	}
	return slot, nil
}

// Lookup follows keys like Get and returns a deep copy of the final entry.
// Unlike Path it never creates entries.
func (v Value) Lookup(keys ...string) (Value, error) {
	cur := &v
	for _, key := range keys {
		next, err := cur.mapSlot(key)
		if err != nil {
			return None(), err
		}
		cur = next
	}
	return cur.Clone(), nil
}

// Set stores a deep copy of x under key, promoting a None v to a Map.
func (v *Value) Set(key string, x Value) error {
	c := x.Clone()
	slot, err := v.Entry(key)
	if err != nil {
		return err
	}
	*slot = c
	return nil
}

// Delete removes key from a Map value and reports whether it was present.
// It returns false for every other kind.
func (v *Value) Delete(key string) bool {
	d, ok := v.data.(*dict)
	if !ok {
		return false
	}
	if _, exists := d.entries[key]; !exists {
		return false
	}
	delete(d.entries, key)
	return true
}

func (v Value) listSlot(i int) (*Value, error) {
	l, ok := v.data.(*list)
	if !ok {
		return nil, errors.Newf(errors.ErrTypeError, "cannot index %s with integer %d", v.Kind(), i)
	}
	if i < 0 || i >= len(l.items) {
		return nil, errors.Newf(errors.ErrOutOfRange, "index %d out of range for list of size %d", i, len(l.items))
	}
	return l.items[i], nil
}

// At returns the slot at index i of a List value for in-place writes.
//
// Indexes outside [0, size) fail with an out of range error; lists never
// grow through At. Use Append to add elements.
func (v *Value) At(i int) (*Value, error) {
	return v.listSlot(i)
}

// Index returns a deep copy of the element at index i of a List value.
// Use At to modify the element in place.
func (v Value) Index(i int) (Value, error) {
	slot, err := v.listSlot(i)
	if err != nil {
		return None(), err
	}
	return slot.Clone(), nil
}

// SetIndex replaces the element at index i with a deep copy of x.
func (v *Value) SetIndex(i int, x Value) error {
	c := x.Clone()
	slot, err := v.listSlot(i)
	if err != nil {
		return err
	}
	*slot = c
	return nil
}

// Append adds deep copies of xs to the end of a List value. A None v is
// promoted to an empty List first.
func (v *Value) Append(xs ...Value) error {
	copies := make([]*Value, len(xs))
	for i, x := range xs {
		c := x.Clone()
		copies[i] = &c
	}
	if v.data == nil {
		v.data = &list{}
	}
	l, ok := v.data.(*list)
	if !ok {
		return errors.Newf(errors.ErrTypeError, "cannot append to %s", v.Kind())
	}
	l.items = append(l.items, copies...)
	return nil
}
