// Package value provides the dynamic value type of dynobj.
//
// The value package implements a small dynamic type system that lets
// statically typed Go code hold loosely structured data (configuration, JSON
// payloads, ad-hoc records) without declaring a schema upfront.
//
// # Core Concepts
//
// The Value type is the central type in this package. It holds exactly one
// of a closed set of payloads and provides methods for type checking,
// conversion, arithmetic, comparison, indexing and invocation. Values are
// created with constructor functions like FromInt, FromString, FromList or
// FromMap, or produced by the JSON parser.
//
// # Type System
//
// The following kinds exist:
//   - None: absence of a value (the zero Value)
//   - Int: 64-bit signed integers
//   - Double: 64-bit floating point numbers
//   - String: UTF-8 text
//   - List: ordered sequences of values
//   - Map: string-keyed mappings of values
//   - Callable: invocable functions, optionally bound to a receiver
//
// # Ownership
//
// Lists and maps own their elements and form a tree. Plain Go assignment
// copies the handle only, so both copies see the same container. Clone, Assign,
// Set, SetIndex, Append, FromList and FromMap deep-copy their input, which
// keeps the tree shape: a value never contains itself when built through them.
// The read accessors Get, Lookup and Index return deep copies; Entry, Path
// and At hand out the slots themselves for in-place writes.
//
// # Example Usage
//
//	var cfg value.Value
//	server, _ := cfg.Entry("server")
//	_ = server.Set("port", value.FromInt(8080))
//
//	port, _ := cfg.Lookup("server", "port")
//	n, _ := port.AsInt() // 8080
//
//	sum, err := value.FromInt(1).Add(value.FromFloat(0.5)) // 1.5
package value

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dynobj/dynobj-go/internal/errors"
)

// Epsilon is the tolerance used when comparing two doubles for equality.
const Epsilon = 1e-12

// Kind describes the type of a Value.
//
// Example usage:
//
//	val := FromString("hello")
//	if val.Kind() == KindString {
//	    s, _ := val.AsString()
//	    fmt.Println("String:", s)
//	}
type Kind int

const (
	// KindNone represents the absence of a value.
	//
	// None is the zero Value and the result of JSON null.
	KindNone Kind = iota

	// KindInt represents a 64-bit signed integer.
	KindInt

	// KindString represents a text string.
	KindString

	// KindDouble represents a 64-bit floating point number.
	KindDouble

	// KindMap represents a mapping from string keys to values.
	//
	// Key order is not significant; rendering and Keys sort the keys.
	KindMap

	// KindList represents an ordered sequence of values.
	KindList

	// KindCallable represents an invocable function.
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindDouble:
		return "double"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value represents a dynamically typed value.
//
// The payload is one of a sealed set of Go types: nil (none), int64, float64,
// string, *list, *dict or *callable. Kind is derived from the payload type
// so the two can never disagree.
//
// # Creating Values
//
//	num := FromInt(42)
//	str := FromString("hello")
//	items := FromList([]Value{num, str})
//	dict := FromMap(map[string]Value{"key": str})
//
// # Type Conversion
//
// Use As* methods to convert to Go types. They fail with a type error
// when the kind does not match:
//
//	if i, err := val.AsInt(); err == nil {
//	    fmt.Println("Integer value:", i)
//	}
//
// # Operations
//
// Values support the operations defined in ops.go, index.go and callable.go:
//
//	result, err := val1.Add(val2)   // arithmetic
//	less, err := val1.Less(val2)    // ordering
//	slot, err := val.Entry("key")   // auto-vivifying map access
//	out, err := fn.Call(arg, nil)   // invocation
type Value struct {
	data any
}

type list struct {
	items []*Value
}

type dict struct {
	entries map[string]*Value
}

func newDict(size int) *dict {
	return &dict{entries: make(map[string]*Value, size)}
}

// None returns the none value. It is identical to the zero Value.
func None() Value {
	return Value{}
}

// IsNone reports whether v has kind None.
func IsNone(v Value) bool {
	return v.data == nil
}

// FromInt creates a Value from an int64.
func FromInt(v int64) Value {
	return Value{data: v}
}

// FromFloat creates a Value from a float64.
//
// Special values like infinity and NaN are kept as they are.
func FromFloat(v float64) Value {
	return Value{data: v}
}

// FromString creates a Value from a string.
func FromString(v string) Value {
	return Value{data: v}
}

// FromList creates a List value holding deep copies of items.
//
// Example usage:
//
//	items := FromList([]Value{
//	    FromString("apple"),
//	    FromString("banana"),
//	})
func FromList(items []Value) Value {
	l := &list{items: make([]*Value, len(items))}
	for i, item := range items {
		c := item.Clone()
		l.items[i] = &c
	}
	return Value{data: l}
}

// OwnList creates a List value that takes ownership of items without
// copying them. The caller must not use items afterwards.
func OwnList(items []Value) Value {
	l := &list{items: make([]*Value, len(items))}
	for i := range items {
		l.items[i] = &items[i]
	}
	return Value{data: l}
}

// FromMap creates a Map value holding deep copies of m's entries.
//
// Example usage:
//
//	user := FromMap(map[string]Value{
//	    "name": FromString("Alice"),
//	    "age":  FromInt(30),
//	})
func FromMap(m map[string]Value) Value {
	d := newDict(len(m))
	for k, v := range m {
		c := v.Clone()
		d.entries[k] = &c
	}
	return Value{data: d}
}

// OwnMap creates a Map value that takes ownership of m's entries without
// copying them. The caller must not use m afterwards.
func OwnMap(m map[string]Value) Value {
	d := newDict(len(m))
	for k, v := range m {
		d.entries[k] = &v
	}
	return Value{data: d}
}

// EmptyList returns a new List value with no elements.
func EmptyList() Value {
	return Value{data: &list{}}
}

// EmptyMap returns a new Map value with no entries.
func EmptyMap() Value {
	return Value{data: newDict(0)}
}

// FromAny creates a Value from a Go value using reflection.
//
// FromAny converts Go types to their corresponding kinds:
//   - nil, nil pointers and nil interfaces -> None
//   - bool -> Int (1 or 0)
//   - int and uint types -> Int (uints above math.MaxInt64 fail with a type error)
//   - float types -> Double
//   - string -> String
//   - slices and arrays -> List (recursively)
//   - maps -> Map (recursively, keys formatted with %v)
//   - structs -> Map (exported fields, honoring json tags)
//   - Value and Callable are used as they are
//
// Channels, complex numbers and functions other than Callable fail with a
// type error because they have no kind to map to.
func FromAny(v any) (Value, error) {
	if v == nil {
		return None(), nil
	}
	switch d := v.(type) {
	case Value:
		return d, nil
	case Callable:
		return FromCallable(d), nil
	case func(Value, *Value) (Value, error):
		return FromFunc(d), nil
	}
	return fromReflectValue(reflect.ValueOf(v))
}

func fromReflectValue(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return None(), nil
	}
	if rv.CanInterface() {
		switch d := rv.Interface().(type) {
		case Value:
			return d, nil
		case Callable:
			if rv.Kind() != reflect.Ptr || !rv.IsNil() {
				return FromCallable(d), nil
			}
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return FromInt(1), nil
		}
		return FromInt(0), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return None(), errors.Newf(errors.ErrTypeError, "integer %d does not fit in 64 bits", u)
		}
		return FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float()), nil
	case reflect.String:
		return FromString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return None(), nil
		}
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := fromReflectValue(rv.Index(i))
			if err != nil {
				return None(), err
			}
			items[i] = item
		}
		return OwnList(items), nil
	case reflect.Map:
		if rv.IsNil() {
			return None(), nil
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			item, err := fromReflectValue(iter.Value())
			if err != nil {
				return None(), err
			}
			m[key] = item
		}
		return OwnMap(m), nil
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return None(), nil
		}
		return fromReflectValue(rv.Elem())
	default:
		return None(), errors.Newf(errors.ErrTypeError, "cannot convert Go type %s to a value", rv.Type())
	}
}

func fromStruct(rv reflect.Value) (Value, error) {
	t := rv.Type()
	m := make(map[string]Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		item, err := fromReflectValue(rv.Field(i))
		if err != nil {
			return None(), err
		}
		m[name] = item
	}
	return OwnMap(m), nil
}

// Kind returns the kind of value.
func (v Value) Kind() Kind {
	switch v.data.(type) {
	case nil:
		return KindNone
	case int64:
		return KindInt
	case float64:
		return KindDouble
	case string:
		return KindString
	case *dict:
		return KindMap
	case *list:
		return KindList
	case *callable:
		return KindCallable
	default:
		panic(fmt.Sprintf("value: invalid payload %T", v.data))
	}
}

// IsNone returns true if the value is none.
func (v Value) IsNone() bool {
	return v.data == nil
}

// Clone returns a deep copy of the value.
//
// Lists and maps are copied recursively. Callables share the function and
// the bound receiver.
func (v Value) Clone() Value {
	switch d := v.data.(type) {
	case *list:
		l := &list{items: make([]*Value, len(d.items))}
		for i, item := range d.items {
			c := item.Clone()
			l.items[i] = &c
		}
		return Value{data: l}
	case *dict:
		n := newDict(len(d.entries))
		for k, item := range d.entries {
			c := item.Clone()
			n.entries[k] = &c
		}
		return Value{data: n}
	default:
		return v
	}
}

// Assign replaces v with a deep copy of src. Assigning a value to itself or
// to one of its own children is safe because the copy is taken first.
func (v *Value) Assign(src Value) {
	c := src.Clone()
	*v = c
}

func conversionError(target string, v Value) error {
	return errors.Newf(errors.ErrTypeError, "cannot convert %s to %s", v.Kind(), target)
}

// AsInt returns the integer payload. Only Int values convert.
func (v Value) AsInt() (int64, error) {
	if i, ok := v.data.(int64); ok {
		return i, nil
	}
	return 0, conversionError("int", v)
}

// AsFloat returns the numeric payload as a float64. Int values are
// promoted.
func (v Value) AsFloat() (float64, error) {
	switch d := v.data.(type) {
	case float64:
		return d, nil
	case int64:
		return float64(d), nil
	default:
		return 0, conversionError("double", v)
	}
}

// AsString returns the string payload. Only String values convert.
func (v Value) AsString() (string, error) {
	if s, ok := v.data.(string); ok {
		return s, nil
	}
	return "", conversionError("string", v)
}

// AsList returns the elements of a List value.
//
// The returned slice is fresh, but its elements share nested containers
// with v. Clone the result for a fully independent copy.
func (v Value) AsList() ([]Value, error) {
	l, ok := v.data.(*list)
	if !ok {
		return nil, conversionError("list", v)
	}
	out := make([]Value, len(l.items))
	for i, item := range l.items {
		out[i] = *item
	}
	return out, nil
}

// AsMap returns the entries of a Map value. Like AsList the map is fresh
// but nested containers are shared.
func (v Value) AsMap() (map[string]Value, error) {
	d, ok := v.data.(*dict)
	if !ok {
		return nil, conversionError("map", v)
	}
	out := make(map[string]Value, len(d.entries))
	for k, item := range d.entries {
		out[k] = *item
	}
	return out, nil
}

// Has reports whether a Map value contains key. It returns false for every
// other kind.
func (v Value) Has(key string) bool {
	if d, ok := v.data.(*dict); ok {
		_, exists := d.entries[key]
		return exists
	}
	return false
}

// Size returns the number of characters of a String, the number of
// elements of a List or the number of entries of a Map. Other kinds fail
// with a type error.
func (v Value) Size() (int, error) {
	switch d := v.data.(type) {
	case string:
		return utf8.RuneCountInString(d), nil
	case *list:
		return len(d.items), nil
	case *dict:
		return len(d.entries), nil
	default:
		return 0, errors.Newf(errors.ErrTypeError, "%s has no size", v.Kind())
	}
}

// Keys returns the sorted keys of a Map value, or nil for other kinds.
func (v Value) Keys() []string {
	d, ok := v.data.(*dict)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a human readable rendering of the value. Top-level strings
// render without quotes; everything nested renders like Repr.
func (v Value) String() string {
	if s, ok := v.data.(string); ok {
		return s
	}
	return v.Repr()
}

// Repr returns a debug representation of the value.
func (v Value) Repr() string {
	var sb strings.Builder
	v.writeRepr(&sb)
	return sb.String()
}

func (v Value) writeRepr(sb *strings.Builder) {
	switch d := v.data.(type) {
	case nil:
		sb.WriteString("none")
	case int64:
		sb.WriteString(strconv.FormatInt(d, 10))
	case float64:
		sb.WriteString(formatFloat(d))
	case string:
		sb.WriteString(strconv.Quote(d))
	case *list:
		sb.WriteByte('[')
		for i, item := range d.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeRepr(sb)
		}
		sb.WriteByte(']')
	case *dict:
		keys := v.Keys()
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			d.entries[k].writeRepr(sb)
		}
		sb.WriteByte('}')
	case *callable:
		if d.receiver != nil {
			sb.WriteString("<bound callable>")
		} else {
			sb.WriteString("<callable>")
		}
	}
}

func formatFloat(d float64) string {
	if math.IsInf(d, 1) {
		return "inf"
	}
	if math.IsInf(d, -1) {
		return "-inf"
	}
	if math.IsNaN(d) {
		return "nan"
	}
	if d == math.Trunc(d) && math.Abs(d) < 1e15 {
		return strconv.FormatFloat(d, 'f', 1, 64)
	}
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// WriteTo writes the String rendering of v to w.
func (v Value) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, v.String())
	return int64(n), err
}
