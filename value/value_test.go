package value

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"testing"
)

// -----------------------------------------------------------------------------
// Construction and Kinds
// -----------------------------------------------------------------------------

func TestValueKind(t *testing.T) {
	fn := FromFunc(func(arg Value, _ *Value) (Value, error) { return arg, nil })
	tests := []struct {
		val  Value
		want Kind
	}{
		{Value{}, KindNone},
		{None(), KindNone},
		{FromInt(42), KindInt},
		{FromFloat(3.14), KindDouble},
		{FromString("hello"), KindString},
		{FromList(nil), KindList},
		{EmptyList(), KindList},
		{FromMap(nil), KindMap},
		{EmptyMap(), KindMap},
		{fn, KindCallable},
	}
	for _, tt := range tests {
		if got := tt.val.Kind(); got != tt.want {
			t.Errorf("Kind(%s) = %s, want %s", tt.val.Repr(), got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindNone:     "none",
		KindInt:      "int",
		KindString:   "string",
		KindDouble:   "double",
		KindMap:      "map",
		KindList:     "list",
		KindCallable: "callable",
		Kind(99):     "unknown",
	}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestNone(t *testing.T) {
	var zero Value
	if !zero.IsNone() || !IsNone(zero) {
		t.Error("zero Value should be none")
	}
	if !None().Equal(zero) {
		t.Error("None() should equal the zero Value")
	}
	if FromInt(0).IsNone() {
		t.Error("FromInt(0) should not be none")
	}
}

// -----------------------------------------------------------------------------
// Conversion
// -----------------------------------------------------------------------------

func TestConversionFromInt(t *testing.T) {
	v := FromInt(5)

	if n, err := v.AsInt(); err != nil || n != 5 {
		t.Errorf("AsInt() = %d, %v; want 5", n, err)
	}
	if f, err := v.AsFloat(); err != nil || f != 5.0 {
		t.Errorf("AsFloat() = %v, %v; want 5.0", f, err)
	}
	if _, err := v.AsString(); !IsTypeError(err) {
		t.Errorf("AsString() error = %v, want type error", err)
	}
	if _, err := v.AsList(); !IsTypeError(err) {
		t.Errorf("AsList() error = %v, want type error", err)
	}
	if _, err := v.AsMap(); !IsTypeError(err) {
		t.Errorf("AsMap() error = %v, want type error", err)
	}
	if _, err := v.AsCallable(); !IsTypeError(err) {
		t.Errorf("AsCallable() error = %v, want type error", err)
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		name string
		conv func() error
		msg  string
	}{
		{"double as int", func() error { _, err := FromFloat(1.0).AsInt(); return err }, "type error: cannot convert double to int"},
		{"string as double", func() error { _, err := FromString("1").AsFloat(); return err }, "type error: cannot convert string to double"},
		{"none as string", func() error { _, err := None().AsString(); return err }, "type error: cannot convert none to string"},
		{"map as list", func() error { _, err := EmptyMap().AsList(); return err }, "type error: cannot convert map to list"},
		{"list as map", func() error { _, err := EmptyList().AsMap(); return err }, "type error: cannot convert list to map"},
	}
	for _, tt := range tests {
		err := tt.conv()
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if got := err.Error(); got != tt.msg {
			t.Errorf("%s: error = %q, want %q", tt.name, got, tt.msg)
		}
	}
}

func TestAsListAndAsMap(t *testing.T) {
	l := FromList([]Value{FromInt(1), FromString("two")})
	items, err := l.AsList()
	if err != nil {
		t.Fatalf("AsList() error: %v", err)
	}
	if len(items) != 2 || !items[0].Equal(FromInt(1)) || !items[1].Equal(FromString("two")) {
		t.Errorf("AsList() = %v", items)
	}

	m := FromMap(map[string]Value{"a": FromInt(1)})
	entries, err := m.AsMap()
	if err != nil {
		t.Fatalf("AsMap() error: %v", err)
	}
	if len(entries) != 1 || !entries["a"].Equal(FromInt(1)) {
		t.Errorf("AsMap() = %v", entries)
	}

	// The returned map is fresh.
	entries["b"] = FromInt(2)
	if m.Has("b") {
		t.Error("adding to the AsMap result changed the value")
	}
}

func TestFromAny(t *testing.T) {
	type address struct {
		City string `json:"city"`
		Zip  string `json:"-"`
	}
	type person struct {
		Name    string
		Age     int `json:"age"`
		Emails  []string
		Address *address
		secret  string
	}

	tests := []struct {
		in   any
		want string
	}{
		{nil, "none"},
		{true, "1"},
		{false, "0"},
		{42, "42"},
		{uint8(7), "7"},
		{float32(0.5), "0.5"},
		{2.0, "2.0"},
		{"hi", `"hi"`},
		{[]int{1, 2}, "[1, 2]"},
		{[2]string{"a", "b"}, `["a", "b"]`},
		{[]int(nil), "none"},
		{map[string]int{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
		{map[int]bool{1: true}, `{"1": 1}`},
		{(*address)(nil), "none"},
		{&address{City: "Vienna", Zip: "1010"}, `{"city": "Vienna"}`},
		{person{Name: "Ann", Age: 30, secret: "x"}, `{"Address": none, "Emails": none, "Name": "Ann", "age": 30}`},
		{FromInt(3), "3"},
		{[]any{1, "x", nil, []any{2.5}}, `[1, "x", none, [2.5]]`},
	}

	for _, tt := range tests {
		v, err := FromAny(tt.in)
		if err != nil {
			t.Errorf("FromAny(%#v) error: %v", tt.in, err)
			continue
		}
		if got := v.Repr(); got != tt.want {
			t.Errorf("FromAny(%#v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFromAnyCallable(t *testing.T) {
	fn := func(arg Value, _ *Value) (Value, error) { return arg.Add(FromInt(1)) }
	v, err := FromAny(fn)
	if err != nil {
		t.Fatalf("FromAny(func) error: %v", err)
	}
	out, err := v.Call(FromInt(1), nil)
	if err != nil || !out.Equal(FromInt(2)) {
		t.Errorf("Call(1) = %s, %v; want 2", out.Repr(), err)
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	for _, in := range []any{
		make(chan int),
		complex(1, 2),
		func() {},
		[]any{make(chan int)},
		uint64(math.MaxUint64),
		map[string]any{"big": uint64(1 << 63)},
	} {
		v, err := FromAny(in)
		if !IsTypeError(err) {
			t.Errorf("FromAny(%T) error = %v, want type error", in, err)
		}
		if !v.IsNone() {
			t.Errorf("FromAny(%T) = %s, want none", in, v.Repr())
		}
	}
}

func TestFromAnyUnsignedLimit(t *testing.T) {
	v, err := FromAny(uint64(math.MaxInt64))
	if err != nil {
		t.Fatalf("FromAny(MaxInt64) error: %v", err)
	}
	if !v.Equal(FromInt(math.MaxInt64)) {
		t.Errorf("FromAny(MaxInt64) = %s", v.Repr())
	}

	_, err = FromAny(uint64(math.MaxInt64) + 1)
	if err == nil || err.Error() != "type error: integer 9223372036854775808 does not fit in 64 bits" {
		t.Errorf("FromAny(MaxInt64+1) error = %v", err)
	}
}

// -----------------------------------------------------------------------------
// Ownership
// -----------------------------------------------------------------------------

func TestCloneIndependence(t *testing.T) {
	orig, _ := FromAny(map[string]any{
		"list": []any{1, 2},
		"map":  map[string]any{"k": "v"},
	})

	clone := orig.Clone()
	if !clone.Equal(orig) {
		t.Fatalf("clone %s differs from original %s", clone.Repr(), orig.Repr())
	}

	l, _ := clone.Path("list")
	if err := l.Append(FromInt(3)); err != nil {
		t.Fatal(err)
	}
	k, _ := clone.Path("map", "k")
	k.Assign(FromString("changed"))

	if got := orig.Repr(); got != `{"list": [1, 2], "map": {"k": "v"}}` {
		t.Errorf("original changed through clone: %s", got)
	}
	if got := clone.Repr(); got != `{"list": [1, 2, 3], "map": {"k": "changed"}}` {
		t.Errorf("clone = %s", got)
	}
}

func TestConstructorsCopy(t *testing.T) {
	inner := FromList([]Value{FromInt(1)})
	outer := FromList([]Value{inner})
	m := FromMap(map[string]Value{"inner": inner})

	if err := inner.Append(FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if got := outer.Repr(); got != "[[1]]" {
		t.Errorf("FromList shares its input: %s", got)
	}
	if got := m.Repr(); got != `{"inner": [1]}` {
		t.Errorf("FromMap shares its input: %s", got)
	}
}

func TestHandleCopyShares(t *testing.T) {
	a := FromList([]Value{FromInt(1)})
	b := a
	if err := b.Append(FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if got := a.Repr(); got != "[1, 2]" {
		t.Errorf("plain assignment should share the list, got %s", got)
	}
}

func TestAssignSelf(t *testing.T) {
	v := FromMap(map[string]Value{"child": FromList([]Value{FromInt(1)})})
	child, _ := v.Path("child")

	// Assigning a value into one of its own children copies first.
	child.Assign(v)
	if got := v.Repr(); got != `{"child": {"child": [1]}}` {
		t.Errorf("v = %s", got)
	}

	v.Assign(v)
	if got := v.Repr(); got != `{"child": {"child": [1]}}` {
		t.Errorf("self-assign changed v: %s", got)
	}
}

// -----------------------------------------------------------------------------
// Size, Keys and Has
// -----------------------------------------------------------------------------

func TestSize(t *testing.T) {
	tests := []struct {
		val  Value
		want int
	}{
		{FromString(""), 0},
		{FromString("héllo"), 5},
		{EmptyList(), 0},
		{FromList([]Value{None(), None()}), 2},
		{FromMap(map[string]Value{"a": None()}), 1},
	}
	for _, tt := range tests {
		got, err := tt.val.Size()
		if err != nil || got != tt.want {
			t.Errorf("Size(%s) = %d, %v; want %d", tt.val.Repr(), got, err, tt.want)
		}
	}

	for _, v := range []Value{None(), FromInt(1), FromFloat(1), FromFunc(func(a Value, _ *Value) (Value, error) { return a, nil })} {
		if _, err := v.Size(); !IsTypeError(err) {
			t.Errorf("Size(%s) error = %v, want type error", v.Repr(), err)
		}
	}
}

func TestKeys(t *testing.T) {
	m := FromMap(map[string]Value{"b": None(), "c": None(), "a": None()})
	if got := m.Keys(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := FromInt(1).Keys(); got != nil {
		t.Errorf("Keys() on int = %v, want nil", got)
	}
	if !m.Has("a") || m.Has("z") || FromString("a").Has("a") {
		t.Error("Has() mismatch")
	}
}

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

func TestRepr(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{None(), "none"},
		{FromInt(-3), "-3"},
		{FromFloat(42.0), "42.0"},
		{FromFloat(42.4242), "42.4242"},
		{FromFloat(1e20), "1e+20"},
		{FromFloat(math.Inf(1)), "inf"},
		{FromFloat(math.Inf(-1)), "-inf"},
		{FromFloat(math.NaN()), "nan"},
		{FromString("a\"b"), `"a\"b"`},
		{FromList([]Value{FromInt(1), FromString("x"), EmptyList()}), `[1, "x", []]`},
		{FromMap(map[string]Value{"z": FromInt(1), "a": EmptyMap()}), `{"a": {}, "z": 1}`},
		{FromFunc(func(a Value, _ *Value) (Value, error) { return a, nil }), "<callable>"},
	}
	for _, tt := range tests {
		if got := tt.val.Repr(); got != tt.want {
			t.Errorf("Repr() = %s, want %s", got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := FromString("plain").String(); got != "plain" {
		t.Errorf("String() = %q, want unquoted", got)
	}
	if got := fmt.Sprint(FromList([]Value{FromString("x")})); got != `["x"]` {
		t.Errorf("Sprint(list) = %q", got)
	}
	if got := fmt.Sprintf("%v", FromFloat(2)); got != "2.0" {
		t.Errorf("Sprintf(%%v, 2.0) = %q", got)
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := FromMap(map[string]Value{"k": FromInt(1)}).WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	if buf.String() != `{"k": 1}` || n != int64(buf.Len()) {
		t.Errorf("WriteTo wrote %q (%d bytes)", buf.String(), n)
	}
}
