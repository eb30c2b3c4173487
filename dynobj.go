// Package dynobj provides a dynamically typed value for Go programs along
// with JSON and YAML readers that produce it.
//
// A Value holds none, an integer, a double, a string, a list, a map or a
// callable. Values support arithmetic, comparison, auto-vivifying map
// access, list indexing and invocation with a receiver, and they own their
// children: copies made through Clone, Assign, Set or Append never share
// containers with the original.
//
// # Quick Start
//
// Basic usage:
//
//	doc, err := dynobj.ParseJSON(`{"server": {"port": 8080}}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port, _ := doc.Lookup("server", "port")
//	n, _ := port.AsInt() // 8080
//
// Building values in code:
//
//	var cfg dynobj.Value
//	tls, _ := cfg.Path("server", "tls")
//	_ = tls.Set("enabled", dynobj.FromInt(1))
//	fmt.Println(cfg) // {"server": {"tls": {"enabled": 1}}}
//
// # Environment
//
// The Environment keeps named documents, applies parse limits and reports
// every error it returns to an optional observer:
//
//	env := dynobj.NewEnvironment()
//	env.SetErrorObserver(dynobj.LogObserver(log.Default()))
//	env.SetMaxDepth(64)
//
//	if err := env.AddDocument("defaults.json", defaultsSource); err != nil {
//	    return err
//	}
//	doc, err := env.GetDocument("defaults.json")
//
// # Error Handling
//
// Every failure is an *Error with one of two kinds:
//
//	v, err := dynobj.FromString("a").Add(dynobj.FromInt(1))
//	if dynobj.IsTypeError(err) {
//	    // operation not supported for these kinds
//	}
//
// Parse errors carry a location. Format them with %+v to include a snippet
// of the offending source.
//
// # See Also
//
//   - value package: the Value type and its operations
//   - parser package: JSON parsing options
//   - environment.go: document registry and error observer
package dynobj

import (
	"github.com/dynobj/dynobj-go/parser"
	"github.com/dynobj/dynobj-go/value"
)

// Version is the library version.
const Version = "0.1.0"

// Value is a dynamically typed value.
type Value = value.Value

// Kind describes the type of a Value.
type Kind = value.Kind

// Value kinds
const (
	KindNone     = value.KindNone
	KindInt      = value.KindInt
	KindString   = value.KindString
	KindDouble   = value.KindDouble
	KindMap      = value.KindMap
	KindList     = value.KindList
	KindCallable = value.KindCallable
)

// Callable is implemented by functions stored in values.
type Callable = value.Callable

// CallableFunc adapts an ordinary function to Callable.
type CallableFunc = value.CallableFunc

// ParseOptions configures JSON and YAML parsing.
type ParseOptions = parser.Options

// Value constructors
var (
	None         = value.None
	FromInt      = value.FromInt
	FromFloat    = value.FromFloat
	FromString   = value.FromString
	FromList     = value.FromList
	FromMap      = value.FromMap
	EmptyList    = value.EmptyList
	EmptyMap     = value.EmptyMap
	FromAny      = value.FromAny
	FromCallable = value.FromCallable
	FromFunc     = value.FromFunc
	Bind         = value.Bind
	MergeMaps    = value.MergeMaps
)

// ParseJSON parses a JSON document into a Value using the default limits.
func ParseJSON(source string) (Value, error) {
	return parser.Parse(source)
}

// ParseJSONWithOptions parses a JSON document into a Value.
func ParseJSONWithOptions(source string, opts ParseOptions) (Value, error) {
	return parser.ParseWithOptions(source, opts)
}
