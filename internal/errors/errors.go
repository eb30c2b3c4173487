// Package errors defines the two error kinds produced by dynobj values and
// the JSON parser.
package errors

import (
	goerrors "errors"
	"fmt"

	"github.com/dynobj/dynobj-go/syntax"
)

// ErrorKind describes the type of error.
//
// ErrorKind also implements error so a kind can be used as the target of
// errors.Is:
//
//	if errors.Is(err, ErrOutOfRange) { ... }
type ErrorKind int

const (
	// ErrTypeError is raised when an operation is attempted on a value whose
	// kind does not support it, or when a JSON literal has the wrong shape.
	ErrTypeError ErrorKind = iota

	// ErrOutOfRange is raised when a key or index does not exist, or when
	// JSON input ends early or has a token in the wrong position.
	ErrOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTypeError:
		return "type error"
	case ErrOutOfRange:
		return "out of range"
	default:
		return "error"
	}
}

// Error lets a bare kind act as an errors.Is target.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is the concrete error returned by every dynobj operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    *syntax.Span
	Name    string // document name
	Source  string // document source (for error display)
}

func (e *Error) Error() string {
	if e.Name != "" && e.Span != nil {
		return fmt.Sprintf("%s: %s (at %s line %d)", e.Kind, e.Message, e.Name, e.Span.StartLine)
	}
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (at line %d)", e.Kind, e.Message, e.Span.StartLine)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an ErrorKind or an *Error of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

// Format implements fmt.Formatter. The %+v verb appends a snippet of the
// source around the error location when the source is known.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			formatErrorWithDebug(f, e)
			return
		}
		_, _ = fmt.Fprint(f, e.Error())
	case 's':
		_, _ = fmt.Fprint(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	}
}

// New creates a new error.
func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates a new error with a formatted message.
func Newf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithSpan adds span information to an error.
func (e *Error) WithSpan(span syntax.Span) *Error {
	e.Span = &span
	return e
}

// WithName adds the document name to an error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithSource adds source to an error.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
