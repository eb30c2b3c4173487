package dynobj

import (
	"fmt"

	"github.com/dynobj/dynobj-go/internal/errors"
	"github.com/dynobj/dynobj-go/value"
)

// ErrorKind describes the type of error.
type ErrorKind = errors.ErrorKind

// Error is the error returned by value operations and the document
// parsers. Parse errors carry the document name, source and location.
type Error = errors.Error

const (
	ErrTypeError  = errors.ErrTypeError
	ErrOutOfRange = errors.ErrOutOfRange
)

// IsTypeError reports whether err is a type error.
func IsTypeError(err error) bool {
	return value.IsTypeError(err)
}

// IsOutOfRange reports whether err is an out of range error.
func IsOutOfRange(err error) bool {
	return value.IsOutOfRange(err)
}

// NewError creates a new error. Callables use it to fail with one of the
// two kinds callers already check for.
func NewError(kind ErrorKind, msg string) *Error {
	return errors.New(kind, msg)
}

// NewErrorf creates a new error with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return errors.New(kind, fmt.Sprintf(format, args...))
}
