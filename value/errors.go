package value

import (
	goerrors "errors"

	"github.com/dynobj/dynobj-go/internal/errors"
)

// Error is the error type returned by value operations and the JSON parser.
type Error = errors.Error

// ErrorKind describes the type of an Error.
type ErrorKind = errors.ErrorKind

// Error kinds. Both can be used directly as errors.Is targets.
const (
	ErrTypeError  = errors.ErrTypeError
	ErrOutOfRange = errors.ErrOutOfRange
)

// IsTypeError reports whether err is a type error.
func IsTypeError(err error) bool {
	return goerrors.Is(err, ErrTypeError)
}

// IsOutOfRange reports whether err is an out of range error.
func IsOutOfRange(err error) bool {
	return goerrors.Is(err, ErrOutOfRange)
}
