// Package types holds the error taxonomy shared by the plot engine packages.
package types

import (
	"errors"
	"fmt"
)

// Error kinds. Test with errors.Is(err, types.ErrData) etc.
var (
	// ErrData indicates an empty or unparsable column selection during curve insertion.
	ErrData = errors.New("data error")
	// ErrFormat indicates a malformed axis format string.
	ErrFormat = errors.New("format error")
	// ErrRange indicates an out-of-bounds curve or marker reference.
	ErrRange = errors.New("not found")
	// ErrConversion indicates a curve type conversion across incompatible families.
	ErrConversion = errors.New("conversion error")
	// ErrIO indicates a serialization parse failure.
	ErrIO = errors.New("io error")
)

// Error carries the failing operation and a short detail next to its kind.
type Error struct {
	Kind   error
	Op     string // e.g. "insertCurve", "setAxisType", "load"
	Detail string
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

// New creates an Error of the given kind.
func New(kind error, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind error, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Errorf creates an Error whose detail is produced by fmt.Sprintf.
func Errorf(kind error, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}
