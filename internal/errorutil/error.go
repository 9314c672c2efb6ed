// Package errorutil defines the error type whose message is safe to expose
// to API clients.
package errorutil

import (
	"errors"
	"fmt"
)

// Error is an error whose message can be returned to the caller verbatim.
type Error struct {
	msg string
	err error
}

func (e Error) Error() string {
	return e.msg
}

func (e Error) Unwrap() error {
	return e.err
}

// New creates an exposable sentinel error.
func New(msg string) Error {
	return Error{msg: msg}
}

// Format works like fmt.Errorf, but the result is still an Error, so
// errors.As(err, &Error{}) keeps returning true after wrapping.
func Format(format string, a ...any) Error {
	err := fmt.Errorf(format, a...)
	return Error{msg: err.Error(), err: errors.Unwrap(err)}
}
