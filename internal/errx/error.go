package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error the way callable functions report it on the wire.
type Code string

const (
	Unauthenticated Code = "unauthenticated"
	NotFound        Code = "not-found"
	InvalidArgument Code = "invalid-argument"
	Internal        Code = "internal"
)

const (
	// UnauthenticatedMessage is shown when caller validation fails.
	UnauthenticatedMessage = "Unauthenticated."
	// InternalMessage is the user-facing fallback for anything unclassified.
	InternalMessage = "An unknown error occurred."
)

// Error wraps an underlying error with a classification and a safe message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the classification to an HTTP status.
func (e *Error) Status() int {
	return e.Code.Status()
}

// Status maps the code to an HTTP status.
func (c Code) Status() int {
	switch c {
	case Unauthenticated:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WireStatus is the upper-case form used in callable error bodies.
func (c Code) WireStatus() string {
	switch c {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case NotFound:
		return "NOT_FOUND"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "INTERNAL"
	}
}

// ParseWireStatus is the inverse of WireStatus. Unknown values are Internal.
func ParseWireStatus(s string) Code {
	switch s {
	case "UNAUTHENTICATED":
		return Unauthenticated
	case "NOT_FOUND":
		return NotFound
	case "INVALID_ARGUMENT":
		return InvalidArgument
	default:
		return Internal
	}
}

// New creates a new Error with the provided information.
func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// InvalidArgumentf creates an invalid-argument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return New(InvalidArgument, fmt.Sprintf(format, args...), nil)
}

// Wrap classifies err. Errors that already carry a classification pass
// through unchanged; everything else becomes Internal.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(Internal, InternalMessage, err)
}

// CodeOf returns the classification of err, or Internal when it has none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Is reports whether err is classified with code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
