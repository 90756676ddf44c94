package alopeyk

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	KindCapability Kind = "capability"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindDecode     Kind = "decode"
)

// Error is the single error type returned by every client operation.
type Error struct {
	Kind       Kind
	Op         Operation
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := "alopeyk"
	if e.Op != "" {
		prefix = "alopeyk " + string(e.Op)
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s error: %s: %v", prefix, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s error: %s", prefix, e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithOp records the operation that failed.
func (e *Error) WithOp(op Operation) *Error {
	e.Op = op
	return e
}

// Sentinel errors, one per kind.
var (
	// ErrCapability indicates the transport cannot speak TLS.
	ErrCapability = NewError(KindCapability, "secure transport unavailable")

	// ErrAuth indicates no usable access token is configured.
	ErrAuth = NewError(KindAuth, "invalid access token")

	// ErrValidation indicates a caller-supplied argument failed a precondition.
	ErrValidation = NewError(KindValidation, "invalid argument")

	// ErrTransport indicates a network, protocol or non-2xx failure.
	ErrTransport = NewError(KindTransport, "transport failure")

	// ErrDecode indicates a successful response whose body was not valid JSON.
	ErrDecode = NewError(KindDecode, "malformed response body")
)

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(op Operation, message string) *Error {
	return NewError(KindValidation, message).WithOp(op)
}

func transportError(err error) *Error {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindTransport {
		return e
	}
	return NewError(KindTransport, err.Error()).WithCause(err)
}
