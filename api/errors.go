// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error taxonomy and status-code adapter for the syncprim library.

package api

import "fmt"

// ErrorCode enumerates the error kinds the library can report. Every
// operation that fails reports exactly one of these, never an ad-hoc string.
type ErrorCode int

const (
	// ErrCodeOK means no error occurred.
	ErrCodeOK ErrorCode = iota
	// ErrCodeInvalidArgument: null/zero/negative input, or a combination of
	// arguments that violates a precondition (e.g. minThreads > maxThreads).
	ErrCodeInvalidArgument
	// ErrCodeUninitialized: operation attempted against a handle that was
	// never successfully initialized.
	ErrCodeUninitialized
	// ErrCodeTimeout: a bounded wait's deadline elapsed before its predicate
	// was satisfied.
	ErrCodeTimeout
	// ErrCodeExhausted: a pool has no free slot/block large enough to serve
	// the request.
	ErrCodeExhausted
	// ErrCodeSystemError: an underlying platform primitive (mutex, condvar,
	// syscall) returned an unexpected status.
	ErrCodeSystemError
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeUninitialized:
		return "uninitialized"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeExhausted:
		return "exhausted"
	case ErrCodeSystemError:
		return "system_error"
	default:
		return "unknown"
	}
}

// Error is a structured error carrying a kind and optional diagnostic context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a structured error of the given kind.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithContext returns a copy of e with a diagnostic key/value pair attached.
// It never mutates the receiver, so calling it on one of the package-level
// sentinel errors below is safe to do concurrently from many goroutines.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{Code: e.Code, Message: e.Message, Context: ctx}
}

// Is reports whether target is an *Error of the same kind, so errors.Is
// matches a sentinel below even after WithContext has copied it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors for the common invalid-argument cases callers compare
// against with errors.Is.
var (
	ErrInvalidArgument = NewError(ErrCodeInvalidArgument, "invalid argument")
	ErrUninitialized   = NewError(ErrCodeUninitialized, "handle not initialized")
	ErrTimeout         = NewError(ErrCodeTimeout, "operation timed out")
	ErrExhausted       = NewError(ErrCodeExhausted, "pool exhausted")
	ErrSystemError     = NewError(ErrCodeSystemError, "system primitive failed")
)

// Status is the legacy {0, -1, -2} status-code convention spec.md's external
// interface describes. The library's Go surface returns error values
// everywhere; Status exists only as a thin adapter at that boundary for
// callers that want the original C convention.
type Status int

const (
	StatusSuccess Status = 0
	StatusFailure Status = -1
	StatusTimeout Status = -2
)

// StatusOf converts an error returned by this library into the {0,-1,-2}
// convention. A nil error maps to StatusSuccess; an *Error with
// ErrCodeTimeout maps to StatusTimeout; everything else maps to StatusFailure.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	if e, ok := err.(*Error); ok && e.Code == ErrCodeTimeout {
		return StatusTimeout
	}
	return StatusFailure
}
