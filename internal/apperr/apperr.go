// Package apperr defines the typed failure kinds the scheduling engine
// reports to its callers. Handlers switch on the kind to pick an HTTP
// status; nothing is retried internally.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindNotFound means a referenced session, course, or term does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalidArgument means a client-correctable validation failure.
	KindInvalidArgument
	// KindBusinessRule means a scheduling conflict or workflow rule violation.
	KindBusinessRule
	// KindCancelled means cooperative cancellation was observed before a write began.
	KindCancelled
)

// Error carries a failure kind alongside a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error returns the message; the wrapped cause stays reachable via
// Unwrap so errors.Is still sees it without doubling the text.
func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgument builds a KindInvalidArgument error.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// BusinessRule builds a KindBusinessRule error.
func BusinessRule(format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

// Cancelled wraps a context cancellation observed before any write.
func Cancelled(err error) *Error {
	return &Error{Kind: KindCancelled, Msg: "operation cancelled", Err: err}
}

// KindOf extracts the failure kind from an error chain.
// Returns 0 for errors that carry no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
