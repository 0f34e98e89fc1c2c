// Package errs defines the five error kinds the engine surfaces through its
// operations, as sentinel values compatible with errors.Is/errors.As. No
// third-party status-code library exists anywhere in the retrieved corpus,
// so this is deliberately built on the standard errors package.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for callers that need to branch on it
// (an RPC layer mapping to transport-specific status codes, for instance).
type Kind int

const (
	Unknown Kind = iota
	NotFound
	InvalidArgument
	FailedPrecondition
	Internal
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case FailedPrecondition:
		return "failed_precondition"
	case Internal:
		return "internal"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a Kind-tagged error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a Kind-tagged error from a format string.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
