package errs

import (
	"errors"
	"fmt"
)

// Kind categorises a storage or session failure without exposing backend codes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound covers missing buckets and missing objects.
	KindNotFound
	// KindAccessDenied covers rejected credentials and missing permissions.
	KindAccessDenied
	// KindTransient covers network failures, timeouts and backend 5xx. Callers may retry.
	KindTransient
	// KindInvalidArgument covers bad input from the caller or an operation invalid in the current state.
	KindInvalidArgument
	// KindAlreadyExists is only produced when the backend reports a conflict.
	KindAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindTransient:
		return "transient_backend_error"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Error is the typed result returned by the storage gateway and the browsing session.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the backend error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error around a backend cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Invalid is shorthand for an InvalidArgument error with a formatted message.
func Invalid(format string, args ...any) *Error {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsAccessDenied(err error) bool    { return KindOf(err) == KindAccessDenied }
func IsTransient(err error) bool       { return KindOf(err) == KindTransient }
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }
func IsAlreadyExists(err error) bool   { return KindOf(err) == KindAlreadyExists }
