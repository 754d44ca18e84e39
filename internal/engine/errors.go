package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures. Every failure aborts the whole invocation.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindInvalidState Kind = "invalid_state"
	KindNotFound     Kind = "not_found"
	KindAuthFailure  Kind = "auth_failure"
	KindExternalData Kind = "external_data"
)

// Error is the engine's domain error. Two Errors match under errors.Is when
// their kinds are equal, so callers compare against the exported sentinels.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrExternalData = &Error{Kind: KindExternalData, Message: "external data error"}

	// ErrAuthFailure never says which check failed.
	ErrAuthFailure = &Error{Kind: KindAuthFailure, Message: "wrong viewing key for this address or viewing key not set"}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of the first engine error in err's chain, or "" for
// errors that did not originate in the engine (storage faults and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
