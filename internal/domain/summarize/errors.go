package summarize

import (
	"errors"
	"fmt"
)

// Kind is the gateway-level failure taxonomy.
type Kind string

const (
	KindEmptyText           Kind = "empty_text"
	KindTooShort            Kind = "too_short"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindUpstreamUnreachable Kind = "upstream_unreachable"
	KindUpstreamError       Kind = "upstream_error"
	KindEmptyResult         Kind = "empty_result"
	KindCanceled            Kind = "canceled"
	KindUnexpected          Kind = "unexpected"
)

// Error is returned by Service.Summarize for every failed call.
// Status carries the backend HTTP status for KindUpstreamError.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrEmptyText           = &Error{Kind: KindEmptyText}
	ErrTooShort            = &Error{Kind: KindTooShort}
	ErrUpstreamTimeout     = &Error{Kind: KindUpstreamTimeout}
	ErrUpstreamUnreachable = &Error{Kind: KindUpstreamUnreachable}
	ErrUpstreamError       = &Error{Kind: KindUpstreamError}
	ErrEmptyResult         = &Error{Kind: KindEmptyResult}
	ErrCanceled            = &Error{Kind: KindCanceled}
	ErrUnexpected          = &Error{Kind: KindUnexpected}
)

func (e *Error) Error() string {
	msg := "summarize: " + string(e.Kind)
	if e.Kind == KindUpstreamError {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// IsInvalidInput reports whether err is a caller mistake rather than a server fault.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyText) || errors.Is(err, ErrTooShort)
}

// KindOf extracts the Kind of err, defaulting to KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
