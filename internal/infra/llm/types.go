// Package llm owns the wire conversation with the local inference backend.
// All types here are shared between the client interface and the Ollama adapter.
package llm

import (
	"fmt"
)

// GenerationOptions are the fixed sampling settings sent with every
// generate call. They are not settable per request.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// DefaultGenerationOptions favours focused, bounded summaries.
var DefaultGenerationOptions = GenerationOptions{
	Temperature: 0.3,
	MaxTokens:   500,
}

// Kind classifies a failed backend call.
type Kind string

const (
	// KindTimeout: the call's own deadline elapsed, including time spent
	// waiting for a concurrency slot.
	KindTimeout Kind = "timeout"
	// KindUnreachable: the backend could not be dialed (refused, DNS, reset).
	KindUnreachable Kind = "unreachable"
	// KindBackendError: the backend answered with a non-200 status.
	KindBackendError Kind = "backend_error"
	// KindEmptyResult: 200 with an unparsable body or no response field.
	KindEmptyResult Kind = "empty_result"
	// KindCanceled: the caller went away before the backend answered.
	KindCanceled Kind = "canceled"
	// KindUnexpected: anything not classified above.
	KindUnexpected Kind = "unexpected"
)

// Error is the failure half of a generate outcome.
// Status and Body are only set for KindBackendError. Body may echo the
// prompt, so Error() leaves it out.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindBackendError:
		return fmt.Sprintf("llm: backend status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("llm: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }
