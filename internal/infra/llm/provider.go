package llm

import "context"

// InferenceClient is the capability the gateway needs from a text-generation
// backend. OllamaClient is the production implementation; tests substitute
// their own.
type InferenceClient interface {
	// Probe reports whether the backend is reachable. It never fails.
	Probe(ctx context.Context) bool

	// Generate runs a single, non-streaming generation for prompt.
	// On success the returned text is whitespace-trimmed and may be empty.
	// Any error is an *Error.
	Generate(ctx context.Context, prompt string) (string, error)
}
