package ai

import "context"

// Provider is the contract every backend adapter satisfies: turn one prompt
// into one completion.
//
// Implementations hold only read-only settings, so one instance can serve a
// whole session of sequential calls. They are not synchronized for
// concurrent use.
type Provider interface {
	// Name returns the backend identifier, e.g. "ollama".
	Name() string

	// Generate sends prompt to the backend and returns the completion text.
	// It issues exactly one request and never retries. Transport failures,
	// non-2xx statuses and bodies that are not JSON are returned as
	// *UpstreamError. A JSON body that lacks the expected fields yields an
	// empty string and a nil error.
	Generate(ctx context.Context, prompt string) (string, error)
}
