// Package llm provides a pluggable interface for chat-completion model services.
package llm

import "context"

// CompletionOptions contains options for completion requests.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Model       string
}

// Provider defines the interface for chat-completion providers. Both the
// claim-verification and research services speak the OpenAI chat wire format,
// so one implementation covers both; the seam exists so a non-compatible
// backend can be substituted without touching callers.
type Provider interface {
	// CompleteWithSystem generates a completion with a system prompt.
	CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// Name returns the provider name.
	Name() string
}
