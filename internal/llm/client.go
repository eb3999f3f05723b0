package llm

import (
	"context"
)

// Prompt is the system + user instruction pair sent to a provider. The user
// prompt always demands JSON-only output and shows the exact target shape;
// extraction cannot recover from prose-only replies.
type Prompt struct {
	System string
	User   string
}

// Provider is one text-generation backend in the fallback chain.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
