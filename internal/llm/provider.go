package llm

import "context"

// Provider is a minimal text-generation client. The advisory pipeline stage
// makes a single attempt per run; retry policy belongs to the caller's
// deployment, not here.
type Provider interface {
	GetModel() string
	Generate(ctx context.Context, prompt string) (string, error)
}

var SupportedProviders = []string{"ollama", "openai"}
