package didact

import "context"

// Generator defines the interface for text-generation backends.
// Implementations make exactly one upstream call per invocation and never
// cache responses; every response is a fresh sample from the model.
type Generator interface {
	// Generate sends a conversation and returns a complete response.
	Generate(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

// Generate calls the wrapped function.
func (f GeneratorFunc) Generate(ctx context.Context, messages []Message, opts ...Option) (*Response, error) {
	return f(ctx, messages, opts...)
}
