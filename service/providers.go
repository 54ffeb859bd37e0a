package service

import "context"

// InsufficientContextSentinel is the literal reply the grounded-generation
// prompt instructs providers to emit when the supplied blocks do not answer
// the question. It counts as a stage failure, never as a citation.
const InsufficientContextSentinel = "Insufficient context."

// CitationProvider abstracts one external free-text generation service.
// Output is untrusted and always passes through the normalizer; concrete
// implementations adapt whatever calling convention the service needs.
type CitationProvider interface {
	// Name identifies the provider in logs.
	Name() string
	// Generate produces a raw citation string for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
