package generation

import "context"

// Generator defines the interface for obtaining free-form text from an
// external text-generation service. It is a boundary between the
// application core and the LLM provider; the core only hands over a prompt
// and parses whatever comes back.
type Generator interface {
	// GenerateText sends the prompt to the underlying model and returns the
	// raw response text. The returned text carries no structure guarantees;
	// callers feed it through Parse.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
