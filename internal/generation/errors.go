package generation

import "errors"

// Common errors returned by the generation boundary.
var (
	// ErrGenerationFailed is returned when the text-generation call fails
	// for any general reason.
	ErrGenerationFailed = errors.New("failed to generate text")

	// ErrInvalidResponse is returned when the model response is empty or
	// malformed at the transport level.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during text generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyPrompt is returned when a caller asks for generation with an
	// empty prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
