// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It is a thin boundary wrapper: prompt construction
// and output parsing live in internal/generation; this package only moves
// text across the API with retry handling.
package gemini
