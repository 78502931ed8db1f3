// Package generation defines the boundary to the external text-generation
// service and the deterministic parser that turns raw generated text into
// task drafts. The package never performs HTTP calls itself; the concrete
// LLM client lives in internal/platform/gemini.
package generation
