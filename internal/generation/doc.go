// Package generation provides interfaces and helpers for generating
// flashcards from source text via an external LLM service. It abstracts
// the details of the LLM API integration (Gemini), allowing the
// application to turn notes into card specs without coupling to a
// specific provider.
package generation
