// Package api provides the HTTP layer: request decoding and
// validation, handlers for cards, review sessions, stats, generation
// and collection transfer, and sanitized error responses.
package api
