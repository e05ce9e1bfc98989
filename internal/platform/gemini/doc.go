// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It owns prompt construction, the API call with
// retry and backoff, and translation of API failures into the
// generation package's error taxonomy.
package gemini
