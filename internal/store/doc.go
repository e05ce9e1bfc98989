// Package store owns the flashcard collection: creation, mutation,
// deletion, review scheduling, filtering, and statistics. It is the
// single writer for all per-card scheduling state.
package store
