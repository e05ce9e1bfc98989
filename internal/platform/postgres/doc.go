// Package postgres implements the persistence interfaces defined in
// the store package using a PostgreSQL database as the storage backend.
package postgres
