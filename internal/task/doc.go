// Package task provides background task processing: a bounded queue
// with a worker pool, and the tasks the application runs on it, chiefly
// persisting collection snapshots after mutations.
package task
