// Package uploader drives a set of file-upload tasks through a bounded
// worker pool. Each task is retried a fixed number of times, suppression
// policy decides which failures end a task early, and every terminal state
// is recorded in an outcome log the publisher aggregates afterwards.
package uploader
