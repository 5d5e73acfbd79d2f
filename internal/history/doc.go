// Package history persists publish runs and their per-file outcomes in a
// local SQLite database, making batch results inspectable after the fact
// via `relpub history`.
package history
