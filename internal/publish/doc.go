// Package publish orchestrates a release publication end to end: validate
// configuration, create the release record, fan uploads out through the
// bounded pool, clean up build output, and aggregate per-file outcomes
// into a report.
package publish
