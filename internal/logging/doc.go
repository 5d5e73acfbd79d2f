// Package logging builds the slog loggers used across relpub. Console
// output favors a compact human-readable line format; json output is meant
// for CI logs.
package logging
