// Package testsupport provides shared helpers for package tests: seeded
// configurations with unique temp directories and file fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"relpub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config seeded with unique temp directories
// and test credentials, applying any provided options before validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.StateDir = filepath.Join(base, "state")
	cfg.History.Path = filepath.Join(base, "state", "history.db")
	cfg.Upload.OutputDir = filepath.Join(base, "dist")
	cfg.Tracker.Organization = "acme"
	cfg.Tracker.APIKey = "test-key"
	cfg.Tracker.Projects = []string{"web"}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return &cfg
}

// WithProjects overrides the configured project identifiers.
func WithProjects(projects ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.Projects = projects
	}
}

// WithBaseURL points the tracker client at the given endpoint, usually an
// httptest server.
func WithBaseURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.BaseURL = baseURL
	}
}
