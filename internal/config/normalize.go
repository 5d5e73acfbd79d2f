package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTracker()
	c.normalizeUpload()
	c.normalizeCleanup()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.StateDir) == "" {
		c.StateDir = defaultStateDir
	}
	if c.StateDir, err = expandPath(c.StateDir); err != nil {
		return fmt.Errorf("state_dir: %w", err)
	}
	if strings.TrimSpace(c.Upload.OutputDir) == "" {
		c.Upload.OutputDir = defaultOutputDir
	}
	if c.Upload.OutputDir, err = expandPath(c.Upload.OutputDir); err != nil {
		return fmt.Errorf("upload.output_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.StateDir, "history.db")
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracker() {
	if c.Tracker.APIKey == "" {
		if value, ok := os.LookupEnv("RELPUB_API_KEY"); ok {
			c.Tracker.APIKey = value
		}
	}
	c.Tracker.APIKey = strings.TrimSpace(c.Tracker.APIKey)
	c.Tracker.Organization = strings.TrimSpace(c.Tracker.Organization)

	base := strings.TrimRight(strings.TrimSpace(c.Tracker.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, legacyBaseURLSuffix) {
		base = strings.TrimSuffix(base, legacyBaseURLSuffix)
		c.deprecations = append(c.deprecations,
			fmt.Sprintf("tracker.base_url: trailing %q is deprecated and has been removed", legacyBaseURLSuffix))
	}
	c.Tracker.BaseURL = base

	if c.Tracker.RequestTimeout == 0 {
		c.Tracker.RequestTimeout = defaultRequestTimeout
	}

	projects := make([]string, 0, len(c.Tracker.Projects))
	for _, project := range c.Tracker.Projects {
		if project = strings.TrimSpace(project); project != "" {
			projects = append(projects, project)
		}
	}
	c.Tracker.Projects = projects
}

func (c *Config) normalizeUpload() {
	if strings.TrimSpace(c.Upload.IncludePattern) == "" {
		c.Upload.IncludePattern = defaultIncludePattern
	}
	c.Upload.ExcludePattern = strings.TrimSpace(c.Upload.ExcludePattern)
	if c.Upload.NamePrefix == "" {
		c.Upload.NamePrefix = defaultNamePrefix
	}
	if c.Upload.Concurrency == 0 {
		c.Upload.Concurrency = defaultConcurrency
	}
}

func (c *Config) normalizeCleanup() {
	if strings.TrimSpace(c.Cleanup.Pattern) == "" {
		c.Cleanup.Pattern = defaultDeletePattern
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
