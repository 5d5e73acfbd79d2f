package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// Validate ensures the configuration is structurally usable and compiles
// the selection patterns. Required credentials (organization, API key,
// release version) are checked by the publisher right before a run, so
// that `relpub config validate` works on a partially filled file.
func (c *Config) Validate() error {
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTracker() error {
	parsed, err := url.Parse(c.Tracker.BaseURL)
	if err != nil {
		return fmt.Errorf("tracker.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("tracker.base_url: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("tracker.base_url: missing host")
	}
	if c.Tracker.RequestTimeout < 0 {
		return errors.New("tracker.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateUpload() error {
	var err error
	if c.includeRE, err = regexp.Compile(c.Upload.IncludePattern); err != nil {
		return fmt.Errorf("upload.include_pattern: %w", err)
	}
	if c.Upload.ExcludePattern != "" {
		if c.excludeRE, err = regexp.Compile(c.Upload.ExcludePattern); err != nil {
			return fmt.Errorf("upload.exclude_pattern: %w", err)
		}
	}
	if c.Upload.Concurrency < 1 {
		return errors.New("upload.concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	var err error
	if c.deleteRE, err = regexp.Compile(c.Cleanup.Pattern); err != nil {
		return fmt.Errorf("cleanup.pattern: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
