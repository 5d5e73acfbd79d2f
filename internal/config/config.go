package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tracker contains connection settings for the error-tracking service.
type Tracker struct {
	BaseURL      string   `toml:"base_url"`
	Organization string   `toml:"organization"`
	APIKey       string   `toml:"api_key"`
	Projects     []string `toml:"projects"`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `toml:"request_timeout"`
}

// Upload contains file selection and upload policy settings.
type Upload struct {
	OutputDir      string `toml:"output_dir"`
	IncludePattern string `toml:"include_pattern"`
	ExcludePattern string `toml:"exclude_pattern"`
	// NamePrefix is prepended to asset names to form the remote name.
	NamePrefix  string `toml:"name_prefix"`
	Concurrency int    `toml:"concurrency"`
	// FailOnError marks the whole publish as failed when any file
	// exhausts its retry budget. Off by default: exhausted uploads are
	// reported as warnings only.
	FailOnError       bool `toml:"fail_on_error"`
	SuppressErrors    bool `toml:"suppress_errors"`
	SuppressConflicts bool `toml:"suppress_conflicts"`
}

// Cleanup controls deletion of build output after a publish.
type Cleanup struct {
	Enabled bool   `toml:"enabled"`
	Pattern string `toml:"pattern"`
}

// History controls the local publish-run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for relpub.
type Config struct {
	// StateDir holds the run lock and, by default, the history database.
	StateDir string  `toml:"state_dir"`
	Tracker  Tracker `toml:"tracker"`
	Upload   Upload  `toml:"upload"`
	Cleanup  Cleanup `toml:"cleanup"`
	History  History `toml:"history"`
	Logging  Logging `toml:"logging"`

	deprecations []string
	includeRE    *regexp.Regexp
	excludeRE    *regexp.Regexp
	deleteRE     *regexp.Regexp
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/relpub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and patterns compiled.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("relpub.toml")
	if err != nil {
		return "", false, err
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// Deprecations lists the deprecated configuration forms that were accepted
// and rewritten during load, for the CLI to surface as warnings.
func (c *Config) Deprecations() []string {
	return c.deprecations
}

// IncludeRegexp returns the compiled include pattern.
func (c *Config) IncludeRegexp() *regexp.Regexp { return c.includeRE }

// ExcludeRegexp returns the compiled exclude pattern, or nil when no
// exclude pattern is configured.
func (c *Config) ExcludeRegexp() *regexp.Regexp { return c.excludeRE }

// DeleteRegexp returns the compiled cleanup pattern.
func (c *Config) DeleteRegexp() *regexp.Regexp { return c.deleteRE }

// LockPath returns the location of the publish run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.StateDir, "publish.lock")
}

// EnsureStateDir creates the state directory when missing.
func (c *Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.StateDir, err)
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
