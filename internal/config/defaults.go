package config

const (
	defaultBaseURL        = "https://sentry.io/api/0"
	defaultRequestTimeout = 30
	defaultOutputDir      = "dist"
	defaultIncludePattern = `\.js$|\.map$`
	defaultNamePrefix     = "~/"
	defaultConcurrency    = 4
	defaultDeletePattern  = `\.map$`
	defaultStateDir       = "~/.local/share/relpub"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// legacyBaseURLSuffix is stripped from caller-supplied base URLs for
	// backward compatibility with pre-1.0 configurations that pointed at
	// the project-scoped API root.
	legacyBaseURLSuffix = "/projects"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		StateDir: defaultStateDir,
		Tracker: Tracker{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Upload: Upload{
			OutputDir:      defaultOutputDir,
			IncludePattern: defaultIncludePattern,
			NamePrefix:     defaultNamePrefix,
			Concurrency:    defaultConcurrency,
		},
		Cleanup: Cleanup{
			Pattern: defaultDeletePattern,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
