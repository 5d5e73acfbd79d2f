package publish

import "fmt"

// ConfigError reports a missing required field, detected before any network
// call is made.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}
