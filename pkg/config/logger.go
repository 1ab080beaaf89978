package config

import "fmt"

// Logger configures the daemon's zap logger, per SPEC_FULL's ambient
// logging stack.
type Logger struct {
	LogEncoding string `yaml:"LogEncoding"`
	LogLevel    string `yaml:"LogLevel"`
	LogPath     string `yaml:"LogPath"`
}

// Validate returns an error if Logger's fields are not recognized values.
func (l Logger) Validate() error {
	if l.LogEncoding != "" && l.LogEncoding != "console" && l.LogEncoding != "json" {
		return fmt.Errorf("invalid LogEncoding: %s", l.LogEncoding)
	}
	switch l.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LogLevel: %s", l.LogLevel)
	}
	return nil
}
