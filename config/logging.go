package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig defines the output format and verbosity of the library's
// loggers.
type LoggingConfig struct {
	// Env selects the output format: "dev" for human-readable console,
	// "prod" for JSON.
	Env string `json:"env"`
	// Level is the minimum level to emit ("debug", "info", "warn", ...).
	// Empty keeps the zerolog default.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("unknown logging env %s", c.Env)
	}
	if c.Level != "" {
		if _, err := zerolog.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("unknown log level %s", c.Level)
		}
	}
	return nil
}
