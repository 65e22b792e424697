package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overrides fields whose RPPORTAL_* variable is set. Unset
// variables leave the current value alone.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
