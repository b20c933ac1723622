package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Environment holds process-level settings that may come from the environment.
// CLI flags default to these values.
type Environment struct {
	DBPath     string `env:"WHACK_DB" envDefault:"~/.whack/scores.db"`
	ConfigPath string `env:"WHACK_CONFIG"`
	SSHAddr    string `env:"WHACK_SSH_ADDR" envDefault:":23234"`
	LogLevel   string `env:"WHACK_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads the Environment from environment variables.
func ParseEnv() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("config: parse env: %w", err)
	}
	return e, nil
}
