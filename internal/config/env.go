package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env is the process configuration read from the environment. Flags on the
// command line take precedence where both exist. The database path is
// resolved by storage.ResolveDBPath.
type Env struct {
	Sender      string `env:"QV_SENDER"`
	SelfAddress string `env:"QV_SELF_ADDRESS" envDefault:"qv1engine"`
	AssetsFile  string `env:"QV_ASSETS_FILE"`
	LogFile     string `env:"QV_LOG_FILE"`
	Verbose     bool   `env:"QV_VERBOSE"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
