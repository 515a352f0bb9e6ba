package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds DIGITYPE_* environment overrides. They sit between CLI
// flags and the config file in precedence: flags > env > file.
type EnvConfig struct {
	DBPath  string `envconfig:"DB_PATH"`
	NoSound bool   `envconfig:"NO_SOUND"`
}

// LoadEnv reads environment overrides with the DIGITYPE prefix.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("DIGITYPE", &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to process environment config: %w", err)
	}
	return cfg, nil
}
