// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test  TestConfig  `toml:"test"`
	Rain  RainConfig  `toml:"rain"`
	Sound SoundConfig `toml:"sound"`
}

// TestConfig maps typing-test settings.
type TestConfig struct {
	Duration   *int    `toml:"duration"`
	Mode       *string `toml:"mode"`
	Difficulty *string `toml:"difficulty"`
}

// RainConfig maps word-rain settings.
type RainConfig struct {
	Duration        *int `toml:"duration"`
	SpawnIntervalMs *int `toml:"spawn-interval-ms"`
	FallIntervalMs  *int `toml:"fall-interval-ms"`
}

// SoundConfig maps audio cue settings.
type SoundConfig struct {
	Enabled      *bool   `toml:"enabled"`
	PlayerBinary *string `toml:"player"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
