// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's settings. Empty DBPath keeps duels in memory;
// empty RulesPath uses the built-in rules; empty RedisAddr disables result
// publishing.
type Config struct {
	Addr      string `env:"DEFIGHT_ADDR" envDefault:":8080"`
	DBPath    string `env:"DEFIGHT_DB_PATH"`
	RulesPath string `env:"DEFIGHT_RULES_PATH"`
	RedisAddr string `env:"DEFIGHT_REDIS_ADDR"`
	LogLevel  string `env:"DEFIGHT_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config for the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
