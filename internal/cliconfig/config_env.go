package cliconfig

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// envConfig is the DOCUSSANDRA_* environment. Durations stay strings so that an
// unset variable is told apart from a zero value.
type envConfig struct {
	URL      string `env:"DOCUSSANDRA_URL"`
	User     string `env:"DOCUSSANDRA_USER"`
	Password string `env:"DOCUSSANDRA_PASSWORD"`
	Token    string `env:"DOCUSSANDRA_TOKEN"`
	Timeout  string `env:"DOCUSSANDRA_TIMEOUT"`
	LogLevel string `env:"DOCUSSANDRA_LOG_LEVEL"`
}

// ApplyEnvConfig applies configuration from environment variables (DOCUSSANDRA_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	s := newConfigSetter(changed)

	s.setString("url", e.URL, &cfg.URL)
	s.setString("user", e.User, &cfg.User)
	s.setString("password", e.Password, &cfg.Password)
	s.setString("token", e.Token, &cfg.Token)
	s.setString("log-level", e.LogLevel, &cfg.LogLevel)

	return s.setDuration("timeout", e.Timeout, &cfg.Timeout)
}

// Load resolves the configuration with precedence flags > environment > file >
// defaults. cfg holds the defaults overwritten by any flags already parsed; path
// may be "" to skip the file.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}
