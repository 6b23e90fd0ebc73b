package cliconfig

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/logger"
)

// DefaultURL is the endpoint of a locally running Docussandra.
const DefaultURL = "http://localhost:19080"

// Config holds CLI configuration for docussandra.
type Config struct {
	URL      string
	User     string
	Password string
	Token    string

	Timeout  time.Duration
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		URL:      DefaultURL,
		Timeout:  constants.DefaultHTTPTimeout,
		LogLevel: zerolog.LevelWarnValue,
	}
}

// Validate checks the configuration for errors and normalizes the URL.
func (c *Config) Validate() error {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.By(func(any) error {
			_, err := zerolog.ParseLevel(c.LogLevel)
			return err
		})),
		validation.Field(&c.Password, validation.When(c.User == "", validation.Empty.Error("needs a user"))),
	)
}

// Credentials picks bearer auth over basic auth; nil when neither is set.
func (c Config) Credentials() connection.Credentials {
	switch {
	case c.Token != "":
		return connection.BearerToken(c.Token)
	case c.User != "":
		return connection.BasicAuth{Username: c.User, Password: c.Password}
	}
	return nil
}

// ConnectionConfig converts the CLI configuration into a validated connection Config.
func (c Config) ConnectionConfig(log logger.Logger) (*connection.Config, error) {
	cfg, err := connection.ParseConfig(c.URL)
	if err != nil {
		return nil, err
	}
	cfg.Credentials = c.Credentials()
	cfg.Timeout = c.Timeout
	cfg.UserAgent = constants.DefaultUserAgent + "-cli"
	if log != nil {
		cfg.Logger = log
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection config: %w", err)
	}
	return cfg, nil
}

// Redacted is c with secrets masked, for logging.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "*****"
	}
	if c.Token != "" {
		c.Token = "*****"
	}
	return c
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
