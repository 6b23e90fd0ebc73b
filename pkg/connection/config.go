package connection

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/docussandra/docussandra-go/internal/codec"
	jsoncodec "github.com/docussandra/docussandra-go/pkg/codec/json"
	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/logger"
	logslog "github.com/docussandra/docussandra-go/pkg/logger/slog"
)

// Config holds the connection parameters shared by every DAO of a client.
// It is copied when a connection is created; later changes have no effect.
type Config struct {
	URL url.URL
	// BaseURL is URL without a trailing slash, query or fragment. Resource paths are
	// appended to it.
	BaseURL     string
	Credentials Credentials
	Timeout     time.Duration
	UserAgent   string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      logger.Logger
	// HTTPClient replaces the default client. Timeout is ignored when it is set.
	HTTPClient *http.Client
}

// NewConfig creates a new Config for the Docussandra endpoint specified by the URL,
// such as "http://localhost:19080/".
// It is not absolutely necessary to create a Config using this function,
// but it is recommended to use this function to ensure that everything needed for the connection is set up correctly.
func NewConfig(u *url.URL) *Config {
	codec := jsoncodec.New()
	return &Config{
		URL:         *u,
		BaseURL:     baseURL(u),
		Timeout:     constants.DefaultHTTPTimeout,
		UserAgent:   constants.DefaultUserAgent,
		Marshaler:   codec,
		Unmarshaler: codec,
		Logger:      logslog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// ParseConfig is NewConfig for a URL string.
func ParseConfig(rawURL string) (*Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return NewConfig(u), nil
}

func baseURL(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	return strings.TrimRight(c.String(), "/")
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required.ErrorObject(
			validation.NewError("validation_base_url_required", constants.ErrNoBaseURL.Error()))),
		validation.Field(&c.URL, validation.By(func(any) error {
			if c.URL.Scheme != constants.HTTPScheme && c.URL.Scheme != constants.HTTPSecureScheme {
				return fmt.Errorf("scheme must be %s or %s, got %q", constants.HTTPScheme, constants.HTTPSecureScheme, c.URL.Scheme)
			}
			if c.URL.Host == "" {
				return fmt.Errorf("host is required")
			}
			return nil
		})),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Marshaler, validation.Required.ErrorObject(
			validation.NewError("validation_marshaler_required", constants.ErrNoMarshaler.Error()))),
		validation.Field(&c.Unmarshaler, validation.Required.ErrorObject(
			validation.NewError("validation_unmarshaler_required", constants.ErrNoUnmarshaler.Error()))),
	)
}

// EnvConfig is the environment form of Config.
type EnvConfig struct {
	URL      string        `env:"DOCUSSANDRA_URL,required,notEmpty"`
	User     string        `env:"DOCUSSANDRA_USER"`
	Password string        `env:"DOCUSSANDRA_PASSWORD"`
	Token    string        `env:"DOCUSSANDRA_TOKEN"`
	Timeout  time.Duration `env:"DOCUSSANDRA_TIMEOUT" envDefault:"30s"`
}

// Credentials picks bearer auth over basic auth; nil when neither is set.
func (e EnvConfig) Credentials() Credentials {
	switch {
	case e.Token != "":
		return BearerToken(e.Token)
	case e.User != "":
		return BasicAuth{Username: e.User, Password: e.Password}
	}
	return nil
}

// LoadEnvConfig builds a validated Config from the DOCUSSANDRA_* environment variables.
func LoadEnvConfig() (*Config, error) {
	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	cfg, err := ParseConfig(e.URL)
	if err != nil {
		return nil, err
	}
	cfg.Credentials = e.Credentials()
	cfg.Timeout = e.Timeout
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
