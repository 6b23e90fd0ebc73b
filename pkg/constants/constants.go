package constants

import "time"

var (
	HTTPScheme       = "http"
	HTTPSecureScheme = "https"
)

const (
	// DefaultHTTPTimeout bounds a single round trip when the caller sets no timeout.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent is sent on every request.
	DefaultUserAgent = "docussandra-go"

	ContentTypeJSON = "application/json"

	HeaderRequestID = "X-Request-Id"
)

// Query parameter names used for paged reads.
const (
	ParamLimit  = "limit"
	ParamOffset = "offset"
)

// HAL envelope member names.
const (
	LinksKey    = "_links"
	EmbeddedKey = "_embedded"
)

// Environment variables read by LoadEnvConfig.
const (
	EnvURL      = "DOCUSSANDRA_URL"
	EnvUser     = "DOCUSSANDRA_USER"
	EnvPassword = "DOCUSSANDRA_PASSWORD"
	EnvToken    = "DOCUSSANDRA_TOKEN"
	EnvTimeout  = "DOCUSSANDRA_TIMEOUT"
)
