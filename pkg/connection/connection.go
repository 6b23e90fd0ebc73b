package connection

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/docussandra/docussandra-go/pkg/constants"
)

// Request is one HTTP call against a resolved resource URL.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	// Body is the JSON request body, nil for none.
	Body []byte
}

// Response is whatever the server answered, whatever the status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Invoker issues exactly one request per call and never retries.
//
// A returned error means no response was obtained (see TransportError) or the request
// could not be built; a received response is returned as-is, including non-2xx ones.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f InvokerFunc) Invoke(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// TransportError reports a request that produced no response: DNS failure, refused
// connection, timeout, cancellation, or a body cut short.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == constants.ErrTransport
}

func isSupportedMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Credentials authenticate an outgoing request.
type Credentials interface {
	Apply(req *http.Request)
}

// BasicAuth sends HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(b.Username, b.Password)
}

// BearerToken sends "Authorization: Bearer <token>".
type BearerToken string

func (t BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(t))
}
