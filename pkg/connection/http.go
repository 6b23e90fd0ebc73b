package connection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/logger"
)

// HTTPConnection is the Invoker backed by net/http.
type HTTPConnection struct {
	baseURL     string
	credentials Credentials
	userAgent   string
	logger      logger.Logger

	httpClient *http.Client
}

var _ Invoker = (*HTTPConnection)(nil)

func NewHTTPConnection(cfg *Config) *HTTPConnection {
	con := HTTPConnection{
		baseURL:     cfg.BaseURL,
		credentials: cfg.Credentials,
		userAgent:   cfg.UserAgent,
		logger:      cfg.Logger,
		httpClient:  cfg.HTTPClient,
	}

	if con.logger == nil {
		con.logger = logger.Nop()
	}
	if con.userAgent == "" {
		con.userAgent = constants.DefaultUserAgent
	}
	if con.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		con.httpClient = &http.Client{
			Timeout: timeout, // Set a default timeout to avoid hanging requests
		}
	}

	return &con
}

// BaseURL is the prefix resource paths are resolved against.
func (h *HTTPConnection) BaseURL() string {
	return h.baseURL
}

func (h *HTTPConnection) SetTimeout(timeout time.Duration) *HTTPConnection {
	h.httpClient.Timeout = timeout
	return h
}

func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

// Invoke performs one round trip.
func (h *HTTPConnection) Invoke(ctx context.Context, r *Request) (*Response, error) {
	if !isSupportedMethod(r.Method) {
		return nil, fmt.Errorf("%w: unsupported method %q", constants.ErrCaller, r.Method)
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrCaller, err)
	}
	if len(r.Query) > 0 {
		req.URL.RawQuery = r.Query.Encode()
	}

	req.Header.Set("Accept", constants.ContentTypeJSON)
	if r.Body != nil {
		req.Header.Set("Content-Type", constants.ContentTypeJSON)
	}
	req.Header.Set("User-Agent", h.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(constants.HeaderRequestID, requestID)
	if h.credentials != nil {
		h.credentials.Apply(req)
	}

	return h.MakeRequest(req)
}

// MakeRequest sends req and reads the whole response body.
func (h *HTTPConnection) MakeRequest(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Debug("docussandra request failed",
			"method", req.Method, "url", req.URL.String(),
			"request_id", req.Header.Get(constants.HeaderRequestID), "error", err)
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("read response body: %w", err)}
	}

	h.logger.Debug("docussandra request",
		"method", req.Method, "url", req.URL.String(),
		"request_id", req.Header.Get(constants.HeaderRequestID),
		"status", resp.StatusCode, "bytes", len(respBytes), "duration", time.Since(start))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBytes,
	}, nil
}

// Ping checks that the server answers at the base URL. Any status below 500 counts
// as reachable.
func (h *HTTPConnection) Ping(ctx context.Context) error {
	res, err := h.Invoke(ctx, &Request{Method: http.MethodGet, URL: h.baseURL + "/"})
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: health check returned status %d", constants.ErrRemote, res.StatusCode)
	}
	return nil
}
