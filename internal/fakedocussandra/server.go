// Package fakedocussandra provides a fake Docussandra HTTP server for testing purposes.
// It answers the HAL/JSON REST API from an in-memory store and includes
// various failure injection capabilities.
//
// To flexibly inject failures, you can configure stub responses
// that match specific HTTP methods and paths, along with failure configurations
// that specify how it fails (e.g., delays, invalid bodies, dropped connections).
// Requests no stub matches are served by the in-memory store.
package fakedocussandra

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/logger"
)

func cryptoRandInt(rMax int) int {
	if rMax <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(rMax)))
	return int(n.Int64())
}

func cryptoRandInt64(rMax int64) int64 {
	if rMax <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(rMax))
	return n.Int64()
}

// cryptoRandFloat64 returns a float64 in [0.0, 1.0)
func cryptoRandFloat64() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(1<<53))
	return float64(n.Int64()) / float64(1<<53)
}

// FailureType represents the type of failure to inject during request processing
type FailureType string

const (
	FailureNone FailureType = "none"
	// FailureRequestDelay delays before processing the request
	FailureRequestDelay FailureType = "request_delay"
	// FailureInvalidResponse sends random bytes as a 200 body
	FailureInvalidResponse FailureType = "invalid_response"
	// FailureDropConnection closes the underlying network connection without answering
	FailureDropConnection FailureType = "drop_connection"
	// FailurePartialMessage announces the full body length but sends only half of it
	FailurePartialMessage FailureType = "partial_message"
	// FailureCorruptedMessage corrupts random bytes in the response body
	FailureCorruptedMessage FailureType = "corrupted_message"
)

// RequestMatcher defines criteria for matching incoming requests.
type RequestMatcher struct {
	// Method is the HTTP method to match
	Method string
	// Path is the URL path to match, e.g. "/databases/db1". A trailing "*" matches
	// any path with that prefix.
	Path string
	// Matcher is an optional function for anything else, such as the query or headers.
	Matcher func(r *http.Request) bool
}

func (m RequestMatcher) matches(r *http.Request) bool {
	if m.Method != "" && m.Method != r.Method {
		return false
	}
	if prefix, ok := strings.CutSuffix(m.Path, "*"); ok {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	} else if m.Path != "" && m.Path != r.URL.Path {
		return false
	}
	return m.Matcher == nil || m.Matcher(r)
}

// StubResponse defines a pre-configured response for matching requests.
type StubResponse struct {
	Matcher RequestMatcher
	// Status defaults to 200
	Status int
	// Body is sent as-is when it is a string or []byte, and as JSON otherwise.
	// nil sends an empty body.
	Body any
	// Failures defines failure injection configurations for this response
	Failures []FailureConfig
}

// FailureConfig defines how and when to inject a specific failure type
type FailureConfig struct {
	Type FailureType
	// Probability of triggering this failure (0.0 to 1.0)
	Probability float64
	// MinDelay is the minimum delay for delay-based failures
	MinDelay time.Duration
	// MaxDelay is the maximum delay for delay-based failures
	MaxDelay time.Duration
}

// RecordedRequest is one request the server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a fake Docussandra server with support for stub responses and failure
// injection.
type Server struct {
	addr           string
	listener       net.Listener
	server         *http.Server
	mu             sync.RWMutex
	stubResponses  []StubResponse
	globalFailures []FailureConfig
	requests       []RecordedRequest
	store          *store
	log            logger.Logger

	// Username and Password, when set, are required as basic auth on every request
	// unless Token is presented instead.
	Username string
	Password string
	// Token, when set, is accepted as a bearer token.
	Token string
}

// NewServer creates a new fake Docussandra server.
// Use "127.0.0.1:0" to bind to a random available port.
func NewServer(addr string) *Server {
	s := &Server{
		addr:  addr,
		store: newStore(),
		log:   logger.Nop(),
	}
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SetLogger replaces the default no-op logger.
func (s *Server) SetLogger(l logger.Logger) {
	s.log = l
}

// AddStubResponse adds a stub response configuration to the server.
// Stub responses are matched in the order they were added.
func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubResponses = append(s.stubResponses, stub)
}

// SetGlobalFailures sets failure configurations that apply to all requests.
// These are checked before stub-specific failures.
func (s *Server) SetGlobalFailures(failures []FailureConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalFailures = failures
}

// Start starts the server and begins accepting connections.
// Returns an error if the server cannot bind to the specified address.
func (s *Server) Start() error {
	var lc net.ListenConfig
	listener, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("fake server stopped", "error", err)
		}
	}()

	return nil
}

// Stop closes the listener and all connections.
func (s *Server) Stop() error {
	return s.server.Close()
}

// Address returns the actual address the server is listening on.
// This is useful when using "127.0.0.1:0" to get the assigned port.
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL is the base URL clients should be configured with.
func (s *Server) URL() string {
	return "http://" + s.Address()
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls is the number of requests received so far.
func (s *Server) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// Reset clears the request log, the stubs and the stored resources.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.stubResponses = nil
	s.globalFailures = nil
	s.store = newStore()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	globalFailures := s.globalFailures
	var matchedStub *StubResponse
	for i := range s.stubResponses {
		if s.stubResponses[i].Matcher.matches(r) {
			stub := s.stubResponses[i]
			matchedStub = &stub
			break
		}
	}
	st := s.store
	s.mu.Unlock()

	s.log.Debug("fake server request", "method", r.Method, "path", r.URL.Path, "stubbed", matchedStub != nil)

	failures := globalFailures
	if matchedStub != nil {
		failures = append(append([]FailureConfig{}, globalFailures...), matchedStub.Failures...)
	}

	var mods []FailureConfig
	for _, failure := range failures {
		if !shouldTriggerFailure(failure.Probability) {
			continue
		}
		switch failure.Type {
		case FailureRequestDelay:
			select {
			case <-time.After(randomDuration(failure.MinDelay, failure.MaxDelay)):
			case <-r.Context().Done():
				return
			}
		case FailureInvalidResponse:
			data := make([]byte, 100)
			_, _ = rand.Read(data)
			w.Header().Set("Content-Type", constants.ContentTypeJSON)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		case FailureDropConnection:
			dropConnection(w)
			return
		case FailurePartialMessage, FailureCorruptedMessage:
			mods = append(mods, failure)
		}
	}

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rec := &recorder{header: http.Header{}, status: http.StatusOK}
	if matchedStub != nil {
		writeStub(rec, matchedStub)
	} else {
		st.serve(rec, r, body)
	}

	for _, m := range mods {
		switch m.Type {
		case FailurePartialMessage:
			full := len(rec.body)
			rec.flushPartial(w, full, full/2)
			return
		case FailureCorruptedMessage:
			for i := 0; i < len(rec.body) && i < 10; i++ {
				rec.body[cryptoRandInt(len(rec.body))] = byte(cryptoRandInt(256))
			}
		}
	}
	rec.flush(w)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.Username == "" && s.Token == "" {
		return true
	}
	if s.Token != "" && r.Header.Get("Authorization") == "Bearer "+s.Token {
		return true
	}
	if s.Username != "" {
		user, pass, ok := r.BasicAuth()
		return ok && user == s.Username && pass == s.Password
	}
	return false
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic(http.ErrAbortHandler)
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetLinger(0)
	}
	_ = conn.Close()
}

func writeStub(w http.ResponseWriter, stub *StubResponse) {
	status := stub.Status
	if status == 0 {
		status = http.StatusOK
	}
	var body []byte
	switch b := stub.Body.(type) {
	case nil:
	case []byte:
		body = b
	case string:
		body = []byte(b)
	default:
		var err error
		if body, err = gojson.Marshal(b); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("stub body: %v", err))
			return
		}
	}
	if len(body) > 0 {
		w.Header().Set("Content-Type", constants.ContentTypeJSON)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := gojson.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// recorder buffers a response so failures can rewrite it before it is sent.
type recorder struct {
	header http.Header
	status int
	body   []byte
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return len(b), nil
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
}

func (r *recorder) flush(w http.ResponseWriter) {
	for k, v := range r.header {
		w.Header()[k] = v
	}
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body)
}

func (r *recorder) flushPartial(w http.ResponseWriter, announced, sent int) {
	for k, v := range r.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Length", fmt.Sprint(announced))
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body[:sent])
}

func shouldTriggerFailure(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return cryptoRandFloat64() < probability
}

func randomDuration(dMin, dMax time.Duration) time.Duration {
	if dMin >= dMax {
		return dMin
	}
	return dMin + time.Duration(cryptoRandInt64(int64(dMax-dMin)))
}

// Match creates a RequestMatcher on method and path
func Match(method, path string) RequestMatcher {
	return RequestMatcher{Method: method, Path: path}
}

// SimpleStubResponse creates a 200 stub response without failure injection
func SimpleStubResponse(method, path string, body any) StubResponse {
	return StubResponse{
		Matcher: Match(method, path),
		Body:    body,
	}
}

// ErrorStubResponse creates a stub response with an error status and an
// {"error": message} body
func ErrorStubResponse(method, path string, status int, message string) StubResponse {
	return StubResponse{
		Matcher: Match(method, path),
		Status:  status,
		Body:    map[string]string{"error": message},
	}
}
