// Package rest is the generic REST-DAO engine: it resolves identifiers to resource
// URLs, runs one HTTP verb per call through a connection.Invoker, classifies the
// response and decodes HAL envelopes into domain objects.
//
// The engine never logs, caches or retries. Every failure is returned to the caller
// as one of CallerError, TransportError, NotFoundError, RemoteError or DecodeError;
// KindOf maps any of them to a Kind.
package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/docussandra/docussandra-go/internal/codec"
	jsoncodec "github.com/docussandra/docussandra-go/pkg/codec/json"
	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/models"
)

// Engine holds what every DAO shares: the invoker, the base URL and the codec.
// It is immutable and safe for concurrent use.
type Engine struct {
	invoker     connection.Invoker
	base        string
	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler
}

type Option func(*Engine)

// WithCodec replaces the default JSON codec.
func WithCodec(m codec.Marshaler, u codec.Unmarshaler) Option {
	return func(e *Engine) {
		if m != nil {
			e.marshaler = m
		}
		if u != nil {
			e.unmarshaler = u
		}
	}
}

func NewEngine(invoker connection.Invoker, base string, opts ...Option) *Engine {
	c := jsoncodec.New()
	e := &Engine{
		invoker:     invoker,
		base:        base,
		marshaler:   c,
		unmarshaler: c,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) BaseURL() string {
	return e.base
}

func (e *Engine) Unmarshaler() codec.Unmarshaler {
	return e.unmarshaler
}

// Resolve is the package-level Resolve against the engine's base URL.
func (e *Engine) Resolve(t Template, id models.Identifier, depth int, suffix ...string) (string, error) {
	return Resolve(e.base, t, id, depth, suffix...)
}

// Encode produces the JSON projection of payload. A failure is the caller's.
func (e *Engine) Encode(op string, payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	b, err := e.marshaler.Marshal(payload)
	if err != nil {
		return nil, callerErr(op, "encode request body: %v", err)
	}
	return b, nil
}

// Do sends one request and classifies the answer. It returns the body of a 2xx
// response; decoding is left to the caller so that it never starts before
// classification succeeded.
func (e *Engine) Do(ctx context.Context, method, resourceURL string, query url.Values, body []byte) ([]byte, error) {
	res, err := e.invoker.Invoke(ctx, &connection.Request{
		Method: method,
		URL:    resourceURL,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &TransportError{Method: method, URL: resourceURL, Err: fmt.Errorf("invoker returned no response")}
	}
	return Classify(res, resourceURL)
}

// Page builds the pagination query. A non-positive limit leaves the page size to the
// server; a negative offset is a CallerError.
func Page(op string, limit int, offset int64) (url.Values, error) {
	if offset < 0 {
		return nil, callerErr(op, "offset must not be negative, got %d", offset)
	}
	q := url.Values{}
	if limit > 0 {
		q.Set(constants.ParamLimit, strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set(constants.ParamOffset, strconv.FormatInt(offset, 10))
	}
	return q, nil
}
