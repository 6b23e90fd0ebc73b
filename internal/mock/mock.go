// Package mock provides an in-process connection.Invoker that answers every
// request with a canned response.
package mock

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/docussandra/docussandra-go/pkg/connection"
)

type invoker struct {
	responses map[string]*connection.Response
	fallback  *connection.Response
	calls     atomic.Int64
}

// Create returns an invoker answering 200 with an empty JSON object to every request.
func Create() *invoker {
	return &invoker{
		responses: make(map[string]*connection.Response),
		fallback:  &connection.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(`{}`)},
	}
}

// Respond sets the response to requests with the given method.
func (m *invoker) Respond(method string, status int, body string) *invoker {
	m.responses[method] = &connection.Response{StatusCode: status, Header: http.Header{}, Body: []byte(body)}
	return m
}

func (m *invoker) Invoke(_ context.Context, req *connection.Request) (*connection.Response, error) {
	m.calls.Add(1)
	if res, ok := m.responses[req.Method]; ok {
		return res, nil
	}
	return m.fallback, nil
}

// Calls is the number of requests answered so far.
func (m *invoker) Calls() int64 {
	return m.calls.Load()
}
