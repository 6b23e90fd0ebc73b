package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/constants"
	"github.com/docussandra/docussandra-go/pkg/hal"
)

// CallerError reports input rejected before any request was made.
type CallerError struct {
	Op     string
	Reason string
}

func (e *CallerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *CallerError) Is(target error) bool {
	return target == constants.ErrCaller
}

func callerErr(op, format string, args ...any) *CallerError {
	return &CallerError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", constants.ErrNotFound, e.URL)
}

func (e *NotFoundError) Is(target error) bool {
	return target == constants.ErrNotFound
}

// RemoteError reports a response with a non-2xx status other than 404. Body is the
// response body exactly as received.
type RemoteError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *RemoteError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("docussandra returned status %d for %s: %s", e.StatusCode, e.URL, msg)
}

func (e *RemoteError) Is(target error) bool {
	return target == constants.ErrRemote
}

// Message extracts the server's "error" or "message" member when the body is a JSON
// object carrying one, or the trimmed body otherwise.
func (e *RemoteError) Message() string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := gojson.Unmarshal(e.Body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(e.Body))
}

type (
	// TransportError is re-exported so callers need only this package.
	TransportError = connection.TransportError
	DecodeError    = hal.DecodeError
)

// Kind tags the outcome of a DAO call.
type Kind int

const (
	KindSuccess Kind = iota
	KindCallerError
	KindTransportFailure
	KindRemoteError
	KindNotFound
	KindDecodeFailure
	// KindUnknown is an error none of the DAO operations produce.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindCallerError:
		return "caller error"
	case KindTransportFailure:
		return "transport failure"
	case KindRemoteError:
		return "remote error"
	case KindNotFound:
		return "not found"
	case KindDecodeFailure:
		return "decode failure"
	}
	return "unknown"
}

// KindOf classifies an error returned by a DAO, so callers can switch on the outcome:
//
//	switch rest.KindOf(err) {
//	case rest.KindSuccess:
//	case rest.KindNotFound:
//	...
//	}
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, constants.ErrCaller):
		return KindCallerError
	case errors.Is(err, constants.ErrNotFound):
		return KindNotFound
	case errors.Is(err, constants.ErrRemote):
		return KindRemoteError
	case errors.Is(err, constants.ErrDecode):
		return KindDecodeFailure
	case errors.Is(err, constants.ErrTransport):
		return KindTransportFailure
	}
	return KindUnknown
}
