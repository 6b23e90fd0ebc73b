package constants

import "errors"

// Errors
var (
	// ErrCaller marks failures caused by input the caller supplied. No request was sent.
	ErrCaller = errors.New("invalid caller input")
	// ErrTransport marks failures where no HTTP response was obtained.
	ErrTransport = errors.New("no response from Docussandra")
	// ErrRemote marks non-2xx, non-404 responses.
	ErrRemote = errors.New("Docussandra returned an error") //nolint:stylecheck
	// ErrNotFound marks 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrDecode marks response bodies that do not match the expected envelope.
	ErrDecode = errors.New("invalid Docussandra response") //nolint:stylecheck
)

var (
	ErrNoBaseURL          = errors.New("base url not set")
	ErrNoMarshaler        = errors.New("marshaler is not set")
	ErrNoUnmarshaler      = errors.New("unmarshaler is not set")
	ErrMethodNotAvailable = errors.New("method not available on this connection")
)
