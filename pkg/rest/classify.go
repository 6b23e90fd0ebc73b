package rest

import (
	"github.com/docussandra/docussandra-go/pkg/connection"
)

// Classify maps a response onto success, not found or remote error. On success the
// body is returned for decoding.
func Classify(res *connection.Response, url string) ([]byte, error) {
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return res.Body, nil
	case res.StatusCode == 404:
		return nil, &NotFoundError{URL: url}
	default:
		return nil, &RemoteError{StatusCode: res.StatusCode, URL: url, Body: res.Body}
	}
}
