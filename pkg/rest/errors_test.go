package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/constants"
)

func TestClassify(t *testing.T) {
	body, err := Classify(&connection.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, "u")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), body)

	body, err = Classify(&connection.Response{StatusCode: http.StatusNoContent}, "u")
	require.NoError(t, err)
	assert.Empty(t, body)

	_, err = Classify(&connection.Response{StatusCode: http.StatusNotFound, Body: []byte("gone")}, "u")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "u", nf.URL)

	_, err = Classify(&connection.Response{StatusCode: http.StatusConflict, Body: []byte(`{"error":"exists"}`)}, "u")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusConflict, re.StatusCode)
	assert.Equal(t, "exists", re.Message())
	assert.Contains(t, re.Error(), "409")
}

func TestRemoteError_Message(t *testing.T) {
	assert.Equal(t, "boom", (&RemoteError{Body: []byte(`{"message":"boom"}`)}).Message())
	assert.Equal(t, "plain text", (&RemoteError{Body: []byte(" plain text\n")}).Message())
	assert.Contains(t, (&RemoteError{StatusCode: 502}).Error(), http.StatusText(502))
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindSuccess},
		{callerErr("op", "bad"), KindCallerError},
		{&TransportError{Method: http.MethodGet, URL: "u", Err: errors.New("reset")}, KindTransportFailure},
		{&NotFoundError{URL: "u"}, KindNotFound},
		{&RemoteError{StatusCode: 500}, KindRemoteError},
		{&DecodeError{Reason: "missing _embedded"}, KindDecodeFailure},
		{fmt.Errorf("read: %w", &NotFoundError{URL: "u"}), KindNotFound},
		{errors.New("other"), KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), "%v", tc.err)
	}
	assert.Equal(t, "not found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestPage(t *testing.T) {
	q, err := Page("list", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, q)

	q, err = Page("list", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "10", q.Get(constants.ParamLimit))
	assert.Equal(t, "20", q.Get(constants.ParamOffset))

	_, err = Page("list", 10, -1)
	assert.ErrorIs(t, err, constants.ErrCaller)
}
