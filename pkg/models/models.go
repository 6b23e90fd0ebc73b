// Package models holds the Docussandra value objects the DAOs read and write.
//
// Every object knows its own Identifier, can be bound to the identifier it was read
// from, and validates the fields the server requires.
package models

import (
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
)

// Entity is implemented by every resource a DAO can manage.
type Entity interface {
	Identifier() Identifier
}

// Binder is implemented by resources that learn their location from the request
// rather than from the response body.
type Binder interface {
	SetIdentifier(id Identifier)
}

type Validator interface {
	Validate() error
}

// Timestamps are populated by the server and never sent.
type Timestamps struct {
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// Timestamp is a server-populated instant. It decodes from an RFC 3339 string or
// from epoch milliseconds and encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var v any
	if err := gojson.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	ts, err := parseTimestamp(v)
	if err != nil {
		return err
	}
	*t = *ts
	return nil
}

// parseTimestamp accepts RFC 3339 strings and epoch milliseconds, the two forms the
// server has used for createdAt/updatedAt.
func parseTimestamp(v any) (*Timestamp, error) {
	switch t := v.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil, err
		}
		return &Timestamp{Time: ts}, nil
	case float64:
		return &Timestamp{Time: time.UnixMilli(int64(t)).UTC()}, nil
	default:
		return nil, fmt.Errorf("unsupported timestamp %T", v)
	}
}
