// Package json is the default codec: goccy/go-json with the encoding/json contract.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/docussandra/docussandra-go/internal/codec"
)

// Codec encodes and decodes JSON bodies.
type Codec struct {
	// DisallowUnknownFields makes decoding fail on fields the target type does not declare.
	DisallowUnknownFields bool
}

var _ codec.MarshalUnmarshaler = (*Codec)(nil)

func New() *Codec {
	return &Codec{}
}

func (c *Codec) Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func (c *Codec) NewEncoder(w io.Writer) codec.Encoder {
	return gojson.NewEncoder(w)
}

func (c *Codec) Unmarshal(data []byte, dst any) error {
	if !c.DisallowUnknownFields {
		return gojson.Unmarshal(data, dst)
	}
	return c.NewDecoder(bytes.NewReader(data)).Decode(dst)
}

func (c *Codec) NewDecoder(r io.Reader) codec.Decoder {
	dec := gojson.NewDecoder(r)
	if c.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	return dec
}
