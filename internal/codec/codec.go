// Package codec declares the encoding seam between the DAO engine and the wire format.
package codec

import "io"

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

// Marshaler produces the JSON projection of a domain object.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

// Unmarshaler decodes response bodies. Implementations must reject malformed input
// rather than leaving dst at its zero value.
type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

// MarshalUnmarshaler is implemented by codecs that handle both directions.
type MarshalUnmarshaler interface {
	Marshaler
	Unmarshaler
}
