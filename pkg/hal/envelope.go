// Package hal decodes the HAL-style envelopes Docussandra responds with.
//
// A single resource is a JSON object whose members are the resource fields plus an
// optional "_links" member. A list is an object with "_links" and an "_embedded"
// member holding the resources under a collection name:
//
//	{"_links": {...}, "_embedded": {"documents": [{...}, {...}]}}
//
// A body that does not have the expected shape is a DecodeError, never an empty result.
package hal

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/docussandra/docussandra-go/internal/codec"
	"github.com/docussandra/docussandra-go/pkg/constants"
)

// Resource is a decoded single-resource envelope.
type Resource[T any] struct {
	Value T
	Links Links
}

// List is a decoded list envelope. Items keep the order of the response.
type List[T any] struct {
	Items []Resource[T]
	Links Links
}

// Values returns the decoded items without their links.
func (l *List[T]) Values() []T {
	values := make([]T, len(l.Items))
	for i := range l.Items {
		values[i] = l.Items[i].Value
	}
	return values
}

func (l *List[T]) Len() int {
	return len(l.Items)
}

// DecodeError reports a response body that does not match the expected envelope.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode response: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == constants.ErrDecode
}

func decodeErr(reason string, err error) *DecodeError {
	return &DecodeError{Reason: reason, Err: err}
}

type validator interface {
	Validate() error
}

// DecodeSingle decodes a single-resource envelope. prepare hooks run on the decoded
// value before it is validated.
func DecodeSingle[T any](u codec.Unmarshaler, body []byte, prepare ...func(*T)) (*Resource[T], error) {
	if u == nil {
		return nil, constants.ErrNoUnmarshaler
	}
	if err := requireObject(body, "body"); err != nil {
		return nil, err
	}
	return decodeResource(u, body, prepare)
}

// DecodeList decodes a list envelope whose items live under _embedded.<collection>.
// An empty collection name selects the only member of _embedded.
func DecodeList[T any](u codec.Unmarshaler, body []byte, collection string, prepare ...func(*T)) (*List[T], error) {
	if u == nil {
		return nil, constants.ErrNoUnmarshaler
	}
	if err := requireObject(body, "body"); err != nil {
		return nil, err
	}

	embedded, typ, _, err := jsonparser.Get(body, constants.EmbeddedKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, decodeErr("missing "+constants.EmbeddedKey, nil)
	}
	if err != nil {
		return nil, decodeErr("malformed "+constants.EmbeddedKey, err)
	}
	if typ != jsonparser.Object {
		return nil, decodeErr(fmt.Sprintf("%s is %s, want object", constants.EmbeddedKey, typ), nil)
	}

	if collection == "" {
		collection, err = onlyMember(embedded)
		if err != nil {
			return nil, err
		}
	}

	items, typ, _, err := jsonparser.Get(embedded, collection)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, decodeErr(fmt.Sprintf("missing %s.%s", constants.EmbeddedKey, collection), nil)
	}
	if err != nil {
		return nil, decodeErr(fmt.Sprintf("malformed %s.%s", constants.EmbeddedKey, collection), err)
	}
	if typ != jsonparser.Array {
		return nil, decodeErr(fmt.Sprintf("%s.%s is %s, want array", constants.EmbeddedKey, collection, typ), nil)
	}

	list := &List[T]{Items: []Resource[T]{}}
	var itemErr error
	index := 0
	_, err = jsonparser.ArrayEach(items, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		defer func() { index++ }()
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = decodeErr(fmt.Sprintf("item %d", index), err)
			return
		}
		if dataType != jsonparser.Object {
			itemErr = decodeErr(fmt.Sprintf("item %d is %s, want object", index, dataType), nil)
			return
		}
		res, err := decodeResource(u, value, prepare)
		if err != nil {
			itemErr = decodeErr(fmt.Sprintf("item %d", index), err)
			return
		}
		list.Items = append(list.Items, *res)
	})
	if err != nil {
		return nil, decodeErr(fmt.Sprintf("malformed %s.%s", constants.EmbeddedKey, collection), err)
	}
	if itemErr != nil {
		return nil, itemErr
	}

	list.Links, err = decodeLinks(u, body)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func decodeResource[T any](u codec.Unmarshaler, body []byte, prepare []func(*T)) (*Resource[T], error) {
	var value T
	if err := u.Unmarshal(body, &value); err != nil {
		return nil, decodeErr("resource", err)
	}
	links, err := decodeLinks(u, body)
	if err != nil {
		return nil, err
	}
	for _, p := range prepare {
		p(&value)
	}
	if v, ok := any(&value).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, decodeErr("invalid resource", err)
		}
	}
	return &Resource[T]{Value: value, Links: links}, nil
}

func decodeLinks(u codec.Unmarshaler, body []byte) (Links, error) {
	raw, typ, _, err := jsonparser.Get(body, constants.LinksKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || typ == jsonparser.Null {
		return Links{}, nil
	}
	if err != nil {
		return nil, decodeErr("malformed "+constants.LinksKey, err)
	}
	if typ != jsonparser.Object {
		return nil, decodeErr(fmt.Sprintf("%s is %s, want object", constants.LinksKey, typ), nil)
	}
	var links Links
	if err := u.Unmarshal(raw, &links); err != nil {
		return nil, decodeErr("malformed "+constants.LinksKey, err)
	}
	return links, nil
}

func requireObject(body []byte, what string) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return decodeErr("empty "+what, nil)
	}
	_, typ, _, err := jsonparser.Get(body)
	if err != nil {
		return decodeErr("malformed "+what, err)
	}
	if typ != jsonparser.Object {
		return decodeErr(fmt.Sprintf("%s is %s, want object", what, typ), nil)
	}
	return nil
}

func onlyMember(obj []byte) (string, error) {
	var keys []string
	err := jsonparser.ObjectEach(obj, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		return "", decodeErr("malformed "+constants.EmbeddedKey, err)
	}
	if len(keys) != 1 {
		return "", decodeErr(fmt.Sprintf("%s has %d members, cannot pick a collection", constants.EmbeddedKey, len(keys)), nil)
	}
	return keys[0], nil
}
