package models

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// server-populated members of a document response
const (
	docIDKey        = "id"
	docCreatedAtKey = "createdAt"
	docUpdatedAtKey = "updatedAt"
)

// Document is a free-form JSON object stored in a table.
//
// Its JSON projection is Object alone. When decoding a response every top-level
// member except the HAL ones lands in Object, and the server-populated id,
// createdAt and updatedAt are lifted into fields.
type Document struct {
	Database string
	Table    string
	ID       uuid.UUID
	Object   map[string]any
	Timestamps
}

// NewDocument creates an unsaved document for database/table.
func NewDocument(database, table string, object map[string]any) Document {
	return Document{Database: database, Table: table, Object: object}
}

// ParseDocument builds an unsaved document from a JSON object string.
func ParseDocument(database, table, objectJSON string) (Document, error) {
	var obj map[string]any
	if err := gojson.Unmarshal([]byte(objectJSON), &obj); err != nil {
		return Document{}, fmt.Errorf("invalid document JSON: %w", err)
	}
	if obj == nil {
		return Document{}, errors.New("document JSON must be an object")
	}
	return NewDocument(database, table, obj), nil
}

func (d Document) Identifier() Identifier {
	if d.ID == uuid.Nil {
		return NewIdentifier(d.Database, d.Table)
	}
	return NewIdentifier(d.Database, d.Table, d.ID.String())
}

func (d *Document) SetIdentifier(id Identifier) {
	d.Database = id.Database()
	d.Table = id.Table()
	if d.ID != uuid.Nil {
		return
	}
	if parsed, err := uuid.Parse(id.ID()); err == nil {
		d.ID = parsed
	}
}

func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Database, validation.Required, nameRule),
		validation.Field(&d.Table, validation.Required, nameRule),
		validation.Field(&d.Object, validation.NotNil),
	)
}

// Get returns a top-level member of the object.
func (d Document) Get(key string) (any, bool) {
	v, ok := d.Object[key]
	return v, ok
}

// DecodeObject binds the free-form object onto out, a pointer to a struct or map.
// Struct fields match on their `json` tag.
func (d Document) DecodeObject(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(d.Object)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if d.Object == nil {
		return []byte("{}"), nil
	}
	return gojson.Marshal(d.Object)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := gojson.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return errors.New("document must be a JSON object")
	}
	delete(obj, "_links")
	delete(obj, "_embedded")

	if raw, ok := obj[docIDKey].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			d.ID = id
			delete(obj, docIDKey)
		}
	}
	if raw, ok := obj[docCreatedAtKey]; ok {
		if ts, err := parseTimestamp(raw); err == nil {
			d.CreatedAt = ts
			delete(obj, docCreatedAtKey)
		}
	}
	if raw, ok := obj[docUpdatedAtKey]; ok {
		if ts, err := parseTimestamp(raw); err == nil {
			d.UpdatedAt = ts
			delete(obj, docUpdatedAtKey)
		}
	}
	d.Object = obj
	return nil
}
