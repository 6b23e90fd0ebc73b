package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type FieldDataType string

const (
	FieldText    FieldDataType = "TEXT"
	FieldInteger FieldDataType = "INTEGER"
	FieldLong    FieldDataType = "LONG"
	FieldDouble  FieldDataType = "DOUBLE"
	FieldBoolean FieldDataType = "BOOLEAN"
	FieldDate    FieldDataType = "DATE"
	FieldUUID    FieldDataType = "UUID"
	FieldBinary  FieldDataType = "BINARY"
)

// IndexField is one indexed document field and the type it is indexed as.
type IndexField struct {
	Field string        `json:"field"`
	Type  FieldDataType `json:"type"`
}

func (f IndexField) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Field, validation.Required),
		validation.Field(&f.Type, validation.Required, validation.In(
			FieldText, FieldInteger, FieldLong, FieldDouble,
			FieldBoolean, FieldDate, FieldUUID, FieldBinary,
		)),
	)
}

// Index is a secondary index over a table's documents.
type Index struct {
	Database    string       `json:"database,omitempty"`
	Table       string       `json:"table,omitempty"`
	Name        string       `json:"name"`
	Fields      []IndexField `json:"fields"`
	IncludeOnly []string     `json:"includeOnly,omitempty"`
	IsUnique    bool         `json:"isUnique"`
	IsActive    bool         `json:"isActive"`
	Timestamps
}

func (i Index) Identifier() Identifier {
	return NewIdentifier(i.Database, i.Table, i.Name)
}

func (i *Index) SetIdentifier(id Identifier) {
	if i.Database == "" {
		i.Database = id.Database()
	}
	if i.Table == "" {
		i.Table = id.Table()
	}
	if i.Name == "" {
		i.Name = id.ID()
	}
}

func (i Index) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Database, validation.Required, nameRule),
		validation.Field(&i.Table, validation.Required, nameRule),
		validation.Field(&i.Name, validation.Required, validation.Length(1, 255), nameRule),
		validation.Field(&i.Fields, validation.Required),
	)
}
