package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Table lives in a Database and holds documents.
type Table struct {
	Database    string `json:"database,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Timestamps
}

func NewTable(database, name string) Table {
	return Table{Database: database, Name: name}
}

func (t Table) Identifier() Identifier {
	return NewIdentifier(t.Database, t.Name)
}

func (t *Table) SetIdentifier(id Identifier) {
	if t.Database == "" {
		t.Database = id.Database()
	}
	if t.Name == "" {
		t.Name = id.Table()
	}
}

func (t Table) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Database, validation.Required, nameRule),
		validation.Field(&t.Name, validation.Required, validation.Length(1, 255), nameRule),
		validation.Field(&t.Description, validation.Length(0, 4096)),
	)
}
