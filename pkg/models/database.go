package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// names of databases, tables and indexes become path components
var nameRule = validation.Match(regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)).Error("must contain only letters, digits, '_' or '-'")

// Database is the top of the hierarchy.
type Database struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Timestamps
}

func NewDatabase(name string) Database {
	return Database{Name: name}
}

func (d Database) Identifier() Identifier {
	return NewIdentifier(d.Name)
}

func (d *Database) SetIdentifier(id Identifier) {
	if d.Name == "" {
		d.Name = id.Database()
	}
}

func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 255), nameRule),
		validation.Field(&d.Description, validation.Length(0, 4096)),
	)
}
