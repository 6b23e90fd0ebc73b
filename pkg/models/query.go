package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Query selects documents of one table with a where clause over indexed fields,
// e.g. "myindexedfield = 'thisismyfield'".
type Query struct {
	Database string `json:"database"`
	Table    string `json:"table"`
	Where    string `json:"where"`
}

func (q Query) Identifier() Identifier {
	return NewIdentifier(q.Database, q.Table)
}

func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Database, validation.Required, nameRule),
		validation.Field(&q.Table, validation.Required, nameRule),
		validation.Field(&q.Where, validation.Required),
	)
}
