package main

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/docussandra/docussandra-go/pkg/models"
)

// print writes v as indented JSON. Documents are printed with their id and
// timestamps next to the object members.
func (a *app) print(v any) error {
	b, err := gojson.MarshalIndent(render(v), "", "  ")
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

func render(v any) any {
	switch t := v.(type) {
	case models.Document:
		return renderDocument(t)
	case []models.Document:
		out := make([]map[string]any, len(t))
		for i := range t {
			out[i] = renderDocument(t[i])
		}
		return out
	}
	return v
}

func renderDocument(d models.Document) map[string]any {
	out := make(map[string]any, len(d.Object)+3)
	for k, v := range d.Object {
		out[k] = v
	}
	out["id"] = d.ID.String()
	if d.CreatedAt != nil {
		out["createdAt"] = d.CreatedAt
	}
	if d.UpdatedAt != nil {
		out["updatedAt"] = d.UpdatedAt
	}
	return out
}
