package hal

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Link is one HAL relation target.
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
	Title     string `json:"title,omitempty"`
}

// UnmarshalJSON accepts both a link object and a bare URL string.
func (l *Link) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var href string
		if err := gojson.Unmarshal(data, &href); err != nil {
			return err
		}
		*l = Link{Href: href}
		return nil
	}
	type plain Link
	var p plain
	if err := gojson.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	*l = Link(p)
	return nil
}

// Links maps a relation name to its targets. A relation given as a single link
// holds one element; one given as an array keeps every element in order.
type Links map[string][]Link

func (l *Links) UnmarshalJSON(data []byte) error {
	var raw map[string]gojson.RawMessage
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Links, len(raw))
	for rel, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) > 0 && msg[0] == '[' {
			var many []Link
			if err := gojson.Unmarshal(msg, &many); err != nil {
				return fmt.Errorf("relation %q: %w", rel, err)
			}
			out[rel] = many
			continue
		}
		var one Link
		if err := gojson.Unmarshal(msg, &one); err != nil {
			return fmt.Errorf("relation %q: %w", rel, err)
		}
		out[rel] = []Link{one}
	}
	*l = out
	return nil
}

// Get returns the first target of rel.
func (l Links) Get(rel string) (Link, bool) {
	all := l[rel]
	if len(all) == 0 {
		return Link{}, false
	}
	return all[0], true
}

// All returns every target of rel.
func (l Links) All(rel string) []Link {
	return l[rel]
}

// Href returns the first target of rel.
func (l Links) Href(rel string) (string, bool) {
	link, ok := l.Get(rel)
	if !ok {
		return "", false
	}
	return link.Href, true
}

// Self is the "self" relation, or "".
func (l Links) Self() string {
	href, _ := l.Href("self")
	return href
}
