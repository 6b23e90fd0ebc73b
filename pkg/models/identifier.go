package models

import (
	"fmt"
	"strings"
)

// Identifier addresses a resource in the database → table → resource-id hierarchy.
// Depth is significant: 1 names a database, 2 a table, 3 a resource inside a table.
type Identifier struct {
	components []string
}

// NewIdentifier builds an Identifier from its components. Trailing empty components
// are dropped, so NewIdentifier("db", "") has depth 1.
func NewIdentifier(components ...string) Identifier {
	n := len(components)
	for n > 0 && components[n-1] == "" {
		n--
	}
	c := make([]string, n)
	copy(c, components[:n])
	return Identifier{components: c}
}

// ParseIdentifier parses the "database/table/id" form. Leading and trailing slashes
// are ignored; empty segments in between are not.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Identifier{}, nil
	}
	bits := strings.Split(s, "/")
	for i, b := range bits {
		if b == "" {
			return Identifier{}, fmt.Errorf("invalid identifier %q: empty component at position %d", s, i)
		}
	}
	return NewIdentifier(bits...), nil
}

// Depth is the number of non-empty components.
func (id Identifier) Depth() int {
	n := 0
	for _, c := range id.components {
		if c != "" {
			n++
		}
	}
	return n
}

// Validate reports an empty component that precedes a non-empty one, and the dot
// segments "." and "..", which a server or proxy may collapse into another path.
func (id Identifier) Validate() error {
	for i, c := range id.components {
		switch c {
		case "":
			return fmt.Errorf("identifier %s has an empty component at position %d", id, i)
		case ".", "..":
			return fmt.Errorf("identifier %s has a dot segment %q at position %d", id, c, i)
		}
	}
	return nil
}

// Components returns a copy of the components.
func (id Identifier) Components() []string {
	c := make([]string, len(id.components))
	copy(c, id.components)
	return c
}

// Component returns the i-th component, or "" when the identifier is shallower.
func (id Identifier) Component(i int) string {
	if i < 0 || i >= len(id.components) {
		return ""
	}
	return id.components[i]
}

// Prefix returns the first n components. n beyond the depth returns the whole identifier.
func (id Identifier) Prefix(n int) Identifier {
	if n < 0 {
		n = 0
	}
	if n > len(id.components) {
		n = len(id.components)
	}
	return NewIdentifier(id.components[:n]...)
}

// Append returns a deeper identifier. id itself is unchanged.
func (id Identifier) Append(component string) Identifier {
	c := make([]string, 0, len(id.components)+1)
	c = append(c, id.components...)
	return NewIdentifier(append(c, component)...)
}

func (id Identifier) Database() string { return id.Component(0) }

func (id Identifier) Table() string { return id.Component(1) }

// ID is the resource component of a depth-3 identifier.
func (id Identifier) ID() string { return id.Component(2) }

func (id Identifier) Equal(other Identifier) bool {
	if len(id.components) != len(other.components) {
		return false
	}
	for i := range id.components {
		if id.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

func (id Identifier) String() string {
	return strings.Join(id.components, "/")
}
