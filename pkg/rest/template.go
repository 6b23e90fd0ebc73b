package rest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/docussandra/docussandra-go/pkg/models"
)

type segment struct {
	literal     string
	placeholder string
}

// Template is a resource path such as "databases/{database}/tables/{table}".
// Placeholders are filled by position from an Identifier's components.
type Template struct {
	raw      string
	segments []segment
	holes    int
}

// ParseTemplate parses a slash-separated template. Each segment is either a literal
// or a whole "{name}" placeholder.
func ParseTemplate(s string) (Template, error) {
	t := Template{raw: s}
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return t, nil
	}
	for _, part := range strings.Split(trimmed, "/") {
		switch {
		case part == "":
			return Template{}, fmt.Errorf("template %q: empty segment", s)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				return Template{}, fmt.Errorf("template %q: invalid placeholder %q", s, part)
			}
			t.segments = append(t.segments, segment{placeholder: name})
			t.holes++
		case strings.ContainsAny(part, "{}"):
			return Template{}, fmt.Errorf("template %q: placeholder must be a whole segment: %q", s, part)
		default:
			t.segments = append(t.segments, segment{literal: part})
		}
	}
	return t, nil
}

// MustParseTemplate is ParseTemplate for package-level templates.
func MustParseTemplate(s string) Template {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Template) Placeholders() int {
	return t.holes
}

func (t Template) String() string {
	return t.raw
}

// Resolve builds base + "/" + the path of id resolved at depth.
//
// The first Placeholders() components fill the placeholders; components beyond them,
// up to depth, are appended as the resource segment. suffix segments are appended
// last. Every component is path-escaped on its own, so it can never add a level.
// An identifier shallower than depth is a CallerError; deeper ones are truncated.
func Resolve(base string, t Template, id models.Identifier, depth int, suffix ...string) (string, error) {
	const op = "resolve"
	if err := id.Validate(); err != nil {
		return "", callerErr(op, "%v", err)
	}
	if depth < t.holes {
		return "", callerErr(op, "depth %d is shallower than template %q", depth, t.raw)
	}
	if id.Depth() < depth {
		return "", callerErr(op, "identifier %q has depth %d, need at least %d", id, id.Depth(), depth)
	}

	components := id.Prefix(depth).Components()
	parts := make([]string, 0, len(t.segments)+len(components)-t.holes+len(suffix))
	next := 0
	for _, seg := range t.segments {
		if seg.placeholder == "" {
			parts = append(parts, seg.literal)
			continue
		}
		parts = append(parts, url.PathEscape(components[next]))
		next++
	}
	for ; next < len(components); next++ {
		parts = append(parts, url.PathEscape(components[next]))
	}
	for _, s := range suffix {
		if s != "" {
			parts = append(parts, url.PathEscape(s))
		}
	}

	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/"), nil
}
