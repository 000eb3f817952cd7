// Package slug validates and normalizes the slash-separated slug paths
// that identify categories and memories. Validation is pure and
// synchronous; every I/O-performing operation validates first and
// short-circuits on failure.
package slug

import (
	"regexp"
	"strings"

	"github.com/Yeseh/cortex/internal/model"
)

// ReservedSlug collides with the per-category index file name and is
// rejected as a terminal memory slug.
const ReservedSlug = "index"

var segmentPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Path is a normalized sequence of validated slug segments. An empty
// Path denotes the store root.
type Path []string

// String joins the segments with "/". The root path renders as "".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// IsRoot reports whether the path denotes the store root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path with the last segment removed.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Leaf returns the final segment, or "" for the root.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns the path extended by one segment.
func (p Path) Child(segment string) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, segment)
}

// normalize splits raw on "/", trims whitespace, and drops empty
// segments. It performs no validation.
func normalize(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseMemory validates raw as a memory identity: at least one category
// segment followed by a terminal slug, every segment matching
// [a-z0-9-]+, and the terminal slug not the reserved "index".
func ParseMemory(raw string) (Path, error) {
	segments := normalize(raw)
	if len(segments) < 2 {
		return nil, model.NewPathError(model.ErrInvalidPath,
			"memory path requires at least one category and a slug", raw)
	}
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return nil, model.NewPathError(model.ErrInvalidSlug,
				"segment must match [a-z0-9-]+: "+seg, raw)
		}
	}
	if segments[len(segments)-1] == ReservedSlug {
		return nil, model.NewPathError(model.ErrInvalidSlug,
			"'index' is reserved and cannot be used as a memory slug", raw)
	}
	return Path(segments), nil
}

// ParseCategory validates raw as a category path: one or more segments,
// each matching the slug grammar.
func ParseCategory(raw string) (Path, error) {
	segments := normalize(raw)
	if len(segments) == 0 {
		return nil, model.NewPathError(model.ErrInvalidPath,
			"category path requires at least one segment", raw)
	}
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return nil, model.NewPathError(model.ErrInvalidSlug,
				"segment must match [a-z0-9-]+: "+seg, raw)
		}
	}
	return Path(segments), nil
}

// IsValidSegment reports whether s is a well-formed slug segment.
func IsValidSegment(s string) bool {
	return segmentPattern.MatchString(s)
}
