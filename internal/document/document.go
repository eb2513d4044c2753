// Package document holds the location model shared by the extractor and its engines.
package document

import (
	"net/url"
	"path"
	"strings"
)

// Position is a zero-based line/character location in a host file.
// Character counts bytes, matching tree-sitter's column convention.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range locates a fragment inside its host file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Fragment is one embedded GraphQL snippet together with its location.
type Fragment struct {
	Text  string `json:"text"`
	Range Range  `json:"range"`
}

// Lines splits text on "\n". An empty text yields a single empty line.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// SpanRange returns the range covering text when it starts at (0,0).
// The end character is len(lastLine)-1, so a trailing newline yields -1.
func SpanRange(text string) Range {
	lines := Lines(text)
	last := lines[len(lines)-1]
	return Range{
		Start: Position{Line: 0, Character: 0},
		End:   Position{Line: len(lines) - 1, Character: len(last) - 1},
	}
}

// PositionAt converts a byte offset in text into a Position.
// Offsets past the end clamp to the end of text.
func PositionAt(text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Position{Line: line, Character: offset - lineStart}
}

// Ext returns the extension of identity: the suffix of its last path element
// starting at the last dot, or "" when there is none. Leading dots do not
// start an extension, so ".graphql" has none. For URIs only the path is
// inspected. The result keeps its original case.
func Ext(identity string) string {
	p := identity
	// Single-letter schemes are Windows drive letters, not URIs.
	if u, err := url.Parse(identity); err == nil && len(u.Scheme) > 1 {
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
	}
	p = strings.ReplaceAll(p, "\\", "/")
	base := strings.TrimLeft(path.Base(p), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i:]
}
