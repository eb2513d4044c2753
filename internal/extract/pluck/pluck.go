// Package pluck finds GraphQL in JavaScript-family source text with a
// lexical scan. It never builds a syntax tree, which keeps it fast and lets
// it work on component formats whose scripts are not valid standalone
// modules.
package pluck

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/mvp-joe/gqlextract/internal/document"
	"github.com/mvp-joe/gqlextract/internal/extract/blocks"
)

// ErrUnterminated is returned for a template literal or comment that runs off
// the end of its script.
var ErrUnterminated = errors.New("unterminated token")

// DefaultTagNames are the identifiers recognized as GraphQL template tags.
var DefaultTagNames = []string{"gql", "graphql", "graphql.experimental"}

// Options controls a single Pluck call.
type Options struct {
	// SkipIndent strips the common leading indentation from each body.
	SkipIndent bool
	// VueBlockTag names a component custom block whose content is GraphQL.
	VueBlockTag string
}

// Plucked is one fragment found by the plucker.
type Plucked struct {
	Body string
	// LocationOffset is the position of the first body character in the file.
	LocationOffset document.Position
}

// Plucker scans source text for tagged GraphQL templates.
type Plucker struct {
	tagNames []string
}

// New creates a Plucker recognizing tagNames, or DefaultTagNames when none
// are given.
func New(tagNames ...string) *Plucker {
	if len(tagNames) == 0 {
		tagNames = DefaultTagNames
	}
	return &Plucker{tagNames: slices.Clone(tagNames)}
}

// Pluck returns the fragments in text in discovery order.
func (p *Plucker) Pluck(ctx context.Context, identity, text string, opts Options) ([]Plucked, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := blocks.Split(text, document.Ext(identity), opts.VueBlockTag)
	if err != nil {
		return nil, err
	}

	results := []Plucked{}
	for _, b := range parts {
		if b.Kind == blocks.Query {
			results = append(results, p.newPlucked(text, b.Text, b.Offset, opts))
			continue
		}

		found, err := newScanner(b.Text, p.tagNames).scan()
		if err != nil {
			pos := document.PositionAt(text, b.Offset+posOf(err))
			return nil, &ScanError{Err: err, Position: pos}
		}
		for _, t := range found {
			results = append(results, p.newPlucked(text, t.body, b.Offset+t.start, opts))
		}
	}
	return results, nil
}

func (p *Plucker) newPlucked(file, body string, offset int, opts Options) Plucked {
	if opts.SkipIndent {
		body = dedent(body)
	}
	return Plucked{Body: body, LocationOffset: document.PositionAt(file, offset)}
}

// dedent removes the longest run of spaces and tabs shared by every
// non-blank line.
func dedent(body string) string {
	lines := strings.Split(body, "\n")
	indent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		n := len(line) - len(trimmed)
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return body
	}

	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
