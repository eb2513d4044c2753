// Package tags locates GraphQL templates by parsing the host language with
// tree-sitter.
//
// Supported hosts:
//   - JavaScript and TypeScript (and script blocks of .vue, .svelte and
//     .astro files): templates tagged or called with a tag name, and
//     templates preceded by a /* GraphQL */ comment
//   - Python: calls such as gql("""...""") with a string first argument
//   - Ruby: heredocs terminated by GRAPHQL or GQL
//   - PHP: heredocs and nowdocs labelled GRAPHQL or GQL
package tags

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/gqlextract/internal/document"
	"github.com/mvp-joe/gqlextract/internal/extract/blocks"
)

// ErrParse is returned when tree-sitter produces no tree at all.
var ErrParse = errors.New("tree-sitter returned no syntax tree")

// DefaultTagNames are the call or tag names that mark a GraphQL template.
var DefaultTagNames = []string{"gql", "graphql", "graphql.experimental"}

// heredocLabels mark Ruby and PHP heredocs as GraphQL.
var heredocLabels = []string{"GRAPHQL", "GQL"}

// Template is one GraphQL template and its location in the host file.
type Template struct {
	Template string
	Range    document.Range
}

// Finder finds GraphQL templates in parsed source.
type Finder struct {
	tagNames []string
}

// New creates a Finder recognizing tagNames, or DefaultTagNames when none
// are given.
func New(tagNames ...string) *Finder {
	if len(tagNames) == 0 {
		tagNames = DefaultTagNames
	}
	return &Finder{tagNames: slices.Clone(tagNames)}
}

// hostFinder scans one parsed block. base is the block's byte offset in file.
type hostFinder func(f *Finder, root *sitter.Node, src []byte, file string, base int) []Template

type host struct {
	language *sitter.Language
	find     hostFinder
}

func hostFor(ext string) (host, bool) {
	switch ext {
	case ".ts", ".mts", ".cts", ".vue", ".svelte", ".astro":
		return host{typeScriptLanguage, (*Finder).findJavaScript}, true
	case ".tsx", ".js", ".mjs", ".cjs", ".jsx":
		return host{tsxLanguage, (*Finder).findJavaScript}, true
	case ".py":
		return host{pythonLanguage, (*Finder).findPython}, true
	case ".rb":
		return host{rubyLanguage, (*Finder).findRuby}, true
	case ".php":
		return host{phpLanguage, (*Finder).findPHP}, true
	}
	return host{}, false
}

// Find returns the templates in text in source order. Extensions without a
// supported host language yield no templates. Syntax errors are logged and
// tolerated; tree-sitter still recovers most of the tree.
func (f *Finder) Find(ctx context.Context, text, ext, identity string, logger zerolog.Logger) ([]Template, error) {
	h, ok := hostFor(ext)
	if !ok {
		logger.Debug().Str("identity", identity).Str("ext", ext).Msg("no tag-scan host language")
		return []Template{}, nil
	}

	// Component files carry their own query blocks; those belong to the plucker.
	parts, err := blocks.Split(text, ext, "")
	if err != nil {
		return nil, err
	}

	results := []Template{}
	for _, b := range parts {
		if b.Kind != blocks.Script {
			continue
		}
		found, err := f.findInBlock(ctx, h, b, text, identity, logger)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}
	return results, nil
}

func (f *Finder) findInBlock(ctx context.Context, h host, b blocks.Block, file, identity string, logger zerolog.Logger) ([]Template, error) {
	src := []byte(b.Text)
	tree, err := parse(ctx, h.language, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		logger.Debug().
			Str("identity", identity).
			Int("offset", b.Offset).
			Msg("syntax errors while searching for graphql tags")
	}
	return h.find(f, root, src, file, b.Offset), nil
}

// newTemplate builds a Template from block-relative byte offsets.
func newTemplate(text, file string, base, start, end int) Template {
	return Template{
		Template: text,
		Range: document.Range{
			Start: document.PositionAt(file, base+start),
			End:   document.PositionAt(file, base+end),
		},
	}
}

func isHeredocLabel(label string) bool {
	return slices.Contains(heredocLabels, label)
}
