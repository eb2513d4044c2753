// Package extract locates GraphQL fragments embedded in source files.
//
// An Extractor classifies a file by extension and hands it to exactly one
// strategy: the code-string plucking engine, the syntax-tree tag-finding
// engine, or whole-file treatment for dedicated GraphQL files.
//
// A pluckable file whose plucking yields nothing returns no fragments, even
// when its extension is also in the tag-scan set. Callers that configure a
// JavaScript-family extension for tag scanning will therefore never see the
// tag-finding engine run for it.
package extract

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mvp-joe/gqlextract/internal/document"
	"github.com/mvp-joe/gqlextract/internal/extract/pluck"
	"github.com/mvp-joe/gqlextract/internal/extract/tags"
)

// VueBlockTag is the custom block name plucked from component files.
const VueBlockTag = "gql"

// Plucker scans source text for embedded fragments without a syntax tree.
type Plucker interface {
	Pluck(ctx context.Context, identity, text string, opts pluck.Options) ([]pluck.Plucked, error)
}

// TagFinder parses host-language syntax to locate tagged templates.
type TagFinder interface {
	Find(ctx context.Context, text, ext, identity string, logger zerolog.Logger) ([]tags.Template, error)
}

// Extractor dispatches files to an extraction strategy. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	tagScan []string
	query   []string
	logger  zerolog.Logger
	plucker Plucker
	finder  TagFinder
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTagScanExtensions replaces the tag-scan allow-list.
func WithTagScanExtensions(exts []string) Option {
	return func(e *Extractor) { e.tagScan = slices.Clone(exts) }
}

// WithQueryExtensions replaces the dedicated-query allow-list.
func WithQueryExtensions(exts []string) Option {
	return func(e *Extractor) { e.query = slices.Clone(exts) }
}

// WithLogger sets the logger forwarded to the tag-finding engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithPlucker replaces the plucking engine.
func WithPlucker(p Plucker) Option {
	return func(e *Extractor) { e.plucker = p }
}

// WithTagFinder replaces the tag-finding engine.
func WithTagFinder(f TagFinder) Option {
	return func(e *Extractor) { e.finder = f }
}

// New creates an Extractor with default extension sets and engines.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		tagScan: DefaultTagScanExtensions(),
		query:   DefaultQueryExtensions(),
		logger:  zerolog.Nop(),
		plucker: pluck.New(),
		finder:  tags.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract is a convenience wrapper around New(opts...).Extract.
func Extract(ctx context.Context, text, identity string, opts ...Option) ([]document.Fragment, error) {
	return New(opts...).Extract(ctx, text, identity)
}

// Dialect reports how identity would be handled.
func (e *Extractor) Dialect(identity string) Dialect {
	return Classify(Ext(identity), e.tagScan, e.query)
}

// Extract returns the fragments embedded in text, in the order the selected
// engine discovered them. Empty text and unrecognized extensions yield an
// empty result. Engine failures are returned as errors with no partial result.
func (e *Extractor) Extract(ctx context.Context, text, identity string) ([]document.Fragment, error) {
	if text == "" {
		return []document.Fragment{}, nil
	}

	ext := Ext(identity)
	dialect := Classify(ext, e.tagScan, e.query)

	var (
		fragments []document.Fragment
		err       error
	)
	switch dialect {
	case DialectPluck:
		fragments, err = e.pluck(ctx, text, identity)
	case DialectTagScan:
		fragments, err = e.findTags(ctx, text, ext, identity)
	case DialectQueryFile:
		fragments = []document.Fragment{{Text: text, Range: document.SpanRange(text)}}
	default:
		fragments = []document.Fragment{}
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("identity", identity).
		Str("ext", ext).
		Stringer("dialect", dialect).
		Int("fragments", len(fragments)).
		Msg("extracted graphql fragments")

	return fragments, nil
}

func (e *Extractor) pluck(ctx context.Context, text, identity string) ([]document.Fragment, error) {
	plucked, err := e.plucker.Pluck(ctx, identity, text, pluck.Options{
		SkipIndent:  true,
		VueBlockTag: VueBlockTag,
	})
	if err != nil {
		return nil, fmt.Errorf("pluck %s: %w", identity, err)
	}

	fragments := make([]document.Fragment, 0, len(plucked))
	for _, p := range plucked {
		lines := document.Lines(p.Body)
		last := lines[len(lines)-1]
		fragments = append(fragments, document.Fragment{
			Text: p.Body,
			Range: document.Range{
				Start: p.LocationOffset,
				End: document.Position{
					Line:      p.LocationOffset.Line + len(lines),
					Character: len(last) - 1,
				},
			},
		})
	}
	return fragments, nil
}

func (e *Extractor) findTags(ctx context.Context, text, ext, identity string) ([]document.Fragment, error) {
	templates, err := e.finder.Find(ctx, text, ext, identity, e.logger)
	if err != nil {
		return nil, fmt.Errorf("find tags %s: %w", identity, err)
	}

	fragments := make([]document.Fragment, 0, len(templates))
	for _, t := range templates {
		fragments = append(fragments, document.Fragment{Text: t.Template, Range: t.Range})
	}
	return fragments, nil
}
