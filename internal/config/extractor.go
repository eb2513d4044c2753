package config

import (
	"github.com/rs/zerolog"

	"github.com/mvp-joe/gqlextract/internal/extract"
	"github.com/mvp-joe/gqlextract/internal/extract/pluck"
	"github.com/mvp-joe/gqlextract/internal/extract/tags"
)

// NewExtractor builds an Extractor from the configured extension sets and
// tag names. Both engines share the same tag names.
func (c *Config) NewExtractor(logger zerolog.Logger) *extract.Extractor {
	return extract.New(
		extract.WithTagScanExtensions(c.Extensions.TagScan),
		extract.WithQueryExtensions(c.Extensions.Query),
		extract.WithLogger(logger),
		extract.WithPlucker(pluck.New(c.Tags.Names...)),
		extract.WithTagFinder(tags.New(c.Tags.Names...)),
	)
}
