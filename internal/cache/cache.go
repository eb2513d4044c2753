// Package cache memoizes extraction results for long-running callers such as
// the MCP server and watch mode.
package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/maypok86/otter"
	"github.com/rs/zerolog"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Extractor is the extraction capability being cached.
type Extractor interface {
	Extract(ctx context.Context, text, identity string) ([]document.Fragment, error)
}

// CachingExtractor wraps an Extractor and reuses results for identical
// (identity, text) pairs. Failed extractions are never cached.
type CachingExtractor struct {
	inner  Extractor
	cache  otter.Cache[string, []document.Fragment]
	logger zerolog.Logger
}

// New creates a CachingExtractor holding up to capacity results.
func New(inner Extractor, capacity int, logger zerolog.Logger) (*CachingExtractor, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	c, err := otter.MustBuilder[string, []document.Fragment](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache: %w", err)
	}

	return &CachingExtractor{inner: inner, cache: c, logger: logger}, nil
}

// Extract returns the cached fragments for text under identity, computing
// them with the wrapped extractor on a miss. Callers receive their own copy.
func (c *CachingExtractor) Extract(ctx context.Context, text, identity string) ([]document.Fragment, error) {
	key := Key(identity, text)

	if fragments, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("identity", identity).Msg("extraction cache hit")
		return slices.Clone(fragments), nil
	}

	fragments, err := c.inner.Extract(ctx, text, identity)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, slices.Clone(fragments))
	return fragments, nil
}

// Stats reports cache hits and misses.
func (c *CachingExtractor) Stats() (hits, misses int64) {
	s := c.cache.Stats()
	return s.Hits(), s.Misses()
}

// Close releases the cache's background resources.
func (c *CachingExtractor) Close() {
	c.cache.Close()
}
