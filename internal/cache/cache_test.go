package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Test Plan for CachingExtractor:
// - Identical (identity, text) pairs hit the inner extractor once
// - Changed text or identity misses
// - Errors are returned and not cached
// - Returned slices are copies
// - Non-positive capacity is rejected

type countingExtractor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingExtractor) Extract(_ context.Context, text, _ string) ([]document.Fragment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []document.Fragment{{Text: text, Range: document.SpanRange(text)}}, nil
}

func newTestCache(t *testing.T, inner Extractor) *CachingExtractor {
	t.Helper()
	c, err := New(inner, 100, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCachingExtractor_ReusesResults(t *testing.T) {
	t.Parallel()

	inner := &countingExtractor{}
	c := newTestCache(t, inner)
	ctx := context.Background()

	first, err := c.Extract(ctx, "{ a }", "a.graphql")
	require.NoError(t, err)
	second, err := c.Extract(ctx, "{ a }", "a.graphql")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingExtractor_KeysOnIdentityAndText(t *testing.T) {
	t.Parallel()

	inner := &countingExtractor{}
	c := newTestCache(t, inner)
	ctx := context.Background()

	_, err := c.Extract(ctx, "{ a }", "a.graphql")
	require.NoError(t, err)
	_, err = c.Extract(ctx, "{ b }", "a.graphql")
	require.NoError(t, err)
	_, err = c.Extract(ctx, "{ a }", "b.graphql")
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
}

func TestCachingExtractor_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	inner := &countingExtractor{err: boom}
	c := newTestCache(t, inner)
	ctx := context.Background()

	_, err := c.Extract(ctx, "x", "a.ts")
	require.ErrorIs(t, err, boom)
	_, err = c.Extract(ctx, "x", "a.ts")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingExtractor_ReturnsCopies(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, &countingExtractor{})
	ctx := context.Background()

	first, err := c.Extract(ctx, "{ a }", "a.graphql")
	require.NoError(t, err)
	first[0].Text = "mutated"

	second, err := c.Extract(ctx, "{ a }", "a.graphql")
	require.NoError(t, err)
	assert.Equal(t, "{ a }", second[0].Text)
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()

	_, err := New(&countingExtractor{}, 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key("a.ts", "x"), Key("a.ts", "x"))
	assert.NotEqual(t, Key("a.ts", "x"), Key("a.ts", "y"))
	assert.NotEqual(t, Key("a.ts", "x"), Key("b.ts", "x"))
}
