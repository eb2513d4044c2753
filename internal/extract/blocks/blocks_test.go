package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_PlainScript(t *testing.T) {
	t.Parallel()

	got, err := Split("const a = 1", ".ts", "gql")
	require.NoError(t, err)
	assert.Equal(t, []Block{{Kind: Script, Text: "const a = 1"}}, got)
}

func TestSplit_Vue(t *testing.T) {
	t.Parallel()

	text := "<template>\n  <div>{{ a }}</div>\n</template>\n" +
		"<script setup lang=\"ts\">\nconst a = 1\n</script>\n" +
		"<gql>\nquery { a }\n</gql>\n"

	got, err := Split(text, ".vue", "gql")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Script, got[0].Kind)
	assert.Equal(t, "\nconst a = 1\n", got[0].Text)
	assert.Equal(t, got[0].Text, text[got[0].Offset:got[0].Offset+len(got[0].Text)])

	assert.Equal(t, Query, got[1].Kind)
	assert.Equal(t, "\nquery { a }\n", got[1].Text)
	assert.Equal(t, got[1].Text, text[got[1].Offset:got[1].Offset+len(got[1].Text)])
}

func TestSplit_QueryTagDisabled(t *testing.T) {
	t.Parallel()

	got, err := Split("<gql>{ a }</gql><script>x</script>", ".svelte", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Text)
}

func TestSplit_AstroFrontmatter(t *testing.T) {
	t.Parallel()

	text := "---\nconst q = 1\n---\n<div />\n<script>\nlet b = 2\n</script>\n"
	got, err := Split(text, ".astro", "gql")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Block{Kind: Script, Text: "const q = 1\n", Offset: 4}, got[0])
	assert.Equal(t, "\nlet b = 2\n", got[1].Text)
	assert.Equal(t, got[1].Text, text[got[1].Offset:got[1].Offset+len(got[1].Text)])
}

func TestSplit_UnclosedQueryBlock(t *testing.T) {
	t.Parallel()

	_, err := Split("<gql>{ a }", ".vue", "gql")
	require.ErrorIs(t, err, ErrUnclosedBlock)
}

func TestSplit_UnclosedScriptRunsToEnd(t *testing.T) {
	t.Parallel()

	got, err := Split("<script>let a = `x`", ".svelte", "gql")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "let a = `x`", got[0].Text)
	assert.Equal(t, 8, got[0].Offset)
}
