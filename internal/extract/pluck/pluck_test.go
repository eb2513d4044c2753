package pluck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Test Plan for Plucker:
// - Tagged templates, call-style tags and member tags are found in order
// - /* GraphQL */ magic comments mark untagged templates
// - Strings, comments, untagged templates and non-tag identifiers are skipped
// - Substitutions are removed from bodies; nested tagged templates keep source order
// - SkipIndent removes common indentation only when requested
// - Vue <gql> blocks and component scripts carry file-relative offsets
// - Regular expression literals are skipped, division is not mistaken for one
// - Escaped backticks are unescaped in bodies
// - Unterminated templates and comments fail the call

var opts = Options{SkipIndent: true, VueBlockTag: "gql"}

func pluckText(t *testing.T, identity, text string, o Options) []Plucked {
	t.Helper()
	got, err := New().Pluck(context.Background(), identity, text, o)
	require.NoError(t, err)
	return got
}

func TestPluck_TagForms(t *testing.T) {
	t.Parallel()

	text := "const a = gql`{ a }`\n" +
		"const b = graphql(`{ b }`)\n" +
		"const c = graphql.experimental`{ c }`\n" +
		"const d = /* GraphQL */ `{ d }`\n"

	got := pluckText(t, "a.js", text, opts)
	require.Len(t, got, 4)
	assert.Equal(t, Plucked{Body: "{ a }", LocationOffset: document.Position{Line: 0, Character: 14}}, got[0])
	assert.Equal(t, Plucked{Body: "{ b }", LocationOffset: document.Position{Line: 1, Character: 19}}, got[1])
	assert.Equal(t, Plucked{Body: "{ c }", LocationOffset: document.Position{Line: 2, Character: 31}}, got[2])
	assert.Equal(t, Plucked{Body: "{ d }", LocationOffset: document.Position{Line: 3, Character: 25}}, got[3])
}

func TestPluck_SkipsNonGraphQL(t *testing.T) {
	t.Parallel()

	text := "// gql`{ in comment }`\n" +
		"/* graphql`{ block }` */\n" +
		"const s = 'gql`{ in string }`'\n" +
		"const d = \"graphql`{ dq }`\"\n" +
		"const u = `plain ${gqlx} text`\n" +
		"const m = obj.gql`{ member }`\n" +
		"const n = mygql`{ other }`\n" +
		"const f = gql(notATemplate)\n"

	got := pluckText(t, "a.ts", text, opts)
	assert.Empty(t, got)
}

func TestPluck_Substitutions(t *testing.T) {
	t.Parallel()

	text := "const q = gql`\n  query { ...F }\n  ${fragment}\n`\n"
	got := pluckText(t, "a.ts", text, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "\n  query { ...F }\n  \n", got[0].Body)
}

func TestPluck_NestedTemplatesKeepSourceOrder(t *testing.T) {
	t.Parallel()

	text := "gql`query { ...A } ${gql`fragment A on Q { a }`}`"
	got := pluckText(t, "a.js", text, Options{})
	require.Len(t, got, 2)
	assert.Equal(t, "query { ...A } ", got[0].Body)
	assert.Equal(t, "fragment A on Q { a }", got[1].Body)
	assert.Equal(t, document.Position{Line: 0, Character: 4}, got[0].LocationOffset)
	assert.Equal(t, document.Position{Line: 0, Character: 25}, got[1].LocationOffset)
}

func TestPluck_SkipIndent(t *testing.T) {
	t.Parallel()

	text := "  const q = gql`\n    query {\n      a\n    }\n  `\n"

	raw := pluckText(t, "a.ts", text, Options{})
	require.Len(t, raw, 1)
	assert.Equal(t, "\n    query {\n      a\n    }\n  ", raw[0].Body)

	dedented := pluckText(t, "a.ts", text, opts)
	require.Len(t, dedented, 1)
	assert.Equal(t, "\nquery {\n  a\n}\n", dedented[0].Body)
	assert.Equal(t, document.Position{Line: 0, Character: 16}, dedented[0].LocationOffset)
}

func TestPluck_VueComponent(t *testing.T) {
	t.Parallel()

	text := "<template><p>hi</p></template>\n" +
		"<script>\nexport const q = gql`{ viewer }`\n</script>\n" +
		"<gql>\nquery { me }\n</gql>\n"

	got := pluckText(t, "components/Viewer.vue", text, opts)
	require.Len(t, got, 2)
	assert.Equal(t, "{ viewer }", got[0].Body)
	assert.Equal(t, document.Position{Line: 2, Character: 21}, got[0].LocationOffset)
	assert.Equal(t, "\nquery { me }\n", got[1].Body)
	assert.Equal(t, document.Position{Line: 4, Character: 5}, got[1].LocationOffset)
}

func TestPluck_SvelteIgnoresMarkup(t *testing.T) {
	t.Parallel()

	text := "<p>gql`{ not code }`</p>\n<script>\nconst q = gql`{ a }`\n</script>\n"
	got := pluckText(t, "App.svelte", text, opts)
	require.Len(t, got, 1)
	assert.Equal(t, document.Position{Line: 2, Character: 14}, got[0].LocationOffset)
}

func TestPluck_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want document.Position
	}{
		{"unterminated template", "const a = 1\nconst q = gql`{ a }", document.Position{Line: 1, Character: 13}},
		{"unterminated comment", "/* open", document.Position{Line: 0, Character: 0}},
		{"unterminated substitution", "x`${ a", document.Position{Line: 0, Character: 6}},
		{"unterminated nested template", "x`${ a `", document.Position{Line: 0, Character: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New().Pluck(context.Background(), "a.js", tt.text, opts)
			require.ErrorIs(t, err, ErrUnterminated)

			var scanErr *ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, tt.want, scanErr.Position)
		})
	}
}

func TestPluck_RegexLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"backtick in regex", "const re = /`/;\nconst q = gql`{ a }`;\n", []string{"{ a }"}},
		{"slashes in regex", "const re = /\\/\\//; const q = gql`{ b }`;", []string{"{ b }"}},
		{"url pattern", "if (/https?:\\/\\//.test(u)) q = gql`{ c }`", []string{"{ c }"}},
		{"class with slash", "const re = /[/`]/g, q = gql`{ d }`", []string{"{ d }"}},
		{"after return", "function f() { return /`/.test(x) }\ngql`{ e }`", []string{"{ e }"}},
		{"division", "const x = a / b; const q = gql`{ f }` / 2", []string{"{ f }"}},
		{"division after call", "const x = f(a) / g(b) / gql`{ g }`", []string{"{ g }"}},
		{"jsx closing tag", "const el = <p>{gql`{ h }`}</p>\n", []string{"{ h }"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := pluckText(t, "a.tsx", tt.text, Options{})
			bodies := make([]string, 0, len(got))
			for _, p := range got {
				bodies = append(bodies, p.Body)
			}
			assert.Equal(t, tt.want, bodies)
		})
	}
}

func TestPluck_UnescapesBackticks(t *testing.T) {
	t.Parallel()

	got := pluckText(t, "a.ts", "const q = gql`{ \\`x\\` ${y} \\` }`", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "{ `x`  ` }", got[0].Body)
}

func TestPluck_CustomTagNames(t *testing.T) {
	t.Parallel()

	got, err := New("query").Pluck(context.Background(), "a.js", "query`{ a }`; gql`{ b }`", opts)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "{ a }", got[0].Body)
}

func TestPluck_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Pluck(ctx, "a.js", "gql`{ a }`", opts)
	require.ErrorIs(t, err, context.Canceled)
}
