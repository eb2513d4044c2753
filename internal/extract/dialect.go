package extract

import (
	"slices"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// Dialect is the extraction strategy selected for a file extension.
type Dialect int

const (
	// DialectNone marks extensions that carry no GraphQL.
	DialectNone Dialect = iota
	// DialectPluck routes to the code-string plucking engine.
	DialectPluck
	// DialectTagScan routes to the syntax-tree tag-finding engine.
	DialectTagScan
	// DialectQueryFile treats the whole file as one fragment.
	DialectQueryFile
)

func (d Dialect) String() string {
	switch d {
	case DialectPluck:
		return "pluck"
	case DialectTagScan:
		return "tag-scan"
	case DialectQueryFile:
		return "query-file"
	default:
		return "none"
	}
}

// pluckExtensions is fixed; only the tag-scan and query sets are configurable.
// ".flow.js" and ".flow.jsx" never match an extension computed by Ext, they are
// kept so the set reads the same as the plucking engine's supported list.
var pluckExtensions = []string{
	".js", ".mjs", ".cjs", ".jsx",
	".ts", ".mts", ".cts", ".tsx",
	".flow", ".flow.js", ".flow.jsx",
	".vue", ".svelte", ".astro",
}

var defaultTagScanExtensions = []string{
	".js", ".cjs", ".mjs",
	".ts", ".cts", ".mts",
	".jsx", ".tsx",
	".vue", ".svelte", ".astro",
	".py", ".rb", ".php",
}

var defaultQueryExtensions = []string{".graphql", ".graphqls", ".gql"}

// PluckExtensions returns the extensions handled by the plucking engine.
func PluckExtensions() []string { return slices.Clone(pluckExtensions) }

// DefaultTagScanExtensions returns the default tag-scan allow-list.
func DefaultTagScanExtensions() []string { return slices.Clone(defaultTagScanExtensions) }

// DefaultQueryExtensions returns the default dedicated-query allow-list.
func DefaultQueryExtensions() []string { return slices.Clone(defaultQueryExtensions) }

// Ext returns the extension of identity. See document.Ext.
func Ext(identity string) string { return document.Ext(identity) }

// Classify picks the single dialect for ext. The pluck set is checked first,
// then tagScan, then query; the first match wins.
func Classify(ext string, tagScan, query []string) Dialect {
	switch {
	case ext == "":
		return DialectNone
	case slices.Contains(pluckExtensions, ext):
		return DialectPluck
	case slices.Contains(tagScan, ext):
		return DialectTagScan
	case slices.Contains(query, ext):
		return DialectQueryFile
	default:
		return DialectNone
	}
}
