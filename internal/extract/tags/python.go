package tags

import (
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// findPython collects string literals passed as the first argument of a call
// to a tag name, e.g. gql("""query { ... }""").
func (f *Finder) findPython(root *sitter.Node, src []byte, file string, base int) []Template {
	var results []Template
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || !slices.Contains(f.tagNames, nodeText(fn, src)) {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return true
		}
		str := args.NamedChild(0)
		if str == nil || str.Kind() != "string" {
			return true
		}
		if t, ok := pythonString(str, src, file, base); ok {
			results = append(results, t)
		}
		return true
	})
	return results
}

// pythonString returns the content between a string's delimiters.
func pythonString(str *sitter.Node, src []byte, file string, base int) (Template, bool) {
	opening := findChildByKind(str, "string_start")
	closing := findChildByKind(str, "string_end")
	if opening == nil || closing == nil {
		return Template{}, false
	}

	start := int(opening.EndByte())
	end := int(closing.StartByte())
	if end < start {
		return Template{}, false
	}
	text := string(src[start:end])
	// f-strings keep their {placeholders}; GraphQL validation will flag them.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return newTemplate(text, file, base, start, end), true
}
