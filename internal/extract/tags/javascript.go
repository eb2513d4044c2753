package tags

import (
	"bytes"
	"regexp"
	"slices"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var graphqlComment = regexp.MustCompile(`^/\*\s*GraphQL\s*\*/$`)

// findJavaScript collects template_string nodes that are tagged with, or the
// first argument of a call to, a tag name, or that follow a GraphQL comment.
func (f *Finder) findJavaScript(root *sitter.Node, src []byte, file string, base int) []Template {
	var results []Template
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "template_string" {
			return true
		}
		if f.isTaggedTemplate(n, src) || followsGraphQLComment(src, int(n.StartByte())) {
			start := int(n.StartByte()) + 1
			end := int(n.EndByte()) - 1
			results = append(results, newTemplate(templateText(n, src), file, base, start, end))
		}
		// Templates nested in substitutions are still visited.
		return true
	})
	return results
}

func (f *Finder) isTaggedTemplate(n *sitter.Node, src []byte) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}

	call := parent
	if parent.Kind() == "arguments" {
		if first := parent.NamedChild(0); first == nil || first.Id() != n.Id() {
			return false
		}
		call = parent.Parent()
	}
	if call == nil || call.Kind() != "call_expression" {
		return false
	}

	fn := call.ChildByFieldName("function")
	return fn != nil && slices.Contains(f.tagNames, nodeText(fn, src))
}

// followsGraphQLComment reports whether the code before offset, ignoring
// whitespace, ends with a /* GraphQL */ comment.
func followsGraphQLComment(src []byte, offset int) bool {
	before := bytes.TrimRight(src[:offset], " \t\r\n")
	if !bytes.HasSuffix(before, []byte("*/")) {
		return false
	}
	open := bytes.LastIndex(before, []byte("/*"))
	if open < 0 {
		return false
	}
	return graphqlComment.Match(before[open:])
}

// templateText returns the literal text of a template with its ${...}
// substitutions removed.
func templateText(n *sitter.Node, src []byte) string {
	start := n.StartByte() + 1
	end := n.EndByte() - 1

	var buf bytes.Buffer
	cursor := start
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		buf.Write(src[cursor:child.StartByte()])
		cursor = child.EndByte()
	}
	if cursor < end {
		buf.Write(src[cursor:end])
	}
	return buf.String()
}
