package tags

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// findRuby collects heredoc bodies whose terminator is a GraphQL label:
//
//	QUERY = <<~GRAPHQL
//	  query { viewer { login } }
//	GRAPHQL
func (f *Finder) findRuby(root *sitter.Node, src []byte, file string, base int) []Template {
	var results []Template
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "heredoc_body" {
			return true
		}
		end := findChildByKind(n, "heredoc_end")
		if end == nil || !isHeredocLabel(strings.TrimSpace(nodeText(end, src))) {
			return false
		}
		results = append(results, heredocTemplate(src, file, base, int(n.StartByte()), int(end.StartByte())))
		return false
	})
	return results
}

// findPHP collects heredoc and nowdoc bodies labelled with a GraphQL label:
//
//	$query = <<<GRAPHQL
//	query { viewer { login } }
//	GRAPHQL;
func (f *Finder) findPHP(root *sitter.Node, src []byte, file string, base int) []Template {
	var results []Template
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "heredoc" && n.Kind() != "nowdoc" {
			return true
		}
		label := findChildByKind(n, "heredoc_start")
		if label == nil || !isHeredocLabel(strings.Trim(nodeText(label, src), `'" `)) {
			return false
		}

		body := findChildByKind(n, "heredoc_body")
		if body == nil {
			body = findChildByKind(n, "nowdoc_body")
		}
		if body == nil {
			return false
		}
		results = append(results, heredocTemplate(src, file, base, int(body.StartByte()), int(body.EndByte())))
		return false
	})
	return results
}

// heredocTemplate trims the line break that separates the opening label from
// the body and the indentation before the closing label.
func heredocTemplate(src []byte, file string, base, start, end int) Template {
	if start < end && src[start] == '\r' {
		start++
	}
	if start < end && src[start] == '\n' {
		start++
	}
	for end > start && (src[end-1] == ' ' || src[end-1] == '\t') {
		end--
	}
	text := string(src[start:end])
	return newTemplate(text, file, base, start, end)
}
