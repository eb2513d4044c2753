package tags

import (
	"context"
	"fmt"
	"io"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/gqlextract/internal/extract/blocks"
)

// Dump writes the named syntax-tree nodes of every script block in text, one
// per line, indented by depth. It is a debugging aid for tag-finder rules.
func Dump(ctx context.Context, w io.Writer, text, ext string) error {
	h, ok := hostFor(ext)
	if !ok {
		return fmt.Errorf("no tag-scan host language for %q", ext)
	}

	parts, err := blocks.Split(text, ext, "")
	if err != nil {
		return err
	}

	for _, b := range parts {
		if b.Kind != blocks.Script {
			continue
		}
		src := []byte(b.Text)
		tree, err := parse(ctx, h.language, src)
		if err != nil {
			return err
		}
		err = dumpNode(w, tree.RootNode(), src, 0)
		tree.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func dumpNode(w io.Writer, node *sitter.Node, src []byte, depth int) error {
	start := node.StartPosition()
	line := fmt.Sprintf("%s%s [%d:%d]", strings.Repeat("  ", depth), node.Kind(), start.Row, start.Column)
	if node.NamedChildCount() == 0 {
		line += fmt.Sprintf(" %q", nodeText(node, src))
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if err := dumpNode(w, node.NamedChild(i), src, depth+1); err != nil {
			return err
		}
	}
	return nil
}
