// Package blocks splits component files into the regions that may hold GraphQL.
package blocks

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnclosedBlock is returned when a query block has no closing tag.
var ErrUnclosedBlock = errors.New("unclosed block")

// Kind distinguishes script code from literal query blocks.
type Kind int

const (
	// Script blocks hold host-language code to be scanned.
	Script Kind = iota
	// Query blocks hold GraphQL verbatim (e.g. a Vue <gql> custom block).
	Query
)

// Block is a region of a file. Offset is the byte offset of Text in the file.
type Block struct {
	Kind   Kind
	Text   string
	Offset int
}

// IsComponent reports whether ext is a single-file component format.
func IsComponent(ext string) bool {
	switch ext {
	case ".vue", ".svelte", ".astro":
		return true
	}
	return false
}

// Split returns the blocks of text in file order. Non-component files are a
// single script block. queryTag names the custom block holding raw GraphQL;
// an empty queryTag disables query blocks.
func Split(text, ext, queryTag string) ([]Block, error) {
	if !IsComponent(ext) {
		return []Block{{Kind: Script, Text: text}}, nil
	}

	var blocks []Block
	base := 0
	if ext == ".astro" {
		if fm, end, ok := frontmatter(text); ok {
			blocks = append(blocks, fm)
			base = end
		}
	}

	markup, err := splitMarkup(text[base:], base, strings.ToLower(queryTag))
	if err != nil {
		return nil, err
	}
	return append(blocks, markup...), nil
}

// frontmatter returns the code fence "---\n...\n---" at the top of an Astro file.
func frontmatter(text string) (Block, int, bool) {
	if !strings.HasPrefix(text, "---") {
		return Block{}, 0, false
	}
	open := strings.IndexByte(text, '\n')
	if open < 0 {
		return Block{}, 0, false
	}
	start := open + 1
	rest := text[start:]

	closing := -1
	if strings.HasPrefix(rest, "---") {
		closing = 0
	} else if i := strings.Index(rest, "\n---"); i >= 0 {
		closing = i + 1
	}
	if closing < 0 {
		return Block{}, 0, false
	}

	end := start + closing + len("---")
	return Block{Kind: Script, Text: rest[:closing], Offset: start}, end, true
}

func splitMarkup(text string, base int, queryTag string) ([]Block, error) {
	var (
		blocks    []Block
		offset    int
		openKind  Kind
		openName  string
		openStart = -1
	)

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return nil, z.Err()
			}
			break
		}
		raw := len(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if openStart < 0 {
				switch {
				case tag == "script":
					openKind, openName, openStart = Script, tag, offset+raw
				case queryTag != "" && tag == queryTag:
					openKind, openName, openStart = Query, tag, offset+raw
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if openStart >= 0 && string(name) == openName {
				blocks = append(blocks, Block{
					Kind:   openKind,
					Text:   text[openStart:offset],
					Offset: base + openStart,
				})
				openStart = -1
			}
		}
		offset += raw
	}

	if openStart >= 0 {
		if openKind == Query {
			pos := base + openStart
			return nil, fmt.Errorf("%w: <%s> opened at byte %d", ErrUnclosedBlock, openName, pos)
		}
		// An unclosed script runs to the end of the file, as browsers treat it.
		blocks = append(blocks, Block{Kind: Script, Text: text[openStart:], Offset: base + openStart})
	}
	return blocks, nil
}
