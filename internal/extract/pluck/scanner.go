package pluck

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mvp-joe/gqlextract/internal/document"
)

// ScanError reports where in the file a script could not be tokenized.
type ScanError struct {
	Err      error
	Position document.Position
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%v at %d:%d", e.Err, e.Position.Line+1, e.Position.Character+1)
}

func (e *ScanError) Unwrap() error { return e.Err }

// offsetError carries a block-relative byte offset until Pluck can turn it
// into a file position.
type offsetError struct {
	err    error
	offset int
}

func (e *offsetError) Error() string { return fmt.Sprintf("%v at byte %d", e.err, e.offset) }
func (e *offsetError) Unwrap() error { return e.err }

func posOf(err error) int {
	var oe *offsetError
	if errors.As(err, &oe) {
		return oe.offset
	}
	return 0
}

var magicComment = regexp.MustCompile(`^/\*\s*GraphQL\s*\*/$`)

// regexKeywords may be directly followed by a regular expression literal.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type template struct {
	body  string
	start int
}

type scanner struct {
	src  string
	pos  int
	tags []string
	out  []template
}

func newScanner(src string, tags []string) *scanner {
	return &scanner{src: src, tags: tags}
}

func (s *scanner) scan() ([]template, error) {
	if err := s.code(false); err != nil {
		return nil, err
	}
	return s.out, nil
}

// code scans until end of input, or until the '}' closing a template
// substitution when nested is true.
func (s *scanner) code(nested bool) error {
	depth := 0
	// regexOK is true where a '/' starts a regular expression rather than a division.
	regexOK := true
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.lineComment()
		case c == '/' && s.peek(1) == '*':
			start := s.pos
			if err := s.blockComment(); err != nil {
				return err
			}
			if magicComment.MatchString(s.src[start:s.pos]) {
				s.skipSpace()
				if s.peek(0) == '`' {
					if err := s.template(true); err != nil {
						return err
					}
					regexOK = false
				}
			}
		case c == '/' && regexOK:
			s.regex()
			regexOK = false
		case c == '\'' || c == '"':
			s.quoted(c)
			regexOK = false
		case c == '`':
			if err := s.template(false); err != nil {
				return err
			}
			regexOK = false
		case c == '{':
			depth++
			s.pos++
			regexOK = true
		case c == '}':
			if nested && depth == 0 {
				s.pos++
				return nil
			}
			depth--
			s.pos++
			regexOK = true
		case isIdentStart(c):
			start := s.pos
			if err := s.identifier(); err != nil {
				return err
			}
			regexOK = regexKeywords[s.src[start:s.pos]]
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == ')' || c == ']' || isIdentPart(c) || c >= 0x80:
			s.pos++
			regexOK = false
		default:
			s.pos++
			// "</" closes a JSX element far more often than it compares against a regex.
			regexOK = c != '<'
		}
	}
	if nested {
		return &offsetError{err: fmt.Errorf("%w: template substitution", ErrUnterminated), offset: s.pos}
	}
	return nil
}

func (s *scanner) identifier() error {
	start := s.pos
	afterDot := start > 0 && s.src[start-1] == '.'
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.pos++
	}
	name := s.src[start:s.pos]

	// Member chains such as graphql.experimental are matched whole.
	for s.peek(0) == '.' && isIdentStart(s.peek(1)) {
		save := s.pos
		s.pos++
		for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
			s.pos++
		}
		candidate := s.src[start:s.pos]
		if !s.hasTagPrefix(candidate) {
			s.pos = save
			break
		}
		name = candidate
	}

	if afterDot || !slices.Contains(s.tags, name) {
		return nil
	}

	save := s.pos
	s.skipSpace()
	if s.peek(0) == '(' {
		s.pos++
		s.skipSpace()
	}
	if s.peek(0) != '`' {
		s.pos = save
		return nil
	}
	return s.template(true)
}

func (s *scanner) hasTagPrefix(name string) bool {
	for _, t := range s.tags {
		if t == name || strings.HasPrefix(t, name+".") {
			return true
		}
	}
	return false
}

// template consumes a template literal starting at the opening backtick.
// When keep is true its literal text is recorded with substitutions removed.
func (s *scanner) template(keep bool) error {
	open := s.pos
	s.pos++
	start := s.pos

	// Reserve the slot now so nested tags inside substitutions keep source order.
	slot := -1
	if keep {
		slot = len(s.out)
		s.out = append(s.out, template{start: start})
	}

	var body strings.Builder
	chunk := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			s.pos += 2
		case c == '`':
			body.WriteString(unescapeBackticks(s.src[chunk:s.pos]))
			s.pos++
			if slot >= 0 {
				s.out[slot].body = body.String()
			}
			return nil
		case c == '$' && s.peek(1) == '{':
			body.WriteString(unescapeBackticks(s.src[chunk:s.pos]))
			s.pos += 2
			if err := s.code(true); err != nil {
				return err
			}
			chunk = s.pos
		default:
			s.pos++
		}
	}
	return &offsetError{err: fmt.Errorf("%w: template literal", ErrUnterminated), offset: open}
}

// regex skips a regular expression literal and its flags. A bare newline ends
// it, like an unterminated string.
func (s *scanner) regex() {
	s.pos++
	inClass := false
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				s.pos++
				for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
					s.pos++
				}
				return
			}
		case '\n':
			return
		}
		s.pos++
	}
}

func unescapeBackticks(chunk string) string {
	return strings.ReplaceAll(chunk, "\\`", "`")
}

func (s *scanner) blockComment() error {
	open := s.pos
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		return &offsetError{err: fmt.Errorf("%w: block comment", ErrUnterminated), offset: open}
	}
	s.pos += 2 + end + 2
	return nil
}

func (s *scanner) lineComment() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += end
}

// quoted skips a string literal. A bare newline ends it, as the string
// would be a syntax error and the rest of the file is still worth scanning.
func (s *scanner) quoted(q byte) {
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case q:
			s.pos++
			return
		case '\n':
			return
		}
		s.pos++
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
