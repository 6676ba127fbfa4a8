package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Answer is the result of an optional pipeline. Supported is false when the
// session's dialect has no template for the feature.
type Answer struct {
	Text      string
	Supported bool
}

func (a Answer) Empty() bool {
	return strings.TrimSpace(a.Text) == ""
}

type Completions struct {
	Candidates []string
	Supported  bool
}

// nilPattern accepts an optional "->" result marker and either case, so
// NIL replies from PicoLisp count too.
var nilPattern = regexp.MustCompile(`(?i)\A[[:cntrl:][:space:]]*(?:->[[:space:]]*)?nil[[:cntrl:][:space:]]*\z`)

// IsNil reports whether an evaluator reply means "nothing", tolerating stray
// control characters around the token.
func IsNil(text string) bool {
	return strings.TrimSpace(text) == "" || nilPattern.MatchString(text)
}

// ParseStringList reads a single list literal whose elements are strings or
// bare symbols, e.g. ("map" "filter") or (map filter).
func ParseStringList(text string) ([]string, error) {
	r := listReader{src: strings.TrimSpace(text)}
	items, err := r.list()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.pos != len(r.src) {
		return nil, fmt.Errorf("%w: trailing input at offset %d", ErrMalformedResponse, r.pos)
	}
	return items, nil
}

type listReader struct {
	src string
	pos int
}

func (r *listReader) list() ([]string, error) {
	r.skipSpace()
	if !r.consume('(') {
		return nil, fmt.Errorf("%w: expected list", ErrMalformedResponse)
	}

	items := []string{}
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return nil, fmt.Errorf("%w: unterminated list", ErrMalformedResponse)
		}
		switch r.src[r.pos] {
		case ')':
			r.pos++
			return items, nil
		case '"':
			item, err := r.str()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case '(', '[', '{':
			return nil, fmt.Errorf("%w: nested form at offset %d", ErrMalformedResponse, r.pos)
		default:
			items = append(items, r.symbol())
		}
	}
}

func (r *listReader) str() (string, error) {
	r.pos++
	var b strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch c {
		case '"':
			r.pos++
			return b.String(), nil
		case '\\':
			if r.pos+1 >= len(r.src) {
				return "", fmt.Errorf("%w: dangling escape", ErrMalformedResponse)
			}
			r.pos++
			switch esc := r.src[r.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
			r.pos++
		default:
			b.WriteByte(c)
			r.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrMalformedResponse)
}

func (r *listReader) symbol() string {
	start := r.pos
	for r.pos < len(r.src) {
		c, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' {
			break
		}
		r.pos += size
	}
	return r.src[start:r.pos]
}

func (r *listReader) skipSpace() {
	for r.pos < len(r.src) {
		c, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if !unicode.IsSpace(c) && !unicode.IsControl(c) {
			return
		}
		r.pos += size
	}
}

func (r *listReader) consume(c byte) bool {
	if r.pos < len(r.src) && r.src[r.pos] == c {
		r.pos++
		return true
	}
	return false
}
