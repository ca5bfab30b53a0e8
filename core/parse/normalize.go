package parse

import (
	"fmt"
	"strings"
)

const byteOrderMark = "\ufeff"

var layoutReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", "    ")

// Normalize rewrites the common defects of model-written JSON into text that
// encoding/json accepts. Outside string literals it drops comments, trailing
// commas and repeated commas. Inside string literals it escapes quotes that do
// not close the literal, encodes raw newlines and control characters, and
// doubles backslashes that start no valid escape. Tabs become four spaces and
// line endings become LF. A leading byte-order mark and surrounding whitespace
// are removed.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, byteOrderMark)
	s = layoutReplacer.Replace(s)

	n := normalizer{src: s}
	n.out.Grow(len(s))
	n.run()
	return strings.TrimSpace(n.out.String())
}

type normalizer struct {
	src string
	out strings.Builder
}

func (n *normalizer) run() {
	src := n.src
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			i = n.str(i)
		case isCommentStart(src, i):
			end, ok := skipComment(src, i)
			if !ok {
				// unterminated block comment is left for the parser to reject
				n.out.WriteString(src[i:])
				return
			}
			i = end
		case c == ',':
			// a comma before a closer or another comma is dropped
			j := skipInsignificant(src, i+1)
			if j < len(src) && (src[j] == ']' || src[j] == '}' || src[j] == ',') {
				i++
				continue
			}
			n.out.WriteByte(c)
			i++
		default:
			n.out.WriteByte(c)
			i++
		}
	}
}

// str copies the string literal opening at src[start] and returns the index
// just past its closing quote.
func (n *normalizer) str(start int) int {
	src := n.src
	n.out.WriteByte('"')
	for i := start + 1; i < len(src); {
		c := src[i]
		switch {
		case c == '\\':
			if i+1 >= len(src) {
				n.out.WriteString(`\\`)
				return len(src)
			}
			next := src[i+1]
			switch {
			case next == '\n':
				n.out.WriteString(`\n`)
			case strings.IndexByte(`"\/bfnrtu`, next) >= 0:
				n.out.WriteByte('\\')
				n.out.WriteByte(next)
			case next < 0x20:
				fmt.Fprintf(&n.out, `\\\u%04x`, next)
			default:
				n.out.WriteString(`\\`)
				n.out.WriteByte(next)
			}
			i += 2
		case c == '"':
			if closesString(src, i+1) {
				n.out.WriteByte('"')
				return i + 1
			}
			n.out.WriteString(`\"`)
			i++
		case c == '\n':
			n.out.WriteString(`\n`)
			i++
		case c < 0x20:
			fmt.Fprintf(&n.out, `\u%04x`, c)
			i++
		default:
			n.out.WriteByte(c)
			i++
		}
	}
	return len(src)
}

// closesString reports whether a quote followed by src[from:] ends a string
// literal: the next significant character must be structural or absent.
func closesString(src string, from int) bool {
	j := skipInsignificant(src, from)
	if j >= len(src) {
		return true
	}
	switch src[j] {
	case ',', ':', '}', ']', '"':
		return true
	}
	return false
}

func isCommentStart(src string, i int) bool {
	return src[i] == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*')
}

// skipComment returns the index just past the comment at src[i]. Line comments
// end before their newline. It reports false for an unterminated block comment.
func skipComment(src string, i int) (int, bool) {
	if src[i+1] == '/' {
		if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
			return i + nl, true
		}
		return len(src), true
	}
	if end := strings.Index(src[i+2:], "*/"); end >= 0 {
		return i + 2 + end + 2, true
	}
	return i, false
}

// skipInsignificant skips whitespace and terminated comments from src[i].
func skipInsignificant(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\n', '\r', '\t':
			i++
			continue
		}
		if !isCommentStart(src, i) {
			return i
		}
		end, ok := skipComment(src, i)
		if !ok {
			return i
		}
		i = end
	}
	return i
}
