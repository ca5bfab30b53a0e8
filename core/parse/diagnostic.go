package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// contextRadius is the number of lines shown on each side of a failure.
const contextRadius = 2

// Diagnostic locates a parse failure inside the normalized candidate.
type Diagnostic struct {
	Err     string
	Offset  int64
	Line    int // 1-based
	Column  int // 1-based, in runes
	Context []ContextLine
}

// ContextLine is one line of text around a failure.
type ContextLine struct {
	Number int
	Text   string
	Focus  bool
}

// String renders the diagnostic with its context block, marking the failing
// line with ">>".
func (d *Diagnostic) String() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (line %d, column %d)", d.Err, d.Line, d.Column)
	for _, l := range d.Context {
		marker := "  "
		if l.Focus {
			marker = ">>"
		}
		fmt.Fprintf(&b, "\n%s %4d | %s", marker, l.Number, l.Text)
	}
	return b.String()
}

// ContextBlock returns only the rendered context lines.
func (d *Diagnostic) ContextBlock() string {
	if d == nil {
		return ""
	}
	lines := make([]string, 0, len(d.Context))
	for _, l := range d.Context {
		lines = append(lines, fmt.Sprintf("%d: %s", l.Number, l.Text))
	}
	return strings.Join(lines, "\n")
}

func newDiagnostic(text string, err error) *Diagnostic {
	offset := errorOffset(err)
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}

	prefix := text[:offset]
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	column := utf8.RuneCountInString(prefix[lineStart:])
	if column == 0 {
		column = 1
	}

	lines := strings.Split(text, "\n")
	first := max(1, line-contextRadius)
	last := min(len(lines), line+contextRadius)
	ctx := make([]ContextLine, 0, last-first+1)
	for n := first; n <= last; n++ {
		ctx = append(ctx, ContextLine{Number: n, Text: lines[n-1], Focus: n == line})
	}

	return &Diagnostic{
		Err:     err.Error(),
		Offset:  offset,
		Line:    line,
		Column:  column,
		Context: ctx,
	}
}

// errorOffset extracts the byte offset reported by encoding/json. The offset
// counts the bytes read up to and including the offending one.
func errorOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return max(syntaxErr.Offset, 0)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return max(typeErr.Offset, 0)
	}
	return 0
}
