package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	storiesKeyPattern = regexp.MustCompile(`"stories"\s*:\s*\[`)
	titleFieldPattern = regexp.MustCompile(`"title"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	plotFieldPattern  = regexp.MustCompile(`"plot"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// RecoverStories salvages story entries from text that does not parse as
// JSON. It looks inside the "stories" array for brace-delimited objects whose
// own fields include both a non-empty "title" and a non-empty "plot" string,
// in either order, and returns them in encounter order as {"title", "plot"}
// mappings. Other fields, nested objects included, are dropped. An object
// nested inside a recovered entry is never recovered on its own. A truncated
// array is scanned to the end of the text.
func RecoverStories(text string) []any {
	loc := storiesKeyPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	region := text[loc[1]:arrayEnd(text, loc[1])]

	var entries []object
	for _, obj := range objects(region) {
		title, ok := capture(titleFieldPattern, obj.own)
		if !ok {
			continue
		}
		plot, ok := capture(plotFieldPattern, obj.own)
		if !ok {
			continue
		}
		obj.title, obj.plot = title, plot
		entries = append(entries, obj)
	}

	var stories []any
	for _, e := range entries {
		if enclosed(e, entries) {
			continue
		}
		stories = append(stories, map[string]any{"title": e.title, "plot": e.plot})
	}
	return stories
}

func capture(pattern *regexp.Regexp, entry string) (string, bool) {
	m := pattern.FindStringSubmatch(entry)
	if m == nil {
		return "", false
	}
	value := unescape(m[1])
	return value, value != ""
}

// unescape decodes JSON escapes in a captured literal body, falling back to
// the raw text when the body is not a valid JSON string.
func unescape(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}

// arrayEnd returns the index of the ']' closing an array whose body starts at
// from, or len(text) when the array is never closed.
func arrayEnd(text string, from int) int {
	depth := 1
	inString, escaped := false, false
	for i := from; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text)
}

// object is a balanced brace block at s[start:end+1]. own is the block text
// with every nested block collapsed to "{}".
type object struct {
	start, end  int
	own         string
	title, plot string
}

// enclosed reports whether o lies inside another of the entries. Entries
// never overlap partially.
func enclosed(o object, entries []object) bool {
	for _, e := range entries {
		if e.start < o.start && o.end < e.end {
			return true
		}
	}
	return false
}

// objects returns every balanced brace block of s in closing order, ignoring
// braces inside string literals. Unmatched braces are skipped.
func objects(s string) []object {
	type frame struct {
		start    int
		children [][2]int
	}
	var (
		out   []object
		stack []frame
	)
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, frame{start: i})
		case '}':
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, object{start: f.start, end: i, own: collapse(s, f.start, i, f.children)})
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.children = append(parent.children, [2]int{f.start, i})
			}
		}
	}
	return out
}

// collapse returns s[start:end+1] with each child span replaced by "{}".
func collapse(s string, start, end int, children [][2]int) string {
	if len(children) == 0 {
		return s[start : end+1]
	}
	var b strings.Builder
	pos := start
	for _, ch := range children {
		b.WriteString(s[pos:ch[0]])
		b.WriteString("{}")
		pos = ch[1] + 1
	}
	b.WriteString(s[pos : end+1])
	return b.String()
}
