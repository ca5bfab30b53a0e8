package parse

import (
	"regexp"
	"strings"
)

// Candidate names the strategy that selected a JSON span.
type Candidate string

const (
	CandidateNone      Candidate = ""
	CandidateBraces    Candidate = "braces"
	CandidateJSONFence Candidate = "json_fence"
	CandidateFence     Candidate = "fence"
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFencePattern  = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*\\s*(.*?)\\s*```")
)

type extractor struct {
	kind Candidate
	find func(text string) string
}

// Order matters: the first strategy yielding a non-empty span wins. The
// first-{ to last-} fallback selects the same span as the greedy brace block,
// so it is not repeated at the end of the list.
var extractors = []extractor{
	{kind: CandidateBraces, find: braceBlock},
	{kind: CandidateJSONFence, find: fenced(jsonFencePattern)},
	{kind: CandidateFence, find: fenced(anyFencePattern)},
}

// ExtractCandidate selects the substring of text most likely to hold a JSON
// object. It reports false when no strategy finds a non-empty span.
func ExtractCandidate(text string) (string, Candidate, bool) {
	for _, e := range extractors {
		if span := strings.TrimSpace(e.find(text)); span != "" {
			return span, e.kind, true
		}
	}
	return "", CandidateNone, false
}

// braceBlock returns everything from the first '{' to the last '}'.
func braceBlock(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(text, '}')
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

func fenced(pattern *regexp.Regexp) func(string) string {
	return func(text string) string {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return m[1]
	}
}
