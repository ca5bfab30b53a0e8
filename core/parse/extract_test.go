package parse

import "testing"

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantKind Candidate
		wantOK   bool
	}{
		{
			name:     "bare object",
			input:    `{"a": 1}`,
			want:     `{"a": 1}`,
			wantKind: CandidateBraces,
			wantOK:   true,
		},
		{
			name:     "object surrounded by prose",
			input:    "Sure! Here it is:\n{\"a\": {\"b\": 2}}\nHope this helps.",
			want:     `{"a": {"b": 2}}`,
			wantKind: CandidateBraces,
			wantOK:   true,
		},
		{
			name:     "greedy across two objects",
			input:    `first {"a": 1} then {"b": 2} done`,
			want:     `{"a": 1} then {"b": 2}`,
			wantKind: CandidateBraces,
			wantOK:   true,
		},
		{
			name:     "json fence without braces",
			input:    "```json\n[1, 2, 3]\n```",
			want:     "[1, 2, 3]",
			wantKind: CandidateJSONFence,
			wantOK:   true,
		},
		{
			name:     "unlabeled fence",
			input:    "```\n[\"x\"]\n```",
			want:     `["x"]`,
			wantKind: CandidateFence,
			wantOK:   true,
		},
		{
			name:     "labeled non-json fence",
			input:    "```text\n[\"x\"]\n```",
			want:     `["x"]`,
			wantKind: CandidateFence,
			wantOK:   true,
		},
		{
			name:   "empty fence",
			input:  "```json\n\n```",
			wantOK: false,
		},
		{
			name:   "closing brace before opening brace",
			input:  "} nothing {",
			wantOK: false,
		},
		{
			name:   "plain text",
			input:  "I could not think of any stories today.",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind, ok := ExtractCandidate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractCandidate() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("ExtractCandidate() = %q, want %q", got, tt.want)
			}
			if kind != tt.wantKind {
				t.Errorf("ExtractCandidate() kind = %q, want %q", kind, tt.wantKind)
			}
		})
	}
}
