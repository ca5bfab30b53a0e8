package parse

import (
	"reflect"
	"testing"
)

func TestParseStringAs_Primitives(t *testing.T) {
	t.Run("string passthrough", func(t *testing.T) {
		got, err := ParseStringAs[string]("hello\nworld")
		if err != nil || got != "hello\nworld" {
			t.Errorf("ParseStringAs[string]() = %q, %v", got, err)
		}
	})

	t.Run("string envelope", func(t *testing.T) {
		got, err := ParseStringAs[string](`{"type": "string", "value": "기본"}`)
		if err != nil || got != "기본" {
			t.Errorf("ParseStringAs[string]() = %q, %v", got, err)
		}
	})

	t.Run("bool", func(t *testing.T) {
		got, err := ParseStringAs[bool](" true\n")
		if err != nil || !got {
			t.Errorf("ParseStringAs[bool]() = %v, %v", got, err)
		}
	})

	t.Run("int envelope", func(t *testing.T) {
		got, err := ParseStringAs[int](`{"type": "integer", "value": 5}`)
		if err != nil || got != 5 {
			t.Errorf("ParseStringAs[int]() = %v, %v", got, err)
		}
	})

	t.Run("uint", func(t *testing.T) {
		got, err := ParseStringAs[uint8]("7")
		if err != nil || got != 7 {
			t.Errorf("ParseStringAs[uint8]() = %v, %v", got, err)
		}
	})

	t.Run("float", func(t *testing.T) {
		got, err := ParseStringAs[float64]("0.25")
		if err != nil || got != 0.25 {
			t.Errorf("ParseStringAs[float64]() = %v, %v", got, err)
		}
	})

	t.Run("invalid int", func(t *testing.T) {
		if _, err := ParseStringAs[int]("three"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestParseStringAs_Struct(t *testing.T) {
	type Story struct {
		Title string `json:"title"`
		Plot  string `json:"plot"`
	}

	tests := []struct {
		name    string
		input   string
		want    Story
		wantErr bool
	}{
		{
			name:  "valid JSON",
			input: `{"title":"A","plot":"B"}`,
			want:  Story{Title: "A", Plot: "B"},
		},
		{
			name:  "fenced with prose and trailing comma",
			input: "Here you go:\n```json\n{\"title\": \"A\", \"plot\": \"B\",}\n```",
			want:  Story{Title: "A", Plot: "B"},
		},
		{
			name:  "comments and raw newline",
			input: "{\n  // headline\n  \"title\": \"A\",\n  \"plot\": \"one\ntwo\"\n}",
			want:  Story{Title: "A", Plot: "one\ntwo"},
		},
		{
			name:  "unquoted keys are repaired",
			input: `{title: "A", plot: "B"}`,
			want:  Story{Title: "A", Plot: "B"},
		},
		{
			name:  "missing closing brace is repaired",
			input: `{"title": "A", "plot": "B"`,
			want:  Story{Title: "A", Plot: "B"},
		},
		{
			name:  "schema-wrapped values",
			input: `{"title": {"type": "string", "value": "A"}, "plot": {"type": "string", "value": "B"}}`,
			want:  Story{Title: "A", Plot: "B"},
		},
		{
			name:    "plain prose",
			input:   `this is not json at all`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringAs[Story](tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStringAs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseStringAs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseStringAs_Slice(t *testing.T) {
	type Episode struct {
		Title string `json:"title"`
	}

	got, err := ParseStringAs[[]Episode]("```json\n[{\"title\": \"A\"}, {\"title\": \"B\"},]\n```")
	if err != nil {
		t.Fatalf("ParseStringAs() error = %v", err)
	}
	want := []Episode{{Title: "A"}, {Title: "B"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStringAs() = %+v, want %+v", got, want)
	}
}

func TestParseStringAs_Map(t *testing.T) {
	got, err := ParseStringAs[map[string]int](`{"a": 1, "b": 2,}`)
	if err != nil {
		t.Fatalf("ParseStringAs() error = %v", err)
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("ParseStringAs() = %v", got)
	}
}

func TestParseStringAs_Pointer(t *testing.T) {
	type Story struct {
		Title string `json:"title"`
	}

	got, err := ParseStringAs[*Story](`{"title": "A"}`)
	if err != nil {
		t.Fatalf("ParseStringAs() error = %v", err)
	}
	if got == nil || got.Title != "A" {
		t.Errorf("ParseStringAs() = %+v", got)
	}
}
