package utils

import (
	"strings"
	"testing"
	"time"
)

func TestMarshalJSON(t *testing.T) {
	v := map[string]string{"title": "<남편> & 아내"}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(compact), "{\"title\":\"<남편> & 아내\"}\n"; got != want {
		t.Errorf("MarshalJSON(compact) = %q, want %q", got, want)
	}

	indented, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(indented), "{\n  \"title\": \"<남편> & 아내\"\n}\n"; got != want {
		t.Errorf("MarshalJSON(indent) = %q, want %q", got, want)
	}
}

func TestJSONToString(t *testing.T) {
	if got := JSONToString([]int{1, 2}, false); got != "[1,2]" {
		t.Errorf("JSONToString() = %q", got)
	}
	if got := JSONToString(make(chan int), false); !strings.HasPrefix(got, `{"error":`) {
		t.Errorf("JSONToString(chan) = %q, want error object", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "shorter", input: "abc", n: 5, want: "abc"},
		{name: "exact", input: "abc", n: 3, want: "abc"},
		{name: "ascii cut", input: "abcdef", n: 2, want: "ab..."},
		{name: "hangul cut", input: "가나다라", n: 2, want: "가나..."},
		{name: "non-positive keeps all", input: "abc", n: 0, want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.input, tt.n); got != tt.want {
				t.Errorf("TruncateRunes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	if timer.Duration() != 0 {
		t.Errorf("Duration() before Stop = %v, want 0", timer.Duration())
	}

	time.Sleep(2 * time.Millisecond)
	first := timer.Stop()
	if first <= 0 || timer.Duration() != first {
		t.Errorf("Stop() = %v, Duration() = %v", first, timer.Duration())
	}

	timer.Start()
	if second := timer.Stop(); second >= first {
		t.Errorf("restarted measurement %v should be shorter than %v", second, first)
	}
}
