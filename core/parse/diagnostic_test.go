package parse

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDiagnostic(t *testing.T) {
	text := "{\n  \"a\": 1\n  \"b\": 2\n}"
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		t.Fatal("expected a syntax error")
	}

	d := newDiagnostic(text, err)
	if d.Line != 3 {
		t.Errorf("Line = %d, want 3", d.Line)
	}
	if d.Column != 3 {
		t.Errorf("Column = %d, want 3", d.Column)
	}
	if len(d.Context) != 4 {
		t.Fatalf("len(Context) = %d, want 4", len(d.Context))
	}
	if d.Context[0].Number != 1 || d.Context[3].Number != 4 {
		t.Errorf("context spans lines %d..%d, want 1..4", d.Context[0].Number, d.Context[3].Number)
	}
	for _, l := range d.Context {
		if l.Focus != (l.Number == 3) {
			t.Errorf("line %d Focus = %v", l.Number, l.Focus)
		}
	}

	rendered := d.String()
	if !strings.Contains(rendered, `>>    3 |   "b": 2`) {
		t.Errorf("String() missing focus line:\n%s", rendered)
	}
	if !strings.Contains(d.ContextBlock(), "2:   \"a\": 1") {
		t.Errorf("ContextBlock() = %q", d.ContextBlock())
	}
}

func TestNewDiagnostic_MultibyteColumn(t *testing.T) {
	text := `{"제목": "가" x}`
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		t.Fatal("expected a syntax error")
	}

	d := newDiagnostic(text, err)
	if d.Line != 1 {
		t.Errorf("Line = %d, want 1", d.Line)
	}
	// '{' '"' 제 목 '"' ':' ' ' '"' 가 '"' ' ' 'x'
	if d.Column != 12 {
		t.Errorf("Column = %d, want 12", d.Column)
	}
}

func TestNewDiagnostic_NotObject(t *testing.T) {
	d := newDiagnostic("[1, 2]", errNotObject)
	if d.Line != 1 || d.Column != 1 {
		t.Errorf("position = %d:%d, want 1:1", d.Line, d.Column)
	}
	if d.Err != errNotObject.Error() {
		t.Errorf("Err = %q", d.Err)
	}
}

func TestDiagnostic_NilSafe(t *testing.T) {
	var d *Diagnostic
	if d.String() != "" || d.ContextBlock() != "" {
		t.Error("nil diagnostic should render empty")
	}
}
