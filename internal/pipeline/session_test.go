package pipeline

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

func TestParseTone(t *testing.T) {
	for _, tone := range Tones {
		got, err := ParseTone(" " + string(tone) + " ")
		if err != nil || got != tone {
			t.Errorf("ParseTone(%q) = %q, %v", tone, got, err)
		}
	}
	if _, err := ParseTone("잔잔한"); err == nil {
		t.Error("ParseTone(unknown) should fail")
	}
}

func TestTone_Instruction(t *testing.T) {
	tests := []struct {
		tone Tone
		want string
	}{
		{ToneDefault, ""},
		{ToneExplicit, ""},
		{ToneProvocative, "톤: 자극적이고 충격적인 전개로 작성해주세요."},
		{ToneRealistic, "톤: 현실적이고 일상적인 느낌으로 작성해주세요."},
		{ToneShocking, "톤: 반전이 있고 충격적인 결말로 작성해주세요."},
	}
	for _, tt := range tests {
		if got := tt.tone.Instruction(); got != tt.want {
			t.Errorf("%s.Instruction() = %q, want %q", tt.tone, got, tt.want)
		}
	}
}

func TestSession_Keywords(t *testing.T) {
	s := &Session{}
	s.AddKeywords("복수", " ", "반전", "복수", " 유산 ")
	if want := []string{"복수", "반전", "유산"}; !reflect.DeepEqual(s.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", s.Keywords, want)
	}
	s.ClearKeywords()
	if len(s.Keywords) != 0 {
		t.Errorf("Keywords after clear = %v", s.Keywords)
	}
}

func TestSession_Reroll(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	locked := NewSession(rng)
	locked.SetTone(ToneRealistic)
	for range 50 {
		if locked.Reroll(rng) {
			t.Fatal("locked session changed tone")
		}
	}
	if locked.Tone != ToneRealistic {
		t.Errorf("Tone = %q", locked.Tone)
	}

	s := NewSession(rng)
	if s.Count != DefaultCount || !slices.Contains(Tones, s.Tone) {
		t.Fatalf("NewSession() = %+v", s)
	}
	changed := 0
	for range 200 {
		if s.Reroll(rng) {
			changed++
		}
		if !slices.Contains(Tones, s.Tone) {
			t.Fatalf("unexpected tone %q", s.Tone)
		}
	}
	if changed == 0 || changed > 120 {
		t.Errorf("tone changed %d times in 200 rerolls", changed)
	}
}
