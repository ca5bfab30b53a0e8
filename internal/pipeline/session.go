package pipeline

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Tone steers the mood of generated stories.
type Tone string

const (
	ToneDefault     Tone = "기본"
	ToneProvocative Tone = "자극적"
	ToneRealistic   Tone = "현실적"
	ToneShocking    Tone = "충격적"
	ToneExplicit    Tone = "선정적"
)

// Tones lists every selectable tone.
var Tones = []Tone{ToneDefault, ToneProvocative, ToneRealistic, ToneShocking, ToneExplicit}

var toneInstructions = map[Tone]string{
	ToneProvocative: "톤: 자극적이고 충격적인 전개로 작성해주세요.",
	ToneRealistic:   "톤: 현실적이고 일상적인 느낌으로 작성해주세요.",
	ToneShocking:    "톤: 반전이 있고 충격적인 결말로 작성해주세요.",
}

// ParseTone resolves a tone by its Korean name.
func ParseTone(s string) (Tone, error) {
	for _, t := range Tones {
		if string(t) == strings.TrimSpace(s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tone %q", s)
}

// Instruction is the prompt line for the tone, empty when the tone adds none.
func (t Tone) Instruction() string {
	return toneInstructions[t]
}

// RandomTone picks one of Tones.
func RandomTone(rng *rand.Rand) Tone {
	return Tones[rng.IntN(len(Tones))]
}

const (
	// DefaultCount is the number of stories requested per plot run.
	DefaultCount = 5

	// toneShiftChance is the probability that a regeneration switches tone.
	toneShiftChance = 0.3
)

// Session carries the user's steering choices between stage runs.
type Session struct {
	Tone     Tone
	Keywords []string
	Count    int
	// ToneLocked keeps Tone fixed across regenerations.
	ToneLocked bool
}

// NewSession starts a session with a random tone and DefaultCount stories.
func NewSession(rng *rand.Rand) *Session {
	return &Session{Tone: RandomTone(rng), Count: DefaultCount}
}

// SetTone fixes the tone for the rest of the session.
func (s *Session) SetTone(t Tone) {
	s.Tone = t
	s.ToneLocked = true
}

// AddKeywords appends non-blank keywords that are not present yet.
func (s *Session) AddKeywords(words ...string) {
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || slices.Contains(s.Keywords, w) {
			continue
		}
		s.Keywords = append(s.Keywords, w)
	}
}

// ClearKeywords drops every keyword.
func (s *Session) ClearKeywords() {
	s.Keywords = nil
}

// Reroll may switch an unlocked session to a random tone before a
// regeneration. It reports whether the tone changed.
func (s *Session) Reroll(rng *rand.Rand) bool {
	if s.ToneLocked || rng.Float64() >= toneShiftChance {
		return false
	}
	prev := s.Tone
	s.Tone = RandomTone(rng)
	return s.Tone != prev
}

func (s *Session) count() int {
	if s.Count <= 0 {
		return DefaultCount
	}
	return s.Count
}
