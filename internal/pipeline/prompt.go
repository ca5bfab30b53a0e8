package pipeline

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"strings"
	"text/template"

	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/references"
	"github.com/leofalp/scenario/internal/utils"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(promptFS, "prompts/*.tmpl"))

var creativityHints = []string{
	"※ 기존과 완전히 다른 새로운 스토리를 만들어주세요.",
	"★ 독창적이고 예상치 못한 전개를 포함해주세요.",
	"◆ 이전에 없던 신선한 설정으로 작성해주세요.",
	"▶ 창의적이고 독특한 이야기를 만들어주세요.",
}

// variation returns one or two random markers that keep repeated prompts
// from being identical.
func variation(rng *rand.Rand) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	seed := make([]byte, 8)
	for i := range seed {
		seed[i] = alphabet[rng.IntN(len(alphabet))]
	}

	markers := []string{
		fmt.Sprintf("[시드: %s]", seed),
		fmt.Sprintf("(변형코드: %d)", 1000+rng.IntN(9000)),
		fmt.Sprintf("#버전%d", 1+rng.IntN(100)),
		fmt.Sprintf("※ 고유번호: %d", 100000+rng.IntN(900000)),
		fmt.Sprintf("∞ 변화값: %.6f", rng.Float64()),
	}
	rng.Shuffle(len(markers), func(i, j int) { markers[i], markers[j] = markers[j], markers[i] })
	return strings.Join(markers[:1+rng.IntN(2)], " ")
}

func hint(rng *rand.Rand) string {
	return creativityHints[rng.IntN(len(creativityHints))]
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return b.String(), nil
}

// PlotPrompt builds the plot stage prompt for the session. refs are appended
// as indented JSON.
func PlotPrompt(s *Session, refs []references.Episode, rng *rand.Rand) (string, error) {
	data := struct {
		Count          int
		Keywords       []string
		ToneLine       string
		Variation      string
		Hint           string
		References     string
		ReferenceCount int
	}{
		Count:          s.count(),
		Keywords:       s.Keywords,
		ToneLine:       s.Tone.Instruction(),
		Variation:      variation(rng),
		Hint:           hint(rng),
		ReferenceCount: len(refs),
	}
	if len(refs) > 0 {
		data.References = utils.JSONToString(refs, true)
	}
	return render("plot.tmpl", data)
}

// CharacterPrompt builds the character stage prompt for story.
func CharacterPrompt(s *Session, story scenario.Story, rng *rand.Rand) (string, error) {
	data := struct {
		Story    scenario.Story
		Keywords []string
		ToneLine string
		Hint     string
	}{
		Story:    story,
		Keywords: s.Keywords,
		ToneLine: s.Tone.Instruction(),
		Hint:     hint(rng),
	}
	return render("character.tmpl", data)
}

// Selection is an option chosen for an earlier detail section.
type Selection struct {
	Section scenario.Section
	Option  scenario.DetailOption
}

type previousSelection struct {
	Label string
	JSON  string
}

// DetailPrompt builds the prompt for one detail section. previous carries the
// options already chosen for earlier sections, in order.
func DetailPrompt(section scenario.Section, story scenario.Story, cast []scenario.Character, previous []Selection) (string, error) {
	if _, err := scenario.ParseSection(string(section)); err != nil {
		return "", err
	}

	var pairs []string
	for i := range cast {
		for j := i + 1; j < len(cast); j++ {
			pairs = append(pairs, cast[i].Name+"-"+cast[j].Name)
		}
	}

	prev := make([]previousSelection, 0, len(previous))
	for _, p := range previous {
		prev = append(prev, previousSelection{
			Label: p.Section.Label(),
			JSON:  utils.JSONToString(p.Option, true),
		})
	}

	data := struct {
		Story      scenario.Story
		Characters []scenario.Character
		Pairs      []string
		Previous   []previousSelection
	}{
		Story:      story,
		Characters: cast,
		Pairs:      pairs,
		Previous:   prev,
	}
	return render(string(section), data)
}
