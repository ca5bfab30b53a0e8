package pipeline

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/references"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPlotPrompt(t *testing.T) {
	s := &Session{Tone: ToneShocking, Count: 3, Keywords: []string{"복수", "반전"}}
	refs := []references.Episode{{Title: "시어머니의 비밀", Plot: "줄거리", Tags: []string{"고부갈등"}}}

	got, err := PlotPrompt(s, refs, testRand())
	if err != nil {
		t.Fatalf("PlotPrompt() error = %v", err)
	}

	for _, want := range []string{
		"새로운 이야기 3개를",
		"생성해주세요.\n\n특히 다음 키워드들을 포함해주세요: 복수, 반전\n\n톤: 반전이 있고 충격적인 결말로 작성해주세요.",
		`"stories": [`,
		"- 총 3개의 스토리 생성",
		"【남성 이름 가이드】",
		"랜덤 선택한 1개 에피소드",
		`"title": "시어머니의 비밀"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt lacks %q\n%s", want, got)
		}
	}

	hinted := false
	for _, h := range creativityHints {
		hinted = hinted || strings.Contains(got, h)
	}
	if !hinted {
		t.Error("prompt lacks a creativity hint")
	}
}

func TestPlotPrompt_Plain(t *testing.T) {
	got, err := PlotPrompt(&Session{Tone: ToneDefault}, nil, testRand())
	if err != nil {
		t.Fatal(err)
	}
	for _, unwanted := range []string{"톤:", "키워드", "레퍼런스 데이터"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("prompt should not contain %q", unwanted)
		}
	}
	if !strings.Contains(got, "새로운 이야기 5개를") {
		t.Error("zero count should fall back to the default")
	}
}

func TestVariation(t *testing.T) {
	rng := testRand()
	for range 20 {
		v := variation(rng)
		if v == "" || strings.Count(v, " ") > 8 {
			t.Errorf("variation() = %q", v)
		}
	}
}

func TestCharacterPrompt(t *testing.T) {
	story := scenario.Story{Title: "성형의 늪", Plot: "옥순은 성형에 빠져든다."}
	got, err := CharacterPrompt(&Session{Tone: ToneRealistic}, story, testRand())
	if err != nil {
		t.Fatalf("CharacterPrompt() error = %v", err)
	}
	for _, want := range []string{
		"등장인물을 생성해주세요.\n\n톤: 현실적이고",
		"제목: 성형의 늪\n내용: 옥순은 성형에 빠져든다.",
		`"personality_analysis"`,
		"【여성 이름 가이드】",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt lacks %q\n%s", want, got)
		}
	}
}

func TestDetailPrompt(t *testing.T) {
	story := scenario.Story{Title: "T", Plot: "P"}
	cast := []scenario.Character{
		{Name: "옥순", Gender: "여성", Age: 38, Job: "판매원", MBTI: "ESFP", Trait: "충동적"},
		{Name: "광수", Gender: "남성", Age: 42, Job: "주임", MBTI: "ISTJ"},
		{Name: "영숙"},
	}

	rel, err := DetailPrompt(scenario.SectionRelationship, story, cast, nil)
	if err != nil {
		t.Fatalf("DetailPrompt() error = %v", err)
	}
	for _, want := range []string{
		"인물 간 관계를 상세히",
		"각 인물 쌍(옥순-광수, 옥순-영숙, 광수-영숙)",
		"- 옥순 (여성, 38세, 판매원, ESFP)\n  특징: 충동적",
		`"relationships": [`,
		"{옵션2},",
	} {
		if !strings.Contains(rel, want) {
			t.Errorf("relationship prompt lacks %q\n%s", want, rel)
		}
	}
	if strings.Contains(rel, "【이전 선택사항】") {
		t.Error("relationship prompt should not list previous selections")
	}

	previous := []Selection{{
		Section: scenario.SectionRelationship,
		Option:  scenario.DetailOption{Number: 2, Title: "공생적 의존"},
	}}
	bg, err := DetailPrompt(scenario.SectionBackground, story, cast, previous)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"【이전 선택사항】", "【관계 다이나믹스】", `"title": "공생적 의존"`, `"character_backgrounds"`} {
		if !strings.Contains(bg, want) {
			t.Errorf("background prompt lacks %q\n%s", want, bg)
		}
	}

	for _, section := range scenario.Sections {
		if _, err := DetailPrompt(section, story, cast, previous); err != nil {
			t.Errorf("DetailPrompt(%s) error = %v", section, err)
		}
	}
	if _, err := DetailPrompt(scenario.Section("plot"), story, cast, nil); err == nil {
		t.Error("unknown section should fail")
	}
}
