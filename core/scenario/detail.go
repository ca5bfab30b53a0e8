package scenario

import (
	"fmt"

	"github.com/leofalp/scenario/internal/jsonschema"
)

// Section is one aspect of the detail stage.
type Section string

const (
	SectionRelationship Section = "relationship"
	SectionBackground   Section = "background"
	SectionSharedEvent  Section = "shared_event"
	SectionDailyLife    Section = "daily_life"
	SectionSecrets      Section = "secrets"
)

// Sections lists every section in the order they are usually developed.
var Sections = []Section{
	SectionRelationship,
	SectionBackground,
	SectionSharedEvent,
	SectionDailyLife,
	SectionSecrets,
}

var sectionInfo = map[Section]struct {
	label string
	key   string
}{
	SectionRelationship: {"관계 다이나믹스", "relationships"},
	SectionBackground:   {"개인 배경과 트라우마", "character_backgrounds"},
	SectionSharedEvent:  {"공유된 핵심 사건", "shared_events"},
	SectionDailyLife:    {"일상의 디테일", "daily_patterns"},
	SectionSecrets:      {"비밀과 욕망", "character_secrets"},
}

// ParseSection resolves a section name.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := sectionInfo[sec]; !ok {
		return "", fmt.Errorf("unknown section %q", s)
	}
	return sec, nil
}

// Label is the Korean display name of the section.
func (s Section) Label() string {
	return sectionInfo[s].label
}

// ContentKey is the option field that carries the section's content.
func (s Section) ContentKey() string {
	return sectionInfo[s].key
}

// DetailOption is one alternative proposed for a section.
type DetailOption struct {
	Number      int    `json:"option_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Content is the section-specific body, kept as decoded JSON.
	Content any `json:"content,omitempty"`
}

// DetailSet is the payload of the detail stage for one section.
type DetailSet struct {
	Section Section        `json:"section"`
	Options []DetailOption `json:"options"`
}

type detailEnvelope struct {
	Options []struct {
		Title string `json:"title" jsonschema:"minLength=1"`
	} `json:"options" jsonschema:"minItems=1"`
}

var detailValidator = jsonschema.MustCompile[detailEnvelope]()

// DetailsFrom converts a decoded {"options": [...]} mapping for section.
// Options are renumbered from 1 when the number is missing.
func DetailsFrom(section Section, m map[string]any) (DetailSet, error) {
	if _, ok := sectionInfo[section]; !ok {
		return DetailSet{}, fmt.Errorf("unknown section %q", section)
	}
	if err := detailValidator.Validate(m); err != nil {
		return DetailSet{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw, _ := m["options"].([]any)
	set := DetailSet{Section: section, Options: make([]DetailOption, 0, len(raw))}
	for i, r := range raw {
		opt, _ := r.(map[string]any)
		title, _ := opt["title"].(string)
		description, _ := opt["description"].(string)
		number := i + 1
		if n, ok := opt["option_number"].(float64); ok && n > 0 {
			number = int(n)
		}
		set.Options = append(set.Options, DetailOption{
			Number:      number,
			Title:       title,
			Description: description,
			Content:     opt[section.ContentKey()],
		})
	}
	return set, nil
}

// PlaceholderDetails returns three stand-in options for section.
func PlaceholderDetails(section Section) DetailSet {
	set := DetailSet{Section: section}
	for i := 1; i <= 3; i++ {
		set.Options = append(set.Options, DetailOption{
			Number:      i,
			Title:       fmt.Sprintf("임시 옵션 %d", i),
			Description: fmt.Sprintf("임시 %s %d", section.Label(), i),
		})
	}
	return set
}
