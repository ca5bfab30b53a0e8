package scenario

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/leofalp/scenario/internal/jsonschema"
)

// Character is one version of a character profile.
type Character struct {
	Version             int    `json:"version,omitempty"`
	Name                string `json:"name" jsonschema:"minLength=1"`
	Gender              string `json:"gender,omitempty"`
	Age                 int    `json:"age,omitempty"`
	Job                 string `json:"job,omitempty"`
	Hometown            string `json:"hometown,omitempty"`
	MBTI                string `json:"mbti,omitempty"`
	MBTIDescription     string `json:"mbti_description,omitempty"`
	PersonalityAnalysis string `json:"personality_analysis,omitempty"`
	Trait               string `json:"trait,omitempty"`
	RoleInStory         string `json:"role_in_story,omitempty"`
}

// CharacterSet holds the profile versions of each character, keyed by name.
// Order lists the names in the order they were first seen in a list layout,
// or sorted by name for the by-name layout, whose key order does not survive
// decoding.
type CharacterSet struct {
	Characters map[string][]Character `json:"characters"`
	Order      []string               `json:"-"`
}

type characterList struct {
	Characters []Character `json:"characters" jsonschema:"minItems=1"`
}

var characterListValidator = jsonschema.MustCompile[characterList]()

var digits = regexp.MustCompile(`\d+`)

// CharactersFrom converts a decoded mapping into a CharacterSet. The
// "characters" value may be a list of profiles or an object mapping each name
// to its list of versions; names of the latter come out sorted. Profiles
// without a version are numbered per name in encounter order. Ages written as
// text ("35세") are reduced to their digits.
func CharactersFrom(m map[string]any) (CharacterSet, error) {
	profiles, err := flattenCharacters(m["characters"])
	if err != nil {
		return CharacterSet{}, err
	}
	list, err := convert[characterList](characterListValidator, map[string]any{"characters": profiles})
	if err != nil {
		return CharacterSet{}, err
	}

	set := CharacterSet{Characters: make(map[string][]Character)}
	for _, c := range list.Characters {
		versions, seen := set.Characters[c.Name]
		if !seen {
			set.Order = append(set.Order, c.Name)
		}
		if c.Version == 0 {
			c.Version = len(versions) + 1
		}
		set.Characters[c.Name] = append(versions, c)
	}
	return set, nil
}

// flattenCharacters returns the profiles of either accepted layout as a list.
func flattenCharacters(v any) ([]any, error) {
	switch chars := v.(type) {
	case []any:
		out := make([]any, 0, len(chars))
		for _, p := range chars {
			out = append(out, normalizeProfile(p, ""))
		}
		return out, nil
	case map[string]any:
		names := make([]string, 0, len(chars))
		for name := range chars {
			names = append(names, name)
		}
		sort.Strings(names)

		var out []any
		for _, name := range names {
			versions, ok := chars[name].([]any)
			if !ok {
				versions = []any{chars[name]}
			}
			for _, p := range versions {
				out = append(out, normalizeProfile(p, name))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: characters is %T", ErrInvalidPayload, v)
	}
}

// normalizeProfile fills a missing name and turns a textual age into a number.
func normalizeProfile(p any, name string) any {
	profile, ok := p.(map[string]any)
	if !ok {
		return p
	}
	out := make(map[string]any, len(profile)+1)
	for k, v := range profile {
		out[k] = v
	}
	if _, ok := out["name"]; !ok && name != "" {
		out["name"] = name
	}
	if age, ok := out["age"].(string); ok {
		if n, err := strconv.Atoi(digits.FindString(age)); err == nil {
			out["age"] = float64(n)
		} else {
			delete(out, "age")
		}
	}
	return out
}

// PlaceholderCharacters returns three stand-in versions of the named character.
func PlaceholderCharacters(name string) CharacterSet {
	if name == "" {
		name = "영수"
	}
	stub := []struct {
		age      int
		job      string
		hometown string
		mbti     string
		desc     string
		trait    string
	}{
		{35, "회사원", "서울", "ISTJ", "현실주의자형 - 책임감이 강하고 신뢰할 수 있습니다", "성실함"},
		{40, "공무원", "부산", "ESTJ", "경영자형 - 리더십이 강합니다", "리더십"},
		{38, "자영업", "대구", "ENTJ", "통솔자형 - 야망이 있습니다", "야심"},
	}

	versions := make([]Character, 0, len(stub))
	for i, s := range stub {
		analysis := "임시 성격 분석입니다."
		if i > 0 {
			analysis = fmt.Sprintf("임시 성격 분석 %d입니다.", i+1)
		}
		versions = append(versions, Character{
			Version:             i + 1,
			Name:                name,
			Gender:              "미정",
			Age:                 s.age,
			Job:                 s.job,
			Hometown:            s.hometown,
			MBTI:                s.mbti,
			MBTIDescription:     s.desc,
			PersonalityAnalysis: analysis,
			Trait:               s.trait,
		})
	}
	return CharacterSet{
		Characters: map[string][]Character{name: versions},
		Order:      []string{name},
	}
}

// Latest returns the highest version of every character in Order.
func (s CharacterSet) Latest() []Character {
	out := make([]Character, 0, len(s.Order))
	for _, name := range s.Order {
		versions := s.Characters[name]
		if len(versions) == 0 {
			continue
		}
		best := versions[0]
		for _, v := range versions[1:] {
			if v.Version > best.Version {
				best = v
			}
		}
		out = append(out, best)
	}
	return out
}
