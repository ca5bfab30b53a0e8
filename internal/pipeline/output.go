package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/leofalp/scenario/core/parse"
	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/utils"
)

// SaveJSON writes v as indented JSON to dir/<prefix>-<uuid>.json and returns
// the path. dir is created when missing.
func SaveJSON(dir, prefix string, v any) (string, error) {
	b, err := utils.MarshalJSON(v, true)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", prefix, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, uuid.NewString()))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// LoadStories reads a story list saved by SaveJSON or written by hand.
func LoadStories(path string) (scenario.StoryList, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return scenario.StoryList{}, fmt.Errorf("read stories: %w", err)
	}
	m, ok := parse.Decode(string(b))
	if !ok {
		return scenario.StoryList{}, fmt.Errorf("%s: no JSON object found", path)
	}
	return scenario.StoriesFrom(m)
}

// LoadCharacters reads a character set saved by SaveJSON.
func LoadCharacters(path string) (scenario.CharacterSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return scenario.CharacterSet{}, fmt.Errorf("read characters: %w", err)
	}
	m, ok := parse.Decode(string(b))
	if !ok {
		return scenario.CharacterSet{}, fmt.Errorf("%s: no JSON object found", path)
	}
	return scenario.CharactersFrom(m)
}

// LoadDetails reads a detail set saved by SaveJSON.
func LoadDetails(path string) (scenario.DetailSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return scenario.DetailSet{}, fmt.Errorf("read details: %w", err)
	}
	set, err := parse.ParseStringAs[scenario.DetailSet](string(b))
	if err != nil {
		return scenario.DetailSet{}, fmt.Errorf("decode details %s: %w", path, err)
	}
	if _, err := scenario.ParseSection(string(set.Section)); err != nil {
		return scenario.DetailSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Pick returns the option numbered n.
func Pick(set scenario.DetailSet, n int) (Selection, error) {
	for _, opt := range set.Options {
		if opt.Number == n {
			return Selection{Section: set.Section, Option: opt}, nil
		}
	}
	return Selection{}, fmt.Errorf("%s has no option %d", set.Section, n)
}
