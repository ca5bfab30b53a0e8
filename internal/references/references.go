// Package references builds and samples the corpus of past episodes that
// plot prompts are grounded on.
package references

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/scenario/core/parse"
	"github.com/leofalp/scenario/internal/utils"
	"github.com/leofalp/scenario/providers/observability"
)

// ErrNoEpisodes is returned when a corpus file holds no episodes.
var ErrNoEpisodes = errors.New("reference corpus is empty")

// RawEpisode is one scraped episode as stored in the raw corpus.
type RawEpisode struct {
	Title string `json:"title"`
	Plot  string `json:"plot"`
}

// Episode is a cleaned, tagged episode.
type Episode struct {
	Title string   `json:"title"`
	Plot  string   `json:"plot"`
	Tags  []string `json:"tags"`
}

type tagRule struct {
	tag     string
	inTitle bool
	words   []string
}

// tagRules are applied in order; an episode gets each tag at most once.
var tagRules = []tagRule{
	{tag: "의처증", inTitle: true, words: []string{"의처증"}},
	{tag: "불륜", words: []string{"불륜", "외도"}},
	{tag: "고부갈등", words: []string{"시어머니", "시댁"}},
	{tag: "이혼", words: []string{"이혼"}},
}

// LoadRaw reads a raw corpus file. The file only needs to be close to JSON:
// comments, trailing commas and surrounding prose are tolerated.
func LoadRaw(path string) ([]RawEpisode, error) {
	return load[RawEpisode](path)
}

// Load reads a processed corpus file.
func Load(path string) ([]Episode, error) {
	return load[Episode](path)
}

func load[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	items, err := parse.ParseStringAs[[]T](string(b))
	if err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoEpisodes)
	}
	return items, nil
}

// Process cleans every raw episode and assigns tags. Plot bodies containing
// markup are converted to markdown text.
func Process(ctx context.Context, raw []RawEpisode) ([]Episode, error) {
	if len(raw) == 0 {
		return nil, ErrNoEpisodes
	}

	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		observer = observability.Nop{}
	}
	ctx, span := observer.StartSpan(ctx, observability.SpanReferences,
		observability.Int(observability.AttrReferencesCount, len(raw)),
	)
	defer span.End()

	out := make([]Episode, 0, len(raw))
	for i, r := range raw {
		plot, err := cleanText(r.Plot)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "convert plot")
			return nil, fmt.Errorf("episode %d (%q): %w", i, r.Title, err)
		}
		title := strings.TrimSpace(r.Title)
		out = append(out, Episode{Title: title, Plot: plot, Tags: Tags(title, plot)})
	}

	span.SetStatus(observability.StatusOK, "")
	observer.Info(ctx, "reference corpus processed",
		observability.Int(observability.AttrReferencesCount, len(out)),
	)
	return out, nil
}

// Tags returns the tags matched by title and plot.
func Tags(title, plot string) []string {
	tags := []string{}
	for _, rule := range tagRules {
		text := plot
		if rule.inTitle {
			text = title
		}
		for _, w := range rule.words {
			if strings.Contains(text, w) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	return tags
}

func cleanText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s, nil
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// Save writes episodes as indented JSON, creating parent directories.
func Save(path string, episodes []Episode) error {
	b, err := utils.MarshalJSON(episodes, true)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create corpus dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	return nil
}

// Sample picks up to n distinct episodes in random order. A non-positive n
// returns nil.
func Sample(episodes []Episode, n int, rng *rand.Rand) []Episode {
	if n <= 0 || len(episodes) == 0 {
		return nil
	}
	n = min(n, len(episodes))
	out := make([]Episode, 0, n)
	for _, i := range rng.Perm(len(episodes))[:n] {
		out = append(out, episodes[i])
	}
	return out
}
