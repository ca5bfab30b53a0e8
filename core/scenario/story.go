package scenario

import (
	"fmt"

	"github.com/leofalp/scenario/internal/jsonschema"
)

// Story is one candidate plot.
type Story struct {
	Title string `json:"title" jsonschema:"description=short headline,minLength=1"`
	Plot  string `json:"plot" jsonschema:"description=the full synopsis,minLength=1"`
}

// StoryList is the payload of the plot stage.
type StoryList struct {
	Stories []Story `json:"stories" jsonschema:"minItems=1"`
}

var storyListValidator = jsonschema.MustCompile[StoryList]()

// StoriesFrom converts a decoded mapping into a StoryList. Every story needs a
// non-empty title and plot, and at least one story must be present.
func StoriesFrom(m map[string]any) (StoryList, error) {
	return convert[StoryList](storyListValidator, m)
}

// PlaceholderStories returns n stand-in stories numbered from 1.
func PlaceholderStories(n int) StoryList {
	list := StoryList{Stories: make([]Story, 0, n)}
	for i := 1; i <= n; i++ {
		list.Stories = append(list.Stories, Story{
			Title: fmt.Sprintf("임시 제목 %d", i),
			Plot:  fmt.Sprintf("임시 줄거리 %d", i),
		})
	}
	return list
}
