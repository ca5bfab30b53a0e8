package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/pipeline"
)

// pickStory loads the story list at path and returns the 1-based index entry.
func pickStory(path string, index int) (scenario.Story, error) {
	list, err := pipeline.LoadStories(path)
	if err != nil {
		return scenario.Story{}, err
	}
	if index < 1 || index > len(list.Stories) {
		return scenario.Story{}, fmt.Errorf("story index %d out of range 1..%d", index, len(list.Stories))
	}
	return list.Stories[index-1], nil
}

func newCharactersCmd(root *rootOptions) *cobra.Command {
	var (
		plotFile string
		index    int
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Generate character profiles for a saved story",
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := pickStory(plotFile, index)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, root)
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())

			session := pipeline.NewSession(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
			session.AddKeywords(keywords...)

			runner, err := a.runner(ctx, false)
			if err != nil {
				return err
			}
			set, out, err := runner.Characters(ctx, session, story)
			if err != nil {
				return err
			}
			reportOutcome(cmd, out)

			path, err := a.save(ctx, "characters", set)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, c := range set.Latest() {
				fmt.Fprintf(w, "- %s (%s, %d, %s, %s)\n", c.Name, c.Gender, c.Age, c.Job, c.MBTI)
			}
			fmt.Fprintln(w, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&plotFile, "plot-file", "", "stories file written by the plots command")
	cmd.Flags().IntVar(&index, "index", 1, "1-based story to use")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword to emphasise (repeatable)")
	_ = cmd.MarkFlagRequired("plot-file")
	return cmd
}
