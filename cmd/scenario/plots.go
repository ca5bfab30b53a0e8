package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/internal/pipeline"
)

func newPlotsCmd(root *rootOptions) *cobra.Command {
	var (
		count    int
		tone     string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Generate candidate stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root)
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())

			session := pipeline.NewSession(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
			session.Count = a.cfg.Pipeline.Count
			if count > 0 {
				session.Count = count
			}
			if tone != "" {
				t, err := pipeline.ParseTone(tone)
				if err != nil {
					return err
				}
				session.SetTone(t)
			}
			session.AddKeywords(keywords...)

			runner, err := a.runner(ctx, true)
			if err != nil {
				return err
			}
			stories, out, err := runner.Plots(ctx, session)
			if err != nil {
				return err
			}
			reportOutcome(cmd, out)

			path, err := a.save(ctx, "stories", stories)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tone: %s\n", session.Tone)
			for i, s := range stories.Stories {
				fmt.Fprintf(w, "%d. %s\n", i+1, s.Title)
			}
			fmt.Fprintln(w, path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of stories (default from config)")
	cmd.Flags().StringVar(&tone, "tone", "", "tone: 기본, 자극적, 현실적, 충격적, 선정적 (default random)")
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword the stories must include (repeatable)")
	return cmd
}
