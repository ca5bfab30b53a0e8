package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/pipeline"
)

// parsePrevious loads "path[:option]" selections; the option defaults to 1.
func parsePrevious(args []string) ([]pipeline.Selection, error) {
	out := make([]pipeline.Selection, 0, len(args))
	for _, arg := range args {
		path, option := arg, 1
		if i := strings.LastIndex(arg, ":"); i > 0 {
			if n, err := strconv.Atoi(arg[i+1:]); err == nil {
				path, option = arg[:i], n
			}
		}
		set, err := pipeline.LoadDetails(path)
		if err != nil {
			return nil, err
		}
		sel, err := pipeline.Pick(set, option)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func newDetailsCmd(root *rootOptions) *cobra.Command {
	var (
		plotFile  string
		index     int
		charsFile string
		section   string
		previous  []string
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Generate three options for one character detail section",
		Long: `Details develops one section of the cast's background for a saved story and
character set. Sections: relationship, background, shared_event, daily_life,
secrets. Options chosen for earlier sections are passed with --previous
file[:option] so later sections stay consistent with them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := scenario.ParseSection(section)
			if err != nil {
				return err
			}
			story, err := pickStory(plotFile, index)
			if err != nil {
				return err
			}
			chars, err := pipeline.LoadCharacters(charsFile)
			if err != nil {
				return err
			}
			prev, err := parsePrevious(previous)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, root)
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())

			runner, err := a.runner(ctx, false)
			if err != nil {
				return err
			}
			set, out, err := runner.Details(ctx, sec, story, chars.Latest(), prev)
			if err != nil {
				return err
			}
			reportOutcome(cmd, out)

			path, err := a.save(ctx, "details-"+string(sec), set)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", sec.Label())
			for _, opt := range set.Options {
				fmt.Fprintf(w, "%d. %s: %s\n", opt.Number, opt.Title, opt.Description)
			}
			fmt.Fprintln(w, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&plotFile, "plot-file", "", "stories file written by the plots command")
	cmd.Flags().IntVar(&index, "index", 1, "1-based story to use")
	cmd.Flags().StringVar(&charsFile, "characters-file", "", "characters file written by the characters command")
	cmd.Flags().StringVar(&section, "section", string(scenario.SectionRelationship), "section to develop")
	cmd.Flags().StringArrayVar(&previous, "previous", nil, "earlier section result as file[:option] (repeatable)")
	_ = cmd.MarkFlagRequired("plot-file")
	_ = cmd.MarkFlagRequired("characters-file")
	return cmd
}
