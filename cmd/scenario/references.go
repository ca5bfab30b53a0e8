package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/internal/references"
)

func newReferencesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "references",
		Short: "Manage the reference episode corpus",
	}

	process := &cobra.Command{
		Use:   "process <raw.json> <out.json>",
		Short: "Clean and tag a raw episode dump",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root)
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())

			raw, err := references.LoadRaw(args[0])
			if err != nil {
				return err
			}
			episodes, err := references.Process(ctx, raw)
			if err != nil {
				return err
			}
			if err := references.Save(args[1], episodes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d episodes into %s\n", len(episodes), args[1])
			return nil
		},
	}

	cmd.AddCommand(process)
	return cmd
}
