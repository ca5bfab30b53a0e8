package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/internal/utils"
)

var errNoJSON = errors.New("no JSON object could be recovered")

func newDecodeCmd(root *rootOptions) *cobra.Command {
	var (
		repair    bool
		strict    bool
		showStage bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Recover a JSON object from model output",
		Long: `Decode reads model output from a file, or stdin when no file is given, and
prints the recovered JSON object. Nothing is printed when no object can be
recovered; with --strict that case exits with an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root)
			if err != nil {
				return err
			}

			var input []byte
			if len(args) == 1 && args[0] != "-" {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			ctx := a.context(cmd.Context())
			res := a.decoder(repair).Decode(ctx, string(input))

			if showStage {
				fmt.Fprintf(cmd.ErrOrStderr(), "stage: %s\n", res.Stage)
				if res.Diagnostic != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Diagnostic.String())
				}
			}

			if !res.OK() {
				if strict {
					return errNoJSON
				}
				return nil
			}

			b, err := utils.MarshalJSON(res.Value, true)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "run generic JSON repair before pattern recovery")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when nothing can be recovered")
	cmd.Flags().BoolVar(&showStage, "stage", false, "print the decode stage and any parse diagnostic to stderr")
	return cmd
}
