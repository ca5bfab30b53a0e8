package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfgFile   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "scenario",
		Short: "Drama scenario generation pipeline driven by an LLM",
		Long: `Scenario drives a text generator through successive stages:

  - plots: candidate stories grounded on a reference corpus
  - characters: profiles for the people in a chosen story
  - details: relationships, backgrounds, shared events, daily life and secrets

Model output is decoded by a recovering JSON parser. When nothing usable can be
recovered the stage writes clearly labelled placeholder content instead.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(
		&opts.cfgFile, "config", "", "config file (default: ./scenario.yaml or ~/.scenario/scenario.yaml)",
	)
	root.PersistentFlags().StringVar(
		&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)",
	)
	root.PersistentFlags().StringVar(
		&opts.logFormat, "log-format", "", "log format: text or json (overrides config)",
	)

	root.AddCommand(
		newDecodeCmd(opts),
		newPlotsCmd(opts),
		newCharactersCmd(opts),
		newDetailsCmd(opts),
		newReferencesCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}
