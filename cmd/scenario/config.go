package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/internal/config"
	"github.com/leofalp/scenario/internal/utils"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.cfgFile)
			if err != nil {
				return err
			}
			if cfg.Generator.APIKey != "" {
				cfg.Generator.APIKey = "***"
			}
			b, err := utils.MarshalJSON(cfg, true)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scenario.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(show, initCmd)
	return cmd
}
