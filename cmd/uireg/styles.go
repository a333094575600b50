package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/build"
)

func newStylesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "Run the configured CSS compilation command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, logger, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if err := build.RunStyles(cmd.Context(), root, cfg.StylesCommand, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Styles compiled")
			return nil
		},
	}
}
