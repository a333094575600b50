package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/registry"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "uireg %s\ncommit: %s\nbuilt: %s\nregistry format: %s\n",
				version, commit, date, registry.FormatVersion)
			return nil
		},
	}
}
