package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/build"
)

func runGenerate(cmd *cobra.Command, flags *rootFlags) error {
	root, cfg, logger, err := setup(cmd, flags)
	if err != nil {
		return err
	}

	b, err := newBuilder(root, cfg, flags, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), root, report)
	return nil
}

func printReport(w io.Writer, root string, report *build.Report) {
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", warn.Component, warn.Message)
	}
	fmt.Fprintf(w, "Generated %d components and %d blocks (%d cached, %d regenerated, %d fallbacks) in %dms\n",
		report.Components, report.Blocks, report.CacheHits, report.CacheMisses, report.Fallbacks,
		report.Duration.Milliseconds())
	for _, f := range report.Files {
		if rel, err := filepath.Rel(root, f); err == nil {
			f = rel
		}
		fmt.Fprintf(w, "  %s\n", filepath.ToSlash(f))
	}
}
