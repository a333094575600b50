package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/build"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:                "watch",
		Short:              "Regenerate the registry whenever components change",
		Args:               cobra.NoArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, logger, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			b, err := newBuilder(root, cfg, flags, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := b.Run(ctx)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), root, report)

			dirs := []string{filepath.Join(root, cfg.ComponentsDir)}
			if cfg.BlocksDir != "" {
				if _, err := os.Stat(filepath.Join(root, cfg.BlocksDir)); err == nil {
					dirs = append(dirs, filepath.Join(root, cfg.BlocksDir))
				}
			}
			if cfg.DemoPath != "" {
				dirs = append(dirs, filepath.Dir(filepath.Join(root, cfg.DemoPath)))
			}

			w, err := build.NewWatcher(b, build.WatchOptions{
				Dirs:   dirs,
				Ignore: []string{b.OutDir(), filepath.Join(root, cfg.CacheDir)},
			}, logger)
			if err != nil {
				return err
			}
			defer w.Stop()

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
