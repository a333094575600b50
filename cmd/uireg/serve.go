package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uireg/pkg/mcp"
	"github.com/gnana997/uireg/pkg/registry"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var registryPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated registry to coding agents over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, logger, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			path := registryPath
			if path == "" {
				path = filepath.Join(root, cfg.OutDir, registry.JSONFile)
			}

			reg, err := registry.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if errs := reg.Validate(); len(errs) > 0 {
				logger.Warn("registry has validation errors", "path", path, "errors", len(errs), "first", errs[0])
			}

			logger.Info("serving registry", "path", path, "components", len(reg.Components), "blocks", len(reg.Blocks))
			if err := mcpserver.NewServer(reg, logger).ServeStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", "", "Path to registry.json (defaults to <out_dir>/registry.json)")
	return cmd
}
