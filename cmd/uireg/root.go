package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/build"
	"github.com/gnana997/uireg/pkg/discovery"
	"github.com/gnana997/uireg/pkg/util"
)

type rootFlags struct {
	inheritedProps bool
	noCache        bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "uireg",
		Short: "Generate a machine-readable registry of a React component library",
		Long: `uireg statically analyses the components and blocks of a design-system
repository and writes registry.json, registry.md and schemas.ts describing
every component's props, variants, sub-components, examples and colours.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.inheritedProps, "inherited-props", false, "Include inherited platform attributes (button, input, ...) in props")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "Ignore the cache and regenerate every component")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newStylesCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// projectRoot is the working directory; uireg runs from the repository root.
func projectRoot() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return root, nil
}

func newLogger(w io.Writer, cfg *ProjectConfig, flags *rootFlags) *slog.Logger {
	lc := util.DefaultLoggerConfig()
	lc.Output = w
	if cfg != nil && cfg.LogFormat != "" {
		lc.Format = util.LogFormat(cfg.LogFormat)
	}
	if flags.verbose {
		lc.Level = util.LevelDebug
	}
	return util.NewLogger(lc)
}

// newBuilder wires the project config and flags into a build.Builder.
func newBuilder(root string, cfg *ProjectConfig, flags *rootFlags, logger *slog.Logger) (*build.Builder, error) {
	return build.New(build.Options{
		Root:     root,
		OutDir:   cfg.OutDir,
		CacheDir: cfg.CacheDir,
		Discovery: discovery.Options{
			Root:          root,
			ComponentsDir: cfg.ComponentsDir,
			BlocksDir:     cfg.BlocksDir,
			Include:       cfg.Include,
			Exclude:       cfg.Exclude,
			Overrides:     cfg.Overrides,
			Logger:        logger,
		},
		DemoPath:          cfg.DemoPath,
		PrimitivesPath:    cfg.PrimitivesFile,
		InheritedProps:    flags.inheritedProps,
		NoCache:           flags.noCache,
		ConfigFingerprint: cfg.Fingerprint(root),
		Logger:            logger,
	})
}

// setup loads the config and logger shared by every subcommand.
func setup(cmd *cobra.Command, flags *rootFlags) (string, *ProjectConfig, *slog.Logger, error) {
	root, err := projectRoot()
	if err != nil {
		return "", nil, nil, err
	}
	cfg, err := loadProjectConfig(root)
	if err != nil {
		return "", nil, nil, err
	}
	return root, cfg, newLogger(cmd.ErrOrStderr(), cfg, flags), nil
}
