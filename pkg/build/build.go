// Package build runs the registry generation pipeline: discovery, a cache
// check per unit, extraction in fixed-size parallel batches, assembly and
// the artifact writes.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/uireg/pkg/cache"
	"github.com/gnana997/uireg/pkg/compound"
	"github.com/gnana997/uireg/pkg/discovery"
	"github.com/gnana997/uireg/pkg/examples"
	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/props"
	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/util"
)

// DefaultBatchSize is the number of units processed concurrently. Batch
// N+1 starts only after batch N completes, bounding open file handles.
const DefaultBatchSize = 8

// Options configures a Builder.
type Options struct {
	// Root is the project root. Relative directories resolve against it.
	Root string

	// OutDir receives registry.json, registry.md, schemas.ts and
	// registry.schema.json.
	OutDir string

	// CacheDir holds the cache snapshot.
	CacheDir string

	Discovery discovery.Options

	// DemoPath is an optional demo-metadata JSON document.
	DemoPath string

	// PrimitivesPath is an optional YAML file merged over the built-in
	// pass-through table.
	PrimitivesPath string

	InheritedProps bool
	NoCache        bool

	// BatchSize overrides DefaultBatchSize.
	BatchSize int

	// ConfigFingerprint is folded into the cache version so config
	// changes that alter output invalidate stored entries.
	ConfigFingerprint string

	Logger *slog.Logger
}

// Builder owns the parser pool and the cross-run module cache. Reuse one
// Builder across runs (watch mode) to keep parsed modules warm.
type Builder struct {
	opts       Options
	parser     *parser.ParserManager
	modules    *source.ModuleCache
	primitives *compound.Primitives
	log        *slog.Logger
}

// Report summarises one run.
type Report struct {
	Components  int
	Blocks      int
	CacheHits   int
	CacheMisses int
	Fallbacks   int
	Warnings    []Warning
	Files       []string
	Duration    time.Duration
}

// Warning is a degraded-but-valid outcome for one unit.
type Warning struct {
	Component string
	Reason    string
	Message   string
}

// New creates a Builder.
func New(opts Options) (*Builder, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	opts.Root = root
	opts.OutDir = resolve(root, opts.OutDir, "registry")
	opts.CacheDir = resolve(root, opts.CacheDir, filepath.Join(".cache", "uireg"))
	if opts.Discovery.Root == "" {
		opts.Discovery.Root = root
	}
	if opts.Discovery.Logger == nil {
		opts.Discovery.Logger = opts.Logger
	}

	primitives := compound.DefaultPrimitives()
	if opts.PrimitivesPath != "" {
		primitives, err = compound.LoadPrimitives(resolve(root, opts.PrimitivesPath, ""), opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("load primitives: %w", err)
		}
	}

	modules, err := source.NewModuleCache(source.DefaultModuleCacheSize, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}

	return &Builder{
		opts:       opts,
		parser:     parser.NewParserManager(opts.Logger),
		modules:    modules,
		primitives: primitives,
		log:        opts.Logger,
	}, nil
}

// Close releases pooled parsers.
func (b *Builder) Close() error {
	return b.parser.Close()
}

// OutDir returns the resolved output directory.
func (b *Builder) OutDir() string { return b.opts.OutDir }

// CacheVersion identifies the schema format plus every option that changes
// extraction output.
func (b *Builder) CacheVersion() string {
	v := registry.FormatVersion
	if b.opts.InheritedProps {
		v += "+inherited"
	}
	if fp := b.opts.ConfigFingerprint; fp != "" {
		if len(fp) > 8 {
			fp = fp[:8]
		}
		v += "+cfg." + fp
	}
	return v
}

// Run executes one full build.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	totalStart := time.Now()
	report := &Report{}

	// Phase 1: discovery
	discoveryStart := time.Now()
	units, err := discovery.Discover(b.opts.Discovery)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	b.log.Info("discovery complete", "units", len(units), "ms", time.Since(discoveryStart).Milliseconds())

	store := cache.Open(filepath.Join(b.opts.CacheDir, cache.FileName), b.log)

	files := util.NewFileCache(&util.FileCacheConfig{Logger: b.log})
	defer files.Close()

	run := b.newRun(store, files)

	// Phase 2: extraction
	extractionStart := time.Now()
	results, err := b.process(ctx, units, run)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*cache.Entry, len(results))
	regUnits := make([]registry.Unit, 0, len(results))
	for i, res := range results {
		if res.hit {
			report.CacheHits++
		} else {
			report.CacheMisses++
		}
		if res.fallback {
			report.Fallbacks++
		}
		report.Warnings = append(report.Warnings, res.warnings...)
		entries[res.entry.Name] = res.entry
		regUnits = append(regUnits, registry.Unit{
			Schema:       res.entry.Schema,
			Files:        units[i].Files,
			Dependencies: res.entry.Dependencies,
		})
	}
	b.log.Info("extraction complete",
		"units", len(results), "cache_hits", report.CacheHits,
		"fallbacks", report.Fallbacks, "ms", time.Since(extractionStart).Milliseconds())

	store.Replace(entries)

	// Phase 3: assembly
	assemblyStart := time.Now()
	var demo map[string][]string
	if b.opts.DemoPath != "" {
		demo = examples.LoadDemo(resolve(b.opts.Root, b.opts.DemoPath, ""), b.log)
	}
	reg := registry.Assemble(regUnits, demo)
	if errs := reg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed: %w", errors.Join(errs...))
	}
	report.Components = len(reg.Components)
	report.Blocks = len(reg.Blocks)

	written, err := registry.Write(b.opts.OutDir, reg)
	if err != nil {
		return nil, fmt.Errorf("write registry: %w", err)
	}
	report.Files = written
	b.log.Info("assembly complete",
		"components", report.Components, "blocks", report.Blocks,
		"ms", time.Since(assemblyStart).Milliseconds())

	if err := store.Save(); err != nil {
		b.log.Warn("failed to save cache", "path", store.Path(), "error", err)
	}

	report.Duration = time.Since(totalStart)
	return report, nil
}

func (b *Builder) newRun(store *cache.Store, files util.FileCache) *unitRun {
	loader := source.NewLoader(b.opts.Root, b.parser, b.modules, files.ReadFile)
	return &unitRun{
		builder: b,
		store:   store,
		files:   files,
		loader:  loader,
		reader:  props.NewReader(loader, props.Options{InheritedProps: b.opts.InheritedProps, Logger: b.log}),
		version: b.CacheVersion(),
	}
}

// process runs units in sequential batches; units within a batch run
// concurrently. A unit error does not cancel its siblings, but fails the
// batch once all of them have finished.
func (b *Builder) process(ctx context.Context, units []discovery.ComponentConfig, run *unitRun) ([]*unitResult, error) {
	results := make([]*unitResult, len(units))
	size := b.opts.BatchSize

	for start := 0; start < len(units); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+size, len(units))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						b.log.Debug("unit panic", "component", units[i].Name, "stack", string(debug.Stack()))
						err = fmt.Errorf("%s: panic: %v", units[i].Name, r)
					}
				}()
				res, err := run.process(units[i])
				if err != nil {
					return fmt.Errorf("%s: %w", units[i].Name, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("batch %d: %w", start/size+1, err)
		}
		b.log.Debug("batch complete", "batch", start/size+1, "units", end-start)
	}

	return results, nil
}

// resolve returns path made absolute against root, or fallback when path
// is empty.
func resolve(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
