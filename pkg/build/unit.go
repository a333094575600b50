package build

import (
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode"

	"github.com/gnana997/uireg/pkg/cache"
	"github.com/gnana997/uireg/pkg/compound"
	"github.com/gnana997/uireg/pkg/discovery"
	"github.com/gnana997/uireg/pkg/examples"
	"github.com/gnana997/uireg/pkg/props"
	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/util"
	"github.com/gnana997/uireg/pkg/variants"
)

// errMissingSource marks a discovered unit whose source vanished before
// processing.
var errMissingSource = errors.New("source file missing")

// unitRun holds the per-run collaborators shared by every unit. The store
// is only read during the parallel phase.
type unitRun struct {
	builder *Builder
	store   *cache.Store
	files   util.FileCache
	loader  *source.Loader
	reader  *props.Reader
	version string
}

type unitResult struct {
	entry    *cache.Entry
	hit      bool
	fallback bool
	warnings []Warning
}

func (r *unitRun) process(cfg discovery.ComponentConfig) (*unitResult, error) {
	log := r.builder.log

	sourceHash, err := cache.ComputeHash(r.files, cfg.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("hash source: %w", err)
	}
	if sourceHash == cache.AbsentHash {
		return nil, fmt.Errorf("%w: %s", errMissingSource, cfg.SourcePath)
	}
	storyHash, err := cache.ComputeHash(r.files, cfg.StoryPath)
	if err != nil {
		return nil, fmt.Errorf("hash story: %w", err)
	}

	if !r.builder.opts.NoCache {
		if entry, ok := r.store.Lookup(cfg.Name); ok && cache.IsValid(entry, sourceHash, storyHash, r.version) {
			log.Debug("cache hit", "component", cfg.Name)
			return &unitResult{entry: entry, hit: true}, nil
		}
	}

	res, err := r.extract(cfg)
	if err != nil {
		return nil, err
	}
	res.entry.SourceHash = sourceHash
	res.entry.StoryHash = storyHash
	res.entry.CacheVersion = r.version
	res.entry.GeneratedAt = time.Now().UTC()
	return res, nil
}

// extract parses the source once and derives the full schema from it.
func (r *unitRun) extract(cfg discovery.ComponentConfig) (*unitResult, error) {
	log := r.builder.log
	res := &unitResult{}
	warn := func(reason, msg string) {
		res.warnings = append(res.warnings, Warning{Component: cfg.Name, Reason: reason, Message: msg})
	}

	data, err := r.files.ReadFile(cfg.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	tree, err := r.builder.parser.ParseFile(data, cfg.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	file := source.Build(root, data, cfg.SourcePath)
	r.loader.Put(cfg.SourcePath, data, file)

	fn := file.Functions[cfg.Name]
	read := r.reader.Read(file, cfg.TypeName)
	if !read.OK() && read.Fallback.Reason == props.ReasonTypeNotFound && fn != nil && fn.Params != nil {
		if alt := r.reader.ReadExpr(file, fn.Params); alt.OK() {
			read = alt
		}
	}

	table := variants.Select(file.Tables, cfg.Name, read.VariantRefs)
	var schemaProps *registry.Props
	if read.OK() {
		schemaProps = variants.Enrich(read.Props, table, nil)
	} else {
		res.fallback = true
		schemaProps = variants.Fallback(table)
		log.Warn("props unresolved, using variant fallback",
			"component", cfg.Name, "fallback", "variants", "reason", read.Fallback.String())
		warn(string(read.Fallback.Reason), read.Fallback.String())
	}
	if fn != nil {
		variants.ApplyDefaults(schemaProps, fn.Defaults)
	}

	members := compound.Detect(root, data, cfg.Name)
	subs := compound.Document(members, file, r.reader, cfg.Name, r.builder.primitives)

	schema := &registry.ComponentSchema{
		Name:          cfg.Name,
		Category:      cfg.Category,
		Kind:          cfg.Kind,
		Props:         schemaProps,
		Examples:      r.examples(cfg, warn),
		Colors:        variants.ColorTokens(append(table.Classes(), file.Strings...)),
		SubComponents: subs,
		Styling:       cfg.Styling,
		BaseClasses:   variants.BaseClasses(table),
	}
	if schema.Styling == nil {
		schema.Styling = file.Styling
	}
	if fn != nil {
		schema.Description = fn.Doc.Description
	}
	if schema.Description == "" {
		if decl, ok := file.Decls[cfg.TypeName]; ok {
			schema.Description = decl.Doc.Description
		}
	}

	res.entry = &cache.Entry{Name: cfg.Name, Schema: schema}
	if cfg.Kind == registry.KindBlock {
		res.entry.Dependencies = dependencies(file)
	}
	return res, nil
}

// examples prefers configured snippets, then the story file. A story that
// cannot be read or parsed is a warning.
func (r *unitRun) examples(cfg discovery.ComponentConfig, warn func(reason, msg string)) []string {
	if len(cfg.Examples) > 0 {
		return slices.Clone(cfg.Examples)
	}
	if cfg.StoryPath == "" {
		return []string{}
	}

	data, err := r.files.ReadFile(cfg.StoryPath)
	if err != nil {
		r.builder.log.Warn("story unreadable", "component", cfg.Name, "file", cfg.StoryPath, "error", err)
		warn("story-unreadable", err.Error())
		return []string{}
	}
	tree, err := r.builder.parser.ParseFile(data, cfg.StoryPath)
	if err != nil {
		r.builder.log.Warn("story unparseable", "component", cfg.Name, "file", cfg.StoryPath, "error", err)
		warn("story-unparseable", err.Error())
		return []string{}
	}
	defer tree.Close()

	snippets := examples.FromStory(tree.RootNode(), data, cfg.Name)
	if snippets == nil {
		return []string{}
	}
	return snippets
}

// dependencies lists component-like names a block references: capitalised
// import bindings and rendered JSX roots. Assembly narrows them to known
// registry names.
func dependencies(file *source.File) []string {
	var deps []string
	for local, imp := range file.Imports {
		if imp.TypeOnly || local == "" || !unicode.IsUpper([]rune(local)[0]) {
			continue
		}
		deps = append(deps, local)
	}
	deps = append(deps, file.JSXNames...)
	slices.Sort(deps)
	return slices.Compact(deps)
}
