// Package discovery finds the components and blocks of a project on disk.
//
// Components are source files under the components directory. Blocks are
// the immediate subdirectories of the blocks directory, each with one main
// file and any number of member files.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/registry"
)

// DefaultExclude skips files that are never components.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/*.stories.*",
	"**/*.test.*",
	"**/*.spec.*",
	"**/*.d.ts",
	"**/__tests__/**",
}

// DefaultInclude matches component source files.
var DefaultInclude = []string{"**/*.tsx", "**/*.jsx"}

var storySuffixes = []string{".stories.tsx", ".stories.ts", ".stories.jsx", ".stories.js"}

// Override adjusts one discovered unit. Zero fields keep the discovered
// value.
type Override struct {
	Category string         `yaml:"category"`
	TypeName string         `yaml:"type_name"`
	Examples []string       `yaml:"examples"`
	Styling  map[string]any `yaml:"styling"`
	Skip     bool           `yaml:"skip"`
}

// Options configures Discover.
type Options struct {
	// Root is the project root. Relative directories resolve against it.
	Root          string
	ComponentsDir string
	BlocksDir     string
	Include       []string
	Exclude       []string
	Overrides     map[string]Override
	Logger        *slog.Logger
}

// ComponentConfig is one unit of work.
type ComponentConfig struct {
	Name       string
	Kind       registry.Kind
	Category   string
	Dir        string
	SourcePath string
	// StoryPath is empty when the unit has no story file.
	StoryPath string
	TypeName  string
	Examples  []string
	Styling   map[string]any
	// Files lists a block's member files relative to Root, slash separated.
	Files []string
}

// Discover returns every component and block, sorted by source path.
func Discover(opts Options) ([]ComponentConfig, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	exclude := append(slices.Clone(DefaultExclude), opts.Exclude...)
	for _, p := range append(slices.Clone(include), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern: %s", p)
		}
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var units []ComponentConfig
	if opts.ComponentsDir != "" {
		found, err := components(resolve(root, opts.ComponentsDir), include, exclude)
		if err != nil {
			return nil, err
		}
		units = append(units, found...)
	}
	if opts.BlocksDir != "" {
		found, err := blocks(root, resolve(root, opts.BlocksDir), include, exclude)
		if err != nil {
			return nil, err
		}
		units = append(units, found...)
	}

	seen := make(map[string]string, len(units))
	out := units[:0]
	for _, u := range units {
		if prev, dup := seen[u.Name]; dup {
			logger.Warn("duplicate component name, skipping", "component", u.Name, "file", u.SourcePath, "kept", prev)
			continue
		}
		seen[u.Name] = u.SourcePath

		if o, ok := opts.Overrides[u.Name]; ok {
			if o.Skip {
				logger.Debug("skipping component by config", "component", u.Name)
				continue
			}
			u = apply(u, o)
		}
		out = append(out, u)
	}
	return out, nil
}

func components(dir string, include, exclude []string) ([]ComponentConfig, error) {
	files, err := walk(dir, include, exclude)
	if err != nil {
		return nil, err
	}
	units := make([]ComponentConfig, 0, len(files))
	for _, path := range files {
		name := unitName(path)
		if name == "" {
			continue
		}
		units = append(units, ComponentConfig{
			Name:       name,
			Kind:       registry.KindComponent,
			Category:   category(dir, path, "components"),
			Dir:        filepath.Dir(path),
			SourcePath: path,
			StoryPath:  storyFor(path),
			TypeName:   name + "Props",
		})
	}
	return units, nil
}

func blocks(root, dir string, include, exclude []string) ([]ComponentConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read blocks dir: %w", err)
	}

	var units []ComponentConfig
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		blockDir := filepath.Join(dir, e.Name())
		files, err := walk(blockDir, []string{"**/*"}, exclude)
		if err != nil {
			return nil, err
		}
		main := mainFile(blockDir, e.Name(), files, include)
		if main == "" {
			continue
		}
		name := pascal(e.Name())
		rel := make([]string, 0, len(files))
		for _, f := range files {
			if r, err := filepath.Rel(root, f); err == nil {
				rel = append(rel, filepath.ToSlash(r))
			}
		}
		units = append(units, ComponentConfig{
			Name:       name,
			Kind:       registry.KindBlock,
			Category:   "blocks",
			Dir:        blockDir,
			SourcePath: main,
			StoryPath:  storyFor(main),
			TypeName:   name + "Props",
			Files:      rel,
		})
	}
	return units, nil
}

// mainFile picks <dir>.tsx, then index.tsx, then page.tsx, then the first
// included source file.
func mainFile(dir, base string, files, include []string) string {
	for _, candidate := range []string{base + ".tsx", "index.tsx", "page.tsx", base + ".jsx", "index.jsx"} {
		path := filepath.Join(dir, candidate)
		if slices.Contains(files, path) {
			return path
		}
	}
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		if matchAny(include, filepath.ToSlash(rel)) {
			return f
		}
	}
	return ""
}

// walk returns the sorted files under dir matching include and not exclude.
func walk(dir string, include, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if matchAny(exclude, rel) || (d.IsDir() && matchAny(exclude, rel+"/")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(include, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func storyFor(source string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	for _, suffix := range storySuffixes {
		if info, err := os.Stat(base + suffix); err == nil && !info.IsDir() {
			return base + suffix
		}
	}
	return ""
}

// category is the first directory segment below root, or fallback for
// files directly in root.
func category(root, path, fallback string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return fallback
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first
}

// unitName derives the component name from a file name. index files take
// the name of their directory.
func unitName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "index" {
		base = filepath.Base(filepath.Dir(path))
	}
	if !parser.IsSourceFile(path) {
		return ""
	}
	return pascal(base)
}

// pascal converts kebab, snake and dotted names to PascalCase.
func pascal(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func apply(u ComponentConfig, o Override) ComponentConfig {
	if o.Category != "" {
		u.Category = o.Category
	}
	if o.TypeName != "" {
		u.TypeName = o.TypeName
	}
	if len(o.Examples) > 0 {
		u.Examples = slices.Clone(o.Examples)
	}
	if len(o.Styling) > 0 {
		u.Styling = o.Styling
	}
	return u
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
