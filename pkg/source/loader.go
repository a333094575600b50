package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uireg/pkg/parser"
	"github.com/gnana997/uireg/pkg/tsutil"
	"github.com/gnana997/uireg/pkg/util"
)

// DefaultModuleCacheSize bounds the number of parsed imported modules kept
// between units.
const DefaultModuleCacheSize = 512

// ModuleCache holds parsed modules keyed by path and content hash, so an
// edited file is never served stale and unchanged shared type modules are
// parsed once per process.
type ModuleCache struct {
	files *lru.Cache[string, *File]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewModuleCache creates a cache holding up to size modules.
func NewModuleCache(size int, logger *slog.Logger) (*ModuleCache, error) {
	if size <= 0 {
		size = DefaultModuleCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	files, err := lru.NewWithEvict(size, func(key string, _ *File) {
		logger.Debug("evicting parsed module", "key", key)
	})
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}
	return &ModuleCache{files: files}, nil
}

func (c *ModuleCache) get(path, hash string) (*File, bool) {
	f, ok := c.files.Get(path + "@" + hash)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return f, ok
}

func (c *ModuleCache) add(path, hash string, f *File) {
	c.files.Add(path+"@"+hash, f)
}

// Len returns the number of cached modules.
func (c *ModuleCache) Len() int { return c.files.Len() }

// Stats returns hit and miss counts.
func (c *ModuleCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Loader resolves import specifiers to project files and loads their models.
// Safe for concurrent use.
type Loader struct {
	root   string
	parser *parser.ParserManager
	cache  *ModuleCache
	read   func(string) ([]byte, error)
}

// NewLoader creates a loader. root anchors "@/" and "~/" path aliases. read
// defaults to os.ReadFile.
func NewLoader(root string, pm *parser.ParserManager, cache *ModuleCache, read func(string) ([]byte, error)) *Loader {
	if read == nil {
		read = os.ReadFile
	}
	return &Loader{root: root, parser: pm, cache: cache, read: read}
}

var resolveSuffixes = []string{".ts", ".tsx", ".d.ts", "/index.ts", "/index.tsx"}

// Resolve maps an import specifier in file from to a project file. Package
// imports do not resolve.
func (l *Loader) Resolve(from, spec string) (string, bool) {
	var base string
	switch {
	case tsutil.IsRelative(spec):
		base = filepath.Join(filepath.Dir(from), spec)
	case strings.HasPrefix(spec, "@/"), strings.HasPrefix(spec, "~/"):
		if l.root == "" {
			return "", false
		}
		base = filepath.Join(l.root, spec[2:])
	default:
		return "", false
	}

	if parser.IsSourceFile(base) && isFile(base) {
		return base, true
	}
	for _, suffix := range resolveSuffixes {
		if candidate := base + filepath.FromSlash(suffix); isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Load returns the model of the file at path, parsing it on a cache miss.
func (l *Loader) Load(path string) (*File, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	hash := util.HashBytes(data)
	if l.cache != nil {
		if f, ok := l.cache.get(path, hash); ok {
			return f, nil
		}
	}

	tree, err := l.parser.ParseFile(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	f := Build(tree.RootNode(), data, path)
	if l.cache != nil {
		l.cache.add(path, hash, f)
	}
	return f, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Put records a model built by the caller from data so later imports of
// path reuse it.
func (l *Loader) Put(path string, data []byte, f *File) {
	if l.cache != nil && f != nil {
		l.cache.add(path, util.HashBytes(data), f)
	}
}
