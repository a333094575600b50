// FileCache gives a build run read access to source files through
// memory-mapped regions.
//
// Every component unit reads its source twice (once to hash, once to parse)
// and story files are hashed even when the cache entry is reused, so mapping
// each file once per run avoids duplicate reads. Mapping falls back to
// os.ReadFile when mmap is unavailable (special files, some network mounts).
//
// Slices returned by Get and ReadFile are only valid until Close. Callers
// that keep data past the run must copy it (tree-sitter's Utf8Text already
// does).
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides read access to files for the duration of one run.
//
// Thread-safe: lookups take a read lock, loads take the write lock.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(path string) (*MappedFile, error)

	// ReadFile returns the file contents. Errors wrap the underlying
	// os error so errors.Is(err, fs.ErrNotExist) works.
	ReadFile(path string) ([]byte, error)

	// Size returns the number of files currently held.
	Size() int

	// Stats returns cache counters.
	Stats() FileCacheStats

	// Close unmaps every file and releases descriptors.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles caps open mappings. 0 means unlimited.
	MaxFiles int

	// Logger for mmap fallbacks and close errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits suited to a component library.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{MaxFiles: 10000}
}

// MappedFile is one cached file.
type MappedFile struct {
	Path string

	// Data is the mapped region, or a heap copy when mmap failed.
	// Nil for empty files.
	Data mmap.MMap

	// File is nil for heap copies.
	File *os.File

	mapped bool
}

// FileCacheStats tracks cache counters.
type FileCacheStats struct {
	FilesLoaded  int64
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	MmapFailures int64
	BytesMapped  int64
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu    sync.RWMutex
	files map[string]*MappedFile

	statsMu sync.Mutex
	stats   FileCacheStats
}

// NewFileCache creates a FileCache. A nil config uses DefaultFileCacheConfig.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*MappedFile),
	}
}

func (fc *fileCache) Get(path string) (*MappedFile, error) {
	fc.mu.RLock()
	mf, ok := fc.files[path]
	fc.mu.RUnlock()
	if ok {
		fc.count(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.files[path]; ok {
		fc.count(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.count(func(s *FileCacheStats) { s.CacheMisses++ })

	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return nil, fmt.Errorf("file cache limit reached: %d files (limit %d)", len(fc.files), fc.config.MaxFiles)
	}

	mf, err := fc.load(path)
	if err != nil {
		return nil, err
	}
	fc.files[path] = mf
	fc.count(func(s *FileCacheStats) {
		s.FilesLoaded++
		s.BytesMapped += int64(len(mf.Data))
	})
	return mf, nil
}

func (fc *fileCache) ReadFile(path string) ([]byte, error) {
	mf, err := fc.Get(path)
	if err != nil {
		return nil, err
	}
	if mf.Data == nil {
		return []byte{}, nil
	}
	return mf.Data, nil
}

// load must be called with mu held.
func (fc *fileCache) load(path string) (*MappedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("read %s: is a directory", path)
	}

	// mmap cannot map zero bytes.
	if stat.Size() == 0 {
		file.Close()
		return &MappedFile{Path: path}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Debug("mmap failed, reading into memory", "file", path, "error", err)
		fc.count(func(s *FileCacheStats) { s.MmapFailures++ })
		file.Close()

		buf, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		return &MappedFile{Path: path, Data: mmap.MMap(buf)}, nil
	}

	return &MappedFile{Path: path, Data: data, File: file, mapped: true}, nil
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCache) Stats() FileCacheStats {
	size := fc.Size()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = size
	return stats
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.files {
		if mf.mapped {
			if err := mf.Data.Unmap(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %s: %w", path, err))
			}
		}
		if mf.File != nil {
			if err := mf.File.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", path, err))
			}
		}
	}
	fc.files = make(map[string]*MappedFile)

	fc.logger.Debug("file cache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"mmap_failures", fc.stats.MmapFailures)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCache) count(update func(*FileCacheStats)) {
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
