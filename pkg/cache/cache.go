// Package cache decides whether a component's previously generated schema
// can be reused, and persists those schemas between runs.
//
// The store is loaded once when a build starts, read without locking while
// units are processed, replaced once after the parallel phase and saved once
// at the end. Concurrent builds against the same file are not coordinated;
// the last writer wins.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/util"
)

// AbsentHash is the hash of a file that does not exist. It never collides
// with a content hash, so "no story file" is a comparable state.
const AbsentHash = "absent"

// FileName is the cache file inside the cache directory.
const FileName = "registry-cache.json"

// Entry is the persisted record of one component.
type Entry struct {
	Name         string                    `json:"name"`
	SourceHash   string                    `json:"sourceHash"`
	StoryHash    string                    `json:"storyHash"`
	CacheVersion string                    `json:"cacheVersion"`
	GeneratedAt  time.Time                 `json:"generatedAt"`
	Schema       *registry.ComponentSchema `json:"schema"`
	Dependencies []string                  `json:"dependencies,omitempty"`
}

// Reader reads file contents. util.FileCache satisfies it.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// ComputeHash returns the SHA-256 hex digest of the file at path, or
// AbsentHash when path is empty or the file does not exist.
func ComputeHash(r Reader, path string) (string, error) {
	if path == "" {
		return AbsentHash, nil
	}
	data, err := r.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return AbsentHash, nil
	}
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return util.HashBytes(data), nil
}

// IsValid reports whether entry may be reused for the given hashes and
// cache version.
func IsValid(entry *Entry, sourceHash, storyHash, version string) bool {
	return entry != nil &&
		entry.Schema != nil &&
		entry.CacheVersion == version &&
		entry.SourceHash == sourceHash &&
		entry.StoryHash == storyHash
}

type snapshot struct {
	Version string            `json:"version"`
	Entries map[string]*Entry `json:"entries"`
}

// Store is the persisted entry map.
type Store struct {
	path    string
	entries map[string]*Entry
	logger  *slog.Logger
}

// Open loads the store at path. A missing or unreadable file yields an
// empty store and a warning, never an error.
func Open(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, entries: make(map[string]*Entry), logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no cache file, starting empty", "path", path)
		} else {
			logger.Warn("cannot read cache file, starting empty", "path", path, "error", err)
		}
		return s
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("corrupt cache file, starting empty", "path", path, "error", err)
		return s
	}
	for name, e := range snap.Entries {
		if e != nil {
			s.entries[name] = e
		}
	}
	logger.Debug("cache loaded", "path", path, "entries", len(s.entries))
	return s
}

// Path returns the cache file path.
func (s *Store) Path() string { return s.path }

// Lookup returns the entry for name. Not safe to call concurrently with
// Replace.
func (s *Store) Lookup(name string) (*Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Replace swaps in the entries of the current build.
func (s *Store) Replace(entries map[string]*Entry) {
	next := make(map[string]*Entry, len(entries))
	for name, e := range entries {
		if e != nil {
			next[name] = e
		}
	}
	s.entries = next
}

// Save writes the store as one snapshot, replacing the file atomically.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(snapshot{Version: registry.FormatVersion, Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := registry.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	s.logger.Debug("cache saved", "path", s.path, "entries", len(s.entries))
	return nil
}
