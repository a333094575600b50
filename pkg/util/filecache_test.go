package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCache_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "button.tsx", "export function Button() { return <button/> }")

	fc := NewFileCache(&FileCacheConfig{Logger: Discard()})
	defer fc.Close()

	data, err := fc.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export function Button() { return <button/> }", string(data))

	_, err = fc.ReadFile(path)
	require.NoError(t, err)

	stats := fc.Stats()
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, 1, stats.FilesCached)
}

func TestFileCache_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.ts", "")

	fc := NewFileCache(nil)
	defer fc.Close()

	data, err := fc.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileCache_MissingFileWrapsNotExist(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	_, err := fc.ReadFile(filepath.Join(t.TempDir(), "nope.tsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileCache_MaxFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "a")
	b := writeFile(t, dir, "b.ts", "b")

	fc := NewFileCache(&FileCacheConfig{MaxFiles: 1})
	defer fc.Close()

	_, err := fc.ReadFile(a)
	require.NoError(t, err)
	_, err = fc.ReadFile(b)
	assert.ErrorContains(t, err, "limit reached")
}

func TestFileCache_Concurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shared.ts", "export const x = 1;")

	fc := NewFileCache(nil)
	defer fc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := fc.ReadFile(path)
			assert.NoError(t, err)
			assert.Equal(t, "export const x = 1;", string(data))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fc.Size())
	assert.Equal(t, int64(1), fc.Stats().FilesLoaded)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("abc")), HashBytes([]byte("abc")))
	assert.NotEqual(t, HashBytes([]byte("abc")), HashBytes([]byte("abd")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 3, GetOptimalPoolSizeWithOverride(3))
}
