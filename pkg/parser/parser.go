// Package parser owns the tree-sitter grammars used by the generator and
// hands out pooled parsers so component units can parse concurrently.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uireg/pkg/util"
)

// poolKey identifies a grammar: TypeScript and TSX are distinct grammars.
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager lazily creates one parser pool per grammar.
//
// The manager owns its pools and must be closed via Close. Callers own the
// returned trees and must call tree.Close.
//
//	pm := parser.NewParserManager(logger)
//	defer pm.Close()
//
//	tree, err := pm.ParseFile(src, "button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	mu       sync.RWMutex
	pools    map[poolKey]*parserPool
	poolSize int
	logger   *slog.Logger

	parses int
}

// NewParserManager creates a ParserManager sized by util.GetOptimalPoolSize.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithSize(logger, 0)
}

// NewParserManagerWithSize creates a ParserManager with at most size parsers
// per grammar. size <= 0 selects the CPU-based default.
func NewParserManagerWithSize(logger *slog.Logger, size int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[poolKey]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(size),
		logger:   logger,
	}
}

// Parse parses source with the grammar for lang. isTSX only matters for
// TypeScript. Trees with syntax errors are still returned; tree-sitter
// recovers and the partial tree is usually good enough for extraction.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pool, err := pm.pool(lang, isTSX)
	if err != nil {
		return nil, err
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire %s parser: %w", lang, err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	pm.mu.Lock()
	pm.parses++
	pm.mu.Unlock()

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree")
	}
	return tree, nil
}

// ParseFile detects the grammar from the file extension and parses source.
func (pm *ParserManager) ParseFile(source []byte, path string) (*ts.Tree, error) {
	lang := DetectLanguage(path)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return pm.Parse(source, lang, IsTSXFile(path))
}

// Close releases every pooled parser. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, pool := range pm.pools {
		pool.close()
	}
	pm.pools = make(map[poolKey]*parserPool)

	pm.logger.Debug("parser manager closed", "parses", pm.parses)
	return nil
}

// Stats returns parser usage counters.
func (pm *ParserManager) Stats() ParserStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	return ParserStats{ParsersCreated: created, ParsesCalled: pm.parses}
}

// ParserStats contains parser usage counters.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}

func (pm *ParserManager) pool(lang Language, isTSX bool) (*parserPool, error) {
	if lang != LanguageTypeScript {
		isTSX = false
	}
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mu.RLock()
	pool, ok := pm.pools[key]
	pm.mu.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	grammar, err := grammarFor(lang, isTSX)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(key, grammar, pm.poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool", "language", lang.String(), "isTSX", isTSX, "maxSize", pm.poolSize)
	return pool, nil
}

func grammarFor(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}
