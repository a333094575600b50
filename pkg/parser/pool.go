package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool is a channel of idle parsers for one grammar. Parsers are
// created on demand up to maxSize; beyond that acquire blocks until one is
// released.
type parserPool struct {
	key     poolKey
	grammar unsafe.Pointer
	idle    chan *ts.Parser
	maxSize int
	logger  *slog.Logger

	mu      sync.Mutex
	created int
}

func newParserPool(key poolKey, grammar unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		key:     key,
		grammar: grammar,
		idle:    make(chan *ts.Parser, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return <-p.idle, nil
	}
	defer p.mu.Unlock()

	parser := ts.NewParser()
	if err := parser.SetLanguage(ts.NewLanguage(p.grammar)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	p.created++
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "language", p.key.lang.String())
	}
}

func (p *parserPool) close() {
	close(p.idle)
	for parser := range p.idle {
		parser.Close()
	}
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
