// Package org parses Org outline markup into a document tree.
//
// Parsing happens in three steps. Every line is classified on its own
// (Classify), a stack machine assembles the classified lines into sections,
// blocks and drawers, and a final rewrite joins paragraph lines and groups
// table rows. The parser is total: any input produces a Document, and
// malformed structure is recovered from rather than reported.
package org

import (
	"strings"

	"github.com/gerunddev/orgtree/internal/logger"
)

// DefaultMaxDepth is the default limit on open containers, the root included
const DefaultMaxDepth = 64

// Options configures a Parser
type Options struct {
	// Keywords are the headline state keywords; TODO and DONE when empty
	Keywords []string
	// MaxDepth limits how many containers may be open at once
	MaxDepth int
	// Logger receives recovery events at debug level
	Logger *logger.Logger
}

// DefaultOptions returns the options used by Parse and ParseString
func DefaultOptions() Options {
	return Options{
		Keywords: []string{string(KeywordTODO), string(KeywordDONE)},
		MaxDepth: DefaultMaxDepth,
	}
}

var defaultKeywords = map[string]bool{
	string(KeywordTODO): true,
	string(KeywordDONE): true,
}

// Parser turns lines into documents. It holds no per-parse state, so a
// single Parser may be shared between goroutines.
type Parser struct {
	keywords map[string]bool
	maxDepth int
	log      *logger.Logger
}

// New creates a parser from opts, filling in defaults for zero values
func New(opts Options) *Parser {
	p := &Parser{
		keywords: defaultKeywords,
		maxDepth: opts.MaxDepth,
		log:      opts.Logger,
	}
	if len(opts.Keywords) > 0 {
		p.keywords = make(map[string]bool, len(opts.Keywords))
		for _, k := range opts.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				p.keywords[k] = true
			}
		}
	}
	if p.maxDepth < 2 {
		p.maxDepth = DefaultMaxDepth
	}
	if p.log == nil {
		p.log = logger.Discard()
	}
	return p
}

var defaultParser = New(DefaultOptions())

// Parse parses lines with the default options
func Parse(lines []string) *Document {
	return defaultParser.Parse(lines)
}

// ParseString splits text into lines and parses it with the default options
func ParseString(text string) *Document {
	return defaultParser.Parse(SplitLines(text))
}

// Parse builds the document tree for lines
func (p *Parser) Parse(lines []string) *Document {
	a := &assembler{keywords: p.keywords, maxDepth: p.maxDepth, log: p.log}
	s := NewStack()
	for i, line := range lines {
		s = a.step(s, i+1, line)
	}
	content := a.finish(s, len(lines))
	return &Document{Content: joinParagraphs(content)}
}

// SplitLines splits text on newlines, dropping carriage returns and the
// empty line after a final newline
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
