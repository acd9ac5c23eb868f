package org

import (
	"strings"
	"unicode"
)

// Span is one element of an inline markup tree
type Span interface {
	span()
}

type (
	Bold        struct{ Children []Span }
	Italic      struct{ Children []Span }
	Underline   struct{ Children []Span }
	Strike      struct{ Children []Span }
	Superscript struct{ Children []Span }
	Subscript   struct{ Children []Span }

	// Verbatim and Code hold their text literally; nothing inside is parsed
	Verbatim struct{ Text string }
	Code     struct{ Text string }

	Plain struct{ Text string }

	// Link is [[target][description]] or [[target]]
	Link struct {
		Target      string
		Description []Span
	}
)

func (Bold) span()        {}
func (Italic) span()      {}
func (Underline) span()   {}
func (Strike) span()      {}
func (Superscript) span() {}
func (Subscript) span()   {}
func (Verbatim) span()    {}
func (Code) span()        {}
func (Plain) span()       {}
func (Link) span()        {}

// maxInlineDepth bounds emphasis nesting; deeper markup is kept as text
const maxInlineDepth = 32

var delimiters = [...]rune{'*', '/', '_', '+', '~', '='}

// ParseInline parses text into a tree of emphasis spans. It never fails:
// delimiters that do not pair up are kept as plain text.
func ParseInline(text string) []Span {
	if text == "" {
		return nil
	}
	rs := []rune(text)
	return newInlineParser(rs).parse(0, len(rs), 0)
}

// inlineParser holds a line's runes and position tables that answer every
// "where is the next ..." question in constant time, keeping a parse linear
// in the line length for each nesting level.
type inlineParser struct {
	rs []rune

	closers  [len(delimiters)][]int // first closing candidate at or after k, or len(rs)
	brackets []int                  // first ']' at or after k, or len(rs)
	braces   []int                  // the '}' matching a '{' at k, or -1
	behind   []int                  // length of the backslash run ending at k
	ahead    []int                  // length of the backslash run starting at k
}

func newInlineParser(rs []rune) *inlineParser {
	n := len(rs)
	p := &inlineParser{
		rs:       rs,
		brackets: make([]int, n+1),
		braces:   make([]int, n),
		behind:   make([]int, n),
		ahead:    make([]int, n+1),
	}

	var open []int
	for k, r := range rs {
		p.braces[k] = -1
		switch r {
		case '\\':
			p.behind[k] = 1
			if k > 0 {
				p.behind[k] += p.behind[k-1]
			}
		case '{':
			open = append(open, k)
		case '}':
			if len(open) > 0 {
				p.braces[open[len(open)-1]] = k
				open = open[:len(open)-1]
			}
		}
	}

	p.brackets[n] = n
	for k := n - 1; k >= 0; k-- {
		p.brackets[k] = p.brackets[k+1]
		if rs[k] == ']' {
			p.brackets[k] = k
		}
		if rs[k] == '\\' {
			p.ahead[k] = p.ahead[k+1] + 1
		}
	}

	for d, c := range delimiters {
		next := make([]int, n+1)
		next[n] = n
		for k := n - 1; k >= 0; k-- {
			next[k] = next[k+1]
			if p.canClose(c, k, n) && (isLiteral(c) || k == 0 || p.behind[k-1]%2 == 0) {
				next[k] = k
			}
		}
		p.closers[d] = next
	}
	return p
}

// parse returns the spans of rs[lo:hi]
func (p *inlineParser) parse(lo, hi, depth int) []Span {
	rs := p.rs
	var out spanList
	for i := lo; i < hi; {
		c := rs[i]
		switch {
		case c == '\\' && i+1 < hi && isEscapable(rs[i+1]):
			out.text(rs[i+1])
			i += 2
			continue

		case c == '[' && i+1 < hi && rs[i+1] == '[':
			if link, n := p.link(i, hi, depth); n > 0 {
				out.add(link)
				i += n
				continue
			}

		case c == '^':
			if n, children := p.script(i, hi, depth); n > 0 {
				out.add(Superscript{Children: children})
				i += n
				continue
			}

		case isDelimiter(c):
			if end := p.closer(i, lo, hi); end > 0 && depth < maxInlineDepth {
				out.add(p.emphasis(c, i+1, end, depth))
				i = end + 1
				continue
			}
			if c == '_' && i > lo && !unicode.IsSpace(rs[i-1]) {
				if n, children := p.script(i, hi, depth); n > 0 {
					out.add(Subscript{Children: children})
					i += n
					continue
				}
			}
		}
		out.text(c)
		i++
	}
	return out.done()
}

func (p *inlineParser) emphasis(delim rune, lo, hi, depth int) Span {
	switch delim {
	case '~':
		return Code{Text: string(p.rs[lo:hi])}
	case '=':
		return Verbatim{Text: string(p.rs[lo:hi])}
	}
	children := p.parse(lo, hi, depth+1)
	switch delim {
	case '*':
		return Bold{Children: children}
	case '/':
		return Italic{Children: children}
	case '_':
		return Underline{Children: children}
	default:
		return Strike{Children: children}
	}
}

// link matches [[target]] or [[target][description]] at i. Neither part may
// be empty or contain ']'. It returns the number of runes consumed, 0 if
// there is no link.
func (p *inlineParser) link(i, hi, depth int) (Link, int) {
	rs := p.rs
	end := p.brackets[i+2]
	if end == i+2 || end+1 >= hi {
		return Link{}, 0
	}
	link := Link{Target: string(rs[i+2 : end])}
	switch rs[end+1] {
	case ']':
		return link, end + 2 - i
	case '[':
		descEnd := p.brackets[end+2]
		if descEnd == end+2 || descEnd+1 >= hi || rs[descEnd+1] != ']' {
			return Link{}, 0
		}
		link.Description = p.parse(end+2, descEnd, depth+1)
		return link, descEnd + 2 - i
	}
	return Link{}, 0
}

// closer returns the index of the delimiter closing the span opened at i, or
// -1 when rs[i] does not open a span within rs[lo:hi].
func (p *inlineParser) closer(i, lo, hi int) int {
	rs := p.rs
	c := rs[i]
	if i > lo && isWordRune(rs[i-1]) {
		return -1
	}
	if i+1 >= hi || unicode.IsSpace(rs[i+1]) {
		return -1
	}
	start := i + 2
	if start >= hi {
		return -1
	}

	valid := func(j int) bool {
		return j >= start && j < hi && p.canClose(c, j, hi) && (isLiteral(c) || !p.escaped(j, start))
	}

	// The table is built for the whole line. It can disagree with this scan
	// only at the first rune after a backslash run beginning at start, whose
	// escaping depends on where the scan began, and at hi-1, where the rune
	// after the closer lies outside the span.
	first := start
	if !isLiteral(c) {
		first += p.ahead[start]
	}
	next := p.closers[delimiterIndex(c)]
	j := next[start]
	if j == first && first < len(rs) && !valid(first) {
		j = next[first+1]
	}

	best := -1
	for _, cand := range []int{first, j, hi - 1} {
		if valid(cand) && (best < 0 || cand < best) {
			best = cand
		}
	}
	return best
}

// canClose reports whether rs[j] can end a span of c that stops before hi
func (p *inlineParser) canClose(c rune, j, hi int) bool {
	rs := p.rs
	if rs[j] != c || j == 0 || unicode.IsSpace(rs[j-1]) {
		return false
	}
	return j+1 >= hi || !isWordRune(rs[j+1])
}

// escaped reports whether rs[j] is escaped by the backslashes before it,
// counting only those at or after start
func (p *inlineParser) escaped(j, start int) bool {
	if j <= start || p.rs[j-1] != '\\' {
		return false
	}
	return min(p.behind[j-1], j-start)%2 == 1
}

// script parses the operand of a ^ or _ prefix at i: a balanced {group} or a
// single non-space rune. It returns the number of runes consumed, 0 if there
// is no operand.
func (p *inlineParser) script(i, hi, depth int) (int, []Span) {
	if i+1 >= hi || depth >= maxInlineDepth {
		return 0, nil
	}
	next := p.rs[i+1]
	switch {
	case next == '{':
		end := p.braces[i+1]
		if end < 0 || end >= hi || end == i+2 {
			return 0, nil
		}
		return end - i + 1, p.parse(i+2, end, depth+1)
	case unicode.IsSpace(next), next == '\\':
		return 0, nil
	}
	return 2, []Span{Plain{Text: string(next)}}
}

func delimiterIndex(r rune) int {
	for d, c := range delimiters {
		if c == r {
			return d
		}
	}
	return -1
}

func isDelimiter(r rune) bool {
	return delimiterIndex(r) >= 0
}

func isLiteral(r rune) bool {
	return r == '~' || r == '='
}

func isEscapable(r rune) bool {
	return isDelimiter(r) || r == '^' || r == '\\'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// spanList accumulates spans, merging adjacent plain text
type spanList struct {
	spans []Span
	buf   strings.Builder
}

func (l *spanList) text(r rune) {
	l.buf.WriteRune(r)
}

func (l *spanList) add(s Span) {
	l.flush()
	l.spans = append(l.spans, s)
}

func (l *spanList) flush() {
	if l.buf.Len() > 0 {
		l.spans = append(l.spans, Plain{Text: l.buf.String()})
		l.buf.Reset()
	}
}

func (l *spanList) done() []Span {
	l.flush()
	return l.spans
}

// SpanText returns the visible text of spans with all markup removed
func SpanText(spans []Span) string {
	var b strings.Builder
	writeSpanText(&b, spans)
	return b.String()
}

func writeSpanText(b *strings.Builder, spans []Span) {
	for _, s := range spans {
		switch s := s.(type) {
		case Plain:
			b.WriteString(s.Text)
		case Verbatim:
			b.WriteString(s.Text)
		case Code:
			b.WriteString(s.Text)
		case Bold:
			writeSpanText(b, s.Children)
		case Italic:
			writeSpanText(b, s.Children)
		case Underline:
			writeSpanText(b, s.Children)
		case Strike:
			writeSpanText(b, s.Children)
		case Superscript:
			writeSpanText(b, s.Children)
		case Subscript:
			writeSpanText(b, s.Children)
		case Link:
			if len(s.Description) > 0 {
				writeSpanText(b, s.Description)
			} else {
				b.WriteString(s.Target)
			}
		}
	}
}
