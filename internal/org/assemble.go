package org

import "github.com/gerunddev/orgtree/internal/logger"

type frameKind int

const (
	frameRoot frameKind = iota
	frameSection
	frameBlock
	frameDrawer
)

// frame is one open container on the assembler stack
type frame struct {
	kind frameKind

	headline  Headline // frameSection
	blockType string   // frameBlock
	qualifier string   // frameBlock

	content shared[Node]  // frameRoot, frameSection
	lines   shared[*Line] // frameBlock, frameDrawer
}

// shared is an append-only slice whose backing array may be shared by many
// stacks. Only the holder whose length matches the claimed length may append
// in place; any other holder copies first, so no stack ever sees another's
// appends. Transitions on one stack must not run concurrently.
type shared[T any] struct {
	items   []T
	claimed *int
}

func (s shared[T]) add(v T) shared[T] {
	if s.claimed == nil || *s.claimed != len(s.items) || len(s.items) == cap(s.items) {
		items := make([]T, len(s.items), max(2*len(s.items), 4))
		copy(items, s.items)
		s.items, s.claimed = items, new(int)
	}
	s.items = append(s.items, v)
	*s.claimed = len(s.items)
	return s
}

// slice returns the items with no spare capacity
func (s shared[T]) slice() []T {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[:len(s.items):len(s.items)]
}

// Stack is the assembler state: the open containers, root at the bottom.
// Transitions return a new Stack and leave the receiver untouched.
type Stack []frame

// NewStack returns a stack holding only the root container
func NewStack() Stack {
	return Stack{{kind: frameRoot}}
}

// Depth returns the number of open containers, including the root
func (s Stack) Depth() int {
	return len(s)
}

func (s Stack) top() *frame {
	return &s[len(s)-1]
}

func (s Stack) clone() Stack {
	c := make(Stack, len(s), len(s)+1)
	copy(c, s)
	return c
}

func (s Stack) push(f frame) Stack {
	return append(s.clone(), f)
}

// pop closes the top container and appends it to its parent. The root is
// never popped.
func (s Stack) pop() Stack {
	if len(s) <= 1 {
		return s
	}
	c := s.clone()
	closed := c[len(c)-1]
	c = c[:len(c)-1]
	parent := c.top()
	parent.content = parent.content.add(closed.build())
	return c
}

// add appends a line to the top container
func (s Stack) add(l *Line) Stack {
	c := s.clone()
	t := c.top()
	switch t.kind {
	case frameBlock, frameDrawer:
		t.lines = t.lines.add(l)
	default:
		t.content = t.content.add(l)
	}
	return c
}

func (f frame) build() Node {
	switch f.kind {
	case frameSection:
		h := f.headline
		return &Section{
			Level:    h.Level,
			Keyword:  h.Keyword,
			Priority: h.Priority,
			Tags:     h.Tags,
			Title:    h.Title,
			RawTitle: h.RawTitle,
			Content:  f.content.slice(),
		}
	case frameBlock:
		return &Block{Type: f.blockType, Qualifier: f.qualifier, Content: f.lines.slice()}
	case frameDrawer:
		return &Drawer{Content: f.lines.slice()}
	default:
		return &Document{Content: f.content.slice()}
	}
}

// assembler turns classified lines into a tree, one transition per line
type assembler struct {
	keywords map[string]bool
	maxDepth int
	log      *logger.Logger
}

// step applies the transition for one source line. n is the 1-based line
// number, used only for logging.
func (a *assembler) step(s Stack, n int, raw string) Stack {
	kind := Classify(raw)
	if kind == LineHeadline {
		return a.headline(s, n, raw)
	}

	switch s.top().kind {
	case frameBlock:
		if kind == LineBlockEnd {
			if blockEndType(raw) != s.top().blockType {
				a.log.Recovered(n, "block closed by end of another type")
			}
			return s.pop()
		}
		return s.add(&Line{Kind: kind, Raw: raw})
	case frameDrawer:
		if kind == LineDrawerEnd {
			return s.pop()
		}
		return s.add(&Line{Kind: kind, Raw: raw})
	}

	switch kind {
	case LineBlockBegin:
		if len(s) >= a.maxDepth {
			a.log.Recovered(n, "block nested too deep, kept as text")
			break
		}
		typ, qualifier := blockHeader(raw)
		return s.push(frame{kind: frameBlock, blockType: typ, qualifier: qualifier})
	case LineDrawerBegin:
		if len(s) >= a.maxDepth {
			a.log.Recovered(n, "drawer nested too deep, kept as text")
			break
		}
		return s.push(frame{kind: frameDrawer})
	case LineBlockEnd:
		a.log.Recovered(n, "block end without open block")
	case LineDrawerEnd:
		a.log.Recovered(n, "drawer end without open drawer")
	}
	return s.add(newLine(kind, raw))
}

func (a *assembler) headline(s Stack, n int, raw string) Stack {
	h := parseHeadline(raw, a.keywords)
closing:
	for len(s) > 1 {
		switch t := s.top(); {
		case t.kind == frameBlock:
			a.log.Recovered(n, "unterminated block closed by headline")
		case t.kind == frameDrawer:
			a.log.Recovered(n, "unterminated drawer closed by headline")
		case t.kind == frameSection && t.headline.Level >= h.Level:
		default:
			break closing
		}
		s = s.pop()
	}
	if len(s) >= a.maxDepth {
		a.log.Recovered(n, "section nested too deep, closing parent")
		s = s.pop()
	}
	return s.push(frame{kind: frameSection, headline: h})
}

// finish closes every open container and returns the root content
func (a *assembler) finish(s Stack, n int) []Node {
	for len(s) > 1 {
		switch s.top().kind {
		case frameBlock:
			a.log.Recovered(n, "unterminated block closed at end of input")
		case frameDrawer:
			a.log.Recovered(n, "unterminated drawer closed at end of input")
		}
		s = s.pop()
	}
	return s.top().content.slice()
}

func newLine(kind LineKind, raw string) *Line {
	l := &Line{Kind: kind, Raw: raw}
	if kind.Textual() {
		l.Text = ParseInline(l.Body())
	}
	return l
}
