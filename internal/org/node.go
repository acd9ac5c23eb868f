package org

import "strings"

// Node is one element of a parsed document tree. The set of variants is
// closed: Document, Section, Block, Drawer, Line, Table and Paragraph.
type Node interface {
	node()
}

// Keyword is a headline state keyword such as TODO or DONE
type Keyword string

const (
	KeywordNone Keyword = ""
	KeywordTODO Keyword = "TODO"
	KeywordDONE Keyword = "DONE"
)

// Document is the root of a parsed file
type Document struct {
	Content []Node
}

// Section is a headline together with everything nested under it
type Section struct {
	Level    int
	Keyword  Keyword
	Priority rune // 0 when the headline has no [#X] cookie
	Tags     []string
	Title    []Span
	RawTitle string
	Content  []Node
}

// Block is a #+BEGIN_TYPE / #+END_TYPE region. Its lines are kept raw.
type Block struct {
	Type      string
	Qualifier string
	Content   []*Line
}

// Drawer is a :PROPERTIES: / :END: region
type Drawer struct {
	Content []*Line
}

// Line is a single classified source line
type Line struct {
	Kind LineKind
	Raw  string
	Text []Span // nil for structural kinds
}

// Table is a run of |-delimited rows
type Table struct {
	Rows   []Row
	Header bool // first row is separated from the rest by a rule
}

// Row is one table row
type Row struct {
	Cells [][]Span
}

// Paragraph is a run of consecutive paragraph lines joined into one unit
type Paragraph struct {
	Lines []string
	Text  []Span
}

func (*Document) node()  {}
func (*Section) node()   {}
func (*Block) node()     {}
func (*Drawer) node()    {}
func (*Line) node()      {}
func (*Table) node()     {}
func (*Paragraph) node() {}

// Property is a single :KEY: value pair from a drawer
type Property struct {
	Key   string
	Value string
}

// Properties returns the key/value items of the drawer in source order.
// Lines that are not property items are skipped.
func (d *Drawer) Properties() []Property {
	var props []Property
	for _, l := range d.Content {
		if key, value, ok := l.Property(); ok {
			props = append(props, Property{Key: key, Value: value})
		}
	}
	return props
}

// Get returns the value of the first property named key (case-insensitive)
func (d *Drawer) Get(key string) (string, bool) {
	for _, p := range d.Properties() {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

// Drawer returns the first property drawer directly inside the section
func (s *Section) Drawer() *Drawer {
	return firstDrawer(s.Content)
}

// Properties returns the section's own drawer properties
func (s *Section) Properties() []Property {
	if d := s.Drawer(); d != nil {
		return d.Properties()
	}
	return nil
}

// ID returns the org-roam :ID: property of the section, if any
func (s *Section) ID() string {
	if d := s.Drawer(); d != nil {
		id, _ := d.Get("ID")
		return id
	}
	return ""
}

// TitleText returns the text of the headline without markup
func (s *Section) TitleText() string {
	return SpanText(s.Title)
}

// HasTag reports whether the section carries tag
func (s *Section) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Sections returns the direct child sections
func (s *Section) Sections() []*Section {
	return childSections(s.Content)
}

// Sections returns the top-level sections of the document
func (d *Document) Sections() []*Section {
	return childSections(d.Content)
}

// Walk calls fn for every section in depth-first order. Returning false from
// fn skips the section's children.
func (d *Document) Walk(fn func(*Section) bool) {
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if s, ok := n.(*Section); ok {
				if fn(s) {
					walk(s.Content)
				}
			}
		}
	}
	walk(d.Content)
}

// Keywords returns the #+KEY: value lines that appear before the first
// section. Keys are upper-cased; the first occurrence of a key wins.
func (d *Document) Keywords() map[string]string {
	kw := make(map[string]string)
	for _, n := range d.Content {
		if _, ok := n.(*Section); ok {
			break
		}
		l, ok := n.(*Line)
		if !ok || l.Kind != LineKeyword {
			continue
		}
		if key, value, ok := l.Keyword(); ok {
			if _, seen := kw[key]; !seen {
				kw[key] = value
			}
		}
	}
	return kw
}

// Title returns the #+TITLE keyword
func (d *Document) Title() string {
	return d.Keywords()["TITLE"]
}

// FileTags returns the tags from #+FILETAGS, in :a:b: form
func (d *Document) FileTags() []string {
	return splitTags(d.Keywords()["FILETAGS"])
}

// Drawer returns the file-level property drawer, which must come before the
// first section
func (d *Document) Drawer() *Drawer {
	for _, n := range d.Content {
		switch n := n.(type) {
		case *Section:
			return nil
		case *Drawer:
			return n
		}
	}
	return nil
}

// Properties returns the file-level drawer properties
func (d *Document) Properties() []Property {
	if dr := d.Drawer(); dr != nil {
		return dr.Properties()
	}
	return nil
}

func firstDrawer(nodes []Node) *Drawer {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Drawer:
			return n
		case *Section:
			return nil
		}
	}
	return nil
}

func childSections(nodes []Node) []*Section {
	var out []*Section
	for _, n := range nodes {
		if s, ok := n.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}
