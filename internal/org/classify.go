package org

import (
	"regexp"
	"strings"
)

// LineKind is the syntactic class of a single line
type LineKind int

const (
	LineParagraph LineKind = iota
	LineHeadline
	LineBlank
	LineDefinitionItem
	LineOrderedItem
	LineUnorderedItem
	LineDrawerBegin
	LineDrawerEnd
	LineDrawerItem
	LineMetadata
	LineBlockBegin
	LineBlockEnd
	LineKeyword
	LineComment
	LineTableSeparator
	LineTableRow
	LineExample
	LineRule
)

var lineKindNames = [...]string{
	LineParagraph:      "paragraph",
	LineHeadline:       "headline",
	LineBlank:          "blank",
	LineDefinitionItem: "definition-item",
	LineOrderedItem:    "ordered-item",
	LineUnorderedItem:  "unordered-item",
	LineDrawerBegin:    "drawer-begin",
	LineDrawerEnd:      "drawer-end",
	LineDrawerItem:     "drawer-item",
	LineMetadata:       "metadata",
	LineBlockBegin:     "block-begin",
	LineBlockEnd:       "block-end",
	LineKeyword:        "keyword",
	LineComment:        "comment",
	LineTableSeparator: "table-separator",
	LineTableRow:       "table-row",
	LineExample:        "example",
	LineRule:           "rule",
}

func (k LineKind) String() string {
	if k >= 0 && int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// Textual reports whether lines of this kind carry inline markup
func (k LineKind) Textual() bool {
	switch k {
	case LineParagraph, LineDefinitionItem, LineOrderedItem, LineUnorderedItem:
		return true
	}
	return false
}

var (
	headlineRe    = regexp.MustCompile(`^\*+(\s.*)?$`)
	definitionRe  = regexp.MustCompile(`^(\s*)([-+*])\s+(.*?\S)\s+::(?:\s+(.*))?\s*$`)
	orderedRe     = regexp.MustCompile(`^(\s*)(\d+[.)])(?:\s+(.*))?$`)
	unorderedRe   = regexp.MustCompile(`^(\s*)([-+*])(?:\s+(.*))?$`)
	drawerBeginRe = regexp.MustCompile(`(?i)^\s*:PROPERTIES:\s*$`)
	drawerEndRe   = regexp.MustCompile(`(?i)^\s*:END:\s*$`)
	drawerItemRe  = regexp.MustCompile(`^\s*:([^\s:]+):(?:\s+(.*?))?\s*$`)
	metadataRe    = regexp.MustCompile(`^\s*(CLOCK|DEADLINE|START|CLOSED|SCHEDULED):`)
	blockBeginRe  = regexp.MustCompile(`(?i)^\s*#\+BEGIN_(\S+)(?:\s+(.*?))?\s*$`)
	blockEndRe    = regexp.MustCompile(`(?i)^\s*#\+END_(\S+)\s*$`)
	keywordRe     = regexp.MustCompile(`^\s*#\+([^\s:]+):(?:\s+(.*?))?\s*$`)
	commentRe     = regexp.MustCompile(`^\s*(#|COMMENT(\s|$))`)
	tableSepRe    = regexp.MustCompile(`^\s*\|[-+|]*-[-+|]*\s*$`)
	tableRowRe    = regexp.MustCompile(`^\s*\|`)
	exampleRe     = regexp.MustCompile(`^\s*:(\s|$)`)
	ruleRe        = regexp.MustCompile(`^\s*-{5,}\s*$`)
)

// Classify maps one line of text to exactly one LineKind. Patterns are tried
// in a fixed priority order and the first match wins; anything unmatched is a
// paragraph line.
func Classify(line string) LineKind {
	switch {
	case headlineRe.MatchString(line):
		return LineHeadline
	case strings.TrimSpace(line) == "":
		return LineBlank
	case definitionRe.MatchString(line):
		return LineDefinitionItem
	case orderedRe.MatchString(line):
		return LineOrderedItem
	case unorderedRe.MatchString(line):
		return LineUnorderedItem
	case drawerBeginRe.MatchString(line):
		return LineDrawerBegin
	case drawerEndRe.MatchString(line):
		return LineDrawerEnd
	case drawerItemRe.MatchString(line):
		return LineDrawerItem
	case metadataRe.MatchString(line):
		return LineMetadata
	case blockBeginRe.MatchString(line):
		return LineBlockBegin
	case blockEndRe.MatchString(line):
		return LineBlockEnd
	case keywordRe.MatchString(line):
		return LineKeyword
	case commentRe.MatchString(line):
		return LineComment
	case tableSepRe.MatchString(line):
		return LineTableSeparator
	case tableRowRe.MatchString(line):
		return LineTableRow
	case exampleRe.MatchString(line):
		return LineExample
	case ruleRe.MatchString(line):
		return LineRule
	}
	return LineParagraph
}

// Property returns the key and value of a drawer item line
func (l *Line) Property() (key, value string, ok bool) {
	if l.Kind != LineDrawerItem {
		return "", "", false
	}
	m := drawerItemRe.FindStringSubmatch(l.Raw)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Keyword returns the upper-cased key and the value of a #+KEY: value line
func (l *Line) Keyword() (key, value string, ok bool) {
	if l.Kind != LineKeyword {
		return "", "", false
	}
	m := keywordRe.FindStringSubmatch(l.Raw)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), m[2], true
}

// Bullet returns the list marker of a list item line ("-", "+", "*", "1." ...)
func (l *Line) Bullet() string {
	if m := listMatch(l); m != nil {
		return m[2]
	}
	return ""
}

// Indent returns the number of leading whitespace bytes of a list item
func (l *Line) Indent() int {
	if m := listMatch(l); m != nil {
		return len(m[1])
	}
	return len(l.Raw) - len(strings.TrimLeft(l.Raw, " \t"))
}

// Term returns the raw term of a definition item
func (l *Line) Term() string {
	if l.Kind != LineDefinitionItem {
		return ""
	}
	if m := definitionRe.FindStringSubmatch(l.Raw); m != nil {
		return m[3]
	}
	return ""
}

// Body returns the text of the line that inline markup is parsed from: the
// item text for list items, the trimmed line for paragraphs, the content
// after the colon for example lines and the trimmed line otherwise.
func (l *Line) Body() string {
	switch l.Kind {
	case LineDefinitionItem:
		if m := definitionRe.FindStringSubmatch(l.Raw); m != nil {
			return m[4]
		}
	case LineOrderedItem, LineUnorderedItem:
		if m := listMatch(l); m != nil {
			return m[3]
		}
	case LineExample:
		s := strings.TrimSpace(l.Raw)
		return strings.TrimPrefix(strings.TrimPrefix(s, ":"), " ")
	}
	return strings.TrimSpace(l.Raw)
}

func listMatch(l *Line) []string {
	switch l.Kind {
	case LineDefinitionItem:
		return definitionRe.FindStringSubmatch(l.Raw)
	case LineOrderedItem:
		return orderedRe.FindStringSubmatch(l.Raw)
	case LineUnorderedItem:
		return unorderedRe.FindStringSubmatch(l.Raw)
	}
	return nil
}

// blockHeader returns the upper-cased type and the qualifier of a block
// begin line
func blockHeader(line string) (typ, qualifier string) {
	m := blockBeginRe.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return strings.ToUpper(m[1]), m[2]
}

// blockEndType returns the upper-cased type of a block end line
func blockEndType(line string) string {
	m := blockEndRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
