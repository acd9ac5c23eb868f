package org

import (
	"regexp"
	"strings"
	"unicode"
)

// Headline is the metadata extracted from a headline line
type Headline struct {
	Level    int
	Keyword  Keyword
	Priority rune
	Tags     []string
	RawTitle string
	Title    []Span
}

var (
	tagsRe     = regexp.MustCompile(`(?:^|\s)(:\S*:)\s*$`)
	priorityRe = regexp.MustCompile(`^\[#([A-Za-z0-9])\](?:\s+|$)`)
)

// ParseHeadline extracts level, keyword, priority, tags and title from a
// headline line using the default TODO/DONE keywords.
func ParseHeadline(line string) Headline {
	return parseHeadline(line, defaultKeywords)
}

func parseHeadline(line string, keywords map[string]bool) Headline {
	var h Headline
	for h.Level < len(line) && line[h.Level] == '*' {
		h.Level++
	}
	if h.Level == 0 {
		// not a headline; keep it as a level 1 title so callers never see 0
		h.Level = 1
		h.RawTitle = strings.TrimSpace(line)
		h.Title = ParseInline(h.RawTitle)
		return h
	}
	rest := strings.TrimSpace(line[h.Level:])

	if loc := tagsRe.FindStringSubmatchIndex(rest); loc != nil {
		h.Tags = splitTags(rest[loc[2]:loc[3]])
		rest = strings.TrimSpace(rest[:loc[0]])
	}

	if word := firstWord(rest); word != "" && keywords[word] {
		h.Keyword = Keyword(word)
		rest = strings.TrimSpace(rest[len(word):])
	}

	if m := priorityRe.FindStringSubmatch(rest); m != nil {
		h.Priority = rune(m[1][0])
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	h.RawTitle = rest
	h.Title = ParseInline(rest)
	return h
}

func firstWord(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}

// splitTags splits a :a:b: group into its tags, dropping blanks and
// duplicates while keeping first-appearance order
func splitTags(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, t := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	}) {
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}
