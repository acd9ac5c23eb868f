package tui

import (
	"fmt"
	"strings"

	"github.com/gerunddev/orgtree/internal/org"
	"github.com/gerunddev/orgtree/internal/styles"
)

// RenderTree draws the whole document tree, one node per line
func RenderTree(doc *org.Document, title string) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n")
	writeNodes(&b, doc.Content, "")
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []org.Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		b.WriteString(styles.GuideStyle.Render(prefix + branch))
		b.WriteString(nodeLabel(n))
		b.WriteString("\n")

		switch n := n.(type) {
		case *org.Section:
			writeNodes(b, n.Content, prefix+next)
		case *org.Block:
			writeLines(b, n.Content, prefix+next)
		case *org.Drawer:
			writeLines(b, n.Content, prefix+next)
		}
	}
}

func writeLines(b *strings.Builder, lines []*org.Line, prefix string) {
	for i, l := range lines {
		branch := "├── "
		if i == len(lines)-1 {
			branch = "└── "
		}
		b.WriteString(styles.GuideStyle.Render(prefix + branch))
		b.WriteString(styles.DimStyle.Render(l.Raw))
		b.WriteString("\n")
	}
}

func nodeLabel(n org.Node) string {
	switch n := n.(type) {
	case *org.Document:
		return "document"
	case *org.Section:
		return SectionLabel(n)
	case *org.Block:
		label := styles.BlockStyle.Render("#+" + n.Type)
		if n.Qualifier != "" {
			label += " " + styles.DimStyle.Render(n.Qualifier)
		}
		return label
	case *org.Drawer:
		return styles.BlockStyle.Render(fmt.Sprintf(":PROPERTIES: (%d)", len(n.Properties())))
	case *org.Line:
		return styles.DimStyle.Render(n.Kind.String()) + " " + org.SpanText(n.Text)
	case *org.Paragraph:
		return styles.DimStyle.Render("paragraph") + " " + truncate(org.SpanText(n.Text), 60)
	case *org.Table:
		cols := 0
		for _, r := range n.Rows {
			cols = max(cols, len(r.Cells))
		}
		return styles.BlockStyle.Render(fmt.Sprintf("table %d×%d", len(n.Rows), cols))
	}
	return ""
}

// SectionLabel renders a headline with its keyword, priority and tags
func SectionLabel(s *org.Section) string {
	var parts []string
	parts = append(parts, styles.DimStyle.Render(strings.Repeat("*", s.Level)))
	switch s.Keyword {
	case org.KeywordNone:
	case org.KeywordDONE:
		parts = append(parts, styles.DoneStyle.Render(string(s.Keyword)))
	default:
		parts = append(parts, styles.TodoStyle.Render(string(s.Keyword)))
	}
	if s.Priority != 0 {
		parts = append(parts, styles.PriorityStyle.Render("[#"+string(s.Priority)+"]"))
	}
	if title := s.TitleText(); title != "" {
		parts = append(parts, styles.ValueStyle.Render(title))
	}
	if len(s.Tags) > 0 {
		parts = append(parts, styles.TagStyle.Render(":"+strings.Join(s.Tags, ":")+":"))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
