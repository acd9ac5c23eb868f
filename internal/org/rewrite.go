package org

import "strings"

// joinParagraphs rewrites a content sequence: runs of paragraph lines become
// one Paragraph, runs of table lines become one Table, and sections are
// rebuilt with rewritten content. Nodes are replaced, never modified.
func joinParagraphs(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for i := 0; i < len(nodes); {
		switch n := nodes[i].(type) {
		case *Section:
			s := *n
			s.Content = joinParagraphs(n.Content)
			out = append(out, &s)
			i++
		case *Line:
			switch {
			case n.Kind == LineParagraph:
				j := runEnd(nodes, i, func(k LineKind) bool { return k == LineParagraph })
				out = append(out, newParagraph(nodes[i:j]))
				i = j
			case isTableKind(n.Kind):
				j := runEnd(nodes, i, isTableKind)
				raw := make([]string, 0, j-i)
				for _, l := range nodes[i:j] {
					raw = append(raw, l.(*Line).Raw)
				}
				out = append(out, ParseTable(raw))
				i = j
			default:
				out = append(out, n)
				i++
			}
		default:
			out = append(out, n)
			i++
		}
	}
	return out
}

// runEnd returns the end of the run of lines starting at i whose kinds
// satisfy match
func runEnd(nodes []Node, i int, match func(LineKind) bool) int {
	j := i
	for j < len(nodes) {
		l, ok := nodes[j].(*Line)
		if !ok || !match(l.Kind) {
			break
		}
		j++
	}
	return j
}

func isTableKind(k LineKind) bool {
	return k == LineTableRow || k == LineTableSeparator
}

func newParagraph(lines []Node) *Paragraph {
	p := &Paragraph{Lines: make([]string, 0, len(lines))}
	parts := make([]string, 0, len(lines))
	for _, n := range lines {
		l := n.(*Line)
		p.Lines = append(p.Lines, l.Raw)
		parts = append(parts, strings.TrimSpace(l.Raw))
	}
	p.Text = ParseInline(strings.Join(parts, " "))
	return p
}
