package org

import "strings"

// ParseTable builds a table from a run of table row and separator lines. The
// table has a header when the second line is a separator. Other separators
// carry no data and are dropped.
func ParseTable(lines []string) *Table {
	t := &Table{}
	for i, line := range lines {
		if Classify(line) == LineTableSeparator {
			if i == 1 && len(t.Rows) == 1 {
				t.Header = true
			}
			continue
		}
		t.Rows = append(t.Rows, parseRow(line))
	}
	return t
}

func parseRow(line string) Row {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	row := Row{Cells: make([][]Span, len(cells))}
	for i, c := range cells {
		row.Cells[i] = ParseInline(strings.TrimSpace(c))
	}
	return row
}
