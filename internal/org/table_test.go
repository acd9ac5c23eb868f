package org

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func cells(texts ...string) Row {
	r := Row{}
	for _, t := range texts {
		r.Cells = append(r.Cells, ParseInline(t))
	}
	return r
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  *Table
	}{
		{
			name:  "header row",
			lines: []string{"| Name | Qty |", "|------+-----|", "| Tea  | 2   |"},
			want: &Table{
				Header: true,
				Rows:   []Row{cells("Name", "Qty"), cells("Tea", "2")},
			},
		},
		{
			name:  "no header",
			lines: []string{"| a | b |", "| c | d |"},
			want:  &Table{Rows: []Row{cells("a", "b"), cells("c", "d")}},
		},
		{
			name:  "separator elsewhere is dropped",
			lines: []string{"| a |", "| b |", "|---|", "| c |"},
			want:  &Table{Rows: []Row{cells("a"), cells("b"), cells("c")}},
		},
		{
			name:  "leading separator",
			lines: []string{"|---|", "| a |"},
			want:  &Table{Rows: []Row{cells("a")}},
		},
		{
			name:  "cells are inline parsed",
			lines: []string{"| *bold* | ~code~ |"},
			want: &Table{Rows: []Row{{Cells: [][]Span{
				{Bold{Children: []Span{plain("bold")}}},
				{Code{Text: "code"}},
			}}}},
		},
		{
			name:  "empty cell",
			lines: []string{"| a || c |"},
			want:  &Table{Rows: []Row{cells("a", "", "c")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTable(tt.lines)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseTable mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
