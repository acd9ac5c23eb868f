package org

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func plain(s string) Plain { return Plain{Text: s} }

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "nothing special here",
			want:  []Span{plain("nothing special here")},
		},
		{
			name:  "bold and italic",
			input: "*bold* and /italic/",
			want: []Span{
				Bold{Children: []Span{plain("bold")}},
				plain(" and "),
				Italic{Children: []Span{plain("italic")}},
			},
		},
		{
			name:  "escaped delimiters",
			input: `\*not bold\*`,
			want:  []Span{plain("*not bold*")},
		},
		{
			name:  "unclosed opener",
			input: "*open",
			want:  []Span{plain("*open")},
		},
		{
			name:  "strike and underline",
			input: "+gone+ _under_",
			want: []Span{
				Strike{Children: []Span{plain("gone")}},
				plain(" "),
				Underline{Children: []Span{plain("under")}},
			},
		},
		{
			name:  "nested emphasis",
			input: "*a /b/ c*",
			want: []Span{
				Bold{Children: []Span{
					plain("a "),
					Italic{Children: []Span{plain("b")}},
					plain(" c"),
				}},
			},
		},
		{
			name:  "code is literal",
			input: "run ~a *b* c~ now",
			want: []Span{
				plain("run "),
				Code{Text: "a *b* c"},
				plain(" now"),
			},
		},
		{
			name:  "verbatim keeps backslashes",
			input: `=\*=`,
			want:  []Span{Verbatim{Text: `\*`}},
		},
		{
			name:  "closer followed by a letter",
			input: "*bold*text",
			want:  []Span{plain("*bold*text")},
		},
		{
			name:  "opener inside a word",
			input: "a*b*",
			want:  []Span{plain("a*b*")},
		},
		{
			name:  "opener followed by space",
			input: "2 * 3 * 4",
			want:  []Span{plain("2 * 3 * 4")},
		},
		{
			name:  "doubled delimiter",
			input: "**",
			want:  []Span{plain("**")},
		},
		{
			name:  "closer before punctuation",
			input: "(*yes*).",
			want: []Span{
				plain("("),
				Bold{Children: []Span{plain("yes")}},
				plain(")."),
			},
		},
		{
			name:  "escaped backslash",
			input: `a\\b`,
			want:  []Span{plain(`a\b`)},
		},
		{
			name:  "other backslashes stay",
			input: `C:\path`,
			want:  []Span{plain(`C:\path`)},
		},
		{
			name:  "superscript single rune",
			input: "2^10",
			want: []Span{
				plain("2"),
				Superscript{Children: []Span{plain("1")}},
				plain("0"),
			},
		},
		{
			name:  "superscript group is parsed",
			input: "x^{*a*}",
			want: []Span{
				plain("x"),
				Superscript{Children: []Span{Bold{Children: []Span{plain("a")}}}},
			},
		},
		{
			name:  "escaped caret",
			input: `x\^2`,
			want:  []Span{plain("x^2")},
		},
		{
			name:  "caret before space",
			input: "a ^ b",
			want:  []Span{plain("a ^ b")},
		},
		{
			name:  "unbalanced group",
			input: "x^{oops",
			want:  []Span{plain("x^{oops")},
		},
		{
			name:  "link with description",
			input: "see [[id:123][My *note*]]",
			want: []Span{
				plain("see "),
				Link{Target: "id:123", Description: []Span{
					plain("My "),
					Bold{Children: []Span{plain("note")}},
				}},
			},
		},
		{
			name:  "link target is literal",
			input: "[[file:my_file_name.png]]",
			want:  []Span{Link{Target: "file:my_file_name.png"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInline(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// An underscore is underline when it opens at a word boundary, is followed by
// a non-space rune and has a matching closer. Otherwise it is a subscript when
// attached to a preceding rune, and literal text when it is not.
func TestParseInlineUnderscore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "underline between spaces",
			input: "a _b_ c",
			want: []Span{
				plain("a "),
				Underline{Children: []Span{plain("b")}},
				plain(" c"),
			},
		},
		{
			name:  "subscript single rune",
			input: "H_2O",
			want: []Span{
				plain("H"),
				Subscript{Children: []Span{plain("2")}},
				plain("O"),
			},
		},
		{
			name:  "subscript group",
			input: "x_{ij}",
			want: []Span{
				plain("x"),
				Subscript{Children: []Span{plain("ij")}},
			},
		},
		{
			name:  "snake case becomes subscripts",
			input: "snake_case",
			want: []Span{
				plain("snake"),
				Subscript{Children: []Span{plain("c")}},
				plain("ase"),
			},
		},
		{
			name:  "unclosed underline at word start is literal",
			input: "_ alone",
			want:  []Span{plain("_ alone")},
		},
		{
			name:  "unclosed underline without subscript target",
			input: "_open",
			want:  []Span{plain("_open")},
		},
		{
			name:  "trailing underscore",
			input: "foo_",
			want:  []Span{plain("foo_")},
		},
		{
			name:  "escaped underscore",
			input: `snake\_case`,
			want:  []Span{plain("snake_case")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInline(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseInlineDepthLimit(t *testing.T) {
	input := ""
	for i := 0; i < 100; i++ {
		input += "/"
	}
	// must terminate without blowing the stack
	_ = ParseInline(input + "x" + input)
}

func TestParseInlineEscapesInsideSpan(t *testing.T) {
	tests := []struct {
		input string
		want  []Span
	}{
		{input: `*a\*b*`, want: []Span{Bold{Children: []Span{plain("a*b")}}}},
		{input: `*a\\*`, want: []Span{Bold{Children: []Span{plain(`a\`)}}}},
		{input: `=a\=`, want: []Span{Verbatim{Text: `a\`}}},
		{input: `[[a]b]]`, want: []Span{plain("[[a]b]]")}},
		{input: `[[a][]]`, want: []Span{plain("[[a][]]")}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseInline(tt.input)); diff != "" {
				t.Errorf("ParseInline(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseInlineLongLines(t *testing.T) {
	const size = 100 << 10
	tests := []struct {
		name string
		unit string
	}{
		{"unclosed links", "[[x "},
		{"unclosed bold", "*a "},
		{"unclosed code", "~a "},
		{"unbalanced groups", "a^{b "},
		{"subscript groups", "a_{b "},
		{"escaped delimiters", `*a\* `},
		{"bracket runs", "[[a]b "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat(tt.unit, size/len(tt.unit))
			start := time.Now()
			spans := ParseInline(input)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("parsing a %d byte line took %v", len(input), elapsed)
			}
			if got := SpanText(spans); len(got) == 0 {
				t.Error("expected text back")
			}
		})
	}
}

func TestSpanText(t *testing.T) {
	spans := ParseInline("*Hello* /wide/ ~world~ [[id:1][link]] [[https://go.dev]] x^2")
	want := "Hello wide world link https://go.dev x2"
	if got := SpanText(spans); got != want {
		t.Errorf("SpanText() = %q, want %q", got, want)
	}
}
