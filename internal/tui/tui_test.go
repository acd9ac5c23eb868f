package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/orgtree/internal/org"
	"github.com/google/go-cmp/cmp"
)

const outline = `#+title: Plan
* Inbox :work:
** TODO [#A] Call back
** Notes
#+BEGIN_SRC go
x := 1
#+END_SRC
* DONE Shipped
| a | b |
`

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFlatten(t *testing.T) {
	rows := flatten(org.ParseString(outline))

	var got []string
	for _, r := range rows {
		got = append(got, strings.Repeat(">", r.depth)+r.section.TitleText())
	}
	want := []string{"Inbox", ">Call back", ">Notes", "Shipped"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTree(t *testing.T) {
	out := RenderTree(org.ParseString(outline), "plan.org")

	for _, want := range []string{
		"plan.org",
		"* Inbox :work:",
		"** TODO [#A] Call back",
		"#+SRC go",
		"x := 1",
		"* DONE Shipped",
		"table 1×2",
		"keyword",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestSectionLabel(t *testing.T) {
	s := &org.Section{
		Level:    2,
		Keyword:  org.KeywordTODO,
		Priority: 'B',
		Tags:     []string{"a", "b"},
		Title:    org.ParseInline("Read *this*"),
	}
	if got, want := SectionLabel(s), "** TODO [#B] Read this :a:b:"; got != want {
		t.Errorf("SectionLabel = %q, want %q", got, want)
	}
}

func TestBrowseTaskFilter(t *testing.T) {
	m := InitBrowseModel(org.ParseString(outline), "plan.org", BrowseOptions{})
	if len(m.visible) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(m.visible))
	}

	updated, _ := m.Update(keyMsg("t"))
	m = updated.(browseModel)
	if len(m.visible) != 2 {
		t.Errorf("tasks filter should leave 2 rows, got %d", len(m.visible))
	}
	if !strings.Contains(m.View(), "tasks only") {
		t.Error("view should mention the tasks filter")
	}

	updated, _ = m.Update(keyMsg("t"))
	m = updated.(browseModel)
	if len(m.visible) != 4 {
		t.Errorf("toggling again should restore 4 rows, got %d", len(m.visible))
	}
}

func TestBrowsePreview(t *testing.T) {
	m := InitBrowseModel(org.ParseString(outline), "plan.org", BrowseOptions{GlamourStyle: "notty"})

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(browseModel)
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(browseModel)

	if !m.showing || m.selected == nil || m.selected.TitleText() != "Call back" {
		t.Fatalf("enter should open the preview of the selected section")
	}
	if cmd == nil {
		t.Fatal("expected a render command")
	}

	msg, ok := cmd().(PreviewMsg)
	if !ok {
		t.Fatal("render command should produce a PreviewMsg")
	}
	if msg.Err != nil {
		t.Fatalf("preview failed: %v", msg.Err)
	}
	if !strings.Contains(msg.Content, "Call back") {
		t.Errorf("preview missing headline:\n%s", msg.Content)
	}

	updated, _ = m.Update(msg)
	m = updated.(browseModel)
	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(browseModel)
	if m.showing {
		t.Error("esc should close the preview")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := InitBrowseModel(org.ParseString(outline), "plan.org", BrowseOptions{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBrowseEmptyDocument(t *testing.T) {
	m := InitBrowseModel(org.ParseString("just text\n"), "empty.org", BrowseOptions{})

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(browseModel)
	if m.showing || cmd != nil {
		t.Error("enter on an empty outline should do nothing")
	}
	if !strings.Contains(m.View(), "No sections") {
		t.Error("empty outline should say so")
	}
}
