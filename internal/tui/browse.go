package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/org"
	"github.com/gerunddev/orgtree/internal/styles"
)

// BrowseOptions configures the outline browser
type BrowseOptions struct {
	IDMap        map[string]string
	GlamourStyle string
	WordWrap     int
}

// outlineRow is one section in the flattened outline
type outlineRow struct {
	section *org.Section
	depth   int
}

// PreviewMsg is sent when a section preview is ready
type PreviewMsg struct {
	Content string
	Err     error
}

type browseModel struct {
	table        table.Model
	viewport     viewport.Model
	title        string
	rows         []outlineRow
	visible      []outlineRow
	tasksOnly    bool
	showing      bool
	selected     *org.Section
	err          error
	width        int
	height       int
	idMap        map[string]string
	glamourStyle string
	wordWrap     int
}

// RunBrowser opens the interactive outline browser for doc
func RunBrowser(doc *org.Document, title string) error {
	return RunBrowserWith(doc, title, BrowseOptions{GlamourStyle: "auto", WordWrap: 100})
}

// RunBrowserWith is RunBrowser with explicit options
func RunBrowserWith(doc *org.Document, title string, opts BrowseOptions) error {
	p := tea.NewProgram(InitBrowseModel(doc, title, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

// InitBrowseModel creates a new outline browser model
func InitBrowseModel(doc *org.Document, title string, opts BrowseOptions) browseModel {
	columns := []table.Column{
		{Title: "Headline", Width: 50},
		{Title: "State", Width: 6},
		{Title: "Pri", Width: 4},
		{Title: "Tags", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.PreviewStyle

	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = 100
	}

	m := browseModel{
		table:        t,
		viewport:     vp,
		title:        title,
		rows:         flatten(doc),
		idMap:        opts.IDMap,
		glamourStyle: opts.GlamourStyle,
		wordWrap:     wrap,
	}
	m.applyFilter()
	return m
}

// flatten lists every section depth first
func flatten(doc *org.Document) []outlineRow {
	var rows []outlineRow
	var walk func(sections []*org.Section, depth int)
	walk = func(sections []*org.Section, depth int) {
		for _, s := range sections {
			rows = append(rows, outlineRow{section: s, depth: depth})
			walk(s.Sections(), depth+1)
		}
	}
	walk(doc.Sections(), 0)
	return rows
}

func (m *browseModel) applyFilter() {
	m.visible = nil
	for _, r := range m.rows {
		if m.tasksOnly && r.section.Keyword == org.KeywordNone {
			continue
		}
		m.visible = append(m.visible, r)
	}

	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		s := r.section
		pri := ""
		if s.Priority != 0 {
			pri = string(s.Priority)
		}
		rows = append(rows, table.Row{
			strings.Repeat("  ", r.depth) + s.TitleText(),
			string(s.Keyword),
			pri,
			strings.Join(s.Tags, ":"),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-8, 3))
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-6, 3)

	case tea.KeyMsg:
		if m.showing {
			// In preview
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q", "esc":
				m.showing = false
				return m, nil
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		// In table view
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "t":
			m.tasksOnly = !m.tasksOnly
			m.applyFilter()
			return m, nil
		case "enter", "p":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.visible) {
				m.selected = m.visible[idx].section
				m.showing = true
				m.viewport.SetContent("Rendering…")
				return m, m.renderPreview(m.selected)
			}
			return m, nil
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case PreviewMsg:
		m.err = msg.Err
		m.viewport.SetContent(msg.Content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// renderPreview exports the section subtree to markdown and renders it
func (m browseModel) renderPreview(s *org.Section) tea.Cmd {
	idMap, style, wrap := m.idMap, m.glamourStyle, m.wordWrap
	return func() tea.Msg {
		md, err := convert.ToMarkdown(&org.Document{Content: []org.Node{s}}, idMap)
		if err != nil {
			return PreviewMsg{Err: err}
		}
		renderer, err := styles.NewRenderer(style, wrap)
		if err != nil {
			return PreviewMsg{Content: md}
		}
		out, err := renderer.Render(md)
		if err != nil {
			return PreviewMsg{Content: md}
		}
		return PreviewMsg{Content: out}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.showing && m.selected != nil {
		b.WriteString(SectionLabel(m.selected))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	label := fmt.Sprintf("Sections: %d", len(m.visible))
	if m.tasksOnly {
		label += " (tasks only)"
	}
	b.WriteString(styles.LabelStyle.Render(label))
	b.WriteString("\n\n")
	if len(m.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("No sections"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • t tasks • q quit"))
	b.WriteString("\n")

	return b.String()
}
