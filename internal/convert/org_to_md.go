package convert

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gerunddev/orgtree/internal/org"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// OrgToMarkdown parses org-mode content and converts it to markdown
func OrgToMarkdown(orgContent string, idMap map[string]string) (string, error) {
	return ToMarkdown(org.ParseString(orgContent), idMap)
}

// ToMarkdown renders a parsed document as Obsidian-flavoured markdown.
// idMap resolves org-roam IDs to note file names for [[id:...]] links.
func ToMarkdown(doc *org.Document, idMap map[string]string) (string, error) {
	w := &mdWriter{idMap: idMap}

	fm, err := frontMatter(doc)
	if err != nil {
		return "", err
	}
	if fm != "" {
		w.b.WriteString("---\n")
		w.b.WriteString(fm)
		w.b.WriteString("---\n\n")
	}

	w.nodes(doc.Content, doc.Drawer())
	return strings.TrimSpace(w.b.String()), nil
}

// frontMatterFields mirrors the YAML front matter Obsidian reads
type frontMatterFields struct {
	ID      string   `yaml:"id,omitempty"`
	Title   string   `yaml:"title,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Refs    []string `yaml:"refs,omitempty"`
}

// frontMatter builds YAML from the file-level drawer, #+title and #+filetags
func frontMatter(doc *org.Document) (string, error) {
	var fm frontMatterFields
	if d := doc.Drawer(); d != nil {
		fm.ID, _ = d.Get("ID")
		if aliases, ok := d.Get("ROAM_ALIASES"); ok {
			fm.Aliases = parseOrgAliases(aliases)
		}
		if refs, ok := d.Get("ROAM_REFS"); ok {
			fm.Refs = strings.Fields(refs)
		}
	}
	fm.Title = doc.Title()
	fm.Tags = doc.FileTags()

	if fm.ID == "" && fm.Title == "" && len(fm.Aliases) == 0 && len(fm.Tags) == 0 && len(fm.Refs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	return buf.String(), nil
}

// parseOrgAliases parses "alias1" "alias2" format
func parseOrgAliases(s string) []string {
	var aliases []string
	for _, match := range aliasRe.FindAllStringSubmatch(s, -1) {
		aliases = append(aliases, match[1])
	}
	return aliases
}

var (
	aliasRe   = regexp.MustCompile(`"([^"]+)"`)
	plannedRe = regexp.MustCompile(`(SCHEDULED|DEADLINE|CLOSED):\s*[<\[](\d{4}-\d{2}-\d{2})`)
)

// All default Obsidian callout types except quote/cite, which map to
// standard #+BEGIN_QUOTE blocks
var calloutTypes = map[string]bool{
	"note": true, "abstract": true, "summary": true, "tldr": true,
	"info": true, "todo": true, "tip": true, "hint": true, "important": true,
	"success": true, "check": true, "done": true,
	"question": true, "help": true, "faq": true,
	"warning": true, "caution": true, "attention": true,
	"failure": true, "fail": true, "missing": true,
	"danger": true, "error": true, "bug": true,
	"example": true,
}

type mdWriter struct {
	b     strings.Builder
	idMap map[string]string
}

func (w *mdWriter) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// nodes writes a content sequence. skip is the file-level drawer, already
// turned into front matter.
func (w *mdWriter) nodes(nodes []org.Node, skip *org.Drawer) {
	started := false
	for _, n := range nodes {
		if !started {
			// leading blank lines are dropped
			if l, ok := n.(*org.Line); ok && (l.Kind == org.LineBlank || l.Kind == org.LineKeyword) {
				continue
			}
			if d, ok := n.(*org.Drawer); ok && d == skip {
				continue
			}
			started = true
		}
		w.node(n)
	}
}

func (w *mdWriter) node(n org.Node) {
	switch n := n.(type) {
	case *org.Document:
		w.nodes(n.Content, nil)
	case *org.Section:
		w.section(n)
	case *org.Block:
		w.block(n)
	case *org.Drawer:
		// section drawers carry metadata only
	case *org.Line:
		w.contentLine(n)
	case *org.Paragraph:
		w.line(w.spans(n.Text))
	case *org.Table:
		w.table(n)
	}
}

func (w *mdWriter) section(s *org.Section) {
	hashes := strings.Repeat("#", s.Level)
	title := w.spans(s.Title)

	content := s.Content
	if s.Keyword == org.KeywordNone {
		w.line(strings.TrimRight(hashes+" "+title, " "))
		w.nodes(content, nil)
		return
	}

	checkbox := "[ ]"
	if s.Keyword == org.KeywordDONE {
		checkbox = "[x]"
	}
	w.line(hashes + " - " + checkbox + " " + title)

	// scheduling lines directly under a task come before its priority
	for len(content) > 0 {
		l, ok := content[0].(*org.Line)
		if !ok || l.Kind != org.LineMetadata {
			break
		}
		w.contentLine(l)
		content = content[1:]
	}
	if s.Priority != 0 {
		w.line("Priority: " + priorityLevel(s.Priority))
	}
	w.nodes(content, nil)
}

func priorityLevel(p rune) string {
	switch p {
	case 'A':
		return "high"
	case 'C':
		return "low"
	}
	return "medium"
}

func (w *mdWriter) block(b *org.Block) {
	typ := strings.ToLower(b.Type)
	switch {
	case typ == "src":
		lang := ""
		if fields := strings.Fields(b.Qualifier); len(fields) > 0 {
			lang = fields[0]
		}
		w.line("```" + lang)
		for _, l := range b.Content {
			w.line(l.Raw)
		}
		w.line("```")
	case typ == "quote":
		for _, l := range b.Content {
			w.line(strings.TrimRight("> "+strings.TrimSpace(l.Raw), " "))
		}
	case calloutTypes[typ]:
		// the block qualifier is the callout title
		w.line(strings.TrimRight("> [!"+typ+"] "+strings.TrimSpace(b.Qualifier), " "))
		for _, l := range b.Content {
			w.line(strings.TrimRight("> "+strings.TrimSpace(l.Raw), " "))
		}
		w.line("")
	case typ == "comment":
	case typ == "export":
		if q := strings.ToLower(strings.TrimSpace(b.Qualifier)); q == "markdown" || q == "md" {
			for _, l := range b.Content {
				w.line(l.Raw)
			}
		}
	default:
		for _, l := range b.Content {
			w.line(l.Raw)
		}
	}
}

func (w *mdWriter) contentLine(l *org.Line) {
	switch l.Kind {
	case org.LineBlank:
		w.line("")
	case org.LineParagraph:
		w.line(w.spans(l.Text))
	case org.LineUnorderedItem:
		w.line(listIndent(l) + "- " + w.spans(l.Text))
	case org.LineOrderedItem:
		bullet := strings.TrimSuffix(l.Bullet(), ")")
		bullet = strings.TrimSuffix(bullet, ".")
		w.line(listIndent(l) + bullet + ". " + w.spans(l.Text))
	case org.LineDefinitionItem:
		w.line(listIndent(l) + "- **" + w.spans(org.ParseInline(l.Term())) + "**: " + w.spans(l.Text))
	case org.LineMetadata:
		w.metadata(l.Raw)
	case org.LineComment:
		w.comment(l.Raw)
	case org.LineExample:
		w.line("    " + l.Body())
	case org.LineRule:
		w.line("---")
	case org.LineTableRow, org.LineTableSeparator:
		// only reachable when a caller builds lines by hand
		w.line(strings.TrimSpace(l.Raw))
	case org.LineHeadline, org.LineKeyword, org.LineBlockBegin, org.LineBlockEnd,
		org.LineDrawerBegin, org.LineDrawerEnd, org.LineDrawerItem:
	}
}

func listIndent(l *org.Line) string {
	return strings.Repeat(" ", l.Indent())
}

func (w *mdWriter) metadata(raw string) {
	for _, m := range plannedRe.FindAllStringSubmatch(raw, -1) {
		switch m[1] {
		case "SCHEDULED":
			w.line("⏳ " + m[2])
		case "DEADLINE":
			w.line("📅 " + m[2])
		case "CLOSED":
			w.line("✅ " + m[2])
		}
	}
}

// comment converts comment-style embeds (# EMBED: note → ![[note]]) and
// drops every other comment
func (w *mdWriter) comment(raw string) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "# EMBED:") {
		target := strings.TrimSpace(strings.TrimPrefix(trimmed, "# EMBED:"))
		w.line(fmt.Sprintf("![[%s]]", target))
	}
}

func (w *mdWriter) table(t *org.Table) {
	if len(t.Rows) == 0 {
		return
	}
	cols := 0
	for _, r := range t.Rows {
		if len(r.Cells) > cols {
			cols = len(r.Cells)
		}
	}

	rendered := make([][]string, len(t.Rows))
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	for i, r := range t.Rows {
		rendered[i] = make([]string, cols)
		for j, c := range r.Cells {
			text := strings.ReplaceAll(w.spans(c), "|", `\|`)
			rendered[i][j] = text
			if cw := runewidth.StringWidth(text); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for j, c := range cells {
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(c, widths[j]))
			b.WriteString(" |")
		}
		w.line(b.String())
	}

	// markdown tables always have a header; an org table without one uses
	// its first row
	writeRow(rendered[0])
	rule := make([]string, cols)
	for j := range rule {
		rule[j] = strings.Repeat("-", widths[j])
	}
	writeRow(rule)
	for _, r := range rendered[1:] {
		writeRow(r)
	}
}

// spans renders inline markup as markdown
func (w *mdWriter) spans(spans []org.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s := s.(type) {
		case org.Plain:
			b.WriteString(s.Text)
		case org.Bold:
			b.WriteString("**" + w.spans(s.Children) + "**")
		case org.Italic:
			b.WriteString("*" + w.spans(s.Children) + "*")
		case org.Underline:
			b.WriteString("<u>" + w.spans(s.Children) + "</u>")
		case org.Strike:
			b.WriteString("~~" + w.spans(s.Children) + "~~")
		case org.Superscript:
			b.WriteString("<sup>" + w.spans(s.Children) + "</sup>")
		case org.Subscript:
			b.WriteString("<sub>" + w.spans(s.Children) + "</sub>")
		case org.Code:
			b.WriteString("`" + s.Text + "`")
		case org.Verbatim:
			b.WriteString("`" + s.Text + "`")
		case org.Link:
			b.WriteString(w.link(s))
		}
	}
	return b.String()
}

// link converts org links: [[id:uuid][desc]] → [[filename|desc]],
// [[file:image.png]] → ![[image.png]], web links → [desc](url)
func (w *mdWriter) link(l org.Link) string {
	desc := w.spans(l.Description)
	switch {
	case strings.HasPrefix(l.Target, "id:"):
		id := strings.TrimPrefix(l.Target, "id:")
		filename, ok := w.idMap[id]
		if !ok {
			filename, ok = w.idMap[strings.ToLower(id)]
		}
		if !ok {
			filename = id
		}
		if desc != "" {
			return fmt.Sprintf("[[%s|%s]]", filename, desc)
		}
		return fmt.Sprintf("[[%s]]", filename)
	case strings.HasPrefix(l.Target, "file:"):
		path := strings.TrimPrefix(l.Target, "file:")
		if desc != "" {
			return fmt.Sprintf("[%s](%s)", desc, path)
		}
		return fmt.Sprintf("![[%s]]", path)
	case strings.HasPrefix(l.Target, "http://"), strings.HasPrefix(l.Target, "https://"):
		if desc != "" {
			return fmt.Sprintf("[%s](%s)", desc, l.Target)
		}
		return "<" + l.Target + ">"
	}
	if desc != "" {
		return fmt.Sprintf("[[%s|%s]]", l.Target, desc)
	}
	return fmt.Sprintf("[[%s]]", l.Target)
}
