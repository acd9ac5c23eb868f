package diff

import (
	"fmt"
	"path/filepath"

	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/org"
	"github.com/gerunddev/orgtree/internal/source"
	"github.com/gerunddev/orgtree/internal/styles"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Options controls how a diff is produced and rendered
type Options struct {
	// Parser parses both files; the default parser when nil
	Parser *org.Parser
	// Style is a glamour style name; "auto" or empty picks one from the terminal
	Style string
	// WordWrap is the render width
	WordWrap int
	// Plain skips glamour and returns the fenced unified diff
	Plain bool
}

// DefaultOptions returns the options used by Generate
func DefaultOptions() Options {
	return Options{
		Style:    "auto",
		WordWrap: 120,
	}
}

// Generate creates a diff between the markdown exports of two org files
func Generate(oldPath, newPath string, idMap map[string]string) (string, error) {
	return GenerateWith(oldPath, newPath, idMap, DefaultOptions())
}

// GenerateWith is Generate with explicit options
func GenerateWith(oldPath, newPath string, idMap map[string]string, opts Options) (string, error) {
	p := opts.Parser
	if p == nil {
		p = org.New(org.DefaultOptions())
	}

	oldMd, err := export(p, oldPath, idMap)
	if err != nil {
		return "", err
	}
	newMd, err := export(p, newPath, idMap)
	if err != nil {
		return "", err
	}

	unified := Unified(filepath.Base(oldPath), filepath.Base(newPath), oldMd, newMd)
	if unified == "" {
		return "", nil
	}

	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)
	if opts.Plain {
		return diffMarkdown, nil
	}

	renderer, err := styles.NewRenderer(opts.Style, opts.WordWrap)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown, nil
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown, nil
	}

	return rendered, nil
}

// Unified returns the unified diff of two texts, empty when they are equal
func Unified(oldName, newName, oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

func export(p *org.Parser, path string, idMap map[string]string) (string, error) {
	lines, err := source.ReadFile(path)
	if err != nil {
		return "", err
	}
	md, err := convert.ToMarkdown(p.Parse(lines), idMap)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s to markdown: %w", path, err)
	}
	// trailing newline keeps the last hunk free of "No newline" markers
	return md + "\n", nil
}
