package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gerunddev/orgtree/internal/config"
	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/diff"
	"github.com/gerunddev/orgtree/internal/index"
	"github.com/gerunddev/orgtree/internal/styles"
	"github.com/gerunddev/orgtree/internal/tui"
)

// Tree prints the parsed document tree of a file
func Tree(args []string) {
	run(func(w io.Writer, e *env) error { return runTree(w, e, args) })
}

// Markdown exports a file to markdown, on stdout or with -o to a file
func Markdown(args []string) {
	run(func(w io.Writer, e *env) error { return runMarkdown(w, e, args) })
}

// View renders a file's markdown export in the terminal
func View(args []string) {
	run(func(w io.Writer, e *env) error { return runView(w, e, args) })
}

// Browse opens the interactive outline browser for a file
func Browse(args []string) {
	run(func(w io.Writer, e *env) error {
		if err := requireArgs(args, 1, "browse FILE"); err != nil {
			return err
		}
		doc, err := e.parseFile(args[0])
		if err != nil {
			return err
		}
		return tui.RunBrowserWith(doc, filepath.Base(args[0]), tui.BrowseOptions{
			IDMap:        e.idMap(),
			GlamourStyle: e.cfg.GlamourStyle,
			WordWrap:     e.cfg.WordWrap,
		})
	})
}

// Diff shows how the markdown export of a file changed
func Diff(args []string) {
	run(func(w io.Writer, e *env) error { return runDiff(w, e, args) })
}

// Index rebuilds the ID index for a directory, the notes dir by default
func Index(args []string) {
	run(func(w io.Writer, e *env) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runIndex(ctx, w, e, args)
	})
}

func runTree(w io.Writer, e *env, args []string) error {
	if err := requireArgs(args, 1, "tree FILE"); err != nil {
		return err
	}
	doc, err := e.parseFile(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, tui.RenderTree(doc, filepath.Base(args[0])))
	return err
}

func runMarkdown(w io.Writer, e *env, args []string) error {
	var input, output string
	for i := 0; i < len(args); i++ {
		switch {
		case (args[i] == "-o" || args[i] == "--out") && i+1 < len(args):
			output = args[i+1]
			i++
		case input == "":
			input = args[i]
		}
	}
	if input == "" {
		return requireArgs(nil, 1, "md FILE [-o OUT]")
	}

	doc, err := e.parseFile(input)
	if err != nil {
		return err
	}
	md, err := convert.ToMarkdown(doc, e.idMap())
	if err != nil {
		return err
	}

	if output == "" {
		_, err = fmt.Fprintln(w, md)
		return err
	}
	if err := os.WriteFile(output, []byte(md+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintln(w, styles.SuccessStyle.Render("✓ Wrote "+output))
	return nil
}

func runView(w io.Writer, e *env, args []string) error {
	if err := requireArgs(args, 1, "view FILE"); err != nil {
		return err
	}
	doc, err := e.parseFile(args[0])
	if err != nil {
		return err
	}
	md, err := convert.ToMarkdown(doc, e.idMap())
	if err != nil {
		return err
	}

	renderer, err := styles.NewRenderer(e.cfg.GlamourStyle, e.cfg.WordWrap)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func runDiff(w io.Writer, e *env, args []string) error {
	if err := requireArgs(args, 2, "diff OLD NEW"); err != nil {
		return err
	}
	out, err := diff.GenerateWith(args[0], args[1], e.idMap(), diff.Options{
		Parser:   e.parser,
		Style:    e.cfg.GlamourStyle,
		WordWrap: e.cfg.WordWrap,
	})
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Fprintln(w, styles.DimStyle.Render("No differences"))
		return nil
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func runIndex(ctx context.Context, w io.Writer, e *env, args []string) error {
	dir := e.cfg.NotesDir
	if len(args) > 0 {
		dir = args[0]
	}

	path := config.IndexFilePath()
	prev, err := index.Load(path)
	if err != nil {
		e.log.Warn("ignoring unreadable index", "path", path, "error", err)
		prev = index.New()
	}

	idx, result, err := index.NewBuilder(e.parser, e.log).Build(ctx, dir, prev)
	if err != nil {
		return err
	}
	if err := idx.Save(path); err != nil {
		return err
	}

	fmt.Fprintln(w, styles.SuccessStyle.Render("✓ "+result.String()))
	fmt.Fprintln(w, styles.DimStyle.Render(fmt.Sprintf("  %d IDs → %s", len(idx.IDMap), path)))
	for _, id := range result.Duplicates {
		fmt.Fprintln(w, styles.WarningStyle.Render("⚠ duplicate ID "+id))
	}
	for _, err := range result.Errors {
		fmt.Fprintln(w, styles.ErrorStyle.Render("✗ "+err.Error()))
	}
	return nil
}
