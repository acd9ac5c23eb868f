package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gerunddev/orgtree/internal/config"
	"github.com/gerunddev/orgtree/internal/index"
	"github.com/gerunddev/orgtree/internal/logger"
	"github.com/gerunddev/orgtree/internal/org"
	"github.com/gerunddev/orgtree/internal/source"
	"github.com/gerunddev/orgtree/internal/styles"
)

// env is what every command needs: configuration, a logger and a parser
// built from them
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	parser  *org.Parser
	cleanup func()
}

// loadEnv loads the configuration and sets up structured logging. Without a
// log file only warnings and errors reach stderr.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, cleanup: func() {}}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		e.log, e.cleanup = l, cleanup
	} else {
		e.log = logger.NewWithLevel(os.Stderr, max(level, log.WarnLevel))
	}

	e.log.ConfigLoaded(cfg.NotesDir, cfg.TodoKeywords, cfg.MaxDepth)
	e.parser = org.New(cfg.ParserOptions(e.log))
	return e, nil
}

// parseFile reads and parses one org file
func (e *env) parseFile(path string) (*org.Document, error) {
	start := time.Now()
	lines, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := e.parser.Parse(lines)
	e.log.ParseCompleted(path, len(lines), len(doc.Sections()), time.Since(start))
	return doc, nil
}

// idMap returns the ID index built by the index command. A missing or
// unreadable index leaves links unresolved rather than failing the command.
func (e *env) idMap() map[string]string {
	idx, err := index.Load(config.IndexFilePath())
	if err != nil {
		e.log.Warn("failed to load index", "error", err)
		return map[string]string{}
	}
	return idx.IDMap
}

// fail prints a styled error and exits
func fail(err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
	os.Exit(1)
}

// run loads the environment, runs fn and exits on error
func run(fn func(w io.Writer, e *env) error) {
	e, err := loadEnv()
	if err != nil {
		fail(err)
	}
	err = fn(os.Stdout, e)
	e.cleanup()
	if err != nil {
		fail(err)
	}
}

// requireArgs checks the positional argument count
func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: orgtree %s", usage)
	}
	return nil
}
