package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/orgtree/internal/commands"
	"github.com/gerunddev/orgtree/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "tree":
		commands.Tree(os.Args[2:])
	case "md", "markdown":
		commands.Markdown(os.Args[2:])
	case "view":
		commands.View(os.Args[2:])
	case "browse":
		commands.Browse(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "index":
		commands.Index(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("orgtree v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`orgtree - Parse org-mode files into a document tree

Usage:
  orgtree <command> [options]

Commands:
  tree FILE         Print the parsed document tree
  md FILE [-o OUT]  Export to markdown
  view FILE         Render the markdown export in the terminal
  browse FILE       Browse the outline interactively
  diff OLD NEW      Diff the markdown exports of two files
  index [DIR]       Index org-roam IDs (default: notes_dir)
  version           Show version information
  help              Show this help message

Examples:
  orgtree tree notes/project.org
  orgtree md notes/project.org -o project.md
  orgtree browse notes/project.org
  orgtree diff old.org new.org
  orgtree index ~/org

Configuration:
  Config file: %s
  Index file:  %s
`, config.ConfigPath(), config.IndexFilePath())
	fmt.Print(usage)
}
