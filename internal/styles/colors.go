package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, TODO
	Orange  = "#FC9867" // Warnings, priority
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success, DONE
	Cyan    = "#78DCE8" // Info, tags
	Blue    = "#AB9DF2" // Links, blocks
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	LabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	// Outline styles
	TodoStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Red))
	DoneStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Green))
	PriorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	TagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	BlockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
	GuideStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Border))

	// Table/list styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)

// NewRenderer creates a glamour renderer for the named style. "auto" or an
// empty name picks dark or light from the terminal background.
func NewRenderer(style string, wordWrap int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	return glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(wordWrap),
	)
}
