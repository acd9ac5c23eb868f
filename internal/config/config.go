package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/gerunddev/orgtree/internal/logger"
	"github.com/gerunddev/orgtree/internal/org"
)

// Config represents the orgtree configuration
type Config struct {
	NotesDir     string   `json:"notes_dir"`
	TodoKeywords []string `json:"todo_keywords"`
	MaxDepth     int      `json:"max_depth"`
	WordWrap     int      `json:"word_wrap"`
	GlamourStyle string   `json:"glamour_style"`
	LogFile      string   `json:"log_file,omitempty"`
	LogLevel     string   `json:"log_level,omitempty"`
}

const (
	defaultWordWrap     = 100
	defaultGlamourStyle = "auto"
)

var glamourStyles = map[string]bool{
	"auto":        true,
	"ascii":       true,
	"dark":        true,
	"dracula":     true,
	"light":       true,
	"notty":       true,
	"pink":        true,
	"tokyo-night": true,
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		NotesDir:     filepath.Join(home, "org"),
		TodoKeywords: []string{string(org.KeywordTODO), string(org.KeywordDONE)},
		MaxDepth:     org.DefaultMaxDepth,
		WordWrap:     defaultWordWrap,
		GlamourStyle: defaultGlamourStyle,
		LogLevel:     "info",
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "orgtree", "config.json")
	}
	return filepath.Join(home, ".config", "orgtree", "config.json")
}

// IndexFilePath returns the path to the ID index
// Uses platform-specific XDG data directory
// Can be overridden for testing
var IndexFilePath = func() string {
	return filepath.Join(xdg.DataHome, "orgtree", "index.json")
}

// Load reads configuration from the config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.ExpandPaths(); err != nil {
				return nil, fmt.Errorf("failed to expand paths: %w", err)
			}
			return cfg, nil
		}
		return nil, err
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	// Pointers tell an omitted number apart from an explicit zero
	var raw struct {
		NotesDir     string   `json:"notes_dir"`
		TodoKeywords []string `json:"todo_keywords"`
		MaxDepth     *int     `json:"max_depth"`
		WordWrap     *int     `json:"word_wrap"`
		GlamourStyle string   `json:"glamour_style"`
		LogFile      string   `json:"log_file"`
		LogLevel     string   `json:"log_level"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.NotesDir != "" {
		cfg.NotesDir = raw.NotesDir
	}
	if raw.TodoKeywords != nil {
		cfg.TodoKeywords = raw.TodoKeywords
	}
	if raw.MaxDepth != nil {
		cfg.MaxDepth = *raw.MaxDepth
	}
	if raw.WordWrap != nil {
		cfg.WordWrap = *raw.WordWrap
	}
	if raw.GlamourStyle != "" {
		cfg.GlamourStyle = raw.GlamourStyle
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	cfg.LogFile = raw.LogFile

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.NotesDir == "" {
		return fmt.Errorf("notes_dir cannot be empty")
	}
	if len(c.TodoKeywords) == 0 {
		return fmt.Errorf("todo_keywords cannot be empty")
	}
	seen := make(map[string]bool)
	for _, k := range c.TodoKeywords {
		if k == "" || strings.ContainsAny(k, " \t") {
			return fmt.Errorf("invalid todo keyword '%s': must be a single word", k)
		}
		if seen[k] {
			return fmt.Errorf("duplicate todo keyword '%s'", k)
		}
		seen[k] = true
	}
	if c.MaxDepth < 2 {
		return fmt.Errorf("max_depth must be at least 2")
	}
	if c.WordWrap < 20 {
		return fmt.Errorf("word_wrap must be at least 20")
	}
	if !glamourStyles[c.GlamourStyle] {
		return fmt.Errorf("invalid glamour_style '%s': must be one of: auto, ascii, dark, dracula, light, notty, pink, tokyo-night", c.GlamourStyle)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': %w", c.LogLevel, err)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.NotesDir, err = expandPath(c.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to expand notes_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// ParserOptions returns the parser options the configuration describes
func (c *Config) ParserOptions(log *logger.Logger) org.Options {
	return org.Options{
		Keywords: c.TodoKeywords,
		MaxDepth: c.MaxDepth,
		Logger:   log,
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
