package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gerunddev/orgtree/internal/org"
	"github.com/google/go-cmp/cmp"
)

// useConfigPath points ConfigPath at path for the duration of the test
func useConfigPath(t *testing.T, path string) {
	t.Helper()
	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = originalConfigPath
	})
}

func validConfig() *Config {
	return &Config{
		NotesDir:     "/path/to/notes",
		TodoKeywords: []string{"TODO", "DONE"},
		MaxDepth:     64,
		WordWrap:     80,
		GlamourStyle: "dark",
		LogLevel:     "info",
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NotesDir == "" {
		t.Error("Expected NotesDir to be set")
	}
	if diff := cmp.Diff([]string{"TODO", "DONE"}, cfg.TodoKeywords); diff != "" {
		t.Errorf("TodoKeywords mismatch (-want +got):\n%s", diff)
	}
	if cfg.MaxDepth != org.DefaultMaxDepth {
		t.Errorf("Expected MaxDepth %d, got %d", org.DefaultMaxDepth, cfg.MaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "empty notes_dir",
			modify:  func(c *Config) { c.NotesDir = "" },
			wantErr: true,
		},
		{
			name:    "no keywords",
			modify:  func(c *Config) { c.TodoKeywords = nil },
			wantErr: true,
		},
		{
			name:    "keyword with space",
			modify:  func(c *Config) { c.TodoKeywords = []string{"IN PROGRESS"} },
			wantErr: true,
		},
		{
			name:    "duplicate keyword",
			modify:  func(c *Config) { c.TodoKeywords = []string{"TODO", "TODO"} },
			wantErr: true,
		},
		{
			name:    "custom keywords",
			modify:  func(c *Config) { c.TodoKeywords = []string{"NEXT", "WAITING", "DONE"} },
			wantErr: false,
		},
		{
			name:    "depth too small",
			modify:  func(c *Config) { c.MaxDepth = 1 },
			wantErr: true,
		},
		{
			name:    "narrow word wrap",
			modify:  func(c *Config) { c.WordWrap = 5 },
			wantErr: true,
		},
		{
			name:    "unknown glamour style",
			modify:  func(c *Config) { c.GlamourStyle = "neon" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
		{
			name:    "empty log level means info",
			modify:  func(c *Config) { c.LogLevel = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "nested", "config.json")
	useConfigPath(t, testConfigPath)

	testCfg := validConfig()
	testCfg.NotesDir = filepath.Join(tmpDir, "notes")
	testCfg.LogFile = filepath.Join(tmpDir, "orgtree.log")
	testCfg.TodoKeywords = []string{"NEXT", "DONE"}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(testConfigPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if diff := cmp.Diff(testCfg, loadedCfg); diff != "" {
		t.Errorf("Loaded config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "nonexistent.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.WordWrap != defaultWordWrap {
		t.Errorf("Expected default word wrap %d, got %d", defaultWordWrap, cfg.WordWrap)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	useConfigPath(t, path)

	if err := os.WriteFile(path, []byte(`{"notes_dir": "/srv/notes", "max_depth": 8}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxDepth != 8 {
		t.Errorf("Expected MaxDepth 8, got %d", cfg.MaxDepth)
	}
	if cfg.GlamourStyle != defaultGlamourStyle {
		t.Errorf("omitted glamour_style should default, got %q", cfg.GlamourStyle)
	}
	if len(cfg.TodoKeywords) != 2 {
		t.Errorf("omitted todo_keywords should default, got %v", cfg.TodoKeywords)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"notes_dir": `},
		{"explicit zero depth", `{"max_depth": 0}`},
		{"bad style", `{"glamour_style": "neon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			useConfigPath(t, path)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := Load(); err == nil {
				t.Error("expected Load() to fail")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde expansion", "~/test", filepath.Join(homeDir, "test")},
		{"tilde only", "~", homeDir},
		{"absolute path", "/tmp/test", "/tmp/test"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if result != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.want)
			}
		})
	}
}

func TestConfigPathsExpanded(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.json"))

	testCfg := validConfig()
	testCfg.NotesDir = "~/org"
	testCfg.LogFile = "~/orgtree.log"

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.NotesDir[0] == '~' {
		t.Error("NotesDir was not expanded")
	}
	if loadedCfg.LogFile[0] == '~' {
		t.Error("LogFile was not expanded")
	}
}

func TestParserOptions(t *testing.T) {
	cfg := validConfig()
	cfg.TodoKeywords = []string{"NEXT", "DONE"}
	cfg.MaxDepth = 10

	doc := org.New(cfg.ParserOptions(nil)).Parse([]string{"* NEXT Call"})
	s := doc.Sections()
	if len(s) != 1 || s[0].Keyword != "NEXT" || s[0].TitleText() != "Call" {
		t.Errorf("configured keyword not recognised: %+v", s)
	}
}
