package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
	"golang.org/x/text/language"

	"epubnav/settings"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Navigator.Debounce() != 100*time.Millisecond {
		t.Errorf("Debounce() = %v, want 100ms", cfg.Navigator.Debounce())
	}
	if cfg.Navigator.PositionLength != 1024 {
		t.Errorf("PositionLength = %d, want 1024", cfg.Navigator.PositionLength)
	}
	if len(cfg.Storage.Path) != 0 {
		t.Errorf("Storage.Path = %q, want in-memory default", cfg.Storage.Path)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state", "reading.db")
	configPath := writeConfig(t, `version: 1
navigator:
  debounce_ms: 250
  position_length: 512
  locale: fr
  fonts: ["Literata"]
  named_colors:
    paper: "#fdf6e3"
  default_preferences:
    theme: sepia
    fontSize: 1.2
storage:
  path: `+dbPath+`
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Navigator.Debounce() != 250*time.Millisecond {
		t.Errorf("Debounce() = %v, want 250ms", cfg.Navigator.Debounce())
	}
	if cfg.Navigator.PositionLength != 512 {
		t.Errorf("PositionLength = %d, want 512", cfg.Navigator.PositionLength)
	}
	if cfg.Navigator.Language() != language.French {
		t.Errorf("Language() = %v, want fr", cfg.Navigator.Language())
	}
	if cfg.Storage.Path != dbPath {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, dbPath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}

	// colors from file are added to default ones
	palette, err := cfg.Navigator.Palette()
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := palette.Lookup("paper"); !ok || c != settings.RGB(0xfd, 0xf6, 0xe3) {
		t.Errorf("paper = %v, %v", c, ok)
	}
	if _, ok := palette.Lookup("black"); !ok {
		t.Error("default named colors are lost")
	}

	defaults := cfg.Navigator.Defaults()
	if v, ok := defaults.Raw("theme"); !ok || v != "sepia" {
		t.Errorf("default theme = %v", v)
	}
	if v, ok := defaults.Raw("fontSize"); !ok || v != 1.2 {
		t.Errorf("default fontSize = %v", v)
	}

	opts, err := cfg.Navigator.SettingsOptions()
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Fonts) != 2 || !opts.Fonts[0].IsOriginal() || opts.Fonts[1].Name != "Literata" {
		t.Errorf("Fonts = %v", opts.Fonts)
	}
	if h := opts.Typefaces.Humanist; len(h) == 0 || h[0] != "Seravek" || h[len(h)-1] != "sans-serif" {
		t.Errorf("Typefaces.Humanist = %v, want default stack", h)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"yaml", "version: 1\nnavigator:\n  debounce_ms: 100\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"version", "version: 2\n"},
		{"debounce", "version: 1\nnavigator:\n  debounce_ms: 0\n"},
		{"position length", "version: 1\nnavigator:\n  position_length: 10\n"},
		{"locale", "version: 1\nnavigator:\n  locale: \"not a tag!\"\n"},
		{"short color", "version: 1\nnavigator:\n  named_colors:\n    red: \"#f00\"\n"},
		{"bad color", "version: 1\nnavigator:\n  named_colors:\n    red: \"#gg0000\"\n"},
		{"empty font", "version: 1\nnavigator:\n  fonts: [\"\"]\n"},
		{"console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
		{"name template", "version: 1\noutput:\n  positions_name_template: \"{{ .Title \"\n"},
		{"empty name template", "version: 1\noutput:\n  positions_name_template: \"\"\n"},
		{"empty typeface", "version: 1\nnavigator:\n  typefaces:\n    sans: [\"\"]\n"},
		{"cover width", "version: 1\noutput:\n  cover:\n    width: 8\n"},
		{"cover format", "version: 1\noutput:\n  cover:\n    format: gif\n"},
		{"cover quality", "version: 1\noutput:\n  cover:\n    jpeg_quality_level: 101\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	if _, err = unmarshalConfig(data, cfg2, true); err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Navigator.DebounceMS != cfg.Navigator.DebounceMS {
		t.Errorf("Debounce mismatch after dump/load: got %v, want %v", cfg2.Navigator.DebounceMS, cfg.Navigator.DebounceMS)
	}
	if len(cfg2.Navigator.NamedColors) != len(cfg.Navigator.NamedColors) {
		t.Errorf("NamedColors mismatch after dump/load: got %v", cfg2.Navigator.NamedColors)
	}
}

func TestNavigatorConfig_Fallbacks(t *testing.T) {
	conf := NavigatorConfig{Locale: "???"}
	if conf.Language() != language.English {
		t.Errorf("Language() = %v, want en", conf.Language())
	}
	opts, err := conf.SettingsOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Fonts != nil {
		t.Errorf("Fonts = %v, want factory defaults", opts.Fonts)
	}
	if !conf.Defaults().IsEmpty() {
		t.Error("Defaults() should be empty")
	}

	conf.NamedColors = map[string]string{"bad": "red"}
	if _, err := conf.Palette(); err == nil {
		t.Error("Palette() should fail on malformed color")
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	data := []byte("version: 99\n")

	_, err := unmarshalConfig(data, &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error (errors.Unwrap non-nil), got bare error: %v", err)
	}
}

func TestLoadConfiguration_TemplateNotExpanded(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(cfg.Output.PositionsNameTemplate, "{{ .Title") {
		t.Errorf("positions name template was expanded: %q", cfg.Output.PositionsNameTemplate)
	}
	data, err := Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "{{ .Title | default .SourceFile }}") {
		t.Error("default configuration lost positions name template")
	}
	if _, err := ParseTemplate(PositionsNameTemplateFieldName, cfg.Output.PositionsNameTemplate); err != nil {
		t.Errorf("ParseTemplate() error: %v", err)
	}
}
