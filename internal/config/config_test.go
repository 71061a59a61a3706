package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/promptfile/internal/options"
)

func TestLoadFromPathReadsAllSections(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".promptfile.yaml")
	content := `profile: structured-output
library:
  path: "data/prompts.db"
logging:
  level: debug
  file: "/tmp/promptfile.log"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProfileValue() != options.StructuredOutput {
		t.Fatalf("expected structured-output profile, got %q", cfg.Profile)
	}
	if want := filepath.Join(tmp, "data", "prompts.db"); cfg.Library.Path != want {
		t.Fatalf("library path = %q, want %q", cfg.Library.Path, want)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/tmp/promptfile.log" {
		t.Fatalf("unexpected logging config: %#v", cfg.Logging)
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProfileValue() != options.Generation {
		t.Fatalf("expected generation profile, got %q", cfg.Profile)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected info level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromPathRejectsUnknownProfile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".promptfile.yaml")
	if err := os.WriteFile(cfgPath, []byte("profile: chatty\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadFromPath(cfgPath)
	if !errors.Is(err, options.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestLoadFromPathMalformedYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".promptfile.yaml")
	if err := os.WriteFile(cfgPath, []byte("profile: [unclosed\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadFromPath(cfgPath)
	if err == nil || !strings.HasPrefix(err.Error(), "failed to parse config "+cfgPath) {
		t.Fatalf("expected parse failure for %s, got %v", cfgPath, err)
	}
}

func TestSaveToPathRoundTrip(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", ".promptfile.yaml")
	cfg := DefaultConfig()
	cfg.Profile = string(options.StructuredOutput)
	cfg.Library.Path = "/var/lib/promptfile/library.db"

	if err := cfg.SaveToPath(cfgPath); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.Profile != cfg.Profile || loaded.Library.Path != cfg.Library.Path {
		t.Fatalf("round trip mismatch: %#v", loaded)
	}
}
