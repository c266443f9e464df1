package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxArgsHint != 4 {
		t.Fatalf("got %d", cfg.MaxArgsHint)
	}
	if cfg.Journal.Enabled {
		t.Fatal("journal should be disabled by default")
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genfunc.yaml")
	contents := "matchingMethodsLimit: 25\njournal:\n  enabled: true\n  path: /tmp/j.db\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MatchingMethodsLimit != 25 {
		t.Fatalf("got %d", cfg.MatchingMethodsLimit)
	}
	if cfg.MaxArgsHint != 4 {
		t.Fatalf("expected default MaxArgsHint preserved, got %d", cfg.MaxArgsHint)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/j.db" {
		t.Fatalf("got %+v", cfg.Journal)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/genfunc.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
