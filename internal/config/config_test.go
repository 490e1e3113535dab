package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("data:\n  menu: custom/menu.json\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}

	if cfg.Data.MenuPath != "custom/menu.json" {
		t.Errorf("expected menu path custom/menu.json, got %s", cfg.Data.MenuPath)
	}
	if cfg.Data.IntentsPath != "data/intents.json" {
		t.Errorf("expected default intents path, got %s", cfg.Data.IntentsPath)
	}
	if cfg.Dialogue.ConfidenceThreshold != 0.65 {
		t.Errorf("expected default threshold 0.65, got %v", cfg.Dialogue.ConfidenceThreshold)
	}
	if len(cfg.Dialogue.DirectIntents) != 2 {
		t.Errorf("expected 2 default direct intents, got %d", len(cfg.Dialogue.DirectIntents))
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("dialogue:\n  confidence_threshold: 1.5\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for threshold outside [0,1], got nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}
