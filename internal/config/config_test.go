package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("Unexpected default window %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.DataDir != "data" {
		t.Errorf("Unexpected default data dir %q", cfg.DataDir)
	}
	if cfg.MoveDuration != 0.18 {
		t.Errorf("Unexpected default move duration %v", cfg.MoveDuration)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "window:\n  width: 800\n  height: 600\ndata_dir: worlds\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("Expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.DataDir != "worlds" {
		t.Errorf("Expected worlds, got %q", cfg.DataDir)
	}
	// Unset fields keep their defaults.
	if cfg.Window.Title != "Gridvale" {
		t.Errorf("Expected default title, got %q", cfg.Window.Title)
	}
	if cfg.MoveDuration != 0.18 {
		t.Errorf("Expected default move duration, got %v", cfg.MoveDuration)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("window: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadRejectsInvalidWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("window:\n  width: -1\n  height: 480\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for a negative window width")
	}
}

func TestLoadClampsMoveDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("move_duration: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MoveDuration != 0.18 {
		t.Errorf("Expected the default move duration, got %v", cfg.MoveDuration)
	}
}
