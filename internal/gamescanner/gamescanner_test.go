package gamescanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, name, body string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsBundles(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "alpha", `{"name": "Alpha", "start": "town", "scenes": {"town": "town.json"}}`)
	writeManifest(t, root, "beta", `{"start": "field", "scenes": {"field": "field.json"}}`)

	// A directory without a manifest is not a bundle.
	if err := os.MkdirAll(filepath.Join(root, "sprites"), 0o755); err != nil {
		t.Fatal(err)
	}
	// A stray file at the root is ignored.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	worlds, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(worlds) != 2 {
		t.Fatalf("Expected 2 worlds, got %d", len(worlds))
	}
	if worlds[0].ID != "alpha" || worlds[1].ID != "beta" {
		t.Errorf("Expected [alpha beta], got [%s %s]", worlds[0].ID, worlds[1].ID)
	}
	if worlds[0].Name != "Alpha" {
		t.Errorf("Expected manifest name, got %q", worlds[0].Name)
	}
	// Name falls back to the directory name.
	if worlds[1].Name != "beta" {
		t.Errorf("Expected fallback name beta, got %q", worlds[1].Name)
	}
}

func TestScanSkipsBrokenManifests(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "good", `{"start": "a", "scenes": {"a": "a.json"}}`)
	writeManifest(t, root, "garbled", `{not json`)
	writeManifest(t, root, "no-start", `{"scenes": {"a": "a.json"}}`)
	writeManifest(t, root, "dangling-start", `{"start": "missing", "scenes": {"a": "a.json"}}`)

	worlds, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(worlds) != 1 {
		t.Fatalf("Expected only the good bundle, got %d", len(worlds))
	}
	if worlds[0].ID != "good" {
		t.Errorf("Expected good, got %s", worlds[0].ID)
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for a missing data root")
	}
}

func TestSceneFile(t *testing.T) {
	w := &World{
		ID:        "w",
		Dir:       "/data/w",
		Scenes:    map[string]string{"town": "town.json"},
		Interiors: map[string]string{"house": "interiors/house.json"},
	}

	path, interior, err := w.SceneFile("town")
	if err != nil {
		t.Fatal(err)
	}
	if interior {
		t.Error("Expected town to be an exterior scene")
	}
	if path != filepath.Join("/data/w", "town.json") {
		t.Errorf("Unexpected path %s", path)
	}

	path, interior, err = w.SceneFile("house")
	if err != nil {
		t.Fatal(err)
	}
	if !interior {
		t.Error("Expected house to be an interior")
	}
	if path != filepath.Join("/data/w", "interiors", "house.json") {
		t.Errorf("Unexpected path %s", path)
	}

	if _, _, err := w.SceneFile("void"); err == nil {
		t.Error("Expected error for an unknown scene id")
	}
}
