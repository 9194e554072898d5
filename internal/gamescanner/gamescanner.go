// Package gamescanner discovers world bundles: subdirectories of the data
// root that carry a world.json manifest. Broken manifests are skipped with
// a warning so one bad bundle cannot hide the rest.
package gamescanner

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a directory as a world bundle.
const ManifestName = "world.json"

// World is one discovered bundle.
type World struct {
	// ID is the bundle directory name.
	ID string `json:"-"`
	// Dir is the absolute bundle directory.
	Dir string `json:"-"`

	Name  string `json:"name"`
	Start string `json:"start"`

	// Scenes and Interiors map scene ids to files relative to Dir.
	Scenes    map[string]string `json:"scenes"`
	Interiors map[string]string `json:"interiors"`

	// Scripts is the dialogue library file, relative to Dir. Optional.
	Scripts string `json:"scripts"`

	// Sprites is the sprite directory, relative to Dir. Optional.
	Sprites string `json:"sprites"`
}

// SceneFile resolves a scene id to its absolute file path and reports
// whether it is an interior.
func (w *World) SceneFile(id string) (path string, interior bool, err error) {
	if f, ok := w.Scenes[id]; ok {
		return filepath.Join(w.Dir, f), false, nil
	}
	if f, ok := w.Interiors[id]; ok {
		return filepath.Join(w.Dir, f), true, nil
	}
	return "", false, fmt.Errorf("world %s: unknown scene %q", w.ID, id)
}

// Scan walks the data root for world bundles, sorted by directory name.
func Scan(root string) ([]*World, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var worlds []*World
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		w, err := load(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			log.Printf("Warning: skipping world bundle %s: %v", dir, err)
			continue
		}
		w.ID = e.Name()
		worlds = append(worlds, w)
	}
	return worlds, nil
}

func load(dir string) (*World, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}

	var w World
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	w.Dir = dir

	if w.Start == "" {
		return nil, fmt.Errorf("manifest has no start scene")
	}
	if _, ok := w.Scenes[w.Start]; !ok {
		return nil, fmt.Errorf("start scene %q not in scenes", w.Start)
	}
	if w.Name == "" {
		w.Name = filepath.Base(dir)
	}
	return &w, nil
}
