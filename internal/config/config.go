// Package config loads the application config from a YAML file. A missing
// file is not an error; every field has a working default so the binary
// runs from a bare checkout.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Window is the logical window configuration.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config is the full application configuration.
type Config struct {
	Window Window `yaml:"window"`

	// DataDir is the root directory scanned for world bundles.
	DataDir string `yaml:"data_dir"`

	// MoveDuration is the seconds one tile step takes.
	MoveDuration float64 `yaml:"move_duration"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window:       Window{Width: 640, Height: 480, Title: "Gridvale"},
		DataDir:      "data",
		MoveDuration: 0.18,
	}
}

// Load reads a config file over the defaults. A missing file returns the
// defaults with a log note; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("No config file at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.MoveDuration <= 0 {
		cfg.MoveDuration = Default().MoveDuration
	}
	return cfg, nil
}
