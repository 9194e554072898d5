// Package tilemap loads and queries the tile grid a scene is built on.
// All lookups are bounds-checked: coordinates outside the grid, or codes
// missing from the legend, resolve to a solid blocking tile so a malformed
// map can never crash the simulation loop.
package tilemap

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gridvale/internal/world/tiles"
)

// Data is the on-disk map format.
type Data struct {
	Name     string               `json:"name"`
	Width    int                  `json:"width"`
	Height   int                  `json:"height"`
	TileSize int                  `json:"tile_size"` // rendered tile size in pixels
	Legend   map[string]tiles.Def `json:"legend"`    // tile code -> definition
	Tiles    [][]int              `json:"tiles"`     // 2D array of tile codes [y][x]
}

// Map is a loaded, validated tile grid.
type Map struct {
	Name     string
	Width    int
	Height   int
	TileSize int

	codes  [][]int
	legend map[int]tiles.Def
}

// Load reads a map from a JSON file.
func Load(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse map file %s: %w", path, err)
	}

	m, err := FromData(&data)
	if err != nil {
		return nil, fmt.Errorf("invalid map data in %s: %w", path, err)
	}
	return m, nil
}

// FromData validates raw map data and builds a Map.
func FromData(data *Data) (*Map, error) {
	if data.Width <= 0 || data.Height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}
	if data.TileSize <= 0 {
		return nil, fmt.Errorf("invalid tile size: %d", data.TileSize)
	}
	if len(data.Tiles) != data.Height {
		return nil, fmt.Errorf("tiles array height mismatch: expected %d, got %d", data.Height, len(data.Tiles))
	}
	for y, row := range data.Tiles {
		if len(row) != data.Width {
			return nil, fmt.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, data.Width, len(row))
		}
	}

	legend := make(map[int]tiles.Def, len(data.Legend))
	for key, def := range data.Legend {
		code, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("legend key %q is not a tile code", key)
		}
		class, err := tiles.ParseClass(def.ClassName)
		if err != nil {
			return nil, fmt.Errorf("legend code %d: %w", code, err)
		}
		def.Class = class
		legend[code] = def
	}

	m := &Map{
		Name:     data.Name,
		Width:    data.Width,
		Height:   data.Height,
		TileSize: data.TileSize,
		codes:    data.Tiles,
		legend:   legend,
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// New builds a Map directly from a code grid and legend. Used by the zone
// generator and by tests.
func New(name string, tileSize int, codes [][]int, legend map[int]tiles.Def) (*Map, error) {
	if len(codes) == 0 || len(codes[0]) == 0 {
		return nil, fmt.Errorf("empty tile grid")
	}
	m := &Map{
		Name:     name,
		Width:    len(codes[0]),
		Height:   len(codes),
		TileSize: tileSize,
		codes:    codes,
		legend:   legend,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Map) validate() error {
	for y, row := range m.codes {
		if len(row) != m.Width {
			return fmt.Errorf("row %d width mismatch: expected %d, got %d", y, m.Width, len(row))
		}
		for x, code := range row {
			if _, ok := m.legend[code]; !ok {
				return fmt.Errorf("tile code %d at (%d,%d) missing from legend", code, x, y)
			}
		}
	}

	// Transition tiles only occur on the map boundary.
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y).Class != tiles.ClassTransition {
				continue
			}
			if x != 0 && x != m.Width-1 && y != 0 && y != m.Height-1 {
				return fmt.Errorf("transition tile at (%d,%d) is not on the map boundary", x, y)
			}
		}
	}
	return nil
}

// InBounds reports whether (x, y) is inside the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the tile definition at (x, y). Out-of-range coordinates and
// codes missing from the legend come back as tiles.Solid.
func (m *Map) At(x, y int) tiles.Def {
	if !m.InBounds(x, y) {
		return tiles.Solid
	}
	def, ok := m.legend[m.codes[y][x]]
	if !ok {
		return tiles.Solid
	}
	return def
}

// Walkable reports whether the tile at (x, y) can be stood on.
func (m *Map) Walkable(x, y int) bool {
	return m.At(x, y).Walkable()
}

// BlocksSight reports whether the tile at (x, y) stops a sight ray.
func (m *Map) BlocksSight(x, y int) bool {
	return m.At(x, y).BlocksSight()
}

// IsTransition reports whether the tile at (x, y) leaves the scene.
func (m *Map) IsTransition(x, y int) bool {
	return m.At(x, y).Class == tiles.ClassTransition
}

// PixelSize returns the map dimensions in pixels.
func (m *Map) PixelSize() (w, h int) {
	return m.Width * m.TileSize, m.Height * m.TileSize
}

// Transitions returns the coordinates of every transition tile.
func (m *Map) Transitions() [][2]int {
	var out [][2]int
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.IsTransition(x, y) {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}
