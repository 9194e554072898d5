package scene

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gridvale/internal/world/tilemap"
	"gridvale/internal/world/tiles"
)

// Interior rooms use a fixed four-value legend instead of a full map
// legend.
const (
	interiorFloor = iota
	interiorWall
	interiorFurniture
	interiorExit
)

var interiorLegend = map[int]tiles.Def{
	interiorFloor:     {Name: "floor", Class: tiles.ClassPlain, ClassName: "plain", Sprite: "interior_floor"},
	interiorWall:      {Name: "wall", Class: tiles.ClassSolidStructure, ClassName: "solid_structure", Sprite: "interior_wall"},
	interiorFurniture: {Name: "furniture", Class: tiles.ClassFurniture, ClassName: "furniture", Sprite: "interior_furniture"},
	interiorExit:      {Name: "exit", Class: tiles.ClassTransition, ClassName: "transition", Sprite: "interior_exit"},
}

type furnitureData struct {
	ID                string   `json:"id"`
	X                 int      `json:"x"`
	Y                 int      `json:"y"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	Speaker           string   `json:"speaker"`
	Lines             []string `json:"lines"`
	Script            string   `json:"script"`
	ExitAfterDialogue bool     `json:"exit_after_dialogue"`
}

// interiorData is the on-disk interior format: a compact room grid with an
// inline tile array and a furniture-interaction registry.
type interiorData struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TileSize  int             `json:"tile_size"`
	Tiles     [][]int         `json:"tiles"`
	Spawn     spawnData       `json:"player_spawn"`
	Entities  []entityData    `json:"entities"`
	Furniture []furnitureData `json:"furniture"`
}

// LoadInterior reads an interior room scene.
func LoadInterior(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interior file %s: %w", path, err)
	}

	var data interiorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse interior file %s: %w", path, err)
	}

	tileSize := data.TileSize
	if tileSize <= 0 {
		tileSize = 32
	}

	for y, row := range data.Tiles {
		for x, code := range row {
			if _, ok := interiorLegend[code]; !ok {
				return nil, fmt.Errorf("interior %s: unknown room code %d at (%d,%d)", data.ID, code, x, y)
			}
		}
	}

	m, err := tilemap.New(data.Name, tileSize, data.Tiles, interiorLegend)
	if err != nil {
		return nil, fmt.Errorf("interior %s: %w", data.ID, err)
	}

	s, err := build(&sceneData{
		ID:       data.ID,
		Name:     data.Name,
		Kind:     string(KindInterior),
		Spawn:    data.Spawn,
		Entities: data.Entities,
	}, m)
	if err != nil {
		return nil, err
	}

	for _, fd := range data.Furniture {
		w, h := fd.Width, fd.Height
		if w <= 0 {
			w = 1
		}
		if h <= 0 {
			h = 1
		}
		f := &Furniture{
			ID:      fd.ID,
			X:       fd.X,
			Y:       fd.Y,
			Width:   w,
			Height:  h,
			Speaker: fd.Speaker,
			Lines:   fd.Lines,
		}
		if !m.InBounds(f.X, f.Y) {
			log.Printf("Warning: interior %s: dropping furniture %s at (%d,%d): out of bounds", data.ID, f.ID, f.X, f.Y)
			continue
		}
		f.ScriptID = fd.Script
		f.ExitAfterDialogue = fd.ExitAfterDialogue
		s.Furniture = append(s.Furniture, f)
	}

	return s, nil
}
