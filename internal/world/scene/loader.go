package scene

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
	"gridvale/internal/world/tilemap"
	"gridvale/internal/world/tiles"
)

// entityData is the roster entry format.
type entityData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Variant string `json:"variant"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Facing  string `json:"facing"`
	Sprite  string `json:"sprite"`

	Lines    []string `json:"lines"`
	ScriptID string   `json:"script"`

	SightRange        int      `json:"sight_range"`
	Route             []string `json:"route"`
	ExitAfterDialogue bool     `json:"exit_after_dialogue"`
}

type structureData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DoorX    int    `json:"door_x"`
	DoorY    int    `json:"door_y"`
	Interior string `json:"interior"`
}

type signData struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Kind    string   `json:"kind"` // "sign" or "grave"
	Speaker string   `json:"speaker"`
	Lines   []string `json:"lines"`
}

type spawnData struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Facing string `json:"facing"`
}

type exitLinkData struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Target string    `json:"target"`
	Spawn  spawnData `json:"spawn"`
}

// sceneData is the on-disk scene format. The map lives in its own file,
// referenced relative to the scene file's directory.
type sceneData struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	MapFile    string          `json:"map"`
	Spawn      spawnData       `json:"player_spawn"`
	Entities   []entityData    `json:"entities"`
	Structures []structureData `json:"structures"`
	Signs      []signData      `json:"signs"`
	Exits      []exitLinkData  `json:"exits"`
}

// Load reads a scene bundle file and its referenced map.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	var data sceneData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	if data.MapFile == "" {
		return nil, fmt.Errorf("scene %s: missing map file", path)
	}

	m, err := tilemap.Load(filepath.Join(filepath.Dir(path), data.MapFile))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}

	return build(&data, m)
}

func build(data *sceneData, m *tilemap.Map) (*Scene, error) {
	s := &Scene{
		ID:   data.ID,
		Name: data.Name,
		Kind: Kind(data.Kind),
		Map:  m,
	}
	if s.Kind == "" {
		s.Kind = KindOverworld
	}

	facing, err := motion.ParseDirection(orDefault(data.Spawn.Facing, "down"))
	if err != nil {
		return nil, fmt.Errorf("scene %s: player spawn: %w", s.ID, err)
	}
	s.PlayerSpawn = motion.GridPos{X: data.Spawn.X, Y: data.Spawn.Y}
	s.PlayerFacing = facing
	if !m.Walkable(s.PlayerSpawn.X, s.PlayerSpawn.Y) {
		return nil, fmt.Errorf("scene %s: player spawn (%d,%d) is not walkable", s.ID, s.PlayerSpawn.X, s.PlayerSpawn.Y)
	}

	for _, ed := range data.Entities {
		e, err := buildEntity(ed)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", s.ID, err)
		}
		s.Entities = append(s.Entities, e)
	}

	// A broken structure is dropped with a warning rather than failing the
	// whole scene; the map tiles underneath still block normally.
	for _, sd := range data.Structures {
		st := &Structure{
			ID:       sd.ID,
			Name:     sd.Name,
			X:        sd.X,
			Y:        sd.Y,
			Width:    sd.Width,
			Height:   sd.Height,
			Door:     motion.GridPos{X: sd.DoorX, Y: sd.DoorY},
			Interior: sd.Interior,
		}
		if err := st.Validate(); err != nil {
			log.Printf("Warning: scene %s: dropping structure: %v", s.ID, err)
			continue
		}
		s.Structures = append(s.Structures, st)
	}

	for _, sg := range data.Signs {
		kind := tiles.InteractiveKind(orDefault(sg.Kind, string(tiles.KindSign)))
		if kind != tiles.KindSign && kind != tiles.KindGrave {
			log.Printf("Warning: scene %s: dropping sign at (%d,%d) with kind %q", s.ID, sg.X, sg.Y, sg.Kind)
			continue
		}
		s.Signs = append(s.Signs, &Sign{
			Pos:     motion.GridPos{X: sg.X, Y: sg.Y},
			Kind:    kind,
			Speaker: sg.Speaker,
			Lines:   sg.Lines,
		})
	}

	for _, ex := range data.Exits {
		pos := motion.GridPos{X: ex.X, Y: ex.Y}
		if !m.IsTransition(pos.X, pos.Y) {
			return nil, fmt.Errorf("scene %s: exit at (%d,%d) is not on a transition tile", s.ID, pos.X, pos.Y)
		}
		if ex.Target == "" {
			return nil, fmt.Errorf("scene %s: exit at (%d,%d) has no target", s.ID, pos.X, pos.Y)
		}
		facing, err := motion.ParseDirection(orDefault(ex.Spawn.Facing, "down"))
		if err != nil {
			return nil, fmt.Errorf("scene %s: exit at (%d,%d): %w", s.ID, pos.X, pos.Y, err)
		}
		s.ExitLinks = append(s.ExitLinks, &ExitLink{
			Pos:    pos,
			Target: ex.Target,
			Spawn:  motion.GridPos{X: ex.Spawn.X, Y: ex.Spawn.Y},
			Facing: facing,
		})
	}

	return s, nil
}

func buildEntity(ed entityData) (*entity.Entity, error) {
	if ed.ID == "" {
		return nil, fmt.Errorf("entity %q has no id", ed.Name)
	}

	variant, err := entity.ParseVariant(ed.Variant)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", ed.ID, err)
	}
	facing, err := motion.ParseDirection(orDefault(ed.Facing, "down"))
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", ed.ID, err)
	}

	e := entity.New(ed.ID, ed.Name, variant, motion.GridPos{X: ed.X, Y: ed.Y}, facing)
	e.Sprite = ed.Sprite
	e.Lines = ed.Lines
	e.ScriptID = ed.ScriptID
	e.ExitAfterDialogue = ed.ExitAfterDialogue

	if variant == entity.VariantTrainer {
		e.SightRange = ed.SightRange
		if e.SightRange <= 0 {
			e.SightRange = 4
		}
	}

	if variant == entity.VariantPatrol {
		if len(ed.Route) == 0 {
			return nil, fmt.Errorf("entity %s: patrol variant with empty route", ed.ID)
		}
		for _, step := range ed.Route {
			dir, err := motion.ParseDirection(step)
			if err != nil {
				return nil, fmt.Errorf("entity %s route: %w", ed.ID, err)
			}
			e.Route = append(e.Route, dir)
		}
	}

	return e, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
