// Package zonegen generates small self-contained zone scenes: a tree-lined
// clearing with boundary exits and a handful of wandering NPCs. Generation
// is seeded and retried until an exit is provably reachable from the spawn.
package zonegen

import (
	"fmt"
	"math/rand"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
	"gridvale/internal/sim/pathfind"
	"gridvale/internal/world/scene"
	"gridvale/internal/world/tilemap"
	"gridvale/internal/world/tiles"
)

// Config controls zone generation.
type Config struct {
	Width       int
	Height      int
	TileSize    int
	Seed        int64
	TreeDensity float64 // interior tree probability per tile
	Exits       int     // boundary exit tiles to punch
	Wanderers   int
}

// DefaultConfig returns a sensible small zone.
func DefaultConfig(seed int64) Config {
	return Config{
		Width:       18,
		Height:      14,
		TileSize:    32,
		Seed:        seed,
		TreeDensity: 0.12,
		Exits:       2,
		Wanderers:   3,
	}
}

const (
	codeGrass = iota
	codeFlowers
	codeTree
	codeExit
)

var zoneLegend = map[int]tiles.Def{
	codeGrass:   {Name: "grass", Class: tiles.ClassPlain, ClassName: "plain", Sprite: "zone_grass"},
	codeFlowers: {Name: "flowers", Class: tiles.ClassDecor, ClassName: "decor", Sprite: "zone_flowers"},
	codeTree:    {Name: "tree", Class: tiles.ClassSolidNatural, ClassName: "solid_natural", Sprite: "zone_tree"},
	codeExit:    {Name: "exit", Class: tiles.ClassTransition, ClassName: "transition", Sprite: "zone_exit"},
}

// maxAttempts bounds the regenerate-until-reachable loop.
const maxAttempts = 16

// Generate builds a zone scene from the config. It retries with derived
// seeds until the spawn can reach an exit, and fails only if every attempt
// produced a sealed zone.
func Generate(cfg Config) (*scene.Scene, error) {
	if cfg.Width < 6 || cfg.Height < 6 {
		return nil, fmt.Errorf("zone too small: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	if cfg.Exits <= 0 {
		cfg.Exits = 1
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(attempt)))
		sc, err := generateOnce(cfg, rng, attempt)
		if err != nil {
			return nil, err
		}
		if pathfind.FindPathToExit(sc.Exits(), sc.PlayerSpawn, nil) != nil {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("no reachable exit after %d attempts (seed %d)", maxAttempts, cfg.Seed)
}

func generateOnce(cfg Config, rng *rand.Rand, attempt int) (*scene.Scene, error) {
	w, h := cfg.Width, cfg.Height
	codes := make([][]int, h)
	for y := range codes {
		codes[y] = make([]int, w)
		for x := range codes[y] {
			switch {
			case x == 0 || x == w-1 || y == 0 || y == h-1:
				codes[y][x] = codeTree
			case rng.Float64() < cfg.TreeDensity:
				codes[y][x] = codeTree
			case rng.Float64() < 0.08:
				codes[y][x] = codeFlowers
			default:
				codes[y][x] = codeGrass
			}
		}
	}

	spawn := motion.GridPos{X: w / 2, Y: h / 2}
	codes[spawn.Y][spawn.X] = codeGrass

	// Punch exit gaps into the border, avoiding corners, and clear the
	// tile just inside each gap so it is not sealed by its own border.
	for i := 0; i < cfg.Exits; i++ {
		if rng.Intn(2) == 0 {
			x := 1 + rng.Intn(w-2)
			y := 0
			if rng.Intn(2) == 0 {
				y = h - 1
			}
			codes[y][x] = codeExit
			if y == 0 {
				codes[1][x] = codeGrass
			} else {
				codes[h-2][x] = codeGrass
			}
		} else {
			y := 1 + rng.Intn(h-2)
			x := 0
			if rng.Intn(2) == 0 {
				x = w - 1
			}
			codes[y][x] = codeExit
			if x == 0 {
				codes[y][1] = codeGrass
			} else {
				codes[y][w-2] = codeGrass
			}
		}
	}

	m, err := tilemap.New(fmt.Sprintf("zone-%d", cfg.Seed), cfg.TileSize, codes, zoneLegend)
	if err != nil {
		return nil, fmt.Errorf("zone generation: %w", err)
	}

	sc := &scene.Scene{
		ID:           fmt.Sprintf("zone-%d-%d", cfg.Seed, attempt),
		Name:         "Wild Zone",
		Kind:         scene.KindZone,
		Map:          m,
		PlayerSpawn:  spawn,
		PlayerFacing: motion.DirDown,
	}

	placed := 0
	for try := 0; try < cfg.Wanderers*10 && placed < cfg.Wanderers; try++ {
		pos := motion.GridPos{X: 1 + rng.Intn(w-2), Y: 1 + rng.Intn(h-2)}
		if codes[pos.Y][pos.X] != codeGrass || pos == spawn {
			continue
		}
		taken := false
		for _, e := range sc.Entities {
			if e.Motion.Pos == pos {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		id := fmt.Sprintf("zone-wanderer-%d", placed)
		e := entity.New(id, "Drifter", entity.VariantWanderer, pos, motion.DirDown)
		e.Sprite = "npc_drifter"
		e.Lines = []string{"The wind out here never settles."}
		sc.Entities = append(sc.Entities, e)
		placed++
	}

	return sc, nil
}
