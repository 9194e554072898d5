package zonegen

import (
	"testing"

	"gridvale/internal/sim/pathfind"
	"gridvale/internal/world/tiles"
)

func TestGenerateAlwaysReachesAnExit(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		sc, err := Generate(DefaultConfig(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		path := pathfind.FindPathToExit(sc.Exits(), sc.PlayerSpawn, nil)
		if path == nil {
			t.Errorf("seed %d: no path from spawn to any exit", seed)
		}
	}
}

func TestGenerateSpawnIsClear(t *testing.T) {
	sc, err := Generate(DefaultConfig(42))
	if err != nil {
		t.Fatal(err)
	}
	if !sc.Map.Walkable(sc.PlayerSpawn.X, sc.PlayerSpawn.Y) {
		t.Error("Expected the spawn tile to be walkable")
	}
	for _, e := range sc.Entities {
		if e.Motion.Pos == sc.PlayerSpawn {
			t.Errorf("Entity %s placed on the player spawn", e.ID)
		}
	}
}

func TestGenerateBoundaryIsSealedExceptExits(t *testing.T) {
	sc, err := Generate(DefaultConfig(7))
	if err != nil {
		t.Fatal(err)
	}
	m := sc.Map
	for x := 0; x < m.Width; x++ {
		for _, y := range []int{0, m.Height - 1} {
			if c := m.At(x, y).Class; c != tiles.ClassSolidNatural && c != tiles.ClassTransition {
				t.Errorf("Boundary tile (%d,%d) is %s", x, y, c)
			}
		}
	}
	for y := 0; y < m.Height; y++ {
		for _, x := range []int{0, m.Width - 1} {
			if c := m.At(x, y).Class; c != tiles.ClassSolidNatural && c != tiles.ClassTransition {
				t.Errorf("Boundary tile (%d,%d) is %s", x, y, c)
			}
		}
	}
}

func TestGenerateEntityPlacement(t *testing.T) {
	cfg := DefaultConfig(3)
	sc, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Entities) > cfg.Wanderers {
		t.Errorf("Expected at most %d wanderers, got %d", cfg.Wanderers, len(sc.Entities))
	}
	seen := make(map[[2]int]bool)
	for _, e := range sc.Entities {
		p := [2]int{e.Motion.Pos.X, e.Motion.Pos.Y}
		if seen[p] {
			t.Errorf("Two entities share tile %v", p)
		}
		seen[p] = true
		if !sc.Map.Walkable(e.Motion.Pos.X, e.Motion.Pos.Y) {
			t.Errorf("Entity %s on unwalkable tile %v", e.ID, p)
		}
	}
}

func TestGenerateRejectsTinyZones(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.Width = 3
	if _, err := Generate(cfg); err == nil {
		t.Error("Expected error for a zone below the minimum size")
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a, err := Generate(DefaultConfig(9))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(DefaultConfig(9))
	if err != nil {
		t.Fatal(err)
	}

	if a.Map.Width != b.Map.Width || a.Map.Height != b.Map.Height {
		t.Fatal("Expected identical dimensions for the same seed")
	}
	for y := 0; y < a.Map.Height; y++ {
		for x := 0; x < a.Map.Width; x++ {
			if a.Map.At(x, y).Name != b.Map.At(x, y).Name {
				t.Fatalf("Tile (%d,%d) differs between runs of the same seed", x, y)
			}
		}
	}
	if len(a.Entities) != len(b.Entities) {
		t.Errorf("Entity count differs: %d vs %d", len(a.Entities), len(b.Entities))
	}
}
