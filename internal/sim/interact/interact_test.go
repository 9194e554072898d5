package interact

import (
	"testing"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
	"gridvale/internal/world/scene"
	"gridvale/internal/world/tilemap"
	"gridvale/internal/world/tiles"
)

// testScene builds a small room: open floor, a counter strip, a sign, and a
// structure with a door.
//
//	. . . . . . .
//	. . C . S . .
//	. . . . . . .
func testScene(t *testing.T) *scene.Scene {
	t.Helper()

	legend := map[int]tiles.Def{
		0: {Name: "floor", Class: tiles.ClassPlain, ClassName: "plain"},
		1: {Name: "counter", Class: tiles.ClassFurniture, ClassName: "furniture"},
		2: {Name: "sign", Class: tiles.ClassInteractive, Kind: tiles.KindSign, ClassName: "interactive"},
		3: {Name: "wall", Class: tiles.ClassSolidStructure, ClassName: "solid_structure"},
	}
	codes := [][]int{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 2, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 3, 0, 0, 0, 3, 0},
		{0, 0, 0, 0, 0, 0, 0},
	}
	m, err := tilemap.New("interact-test", 32, codes, legend)
	if err != nil {
		t.Fatal(err)
	}

	return &scene.Scene{
		ID:  "test",
		Map: m,
		Signs: []*scene.Sign{
			{Pos: motion.GridPos{X: 4, Y: 1}, Kind: tiles.KindSign, Lines: []string{"FRESH BREAD", "Closed on rest days."}},
		},
		Furniture: []*scene.Furniture{
			{ID: "counter", X: 2, Y: 1, Width: 1, Height: 1, Lines: []string{"A polished counter."}},
		},
		Structures: []*scene.Structure{
			{ID: "hut", Name: "Hut", X: 5, Y: 3, Width: 1, Height: 1, Door: motion.GridPos{X: 5, Y: 3}, Interior: "hut"},
		},
	}
}

func emptyDirectory(t *testing.T) *entity.Directory {
	t.Helper()
	d, err := entity.NewDirectory(nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestResolveNothingWhileMoving(t *testing.T) {
	sc := testScene(t)
	dir := emptyDirectory(t)

	player := motion.NewState(motion.GridPos{X: 4, Y: 2}, motion.DirUp)
	player.TryStep(motion.DirLeft, func(x, y int) bool { return true }, nil)

	if got := Resolve(&player, sc, dir); !got.IsZero() {
		t.Errorf("Expected no target mid-step, got %s", got.Label())
	}
}

func TestResolveSignOneTileAhead(t *testing.T) {
	sc := testScene(t)
	dir := emptyDirectory(t)

	player := motion.NewState(motion.GridPos{X: 4, Y: 2}, motion.DirUp)
	got := Resolve(&player, sc, dir)
	if got.Sign == nil {
		t.Fatalf("Expected the sign, got %s", got.Label())
	}
	if len(got.Sign.Lines) != 2 {
		t.Errorf("Expected 2 sign lines, got %d", len(got.Sign.Lines))
	}
}

func TestResolveEntityBehindCounter(t *testing.T) {
	sc := testScene(t)
	clerk := entity.New("clerk", "Clerk", entity.VariantStatic, motion.GridPos{X: 2, Y: 0}, motion.DirDown)
	dir, err := entity.NewDirectory([]*entity.Entity{clerk})
	if err != nil {
		t.Fatal(err)
	}

	// Player south of the counter, facing north: the registered counter
	// span resolves before anything behind it.
	player := motion.NewState(motion.GridPos{X: 2, Y: 2}, motion.DirUp)
	got := Resolve(&player, sc, dir)
	if got.Furniture == nil {
		t.Fatalf("Expected the counter first, got %s", got.Label())
	}
}

func TestResolveScansThroughFurnitureTile(t *testing.T) {
	sc := testScene(t)
	// Remove the registered furniture so only the tile remains.
	sc.Furniture = nil

	clerk := entity.New("clerk", "Clerk", entity.VariantStatic, motion.GridPos{X: 2, Y: 0}, motion.DirDown)
	dir, err := entity.NewDirectory([]*entity.Entity{clerk})
	if err != nil {
		t.Fatal(err)
	}

	player := motion.NewState(motion.GridPos{X: 2, Y: 2}, motion.DirUp)
	got := Resolve(&player, sc, dir)
	if got.Entity == nil {
		t.Fatalf("Expected the clerk through the counter tile, got %s", got.Label())
	}
	if got.Entity.ID != "clerk" {
		t.Errorf("Expected clerk, got %s", got.Entity.ID)
	}
}

func TestResolveStopsAtBlockingTile(t *testing.T) {
	sc := testScene(t)
	ghost := entity.New("ghost", "Ghost", entity.VariantStatic, motion.GridPos{X: 1, Y: 2}, motion.DirDown)
	dir, err := entity.NewDirectory([]*entity.Entity{ghost})
	if err != nil {
		t.Fatal(err)
	}

	// Plain wall at (1,3) between the player and the entity beyond it.
	player := motion.NewState(motion.GridPos{X: 1, Y: 4}, motion.DirUp)
	if got := Resolve(&player, sc, dir); !got.IsZero() {
		t.Errorf("Expected the wall to stop the scan, got %s", got.Label())
	}
}

func TestResolveDoor(t *testing.T) {
	sc := testScene(t)
	dir := emptyDirectory(t)

	player := motion.NewState(motion.GridPos{X: 5, Y: 4}, motion.DirUp)
	got := Resolve(&player, sc, dir)
	if got.Structure == nil || got.Structure.ID != "hut" {
		t.Fatalf("Expected the hut door, got %s", got.Label())
	}
}

func TestResolveNothingInOpenField(t *testing.T) {
	sc := testScene(t)
	dir := emptyDirectory(t)

	player := motion.NewState(motion.GridPos{X: 0, Y: 4}, motion.DirDown)
	if got := Resolve(&player, sc, dir); !got.IsZero() {
		t.Errorf("Expected nothing south of the player, got %s", got.Label())
	}
}

func TestResolveLookaheadLimit(t *testing.T) {
	sc := testScene(t)
	far := entity.New("far", "Far", entity.VariantStatic, motion.GridPos{X: 0, Y: 1}, motion.DirDown)
	dir, err := entity.NewDirectory([]*entity.Entity{far})
	if err != nil {
		t.Fatal(err)
	}

	// Three tiles away: past the lookahead.
	player := motion.NewState(motion.GridPos{X: 3, Y: 1}, motion.DirLeft)
	got := Resolve(&player, sc, dir)
	if got.Entity != nil {
		t.Error("Expected entities past the lookahead to be unreachable")
	}
}
