package pathfind

import (
	"testing"

	"gridvale/internal/sim/motion"
)

// gridStub is a rune-grid test double: '.' walkable, '#' solid, 'X' exit.
type gridStub struct {
	rows []string
}

func (g *gridStub) InBounds(x, y int) bool {
	return y >= 0 && y < len(g.rows) && x >= 0 && x < len(g.rows[y])
}

func (g *gridStub) Walkable(x, y int) bool {
	return g.InBounds(x, y) && g.rows[y][x] != '#'
}

func (g *gridStub) IsTransition(x, y int) bool {
	return g.InBounds(x, y) && g.rows[y][x] == 'X'
}

func TestFindPathToExitShortest(t *testing.T) {
	g := &gridStub{rows: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"##X##",
	}}

	path := FindPathToExit(g, motion.GridPos{X: 2, Y: 1}, nil)
	if path == nil {
		t.Fatal("Expected a path to the exit")
	}

	want := []motion.GridPos{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4}}
	if len(path) != len(want) {
		t.Fatalf("Expected path length %d, got %d (%v)", len(want), len(path), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Step %d: expected %v, got %v", i, want[i], path[i])
		}
	}
}

func TestFindPathToExitExcludesStart(t *testing.T) {
	g := &gridStub{rows: []string{
		"###",
		"#.#",
		"#X#",
	}}
	path := FindPathToExit(g, motion.GridPos{X: 1, Y: 1}, nil)
	if len(path) != 1 {
		t.Fatalf("Expected single-step path, got %v", path)
	}
	if path[0] != (motion.GridPos{X: 1, Y: 2}) {
		t.Errorf("Expected exit step (1,2), got %v", path[0])
	}
}

func TestFindPathToExitOnExitTile(t *testing.T) {
	g := &gridStub{rows: []string{"X"}}
	path := FindPathToExit(g, motion.GridPos{}, nil)
	if path == nil {
		t.Fatal("Expected non-nil path when starting on an exit")
	}
	if len(path) != 0 {
		t.Errorf("Expected empty path, got %v", path)
	}
}

func TestFindPathToExitUnreachable(t *testing.T) {
	g := &gridStub{rows: []string{
		"#####",
		"#.#X#",
		"#####",
	}}
	if path := FindPathToExit(g, motion.GridPos{X: 1, Y: 1}, nil); path != nil {
		t.Errorf("Expected nil for sealed grid, got %v", path)
	}
}

func TestFindPathToExitHonorsBlocked(t *testing.T) {
	g := &gridStub{rows: []string{
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"##X##",
	}}
	// Block the direct column; the path must detour.
	blocked := map[motion.GridPos]bool{{X: 2, Y: 1}: true, {X: 2, Y: 3}: false}
	path := FindPathToExit(g, motion.GridPos{X: 1, Y: 1}, blocked)
	if path == nil {
		t.Fatal("Expected a detour path")
	}
	for _, p := range path {
		if blocked[p] {
			t.Errorf("Path crosses blocked tile %v", p)
		}
	}
	if path[len(path)-1] != (motion.GridPos{X: 2, Y: 4}) {
		t.Errorf("Expected path to end on the exit, got %v", path[len(path)-1])
	}
}

func TestWalkerReachesExit(t *testing.T) {
	g := &gridStub{rows: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"##X##",
	}}
	ms := motion.NewState(motion.GridPos{X: 2, Y: 1}, motion.DirDown)
	w := NewWalker(g, ms.Pos)
	if w == nil {
		t.Fatal("Expected a walker")
	}

	never := func(motion.GridPos) bool { return false }

	arrived := false
	for i := 0; i < 100; i++ {
		if w.Tick(&ms, never, never) == WalkArrived {
			arrived = true
			break
		}
		ms.Advance(1.0, 0.18) // complete any issued step immediately
	}
	if !arrived {
		t.Fatal("Expected the walker to arrive within the tick limit")
	}
	if ms.Pos != (motion.GridPos{X: 2, Y: 4}) {
		t.Errorf("Expected to stand on the exit (2,4), got %v", ms.Pos)
	}
}

func TestWalkerReroutesAroundPlayer(t *testing.T) {
	g := &gridStub{rows: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"##X##",
	}}
	ms := motion.NewState(motion.GridPos{X: 2, Y: 1}, motion.DirDown)
	w := NewWalker(g, ms.Pos)
	if w == nil {
		t.Fatal("Expected a walker")
	}

	playerTile := motion.GridPos{X: 2, Y: 2}
	playerAt := func(p motion.GridPos) bool { return p == playerTile }
	never := func(motion.GridPos) bool { return false }

	visited := []motion.GridPos{ms.Pos}
	for i := 0; i < 100; i++ {
		status := w.Tick(&ms, playerAt, never)
		if status == WalkArrived {
			break
		}
		if ms.Advance(1.0, 0.18) {
			visited = append(visited, ms.Pos)
		}
	}

	if ms.Pos != (motion.GridPos{X: 2, Y: 4}) {
		t.Fatalf("Expected arrival at (2,4), got %v", ms.Pos)
	}
	for _, p := range visited {
		if p == playerTile {
			t.Errorf("Walker stepped onto the player's tile %v", p)
		}
	}
}

func TestWalkerStallsWhenSealedByPlayer(t *testing.T) {
	// Single-width corridor; the player stands in the only way through.
	g := &gridStub{rows: []string{
		"###",
		"#.#",
		"#.#",
		"#X#",
	}}
	ms := motion.NewState(motion.GridPos{X: 1, Y: 1}, motion.DirDown)
	w := NewWalker(g, ms.Pos)
	if w == nil {
		t.Fatal("Expected a walker")
	}

	playerAt := func(p motion.GridPos) bool { return p == motion.GridPos{X: 1, Y: 2} }
	never := func(motion.GridPos) bool { return false }

	if status := w.Tick(&ms, playerAt, never); status != WalkStalled {
		t.Errorf("Expected WalkStalled, got %v", status)
	}
	if ms.Moving {
		t.Error("Expected no step while stalled")
	}

	// Player moves on; the walk resumes.
	if status := w.Tick(&ms, never, never); status != WalkMoving {
		t.Errorf("Expected WalkMoving after unblocking, got %v", status)
	}
}

func TestNewWalkerNilWhenNoExit(t *testing.T) {
	g := &gridStub{rows: []string{
		"###",
		"#.#",
		"###",
	}}
	if w := NewWalker(g, motion.GridPos{X: 1, Y: 1}); w != nil {
		t.Error("Expected nil walker for a sealed grid")
	}
}
