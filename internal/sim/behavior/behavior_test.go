package behavior

import (
	"math/rand"
	"testing"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
)

// worldStub is a small open field with entity collision, mirroring what the
// loop driver hands the scheduler every tick.
type worldStub struct {
	w, h int
	dir  *entity.Directory
}

func (ws *worldStub) context(dt float64) *Context {
	return &Context{
		Walkable: func(x, y int) bool {
			return x >= 0 && x < ws.w && y >= 0 && y < ws.h
		},
		Occupied:  ws.dir.OccupiedByOther,
		PlayerPos: motion.GridPos{X: -10, Y: -10},
		Dt:        dt,
	}
}

func TestWandererWaitsOutCooldown(t *testing.T) {
	e := entity.New("w", "W", entity.VariantWanderer, motion.GridPos{X: 2, Y: 2}, motion.DirDown)
	dir, _ := entity.NewDirectory([]*entity.Entity{e})
	ws := &worldStub{w: 5, h: 5, dir: dir}

	s := NewScheduler(rand.New(rand.NewSource(1)))

	// Before the minimum cooldown has elapsed no step may start.
	elapsed := 0.0
	for elapsed < wanderCooldownMin-0.05 {
		s.Tick(e, ws.context(0.05))
		elapsed += 0.05
		if e.Motion.Moving {
			t.Fatalf("Expected no step before %.1fs, moved at %.2fs", wanderCooldownMin, elapsed)
		}
	}

	// Within the maximum cooldown plus retry margin a step must happen.
	for elapsed < wanderCooldownMax+wanderRetry*8 && !e.Motion.Moving {
		s.Tick(e, ws.context(0.05))
		elapsed += 0.05
	}
	if !e.Motion.Moving {
		t.Error("Expected the wanderer to step eventually")
	}
}

func TestWanderersNeverOverlap(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		var roster []*entity.Entity
		// Nine wanderers crowded on a 4x4 field.
		id := 0
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				e := entity.New(
					string(rune('a'+id)), "W", entity.VariantWanderer,
					motion.GridPos{X: x, Y: y}, motion.DirDown,
				)
				roster = append(roster, e)
				id++
			}
		}
		dir, err := entity.NewDirectory(roster)
		if err != nil {
			t.Fatal(err)
		}
		ws := &worldStub{w: 4, h: 4, dir: dir}
		s := NewScheduler(rand.New(rand.NewSource(seed)))

		for tick := 0; tick < 2000; tick++ {
			dir.RebuildOccupancy()
			ctx := ws.context(0.05)
			for _, e := range roster {
				e.Motion.Advance(0.05, 0.18)
				wasMoving := e.Motion.Moving
				s.Tick(e, ctx)
				if !wasMoving && e.Motion.Moving {
					// The loop driver claims approved destinations
					// mid-tick, between index rebuilds.
					dir.Claim(e.Motion.Target, e.ID)
				}
			}

			claimed := make(map[motion.GridPos]string)
			for _, e := range roster {
				tiles := []motion.GridPos{e.Motion.Pos}
				if e.Motion.Moving {
					tiles = append(tiles, e.Motion.Target)
				}
				for _, p := range tiles {
					if other, taken := claimed[p]; taken && other != e.ID {
						t.Fatalf("seed %d tick %d: tile %v claimed by %s and %s", seed, tick, p, other, e.ID)
					}
					claimed[p] = e.ID
				}
			}
		}
	}
}

func TestPatrolFollowsRouteAndDwells(t *testing.T) {
	e := entity.New("p", "P", entity.VariantPatrol, motion.GridPos{X: 1, Y: 1}, motion.DirRight)
	e.Route = []motion.Direction{motion.DirRight, motion.DirDown, motion.DirLeft, motion.DirUp}
	dir, _ := entity.NewDirectory([]*entity.Entity{e})
	ws := &worldStub{w: 5, h: 5, dir: dir}

	s := NewScheduler(rand.New(rand.NewSource(7)))

	// First tick: no dwell pending, the first route step starts at once.
	s.Tick(e, ws.context(0.05))
	if !e.Motion.Moving {
		t.Fatal("Expected the first route step to start")
	}
	if e.Motion.Target != (motion.GridPos{X: 2, Y: 1}) {
		t.Errorf("Expected step right to (2,1), got %v", e.Motion.Target)
	}
	if e.RouteIndex != 1 {
		t.Errorf("Expected route index 1 after approved step, got %d", e.RouteIndex)
	}

	// Complete the step; the arrival tick arms the dwell timer.
	e.Motion.Advance(1.0, 0.18)
	s.Tick(e, ws.context(0.01))
	if e.Motion.Moving {
		t.Error("Expected dwell before the next step")
	}

	// Stay put until the dwell drains.
	elapsed := 0.0
	for elapsed < PatrolDwell+0.1 && !e.Motion.Moving {
		s.Tick(e, ws.context(0.05))
		elapsed += 0.05
	}
	if !e.Motion.Moving {
		t.Fatal("Expected the second route step after dwell")
	}
	if e.Motion.Target != (motion.GridPos{X: 2, Y: 2}) {
		t.Errorf("Expected step down to (2,2), got %v", e.Motion.Target)
	}
}

func TestPatrolHoldsRouteIndexWhenBlocked(t *testing.T) {
	e := entity.New("p", "P", entity.VariantPatrol, motion.GridPos{X: 1, Y: 1}, motion.DirRight)
	e.Route = []motion.Direction{motion.DirRight, motion.DirDown}
	blocker := entity.New("b", "B", entity.VariantStatic, motion.GridPos{X: 2, Y: 1}, motion.DirDown)
	dir, _ := entity.NewDirectory([]*entity.Entity{e, blocker})
	ws := &worldStub{w: 5, h: 5, dir: dir}

	s := NewScheduler(rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		s.Tick(e, ws.context(0.05))
	}
	if e.Motion.Moving {
		t.Error("Expected the blocked patroller to hold position")
	}
	if e.RouteIndex != 0 {
		t.Errorf("Expected route index to hold at 0, got %d", e.RouteIndex)
	}
	if e.Motion.Facing != motion.DirRight {
		t.Errorf("Expected facing to stay toward the blocked step, got %s", e.Motion.Facing)
	}
}

func TestStaticNeverMoves(t *testing.T) {
	e := entity.New("s", "S", entity.VariantStatic, motion.GridPos{X: 2, Y: 2}, motion.DirDown)
	dir, _ := entity.NewDirectory([]*entity.Entity{e})
	ws := &worldStub{w: 5, h: 5, dir: dir}
	s := NewScheduler(rand.New(rand.NewSource(3)))

	for i := 0; i < 500; i++ {
		s.Tick(e, ws.context(0.05))
	}
	if e.Motion.Pos != (motion.GridPos{X: 2, Y: 2}) || e.Motion.Moving {
		t.Error("Expected a static entity to stay put")
	}
}

func TestSightTriggeredAlongFacing(t *testing.T) {
	e := entity.New("t", "T", entity.VariantTrainer, motion.GridPos{X: 1, Y: 3}, motion.DirRight)
	e.SightRange = 4

	ctx := &Context{PlayerPos: motion.GridPos{X: 4, Y: 3}}
	if !SightTriggered(e, ctx) {
		t.Error("Expected player on the sight ray to trigger")
	}

	ctx.PlayerPos = motion.GridPos{X: 4, Y: 2}
	if SightTriggered(e, ctx) {
		t.Error("Expected player off the ray to not trigger")
	}

	ctx.PlayerPos = motion.GridPos{X: 6, Y: 3}
	if SightTriggered(e, ctx) {
		t.Error("Expected player past the sight range to not trigger")
	}
}

func TestSightBlockedByTile(t *testing.T) {
	e := entity.New("t", "T", entity.VariantTrainer, motion.GridPos{X: 1, Y: 3}, motion.DirRight)
	e.SightRange = 4

	ctx := &Context{
		PlayerPos: motion.GridPos{X: 4, Y: 3},
		BlocksSight: func(x, y int) bool {
			return x == 3 && y == 3
		},
	}
	if SightTriggered(e, ctx) {
		t.Error("Expected a sight-blocking tile to stop the ray")
	}
}
