// Package behavior drives per-tick NPC decisions. Each behavior variant
// produces at most one step intent per tick, resolved through the standard
// movement contract; the scheduler never touches an entity that is mid-step.
package behavior

import (
	"math/rand"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
)

// Wander timing. A blocked pick re-arms on the short retry cooldown so the
// wanderer does not freeze in crowded corners.
const (
	wanderCooldownMin = 1.2
	wanderCooldownMax = 3.0
	wanderRetry       = 0.4
)

// PatrolDwell is how long a patroller rests on each route tile.
const PatrolDwell = 0.8

// Context is the per-tick world view handed to the scheduler. The scheduler
// holds no long-lived reference to scene state.
type Context struct {
	// Walkable is the NPC terrain predicate: in-bounds, walkable class, not
	// a structure interior, and not a transition tile (NPCs leave scenes
	// only via the exit pathfinder).
	Walkable func(x, y int) bool

	// Occupied reports whether a tile is claimed by an entity other than
	// the one named.
	Occupied func(pos motion.GridPos, selfID string) bool

	// BlocksSight reports whether a tile stops a trainer's sight ray.
	BlocksSight func(x, y int) bool

	// Player tiles. Both the current and (while moving) destination tile
	// are off limits to NPC steps.
	PlayerPos    motion.GridPos
	PlayerTarget motion.GridPos
	PlayerMoving bool

	Dt float64
}

// blockedByPlayer reports whether the player currently resolves to a tile.
func (c *Context) blockedByPlayer(pos motion.GridPos) bool {
	if pos == c.PlayerPos {
		return true
	}
	return c.PlayerMoving && pos == c.PlayerTarget
}

// stepFree is the full occupancy predicate for an NPC step.
func (c *Context) stepFree(selfID string) func(pos motion.GridPos) bool {
	return func(pos motion.GridPos) bool {
		return !c.Occupied(pos, selfID) && !c.blockedByPlayer(pos)
	}
}

type wanderState struct {
	cooldown float64
}

type patrolState struct {
	dwell     float64
	wasMoving bool
}

// Scheduler owns the per-entity timers for wander cooldowns and patrol
// dwell. It is scene-scoped: a new scene gets a new scheduler.
type Scheduler struct {
	rng     *rand.Rand
	wander  map[string]*wanderState
	patrol  map[string]*patrolState
}

// NewScheduler creates a scheduler with its own random source.
func NewScheduler(rng *rand.Rand) *Scheduler {
	return &Scheduler{
		rng:    rng,
		wander: make(map[string]*wanderState),
		patrol: make(map[string]*patrolState),
	}
}

// Tick runs one decision step for the entity. Trainers are not scheduled
// here; their idle watching and encounter lifecycle live in the encounter
// package.
func (s *Scheduler) Tick(e *entity.Entity, ctx *Context) {
	if e.Gone {
		return
	}

	switch e.Variant {
	case entity.VariantWanderer:
		s.tickWanderer(e, ctx)
	case entity.VariantPatrol:
		s.tickPatrol(e, ctx)
	}
}

func (s *Scheduler) tickWanderer(e *entity.Entity, ctx *Context) {
	ws := s.wander[e.ID]
	if ws == nil {
		ws = &wanderState{cooldown: s.cooldown()}
		s.wander[e.ID] = ws
	}

	if e.Motion.Moving {
		return
	}

	ws.cooldown -= ctx.Dt
	if ws.cooldown > 0 {
		return
	}

	dirs := []motion.Direction{motion.DirUp, motion.DirDown, motion.DirLeft, motion.DirRight}
	dir := dirs[s.rng.Intn(len(dirs))]

	if e.Motion.TryStep(dir, ctx.Walkable, not(ctx.stepFree(e.ID))) {
		ws.cooldown = s.cooldown()
	} else {
		ws.cooldown = wanderRetry
	}
}

func (s *Scheduler) tickPatrol(e *entity.Entity, ctx *Context) {
	if len(e.Route) == 0 {
		return
	}

	ps := s.patrol[e.ID]
	if ps == nil {
		ps = &patrolState{}
		s.patrol[e.ID] = ps
	}

	if e.Motion.Moving {
		ps.wasMoving = true
		return
	}
	if ps.wasMoving {
		// Just arrived; rest before the next scripted step.
		ps.wasMoving = false
		ps.dwell = PatrolDwell
	}

	if ps.dwell > 0 {
		ps.dwell -= ctx.Dt
		return
	}

	dir := e.Route[e.RouteIndex]
	if e.Motion.TryStep(dir, ctx.Walkable, not(ctx.stepFree(e.ID))) {
		e.RouteIndex = (e.RouteIndex + 1) % len(e.Route)
	}
	// Blocked: route index holds, the same direction is retried next tick.
}

func (s *Scheduler) cooldown() float64 {
	return wanderCooldownMin + s.rng.Float64()*(wanderCooldownMax-wanderCooldownMin)
}

func not(free func(motion.GridPos) bool) func(motion.GridPos) bool {
	return func(pos motion.GridPos) bool {
		return !free(pos)
	}
}

// SightTriggered scans the trainer's sight ray one tile at a time in its
// facing direction, stopping at the first sight-blocking tile, and reports
// whether the player stands on any scanned tile.
func SightTriggered(e *entity.Entity, ctx *Context) bool {
	if e.Variant != entity.VariantTrainer || e.SightRange <= 0 {
		return false
	}

	pos := e.Motion.Pos
	for i := 0; i < e.SightRange; i++ {
		pos = pos.Step(e.Motion.Facing)
		if ctx.BlocksSight != nil && ctx.BlocksSight(pos.X, pos.Y) {
			return false
		}
		if pos == ctx.PlayerPos {
			return true
		}
	}
	return false
}
