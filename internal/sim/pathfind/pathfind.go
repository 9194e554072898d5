// Package pathfind implements breadth-first search from an NPC tile to the
// nearest scene-exit tile, plus the walker that carries an NPC along the
// found path with on-the-fly rerouting around the player.
//
// Only NPCs path-find; the player always moves by direct input.
package pathfind

import "gridvale/internal/sim/motion"

// Grid is the tile query surface the pathfinder needs. *tilemap.Map
// satisfies it.
type Grid interface {
	InBounds(x, y int) bool
	Walkable(x, y int) bool
	IsTransition(x, y int) bool
}

// FindPathToExit runs a 4-connected BFS from start over walkable and
// transition tiles, skipping blocked tiles, and returns the shortest path
// to the first-discovered transition tile. The returned path excludes the
// start tile and ends on the exit tile. Returns nil if no exit is
// reachable.
func FindPathToExit(grid Grid, start motion.GridPos, blocked map[motion.GridPos]bool) []motion.GridPos {
	if !grid.InBounds(start.X, start.Y) {
		return nil
	}
	if grid.IsTransition(start.X, start.Y) {
		return []motion.GridPos{}
	}

	type node struct {
		pos  motion.GridPos
		prev int
	}

	visited := map[motion.GridPos]bool{start: true}
	queue := []node{{pos: start, prev: -1}}

	dirs := []motion.Direction{motion.DirUp, motion.DirDown, motion.DirLeft, motion.DirRight}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, d := range dirs {
			next := cur.pos.Step(d)
			if visited[next] || blocked[next] {
				continue
			}
			if !grid.InBounds(next.X, next.Y) || !grid.Walkable(next.X, next.Y) {
				continue
			}
			visited[next] = true
			queue = append(queue, node{pos: next, prev: head})

			if grid.IsTransition(next.X, next.Y) {
				// Reconstruct back to (but not including) start.
				var rev []motion.GridPos
				for i := len(queue) - 1; i != -1; i = queue[i].prev {
					rev = append(rev, queue[i].pos)
				}
				path := make([]motion.GridPos, 0, len(rev)-1)
				for i := len(rev) - 2; i >= 0; i-- {
					path = append(path, rev[i])
				}
				return path
			}
		}
	}
	return nil
}

// WalkStatus reports what the walker did this tick.
type WalkStatus int

const (
	// WalkMoving means the walker issued or is continuing a step.
	WalkMoving WalkStatus = iota
	// WalkStalled means the path is blocked and no reroute exists; the
	// walker holds position and retries next tick.
	WalkStalled
	// WalkArrived means the NPC reached a transition tile and is gone.
	WalkArrived
)

// Walker carries an entity along a path to a scene exit, one tile per step.
// If the player occupies the next tile before the step is taken, the path
// is recomputed with the player's tile blocked.
type Walker struct {
	grid Grid
	path []motion.GridPos
}

// NewWalker plans a path from the entity's tile to the nearest exit.
// Returns nil if no exit is reachable; the caller leaves the NPC stationary
// and may retry on a later tick.
func NewWalker(grid Grid, start motion.GridPos) *Walker {
	path := FindPathToExit(grid, start, nil)
	if path == nil {
		return nil
	}
	return &Walker{grid: grid, path: path}
}

// Tick advances the walk by at most one step intent. playerAt reports the
// tiles the player currently resolves to; occupied is the entity occupancy
// predicate for the mover.
func (w *Walker) Tick(ms *motion.State, playerAt func(motion.GridPos) bool, occupied func(motion.GridPos) bool) WalkStatus {
	if ms.Moving {
		return WalkMoving
	}

	if len(w.path) == 0 {
		if w.grid.IsTransition(ms.Pos.X, ms.Pos.Y) {
			return WalkArrived
		}
		return WalkStalled
	}

	next := w.path[0]

	// Reroute if the player has stepped into the way.
	if playerAt != nil && playerAt(next) {
		blocked := map[motion.GridPos]bool{next: true}
		rerouted := FindPathToExit(w.grid, ms.Pos, blocked)
		if rerouted == nil {
			// No way around; stall one tick and retry.
			return WalkStalled
		}
		w.path = rerouted
		next = w.path[0]
	}

	dir := ms.Pos.DirectionTo(next)
	if dir == motion.DirNone {
		w.path = w.path[1:]
		return WalkMoving
	}

	walkable := func(x, y int) bool {
		return w.grid.InBounds(x, y) && w.grid.Walkable(x, y)
	}
	if ms.TryStep(dir, walkable, occupied) {
		w.path = w.path[1:]
	}
	return WalkMoving
}
