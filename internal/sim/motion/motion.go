// Package motion implements discrete one-tile grid movement with smooth
// interpolation between tiles. An entity's authoritative location is always
// an integer tile; pixel positions exist only for rendering and the camera.
package motion

import "fmt"

// Direction represents cardinal directions for movement and facing.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the x,y tile delta for a direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection converts a route/roster string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "north":
		return DirUp, nil
	case "down", "south":
		return DirDown, nil
	case "left", "west":
		return DirLeft, nil
	case "right", "east":
		return DirRight, nil
	default:
		return DirNone, fmt.Errorf("unknown direction %q", s)
	}
}

// GridPos is an integer tile coordinate.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position one tile away in the given direction.
func (p GridPos) Step(d Direction) GridPos {
	dx, dy := d.Delta()
	return GridPos{X: p.X + dx, Y: p.Y + dy}
}

// ManhattanTo returns the Manhattan distance to another position.
func (p GridPos) ManhattanTo(o GridPos) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DirectionTo returns the cardinal direction that most reduces the distance
// to the target, shrinking the larger axis gap first. Returns DirNone when
// already on the target.
func (p GridPos) DirectionTo(o GridPos) Direction {
	dx := o.X - p.X
	dy := o.Y - p.Y
	if dx == 0 && dy == 0 {
		return DirNone
	}

	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}

	if abs(dx) >= abs(dy) && dx != 0 {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

// State is the mutable motion state of one actor. While Moving is set,
// Target is Manhattan-adjacent to Pos and Progress runs from 0 to 1.
type State struct {
	Pos      GridPos
	Target   GridPos
	Facing   Direction
	Moving   bool
	Progress float64
}

// NewState creates a stationary motion state at the given tile.
func NewState(pos GridPos, facing Direction) State {
	return State{Pos: pos, Target: pos, Facing: facing}
}

// TryStep attempts a one-tile step in the given direction. The step is
// approved iff the actor is not already mid-step, the destination passes the
// walkable predicate, and the occupancy predicate reports it free. On denial
// only Facing changes: the actor turns toward the blocked direction, which
// the interaction resolver relies on.
func (s *State) TryStep(dir Direction, walkable func(x, y int) bool, occupied func(GridPos) bool) bool {
	if dir == DirNone {
		return false
	}
	s.Facing = dir
	if s.Moving {
		return false
	}

	dst := s.Pos.Step(dir)
	if walkable != nil && !walkable(dst.X, dst.Y) {
		return false
	}
	if occupied != nil && occupied(dst) {
		return false
	}

	s.Target = dst
	s.Moving = true
	s.Progress = 0
	return true
}

// Advance moves Progress forward by dt against a fixed move duration.
// Reaching 1 snaps Pos to Target exactly and clears Moving. Returns true on
// the tick the step completes.
func (s *State) Advance(dt, moveDuration float64) bool {
	if !s.Moving {
		return false
	}
	if moveDuration <= 0 {
		moveDuration = DefaultMoveDuration
	}

	s.Progress += dt / moveDuration
	if s.Progress >= 1 {
		s.Pos = s.Target
		s.Progress = 0
		s.Moving = false
		return true
	}
	return false
}

// PixelPos returns the interpolated pixel position of the actor's top-left
// corner: position + (target - position) * progress, scaled by tile size.
func (s *State) PixelPos(tileSize int) (float64, float64) {
	x := float64(s.Pos.X)
	y := float64(s.Pos.Y)
	if s.Moving {
		x += float64(s.Target.X-s.Pos.X) * s.Progress
		y += float64(s.Target.Y-s.Pos.Y) * s.Progress
	}
	return x * float64(tileSize), y * float64(tileSize)
}

// DefaultMoveDuration is the time in seconds one tile step takes.
const DefaultMoveDuration = 0.18

// MaxTickDelta caps the per-tick elapsed time so a stalled frame cannot
// teleport actors across several tiles.
const MaxTickDelta = 1.0 / 20.0

// ClampDelta limits dt to MaxTickDelta.
func ClampDelta(dt float64) float64 {
	if dt > MaxTickDelta {
		return MaxTickDelta
	}
	return dt
}
