// Package scene assembles one playable scene: a tile map, an entity roster,
// structures with doors, sign/grave text, and (for interiors) a furniture
// registry. A Scene is instantiated on entry and discarded on exit; nothing
// in it survives a scene switch.
package scene

import (
	"fmt"

	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
	"gridvale/internal/world/tilemap"
	"gridvale/internal/world/tiles"
)

// Kind labels what sort of scene this is. The manager uses it to decide
// what a transition tile means and whether to save the player's tile.
type Kind string

const (
	KindOverworld Kind = "overworld"
	KindRoute     Kind = "route"
	KindInterior  Kind = "interior"
	KindZone      Kind = "zone"
)

// Structure is a building footprint with a single door tile. The door lies
// on the footprint's perimeter; stepping through it enters the linked
// interior, if any.
type Structure struct {
	ID       string
	Name     string
	X, Y     int // footprint top-left, in tiles
	Width    int
	Height   int
	Door     motion.GridPos
	Interior string // interior scene id, empty for decorative buildings
}

// Contains reports whether a tile lies inside the footprint.
func (s *Structure) Contains(pos motion.GridPos) bool {
	return pos.X >= s.X && pos.X < s.X+s.Width &&
		pos.Y >= s.Y && pos.Y < s.Y+s.Height
}

// Validate checks the door sits on the footprint perimeter.
func (s *Structure) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("structure %s: footprint %dx%d", s.ID, s.Width, s.Height)
	}
	if !s.Contains(s.Door) {
		return fmt.Errorf("structure %s: door (%d,%d) outside footprint", s.ID, s.Door.X, s.Door.Y)
	}
	onPerimeter := s.Door.X == s.X || s.Door.X == s.X+s.Width-1 ||
		s.Door.Y == s.Y || s.Door.Y == s.Y+s.Height-1
	if !onPerimeter {
		return fmt.Errorf("structure %s: door (%d,%d) not on footprint perimeter", s.ID, s.Door.X, s.Door.Y)
	}
	return nil
}

// Sign is a sign or grave tile with attached reading text.
type Sign struct {
	Pos     motion.GridPos
	Kind    tiles.InteractiveKind
	Speaker string
	Lines   []string
}

// Furniture is an interactable furniture span inside an interior.
type Furniture struct {
	ID      string
	X, Y    int
	Width   int
	Height  int
	Speaker string
	Lines   []string

	// ScriptID optionally attaches a conversation tree.
	ScriptID string

	// ExitAfterDialogue requests a scene exit once the dialogue finishes,
	// used for interior hand-off points.
	ExitAfterDialogue bool
}

// Contains reports whether a tile lies inside the furniture span.
func (f *Furniture) Contains(pos motion.GridPos) bool {
	return pos.X >= f.X && pos.X < f.X+f.Width &&
		pos.Y >= f.Y && pos.Y < f.Y+f.Height
}

// ExitLink routes a specific transition tile to a destination scene and
// spawn tile. Transition tiles without a link fall back to the manager's
// default (interiors return to the saved overworld tile).
type ExitLink struct {
	Pos    motion.GridPos
	Target string
	Spawn  motion.GridPos
	Facing motion.Direction
}

// Scene is one loaded scene instance.
type Scene struct {
	ID   string
	Name string
	Kind Kind

	Map        *tilemap.Map
	Entities   []*entity.Entity
	Structures []*Structure
	Signs      []*Sign
	Furniture  []*Furniture
	ExitLinks  []*ExitLink

	PlayerSpawn  motion.GridPos
	PlayerFacing motion.Direction
}

// ExitLinkAt returns the exit link for a transition tile.
func (s *Scene) ExitLinkAt(pos motion.GridPos) (*ExitLink, bool) {
	for _, l := range s.ExitLinks {
		if l.Pos == pos {
			return l, true
		}
	}
	return nil, false
}

// StructureWithDoorAt returns the structure whose door is at the tile.
func (s *Scene) StructureWithDoorAt(pos motion.GridPos) (*Structure, bool) {
	for _, st := range s.Structures {
		if st.Door == pos {
			return st, true
		}
	}
	return nil, false
}

// structureBlocking reports whether a tile is inside some structure
// footprint without being that structure's door.
func (s *Scene) structureBlocking(pos motion.GridPos) bool {
	for _, st := range s.Structures {
		if st.Contains(pos) && st.Door != pos {
			return true
		}
	}
	return false
}

// SignAt returns the sign or grave at a tile.
func (s *Scene) SignAt(pos motion.GridPos) (*Sign, bool) {
	for _, sg := range s.Signs {
		if sg.Pos == pos {
			return sg, true
		}
	}
	return nil, false
}

// FurnitureAt returns the furniture span covering a tile.
func (s *Scene) FurnitureAt(pos motion.GridPos) (*Furniture, bool) {
	for _, f := range s.Furniture {
		if f.Contains(pos) {
			return f, true
		}
	}
	return nil, false
}

// PlayerWalkable is the terrain predicate for player steps: in-bounds,
// walkable tile class, and not a blocked structure interior. Transition
// tiles are walkable; stepping onto one is how the player leaves.
func (s *Scene) PlayerWalkable(x, y int) bool {
	if !s.Map.Walkable(x, y) {
		return false
	}
	return !s.structureBlocking(motion.GridPos{X: x, Y: y})
}

// NPCWalkable is the terrain predicate for scheduled NPC steps. NPCs do not
// wander onto transition tiles or through doors; exits are reached only via
// the exit pathfinder.
func (s *Scene) NPCWalkable(x, y int) bool {
	def := s.Map.At(x, y)
	if !def.Walkable() || def.Class == tiles.ClassTransition {
		return false
	}
	pos := motion.GridPos{X: x, Y: y}
	if _, isDoor := s.StructureWithDoorAt(pos); isDoor {
		return false
	}
	return !s.structureBlocking(pos)
}

// ExitGrid adapts the scene for the exit pathfinder: transition tiles stay
// reachable, structures still block.
type ExitGrid struct {
	scene *Scene
}

// Exits returns the pathfinding view of the scene.
func (s *Scene) Exits() *ExitGrid {
	return &ExitGrid{scene: s}
}

// InBounds reports whether (x, y) is inside the scene's map.
func (g *ExitGrid) InBounds(x, y int) bool {
	return g.scene.Map.InBounds(x, y)
}

// Walkable reports whether an exiting NPC may traverse (x, y).
func (g *ExitGrid) Walkable(x, y int) bool {
	return g.scene.PlayerWalkable(x, y)
}

// IsTransition reports whether (x, y) leaves the scene.
func (g *ExitGrid) IsTransition(x, y int) bool {
	return g.scene.Map.IsTransition(x, y)
}
