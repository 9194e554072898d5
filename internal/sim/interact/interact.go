// Package interact resolves what the player is addressing: the entity,
// structure door, sign, grave, or furniture span in front of the player's
// facing direction.
package interact

import (
	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
	"gridvale/internal/world/scene"
)

// Lookahead is how many tiles ahead of the player the resolver scans. The
// extra tile reaches interaction points behind an intervening furniture or
// decorative tile (a counter between the player and a clerk).
const Lookahead = 2

// Target is the resolved interactable. Exactly one field is set; a zero
// Target means nothing is addressable.
type Target struct {
	Entity    *entity.Entity
	Structure *scene.Structure
	Sign      *scene.Sign
	Furniture *scene.Furniture
}

// IsZero reports whether the target is empty.
func (t Target) IsZero() bool {
	return t.Entity == nil && t.Structure == nil && t.Sign == nil && t.Furniture == nil
}

// Label returns the prompt text subject for the target.
func (t Target) Label() string {
	switch {
	case t.Entity != nil:
		return t.Entity.Name
	case t.Structure != nil:
		return t.Structure.Name
	case t.Sign != nil:
		if t.Sign.Kind == "grave" {
			return "grave"
		}
		return "sign"
	case t.Furniture != nil:
		return t.Furniture.ID
	default:
		return ""
	}
}

// Resolve scans up to Lookahead tiles along the player's facing and returns
// the first interactable found. Scanning stops at the first tile that is
// neither walkable nor furniture/decor. Only meaningful while the player is
// stationary; a mid-step player resolves to nothing.
func Resolve(player *motion.State, sc *scene.Scene, dir *entity.Directory) Target {
	if player.Moving {
		return Target{}
	}

	pos := player.Pos
	for i := 0; i < Lookahead; i++ {
		pos = pos.Step(player.Facing)

		if e, ok := dir.At(pos); ok {
			return Target{Entity: e}
		}
		if st, ok := sc.StructureWithDoorAt(pos); ok {
			return Target{Structure: st}
		}
		if sg, ok := sc.SignAt(pos); ok {
			return Target{Sign: sg}
		}
		if f, ok := sc.FurnitureAt(pos); ok {
			return Target{Furniture: f}
		}

		if !sc.Map.At(pos.X, pos.Y).ScanThrough() {
			return Target{}
		}
	}
	return Target{}
}
