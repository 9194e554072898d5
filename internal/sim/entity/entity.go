// Package entity holds the NPC roster for a scene: each entity's behavior
// variant, motion state, and dialogue payload, plus a tile occupancy index
// rebuilt once per tick so collision queries never rescan the roster.
package entity

import (
	"fmt"

	"gridvale/internal/sim/motion"
)

// Variant is the closed set of NPC decision-logic categories. Behavior
// dispatch is a single switch over this enum.
type Variant int

const (
	// VariantStatic never moves; it only talks when addressed.
	VariantStatic Variant = iota
	// VariantWanderer picks random cardinal steps on a cooldown.
	VariantWanderer
	// VariantPatrol follows a fixed cyclic direction list.
	VariantPatrol
	// VariantTrainer watches a sight ray and starts an encounter when the
	// player crosses it.
	VariantTrainer
)

// ParseVariant converts a roster string into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "static", "":
		return VariantStatic, nil
	case "wanderer":
		return VariantWanderer, nil
	case "patrol":
		return VariantPatrol, nil
	case "trainer":
		return VariantTrainer, nil
	default:
		return VariantStatic, fmt.Errorf("unknown behavior variant %q", s)
	}
}

// String returns the roster name of the variant.
func (v Variant) String() string {
	switch v {
	case VariantWanderer:
		return "wanderer"
	case VariantPatrol:
		return "patrol"
	case VariantTrainer:
		return "trainer"
	default:
		return "static"
	}
}

// Entity is one NPC in a scene. Motion state is scene-local and mutable;
// everything else is fixed by the roster.
type Entity struct {
	ID      string
	Name    string
	Variant Variant
	Sprite  string

	Motion motion.State

	// Home is the roster tile and facing, restored when an encounter is
	// cancelled or completed.
	Home       motion.GridPos
	HomeFacing motion.Direction

	// Dialogue payload: flat lines shown first, then an optional branching
	// script referenced by id.
	Lines    []string
	ScriptID string

	// ExitAfterDialogue sends the entity walking to the nearest scene exit
	// once its one-shot conversation finishes.
	ExitAfterDialogue bool

	// Trainer fields.
	SightRange int

	// Patrol fields.
	Route      []motion.Direction
	RouteIndex int

	// Gone entities have left the scene: no rendering, no collision.
	Gone bool
}

// New creates an entity at the given tile with its home recorded.
func New(id, name string, variant Variant, pos motion.GridPos, facing motion.Direction) *Entity {
	return &Entity{
		ID:         id,
		Name:       name,
		Variant:    variant,
		Motion:     motion.NewState(pos, facing),
		Home:       pos,
		HomeFacing: facing,
	}
}

// Restore snaps the entity back to its roster tile and facing.
func (e *Entity) Restore() {
	e.Motion = motion.NewState(e.Home, e.HomeFacing)
}

// Directory is the roster of one scene plus its occupancy index. The index
// maps each claimed tile to the claiming entity id; a mid-step entity claims
// both its current tile and its destination so two movers can never be
// approved into the same tile.
type Directory struct {
	ordered   []*Entity
	byID      map[string]*Entity
	occupancy map[motion.GridPos]string
}

// NewDirectory builds a directory and its initial occupancy index.
// Duplicate ids are rejected.
func NewDirectory(entities []*Entity) (*Directory, error) {
	d := &Directory{
		ordered:   entities,
		byID:      make(map[string]*Entity, len(entities)),
		occupancy: make(map[motion.GridPos]string),
	}
	for _, e := range entities {
		if e.ID == "" {
			return nil, fmt.Errorf("entity %q has no id", e.Name)
		}
		if _, dup := d.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}
		d.byID[e.ID] = e
	}
	d.RebuildOccupancy()
	return d, nil
}

// All returns the roster in authoring order. Gone entities are included;
// callers skip them.
func (d *Directory) All() []*Entity {
	return d.ordered
}

// Get returns an entity by id.
func (d *Directory) Get(id string) (*Entity, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// RebuildOccupancy reindexes every live entity's claimed tiles. Called once
// per tick by the loop driver before behavior scheduling.
func (d *Directory) RebuildOccupancy() {
	clear(d.occupancy)
	for _, e := range d.ordered {
		if e.Gone {
			continue
		}
		d.occupancy[e.Motion.Pos] = e.ID
		if e.Motion.Moving {
			d.occupancy[e.Motion.Target] = e.ID
		}
	}
}

// Claim marks a tile as claimed by an entity mid-tick, keeping the index
// current as approved steps land between rebuilds.
func (d *Directory) Claim(pos motion.GridPos, id string) {
	d.occupancy[pos] = id
}

// Release drops a claim, but only if it is still held by the given entity.
func (d *Directory) Release(pos motion.GridPos, id string) {
	if d.occupancy[pos] == id {
		delete(d.occupancy, pos)
	}
}

// OccupantAt returns the id of the entity claiming a tile.
func (d *Directory) OccupantAt(pos motion.GridPos) (string, bool) {
	id, ok := d.occupancy[pos]
	return id, ok
}

// OccupiedByOther reports whether a tile is claimed by any entity other
// than the one named.
func (d *Directory) OccupiedByOther(pos motion.GridPos, selfID string) bool {
	id, ok := d.occupancy[pos]
	return ok && id != selfID
}

// At returns the live entity standing on (or stepping onto) a tile.
func (d *Directory) At(pos motion.GridPos) (*Entity, bool) {
	id, ok := d.occupancy[pos]
	if !ok {
		return nil, false
	}
	e, ok := d.byID[id]
	if !ok || e.Gone {
		return nil, false
	}
	return e, true
}
