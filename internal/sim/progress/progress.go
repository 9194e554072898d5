// Package progress tracks the facts that outlive a single scene instance
// within one play session: which trainers have been beaten, which NPCs have
// walked out, where the player stood before entering an interior, and how
// often each NPC has been talked to. Nothing here is written to disk;
// simulation state is in-memory by contract.
package progress

import (
	"fmt"

	"gridvale/internal/sim/motion"
)

// SavedTile is a remembered player position in a named scene.
type SavedTile struct {
	SceneID string
	Pos     motion.GridPos
	Facing  motion.Direction
}

// Session holds cross-scene progress for one play session.
type Session struct {
	// retired trainers, keyed by sceneID:entityID
	retired map[string]bool

	// NPCs that have exited their scene, keyed by sceneID:entityID
	gone map[string]bool

	// talked-to counters per entity id
	talked map[string]int

	// player tile saved when entering an interior
	saved *SavedTile
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		retired: make(map[string]bool),
		gone:    make(map[string]bool),
		talked:  make(map[string]int),
	}
}

func key(sceneID, entityID string) string {
	return fmt.Sprintf("%s:%s", sceneID, entityID)
}

// RetireTrainer marks a trainer's encounter as completed for this scene.
// The trainer never sight-triggers again in this session.
func (s *Session) RetireTrainer(sceneID, entityID string) {
	s.retired[key(sceneID, entityID)] = true
}

// TrainerRetired reports whether a trainer has completed its encounter.
func (s *Session) TrainerRetired(sceneID, entityID string) bool {
	return s.retired[key(sceneID, entityID)]
}

// MarkGone records that an NPC has walked out of its scene.
func (s *Session) MarkGone(sceneID, entityID string) {
	s.gone[key(sceneID, entityID)] = true
}

// IsGone reports whether an NPC has left the scene in this session.
func (s *Session) IsGone(sceneID, entityID string) bool {
	return s.gone[key(sceneID, entityID)]
}

// MarkTalked bumps the talked-to counter for an entity.
func (s *Session) MarkTalked(entityID string) int {
	s.talked[entityID]++
	return s.talked[entityID]
}

// TalkedCount returns how many times an entity has been talked to.
func (s *Session) TalkedCount(entityID string) int {
	return s.talked[entityID]
}

// SavePlayerTile remembers the player's tile before entering an interior.
func (s *Session) SavePlayerTile(sceneID string, pos motion.GridPos, facing motion.Direction) {
	s.saved = &SavedTile{SceneID: sceneID, Pos: pos, Facing: facing}
}

// TakeSavedTile returns and clears the saved player tile.
func (s *Session) TakeSavedTile() (SavedTile, bool) {
	if s.saved == nil {
		return SavedTile{}, false
	}
	t := *s.saved
	s.saved = nil
	return t, true
}

// Reset clears everything (new game).
func (s *Session) Reset() {
	s.retired = make(map[string]bool)
	s.gone = make(map[string]bool)
	s.talked = make(map[string]int)
	s.saved = nil
}
