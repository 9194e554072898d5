// Package encounter implements the trainer lifecycle: a sighted player
// pulls the trainer out of idle through an alert pause, a tile-by-tile
// approach, flat dialogue, and an optional branching conversation. At most
// one encounter is active per scene, and a trainer whose conversation has
// been exhausted never triggers again for that scene instance.
package encounter

import (
	"gridvale/internal/sim/behavior"
	"gridvale/internal/sim/dialogue"
	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
)

// Phase is the current encounter stage. Idle is represented by the absence
// of an Encounter.
type Phase int

const (
	// PhaseAlert is the short frozen pause after the sight trigger.
	PhaseAlert Phase = iota
	// PhaseApproaching walks the trainer toward the player.
	PhaseApproaching
	// PhaseDialogue drains the trainer's flat dialogue lines.
	PhaseDialogue
	// PhaseBattleText shows the current conversation node's text.
	PhaseBattleText
	// PhaseBattleChoices presents the current node's choices.
	PhaseBattleChoices
)

// AlertDuration is how long the trainer freezes before approaching.
const AlertDuration = 0.5

// Event tells the loop driver what just happened.
type Event int

const (
	EventNone Event = iota
	// EventTalkStarted fires when the trainer reaches the player and the
	// dialogue opens; the loop faces the player back at the trainer.
	EventTalkStarted
	// EventAdvanced fires on each consumed advance/select input.
	EventAdvanced
	// EventFinished fires when the conversation is exhausted; the trainer
	// is retired for this scene instance.
	EventFinished
	// EventCancelled fires when the player cancels; the trainer is
	// restored but not retired.
	EventCancelled
)

// Encounter is the transient per-trainer state machine.
type Encounter struct {
	Trainer *entity.Entity

	phase      Phase
	alertTimer float64

	// Pre-encounter tile and facing, restored on conversation end/cancel.
	origin       motion.GridPos
	originFacing motion.Direction

	script  *dialogue.Script
	session *dialogue.Session
}

// New starts an encounter for a sighted trainer.
func New(trainer *entity.Entity, script *dialogue.Script) *Encounter {
	return &Encounter{
		Trainer:      trainer,
		phase:        PhaseAlert,
		alertTimer:   AlertDuration,
		origin:       trainer.Motion.Pos,
		originFacing: trainer.Motion.Facing,
		script:       script,
	}
}

// Phase returns the current stage. During dialogue it is derived from the
// session: flat lines, node text, or node choices.
func (e *Encounter) Phase() Phase {
	if e.session == nil {
		return e.phase
	}
	if !e.session.InTree() {
		return PhaseDialogue
	}
	if e.session.ShowingChoices() {
		return PhaseBattleChoices
	}
	return PhaseBattleText
}

// InConversation reports whether the encounter has reached its dialogue or
// conversation stages.
func (e *Encounter) InConversation() bool {
	return e.session != nil
}

// Display returns the current dialogue beat for the UI.
func (e *Encounter) Display() dialogue.Display {
	if e.session == nil {
		return dialogue.Display{}
	}
	d := e.session.Current()
	if d.Speaker == "" {
		d.Speaker = e.Trainer.Name
	}
	return d
}

// Tick advances the pre-dialogue stages. The loop driver calls this every
// frame while the encounter is active and the session has not opened yet.
func (e *Encounter) Tick(ctx *behavior.Context) Event {
	if e.session != nil {
		return EventNone
	}

	switch e.phase {
	case PhaseAlert:
		e.alertTimer -= ctx.Dt
		if e.alertTimer <= 0 {
			e.Trainer.Motion.Facing = e.Trainer.Motion.Pos.DirectionTo(ctx.PlayerPos)
			e.phase = PhaseApproaching
		}

	case PhaseApproaching:
		if e.Trainer.Motion.Moving {
			return EventNone
		}
		if e.Trainer.Motion.Pos.ManhattanTo(ctx.PlayerPos) <= 1 {
			e.Trainer.Motion.Facing = e.Trainer.Motion.Pos.DirectionTo(ctx.PlayerPos)
			e.session = dialogue.NewSession(e.Trainer.Lines, e.script)
			if e.session.Exhausted() {
				// Trainer with no dialogue at all; nothing to say, done.
				return EventFinished
			}
			return EventTalkStarted
		}

		dir := e.Trainer.Motion.Pos.DirectionTo(ctx.PlayerPos)
		occupied := func(pos motion.GridPos) bool {
			if ctx.Occupied(pos, e.Trainer.ID) {
				return true
			}
			// Never step onto the player; stop adjacent instead.
			return pos == ctx.PlayerPos
		}
		e.Trainer.Motion.TryStep(dir, ctx.Walkable, occupied)
		// A blocked approach retries next tick.
	}
	return EventNone
}

// Advance consumes one advance input inside the dialogue/conversation
// stages.
func (e *Encounter) Advance() Event {
	if e.session == nil {
		return EventNone
	}

	wasInTree := e.session.InTree()
	if e.session.Advance() {
		if wasInTree {
			// Conversation proper ended; the trainer returns to its post.
			e.restore()
		}
		return EventFinished
	}
	return EventAdvanced
}

// restore snaps the trainer back to where it stood when the sight ray fired.
func (e *Encounter) restore() {
	e.Trainer.Motion = motion.NewState(e.origin, e.originFacing)
}

// MoveCursor shifts the highlighted choice while choices are shown.
func (e *Encounter) MoveCursor(delta int) {
	if e.session != nil {
		e.session.MoveCursor(delta)
	}
}

// Select commits the highlighted choice.
func (e *Encounter) Select() Event {
	if e.session == nil || !e.session.ShowingChoices() {
		return EventNone
	}
	e.session.Select()
	return EventAdvanced
}

// Cancel force-ends the encounter from any stage, restoring the trainer's
// original tile and facing. The trainer is not retired; after the loop's
// cooldown window it may sight the player again.
func (e *Encounter) Cancel() Event {
	e.restore()
	return EventCancelled
}
