// Package game runs one scene: it owns the player's motion state, the
// entity roster, the behavior scheduler, and whichever dialogue or
// encounter is currently holding the player's input. All simulation state
// lives here and is passed down per call; nothing below this package keeps
// global state.
package game

import (
	"math/rand"

	"gridvale/internal/render"
	"gridvale/internal/sim/behavior"
	"gridvale/internal/sim/dialogue"
	"gridvale/internal/sim/encounter"
	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/interact"
	"gridvale/internal/sim/motion"
	"gridvale/internal/sim/pathfind"
	"gridvale/internal/sim/progress"
	"gridvale/internal/world/scene"
)

// postInteractCooldown suppresses the interact/trigger inputs briefly after
// a conversation closes, so the closing keypress cannot immediately reopen
// it or walk the player into a waiting sight ray.
const postInteractCooldown = 0.3

// encounterCancelCooldown is the longer grace window after cancelling an
// encounter; the trainer is back at its post with its sight ray live.
const encounterCancelCooldown = 0.5

// Transition is a scene-change request for the manager. Exactly one field
// is set.
type Transition struct {
	// Structure is a door entry into the structure's interior.
	Structure *scene.Structure

	// Link is an authored transition-tile destination.
	Link *scene.ExitLink

	// Return is an unlinked exit: leave this scene and go back to wherever
	// the player came from (the saved pre-interior tile, if any).
	Return bool
}

// activeDialogue is a player-initiated conversation with its subject.
type activeDialogue struct {
	session *dialogue.Session
	speaker string

	entity    *entity.Entity
	furniture *scene.Furniture
}

// Game is the loop driver for one scene instance. It is created on scene
// entry and discarded on exit; cross-scene facts live in progress.Session.
type Game struct {
	Scene    *scene.Scene
	Entities *entity.Directory
	Player   motion.State

	scheduler *behavior.Scheduler
	scripts   *dialogue.Library
	progress  *progress.Session
	events    EventSink

	moveDuration float64

	dialogue *activeDialogue
	enc      *encounter.Encounter

	// Player facing at encounter start, restored on cancel.
	encPlayerFacing motion.Direction

	// Entities walking out of the scene. A nil walker means the exit is
	// wanted but not yet plannable; planning is retried each tick.
	walkers map[string]*pathfind.Walker

	target   interact.Target
	cooldown float64
	pending  *Transition
}

// New builds a game over a loaded scene. Entities already recorded as gone
// for this scene are marked gone before the roster is indexed, and a spawn
// override (from a transition link or a saved tile) replaces the scene's
// authored spawn.
func New(sc *scene.Scene, scripts *dialogue.Library, prog *progress.Session, rng *rand.Rand, moveDuration float64, events EventSink) (*Game, error) {
	for _, e := range sc.Entities {
		if prog.IsGone(sc.ID, e.ID) {
			e.Gone = true
		}
	}
	dir, err := entity.NewDirectory(sc.Entities)
	if err != nil {
		return nil, err
	}

	if moveDuration <= 0 {
		moveDuration = motion.DefaultMoveDuration
	}

	return &Game{
		Scene:        sc,
		Entities:     dir,
		Player:       motion.NewState(sc.PlayerSpawn, sc.PlayerFacing),
		scheduler:    behavior.NewScheduler(rng),
		scripts:      scripts,
		progress:     prog,
		events:       events,
		moveDuration: moveDuration,
		walkers:      make(map[string]*pathfind.Walker),
	}, nil
}

// PlacePlayer overrides the spawn tile and facing, used when the player
// arrives through a transition rather than at the authored spawn.
func (g *Game) PlacePlayer(pos motion.GridPos, facing motion.Direction) {
	g.Player = motion.NewState(pos, facing)
}

// TakeTransition returns and clears the pending scene-change request.
func (g *Game) TakeTransition() *Transition {
	t := g.pending
	g.pending = nil
	return t
}

// Busy reports whether a dialogue or encounter currently holds the input.
func (g *Game) Busy() bool {
	return g.dialogue != nil || g.enc != nil
}

// ActiveDisplay returns the dialogue beat to render, if any.
func (g *Game) ActiveDisplay() (dialogue.Display, bool) {
	if g.dialogue != nil {
		d := g.dialogue.session.Current()
		if d.Speaker == "" {
			d.Speaker = g.dialogue.speaker
		}
		return d, true
	}
	if g.enc != nil && g.enc.InConversation() {
		return g.enc.Display(), true
	}
	return dialogue.Display{}, false
}

// PromptLabel returns the name of the interactable the player is facing, or
// empty when nothing is addressable.
func (g *Game) PromptLabel() string {
	if g.Busy() || g.pending != nil {
		return ""
	}
	return g.target.Label()
}

// Update runs one simulation tick against the input snapshot.
func (g *Game) Update(dt float64, in render.InputSnapshot) {
	dt = motion.ClampDelta(dt)
	if g.cooldown > 0 {
		g.cooldown -= dt
	}

	// Interpolation advances regardless of what holds the input; a step
	// already approved always lands.
	arrived := g.Player.Advance(dt, g.moveDuration)
	for _, e := range g.Entities.All() {
		if !e.Gone {
			e.Motion.Advance(dt, g.moveDuration)
		}
	}
	g.Entities.RebuildOccupancy()

	if arrived {
		g.onPlayerArrived()
	}

	switch {
	case g.pending != nil:
		// Scene change resolved by the manager; freeze until then.
	case g.dialogue != nil:
		g.updateDialogue(in)
	case g.enc != nil:
		g.updateEncounter(dt, in)
	default:
		g.updateFree(dt, in)
	}

	if g.Busy() || g.pending != nil {
		g.target = interact.Target{}
	} else {
		g.target = interact.Resolve(&g.Player, g.Scene, g.Entities)
	}
}

// onPlayerArrived handles the tile the player just landed on: transition
// tiles and structure doors both queue a scene change.
func (g *Game) onPlayerArrived() {
	pos := g.Player.Pos

	if st, ok := g.Scene.StructureWithDoorAt(pos); ok && st.Interior != "" {
		g.pending = &Transition{Structure: st}
		g.emit(Event{Kind: EventTransitionRequested, StructureID: st.ID})
		return
	}

	if !g.Scene.Map.IsTransition(pos.X, pos.Y) {
		return
	}
	if link, ok := g.Scene.ExitLinkAt(pos); ok {
		g.pending = &Transition{Link: link}
	} else {
		g.pending = &Transition{Return: true}
	}
	g.emit(Event{Kind: EventTransitionRequested})
}

// updateFree is the tick path when no conversation holds the input: player
// movement, trainer sight checks, NPC scheduling, exit walking.
func (g *Game) updateFree(dt float64, in render.InputSnapshot) {
	g.movePlayer(in)

	if in.JustConfirm && g.cooldown <= 0 && !g.target.IsZero() {
		g.startInteraction()
		return
	}

	ctx := g.behaviorContext(dt)

	if g.cooldown <= 0 {
		g.checkSightTriggers(ctx)
	}

	for _, e := range g.Entities.All() {
		if e.Gone || g.wantsExit(e.ID) {
			continue
		}
		wasMoving := e.Motion.Moving
		g.scheduler.Tick(e, ctx)
		if !wasMoving && e.Motion.Moving {
			// Claim the approved destination immediately so a later
			// entity in the same tick cannot be approved into it.
			g.Entities.Claim(e.Motion.Target, e.ID)
		}
	}

	g.stepExitWalkers()
}

func (g *Game) behaviorContext(dt float64) *behavior.Context {
	return &behavior.Context{
		Walkable:     g.Scene.NPCWalkable,
		Occupied:     g.Entities.OccupiedByOther,
		BlocksSight:  g.Scene.Map.BlocksSight,
		PlayerPos:    g.Player.Pos,
		PlayerTarget: g.Player.Target,
		PlayerMoving: g.Player.Moving,
		Dt:           dt,
	}
}

// movePlayer turns held directional input into one step intent. A denied
// step still turns the player, which is what the interaction resolver and
// trainer sight rays key off.
func (g *Game) movePlayer(in render.InputSnapshot) {
	var dir motion.Direction
	switch {
	case in.Up:
		dir = motion.DirUp
	case in.Down:
		dir = motion.DirDown
	case in.Left:
		dir = motion.DirLeft
	case in.Right:
		dir = motion.DirRight
	default:
		return
	}

	occupied := func(pos motion.GridPos) bool {
		_, taken := g.Entities.OccupantAt(pos)
		return taken
	}
	g.Player.TryStep(dir, g.Scene.PlayerWalkable, occupied)
}

// checkSightTriggers starts an encounter for the first trainer whose sight
// ray crosses the player. At most one encounter is active per scene.
func (g *Game) checkSightTriggers(ctx *behavior.Context) {
	for _, e := range g.Entities.All() {
		if e.Gone || e.Variant != entity.VariantTrainer {
			continue
		}
		if g.progress.TrainerRetired(g.Scene.ID, e.ID) {
			continue
		}
		if !behavior.SightTriggered(e, ctx) {
			continue
		}

		script, _ := g.scripts.Get(e.ScriptID)
		g.enc = encounter.New(e, script)
		g.encPlayerFacing = g.Player.Facing
		return
	}
}

// wantsExit reports whether an entity is flagged to walk out.
func (g *Game) wantsExit(id string) bool {
	_, ok := g.walkers[id]
	return ok
}

// markForExit flags an entity to walk to the nearest scene exit. Planning
// happens in stepExitWalkers so a temporarily sealed path just retries.
func (g *Game) markForExit(e *entity.Entity) {
	if _, already := g.walkers[e.ID]; !already {
		g.walkers[e.ID] = nil
	}
}

func (g *Game) stepExitWalkers() {
	playerAt := func(pos motion.GridPos) bool {
		if pos == g.Player.Pos {
			return true
		}
		return g.Player.Moving && pos == g.Player.Target
	}

	for id, w := range g.walkers {
		e, ok := g.Entities.Get(id)
		if !ok || e.Gone {
			delete(g.walkers, id)
			continue
		}

		if w == nil {
			w = pathfind.NewWalker(g.Scene.Exits(), e.Motion.Pos)
			if w == nil {
				// No reachable exit right now; retry next tick.
				continue
			}
			g.walkers[id] = w
		}

		occupied := func(pos motion.GridPos) bool {
			return g.Entities.OccupiedByOther(pos, id) || playerAt(pos)
		}
		wasMoving := e.Motion.Moving
		status := w.Tick(&e.Motion, playerAt, occupied)
		if !wasMoving && e.Motion.Moving {
			g.Entities.Claim(e.Motion.Target, e.ID)
		}
		if status == pathfind.WalkArrived {
			e.Gone = true
			g.progress.MarkGone(g.Scene.ID, id)
			delete(g.walkers, id)
		}
	}
}

// startInteraction opens whatever the resolver is pointing at.
func (g *Game) startInteraction() {
	switch {
	case g.target.Entity != nil:
		g.talkTo(g.target.Entity)

	case g.target.Structure != nil:
		if g.target.Structure.Interior != "" {
			g.pending = &Transition{Structure: g.target.Structure}
			g.emit(Event{Kind: EventTransitionRequested, StructureID: g.target.Structure.ID})
		}

	case g.target.Sign != nil:
		sg := g.target.Sign
		speaker := sg.Speaker
		if speaker == "" {
			speaker = g.target.Label()
		}
		g.dialogue = &activeDialogue{
			session: dialogue.NewLinesSession(sg.Lines),
			speaker: speaker,
		}

	case g.target.Furniture != nil:
		f := g.target.Furniture
		script, _ := g.scripts.Get(f.ScriptID)
		session := dialogue.NewSession(f.Lines, script)
		if session.Exhausted() {
			return
		}
		g.dialogue = &activeDialogue{
			session:   session,
			speaker:   f.Speaker,
			furniture: f,
		}
	}
}

func (g *Game) talkTo(e *entity.Entity) {
	script, _ := g.scripts.Get(e.ScriptID)
	session := dialogue.NewSession(e.Lines, script)
	if session.Exhausted() {
		return
	}

	// Face each other for the duration of the talk.
	if dir := e.Motion.Pos.DirectionTo(g.Player.Pos); dir != motion.DirNone {
		e.Motion.Facing = dir
	}

	g.dialogue = &activeDialogue{session: session, speaker: e.Name, entity: e}
	g.progress.MarkTalked(e.ID)
	g.emit(Event{Kind: EventNPCTalkedTo, EntityID: e.ID})
}

func (g *Game) updateDialogue(in render.InputSnapshot) {
	d := g.dialogue

	if in.JustCancel {
		g.dialogue = nil
		g.cooldown = postInteractCooldown
		return
	}

	if d.session.ShowingChoices() {
		if in.JustUp {
			d.session.MoveCursor(-1)
		}
		if in.JustDown {
			d.session.MoveCursor(1)
		}
		if in.JustConfirm {
			d.session.Select()
			g.emit(Event{Kind: EventDialogueAdvanced})
		}
		return
	}

	if in.JustConfirm {
		finished := d.session.Advance()
		g.emit(Event{Kind: EventDialogueAdvanced})
		if finished {
			g.finishDialogue()
		}
	}
}

func (g *Game) finishDialogue() {
	d := g.dialogue
	g.dialogue = nil
	g.cooldown = postInteractCooldown

	if d.entity != nil && d.entity.ExitAfterDialogue {
		g.markForExit(d.entity)
	}
	if d.furniture != nil && d.furniture.ExitAfterDialogue {
		g.pending = &Transition{Return: true}
		g.emit(Event{Kind: EventTransitionRequested})
	}
}

func (g *Game) updateEncounter(dt float64, in render.InputSnapshot) {
	enc := g.enc

	if in.JustCancel {
		enc.Cancel()
		g.Player.Facing = g.encPlayerFacing
		g.enc = nil
		g.cooldown = encounterCancelCooldown
		return
	}

	if !enc.InConversation() {
		wasMoving := enc.Trainer.Motion.Moving
		ev := enc.Tick(g.behaviorContext(dt))
		if !wasMoving && enc.Trainer.Motion.Moving {
			g.Entities.Claim(enc.Trainer.Motion.Target, enc.Trainer.ID)
		}
		switch ev {
		case encounter.EventTalkStarted:
			if dir := g.Player.Pos.DirectionTo(enc.Trainer.Motion.Pos); dir != motion.DirNone {
				g.Player.Facing = dir
			}
			g.progress.MarkTalked(enc.Trainer.ID)
			g.emit(Event{Kind: EventNPCTalkedTo, EntityID: enc.Trainer.ID})
		case encounter.EventFinished:
			g.finishEncounter()
		}
		return
	}

	if enc.Phase() == encounter.PhaseBattleChoices {
		if in.JustUp {
			enc.MoveCursor(-1)
		}
		if in.JustDown {
			enc.MoveCursor(1)
		}
		if in.JustConfirm {
			enc.Select()
			g.emit(Event{Kind: EventDialogueAdvanced})
		}
		return
	}

	if in.JustConfirm {
		ev := enc.Advance()
		g.emit(Event{Kind: EventDialogueAdvanced})
		if ev == encounter.EventFinished {
			g.finishEncounter()
		}
	}
}

func (g *Game) finishEncounter() {
	trainer := g.enc.Trainer
	g.enc = nil
	g.cooldown = postInteractCooldown

	g.progress.RetireTrainer(g.Scene.ID, trainer.ID)
	if trainer.ExitAfterDialogue {
		g.markForExit(trainer)
	}
}
