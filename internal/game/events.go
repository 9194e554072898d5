package game

// EventKind names a simulation fact surfaced to the embedding host.
type EventKind string

const (
	// EventStructureEntered fires when the player steps through a structure
	// door into its interior.
	EventStructureEntered EventKind = "structure-entered"
	// EventNPCTalkedTo fires when a conversation with an entity opens,
	// whether player-initiated or via a trainer encounter.
	EventNPCTalkedTo EventKind = "npc-talked-to"
	// EventDialogueAdvanced fires on every consumed advance or select input
	// inside an active conversation.
	EventDialogueAdvanced EventKind = "dialogue-advanced"
	// EventMenuToggled fires when the player toggles the menu.
	EventMenuToggled EventKind = "menu-toggled"
	// EventTransitionRequested fires when the player steps onto a transition
	// tile or through a door; the manager resolves the destination.
	EventTransitionRequested EventKind = "scene-transition-requested"
	// EventSceneExited fires when the current scene instance is torn down.
	EventSceneExited EventKind = "scene-exited"
)

// Event is one host notification. Fields beyond Kind are filled where they
// apply.
type Event struct {
	Kind        EventKind
	SceneID     string
	EntityID    string
	StructureID string
}

// EventSink receives host notifications. A nil sink is valid and discards.
type EventSink func(Event)

func (g *Game) emit(ev Event) {
	if g.events == nil {
		return
	}
	ev.SceneID = g.Scene.ID
	g.events(ev)
}
