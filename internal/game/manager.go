package game

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"gridvale/internal/gamescanner"
	"gridvale/internal/render"
	"gridvale/internal/render/sprites"
	"gridvale/internal/sim/dialogue"
	"gridvale/internal/sim/motion"
	"gridvale/internal/sim/progress"
	"gridvale/internal/ui/dialoguebox"
	"gridvale/internal/ui/menu"
	"gridvale/internal/world/scene"
	"gridvale/internal/world/zonegen"
)

// Manager handles the overall game state, including menu and gameplay. It
// implements render.Game and is the only thing the engine runs.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        menu.GameState
	MainMenu     *menu.MainMenu
	Game         *Game
	Renderer     render.Renderer
	Input        render.InputSource
	Loader       render.ResourceLoader

	// Events receives host notifications. Optional.
	Events EventSink

	MoveDuration float64

	world    *gamescanner.World
	scripts  *dialogue.Library
	sprites  *sprites.Cache
	progress *progress.Session
	box      *dialoguebox.Box
	rng      *rand.Rand

	lastUpdate time.Time
}

// NewManager creates a new game manager.
func NewManager(r render.Renderer, input render.InputSource, loader render.ResourceLoader, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        menu.StateMainMenu,
		Renderer:     r,
		Input:        input,
		Loader:       loader,
		progress:     progress.NewSession(),
		box:          dialoguebox.New(r),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetMainMenu sets the main menu.
func (m *Manager) SetMainMenu(mainMenu *menu.MainMenu) {
	m.MainMenu = mainMenu
}

// Update updates the current state.
func (m *Manager) Update() error {
	dt := m.tickDelta()
	in := m.Input.Poll()

	switch m.State {
	case menu.StateMainMenu:
		if m.MainMenu == nil {
			return nil
		}
		selected, sel := m.MainMenu.Update(in)
		if !selected {
			return nil
		}
		if err := m.enterWorld(sel); err != nil {
			log.Printf("Failed to start world: %v", err)
			return nil
		}
		m.State = menu.StatePlaying

	case menu.StatePlaying:
		if in.JustMenu {
			m.emit(Event{Kind: EventMenuToggled})
			m.leaveToMenu()
			return nil
		}
		m.Game.Update(dt, in)
		if t := m.Game.TakeTransition(); t != nil {
			if err := m.handleTransition(t); err != nil {
				log.Printf("Scene transition failed: %v", err)
				m.leaveToMenu()
			}
		}
	}
	return nil
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	switch m.State {
	case menu.StateMainMenu:
		if m.MainMenu != nil {
			m.MainMenu.Draw(screen)
		}
	case menu.StatePlaying:
		m.Game.Draw(screen, m.Renderer, m.sprites)
		if d, ok := m.Game.ActiveDisplay(); ok {
			m.box.Draw(screen, d)
		} else if label := m.Game.PromptLabel(); label != "" {
			m.box.DrawPrompt(screen, label)
		}
	}
}

// Layout returns the logical screen size.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if m.MainMenu != nil {
		m.MainMenu.SetSize(m.ScreenWidth, m.ScreenHeight)
	}
	return m.ScreenWidth, m.ScreenHeight
}

// tickDelta measures wall time since the previous update, clamped so a
// stalled frame cannot fast-forward the simulation.
func (m *Manager) tickDelta() float64 {
	now := time.Now()
	if m.lastUpdate.IsZero() {
		m.lastUpdate = now
		return 0
	}
	dt := now.Sub(m.lastUpdate).Seconds()
	m.lastUpdate = now
	return motion.ClampDelta(dt)
}

func (m *Manager) emit(ev Event) {
	if m.Events != nil {
		m.Events(ev)
	}
}

// enterWorld loads a world bundle's shared resources and its first scene.
func (m *Manager) enterWorld(sel menu.Selection) error {
	w := sel.World
	if w == nil {
		return fmt.Errorf("empty selection")
	}
	m.world = w

	m.scripts = &dialogue.Library{}
	if w.Scripts != "" {
		lib, err := dialogue.LoadLibrary(filepath.Join(w.Dir, w.Scripts))
		if err != nil {
			return err
		}
		m.scripts = lib
	}

	spriteDir := w.Sprites
	if spriteDir == "" {
		spriteDir = "sprites"
	}
	m.sprites = sprites.NewCache(m.Renderer, m.Loader, filepath.Join(w.Dir, spriteDir))

	if sel.Zone {
		return m.enterZone()
	}
	return m.loadScene(w.Start, nil)
}

// enterZone generates a fresh procedural zone and plays it.
func (m *Manager) enterZone() error {
	sc, err := zonegen.Generate(zonegen.DefaultConfig(m.rng.Int63()))
	if err != nil {
		return err
	}
	return m.startScene(sc, nil)
}

type placement struct {
	pos    motion.GridPos
	facing motion.Direction
}

// loadScene loads a scene by id from the active world.
func (m *Manager) loadScene(id string, place *placement) error {
	path, interior, err := m.world.SceneFile(id)
	if err != nil {
		return err
	}

	var sc *scene.Scene
	if interior {
		sc, err = scene.LoadInterior(path)
	} else {
		sc, err = scene.Load(path)
	}
	if err != nil {
		return err
	}
	return m.startScene(sc, place)
}

func (m *Manager) startScene(sc *scene.Scene, place *placement) error {
	g, err := New(sc, m.scripts, m.progress, m.rng, m.MoveDuration, m.Events)
	if err != nil {
		return err
	}
	if place != nil {
		g.PlacePlayer(place.pos, place.facing)
	}
	m.Game = g
	return nil
}

// handleTransition resolves a scene-change request from the loop driver.
func (m *Manager) handleTransition(t *Transition) error {
	from := m.Game.Scene

	switch {
	case t.Structure != nil:
		// Remember where the player stood so leaving the interior puts
		// them back outside the door, facing away from it.
		m.progress.SavePlayerTile(from.ID, m.Game.Player.Pos, m.Game.Player.Facing.Opposite())
		if err := m.loadScene(t.Structure.Interior, nil); err != nil {
			return err
		}
		m.emit(Event{Kind: EventStructureEntered, SceneID: from.ID, StructureID: t.Structure.ID})

	case t.Link != nil:
		facing := t.Link.Facing
		if facing == motion.DirNone {
			facing = motion.DirDown
		}
		if err := m.loadScene(t.Link.Target, &placement{pos: t.Link.Spawn, facing: facing}); err != nil {
			return err
		}
		m.emit(Event{Kind: EventSceneExited, SceneID: from.ID})

	case t.Return:
		saved, ok := m.progress.TakeSavedTile()
		if !ok {
			// Nothing to return to (a zone entered from the menu).
			m.emit(Event{Kind: EventSceneExited, SceneID: from.ID})
			m.leaveToMenu()
			return nil
		}
		if err := m.loadScene(saved.SceneID, &placement{pos: saved.Pos, facing: saved.Facing}); err != nil {
			return err
		}
		m.emit(Event{Kind: EventSceneExited, SceneID: from.ID})
	}
	return nil
}

func (m *Manager) leaveToMenu() {
	m.State = menu.StateMainMenu
	m.Game = nil
	m.world = nil
}
