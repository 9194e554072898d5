// Package menu implements the world-select screen shown before play.
package menu

import (
	"fmt"
	"image/color"

	"gridvale/internal/gamescanner"
	"gridvale/internal/render"
)

// GameState represents the current state of the game.
type GameState int

const (
	StateMainMenu GameState = iota
	StatePlaying
)

// Selection is a confirmed menu choice.
type Selection struct {
	World *gamescanner.World

	// Zone requests a procedurally generated zone instead of the world's
	// authored start scene.
	Zone bool
}

// entry is one selectable row.
type entry struct {
	label string
	sel   Selection
}

// MainMenu represents the main menu screen.
type MainMenu struct {
	entries  []entry
	selected int

	renderer     render.Renderer
	screenWidth  int
	screenHeight int
}

// NewMainMenu builds the menu over the discovered worlds. Each world gets a
// start-scene row and a generated-zone row.
func NewMainMenu(worlds []*gamescanner.World, r render.Renderer, width, height int) *MainMenu {
	m := &MainMenu{renderer: r, screenWidth: width, screenHeight: height}
	for _, w := range worlds {
		m.entries = append(m.entries,
			entry{label: w.Name, sel: Selection{World: w}},
			entry{label: w.Name + " - Wild Zone", sel: Selection{World: w, Zone: true}},
		)
	}
	return m
}

// SetSize updates the menu layout for a new screen size.
func (m *MainMenu) SetSize(width, height int) {
	m.screenWidth = width
	m.screenHeight = height
}

// Update consumes one input snapshot. Returns true with the selection when
// the player confirms an entry.
func (m *MainMenu) Update(in render.InputSnapshot) (bool, Selection) {
	if len(m.entries) == 0 {
		return false, Selection{}
	}

	if in.JustUp && m.selected > 0 {
		m.selected--
	}
	if in.JustDown && m.selected < len(m.entries)-1 {
		m.selected++
	}
	if in.JustConfirm {
		return true, m.entries[m.selected].sel
	}
	return false, Selection{}
}

// Draw renders the menu.
func (m *MainMenu) Draw(screen render.Image) {
	screen.Fill(color.RGBA{R: 16, G: 20, B: 28, A: 255})

	titleColor := color.RGBA{R: 230, G: 230, B: 210, A: 255}
	dimColor := color.RGBA{R: 140, G: 140, B: 140, A: 255}
	hotColor := color.RGBA{R: 255, G: 220, B: 120, A: 255}

	m.renderer.DrawTextBold(screen, "GRIDVALE", 50, 50, titleColor, 2.0)
	m.renderer.DrawText(screen, "Arrows: select   Space: start", 50, 80, dimColor, 1.0)

	if len(m.entries) == 0 {
		m.renderer.DrawText(screen, "No worlds found in the data directory.", 50, 130, dimColor, 1.0)
		return
	}

	startY := 130
	lineHeight := 26
	for i, e := range m.entries {
		y := startY + i*lineHeight
		if i == m.selected {
			m.renderer.FillRect(screen, 44, float32(y-4), 320, float32(lineHeight-4), color.RGBA{R: 40, G: 50, B: 70, A: 255})
			m.renderer.DrawTextBold(screen, fmt.Sprintf("> %s", e.label), 50, y, hotColor, 1.0)
		} else {
			m.renderer.DrawText(screen, fmt.Sprintf("  %s", e.label), 50, y, titleColor, 1.0)
		}
	}
}
