// Package dialoguebox renders the conversation panel at the bottom of the
// screen: speaker name, current text, and the choice list with its cursor.
// It also draws the small interact prompt shown while something is
// addressable.
package dialoguebox

import (
	"image/color"

	"gridvale/internal/render"
	"gridvale/internal/sim/dialogue"
)

// Box draws dialogue state. It holds only visual settings.
type Box struct {
	renderer render.Renderer

	bgColor      color.RGBA
	borderColor  color.RGBA
	textColor    color.RGBA
	speakerColor color.RGBA
	cursorColor  color.RGBA
	padding      int
	lineHeight   int
}

// New creates a dialogue box with the default palette.
func New(r render.Renderer) *Box {
	return &Box{
		renderer:     r,
		bgColor:      color.RGBA{R: 20, G: 24, B: 34, A: 235},
		borderColor:  color.RGBA{R: 180, G: 180, B: 160, A: 255},
		textColor:    color.RGBA{R: 235, G: 235, B: 225, A: 255},
		speakerColor: color.RGBA{R: 255, G: 220, B: 120, A: 255},
		cursorColor:  color.RGBA{R: 255, G: 220, B: 120, A: 255},
		padding:      12,
		lineHeight:   20,
	}
}

// Draw renders the current dialogue beat over the scene.
func (b *Box) Draw(screen render.Image, d dialogue.Display) {
	w, h := screen.Size()

	lines := 2 + len(d.Choices)
	boxH := b.padding*2 + lines*b.lineHeight
	boxY := h - boxH - 10

	b.renderer.FillRect(screen, 10, float32(boxY), float32(w-20), float32(boxH), b.bgColor)
	b.renderer.StrokeRect(screen, 10, float32(boxY), float32(w-20), float32(boxH), 2, b.borderColor)

	x := 10 + b.padding
	y := boxY + b.padding + b.lineHeight/2

	if d.Speaker != "" {
		b.renderer.DrawTextBold(screen, d.Speaker, x, y, b.speakerColor, 1.0)
		y += b.lineHeight
	}
	b.renderer.DrawText(screen, d.Text, x, y, b.textColor, 1.0)
	y += b.lineHeight

	for i, c := range d.Choices {
		if i == d.Cursor {
			b.renderer.DrawTextBold(screen, "> "+c, x+10, y, b.cursorColor, 1.0)
		} else {
			b.renderer.DrawText(screen, "  "+c, x+10, y, b.textColor, 1.0)
		}
		y += b.lineHeight
	}
}

// DrawPrompt renders the interact hint for the addressable subject.
func (b *Box) DrawPrompt(screen render.Image, label string) {
	if label == "" {
		return
	}
	w, h := screen.Size()
	msg := "Space: " + label

	tw, th := b.renderer.MeasureText(msg, 1.0)
	x := (w - tw) / 2
	y := h - th - 14

	b.renderer.FillRect(screen, float32(x-8), float32(y-4), float32(tw+16), float32(th+8), b.bgColor)
	b.renderer.DrawText(screen, msg, x, y, b.textColor, 1.0)
}
