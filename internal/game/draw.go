package game

import (
	"sort"

	"gridvale/internal/render"
	"gridvale/internal/render/sprites"
	"gridvale/internal/sim/camera"
	"gridvale/internal/sim/entity"
	"gridvale/internal/sim/motion"
)

// playerSprite is the sprite name used for the player actor.
const playerSprite = "player"

// Draw renders the scene in layers: ground tiles, actors sorted by pixel Y,
// then overlay tiles above the actors so the player can walk behind tree
// canopies. The camera frames the player's interpolated pixel center.
func (g *Game) Draw(screen render.Image, r render.Renderer, cache *sprites.Cache) {
	vw, vh := screen.Size()
	m := g.Scene.Map
	ts := m.TileSize

	px, py := g.Player.PixelPos(ts)
	half := float64(ts) / 2
	mw, mh := m.PixelSize()
	cam := camera.Frame(px+half, py+half, vw, vh, mw, mh)

	x0, y0, x1, y1 := visibleTiles(cam, vw, vh, ts, m.Width, m.Height)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			def := m.At(x, y)
			img := cache.Tile(spriteName(def.Sprite, def.Name), ts)
			drawAt(screen, img, float64(x*ts)-cam.X, float64(y*ts)-cam.Y, ts)
		}
	}

	g.drawActors(screen, cache, cam, ts)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			def := m.At(x, y)
			if !def.Overlay {
				continue
			}
			img := cache.Tile(spriteName(def.Sprite, def.Name), ts)
			drawAt(screen, img, float64(x*ts)-cam.X, float64(y*ts)-cam.Y, ts)
		}
	}
}

type actor struct {
	sprite string
	motion *motion.State
}

func (g *Game) drawActors(screen render.Image, cache *sprites.Cache, cam camera.Offset, ts int) {
	actors := make([]actor, 0, len(g.Entities.All())+1)
	for _, e := range g.Entities.All() {
		if e.Gone {
			continue
		}
		actors = append(actors, actor{sprite: entitySprite(e), motion: &e.Motion})
	}
	actors = append(actors, actor{sprite: playerSprite, motion: &g.Player})

	// Southernmost actors draw last so they overlap the ones behind them.
	sort.SliceStable(actors, func(i, j int) bool {
		_, yi := actors[i].motion.PixelPos(ts)
		_, yj := actors[j].motion.PixelPos(ts)
		return yi < yj
	})

	for _, a := range actors {
		x, y := a.motion.PixelPos(ts)
		img := cache.Actor(a.sprite, ts)
		drawAt(screen, img, x-cam.X, y-cam.Y, ts)
	}
}

func entitySprite(e *entity.Entity) string {
	if e.Sprite != "" {
		return e.Sprite
	}
	return "npc_" + e.Variant.String()
}

func spriteName(sprite, fallback string) string {
	if sprite != "" {
		return sprite
	}
	return fallback
}

// visibleTiles clamps the camera rectangle to the tile grid.
func visibleTiles(cam camera.Offset, vw, vh, ts, mapW, mapH int) (x0, y0, x1, y1 int) {
	x0 = int(cam.X) / ts
	y0 = int(cam.Y) / ts
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	x1 = (int(cam.X) + vw) / ts
	y1 = (int(cam.Y) + vh) / ts
	if x1 > mapW-1 {
		x1 = mapW - 1
	}
	if y1 > mapH-1 {
		y1 = mapH - 1
	}
	return x0, y0, x1, y1
}

// drawAt draws an image scaled to the tile size at a screen position.
func drawAt(dst render.Image, img render.Image, x, y float64, ts int) {
	w, h := img.Size()
	geom := render.NewGeoM()
	if w != ts || h != ts {
		geom.Scale(float64(ts)/float64(w), float64(ts)/float64(h))
	}
	geom.Translate(x, y)
	dst.DrawImage(img, &render.DrawImageOptions{GeoM: geom})
}
