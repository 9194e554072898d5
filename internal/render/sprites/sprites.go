// Package sprites is the shared sprite store: images are loaded lazily by
// path, cached for the life of the process, and replaced by a procedurally
// drawn placeholder when the file is missing or broken. A failed asset can
// never stall the simulation; at worst the world renders as tinted blocks.
//
// All access happens on the single simulation thread, so the cache needs no
// locking.
package sprites

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"log"
	"path/filepath"

	"gridvale/internal/render"
)

// Cache is a path-keyed sprite store shared read-only across scenes.
type Cache struct {
	renderer render.Renderer
	loader   render.ResourceLoader
	dir      string

	images map[string]render.Image
}

// NewCache creates a cache rooted at a sprite directory.
func NewCache(r render.Renderer, loader render.ResourceLoader, dir string) *Cache {
	return &Cache{
		renderer: r,
		loader:   loader,
		dir:      dir,
		images:   make(map[string]render.Image),
	}
}

// Tile returns the sprite for a tile or entity name at the given pixel
// size, loading it on first use. Missing art comes back as a generated
// placeholder, logged once.
func (c *Cache) Tile(name string, size int) render.Image {
	if name == "" {
		name = "missing"
	}
	key := cacheKey(name, size)
	if img, ok := c.images[key]; ok {
		return img
	}

	var img render.Image
	if c.loader != nil {
		loaded, err := c.loader.LoadImage(filepath.Join(c.dir, name+".png"))
		if err == nil {
			img = loaded
		} else {
			log.Printf("Warning: sprite %s: %v (using placeholder)", name, err)
		}
	}
	if img == nil {
		img = c.placeholder(name, size)
	}

	c.images[key] = img
	return img
}

// Actor returns the sprite for an entity, drawn as a circle placeholder
// when missing so actors read differently from terrain.
func (c *Cache) Actor(name string, size int) render.Image {
	if name == "" {
		name = "actor"
	}
	key := cacheKey("actor/"+name, size)
	if img, ok := c.images[key]; ok {
		return img
	}

	var img render.Image
	if c.loader != nil {
		loaded, err := c.loader.LoadImage(filepath.Join(c.dir, name+".png"))
		if err == nil {
			img = loaded
		} else {
			log.Printf("Warning: sprite %s: %v (using placeholder)", name, err)
		}
	}
	if img == nil {
		img = c.actorPlaceholder(name, size)
	}

	c.images[key] = img
	return img
}

func cacheKey(name string, size int) string {
	return fmt.Sprintf("%s@%d", name, size)
}

// placeholder draws a bordered solid tile tinted by the sprite name, so
// distinct missing tiles stay distinguishable.
func (c *Cache) placeholder(name string, size int) render.Image {
	img := c.renderer.NewImage(size, size)
	fill, border := tint(name)
	img.Fill(fill)
	c.renderer.StrokeRect(img, 0, 0, float32(size), float32(size), 1, border)
	return img
}

func (c *Cache) actorPlaceholder(name string, size int) render.Image {
	img := c.renderer.NewImage(size, size)
	fill, border := tint(name)
	half := float32(size) / 2
	c.renderer.FillCircle(img, half, half, half-2, fill)
	c.renderer.FillCircle(img, half, half-half/3, half/4, border)
	return img
}

// tint derives a stable fill/border color pair from a sprite name.
func tint(name string) (fill, border color.RGBA) {
	h := fnv.New32a()
	h.Write([]byte(name))
	v := h.Sum32()

	fill = color.RGBA{
		R: 60 + uint8(v)%140,
		G: 60 + uint8(v>>8)%140,
		B: 60 + uint8(v>>16)%140,
		A: 255,
	}
	border = color.RGBA{
		R: fill.R / 2,
		G: fill.G / 2,
		B: fill.B / 2,
		A: 255,
	}
	return fill, border
}
