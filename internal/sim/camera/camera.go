// Package camera computes the viewport offset into a scene.
package camera

// Offset is the pixel offset of the viewport's top-left corner into the map.
// Screen position = world position - offset.
type Offset struct {
	X, Y float64
}

// Frame centers the viewport on the subject's pixel position, then clamps
// the offset to [0, mapSize-viewportSize] per axis. When the map is smaller
// than the viewport on an axis the map is centered instead, producing a
// negative offset with equal margins on both sides.
func Frame(subjectX, subjectY float64, viewportW, viewportH, mapW, mapH int) Offset {
	return Offset{
		X: frameAxis(subjectX, viewportW, mapW),
		Y: frameAxis(subjectY, viewportH, mapH),
	}
}

func frameAxis(subject float64, viewport, mapSize int) float64 {
	if mapSize < viewport {
		return -float64(viewport-mapSize) / 2
	}

	off := subject - float64(viewport)/2
	if off < 0 {
		off = 0
	}
	if max := float64(mapSize - viewport); off > max {
		off = max
	}
	return off
}
