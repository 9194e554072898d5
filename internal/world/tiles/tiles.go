// Package tiles classifies tile codes into the categories the simulation
// cares about: what can be walked on, what blocks sight, what can be talked
// to, and what leaves the scene.
package tiles

import "fmt"

// Class is the movement/interaction category of a tile.
type Class int

const (
	// ClassPlain is ordinary walkable ground (grass, path, floor).
	ClassPlain Class = iota
	// ClassDecor is walkable ground with decorative art (flowers, tall grass).
	ClassDecor
	// ClassSolidNatural blocks movement and sight (trees, water, rock).
	ClassSolidNatural
	// ClassSolidStructure blocks movement and sight (walls, fences, roofs).
	ClassSolidStructure
	// ClassFurniture blocks movement but not interaction scanning
	// (desks, counters, beds in interiors).
	ClassFurniture
	// ClassInteractive is a tile the player can address directly
	// (door, sign, grave). Doors are walkable, signs and graves are not.
	ClassInteractive
	// ClassTransition is a walkable tile that triggers a scene change when
	// the player steps onto it.
	ClassTransition
)

// InteractiveKind distinguishes the interactive tile flavors.
type InteractiveKind string

const (
	KindNone  InteractiveKind = ""
	KindDoor  InteractiveKind = "door"
	KindSign  InteractiveKind = "sign"
	KindGrave InteractiveKind = "grave"
)

var classNames = map[string]Class{
	"plain":           ClassPlain,
	"decor":           ClassDecor,
	"solid_natural":   ClassSolidNatural,
	"solid_structure": ClassSolidStructure,
	"furniture":       ClassFurniture,
	"interactive":     ClassInteractive,
	"transition":      ClassTransition,
}

// ParseClass converts a legend class string into a Class.
func ParseClass(s string) (Class, error) {
	c, ok := classNames[s]
	if !ok {
		return ClassSolidNatural, fmt.Errorf("unknown tile class %q", s)
	}
	return c, nil
}

// String returns the legend name of the class.
func (c Class) String() string {
	for name, class := range classNames {
		if class == c {
			return name
		}
	}
	return "unknown"
}

// Def describes one tile code in a map legend.
type Def struct {
	Name   string          `json:"name"`
	Class  Class           `json:"-"`
	Kind   InteractiveKind `json:"kind,omitempty"`
	Sprite string          `json:"sprite,omitempty"`

	// Overlay tiles are drawn a second time above the actors, so the
	// player can pass behind tree canopies and roof edges.
	Overlay bool `json:"overlay,omitempty"`

	// ClassName is the raw legend value; resolved into Class on load.
	ClassName string `json:"class"`
}

// Solid is the catalog entry used for out-of-range or unknown codes.
// Anything the map cannot account for is treated as blocking.
var Solid = Def{Name: "void", Class: ClassSolidNatural, ClassName: "solid_natural"}

// Walkable reports whether an entity may stand on this tile. Doors are the
// only walkable interactive tiles.
func (d Def) Walkable() bool {
	switch d.Class {
	case ClassPlain, ClassDecor, ClassTransition:
		return true
	case ClassInteractive:
		return d.Kind == KindDoor
	default:
		return false
	}
}

// BlocksSight reports whether a trainer's sight ray stops at this tile.
// Furniture and decor are see-through; solids and non-door interactives
// are not.
func (d Def) BlocksSight() bool {
	switch d.Class {
	case ClassSolidNatural, ClassSolidStructure:
		return true
	case ClassInteractive:
		return d.Kind != KindDoor
	default:
		return false
	}
}

// ScanThrough reports whether the interaction resolver may look past this
// tile for something to address behind it.
func (d Def) ScanThrough() bool {
	return d.Walkable() || d.Class == ClassFurniture || d.Class == ClassDecor
}
