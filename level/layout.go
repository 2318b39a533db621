// Package level provides map layout providers: the built-in apartment
// map, YAML map files, and a seeded random generator. A layout is
// opaque static configuration; the simulation only reads the four
// accessors.
package level

import (
	"errors"

	"github.com/pthm-cable/ambush/components"
)

// ErrInvalidLayout reports a layout that cannot produce a playable
// world.
var ErrInvalidLayout = errors.New("level: invalid layout")

// Layout supplies the static world content for one episode.
type Layout interface {
	// Bounds returns the world dimensions.
	Bounds() (w, h float64)
	// Walls returns the obstacle set. Callers must not mutate it.
	Walls() []components.Rect
	// PlayerSpawn returns the fixed player start position.
	PlayerSpawn() components.Vec2
	// GuardSpawns returns n guard start positions.
	GuardSpawns(n int) []components.Vec2
	// PatrolRoute returns the waypoint loop for guard i. An empty
	// route marks a wandering guard.
	PatrolRoute(i int) []components.Vec2
}

// Wall styles, carried through to the renderer boundary untouched.
const (
	StyleWall   = "wall"
	StyleAccent = "accent"
	StyleCover  = "cover"
)
