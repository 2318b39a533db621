package level

import "github.com/pthm-cable/ambush/components"

// wallThickness is the apartment's standard wall thickness.
const wallThickness = 15

// Apartment is the built-in maze-like map: a walled perimeter,
// L-shaped interior corridors and a few low cover blocks to hide
// behind. Coordinates are y-up with the origin at the bottom left.
type Apartment struct {
	width  float64
	height float64
	walls  []components.Rect
}

// NewApartment builds the apartment layout for the given world size.
func NewApartment(width, height float64) *Apartment {
	a := &Apartment{width: width, height: height}
	a.walls = a.buildWalls()
	return a
}

// Bounds returns the world dimensions.
func (a *Apartment) Bounds() (float64, float64) { return a.width, a.height }

// Walls returns the obstacle set.
func (a *Apartment) Walls() []components.Rect { return a.walls }

func (a *Apartment) buildWalls() []components.Rect {
	t := float64(wallThickness)
	w, h := a.width, a.height

	// rect converts a center-based definition to min-corner.
	rect := func(cx, cy, rw, rh float64, style string) components.Rect {
		return components.Rect{X: cx - rw/2, Y: cy - rh/2, W: rw, H: rh, Style: style}
	}

	return []components.Rect{
		// Perimeter
		rect(w/2, h-t/2, w, t, StyleWall),
		rect(w/2, t/2, w, t, StyleWall),
		rect(t/2, h/2, t, h, StyleWall),
		rect(w-t/2, h/2, t, h, StyleWall),

		// Left side maze
		rect(200, h-200, t, 300, StyleWall),
		rect(300, h-350, 220, t, StyleWall),
		rect(400, h-480, t, 280, StyleAccent),
		rect(250, 200, t, 250, StyleWall),
		rect(150, 325, 220, t, StyleAccent),

		// Center maze
		rect(w/2, 300, t, 400, StyleWall),
		rect(750, h-200, 300, t, StyleWall),
		rect(550, 400, 200, t, StyleAccent),
		rect(750, 200, 300, t, StyleWall),

		// Right side maze
		rect(w-250, h-300, t, 400, StyleWall),
		rect(w-150, h-450, 220, t, StyleAccent),
		rect(w-200, 300, t, 380, StyleWall),

		// Cover blocks
		rect(350, 450, 80, 50, StyleCover),
		rect(850, 450, 80, 50, StyleCover),
		rect(550, h-100, 60, 80, StyleCover),
		rect(550, 100, 70, 60, StyleCover),
	}
}

// PlayerSpawn returns the entrance area in the bottom left.
func (a *Apartment) PlayerSpawn() components.Vec2 {
	return components.Vec2{X: 80, Y: 80}
}

// spawnPoints are the guard starts, spread through the corridors and
// away from the player entrance.
func (a *Apartment) spawnPoints() []components.Vec2 {
	w, h := a.width, a.height
	return []components.Vec2{
		{X: 300, Y: h - 200},
		{X: 700, Y: h - 350},
		{X: w - 300, Y: h - 300},
		{X: 900, Y: 300},
		{X: 450, Y: 200},
		{X: w - 100, Y: 450},
		{X: 150, Y: 450},
	}
}

// GuardSpawns returns the first n spawn points, cycling when more
// guards are requested than the map defines.
func (a *Apartment) GuardSpawns(n int) []components.Vec2 {
	pts := a.spawnPoints()
	out := make([]components.Vec2, n)
	for i := 0; i < n; i++ {
		out[i] = pts[i%len(pts)]
	}
	return out
}

// PatrolRoute returns the corridor loop for guard i. Guards past the
// defined routes get a small square around their spawn.
func (a *Apartment) PatrolRoute(i int) []components.Vec2 {
	w, h := a.width, a.height
	routes := [][]components.Vec2{
		{{X: 280, Y: h - 150}, {X: 280, Y: h - 280}, {X: 350, Y: h - 280}, {X: 350, Y: h - 150}},
		{{X: 600, Y: h - 300}, {X: 800, Y: h - 300}, {X: 800, Y: h - 400}, {X: 600, Y: h - 400}},
		{{X: w - 300, Y: h - 250}, {X: w - 120, Y: h - 250}, {X: w - 120, Y: h - 400}, {X: w - 300, Y: h - 400}},
		{{X: 900, Y: 250}, {X: 900, Y: 350}, {X: 800, Y: 350}, {X: 800, Y: 250}},
		{{X: 400, Y: 150}, {X: 600, Y: 150}, {X: 600, Y: 250}, {X: 400, Y: 250}},
		{{X: w - 100, Y: 400}, {X: w - 100, Y: 500}, {X: w - 180, Y: 500}, {X: w - 180, Y: 400}},
		{{X: 120, Y: 400}, {X: 180, Y: 400}, {X: 180, Y: 480}, {X: 120, Y: 480}},
	}
	if i < len(routes) {
		return routes[i]
	}
	s := a.spawnPoints()[i%len(a.spawnPoints())]
	return []components.Vec2{
		{X: s.X - 50, Y: s.Y - 50},
		{X: s.X + 50, Y: s.Y - 50},
		{X: s.X + 50, Y: s.Y + 50},
		{X: s.X - 50, Y: s.Y + 50},
	}
}
