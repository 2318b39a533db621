package level

import (
	"math/rand"

	"github.com/pthm-cable/ambush/components"
)

// RandomLayout is a seeded procedural map: a walled perimeter, random
// interior blocks, and guards placed in open space with small square
// patrol loops. The same seed always produces the same map.
type RandomLayout struct {
	width  float64
	height float64
	walls  []components.Rect
	player components.Vec2
	spawns []components.Vec2
	wander bool
}

// RandomOptions tunes the generator.
type RandomOptions struct {
	NumWalls  int
	NumGuards int
	// Wander drops patrol routes so guards roam with random headings.
	Wander bool
}

// playerClearance keeps generated walls and guards away from the
// player spawn.
const playerClearance = 200

// NewRandom generates a layout from a seed.
func NewRandom(width, height float64, seed int64, opts RandomOptions) *RandomLayout {
	rng := rand.New(rand.NewSource(seed))

	l := &RandomLayout{
		width:  width,
		height: height,
		player: components.Vec2{X: 80, Y: 80},
		wander: opts.Wander,
	}

	t := float64(wallThickness)
	l.walls = []components.Rect{
		{X: 0, Y: height - t, W: width, H: t, Style: StyleWall},
		{X: 0, Y: 0, W: width, H: t, Style: StyleWall},
		{X: 0, Y: 0, W: t, H: height, Style: StyleWall},
		{X: width - t, Y: 0, W: t, H: height, Style: StyleWall},
	}

	for len(l.walls)-4 < opts.NumWalls {
		var r components.Rect
		if rng.Intn(2) == 0 {
			// Corridor wall
			r = components.Rect{W: t, H: 150 + rng.Float64()*250, Style: StyleWall}
			if rng.Intn(2) == 0 {
				r.W, r.H = r.H, r.W
			}
		} else {
			// Cover block
			r = components.Rect{W: 50 + rng.Float64()*50, H: 50 + rng.Float64()*50, Style: StyleCover}
		}
		r.X = t + rng.Float64()*(width-2*t-r.W)
		r.Y = t + rng.Float64()*(height-2*t-r.H)
		if r.OverlapsCircle(l.player, playerClearance) {
			continue
		}
		l.walls = append(l.walls, r)
	}

	for len(l.spawns) < opts.NumGuards {
		p := components.Vec2{
			X: 100 + rng.Float64()*(width-200),
			Y: 100 + rng.Float64()*(height-200),
		}
		if p.Sub(l.player).Len() < playerClearance {
			continue
		}
		open := true
		for _, w := range l.walls {
			if w.OverlapsCircle(p, 60) {
				open = false
				break
			}
		}
		if open {
			l.spawns = append(l.spawns, p)
		}
	}

	return l
}

// Bounds returns the world dimensions.
func (l *RandomLayout) Bounds() (float64, float64) { return l.width, l.height }

// Walls returns the obstacle set.
func (l *RandomLayout) Walls() []components.Rect { return l.walls }

// PlayerSpawn returns the player start position.
func (l *RandomLayout) PlayerSpawn() components.Vec2 { return l.player }

// GuardSpawns returns the first n generated spawns, cycling past the
// end.
func (l *RandomLayout) GuardSpawns(n int) []components.Vec2 {
	if len(l.spawns) == 0 {
		return nil
	}
	out := make([]components.Vec2, n)
	for i := 0; i < n; i++ {
		out[i] = l.spawns[i%len(l.spawns)]
	}
	return out
}

// PatrolRoute returns a square loop around guard i's spawn, or an
// empty route when the layout was generated with Wander.
func (l *RandomLayout) PatrolRoute(i int) []components.Vec2 {
	if l.wander || len(l.spawns) == 0 {
		return nil
	}
	s := l.spawns[i%len(l.spawns)]
	return []components.Vec2{
		{X: s.X - 50, Y: s.Y - 50},
		{X: s.X + 50, Y: s.Y - 50},
		{X: s.X + 50, Y: s.Y + 50},
		{X: s.X - 50, Y: s.Y + 50},
	}
}
