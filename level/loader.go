package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ambush/components"
)

// mapPoint is a YAML map-file coordinate.
type mapPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// mapWall is a YAML map-file obstacle.
type mapWall struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	W     float64 `yaml:"w"`
	H     float64 `yaml:"h"`
	Style string  `yaml:"style,omitempty"`
}

// mapGuard is a YAML map-file guard definition.
type mapGuard struct {
	Spawn mapPoint   `yaml:"spawn"`
	Route []mapPoint `yaml:"route"`
}

// mapFile is the YAML schema for custom maps.
type mapFile struct {
	Width       float64    `yaml:"width"`
	Height      float64    `yaml:"height"`
	Walls       []mapWall  `yaml:"walls"`
	PlayerSpawn mapPoint   `yaml:"player_spawn"`
	Guards      []mapGuard `yaml:"guards"`
}

// MapLayout is a layout loaded from a YAML map file.
type MapLayout struct {
	width  float64
	height float64
	walls  []components.Rect
	player components.Vec2
	spawns []components.Vec2
	routes [][]components.Vec2
}

// LoadFile reads and validates a YAML map file.
func LoadFile(path string) (*MapLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return Parse(data)
}

// Parse builds a layout from YAML map data.
func Parse(data []byte) (*MapLayout, error) {
	var mf mapFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing map file: %w", err)
	}

	if mf.Width <= 0 || mf.Height <= 0 {
		return nil, fmt.Errorf("%w: world size %gx%g", ErrInvalidLayout, mf.Width, mf.Height)
	}

	m := &MapLayout{
		width:  mf.Width,
		height: mf.Height,
		player: components.Vec2{X: mf.PlayerSpawn.X, Y: mf.PlayerSpawn.Y},
	}

	for i, w := range mf.Walls {
		if w.W <= 0 || w.H <= 0 {
			return nil, fmt.Errorf("%w: wall %d has size %gx%g", ErrInvalidLayout, i, w.W, w.H)
		}
		style := w.Style
		if style == "" {
			style = StyleWall
		}
		m.walls = append(m.walls, components.Rect{X: w.X, Y: w.Y, W: w.W, H: w.H, Style: style})
	}

	if !inBounds(m.player, mf.Width, mf.Height) {
		return nil, fmt.Errorf("%w: player spawn %v outside world", ErrInvalidLayout, m.player)
	}

	for i, g := range mf.Guards {
		spawn := components.Vec2{X: g.Spawn.X, Y: g.Spawn.Y}
		if !inBounds(spawn, mf.Width, mf.Height) {
			return nil, fmt.Errorf("%w: guard %d spawn %v outside world", ErrInvalidLayout, i, spawn)
		}
		route := make([]components.Vec2, 0, len(g.Route))
		for j, p := range g.Route {
			wp := components.Vec2{X: p.X, Y: p.Y}
			if !inBounds(wp, mf.Width, mf.Height) {
				return nil, fmt.Errorf("%w: guard %d waypoint %d outside world", ErrInvalidLayout, i, j)
			}
			route = append(route, wp)
		}
		m.spawns = append(m.spawns, spawn)
		m.routes = append(m.routes, route)
	}

	return m, nil
}

// Marshal renders any layout as YAML map-file data, so generated maps
// can be saved and reloaded with LoadFile.
func Marshal(lay Layout, numGuards int) ([]byte, error) {
	var mf mapFile
	mf.Width, mf.Height = lay.Bounds()
	for _, r := range lay.Walls() {
		mf.Walls = append(mf.Walls, mapWall{X: r.X, Y: r.Y, W: r.W, H: r.H, Style: r.Style})
	}
	p := lay.PlayerSpawn()
	mf.PlayerSpawn = mapPoint{X: p.X, Y: p.Y}
	for i, s := range lay.GuardSpawns(numGuards) {
		g := mapGuard{Spawn: mapPoint{X: s.X, Y: s.Y}}
		for _, wp := range lay.PatrolRoute(i) {
			g.Route = append(g.Route, mapPoint{X: wp.X, Y: wp.Y})
		}
		mf.Guards = append(mf.Guards, g)
	}

	data, err := yaml.Marshal(&mf)
	if err != nil {
		return nil, fmt.Errorf("marshaling map: %w", err)
	}
	return data, nil
}

func inBounds(p components.Vec2, w, h float64) bool {
	return p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h
}

// Bounds returns the world dimensions.
func (m *MapLayout) Bounds() (float64, float64) { return m.width, m.height }

// Walls returns the obstacle set.
func (m *MapLayout) Walls() []components.Rect { return m.walls }

// PlayerSpawn returns the player start position.
func (m *MapLayout) PlayerSpawn() components.Vec2 { return m.player }

// NumGuards returns how many guards the map defines.
func (m *MapLayout) NumGuards() int { return len(m.spawns) }

// GuardSpawns returns the first n guard spawns, cycling past the end.
// A map with no guards yields none.
func (m *MapLayout) GuardSpawns(n int) []components.Vec2 {
	if len(m.spawns) == 0 {
		return nil
	}
	out := make([]components.Vec2, n)
	for i := 0; i < n; i++ {
		out[i] = m.spawns[i%len(m.spawns)]
	}
	return out
}

// PatrolRoute returns guard i's route; guards past the defined set
// reuse routes cyclically.
func (m *MapLayout) PatrolRoute(i int) []components.Vec2 {
	if len(m.routes) == 0 {
		return nil
	}
	return m.routes[i%len(m.routes)]
}
