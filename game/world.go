package game

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ambush/components"
	"github.com/pthm-cable/ambush/config"
	"github.com/pthm-cable/ambush/level"
	"github.com/pthm-cable/ambush/systems"
)

// Player is the single player-controlled entity.
type Player struct {
	Pos         components.Vec2
	Radius      float64
	Speed       float64
	AttackRange float64
	Facing      float64
	Alive       bool
	Kills       int
}

// World holds one episode's mutable state: the obstacle set, the
// player, and the guard and bullet entities in an ECS world. Guards
// keep a fixed index order for the whole episode; dead guards stay
// addressable with their alive flag cleared. Bullets are created and
// removed as they fly and die.
type World struct {
	ecs        *ecs.World
	width      float64
	height     float64
	bounds     components.Rect
	rects      []components.Rect
	wallBuffer float64

	guardMapper  *ecs.Map3[components.Position, components.Body, components.Guard]
	bulletMapper *ecs.Map3[components.Position, components.Body, components.Projectile]

	guards  []ecs.Entity // Fixed order, never removed
	bullets []ecs.Entity // Append order, compacted after each tick

	Player Player
}

// NewWorld builds an episode world from a layout. allowWander permits
// guards with empty patrol routes; otherwise an empty route is a
// configuration error.
func NewWorld(cfg *config.Config, lay level.Layout, numGuards int, allowWander bool) (*World, error) {
	if err := validate(cfg, numGuards); err != nil {
		return nil, err
	}

	width, height := lay.Bounds()
	w := &World{
		ecs:        ecs.NewWorld(),
		width:      width,
		height:     height,
		bounds:     components.Rect{X: 0, Y: 0, W: width, H: height},
		rects:      lay.Walls(),
		wallBuffer: cfg.Guard.WallBuffer,
	}
	w.guardMapper = ecs.NewMap3[components.Position, components.Body, components.Guard](w.ecs)
	w.bulletMapper = ecs.NewMap3[components.Position, components.Body, components.Projectile](w.ecs)

	spawn := lay.PlayerSpawn()
	if w.inObstacle(spawn, cfg.Player.Radius) {
		return nil, fmt.Errorf("%w: player spawn %v inside an obstacle", ErrConfiguration, spawn)
	}
	w.Player = Player{
		Pos:         spawn,
		Radius:      cfg.Player.Radius,
		Speed:       cfg.Player.Speed,
		AttackRange: cfg.Player.AttackRange,
		Alive:       true,
	}

	for i, gs := range lay.GuardSpawns(numGuards) {
		if w.inObstacle(gs, cfg.Guard.Radius) {
			return nil, fmt.Errorf("%w: guard %d spawn %v inside an obstacle", ErrConfiguration, i, gs)
		}
		route := lay.PatrolRoute(i)
		if len(route) == 0 && !allowWander {
			return nil, fmt.Errorf("%w: guard %d has an empty patrol route", ErrConfiguration, i)
		}

		facing := 0.0
		if len(route) > 0 {
			facing = route[0].Sub(gs).Angle()
		}
		pos := components.Position{X: gs.X, Y: gs.Y}
		body := components.Body{Radius: cfg.Guard.Radius}
		guard := components.Guard{
			State:       components.StatePatrol,
			Facing:      facing,
			Alive:       true,
			VisionRange: cfg.Guard.VisionRange,
			HalfAngle:   cfg.Derived.VisionHalfAngle,
			Waypoints:   route,
			Wander:      len(route) == 0,
		}
		w.guards = append(w.guards, w.guardMapper.NewEntity(&pos, &body, &guard))
	}

	return w, nil
}

func validate(cfg *config.Config, numGuards int) error {
	if numGuards < 0 {
		return fmt.Errorf("%w: negative guard count %d", ErrConfiguration, numGuards)
	}
	if cfg.Player.Radius <= 0 || cfg.Guard.Radius <= 0 || cfg.Shooting.BulletRadius <= 0 {
		return fmt.Errorf("%w: radii must be positive", ErrConfiguration)
	}
	if cfg.Player.Speed <= 0 || cfg.Guard.Speed <= 0 || cfg.Guard.ChaseSpeed <= 0 || cfg.Shooting.BulletSpeed <= 0 {
		return fmt.Errorf("%w: speeds must be positive", ErrConfiguration)
	}
	if cfg.Guard.VisionFOVDeg <= 0 || cfg.Guard.VisionFOVDeg > 360 {
		return fmt.Errorf("%w: vision FOV %g out of (0, 360]", ErrConfiguration, cfg.Guard.VisionFOVDeg)
	}
	if cfg.Sensors.NumRays <= 0 {
		return fmt.Errorf("%w: ray count must be positive", ErrConfiguration)
	}
	if cfg.Episode.MaxSteps <= 0 {
		return fmt.Errorf("%w: step budget must be positive", ErrConfiguration)
	}
	return nil
}

// Bounds returns the world dimensions.
func (w *World) Bounds() (float64, float64) { return w.width, w.height }

// Walls returns the obstacle set. Callers must not mutate it.
func (w *World) Walls() []components.Rect { return w.rects }

// NumGuards returns the fixed guard count.
func (w *World) NumGuards() int { return len(w.guards) }

// GuardAt returns guard i's components.
func (w *World) GuardAt(i int) (*components.Position, *components.Body, *components.Guard) {
	return w.guardMapper.Get(w.guards[i])
}

// GuardsAlive counts live guards.
func (w *World) GuardsAlive() int {
	n := 0
	for i := range w.guards {
		_, _, g := w.guardMapper.Get(w.guards[i])
		if g.Alive {
			n++
		}
	}
	return n
}

func (w *World) inObstacle(p components.Vec2, radius float64) bool {
	for _, r := range w.rects {
		if r.OverlapsCircle(p, radius) {
			return true
		}
	}
	return false
}

// MoveCircle resolves a proposed move for a circle: each axis is
// applied separately and reverted on obstacle overlap, so movement
// slides along walls, and the result is clamped to the world bounds.
// Obstacle tests use the radius plus the wall buffer, so moving
// entities keep a small clearance from walls.
func (w *World) MoveCircle(pos components.Vec2, radius float64, delta components.Vec2) components.Vec2 {
	p := pos
	clearance := radius + w.wallBuffer

	nx := clamp(p.X+delta.X, radius, w.width-radius)
	if !w.inObstacle(components.Vec2{X: nx, Y: p.Y}, clearance) {
		p.X = nx
	}

	ny := clamp(p.Y+delta.Y, radius, w.height-radius)
	if !w.inObstacle(components.Vec2{X: p.X, Y: ny}, clearance) {
		p.Y = ny
	}

	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// SpawnBullet creates a bullet entity from a shot request.
func (w *World) SpawnBullet(req *systems.ShotRequest, cfg *config.Config) {
	pos := components.Position{X: req.Origin.X, Y: req.Origin.Y}
	body := components.Body{Radius: cfg.Shooting.BulletRadius}
	proj := components.Projectile{
		Vel:    systems.BulletVelocity(req, cfg.Shooting.BulletSpeed),
		Radius: cfg.Shooting.BulletRadius,
		TTL:    cfg.Shooting.LifetimeTicks,
		Owner:  req.Owner,
		Alive:  true,
	}
	w.bullets = append(w.bullets, w.bulletMapper.NewEntity(&pos, &body, &proj))
}

// NumBullets returns the count of bullet entities currently tracked.
func (w *World) NumBullets() int { return len(w.bullets) }

// BulletAt returns bullet i's components.
func (w *World) BulletAt(i int) (*components.Position, *components.Body, *components.Projectile) {
	return w.bulletMapper.Get(w.bullets[i])
}

// CompactBullets drops dead bullets from the world and the ordered
// slice, preserving the order of survivors.
func (w *World) CompactBullets() {
	live := w.bullets[:0]
	for _, e := range w.bullets {
		_, _, b := w.bulletMapper.Get(e)
		if b.Alive {
			live = append(live, e)
		} else {
			w.ecs.RemoveEntity(e)
		}
	}
	w.bullets = live
}
