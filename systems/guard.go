package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ambush/components"
)

// Mover resolves a proposed circle move against obstacles and world
// bounds, returning the position actually reached.
type Mover interface {
	MoveCircle(pos components.Vec2, radius float64, delta components.Vec2) components.Vec2
}

// ShotRequest asks the combat system to spawn a bullet. The target is
// the player's position at the instant of firing; the bullet is never
// re-aimed after that.
type ShotRequest struct {
	Origin components.Vec2
	Target components.Vec2
	Facing float64 // Fallback aim when origin and target coincide
	Owner  int
}

// GuardUpdate is the result of one guard tick: the state after the
// update and an optional shot request.
type GuardUpdate struct {
	State components.GuardState
	Shot  *ShotRequest
}

// GuardParams holds the tuning shared by all guards.
type GuardParams struct {
	PatrolSpeed    float64
	ChaseSpeed     float64
	StandoffRange  float64 // Chase hold distance
	ArrivalEpsilon float64
	PauseTicks     int // Hold time at each waypoint
	AlertTicks     int // Search time before giving up
	ShootDelay     int // Detection-to-first-shot delay
	ShootCooldown  int // Ticks between shots
	MeleeOnly      bool
}

// wanderTurnChance is the per-tick probability denominator for a
// wandering guard to pick a new heading.
const wanderTurnChance = 90

// UpdateGuard advances one guard by one tick. Detection has already
// been decided by the vision system; this runs the state machine,
// moves the guard through mv, and emits at most one shot request.
// Dead guards are inert.
func UpdateGuard(idx int, pos *components.Position, radius float64, g *components.Guard, detected bool, playerPos components.Vec2, p GuardParams, mv Mover, rng *rand.Rand) GuardUpdate {
	if !g.Alive {
		return GuardUpdate{State: g.State}
	}

	if g.Cooldown > 0 {
		g.Cooldown--
	}

	var shot *ShotRequest

	if detected {
		g.State = components.StateChase
		g.LastKnown = playerPos
		g.LastKnownValid = true
		if g.ShootDelay < p.ShootDelay {
			g.ShootDelay++
		}
		if g.ShootDelay >= p.ShootDelay && g.Cooldown == 0 && !p.MeleeOnly {
			shot = &ShotRequest{Origin: pos.Vec(), Target: playerPos, Facing: g.Facing, Owner: idx}
			g.Cooldown = p.ShootCooldown
		}
	} else {
		// Losing sight restarts the aim delay.
		g.ShootDelay = 0
		if g.State == components.StateChase {
			g.State = components.StateAlert
			g.AlertTicks = p.AlertTicks
		}
	}

	switch g.State {
	case components.StateChase:
		g.Facing = playerPos.Sub(pos.Vec()).Angle()
		dist := playerPos.Sub(pos.Vec()).Len()
		standoff := p.StandoffRange
		if p.MeleeOnly {
			// No gun to keep distance for; close to contact.
			standoff = 0
		}
		if dist > standoff {
			step := math.Min(p.ChaseSpeed, dist-standoff)
			moveGuard(pos, radius, g.Facing, step, mv)
		}

	case components.StateAlert:
		g.AlertTicks--
		to := g.LastKnown.Sub(pos.Vec())
		if g.AlertTicks <= 0 || to.Len() <= p.ArrivalEpsilon {
			g.State = components.StatePatrol
			g.LastKnownValid = false
			g.WaypointIndex = nearestWaypoint(pos.Vec(), g.Waypoints)
			break
		}
		g.Facing = to.Angle()
		moveGuard(pos, radius, g.Facing, math.Min(p.PatrolSpeed, to.Len()), mv)

	case components.StatePatrol:
		if g.PauseTicks > 0 {
			g.PauseTicks--
			break
		}
		if g.Wander || len(g.Waypoints) == 0 {
			if rng.Intn(wanderTurnChance) == 0 {
				g.Facing = WrapAngle(rng.Float64() * 2 * math.Pi)
			}
			before := pos.Vec()
			moveGuard(pos, radius, g.Facing, p.PatrolSpeed, mv)
			if pos.Vec().Sub(before).Len() < p.PatrolSpeed/2 {
				// Stuck on a wall, turn around somewhere new.
				g.Facing = WrapAngle(rng.Float64() * 2 * math.Pi)
			}
			break
		}
		wp := g.Waypoints[g.WaypointIndex]
		to := wp.Sub(pos.Vec())
		if to.Len() <= p.ArrivalEpsilon {
			g.WaypointIndex = (g.WaypointIndex + 1) % len(g.Waypoints)
			g.PauseTicks = p.PauseTicks
			break
		}
		g.Facing = to.Angle()
		moveGuard(pos, radius, g.Facing, math.Min(p.PatrolSpeed, to.Len()), mv)
	}

	return GuardUpdate{State: g.State, Shot: shot}
}

func moveGuard(pos *components.Position, radius, facing, speed float64, mv Mover) {
	delta := components.Vec2{X: math.Cos(facing) * speed, Y: math.Sin(facing) * speed}
	np := mv.MoveCircle(pos.Vec(), radius, delta)
	pos.X, pos.Y = np.X, np.Y
}

// nearestWaypoint returns the index of the closest waypoint to p, or 0
// for an empty route.
func nearestWaypoint(p components.Vec2, wps []components.Vec2) int {
	best, bestDist := 0, math.Inf(1)
	for i, wp := range wps {
		if d := wp.Sub(p).Len(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
