// Package components defines ECS components for the simulation.
package components

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the vector length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalized returns the unit vector, or the zero vector if v is zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle returns the heading of v in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() Vec2 { return Vec2{p.X, p.Y} }

// DistanceTo returns the Euclidean distance to another position.
func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Body holds an entity's circular collision shape.
type Body struct {
	Radius float64
}

// Rect is an axis-aligned obstacle, min-corner origin, y-up.
// Obstacles are immutable once the world is built.
type Rect struct {
	X, Y, W, H float64
	Style      string // Opaque tag from the layout provider
}

// Left returns the minimum x edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the minimum y edge.
func (r Rect) Bottom() float64 { return r.Y }

// Top returns the maximum y edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// Contains reports whether the point lies inside or on the boundary.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ClosestPoint returns the point on or in the rect nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.X, math.Min(p.X, r.X+r.W)),
		Y: math.Max(r.Y, math.Min(p.Y, r.Y+r.H)),
	}
}

// OverlapsCircle reports whether a circle at center c with radius rad
// touches the rect. Boundary contact counts as overlap.
func (r Rect) OverlapsCircle(c Vec2, rad float64) bool {
	cp := r.ClosestPoint(c)
	dx, dy := c.X-cp.X, c.Y-cp.Y
	return dx*dx+dy*dy <= rad*rad
}

// GuardState is a guard's behavior state.
type GuardState uint8

const (
	StatePatrol GuardState = iota // Walking the waypoint route
	StateAlert                    // Investigating last known player position
	StateChase                    // Player in sight, closing and shooting
)

// String returns the state name.
func (s GuardState) String() string {
	switch s {
	case StatePatrol:
		return "PATROL"
	case StateAlert:
		return "ALERT"
	case StateChase:
		return "CHASE"
	}
	return "UNKNOWN"
}

// Guard holds per-guard AI state.
type Guard struct {
	State  GuardState
	Facing float64 // Heading in radians
	Alive  bool

	// Vision cone
	VisionRange float64
	HalfAngle   float64 // Half cone width in radians

	// Patrol route
	Waypoints     []Vec2
	WaypointIndex int
	PauseTicks    int  // Remaining hold at the current waypoint
	Wander        bool // No route; pick seeded random headings instead

	// Memory of the player
	LastKnown      Vec2
	LastKnownValid bool
	AlertTicks     int // Remaining search time in ALERT

	// Shooting timers, in ticks
	ShootDelay int // Accumulates while player is seen, fires at threshold
	Cooldown   int // Remaining ticks until the next shot is allowed
}

// Projectile is a ballistic bullet. Velocity is fixed at spawn and
// never re-aimed.
type Projectile struct {
	Vel    Vec2
	Radius float64
	TTL    int // Remaining lifetime in ticks
	Owner  int // Guard index that fired it
	Alive  bool
}
