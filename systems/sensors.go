package systems

import (
	"math"

	"github.com/pthm-cable/ambush/components"
)

// RaySensor produces the player's obstacle-distance observation: a ring
// of rays spaced uniformly over a full circle, each reporting the
// normalized distance to the nearest obstacle edge or world boundary.
// The sensor is observation-only; guard AI never reads it.
type RaySensor struct {
	numRays int
	maxDist float64
	bounds  components.Rect
}

// NewRaySensor builds a sensor for a world of the given dimensions.
func NewRaySensor(numRays int, maxDist, width, height float64) *RaySensor {
	return &RaySensor{
		numRays: numRays,
		maxDist: maxDist,
		bounds:  components.Rect{X: 0, Y: 0, W: width, H: height},
	}
}

// NumRays returns the number of rays in the ring.
func (s *RaySensor) NumRays() int { return s.numRays }

// Sense appends one normalized distance in [0,1] per ray to out and
// returns the extended slice. Ray 0 points along +X; rays proceed
// counter-clockwise.
func (s *RaySensor) Sense(origin components.Vec2, rects []components.Rect, out []float64) []float64 {
	boundary := []components.Rect{s.bounds}
	for i := 0; i < s.numRays; i++ {
		angle := 2 * math.Pi * float64(i) / float64(s.numRays)
		dir := components.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}

		dist := s.maxDist
		if d, ok := RayHit(origin, dir, s.maxDist, rects); ok && d < dist {
			dist = d
		}
		// The world boundary reads the same as a wall.
		if d, ok := RayHit(origin, dir, s.maxDist, boundary); ok && d < dist {
			dist = d
		}

		out = append(out, dist/s.maxDist)
	}
	return out
}
