package systems

import (
	"math"

	"github.com/pthm-cable/ambush/components"
)

// WrapAngle normalizes an angle to (-pi, pi].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// rectEdges returns the four edges of a rect as point pairs.
func rectEdges(r components.Rect) [4][2]components.Vec2 {
	bl := components.Vec2{X: r.Left(), Y: r.Bottom()}
	br := components.Vec2{X: r.Right(), Y: r.Bottom()}
	tl := components.Vec2{X: r.Left(), Y: r.Top()}
	tr := components.Vec2{X: r.Right(), Y: r.Top()}
	return [4][2]components.Vec2{
		{bl, br},
		{br, tr},
		{tr, tl},
		{tl, bl},
	}
}

// raySegment intersects a ray (origin, unit dir) with a segment p1-p2.
// Returns the ray parameter t >= 0, or ok=false if they do not meet.
// Boundaries are inclusive: u in [0,1] counts, so grazing an endpoint
// is a hit.
func raySegment(origin, dir, p1, p2 components.Vec2) (float64, bool) {
	e := p2.Sub(p1)
	denom := dir.X*e.Y - dir.Y*e.X
	if denom == 0 {
		// Parallel or degenerate edge
		return 0, false
	}
	w := p1.Sub(origin)
	t := (w.X*e.Y - w.Y*e.X) / denom
	u := (w.X*dir.Y - w.Y*dir.X) / denom
	if t < 0 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// RayHit casts a ray from origin along dir (need not be unit length)
// against all rects and returns the distance to the nearest edge hit
// within maxLen. A zero direction never hits. Ties between rects
// resolve to the earliest rect in the slice.
func RayHit(origin, dir components.Vec2, maxLen float64, rects []components.Rect) (float64, bool) {
	d := dir.Normalized()
	if d.X == 0 && d.Y == 0 {
		return 0, false
	}
	best := math.Inf(1)
	hit := false
	for _, r := range rects {
		for _, edge := range rectEdges(r) {
			t, ok := raySegment(origin, d, edge[0], edge[1])
			if ok && t <= maxLen && t < best {
				best = t
				hit = true
			}
		}
	}
	if !hit {
		return 0, false
	}
	return best, true
}

// SegmentIntersects reports whether segment a-b crosses segment p1-p2.
// Endpoint and tangent contact count as intersection.
func SegmentIntersects(a, b, p1, p2 components.Vec2) bool {
	d := b.Sub(a)
	e := p2.Sub(p1)
	denom := d.X*e.Y - d.Y*e.X
	if denom == 0 {
		return false
	}
	w := p1.Sub(a)
	t := (w.X*e.Y - w.Y*e.X) / denom
	u := (w.X*d.Y - w.Y*d.X) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// LineOfSight reports whether the segment a-b is clear of every rect
// edge. A segment that merely touches an edge is blocked.
func LineOfSight(a, b components.Vec2, rects []components.Rect) bool {
	for _, r := range rects {
		for _, edge := range rectEdges(r) {
			if SegmentIntersects(a, b, edge[0], edge[1]) {
				return false
			}
		}
	}
	return true
}

// InCone reports whether pt lies within the vision cone at apex with
// the given facing (radians), half-angle and range. Both the range and
// the angular boundary are inclusive. A point at the apex is always in
// the cone.
func InCone(apex components.Vec2, facing, halfAngle, rng float64, pt components.Vec2) bool {
	to := pt.Sub(apex)
	dist := to.Len()
	if dist > rng {
		return false
	}
	if dist == 0 {
		return true
	}
	diff := WrapAngle(to.Angle() - facing)
	return math.Abs(diff) <= halfAngle
}

// DistancePointRect returns the distance from p to the nearest point of
// the rect; 0 when p is inside or on the boundary.
func DistancePointRect(p components.Vec2, r components.Rect) float64 {
	return r.ClosestPoint(p).Sub(p).Len()
}
