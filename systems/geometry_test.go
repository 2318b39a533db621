package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/ambush/components"
)

const geomEpsilon = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRayHit(t *testing.T) {
	wall := components.Rect{X: 100, Y: -50, W: 20, H: 100}

	tests := []struct {
		name     string
		origin   components.Vec2
		dir      components.Vec2
		maxLen   float64
		wantDist float64
		wantHit  bool
	}{
		{
			name:     "straight hit on left edge",
			origin:   components.Vec2{X: 0, Y: 0},
			dir:      components.Vec2{X: 1, Y: 0},
			maxLen:   300,
			wantDist: 100,
			wantHit:  true,
		},
		{
			name:    "pointing away",
			origin:  components.Vec2{X: 0, Y: 0},
			dir:     components.Vec2{X: -1, Y: 0},
			maxLen:  300,
			wantHit: false,
		},
		{
			name:    "out of range",
			origin:  components.Vec2{X: 0, Y: 0},
			dir:     components.Vec2{X: 1, Y: 0},
			maxLen:  99,
			wantHit: false,
		},
		{
			name:     "exactly at range boundary",
			origin:   components.Vec2{X: 0, Y: 0},
			dir:      components.Vec2{X: 1, Y: 0},
			maxLen:   100,
			wantDist: 100,
			wantHit:  true,
		},
		{
			name:     "unnormalized direction",
			origin:   components.Vec2{X: 0, Y: 0},
			dir:      components.Vec2{X: 50, Y: 0},
			maxLen:   300,
			wantDist: 100,
			wantHit:  true,
		},
		{
			name:     "origin on edge",
			origin:   components.Vec2{X: 100, Y: 0},
			dir:      components.Vec2{X: 1, Y: 0},
			maxLen:   300,
			wantDist: 0,
			wantHit:  true,
		},
		{
			name:     "grazing corner",
			origin:   components.Vec2{X: 0, Y: 50},
			dir:      components.Vec2{X: 1, Y: 0},
			maxLen:   300,
			wantDist: 100,
			wantHit:  true,
		},
		{
			name:     "diagonal through mid edge",
			origin:   components.Vec2{X: 50, Y: -25},
			dir:      components.Vec2{X: 2, Y: 1},
			maxLen:   300,
			wantDist: 25 * math.Sqrt(5),
			wantHit:  true,
		},
		{
			name:    "zero direction",
			origin:  components.Vec2{X: 0, Y: 0},
			dir:     components.Vec2{},
			maxLen:  300,
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := RayHit(tt.origin, tt.dir, tt.maxLen, []components.Rect{wall})
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !almostEqual(dist, tt.wantDist, geomEpsilon) {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestRayHitNearestOfSeveral(t *testing.T) {
	rects := []components.Rect{
		{X: 200, Y: -10, W: 20, H: 20},
		{X: 80, Y: -10, W: 20, H: 20},
	}
	dist, hit := RayHit(components.Vec2{}, components.Vec2{X: 1, Y: 0}, 500, rects)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !almostEqual(dist, 80, geomEpsilon) {
		t.Errorf("dist = %v, want 80 (nearest rect)", dist)
	}
}

func TestInCone(t *testing.T) {
	apex := components.Vec2{X: 0, Y: 0}
	half := 30 * math.Pi / 180
	rng := 200.0

	tests := []struct {
		name   string
		facing float64
		pt     components.Vec2
		want   bool
	}{
		{"dead ahead", 0, components.Vec2{X: 100, Y: 0}, true},
		{"behind", 0, components.Vec2{X: -100, Y: 0}, false},
		{"on angular boundary", 0, components.Vec2{X: math.Cos(half) * 100, Y: math.Sin(half) * 100}, true},
		{"just outside angle", 0, components.Vec2{X: math.Cos(half+1e-6) * 100, Y: math.Sin(half+1e-6) * 100}, false},
		{"on range boundary", 0, components.Vec2{X: 200, Y: 0}, true},
		{"past range", 0, components.Vec2{X: 200.001, Y: 0}, false},
		{"at apex", 0, components.Vec2{X: 0, Y: 0}, true},
		{"facing wraps across pi", math.Pi, components.Vec2{X: -100, Y: 1}, true},
		{"facing wraps across minus pi", -math.Pi, components.Vec2{X: -100, Y: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InCone(apex, tt.facing, half, rng, tt.pt); got != tt.want {
				t.Errorf("InCone = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineOfSight(t *testing.T) {
	wall := []components.Rect{{X: 40, Y: -50, W: 20, H: 100}}

	tests := []struct {
		name string
		a, b components.Vec2
		want bool
	}{
		{"blocked straight through", components.Vec2{X: 0, Y: 0}, components.Vec2{X: 100, Y: 0}, false},
		{"clear above the wall", components.Vec2{X: 0, Y: 80}, components.Vec2{X: 100, Y: 80}, true},
		{"tangent touch blocks", components.Vec2{X: 0, Y: 50}, components.Vec2{X: 100, Y: 50}, false},
		{"short of the wall", components.Vec2{X: 0, Y: 0}, components.Vec2{X: 39, Y: 0}, true},
		{"same point", components.Vec2{X: 0, Y: 0}, components.Vec2{X: 0, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineOfSight(tt.a, tt.b, wall); got != tt.want {
				t.Errorf("LineOfSight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); !almostEqual(got, tt.want, geomEpsilon) {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDistancePointRect(t *testing.T) {
	r := components.Rect{X: 0, Y: 0, W: 10, H: 10}
	if d := DistancePointRect(components.Vec2{X: 5, Y: 5}, r); d != 0 {
		t.Errorf("inside point: d = %v, want 0", d)
	}
	if d := DistancePointRect(components.Vec2{X: 10, Y: 5}, r); d != 0 {
		t.Errorf("boundary point: d = %v, want 0", d)
	}
	if d := DistancePointRect(components.Vec2{X: 13, Y: 14}, r); !almostEqual(d, 5, geomEpsilon) {
		t.Errorf("corner distance = %v, want 5", d)
	}
}
