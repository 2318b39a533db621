// Package agent provides policies for driving the environment
// headless: a uniform random baseline and an A*-guided hunter.
package agent

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/ambush/components"
	"github.com/pthm-cable/ambush/config"
	"github.com/pthm-cable/ambush/game"
	"github.com/pthm-cable/ambush/systems"
)

// Policy picks the next action for the player.
type Policy interface {
	Name() string
	Act(env *game.Env) int
}

// Random picks uniformly among all actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a seeded random policy.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Name returns the policy name.
func (r *Random) Name() string { return "random" }

// Act returns a uniformly random action.
func (r *Random) Act(env *game.Env) int {
	return r.rng.Intn(game.NumActions)
}

// replanInterval is how many ticks a hunter follows a path before
// planning again.
const replanInterval = 15

// Hunter plans a wall-avoiding path to the nearest live guard with A*
// and walks it, closing in for the melee kill. It reads the world
// directly rather than the observation vector.
type Hunter struct {
	cfg     *config.Config
	planner *systems.AStarPlanner
	world   *game.World // Grid cache key: rebuilt when Reset swaps the world
	path    []components.Vec2
	age     int
}

// NewHunter creates a hunter policy.
func NewHunter(cfg *config.Config) *Hunter {
	return &Hunter{cfg: cfg}
}

// Name returns the policy name.
func (h *Hunter) Name() string { return "hunter" }

// Act plans toward the nearest live guard and returns the action best
// aligned with the next waypoint.
func (h *Hunter) Act(env *game.Env) int {
	w := env.World()
	if w != h.world {
		width, height := w.Bounds()
		grid := systems.NewNavGrid(width, height, h.cfg.Nav.CellSize, w.Player.Radius, w.Walls())
		h.planner = systems.NewAStarPlanner(grid)
		h.world = w
		h.path = nil
		h.age = 0
	}

	target, ok := nearestLiveGuard(w)
	if !ok {
		return 0
	}

	h.age++
	if h.path == nil || h.age >= replanInterval {
		h.path = h.planner.FindPath(w.Player.Pos, target, w.Walls())
		h.age = 0
	}

	// Walk off waypoints we have reached.
	for len(h.path) > 0 && h.path[0].Sub(w.Player.Pos).Len() < h.cfg.Nav.CellSize/2 {
		h.path = h.path[1:]
	}

	goal := target
	if len(h.path) > 0 {
		goal = h.path[0]
	}

	return bestAction(goal.Sub(w.Player.Pos))
}

func nearestLiveGuard(w *game.World) (components.Vec2, bool) {
	var best components.Vec2
	bestDist := -1.0
	for i := 0; i < w.NumGuards(); i++ {
		pos, _, g := w.GuardAt(i)
		if !g.Alive {
			continue
		}
		if d := pos.Vec().Sub(w.Player.Pos).Len(); bestDist < 0 || d < bestDist {
			best, bestDist = pos.Vec(), d
		}
	}
	return best, bestDist >= 0
}

// bestAction scores every movement action by alignment with the
// desired direction and returns the best one.
func bestAction(desired components.Vec2) int {
	d := desired.Normalized()
	if d.X == 0 && d.Y == 0 {
		return 0
	}
	scores := make([]float64, game.NumActions)
	scores[0] = -1 // Standing still is never the goal here
	for a := 1; a < game.NumActions; a++ {
		v := game.ActionVector(a).Normalized()
		scores[a] = d.X*v.X + d.Y*v.Y
	}
	return floats.MaxIdx(scores)
}
