package game

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ambush/components"
	"github.com/pthm-cable/ambush/config"
	"github.com/pthm-cable/ambush/level"
	"github.com/pthm-cable/ambush/systems"
)

// NumActions is the size of the discrete action set.
const NumActions = 9

// actionVectors maps each action to a unit direction: 0 stands still,
// 1-4 are the cardinals, 5-8 the diagonals.
var actionVectors = [NumActions]components.Vec2{
	{X: 0, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: -1},
}

// ActionVector returns the unit direction of an action.
func ActionVector(action int) components.Vec2 {
	return actionVectors[action]
}

// Options tunes an environment beyond the shared configuration.
type Options struct {
	NumGuards int
	Seed      int64
	// Strict makes mid-episode invariant violations panic instead of
	// clamping to the nearest valid state.
	Strict bool
	// AllowWander accepts layouts whose guards have no patrol route.
	AllowWander bool
}

// Info is the per-step diagnostic record.
type Info struct {
	Kills       int
	Steps       int
	GuardsAlive int
	Win         bool
	Timeout     bool
	PlayerDead  bool
	TotalReward float64
}

// Env is the gym-style environment: Reset starts an episode, Step
// advances it by one tick and returns observation, reward, done and
// info. A single Env is not safe for concurrent use.
type Env struct {
	cfg    *config.Config
	layout level.Layout
	opts   Options

	world  *World
	sensor *systems.RaySensor
	rng    *rand.Rand

	tick        int
	done        bool
	started     bool // Start gate cleared by the first movement
	kills       int
	win         bool
	timeout     bool
	totalReward float64
	prevMinDist float64
	prevMinOK   bool
}

// NewEnv validates the configuration against the layout and returns a
// ready environment. Reset must be called before the first Step.
func NewEnv(cfg *config.Config, lay level.Layout, opts Options) (*Env, error) {
	w, err := NewWorld(cfg, lay, opts.NumGuards, opts.AllowWander)
	if err != nil {
		return nil, err
	}
	width, height := lay.Bounds()
	return &Env{
		cfg:     cfg,
		layout:  lay,
		opts:    opts,
		world:   w,
		sensor:  systems.NewRaySensor(cfg.Sensors.NumRays, cfg.Sensors.RayMaxDistance, width, height),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		started: !cfg.Episode.HoldUntilFirstMove,
	}, nil
}

// ObservationSize returns the length of the observation vector.
func (e *Env) ObservationSize() int {
	return e.cfg.Sensors.NumRays + 3 + 5*e.opts.NumGuards
}

// World exposes the current episode world, read-only by convention.
// Renderers and policies may inspect it; only Step mutates it.
func (e *Env) World() *World { return e.world }

// Tick returns the elapsed steps of the current episode.
func (e *Env) Tick() int { return e.tick }

// Done reports whether the current episode has finished.
func (e *Env) Done() bool { return e.done }

// Reset starts a fresh episode and returns the initial observation.
// The world is rebuilt from the layout; nothing carries over except
// the seed-derived random stream position.
func (e *Env) Reset() []float64 {
	w, err := NewWorld(e.cfg, e.layout, e.opts.NumGuards, e.opts.AllowWander)
	if err != nil {
		// NewEnv validated this exact configuration already.
		panic(err)
	}
	e.world = w
	e.tick = 0
	e.done = false
	e.started = !e.cfg.Episode.HoldUntilFirstMove
	e.kills = 0
	e.win = false
	e.timeout = false
	e.totalReward = 0
	e.prevMinOK = false
	return e.observation()
}

// Step advances the simulation by one tick.
func (e *Env) Step(action int) ([]float64, float64, bool, Info, error) {
	if e.done {
		return nil, 0, true, e.info(), ErrInvalidState
	}
	if action < 0 || action >= NumActions {
		return nil, 0, false, e.info(), ErrInvalidAction
	}

	e.tick++
	w := e.world
	cfg := e.cfg
	reward := 0.0

	// Player movement. Until the first movement action the rest of the
	// world holds still, so an idle policy is not shot at spawn.
	dir := actionVectors[action]
	moving := dir.X != 0 || dir.Y != 0
	if moving && !e.started {
		e.started = true
	}
	if w.Player.Alive && moving {
		if cfg.Player.NormalizeDiagonal {
			dir = dir.Normalized()
		}
		delta := dir.Scale(w.Player.Speed)
		w.Player.Pos = w.MoveCircle(w.Player.Pos, w.Player.Radius, delta)
		w.Player.Facing = delta.Angle()
	}

	if e.started {
		reward += e.updateGuardsAndBullets()
		reward += e.resolveMelee()
	}

	e.checkInvariants()

	// Shaping: pay for closing on the nearest live guard.
	if w.Player.Alive {
		if minDist, ok := e.minLiveGuardDist(); ok {
			if e.prevMinOK && minDist < e.prevMinDist {
				reward += cfg.Episode.DistanceRewardScale * (e.prevMinDist - minDist)
			}
			e.prevMinDist, e.prevMinOK = minDist, true
		} else {
			e.prevMinOK = false
		}
	}

	reward += cfg.Episode.StepPenalty

	if w.GuardsAlive() == 0 {
		reward += cfg.Episode.WinReward
		e.win = true
		e.done = true
	}
	if !w.Player.Alive {
		e.done = true
	}
	if e.tick >= cfg.Episode.MaxSteps && !e.done {
		e.timeout = true
		e.done = true
	}

	e.totalReward += reward
	return e.observation(), reward, e.done, e.info(), nil
}

// updateGuardsAndBullets runs guard AI in fixed index order, spawns
// the requested bullets, and flies every bullet one tick. Returns the
// reward delta (the death penalty when a bullet connects).
func (e *Env) updateGuardsAndBullets() float64 {
	w := e.world
	cfg := e.cfg
	reward := 0.0

	params := systems.GuardParams{
		PatrolSpeed:    cfg.Guard.Speed,
		ChaseSpeed:     cfg.Guard.ChaseSpeed,
		StandoffRange:  cfg.Guard.StandoffRange,
		ArrivalEpsilon: cfg.Guard.ArrivalEpsilon,
		PauseTicks:     cfg.Guard.PatrolPauseTicks,
		AlertTicks:     cfg.Guard.AlertTicks,
		ShootDelay:     cfg.Shooting.DelayTicks,
		ShootCooldown:  cfg.Shooting.CooldownTicks,
		MeleeOnly:      cfg.Episode.MeleeOnly,
	}

	var shots []*systems.ShotRequest
	for i := 0; i < w.NumGuards(); i++ {
		pos, body, g := w.GuardAt(i)
		detected := systems.DetectPlayer(pos.Vec(), g, w.Player.Pos, w.Player.Alive, w.rects)
		upd := systems.UpdateGuard(i, pos, body.Radius, g, detected, w.Player.Pos, params, w, e.rng)
		if upd.Shot != nil {
			shots = append(shots, upd.Shot)
		}
	}
	for _, s := range shots {
		w.SpawnBullet(s, cfg)
	}

	for i := 0; i < w.NumBullets(); i++ {
		pos, _, b := w.BulletAt(i)
		if !systems.StepBullet(pos, b, w.bounds, w.rects) {
			continue
		}
		if w.Player.Alive && systems.BulletHitsPlayer(pos.Vec(), b, w.Player.Pos, w.Player.Radius) {
			w.Player.Alive = false
			b.Alive = false
			reward += cfg.Episode.DeathPenalty
		}
	}
	w.CompactBullets()

	return reward
}

// resolveMelee kills every live guard within the player's attack
// range; proximity never harms the player. In melee-only mode any
// remaining guard in body contact then kills the player instead of a
// bullet.
func (e *Env) resolveMelee() float64 {
	w := e.world
	cfg := e.cfg
	reward := 0.0

	if !w.Player.Alive {
		return 0
	}

	for i := 0; i < w.NumGuards(); i++ {
		pos, _, g := w.GuardAt(i)
		if g.Alive && systems.InMeleeRange(w.Player.Pos, pos.Vec(), w.Player.AttackRange) {
			g.Alive = false
			w.Player.Kills++
			e.kills++
			reward += cfg.Episode.KillReward
		}
	}

	if cfg.Episode.MeleeOnly {
		for i := 0; i < w.NumGuards(); i++ {
			pos, body, g := w.GuardAt(i)
			if g.Alive && systems.CirclesTouch(w.Player.Pos, w.Player.Radius, pos.Vec(), body.Radius) {
				w.Player.Alive = false
				reward += cfg.Episode.DeathPenalty
				break
			}
		}
	}

	return reward
}

// minLiveGuardDist returns the distance from the player to the
// nearest live guard.
func (e *Env) minLiveGuardDist() (float64, bool) {
	w := e.world
	best := math.Inf(1)
	found := false
	for i := 0; i < w.NumGuards(); i++ {
		pos, _, g := w.GuardAt(i)
		if !g.Alive {
			continue
		}
		if d := pos.Vec().Sub(w.Player.Pos).Len(); d < best {
			best = d
			found = true
		}
	}
	return best, found
}

// checkInvariants guards against defects leaking into observations:
// every position must be finite and inside the world. Violations are
// bugs; Strict surfaces them immediately, otherwise the state is
// clamped back to validity and the episode continues.
func (e *Env) checkInvariants() {
	w := e.world
	w.Player.Pos.X = e.sanitize(w.Player.Pos.X, w.Player.Radius, w.width-w.Player.Radius)
	w.Player.Pos.Y = e.sanitize(w.Player.Pos.Y, w.Player.Radius, w.height-w.Player.Radius)
	for i := 0; i < w.NumGuards(); i++ {
		pos, body, _ := w.GuardAt(i)
		pos.X = e.sanitize(pos.X, body.Radius, w.width-body.Radius)
		pos.Y = e.sanitize(pos.Y, body.Radius, w.height-body.Radius)
	}
}

func (e *Env) sanitize(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if e.opts.Strict {
			panic("game: non-finite position")
		}
		return lo
	}
	if v < lo || v > hi {
		if e.opts.Strict {
			panic("game: position out of bounds")
		}
		return clamp(v, lo, hi)
	}
	return v
}

// observation assembles the flat observation vector:
// [rays..., px, py, alive, (relx, rely, dist, alive, alert) per guard].
// Positions are normalized by the world dimensions, distances by the
// sensor range or world width.
func (e *Env) observation() []float64 {
	w := e.world
	cfg := e.cfg
	obs := make([]float64, 0, e.ObservationSize())

	if w.Player.Alive {
		obs = e.sensor.Sense(w.Player.Pos, w.rects, obs)
		obs = append(obs, w.Player.Pos.X/w.width, w.Player.Pos.Y/w.height, 1)
	} else {
		for i := 0; i < cfg.Sensors.NumRays; i++ {
			obs = append(obs, 1)
		}
		obs = append(obs, 0, 0, 0)
	}

	for i := 0; i < w.NumGuards(); i++ {
		if !w.Player.Alive {
			obs = append(obs, 0, 0, 1, 0, 0)
			continue
		}
		pos, _, g := w.GuardAt(i)
		rel := pos.Vec().Sub(w.Player.Pos)
		alive := 0.0
		if g.Alive {
			alive = 1
		}
		alert := 0.0
		if g.State == components.StateChase || g.State == components.StateAlert {
			alert = 1
		}
		obs = append(obs,
			rel.X/w.width,
			rel.Y/w.height,
			math.Min(rel.Len()/w.width, 1),
			alive,
			alert,
		)
	}

	return obs
}

func (e *Env) info() Info {
	return Info{
		Kills:       e.kills,
		Steps:       e.tick,
		GuardsAlive: e.world.GuardsAlive(),
		Win:         e.win,
		Timeout:     e.timeout,
		PlayerDead:  !e.world.Player.Alive,
		TotalReward: e.totalReward,
	}
}
