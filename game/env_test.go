package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/ambush/components"
	"github.com/pthm-cable/ambush/level"
)

// guardAhead puts one guard in open space, facing roughly toward the
// player start at (200,200), patrolling a short vertical line.
func guardAhead() *testLayout {
	l := emptyLayout()
	l.spawns = []components.Vec2{{X: 350, Y: 200}}
	l.routes = [][]components.Vec2{{{X: 340, Y: 200}, {X: 360, Y: 200}}}
	return l
}

func TestObservationSize(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		lay := emptyLayout()
		for i := 0; i < n; i++ {
			lay.spawns = append(lay.spawns, components.Vec2{X: 600 + float64(i)*50, Y: 500})
			lay.routes = append(lay.routes, []components.Vec2{
				{X: 600 + float64(i)*50, Y: 450}, {X: 600 + float64(i)*50, Y: 550},
			})
		}
		env, err := NewEnv(testConfig(t), lay, Options{NumGuards: n, Seed: 1})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		obs := env.Reset()
		want := 16 + 3 + 5*n
		if len(obs) != want {
			t.Errorf("n=%d: len(obs) = %d, want %d", n, len(obs), want)
		}
		if env.ObservationSize() != want {
			t.Errorf("n=%d: ObservationSize = %d, want %d", n, env.ObservationSize(), want)
		}
	}
}

func TestInvalidActionLeavesStateUntouched(t *testing.T) {
	env, err := NewEnv(testConfig(t), guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	for _, a := range []int{-1, 9, 100} {
		_, _, done, info, err := env.Step(a)
		if !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("Step(%d) err = %v, want ErrInvalidAction", a, err)
		}
		if done || info.Steps != 0 {
			t.Fatalf("Step(%d) mutated the episode: %+v", a, info)
		}
	}
}

func TestStepAfterDone(t *testing.T) {
	env, err := NewEnv(testConfig(t), emptyLayout(), Options{NumGuards: 0, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	// With no guards the first step pays the win bonus and finishes.
	_, reward, done, info, err := env.Step(0)
	if err != nil {
		t.Fatal(err)
	}
	if !done || !info.Win {
		t.Fatalf("expected immediate win, got done=%v info=%+v", done, info)
	}
	wantReward := 500.0 - 0.1
	if math.Abs(reward-wantReward) > 1e-9 {
		t.Errorf("reward = %v, want %v", reward, wantReward)
	}

	if _, _, _, _, err := env.Step(0); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Step after done err = %v, want ErrInvalidState", err)
	}
}

func TestStartGateHoldsWorldStill(t *testing.T) {
	cfg := testConfig(t)
	env, err := NewEnv(cfg, guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	// The guard is 150 away, facing the player, but nothing may happen
	// while the player stands still: no chase, no bullets, only the
	// step penalty.
	for i := 0; i < 100; i++ {
		obs, reward, done, _, err := env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			t.Fatal("episode ended during the start gate")
		}
		if math.Abs(reward-cfg.Episode.StepPenalty) > 1e-9 {
			t.Fatalf("tick %d: reward = %v, want bare step penalty", i, reward)
		}
		if alert := obs[16+3+4]; alert != 0 {
			t.Fatalf("tick %d: guard alerted while the world was gated", i)
		}
	}
	if env.World().NumBullets() != 0 {
		t.Fatal("bullets spawned during the start gate")
	}

	// Gated ticks still consume the budget.
	if env.Tick() != 100 {
		t.Errorf("tick = %d, want 100", env.Tick())
	}

	// First movement opens the gate; the guard reacts the same tick.
	obs, _, _, _, err := env.Step(1)
	if err != nil {
		t.Fatal(err)
	}
	if alert := obs[16+3+4]; alert != 1 {
		t.Error("guard did not enter chase once the gate opened")
	}
}

func TestDiagonalMovesSameDistance(t *testing.T) {
	cfg := testConfig(t)

	runOne := func(action int) float64 {
		env, err := NewEnv(cfg, emptyLayout(), Options{NumGuards: 0, Seed: 1})
		if err != nil {
			t.Fatal(err)
		}
		env.Reset()
		start := env.World().Player.Pos
		env.Step(action)
		return env.World().Player.Pos.Sub(start).Len()
	}

	axial := runOne(4)
	if math.Abs(axial-cfg.Player.Speed) > 1e-9 {
		t.Fatalf("axial step = %v, want %v", axial, cfg.Player.Speed)
	}
	for _, a := range []int{5, 6, 7, 8} {
		if diag := runOne(a); math.Abs(diag-axial) > 1e-9 {
			t.Errorf("action %d travels %v, axial travels %v", a, diag, axial)
		}
	}
}

func TestMeleeKillWinsEpisode(t *testing.T) {
	cfg := testConfig(t)
	lay := emptyLayout()
	// One guard just outside attack range; a single step toward it
	// brings it inside.
	lay.spawns = []components.Vec2{{X: 232, Y: 200}}
	lay.routes = [][]components.Vec2{{{X: 232, Y: 150}, {X: 232, Y: 250}}}

	env, err := NewEnv(cfg, lay, Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	// Move right: player reaches x=203, guard distance 29 <= 30.
	_, reward, done, info, err := env.Step(4)
	if err != nil {
		t.Fatal(err)
	}
	if !done || !info.Win || info.Kills != 1 {
		t.Fatalf("done=%v info=%+v, want a melee kill and win", done, info)
	}
	if info.PlayerDead {
		t.Fatal("proximity must never harm the player")
	}
	want := cfg.Episode.KillReward + cfg.Episode.WinReward + cfg.Episode.StepPenalty
	if math.Abs(reward-want) > 1e-9 {
		t.Errorf("reward = %v, want %v", reward, want)
	}
}

func TestBulletKillsPlayer(t *testing.T) {
	cfg := testConfig(t)
	env, err := NewEnv(cfg, guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	// Open the gate with one step away from the guard, then stand
	// still. The guard chases to stand-off range, aims, and fires.
	if _, _, done, _, err := env.Step(3); err != nil || done {
		t.Fatalf("opening step: done=%v err=%v", done, err)
	}
	var info Info
	done := false
	for i := 0; i < 300 && !done; i++ {
		_, _, done, info, err = env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !done {
		t.Fatal("episode did not finish")
	}
	if !info.PlayerDead || info.Win {
		t.Fatalf("info = %+v, want death by bullet", info)
	}
	if info.TotalReward > cfg.Episode.DeathPenalty/2 {
		t.Errorf("total reward = %v, expected the death penalty to dominate", info.TotalReward)
	}
}

func TestMeleeOnlyMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Episode.MeleeOnly = true
	// Shrink the attack range so a charging guard reaches body contact
	// before the player's counter-kill distance.
	cfg.Player.AttackRange = 5

	env, err := NewEnv(cfg, guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	if _, _, done, _, err := env.Step(3); err != nil || done {
		t.Fatalf("opening step: done=%v err=%v", done, err)
	}
	var info Info
	done := false
	for i := 0; i < 500 && !done; i++ {
		_, _, done, info, err = env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
		if env.World().NumBullets() != 0 {
			t.Fatal("melee-only mode spawned a bullet")
		}
	}
	if !done || !info.PlayerDead {
		t.Fatalf("info = %+v, want death by contact", info)
	}
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig(t)
	lay := level.NewApartment(1280, 720)

	run := func() ([]float64, []float64) {
		env, err := NewEnv(cfg, lay, Options{NumGuards: 5, Seed: 99})
		if err != nil {
			t.Fatal(err)
		}
		var rewards []float64
		obs := env.Reset()
		actions := []int{1, 1, 4, 4, 6, 0, 8, 4, 1, 5}
		for i := 0; i < 300; i++ {
			var r float64
			var done bool
			obs, r, done, _, err = env.Step(actions[i%len(actions)])
			if err != nil {
				t.Fatal(err)
			}
			rewards = append(rewards, r)
			if done {
				break
			}
		}
		return obs, rewards
	}

	obs1, rewards1 := run()
	obs2, rewards2 := run()

	if len(obs1) != len(obs2) || len(rewards1) != len(rewards2) {
		t.Fatal("runs diverged in length")
	}
	for i := range obs1 {
		if obs1[i] != obs2[i] {
			t.Fatalf("obs[%d] differs: %v vs %v", i, obs1[i], obs2[i])
		}
	}
	for i := range rewards1 {
		if rewards1[i] != rewards2[i] {
			t.Fatalf("reward[%d] differs: %v vs %v", i, rewards1[i], rewards2[i])
		}
	}
}

func TestResetRebuildsEpisode(t *testing.T) {
	env, err := NewEnv(testConfig(t), guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	first := env.Reset()

	for i := 0; i < 50; i++ {
		if _, _, done, _, err := env.Step(4); err != nil || done {
			break
		}
	}

	again := env.Reset()
	if len(first) != len(again) {
		t.Fatal("observation lengths differ across resets")
	}
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("obs[%d] differs after reset: %v vs %v", i, first[i], again[i])
		}
	}
	if env.Done() || env.Tick() != 0 {
		t.Error("reset did not clear episode state")
	}
}

func TestTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Episode.MaxSteps = 5

	env, err := NewEnv(cfg, guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()

	var info Info
	var done bool
	for i := 0; i < 5; i++ {
		_, _, done, info, err = env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !done || !info.Timeout {
		t.Fatalf("info = %+v, want timeout after 5 steps", info)
	}
}

func TestDeadPlayerObservation(t *testing.T) {
	cfg := testConfig(t)
	env, err := NewEnv(cfg, guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	env.World().Player.Alive = false

	_, _, done, _, err := env.Step(0)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("dead player should end the episode")
	}
	obs := env.observation()
	for i := 0; i < 16; i++ {
		if obs[i] != 1 {
			t.Fatalf("ray %d = %v, want 1.0 for a dead player", i, obs[i])
		}
	}
	if obs[16] != 0 || obs[17] != 0 || obs[18] != 0 {
		t.Error("dead player block should be zeroed")
	}
	if obs[19] != 0 || obs[20] != 0 || obs[21] != 1 || obs[22] != 0 || obs[23] != 0 {
		t.Error("guard block for a dead player should be the padding pattern")
	}
}

func TestStrictModePanicsOnCorruptState(t *testing.T) {
	env, err := NewEnv(testConfig(t), guardAhead(), Options{NumGuards: 1, Seed: 1, Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	env.World().Player.Pos.X = math.NaN()

	defer func() {
		if recover() == nil {
			t.Error("strict mode did not panic on a non-finite position")
		}
	}()
	env.Step(1)
}

func TestLenientModeClampsCorruptState(t *testing.T) {
	env, err := NewEnv(testConfig(t), guardAhead(), Options{NumGuards: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	env.World().Player.Pos.X = 5000

	if _, _, _, _, err := env.Step(0); err != nil {
		t.Fatal(err)
	}
	if x := env.World().Player.Pos.X; x < 0 || x > 1280 {
		t.Errorf("player x = %v, want clamped into the world", x)
	}
}
