package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/ambush/agent"
	"github.com/pthm-cable/ambush/config"
	"github.com/pthm-cable/ambush/game"
	"github.com/pthm-cable/ambush/level"
	"github.com/pthm-cable/ambush/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Path to a YAML map file (empty = built-in apartment)")
	randomMap := flag.Bool("random-map", false, "Generate a seeded random map instead")
	policyName := flag.String("policy", "random", "Player policy: random or hunter")
	episodes := flag.Int("episodes", 10, "Number of episodes to run")
	numGuards := flag.Int("guards", 5, "Guards per episode")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logSteps := flag.Bool("log-steps", false, "Log every step (very verbose)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var lay level.Layout
	switch {
	case *mapPath != "":
		m, err := level.LoadFile(*mapPath)
		if err != nil {
			slog.Error("failed to load map", "path", *mapPath, "error", err)
			os.Exit(1)
		}
		lay = m
	case *randomMap:
		lay = level.NewRandom(cfg.World.Width, cfg.World.Height, rngSeed,
			level.RandomOptions{NumWalls: 12, NumGuards: *numGuards})
	default:
		lay = level.NewApartment(cfg.World.Width, cfg.World.Height)
	}

	var policy agent.Policy
	switch *policyName {
	case "random":
		policy = agent.NewRandom(rngSeed)
	case "hunter":
		policy = agent.NewHunter(cfg)
	default:
		slog.Error("unknown policy", "policy", *policyName)
		os.Exit(1)
	}

	env, err := game.NewEnv(cfg, lay, game.Options{
		NumGuards: *numGuards,
		Seed:      rngSeed,
	})
	if err != nil {
		slog.Error("failed to build environment", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("starting run",
		"policy", policy.Name(),
		"episodes", *episodes,
		"guards", *numGuards,
		"seed", rngSeed,
	)

	collector := telemetry.NewCollector()
	for ep := 0; ep < *episodes; ep++ {
		env.Reset()

		var info game.Info
		done := false
		for !done {
			var reward float64
			_, reward, done, info, err = env.Step(policy.Act(env))
			if err != nil {
				slog.Error("step failed", "episode", ep, "error", err)
				os.Exit(1)
			}
			if *logSteps {
				slog.Debug("step",
					"episode", ep,
					"tick", info.Steps,
					"reward", reward,
					"guards_alive", info.GuardsAlive,
				)
			}
		}

		stats := collector.RecordEpisode(ep, rngSeed, info)
		if err := output.WriteEpisode(stats); err != nil {
			slog.Error("failed to write episode record", "error", err)
			os.Exit(1)
		}
		slog.Info("episode finished",
			"episode", ep,
			"outcome", stats.Outcome,
			"steps", stats.Steps,
			"kills", stats.Kills,
			"reward", stats.Reward,
		)
	}

	telemetry.Summarize(collector.Episodes()).Log(slog.Default())
}
