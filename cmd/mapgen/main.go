// Command mapgen generates a seeded random map and writes it as a
// YAML map file that the simulator loads with -map.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/ambush/config"
	"github.com/pthm-cable/ambush/level"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "Generator seed")
	walls := flag.Int("walls", 12, "Interior wall count")
	guards := flag.Int("guards", 5, "Guard count")
	wander := flag.Bool("wander", false, "Generate wandering guards with no patrol routes")
	out := flag.String("out", "map.yaml", "Output path")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	lay := level.NewRandom(cfg.World.Width, cfg.World.Height, *seed, level.RandomOptions{
		NumWalls:  *walls,
		NumGuards: *guards,
		Wander:    *wander,
	})

	data, err := level.Marshal(lay, *guards)
	if err != nil {
		slog.Error("failed to marshal map", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		slog.Error("failed to write map", "path", *out, "error", err)
		os.Exit(1)
	}

	slog.Info("map written",
		"path", *out,
		"seed", *seed,
		"walls", *walls,
		"guards", *guards,
	)
}
