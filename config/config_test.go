package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 1280 || cfg.World.Height != 720 {
		t.Errorf("world = %gx%g", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Sensors.NumRays != 16 {
		t.Errorf("num_rays = %d", cfg.Sensors.NumRays)
	}
	if cfg.Episode.StepPenalty != -0.1 {
		t.Errorf("step_penalty = %v", cfg.Episode.StepPenalty)
	}
	if !cfg.Episode.HoldUntilFirstMove {
		t.Error("hold_until_first_move should default on")
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := []byte("guard:\n  vision_range: 250\nepisode:\n  max_steps: 500\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Overridden fields take the file's values.
	if cfg.Guard.VisionRange != 250 {
		t.Errorf("vision_range = %v, want 250", cfg.Guard.VisionRange)
	}
	if cfg.Episode.MaxSteps != 500 {
		t.Errorf("max_steps = %d, want 500", cfg.Episode.MaxSteps)
	}
	// Untouched fields keep their defaults.
	if cfg.Guard.VisionFOVDeg != 60 {
		t.Errorf("vision_fov_deg = %v, want default 60", cfg.Guard.VisionFOVDeg)
	}
	if cfg.Player.Speed != 3.0 {
		t.Errorf("player speed = %v, want default 3.0", cfg.Player.Speed)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := 30 * math.Pi / 180
	if math.Abs(cfg.Derived.VisionHalfAngle-want) > 1e-12 {
		t.Errorf("half angle = %v, want %v", cfg.Derived.VisionHalfAngle, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Guard.VisionRange = 123

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Guard.VisionRange != 123 {
		t.Errorf("vision_range = %v after round trip", back.Guard.VisionRange)
	}
}
