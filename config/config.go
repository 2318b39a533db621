// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Player   PlayerConfig   `yaml:"player"`
	Guard    GuardConfig    `yaml:"guard"`
	Shooting ShootingConfig `yaml:"shooting"`
	Sensors  SensorsConfig  `yaml:"sensors"`
	Episode  EpisodeConfig  `yaml:"episode"`
	Nav      NavConfig      `yaml:"nav"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig holds player movement and combat parameters.
type PlayerConfig struct {
	Speed       float64 `yaml:"speed"`        // Units per tick
	Radius      float64 `yaml:"radius"`       // Collision radius
	AttackRange float64 `yaml:"attack_range"` // Melee kill distance
	// Diagonal actions are scaled by 1/sqrt(2) so every direction covers
	// the same distance per tick.
	NormalizeDiagonal bool `yaml:"normalize_diagonal"`
}

// GuardConfig holds guard movement, vision and AI parameters.
type GuardConfig struct {
	Speed            float64 `yaml:"speed"`              // Patrol/alert speed, units per tick
	ChaseSpeed       float64 `yaml:"chase_speed"`        // Chase speed, units per tick
	Radius           float64 `yaml:"radius"`             // Collision radius
	VisionRange      float64 `yaml:"vision_range"`       // Max detection distance
	VisionFOVDeg     float64 `yaml:"vision_fov_deg"`     // Full cone width in degrees
	PatrolPauseTicks int     `yaml:"patrol_pause_ticks"` // Hold time at each waypoint
	AlertTicks       int     `yaml:"alert_ticks"`        // Ticks searching before giving up
	StandoffRange    float64 `yaml:"standoff_range"`     // Chase hold distance
	ArrivalEpsilon   float64 `yaml:"arrival_epsilon"`    // Waypoint arrival distance
	WallBuffer       float64 `yaml:"wall_buffer"`        // Extra clearance from walls
}

// ShootingConfig holds projectile parameters.
type ShootingConfig struct {
	CooldownTicks int     `yaml:"cooldown_ticks"` // Ticks between shots
	DelayTicks    int     `yaml:"delay_ticks"`    // Detection-to-first-shot delay
	BulletSpeed   float64 `yaml:"bullet_speed"`   // Units per tick
	BulletRadius  float64 `yaml:"bullet_radius"`
	LifetimeTicks int     `yaml:"lifetime_ticks"` // Ticks before a bullet expires
}

// SensorsConfig holds the player observation sensor parameters.
type SensorsConfig struct {
	NumRays        int     `yaml:"num_rays"`         // Rays over a full circle
	RayMaxDistance float64 `yaml:"ray_max_distance"` // Clamp/normalization range
}

// EpisodeConfig holds stepping, reward and termination parameters.
type EpisodeConfig struct {
	MaxSteps            int     `yaml:"max_steps"`
	StepPenalty         float64 `yaml:"step_penalty"`
	KillReward          float64 `yaml:"kill_reward"`
	DeathPenalty        float64 `yaml:"death_penalty"`
	WinReward           float64 `yaml:"win_reward"`
	DistanceRewardScale float64 `yaml:"distance_reward_scale"`
	HoldUntilFirstMove  bool    `yaml:"hold_until_first_move"`
	MeleeOnly           bool    `yaml:"melee_only"` // Legacy mode: guards kill by contact and never shoot
}

// NavConfig holds navigation grid parameters for planners.
type NavConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	VisionHalfAngle float64 // Half cone width in radians
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.VisionHalfAngle = c.Guard.VisionFOVDeg / 2 * math.Pi / 180
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
