// Package config handles terrain simulator configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/frontier"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config holds all simulator settings.
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Simulation SimulationConfig `yaml:"simulation"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TerrainConfig holds the frontier growth parameters.
type TerrainConfig struct {
	EdgeLength    float32    `yaml:"edge_length"`
	InitialPaths  int        `yaml:"initial_paths"`
	MergeRatio    float32    `yaml:"merge_ratio"`
	SplitRatio    float32    `yaml:"split_ratio"`
	SmoothBlend   float32    `yaml:"smooth_blend"`
	UVStep        float32    `yaml:"uv_step"`
	Jitter        float32    `yaml:"jitter"`
	SeedDirection [3]float32 `yaml:"seed_direction"`
	SeedUV        [2]float32 `yaml:"seed_uv"`
	RandomSeed    uint64     `yaml:"random_seed"`
	Strict        bool       `yaml:"strict"` // panic on invariant violations
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 0 selects NumCPU-1
	Grain   int `yaml:"grain"`   // minimum paths per task
}

// SimulationConfig describes the tracked point and the run length.
// Waypoints are given in surface coordinates: x along the seed tangent, y
// along the seed direction and z along the seed normal, so a route with
// z = 0 stays in the plane the surface grows in.
type SimulationConfig struct {
	Frames        int           `yaml:"frames"`
	Radius        float32       `yaml:"radius"`
	Speed         float32       `yaml:"speed"` // world units per frame
	Waypoints     [][3]float32  `yaml:"waypoints"`
	FrameInterval time.Duration `yaml:"frame_interval"` // 0 runs unthrottled
	ValidateEvery int           `yaml:"validate_every"` // 0 disables
	StatsEvery    int           `yaml:"stats_every"`
}

// DebugConfig holds wireframe snapshot settings.
type DebugConfig struct {
	SnapshotDir   string  `yaml:"snapshot_dir"` // empty disables snapshots
	SnapshotEvery int     `yaml:"snapshot_every"`
	ImageSize     int     `yaml:"image_size"`
	Scale         float32 `yaml:"scale"` // pixels per world unit
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	fc := frontier.DefaultConfig()
	return &Config{
		Terrain: TerrainConfig{
			EdgeLength:    fc.EdgeLength,
			InitialPaths:  fc.InitialPaths,
			MergeRatio:    fc.MergeRatio,
			SplitRatio:    fc.SplitRatio,
			SmoothBlend:   fc.SmoothBlend,
			UVStep:        fc.UVStep,
			Jitter:        fc.Jitter,
			SeedDirection: fc.SeedDirection,
			SeedUV:        fc.SeedUV,
			RandomSeed:    fc.RandomSeed,
		},
		Parallel: ParallelConfig{
			Workers: 0,
			Grain:   64,
		},
		Simulation: SimulationConfig{
			Frames: 600,
			Radius: 10,
			Speed:  0.25,
			Waypoints: [][3]float32{
				{0, 0, 0},
				{20, 0, 0},
				{20, 20, 0},
				{0, 20, 0},
			},
			StatsEvery: 60,
		},
		Debug: DebugConfig{
			SnapshotEvery: 100,
			ImageSize:     1024,
			Scale:         16,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Frontier converts the terrain section into generator parameters.
func (t TerrainConfig) Frontier() frontier.Config {
	return frontier.Config{
		EdgeLength:    t.EdgeLength,
		InitialPaths:  t.InitialPaths,
		MergeRatio:    t.MergeRatio,
		SplitRatio:    t.SplitRatio,
		SmoothBlend:   t.SmoothBlend,
		UVStep:        t.UVStep,
		Jitter:        t.Jitter,
		SeedDirection: mgl32.Vec3(t.SeedDirection),
		SeedUV:        mgl32.Vec2(t.SeedUV),
		RandomSeed:    t.RandomSeed,
	}
}

// Path returns the waypoints in world space for the given seed frame.
func (s SimulationConfig) Path(frame math.Frame) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Waypoints))
	for i, w := range s.Waypoints {
		out[i] = frame.Tangent.Mul(w[0]).Add(frame.Bitangent.Mul(w[1])).Add(frame.Normal.Mul(w[2]))
	}
	return out
}

// Validate reports every setting that cannot drive a run.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Terrain.Frontier().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("terrain: %w", err))
	}
	if c.Simulation.Frames < 0 {
		errs = append(errs, fmt.Errorf("simulation: frames must not be negative, got %d", c.Simulation.Frames))
	}
	if c.Simulation.Radius <= 0 {
		errs = append(errs, fmt.Errorf("simulation: radius must be positive, got %v", c.Simulation.Radius))
	}
	if len(c.Simulation.Waypoints) == 0 {
		errs = append(errs, errors.New("simulation: at least one waypoint is required"))
	}
	if c.Debug.SnapshotDir != "" && c.Debug.ImageSize <= 0 {
		errs = append(errs, fmt.Errorf("debug: image size must be positive, got %d", c.Debug.ImageSize))
	}
	return errors.Join(errs...)
}
