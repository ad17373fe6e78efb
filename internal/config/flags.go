package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagFrames   = flag.Int("frames", 0, "Number of frames to simulate")
	flagRadius   = flag.Float64("radius", 0, "Tracking radius around the moving point")
	flagWorkers  = flag.Int("workers", 0, "Worker goroutines for parallel phases")
	flagSnapshot = flag.String("snapshot", "", "Directory for wireframe snapshots")
	flagStrict   = flag.Bool("strict", false, "Panic on mesh invariant violations")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Simulation.ValidateEvery = 1
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagRadius > 0 {
		cfg.Simulation.Radius = float32(*flagRadius)
	}
	if *flagWorkers > 0 {
		cfg.Parallel.Workers = *flagWorkers
	}
	if *flagSnapshot != "" {
		cfg.Debug.SnapshotDir = *flagSnapshot
	}
	if *flagStrict {
		cfg.Terrain.Strict = true
	}
}
