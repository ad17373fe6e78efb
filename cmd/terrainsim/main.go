// Package main is the entry point for the terrain frontier simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/internal/sim"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.JSON = cfg.Logging.JSON
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Terrain Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	r, err := sim.New(cfg, logger.Named("sim"))
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	if cfg.Debug.SnapshotDir != "" {
		if path, err := r.Snapshot(); err != nil {
			logger.Warn("final snapshot failed", zap.Error(err))
		} else {
			logger.Info("final snapshot", zap.String("path", path))
		}
	}

	logger.Info("simulation closed normally", zap.String("last_frame", profiling.TopN(5)))
}
