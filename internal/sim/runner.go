package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/frontier"
	"github.com/Faultbox/midgard-terrain/internal/engine/parallel"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrSnapshotsDisabled is returned by Snapshot when no snapshot directory is
// configured.
var ErrSnapshotsDisabled = errors.New("sim: snapshots are disabled")

// Runner steps a generator once per frame around a moving tracker.
type Runner struct {
	cfg     *config.Config
	log     *zap.Logger
	pool    *parallel.Pool
	gen     *frontier.Generator
	tracker *Tracker

	wireframe *debug.Wireframe
	snapshots *debug.SnapshotCapture

	frame int
}

// New creates a runner from a loaded configuration.
func New(cfg *config.Config, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fc := cfg.Terrain.Frontier()
	pool := parallel.New(
		parallel.WithWorkers(cfg.Parallel.Workers),
		parallel.WithGrain(cfg.Parallel.Grain),
	)
	gen, err := frontier.New(fc,
		frontier.WithPool(pool),
		frontier.WithLogger(log.Named("frontier")),
		frontier.WithStrict(cfg.Terrain.Strict),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	frame := math.SeedFrame(fc.SeedDirection)
	r := &Runner{
		cfg:     cfg,
		log:     log,
		pool:    pool,
		gen:     gen,
		tracker: NewTracker(cfg.Simulation.Path(frame), cfg.Simulation.Speed),
	}
	r.tracker.Loop = true

	if dir := cfg.Debug.SnapshotDir; dir != "" {
		r.snapshots = debug.NewSnapshotCapture(dir, "frontier")
		r.wireframe = debug.NewWireframe(cfg.Debug.ImageSize, float64(cfg.Debug.Scale), frame)
	}

	log.Info("runner initialized",
		zap.Int("frames", cfg.Simulation.Frames),
		zap.Float32("radius", cfg.Simulation.Radius),
		zap.Int("workers", pool.Workers()),
		zap.Bool("strict", cfg.Terrain.Strict),
		zap.Bool("snapshots", r.snapshots != nil),
	)
	return r, nil
}

// Close stops the worker pool. The runner must not be stepped afterwards.
func (r *Runner) Close() {
	r.pool.Close()
}

// Generator returns the driven generator.
func (r *Runner) Generator() *frontier.Generator { return r.gen }

// Tracker returns the moving tracked point.
func (r *Runner) Tracker() *Tracker { return r.tracker }

// Frame returns the number of frames stepped so far.
func (r *Runner) Frame() int { return r.frame }

// Run seeds the surface and steps it for the configured number of frames, or
// until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.gen.GenerateModel()
	r.frame = 0

	var tick <-chan time.Time
	if d := r.cfg.Simulation.FrameInterval; d > 0 {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	r.log.Info("starting simulation")

	for r.frame < r.cfg.Simulation.Frames {
		select {
		case <-ctx.Done():
			r.log.Info("simulation interrupted", zap.Int("frame", r.frame))
			return ctx.Err()
		default:
		}

		if err := r.Step(); err != nil {
			return err
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}

	st := r.gen.Stats()
	r.log.Info("simulation finished",
		zap.Int("frames", r.frame),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("paths", st.Paths),
		zap.Int("vertices", st.Vertices),
		zap.Int("faces", st.Faces),
	)
	return nil
}

// Step advances the tracker and updates the surface once.
func (r *Runner) Step() error {
	profiling.ResetFrame()
	r.frame++

	center := r.tracker.Update()
	r.gen.UpdateMesh(center, r.cfg.Simulation.Radius)

	if n := r.cfg.Simulation.ValidateEvery; n > 0 && r.frame%n == 0 {
		if err := r.gen.Validate(); err != nil {
			return fmt.Errorf("frame %d: %w", r.frame, err)
		}
	}

	if n := r.cfg.Simulation.StatsEvery; n > 0 && r.frame%n == 0 {
		r.logStats(center)
	}

	if r.snapshots != nil && r.cfg.Debug.SnapshotEvery > 0 && r.frame%r.cfg.Debug.SnapshotEvery == 0 {
		if _, err := r.Snapshot(); err != nil {
			// snapshots are diagnostics only
			r.log.Warn("snapshot failed", zap.Int("frame", r.frame), zap.Error(err))
		}
	}
	return nil
}

// Snapshot renders the current surface and writes it as a PNG.
func (r *Runner) Snapshot() (string, error) {
	if r.snapshots == nil {
		return "", ErrSnapshotsDisabled
	}
	defer profiling.Track("sim.Snapshot")()

	paths := r.gen.Ring()
	store := r.gen.Store()
	ring := make([]mgl32.Vec3, 0, len(paths))
	for _, p := range paths {
		ring = append(ring, store.Position(p.Head))
	}

	r.wireframe.Center = r.tracker.Position()
	img := r.wireframe.Render(debug.Scene{
		Mesh:     r.gen.Buffers(),
		Frontier: ring,
		Tracked:  r.tracker.Position(),
		Radius:   r.cfg.Simulation.Radius,
	})
	path, err := r.snapshots.Save(img, r.frame)
	if err != nil {
		return "", err
	}
	r.log.Debug("snapshot saved", zap.String("path", path))
	return path, nil
}

func (r *Runner) logStats(center mgl32.Vec3) {
	st := r.gen.Stats()
	fields := []zap.Field{
		zap.Int("frame", r.frame),
		zap.Float32s("center", center[:]),
		zap.Int("paths", st.Paths),
		zap.Int("advancing", st.Advancing),
		zap.Int("retreating", st.Retreating),
		zap.Int("vertices", st.Vertices),
		zap.Int("faces", st.Faces),
	}
	fields = append(fields, profiling.Fields(3)...)
	r.log.Info("frame stats", fields...)
}
