// Package frontier grows and shrinks a terrain surface around a tracked point.
//
// The surface boundary is a ring of paths. Each build step extends the paths
// that lie inside the tracking radius, merges and splits them to keep edges
// near the target length, fills the gap behind them with triangles, and
// collapses paths that fell outside the radius.
package frontier

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/parallel"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Generator owns a surface and the frontier ring that grows it.
// Build steps are serialized; a Generator must not be copied.
type Generator struct {
	cfg      Config
	pool     *parallel.Pool
	ownsPool bool
	log      *zap.Logger
	strict   bool

	mu      sync.Mutex
	store   *mesh.Store
	paths   []*Path
	buffers *terrain.Mesh
	step    uint64
	counts  StepCounts
	touched []mesh.VertexID
}

// Option configures a Generator.
type Option func(*Generator)

// WithPool sets the worker pool for the parallel phases.
func WithPool(p *parallel.Pool) Option {
	return func(g *Generator) {
		g.pool = p
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithStrict makes invariant violations panic and validates the whole
// surface after every build step.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// New creates a generator. Call GenerateModel before stepping it.
func New(cfg Config, options ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("frontier config: %w", err)
	}
	g := &Generator{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, option := range options {
		option(g)
	}
	if g.pool == nil {
		g.pool = parallel.New()
		g.ownsPool = true
	}
	g.store = mesh.New(mesh.WithStrict(g.strict), mesh.WithLogger(g.log))
	g.buffers = &terrain.Mesh{}
	return g, nil
}

// GenerateModel discards any previous surface, plants the seed vertex with
// its ring of paths, runs the first build step and returns the buffers.
func (g *Generator) GenerateModel() *terrain.Mesh {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.store = mesh.New(mesh.WithStrict(g.strict), mesh.WithLogger(g.log))
	g.step = 0

	frame := math.SeedFrame(g.cfg.SeedDirection)
	seed := g.store.NewVertex(mesh.Vertex{UV: g.cfg.SeedUV})
	g.store.Vertex(seed).SetFrame(frame)
	g.store.AddVertex(seed)

	n := g.cfg.InitialPaths
	g.paths = make([]*Path, n)
	for i := range g.paths {
		g.paths[i] = &Path{
			Head:    seed,
			Heading: math.RingDirection(frame, i, n),
			Action:  Advance,
		}
	}
	for i, p := range g.paths {
		p.Left = g.paths[(i+1)%n]
		p.Right = g.paths[(i-1+n)%n]
	}

	g.log.Info("seeded frontier",
		zap.Int("paths", n),
		zap.Float32("edge_length", g.cfg.EdgeLength),
	)

	g.buildStep()
	return g.buffers
}

// UpdateMesh reclassifies every path against the sphere (center, radius) and
// runs one build step.
func (g *Generator) UpdateMesh(center mgl32.Vec3, radius float32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.classify(center, radius)
	g.buildStep()
}

// BuildStep runs one build step with the current path actions.
func (g *Generator) BuildStep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.buildStep()
}

func (g *Generator) buildStep() {
	defer profiling.Track("frontier.BuildStep")()

	g.step++
	g.counts = StepCounts{}
	g.touched = g.touched[:0]

	g.extend()
	g.merge()
	g.split()
	g.triangulate()
	g.retreat()
	g.prune()
	g.renormalize()

	g.buffers = terrain.BuildMesh(g.store)

	if g.strict {
		if err := g.validate(); err != nil {
			panic(fmt.Sprintf("frontier: step %d left an invalid surface: %v", g.step, err))
		}
	}

	g.log.Debug("build step",
		zap.Uint64("step", g.step),
		zap.Int("paths", len(g.paths)),
		zap.Int("vertices", g.store.VertexCount()),
		zap.Int("faces", g.store.FaceCount()),
		zap.Int("merged", g.counts.Merged),
		zap.Int("split", g.counts.Split),
		zap.Int("collapsed", g.counts.Collapsed),
		zap.Int("pruned", g.counts.Pruned),
	)
	if g.counts.Degenerate > 0 {
		g.log.Warn("skipped degenerate faces",
			zap.Uint64("step", g.step),
			zap.Int("count", g.counts.Degenerate),
		)
	}
}

// reslot records each path's position in g.paths so parallel phases can
// address neighbor results by index.
func (g *Generator) reslot() {
	for i, p := range g.paths {
		p.slot = i
	}
}

// Close stops the worker pool if the generator created it. A pool passed
// through WithPool belongs to the caller.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ownsPool {
		g.pool.Close()
	}
}

// Buffers returns the render buffers produced by the last build step.
func (g *Generator) Buffers() *terrain.Mesh {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buffers
}

// Store returns the underlying surface. It must not be used while a build
// step is running.
func (g *Generator) Store() *mesh.Store {
	return g.store
}

// Paths returns the frontier paths in iteration order.
func (g *Generator) Paths() []*Path {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Path(nil), g.paths...)
}

// Ring returns the paths in ring order, walking right from the first path.
func (g *Generator) Ring() []*Path {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.paths) == 0 {
		return nil
	}
	start := g.paths[0]
	ring := make([]*Path, 0, len(g.paths))
	for p := start; p != nil && len(ring) < len(g.paths); p = p.Right {
		ring = append(ring, p)
		if p.Right == start {
			break
		}
	}
	return ring
}

// Config returns the growth parameters.
func (g *Generator) Config() Config { return g.cfg }

// CheckRing verifies ring closure and minimum ring size.
func (g *Generator) CheckRing() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return checkRing(g.paths)
}

// Validate checks the ring, the path endpoints and the surface invariants.
func (g *Generator) Validate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validate()
}

func (g *Generator) validate() error {
	errs := []error{checkRing(g.paths)}
	for i, p := range g.paths {
		if !g.store.Registered(p.Head) {
			errs = append(errs, fmt.Errorf("path %d: head %s is not a registered vertex", i, p.Head))
		}
		if !g.store.Valid(p.Tail) {
			errs = append(errs, fmt.Errorf("path %d: tail %s is not a live vertex", i, p.Tail))
		}
	}
	errs = append(errs, g.store.Validate())
	return errors.Join(errs...)
}
