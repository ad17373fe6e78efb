package frontier

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config holds the frontier growth parameters.
type Config struct {
	// EdgeLength is the target length of a frontier edge.
	EdgeLength float32
	// InitialPaths is the number of paths radiating from the seed vertex.
	InitialPaths int
	// MergeRatio scales EdgeLength into the head distance below which two
	// advancing paths are merged.
	MergeRatio float32
	// SplitRatio scales EdgeLength into the head distance above which a new
	// path is inserted between two advancing paths.
	SplitRatio float32
	// SmoothBlend is the share of the smoothed position in an extended head;
	// the rest comes from the raw extension.
	SmoothBlend float32
	// UVStep scales world offsets into texture coordinates.
	UVStep float32
	// Jitter is the largest random tilt of an extension along the head normal.
	Jitter float32
	// SeedDirection is the general direction the surface spreads along.
	SeedDirection mgl32.Vec3
	// SeedUV is the texture coordinate of the seed vertex.
	SeedUV mgl32.Vec2
	// RandomSeed drives the jitter.
	RandomSeed uint64
}

// DefaultConfig returns the stock growth parameters.
func DefaultConfig() Config {
	return Config{
		EdgeLength:    1,
		InitialPaths:  6,
		MergeRatio:    0.6,
		SplitRatio:    1.5,
		SmoothBlend:   0.75,
		UVStep:        0.025,
		Jitter:        0,
		SeedDirection: mgl32.Vec3{0.25, 1, -0.25},
		SeedUV:        mgl32.Vec2{0.5, 0.5},
		RandomSeed:    1,
	}
}

// Validate reports the first parameter that cannot drive a build step.
func (c Config) Validate() error {
	switch {
	case c.EdgeLength <= 0:
		return fmt.Errorf("edge length must be positive, got %v", c.EdgeLength)
	case c.InitialPaths < MinRingSize:
		return fmt.Errorf("initial paths must be at least %d, got %d", MinRingSize, c.InitialPaths)
	case c.MergeRatio <= 0 || c.MergeRatio >= c.SplitRatio:
		return fmt.Errorf("merge ratio must be in (0, split ratio), got %v", c.MergeRatio)
	case c.SmoothBlend < 0 || c.SmoothBlend > 1:
		return fmt.Errorf("smooth blend must be in [0, 1], got %v", c.SmoothBlend)
	case c.Jitter < 0:
		return fmt.Errorf("jitter must not be negative, got %v", c.Jitter)
	case math.LenSq(c.SeedDirection) < math.Epsilon:
		return fmt.Errorf("seed direction must not be zero")
	}
	return nil
}

func (c Config) mergeDistSq() float32 {
	return math.Square(c.MergeRatio * c.EdgeLength)
}

func (c Config) splitDistSq() float32 {
	return math.Square(c.SplitRatio * c.EdgeLength)
}
