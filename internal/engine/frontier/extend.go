package frontier

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// extend moves every advancing path forward by one edge.
//
// Positions are computed in two parallel passes over a snapshot of the ring:
// the raw extension along each heading, then a blend toward the point one
// edge beyond the midpoint of the neighbors. Only the serial commit allocates
// vertices, so the parallel passes never write shared state.
func (g *Generator) extend() {
	defer profiling.Track("frontier.Extend")()

	g.reslot()
	n := len(g.paths)
	edge := g.cfg.EdgeLength

	raw := make([]mgl32.Vec3, n)
	heads := make([]mgl32.Vec3, n)
	tails := make([]mgl32.Vec3, n)

	g.pool.For(n, func(i int) {
		p := g.paths[i]
		head := g.store.Vertex(p.Head)
		if p.Action != Advance {
			heads[i] = head.Position
			tails[i] = head.Position
			if g.store.Valid(p.Tail) {
				tails[i] = g.store.Position(p.Tail)
			}
			return
		}
		dir := p.Heading
		if g.cfg.Jitter > 0 {
			dir = math.Normalize(dir.Add(head.Normal.Mul(g.jitter(i))), p.Heading)
		}
		raw[i] = head.Position.Add(dir.Mul(edge))
		heads[i] = raw[i]
		tails[i] = head.Position
	})

	smoothed := make([]mgl32.Vec3, n)
	blend := g.cfg.SmoothBlend
	g.pool.For(n, func(i int) {
		p := g.paths[i]
		if p.Action != Advance {
			return
		}
		l, r := p.Left.slot, p.Right.slot
		midTail := math.Midpoint(tails[l], tails[r])
		midHead := math.Midpoint(heads[l], heads[r])
		target := midTail.Add(math.Direction(midHead, midTail, p.Heading).Mul(edge))
		smoothed[i] = math.Lerp(raw[i], target, blend)
	})

	for i, p := range g.paths {
		if p.Action != Advance {
			continue
		}
		old := g.store.Vertex(p.Head)
		frame := old.Frame()
		pos := smoothed[i]
		id := g.store.NewVertex(mesh.Vertex{
			Position:  pos,
			Normal:    frame.Normal,
			Tangent:   frame.Tangent,
			Bitangent: frame.Bitangent,
			UV:        old.UV.Add(math.ProjectUV(frame, pos.Sub(old.Position), g.cfg.UVStep)),
		})
		p.Heading = math.Direction(raw[i], old.Position, p.Heading)
		p.Tail = p.Head
		p.Head = id
	}
}

// jitter returns a tilt in [-Jitter, Jitter) that depends only on the random
// seed, the step number and the path slot, so runs are reproducible no matter
// how the loop is scheduled.
func (g *Generator) jitter(slot int) float32 {
	r := rand.New(rand.NewPCG(g.cfg.RandomSeed, g.step<<32|uint64(slot)))
	return (2*r.Float32() - 1) * g.cfg.Jitter
}
