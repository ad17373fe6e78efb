package frontier

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/reducer"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// retreat pulls every retreating path back by one edge.
//
// Collapse requests are planned in parallel, applied by a single collapser
// and the new tails are then chosen in parallel against the settled mesh.
func (g *Generator) retreat() {
	defer profiling.Track("frontier.Retreat")()

	var idx []int
	for i, p := range g.paths {
		if p.Action == Retreat {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}

	reqs := make([]reducer.Request, len(idx))
	g.pool.For(len(idx), func(k int) {
		p := g.paths[idx[k]]
		to := p.Tail
		if !g.store.Valid(to) {
			to = p.Head
		}
		reqs[k] = reducer.Request{From: p.Head, To: to}
	})

	c := reducer.NewCollapser(g.store)
	c.Apply(reqs)
	g.counts.Collapsed = c.Applied()

	// paths outside the retreating set may share an absorbed endpoint
	if c.Applied() > 0 {
		for _, p := range g.paths {
			p.Head = c.Resolve(p.Head)
			p.Tail = c.Resolve(p.Tail)
		}
	}

	g.pool.For(len(idx), func(k int) {
		p := g.paths[idx[k]]
		p.Tail = g.oppositeNeighbor(p.Head, p.Heading)
	})

	for _, i := range idx {
		g.touched = append(g.touched, g.paths[i].Head)
	}
}

// oppositeNeighbor returns the neighbor of head lying furthest against
// heading. The first neighbor wins ties; a head without neighbors is its own
// tail.
func (g *Generator) oppositeNeighbor(head mesh.VertexID, heading mgl32.Vec3) mesh.VertexID {
	v := g.store.Vertex(head)
	if v == nil || len(v.Neighbors()) == 0 {
		return head
	}
	back := heading.Mul(-1)
	best := v.Neighbors()[0]
	bestDot := float32(-2)
	for _, n := range v.Neighbors() {
		d := math.Direction(g.store.Position(n), v.Position, mgl32.Vec3{}).Dot(back)
		if d > bestDot {
			best, bestDot = n, d
		}
	}
	return best
}

// prune splices out paths that share their head with the right neighbor,
// folding the heading into the survivor. A ring never drops below
// MinRingSize paths.
func (g *Generator) prune() {
	defer profiling.Track("frontier.Prune")()

	kept := make([]*Path, 0, len(g.paths))
	size := len(g.paths)
	for _, p := range g.paths {
		right := p.Right
		if p.Head != right.Head || size <= MinRingSize {
			kept = append(kept, p)
			continue
		}
		right.Heading = math.Normalize(p.Heading.Add(right.Heading), right.Heading)
		unlink(p)
		size--
		g.counts.Pruned++
	}
	if size <= MinRingSize && g.counts.Collapsed > 0 {
		g.log.Debug("ring at minimum size", zap.Int("paths", size))
	}
	g.paths = kept
}
