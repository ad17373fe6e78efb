package frontier

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// triangulate fills the strip between each path and its right neighbor and
// registers the heads of advancing paths. Faces are wound head, tail, then
// the far corner.
func (g *Generator) triangulate() {
	defer profiling.Track("frontier.Triangulate")()

	for _, p := range g.paths {
		right := p.Right
		// a merged run may share one head across every path of the ring
		if p.Action == Advance {
			g.store.AddVertex(p.Head)
		}

		switch {
		case p.Head == right.Head:
			if p.Action == Advance && right.Action == Advance {
				g.face(p.Head, p.Tail, right.Tail)
			}
		case p.Tail == right.Tail:
			if p.Action == Advance {
				g.face(p.Head, p.Tail, right.Head)
			}
		default:
			g.bridge(p, right)
		}
	}
}

// bridge covers the quad between two paths that share neither endpoint.
func (g *Generator) bridge(p, right *Path) {
	switch {
	case p.Action == Advance && right.Action != Advance:
		g.face(p.Head, p.Tail, right.Head)
	case p.Action != Advance && right.Action == Advance:
		g.face(p.Head, right.Tail, right.Head)
	case p.Action == Advance && right.Action == Advance:
		// cut along the shorter diagonal
		headToTail := math.DistSq(g.store.Position(right.Head), g.store.Position(p.Tail))
		tailToHead := math.DistSq(g.store.Position(p.Head), g.store.Position(right.Tail))
		if headToTail < tailToHead {
			g.face(p.Head, p.Tail, right.Head)
			g.face(right.Head, p.Tail, right.Tail)
		} else {
			g.face(p.Head, p.Tail, right.Tail)
			g.face(right.Head, p.Head, right.Tail)
		}
	}
}

func (g *Generator) face(a, b, c mesh.VertexID) {
	_, err := g.store.AddFace(a, b, c)
	switch {
	case err == nil:
		g.counts.Faces++
	case errors.Is(err, mesh.ErrDegenerateFace):
		g.counts.Degenerate++
		g.log.Debug("skipped face", zap.Stringer("a", a), zap.Stringer("b", b), zap.Stringer("c", c), zap.Error(err))
	default:
		g.store.Assert(false, "%v", err)
	}
}
