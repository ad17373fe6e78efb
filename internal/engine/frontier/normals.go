package frontier

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
)

// renormalize recomputes the frame of every vertex the step touched: both
// endpoints of advancing paths and the survivors of collapses.
func (g *Generator) renormalize() {
	defer profiling.Track("frontier.Renormalize")()

	seen := make(map[mesh.VertexID]struct{}, 2*len(g.paths)+len(g.touched))
	var ids []mesh.VertexID
	add := func(id mesh.VertexID) {
		if _, ok := seen[id]; ok || !g.store.Valid(id) {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range g.paths {
		if p.Action == Advance {
			add(p.Head)
			add(p.Tail)
		}
	}
	for _, id := range g.touched {
		add(id)
	}

	g.pool.For(len(ids), func(i int) {
		g.store.RecomputeVertexNormal(ids[i])
	})
}
