package frontier

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// classify picks each path's action from the distance of its endpoints to
// center. A head inside the sphere advances, a path entirely outside
// retreats, and anything straddling the boundary holds.
func (g *Generator) classify(center mgl32.Vec3, radius float32) {
	defer profiling.Track("frontier.Classify")()

	r2 := radius * radius
	g.pool.For(len(g.paths), func(i int) {
		p := g.paths[i]
		head := g.store.Position(p.Head)
		tail := head
		if g.store.Valid(p.Tail) {
			tail = g.store.Position(p.Tail)
		}
		p.Action = classifyPath(math.DistSq(head, center), math.DistSq(tail, center), r2)
	})
}

func classifyPath(headDistSq, tailDistSq, radiusSq float32) BuildAction {
	switch {
	case headDistSq < radiusSq:
		return Advance
	case headDistSq > radiusSq && tailDistSq > radiusSq:
		return Retreat
	default:
		return Station
	}
}
