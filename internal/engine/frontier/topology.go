package frontier

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/profiling"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// merge fuses the heads of adjacent advancing paths that ended up too close.
// The surviving head moves to the average of every head folded into it and
// all paths that shared the removed head adopt the survivor.
func (g *Generator) merge() {
	defer profiling.Track("frontier.Merge")()

	limit := g.cfg.mergeDistSq()
	for _, p := range g.paths {
		right := p.Right
		keep, remove := p.Head, right.Head
		if p.Action != Advance || right.Action != Advance {
			continue
		}
		if keep == remove || p.Tail == right.Tail {
			continue
		}
		kv := g.store.Vertex(keep)
		removed := g.store.Position(remove)
		if math.DistSq(kv.Position, removed) >= limit {
			continue
		}

		sum := kv.Position
		count := 1
		for q := right; q.Head == remove; q = q.Right {
			q.Head = keep
			sum = sum.Add(removed)
			count++
		}
		kv.Position = sum.Mul(1 / float32(count))
		g.store.RemoveVertex(remove)
		g.counts.Merged++
	}
}

// split inserts a path between adjacent advancing paths whose heads drifted
// too far apart. The new head sits at the midpoint of the two heads and
// starts from whichever tail is nearer, the left one on a tie.
func (g *Generator) split() {
	defer profiling.Track("frontier.Split")()

	limit := g.cfg.splitDistSq()
	n := len(g.paths)
	for i := 0; i < n; i++ {
		left := g.paths[i]
		right := left.Right
		if left.Action != Advance || right.Action != Advance {
			continue
		}
		lh, rh := g.store.Position(left.Head), g.store.Position(right.Head)
		if math.DistSq(lh, rh) <= limit {
			continue
		}

		lt, rt := g.store.Vertex(left.Tail), g.store.Vertex(right.Tail)
		mid := math.Midpoint(lh, rh)
		frame := lt.Frame()
		head := g.store.NewVertex(mesh.Vertex{
			Position:  mid,
			Normal:    frame.Normal,
			Tangent:   frame.Tangent,
			Bitangent: frame.Bitangent,
			UV:        lt.UV.Add(math.ProjectUV(frame, mid.Sub(lt.Position), g.cfg.UVStep)),
		})

		tail := left.Tail
		if math.DistSq(mid, rt.Position) < math.DistSq(mid, lt.Position) {
			tail = right.Tail
		}
		p := &Path{
			Head:    head,
			Tail:    tail,
			Heading: math.Direction(mid, math.Midpoint(lt.Position, rt.Position), left.Heading),
			Action:  Advance,
		}
		insertRight(left, p)
		g.paths = append(g.paths, p)
		g.counts.Split++
	}
}
