package reducer

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// Request asks for From to be collapsed into To.
type Request struct {
	From mesh.VertexID
	To   mesh.VertexID
}

// Collapser applies collapse requests one at a time.
//
// Requests are usually planned in parallel against a snapshot of the mesh, so
// a later request may name a vertex that an earlier one already removed. The
// collapser remembers where every removed vertex went and resolves such
// requests to the surviving vertex.
type Collapser struct {
	store    *mesh.Store
	redirect map[mesh.VertexID]mesh.VertexID

	applied int
	skipped int
}

// NewCollapser creates a collapser over s.
func NewCollapser(s *mesh.Store) *Collapser {
	return &Collapser{
		store:    s,
		redirect: make(map[mesh.VertexID]mesh.VertexID),
	}
}

// Resolve follows the redirect chain of id to the vertex that absorbed it.
func (c *Collapser) Resolve(id mesh.VertexID) mesh.VertexID {
	for {
		next, ok := c.redirect[id]
		if !ok {
			return id
		}
		id = next
	}
}

// Apply runs the requests in order and returns, for each one, the vertex that
// survived it. A request whose From was already absorbed is skipped and
// reports the absorbing vertex; a To that was absorbed is followed to its
// survivor.
func (c *Collapser) Apply(reqs []Request) []mesh.VertexID {
	survivors := make([]mesh.VertexID, len(reqs))
	for i, r := range reqs {
		if _, gone := c.redirect[r.From]; gone {
			survivors[i] = c.Resolve(r.From)
			c.skipped++
			continue
		}
		from, to := r.From, c.Resolve(r.To)
		survivors[i] = to
		if from == to || !c.store.Valid(from) || !c.store.Valid(to) {
			c.skipped++
			continue
		}
		Collapse(c.store, from, to)
		c.redirect[from] = to
		c.applied++
	}
	return survivors
}

// Applied returns the number of collapses performed.
func (c *Collapser) Applied() int { return c.applied }

// Skipped returns the number of requests that resolved to nothing to do.
func (c *Collapser) Skipped() int { return c.skipped }
