package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

type vertexSlot struct {
	gen uint32
	v   *Vertex
}

type faceSlot struct {
	gen uint32
	f   *Face
}

// Store owns every vertex and face of a surface.
//
// A Store is not safe for concurrent mutation. Concurrent readers are fine as
// long as nobody adds or removes elements meanwhile; writing a vertex's own
// attribute fields from one goroutine per vertex is also fine.
type Store struct {
	verts     []vertexSlot
	freeVerts []uint32
	live      int

	faces     []faceSlot
	freeFaces []uint32

	order     []VertexID // registered vertices by stable index
	faceOrder []FaceID

	strict bool
	log    *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStrict makes invariant violations panic instead of being tolerated.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// WithLogger reports tolerated invariant violations to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strict reports whether invariant violations panic.
func (s *Store) Strict() bool { return s.strict }

// Assert panics with msg in strict mode when ok is false and logs a warning
// otherwise. It returns ok so callers can fall back in lenient mode.
func (s *Store) Assert(ok bool, format string, args ...any) bool {
	if ok {
		return true
	}
	msg := fmt.Sprintf("mesh: "+format, args...)
	if s.strict {
		panic(msg)
	}
	s.log.Warn("invariant violated", zap.String("detail", msg))
	return false
}

// NewVertex allocates a vertex in the arena. The vertex is not part of the
// render order until AddVertex registers it.
func (s *Store) NewVertex(v Vertex) VertexID {
	nv := v
	nv.Index = -1
	nv.neighbors = nil
	nv.faces = nil

	var slot uint32
	if n := len(s.freeVerts); n > 0 {
		slot = s.freeVerts[n-1]
		s.freeVerts = s.freeVerts[:n-1]
	} else {
		slot = uint32(len(s.verts))
		s.verts = append(s.verts, vertexSlot{})
	}
	vs := &s.verts[slot]
	vs.gen++
	vs.v = &nv
	s.live++
	return VertexID{slot: slot, gen: vs.gen}
}

// Vertex returns the vertex for id, or nil if id is stale or nil.
func (s *Store) Vertex(id VertexID) *Vertex {
	if id.IsNil() || int(id.slot) >= len(s.verts) {
		return nil
	}
	vs := s.verts[id.slot]
	if vs.gen != id.gen {
		return nil
	}
	return vs.v
}

// Valid reports whether id names a live vertex.
func (s *Store) Valid(id VertexID) bool {
	return s.Vertex(id) != nil
}

// Position returns the position of a live vertex.
func (s *Store) Position(id VertexID) mgl32.Vec3 {
	return s.mustVertex(id).Position
}

func (s *Store) mustVertex(id VertexID) *Vertex {
	v := s.Vertex(id)
	if v == nil {
		panic(fmt.Sprintf("mesh: %s is not a live vertex", id))
	}
	return v
}

// AddVertex appends a live vertex to the render order and assigns its stable
// index. It returns false when the vertex was already registered.
func (s *Store) AddVertex(id VertexID) bool {
	v := s.mustVertex(id)
	if v.Index >= 0 {
		return false
	}
	v.Index = len(s.order)
	s.order = append(s.order, id)
	return true
}

// Registered reports whether id is live and part of the render order.
func (s *Store) Registered(id VertexID) bool {
	v := s.Vertex(id)
	return v != nil && v.Index >= 0
}

// RemoveVertex destroys a vertex. Callers must detach its faces first.
// Remaining neighbor links are dropped, and every registered vertex after it
// is shifted down one index so the render order stays dense.
func (s *Store) RemoveVertex(id VertexID) {
	v := s.mustVertex(id)
	s.Assert(len(v.faces) == 0, "removing %s with %d incident faces", id, len(v.faces))

	for _, f := range append([]FaceID(nil), v.faces...) {
		s.RemoveFace(f)
	}
	for _, n := range v.neighbors {
		if nv := s.Vertex(n); nv != nil {
			nv.neighbors, _ = removeOrdered(nv.neighbors, id)
		}
	}
	v.neighbors = nil

	if v.Index >= 0 {
		at := v.Index
		copy(s.order[at:], s.order[at+1:])
		s.order = s.order[:len(s.order)-1]
		for i := at; i < len(s.order); i++ {
			s.verts[s.order[i].slot].v.Index = i
		}
		v.Index = -1
	}

	s.verts[id.slot].v = nil
	s.freeVerts = append(s.freeVerts, id.slot)
	s.live--
}

// Link makes a and b mutual neighbors. Existing links and self links are ignored.
func (s *Store) Link(a, b VertexID) {
	if a == b {
		return
	}
	va, vb := s.mustVertex(a), s.mustVertex(b)
	if !va.HasNeighbor(b) {
		va.neighbors = append(va.neighbors, b)
	}
	if !vb.HasNeighbor(a) {
		vb.neighbors = append(vb.neighbors, a)
	}
}

// Unlink removes the neighbor relation between a and b in both directions.
func (s *Store) Unlink(a, b VertexID) {
	if va := s.Vertex(a); va != nil {
		va.neighbors, _ = removeOrdered(va.neighbors, b)
	}
	if vb := s.Vertex(b); vb != nil {
		vb.neighbors, _ = removeOrdered(vb.neighbors, a)
	}
}

// AreNeighbors reports whether a and b are adjacent.
func (s *Store) AreNeighbors(a, b VertexID) bool {
	va, vb := s.Vertex(a), s.Vertex(b)
	if va == nil || vb == nil {
		return false
	}
	// scan the shorter list
	if len(va.neighbors) <= len(vb.neighbors) {
		return va.HasNeighbor(b)
	}
	return vb.HasNeighbor(a)
}

// VertexCount returns the number of registered vertices.
func (s *Store) VertexCount() int { return len(s.order) }

// LiveVertexCount returns the number of allocated vertices, registered or not.
func (s *Store) LiveVertexCount() int { return s.live }

// Vertices returns the registered vertices in stable index order.
func (s *Store) Vertices() []VertexID {
	return append([]VertexID(nil), s.order...)
}

// EachVertex calls fn for every registered vertex in stable index order.
func (s *Store) EachVertex(fn func(id VertexID, v *Vertex)) {
	for _, id := range s.order {
		fn(id, s.verts[id.slot].v)
	}
}

// RecomputeVertexNormal sets the vertex normal to the area weighted average of
// its incident face normals and rebuilds the tangent frame around it.
// A vertex without faces keeps its frame.
func (s *Store) RecomputeVertexNormal(id VertexID) {
	v := s.mustVertex(id)
	var sum mgl32.Vec3
	for _, fid := range v.faces {
		f := s.Face(fid)
		if f == nil {
			continue
		}
		// the unnormalized cross product carries twice the triangle area
		sum = sum.Add(s.faceCross(f))
	}
	if math.LenSq(sum) < math.Epsilon {
		return
	}
	v.SetFrame(v.Frame().Reorthonormalize(sum))
}
