// Package reducer shrinks a mesh by collapsing edges.
package reducer

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// Collapse merges from into its neighbor to. Faces shared by both vertices
// are deleted, the remaining faces of from are repointed to to, from's other
// neighbors become neighbors of to, and from is removed from the store.
//
// The vertex count drops by exactly one and the face count by the number of
// shared faces.
func Collapse(s *mesh.Store, from, to mesh.VertexID) {
	s.Assert(from != to, "collapsing %s into itself", from)
	s.Assert(s.AreNeighbors(from, to), "collapsing %s into non-neighbor %s", from, to)

	for _, f := range s.SharedFaces(from, to) {
		s.RemoveFace(f)
	}

	fromV := s.Vertex(from)
	for _, f := range append([]mesh.FaceID(nil), fromV.Faces()...) {
		s.ReplaceFaceVertex(f, from, to)
	}

	for _, n := range append([]mesh.VertexID(nil), fromV.Neighbors()...) {
		if n != to {
			s.Link(n, to)
		}
	}

	s.RemoveVertex(from)
}
