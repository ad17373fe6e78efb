package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// AddFace creates the triangle (a, b, c), links each pair of its vertices as
// neighbors and registers the face on all three.
func (s *Store) AddFace(a, b, c VertexID) (FaceID, error) {
	ids := [3]VertexID{a, b, c}
	for _, id := range ids {
		if s.Vertex(id) == nil {
			return FaceID{}, fmt.Errorf("adding face (%s %s %s): %w", a, b, c, ErrUnknownVertex)
		}
	}
	if a == b || b == c || a == c {
		return FaceID{}, fmt.Errorf("adding face (%s %s %s): %w", a, b, c, ErrDegenerateFace)
	}

	f := &Face{Vertices: ids, pos: len(s.faceOrder)}
	var slot uint32
	if n := len(s.freeFaces); n > 0 {
		slot = s.freeFaces[n-1]
		s.freeFaces = s.freeFaces[:n-1]
	} else {
		slot = uint32(len(s.faces))
		s.faces = append(s.faces, faceSlot{})
	}
	fs := &s.faces[slot]
	fs.gen++
	fs.f = f
	id := FaceID{slot: slot, gen: fs.gen}
	s.faceOrder = append(s.faceOrder, id)

	s.Link(a, b)
	s.Link(b, c)
	s.Link(a, c)
	for _, vid := range ids {
		v := s.verts[vid.slot].v
		v.faces = append(v.faces, id)
	}
	s.updateFaceNormal(f)
	return id, nil
}

// Face returns the face for id, or nil if id is stale or nil.
func (s *Store) Face(id FaceID) *Face {
	if id.IsNil() || int(id.slot) >= len(s.faces) {
		return nil
	}
	fs := s.faces[id.slot]
	if fs.gen != id.gen {
		return nil
	}
	return fs.f
}

// RemoveFace deletes a face and deregisters it from its vertices.
// Neighbor links are left alone since other faces or the frontier may share them.
func (s *Store) RemoveFace(id FaceID) {
	f := s.Face(id)
	if f == nil {
		s.Assert(false, "removing unknown face %s", id)
		return
	}
	for _, vid := range f.Vertices {
		if v := s.Vertex(vid); v != nil {
			v.faces, _ = removeOrdered(v.faces, id)
		}
	}

	// swap-delete from the face order
	last := len(s.faceOrder) - 1
	moved := s.faceOrder[last]
	s.faceOrder[f.pos] = moved
	s.faces[moved.slot].f.pos = f.pos
	s.faceOrder = s.faceOrder[:last]

	s.faces[id.slot].f = nil
	s.freeFaces = append(s.freeFaces, id.slot)
}

// ReplaceFaceVertex repoints the corner of f that references from so that it
// references to instead, and moves the incident-face entry accordingly.
func (s *Store) ReplaceFaceVertex(id FaceID, from, to VertexID) {
	f := s.Face(id)
	if f == nil {
		s.Assert(false, "repointing unknown face %s", id)
		return
	}
	vf, vt := s.Vertex(from), s.mustVertex(to)
	for i, vid := range f.Vertices {
		if vid == from {
			f.Vertices[i] = to
			break
		}
	}
	if vf != nil {
		vf.faces, _ = removeOrdered(vf.faces, id)
	}
	if indexOf(vt.faces, id) < 0 {
		vt.faces = append(vt.faces, id)
	}
	s.updateFaceNormal(f)
}

// SharedFaces returns the faces incident to both a and b.
func (s *Store) SharedFaces(a, b VertexID) []FaceID {
	va, vb := s.Vertex(a), s.Vertex(b)
	if va == nil || vb == nil {
		return nil
	}
	var shared []FaceID
	for _, f := range va.faces {
		if indexOf(vb.faces, f) >= 0 {
			shared = append(shared, f)
		}
	}
	return shared
}

// FaceCount returns the number of faces.
func (s *Store) FaceCount() int { return len(s.faceOrder) }

// Faces returns every face handle. Order is stable between mutations only.
func (s *Store) Faces() []FaceID {
	return append([]FaceID(nil), s.faceOrder...)
}

// EachFace calls fn for every face.
func (s *Store) EachFace(fn func(id FaceID, f *Face)) {
	for _, id := range s.faceOrder {
		fn(id, s.faces[id.slot].f)
	}
}

// UpdateFaceNormal recomputes the normal of a face after its vertices moved.
func (s *Store) UpdateFaceNormal(id FaceID) {
	if f := s.Face(id); f != nil {
		s.updateFaceNormal(f)
	}
}

func (s *Store) updateFaceNormal(f *Face) {
	f.Normal = math.Normalize(s.faceCross(f), f.Normal)
}

// faceCross returns (v1-v0) x (v2-v0).
func (s *Store) faceCross(f *Face) mgl32.Vec3 {
	p0 := s.verts[f.Vertices[0].slot].v.Position
	p1 := s.verts[f.Vertices[1].slot].v.Position
	p2 := s.verts[f.Vertices[2].slot].v.Position
	return p1.Sub(p0).Cross(p2.Sub(p0))
}
