package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// BuildMesh rebuilds the render buffers from s.
// Faces that reference an unregistered vertex are skipped and counted.
func BuildMesh(s *mesh.Store) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, s.VertexCount()),
		Indices:  make([]uint32, 0, 3*s.FaceCount()),
	}

	// Initialize bounds
	m.Bounds = Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	s.EachVertex(func(_ mesh.VertexID, v *mesh.Vertex) {
		m.Vertices = append(m.Vertices, Vertex{
			Position:  v.Position,
			Normal:    v.Normal,
			Tangent:   v.Tangent,
			Bitangent: v.Bitangent,
			TexCoord:  v.UV,
		})
		updateBounds(&m.Bounds, v.Position)
	})
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
	}

	s.EachFace(func(_ mesh.FaceID, f *mesh.Face) {
		var tri [3]uint32
		for i, id := range f.Vertices {
			v := s.Vertex(id)
			if v == nil || v.Index < 0 {
				m.Skipped++
				return
			}
			tri[i] = uint32(v.Index)
		}
		m.Indices = append(m.Indices, tri[:]...)
	})

	return m
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
