// Package terrain flattens a mesh store into render buffers.
package terrain

// Vertex is one render vertex with its full tangent frame.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	Tangent   [3]float32
	Bitangent [3]float32
	TexCoord  [2]float32
}

// Mesh holds vertex and index buffers ready for GPU upload.
// Vertices are in stable index order and Indices reference those positions,
// three per triangle.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	// Skipped counts faces left out because a corner was not registered.
	Skipped int
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Size returns the extent of the bounding box along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}
