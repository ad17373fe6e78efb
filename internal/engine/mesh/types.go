// Package mesh provides the vertex/face store backing the terrain surface.
//
// Vertices and faces live in a generational arena. Every cross reference
// (neighbor lists, face corners, frontier path endpoints) is a handle rather
// than a pointer, so a handle to a removed element fails lookup instead of
// reaching freed state.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

var (
	// ErrUnknownVertex is returned when a handle does not name a live vertex.
	ErrUnknownVertex = errors.New("mesh: unknown vertex")
	// ErrDegenerateFace is returned when a face would reuse a vertex.
	ErrDegenerateFace = errors.New("mesh: degenerate face")
)

// VertexID is a generational handle to a vertex. The zero value is nil.
type VertexID struct {
	slot uint32
	gen  uint32
}

// IsNil reports whether the handle is the zero handle.
func (id VertexID) IsNil() bool { return id.gen == 0 }

func (id VertexID) String() string {
	if id.IsNil() {
		return "v(nil)"
	}
	return fmt.Sprintf("v%d.%d", id.slot, id.gen)
}

// FaceID is a generational handle to a face. The zero value is nil.
type FaceID struct {
	slot uint32
	gen  uint32
}

// IsNil reports whether the handle is the zero handle.
func (id FaceID) IsNil() bool { return id.gen == 0 }

func (id FaceID) String() string {
	if id.IsNil() {
		return "f(nil)"
	}
	return fmt.Sprintf("f%d.%d", id.slot, id.gen)
}

// Vertex is a surface point with its local frame and adjacency.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	UV        mgl32.Vec2

	// Index is the position in the render order, or -1 while unregistered.
	Index int

	neighbors []VertexID
	faces     []FaceID
}

// Neighbors returns the adjacent vertices. The slice must not be modified.
func (v *Vertex) Neighbors() []VertexID { return v.neighbors }

// Faces returns the incident faces. The slice must not be modified.
func (v *Vertex) Faces() []FaceID { return v.faces }

// Frame returns the vertex's tangent frame.
func (v *Vertex) Frame() math.Frame {
	return math.Frame{Tangent: v.Tangent, Bitangent: v.Bitangent, Normal: v.Normal}
}

// SetFrame overwrites the tangent frame.
func (v *Vertex) SetFrame(f math.Frame) {
	v.Tangent = f.Tangent
	v.Bitangent = f.Bitangent
	v.Normal = f.Normal
}

// HasNeighbor reports whether id is adjacent to v.
func (v *Vertex) HasNeighbor(id VertexID) bool {
	return indexOf(v.neighbors, id) >= 0
}

// Face is a triangle over three distinct vertices.
type Face struct {
	Vertices [3]VertexID
	Normal   mgl32.Vec3

	pos int // position in Store.faceOrder
}

// Has reports whether the face references id.
func (f *Face) Has(id VertexID) bool {
	return f.Vertices[0] == id || f.Vertices[1] == id || f.Vertices[2] == id
}

func indexOf[T comparable](s []T, x T) int {
	for i, e := range s {
		if e == x {
			return i
		}
	}
	return -1
}

// removeOrdered deletes the first x from s keeping the order of the rest.
func removeOrdered[T comparable](s []T, x T) ([]T, bool) {
	i := indexOf(s, x)
	if i < 0 {
		return s, false
	}
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1], true
}
