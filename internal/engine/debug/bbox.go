package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// BBoxEdgeCount is the number of edges of a box outline.
const BBoxEdgeCount = 12

// BBoxEdges returns the 12 edges of the box spanned by lo and hi as pairs
// of corners.
func BBoxEdges(lo, hi mgl32.Vec3) [BBoxEdgeCount][2]mgl32.Vec3 {
	c := func(x, y, z int) mgl32.Vec3 {
		pick := func(i, sel int) float32 {
			if sel == 0 {
				return lo[i]
			}
			return hi[i]
		}
		return mgl32.Vec3{pick(0, x), pick(1, y), pick(2, z)}
	}
	return [BBoxEdgeCount][2]mgl32.Vec3{
		// bottom
		{c(0, 0, 0), c(1, 0, 0)},
		{c(1, 0, 0), c(1, 0, 1)},
		{c(1, 0, 1), c(0, 0, 1)},
		{c(0, 0, 1), c(0, 0, 0)},
		// top
		{c(0, 1, 0), c(1, 1, 0)},
		{c(1, 1, 0), c(1, 1, 1)},
		{c(1, 1, 1), c(0, 1, 1)},
		{c(0, 1, 1), c(0, 1, 0)},
		// vertical
		{c(0, 0, 0), c(0, 1, 0)},
		{c(1, 0, 0), c(1, 1, 0)},
		{c(1, 0, 1), c(1, 1, 1)},
		{c(0, 0, 1), c(0, 1, 1)},
	}
}

// BoundsEdges returns the outline of mesh bounds expanded by padding on all
// sides.
func BoundsEdges(b terrain.Bounds, padding float32) [BBoxEdgeCount][2]mgl32.Vec3 {
	pad := mgl32.Vec3{padding, padding, padding}
	return BBoxEdges(mgl32.Vec3(b.Min).Sub(pad), mgl32.Vec3(b.Max).Add(pad))
}
