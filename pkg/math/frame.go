package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is an orthonormal tangent/bitangent/normal basis.
type Frame struct {
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	Normal    mgl32.Vec3
}

// SeedFrame builds a frame whose bitangent points along dir.
// The tangent is dir x Up and the normal is tangent x bitangent, so the
// surface spreads across the plane containing dir.
func SeedFrame(dir mgl32.Vec3) Frame {
	b := Normalize(dir, mgl32.Vec3{0, 0, -1})
	t := Normalize(b.Cross(Up), mgl32.Vec3{1, 0, 0})
	n := Normalize(t.Cross(b), Up)
	return Frame{Tangent: t, Bitangent: b, Normal: n}
}

// InverseTBN returns the matrix mapping world offsets into the frame's
// (tangent, bitangent, normal) coordinates.
func InverseTBN(f Frame) mgl32.Mat3 {
	return mgl32.Mat3FromCols(f.Tangent, f.Bitangent, f.Normal).Inv()
}

// ProjectUV converts a world-space offset into a texture-space offset scaled by step.
func ProjectUV(f Frame, delta mgl32.Vec3, step float32) mgl32.Vec2 {
	local := InverseTBN(f).Mul3x1(delta)
	return mgl32.Vec2{local[0], local[1]}.Mul(step)
}

// Reorthonormalize rebuilds the frame around a new normal, keeping the tangent
// as close to the old one as possible. A degenerate normal leaves f untouched.
func (f Frame) Reorthonormalize(normal mgl32.Vec3) Frame {
	n := Normalize(normal, mgl32.Vec3{})
	if n == (mgl32.Vec3{}) {
		return f
	}
	t := f.Tangent.Sub(n.Mul(n.Dot(f.Tangent)))
	t = Normalize(t, mgl32.Vec3{})
	if t == (mgl32.Vec3{}) {
		// old tangent is parallel to the new normal; derive from the bitangent instead
		t = Normalize(f.Bitangent.Cross(n), f.Tangent)
	}
	return Frame{Tangent: t, Bitangent: n.Cross(t), Normal: n}
}
