// Package math provides vector helpers for terrain mesh generation.
//
// It works on mgl32 types and guards the degenerate cases (zero-length or
// non-finite vectors) that a growing mesh runs into.
package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the squared length below which a vector is treated as zero.
const Epsilon float32 = 1e-12

// Up is the world up axis.
var Up = mgl32.Vec3{0, 1, 0}

// Square returns f * f.
func Square(f float32) float32 {
	return f * f
}

// DistSq returns the squared distance between two points.
func DistSq(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// LenSq returns the squared magnitude.
func LenSq(v mgl32.Vec3) float32 {
	return v.Dot(v)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b mgl32.Vec3) mgl32.Vec3 {
	return a.Add(b).Mul(0.5)
}

// Lerp blends a toward b by t.
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// IsFinite reports whether every component is a real number.
func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Normalize returns a unit vector, or fallback when v has no usable direction.
func Normalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l2 := LenSq(v)
	if l2 < Epsilon || !IsFinite(v) {
		return fallback
	}
	return v.Mul(1 / math32.Sqrt(l2))
}

// Direction returns the unit vector from tail to head.
// Coincident points yield fallback instead of NaN.
func Direction(head, tail, fallback mgl32.Vec3) mgl32.Vec3 {
	return Normalize(head.Sub(tail), fallback)
}

// RingDirection returns the i-th of n unit directions evenly spaced around the
// plane spanned by frame.Bitangent and frame.Tangent, starting at the bitangent.
func RingDirection(frame Frame, i, n int) mgl32.Vec3 {
	theta := 2 * math32.Pi * float32(i) / float32(n)
	d := frame.Bitangent.Mul(math32.Cos(theta)).Sub(frame.Tangent.Mul(math32.Sin(theta)))
	return Normalize(d, frame.Bitangent)
}
