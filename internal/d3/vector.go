package d3

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// float32 vector helpers on mgl32.Vec3 that mathgl does not provide.

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Min(a[0], b[0]), math32.Min(a[1], b[1]), math32.Min(a[2], b[2])}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Max(a[0], b[0]), math32.Max(a[1], b[1]), math32.Max(a[2], b[2])}
}

func Max(a mgl32.Vec3) float32 {
	return math32.Max(a[2], math32.Max(a[0], a[1]))
}

// IsFinite reports whether all components are neither NaN nor infinite.
func IsFinite(a mgl32.Vec3) bool {
	for _, c := range a {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Unit returns a normalized with float32 arithmetic. The zero vector
// is returned unchanged instead of producing NaNs.
func Unit(a mgl32.Vec3) mgl32.Vec3 {
	n := math32.Sqrt(a.Dot(a))
	if n == 0 {
		return a
	}
	return a.Mul(1 / n)
}

type Set []mgl32.Vec3

// Bounds returns the smallest box containing every vector of the set.
// Bounds panics on an empty set.
func (a Set) Bounds() Box {
	bb := Box{Min: a[0], Max: a[0]}
	for _, v := range a[1:] {
		bb = bb.Include(v)
	}
	return bb
}
