// Package math provides the float64 vector and matrix vocabulary of the
// rasterizer. Storage types come from mathgl's mgl64; this package adds the
// helpers the pipeline needs on top of them.
package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon guards every near-zero comparison in the pipeline.
const Epsilon = 1e-4

// Vector and matrix types shared by every package. Matrices are column-major.
type (
	Vec2 = mgl64.Vec2
	Vec3 = mgl64.Vec3
	Vec4 = mgl64.Vec4
	Mat3 = mgl64.Mat3
	Mat4 = mgl64.Mat4
)

// Normalize returns a unit vector, or the zero vector when v has no length.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Hadamard returns the component-wise product of a and b.
func Hadamard(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Lerp3 returns a + (b-a)*t.
func Lerp3(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Lerp2 returns a + (b-a)*t.
func Lerp2(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// Lerp4 returns a + (b-a)*t.
func Lerp4(a, b Vec4, t float64) Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Blend3 combines three vectors with barycentric weights.
func Blend3(a, b, c Vec3, w [3]float64) Vec3 {
	return Vec3{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
		a[2]*w[0] + b[2]*w[1] + c[2]*w[2],
	}
}

// Blend2 combines three 2D vectors with barycentric weights.
func Blend2(a, b, c Vec2, w [3]float64) Vec2 {
	return Vec2{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
	}
}

// Blend combines three scalars with barycentric weights.
func Blend(a, b, c float64, w [3]float64) float64 {
	return a*w[0] + b*w[1] + c*w[2]
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return mgl64.Clamp(x, lo, hi)
}

// ClampInt limits x to [lo, hi].
func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits every component of v to [0, 1].
func Clamp01(v Vec3) Vec3 {
	return Vec3{Clamp(v[0], 0, 1), Clamp(v[1], 0, 1), Clamp(v[2], 0, 1)}
}

// RoundInt rounds half away from zero.
func RoundInt(x float64) int {
	return int(gomath.Round(x))
}

// ApproxEqual reports whether a and b differ by at most eps in every component.
func ApproxEqual(a, b Vec3, eps float64) bool {
	for i := range a {
		if gomath.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
