package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Identity returns an identity matrix.
func Identity() Mat4 {
	return mgl64.Ident4()
}

// Perspective returns a perspective projection matrix.
// fovY is the vertical field of view in degrees, aspect is width/height.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fovY), aspect, near, far)
}

// Ortho returns a symmetric orthographic projection covering a
// width x height window between near and far.
func Ortho(width, height, near, far float64) Mat4 {
	return mgl64.Ortho(-width/2, width/2, -height/2, height/2, near, far)
}

// LookDir returns a view matrix for an eye looking along dir.
// The up vector is world Y projected onto the view plane; when dir is
// parallel to Y the world -Z axis is used instead.
func LookDir(eye, dir Vec3) Mat4 {
	d := Normalize(dir)
	up := Vec3{0, 1, 0}
	if gomath.Abs(d.Dot(up)) > 1-Epsilon {
		up = Vec3{0, 0, -1}
	}
	return mgl64.LookAtV(eye, eye.Add(d), up)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return mgl64.DegToRad(deg)
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	return mgl64.Translate3D(v[0], v[1], v[2])
}

// UniformScale returns a scale matrix about the origin.
func UniformScale(s float64) Mat4 {
	return mgl64.Scale3D(s, s, s)
}

// RotateAxis returns a rotation around axis through the origin.
// The axis is normalized here; angle is in degrees.
func RotateAxis(axis Vec3, angle float64) Mat4 {
	return mgl64.HomogRotate3D(mgl64.DegToRad(angle), Normalize(axis))
}

// RotateAbout returns a rotation around axis through center:
// translate-to-origin, rotate, translate-back.
func RotateAbout(center, axis Vec3, angle float64) Mat4 {
	return Translate(center).Mul4(RotateAxis(axis, angle)).Mul4(Translate(center.Mul(-1)))
}

// NormalMatrix returns the inverse transpose of the linear part of m.
func NormalMatrix(m Mat4) Mat3 {
	return mgl64.Mat4Normal(m)
}

// TransformPoint applies an affine matrix to a point (w=1, no divide).
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformNormal applies a normal matrix and renormalizes.
func TransformNormal(n Mat3, v Vec3) Vec3 {
	return Normalize(n.Mul3x1(v))
}
