// Package camera provides an orbit camera for interactive viewing.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float64 // Distance from center
	RotationX float64 // Pitch (vertical angle, radians)
	RotationY float64 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10,
		RotationX:       0.5,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() math.Vec3 {
	sx, cx := gomath.Sincos(c.RotationX)
	sy, cy := gomath.Sincos(c.RotationY)
	offset := math.Vec3{cx * sy, sx, cx * cy}
	return c.Center.Add(offset.Mul(c.Distance))
}

// Direction returns the unit view direction, from the eye to the center.
func (c *OrbitCamera) Direction() math.Vec3 {
	return math.Normalize(c.Center.Sub(c.Eye()))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookDir(c.Eye(), c.Direction())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center point on the XZ plane relative to the
// current yaw, and vertically along Y.
func (c *OrbitCamera) HandleMovement(forward, right, up float64) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sy, cy := gomath.Sincos(c.RotationY)
	dir := math.Vec3{-sy, 0, -cy}
	side := math.Vec3{cy, 0, -sy}

	move := dir.Mul(forward).Add(side.Mul(right)).Add(math.Vec3{0, up, 0})
	c.Center = c.Center.Add(move.Mul(speed))
}

// LookFrom places the camera at eye orbiting center. Pitch is clamped to
// the camera limits.
func (c *OrbitCamera) LookFrom(eye, center math.Vec3) {
	offset := eye.Sub(center)
	d := offset.Len()
	if d < math.Epsilon {
		return
	}
	c.Center = center
	c.Distance = d
	c.RotationX = math.Clamp(gomath.Asin(offset[1]/d), c.MinPitch, c.MaxPitch)
	c.RotationY = gomath.Atan2(offset[0], offset[2])
}

// FitToBounds centres the camera on b at a distance that keeps the whole
// box in a 45 degree field of view.
func (c *OrbitCamera) FitToBounds(b model.Bounds) {
	if b.Empty() {
		return
	}
	c.Center = b.Center()
	r := gomath.Max(b.Radius(), math.Epsilon)
	c.Distance = math.Clamp(r/gomath.Sin(math.Radians(22.5)), c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0
}
