package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

func TestEye(t *testing.T) {
	tests := []struct {
		name       string
		pitch, yaw float64
		want       math.Vec3
	}{
		{"front", 0, 0, math.Vec3{0, 0, 10}},
		{"side", 0, gomath.Pi / 2, math.Vec3{10, 0, 0}},
		{"above", gomath.Pi / 2, 0, math.Vec3{0, 10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.RotationX, c.RotationY = tt.pitch, tt.yaw
			if got := c.Eye(); !math.ApproxEqual(got, tt.want, 1e-9) {
				t.Errorf("Eye() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionPointsAtCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{1, 2, 3}
	c.RotationY = 0.7

	ahead := c.Eye().Add(c.Direction().Mul(c.Distance))
	if !math.ApproxEqual(ahead, c.Center, 1e-9) {
		t.Errorf("eye + dir*distance = %v, want center %v", ahead, c.Center)
	}

	// The center lies on the view -Z axis
	got := math.TransformPoint(c.ViewMatrix(), c.Center)
	if !math.ApproxEqual(got, math.Vec3{0, 0, -c.Distance}, 1e-9) {
		t.Errorf("center in view space = %v", got)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %f, want %f", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(100, 0)
	if gomath.Abs(c.RotationY+0.5) > 1e-12 {
		t.Errorf("yaw = %f, want -0.5", c.RotationY)
	}
}

func TestHandleZoom(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleZoom(1)
	if c.Distance != 9 {
		t.Errorf("distance = %f, want 9", c.Distance)
	}
	c.HandleZoom(-1e6)
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %f, want max", c.Distance)
	}
}

func TestHandleMovement(t *testing.T) {
	c := NewOrbitCamera()
	// Forward moves toward the scene, away from the eye
	c.HandleMovement(1, 0, 0)
	if !math.ApproxEqual(c.Center, math.Vec3{0, 0, -0.1}, 1e-12) {
		t.Errorf("center = %v", c.Center)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	b := model.EmptyBounds().Extend(math.Vec3{-2, 0, -2}).Extend(math.Vec3{2, 2, 2})
	c.FitToBounds(b)

	if c.Center != (math.Vec3{0, 1, 0}) {
		t.Errorf("center = %v", c.Center)
	}
	if d := c.Eye().Sub(c.Center).Len(); d <= b.Radius() {
		t.Errorf("eye %f from center is inside the bounds", d)
	}
}

func TestLookFrom(t *testing.T) {
	c := NewOrbitCamera()
	eye := math.Vec3{3, 4, -2}
	center := math.Vec3{1, 1, 1}
	c.LookFrom(eye, center)

	if got := c.Eye(); !math.ApproxEqual(got, eye, 1e-9) {
		t.Errorf("Eye() = %v, want %v", got, eye)
	}
	if got := c.Direction(); !math.ApproxEqual(got, math.Normalize(center.Sub(eye)), 1e-9) {
		t.Errorf("Direction() = %v", got)
	}
}
