package scene

import (
	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/picking"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Camera is the viewer's eye and projection.
type Camera struct {
	Eye    math.Vec3
	Dir    math.Vec3 // unit view direction
	FovY   float64   // vertical field of view in degrees
	Aspect float64   // width / height
	Near   float64
	Far    float64
}

// View returns the world-to-view matrix.
func (c Camera) View() math.Mat4 {
	return math.LookDir(c.Eye, c.Dir)
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Transform returns the clip transform for the camera.
func (c Camera) Transform() clip.Transform {
	view := c.View()
	return clip.Transform{MVP: c.Projection().Mul4(view), MV: view}
}

// SetEye moves the camera.
func (s *Scene) SetEye(eye math.Vec3) { s.camera.Eye = eye }

// SetViewDir points the camera along dir. A zero direction is ignored.
func (s *Scene) SetViewDir(dir math.Vec3) {
	if dir.Len() == 0 {
		return
	}
	s.camera.Dir = math.Normalize(dir)
}

// LookAt points the camera at target.
func (s *Scene) LookAt(target math.Vec3) {
	s.SetViewDir(target.Sub(s.camera.Eye))
}

// SetFovY sets the vertical field of view in degrees. Values outside
// (0, 180) are ignored.
func (s *Scene) SetFovY(deg float64) {
	if deg > 0 && deg < 180 {
		s.camera.FovY = deg
	}
}

// SetAspect sets the projection aspect ratio. Non-positive values are
// ignored.
func (s *Scene) SetAspect(aspect float64) {
	if aspect > 0 {
		s.camera.Aspect = aspect
	}
}

// SetNearFar sets the clip plane distances. The pair is ignored unless
// 0 < near < far.
func (s *Scene) SetNearFar(near, far float64) {
	if near > 0 && far > near {
		s.camera.Near, s.camera.Far = near, far
	}
}

// Camera returns the current camera.
func (s *Scene) Camera() Camera { return s.camera }

// Ray returns the world-space ray through the centre of pixel (x, y).
func (s *Scene) Ray(x, y int) picking.Ray {
	vp := s.camera.Projection().Mul4(s.camera.View())
	return picking.ScreenToRay(float64(x)+0.5, float64(y)+0.5,
		float64(s.cfg.Width), float64(s.cfg.Height), vp.Inv())
}

// Pick returns the model visible at pixel (x, y).
func (s *Scene) Pick(x, y int) (ModelID, picking.Hit, bool) {
	hit, ok := picking.Pick(s.Models(), s.Ray(x, y))
	if !ok {
		return 0, hit, false
	}
	return s.models[hit.Index].id, hit, true
}
