package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-raster/internal/engine/lighting"
	"github.com/Faultbox/midgard-raster/internal/engine/scene"
	"github.com/Faultbox/midgard-raster/internal/engine/shader"
	"github.com/Faultbox/midgard-raster/internal/logger"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Validate reports the first setting that cannot produce a renderer.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render: invalid image size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Frames < 0 {
		return fmt.Errorf("render.frames: must not be negative, got %d", c.Render.Frames)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera: need 0 < near < far, got %g, %g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera.fov_y: must be in (0, 180), got %g", c.Camera.FovY)
	}
	if _, err := c.SceneOptions(zap.NewNop()); err != nil {
		return err
	}
	if _, err := c.ShadowSettings(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// SceneOptions builds the scene configuration described by c.
func (c *Config) SceneOptions(log *zap.Logger) (scene.Config, error) {
	sc := scene.DefaultConfig()
	sc.Width = c.Render.Width
	sc.Height = c.Render.Height
	sc.Workers = c.Render.Workers
	sc.FovY = c.Camera.FovY
	sc.Near = c.Camera.Near
	sc.Far = c.Camera.Far
	sc.MaskBlurRadius = c.Render.MaskBlurRadius
	sc.FitDirectionalShadows = c.Render.FitShadows
	sc.Logger = log

	if bg := c.Render.Background; len(bg) > 0 {
		if len(bg) != 3 {
			return sc, fmt.Errorf("render.background: want 3 components, got %d", len(bg))
		}
		sc.Background = math.Vec3{bg[0], bg[1], bg[2]}
	}

	sh, err := shader.New(c.Render.Shader)
	if err != nil {
		return sc, fmt.Errorf("render.shader: %w", err)
	}
	if bp, ok := sh.(*shader.BlinnPhong); ok {
		mode, err := shader.ParseAmbientMode(c.Render.Ambient)
		if err != nil {
			return sc, fmt.Errorf("render.ambient_mode: %w", err)
		}
		bp.Mode = mode
	}
	sc.Shader = sh
	return sc, nil
}

// ShadowSettings returns the shadow defaults described by c.
func (c *Config) ShadowSettings() (lighting.ShadowSettings, error) {
	s := lighting.DefaultShadowSettings()
	filter, err := lighting.ParseMethod(c.Shadow.Filter)
	if err != nil {
		return s, fmt.Errorf("shadow.filter: %w", err)
	}
	s.Enabled = c.Shadow.Enabled
	s.Filter = filter
	if c.Shadow.Resolution > 0 {
		s.Width, s.Height = c.Shadow.Resolution, c.Shadow.Resolution
	}
	s.PCFRadius = max(0, c.Shadow.PCFRadius)
	s.LightSize = c.Shadow.LightSize
	s.BiasScale = c.Shadow.BiasScale
	s.PCFAccel = c.Shadow.PCFAccel
	s.PCSSAccel = c.Shadow.PCSSAccel
	if c.Shadow.Samples > 0 {
		s.Samples = c.Shadow.Samples
	}
	if c.Shadow.Clump > 0 {
		s.Clump = c.Shadow.Clump
	}
	s.PenumbraMask = c.Shadow.PenumbraMask
	return s, nil
}
