// Package app wires configuration, assets and the scene together for the
// command line tools.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-raster/internal/assets"
	"github.com/Faultbox/midgard-raster/internal/config"
	"github.com/Faultbox/midgard-raster/internal/engine/scene"
)

// LoadScene creates a scene from cfg and populates it from the configured
// scene file.
func LoadScene(cfg *config.Config, log *zap.Logger) (*scene.Scene, *assets.Manager, error) {
	opts, err := cfg.SceneOptions(log.Named("scene"))
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	shadows, err := cfg.ShadowSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	s, err := scene.New(opts)
	if err != nil {
		return nil, nil, err
	}
	m, err := assets.LoadScene(cfg.Scene.Path, s, shadows, cfg.Scene.TextureMaxSize, log.Named("assets"))
	if err != nil {
		return nil, nil, err
	}
	return s, m, nil
}

// LogFrame writes the phase timings of the last frame at debug level.
func LogFrame(log *zap.Logger, st scene.FrameStats) {
	fields := []zap.Field{
		zap.Uint64("frame", st.Frame),
		zap.Int("triangles", st.Triangles),
		zap.Int("culled", st.Culled),
		zap.Int64("fragments", st.Fragments),
		zap.Duration("total", st.Total),
	}
	for p := scene.Phase(0); p < scene.NumPhases; p++ {
		fields = append(fields, zap.Duration(p.String(), st.Phases[p]))
	}
	log.Debug("frame stats", fields...)
}
