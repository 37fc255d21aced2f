// Package scene orchestrates a frame: it owns the camera, the G-buffer and
// the indexed model and light collections, and runs the render phases on
// a fixed worker pool with a barrier between phases.
package scene

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-raster/internal/engine/lighting"
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/internal/engine/raster"
	"github.com/Faultbox/midgard-raster/internal/engine/shader"
	"github.com/Faultbox/midgard-raster/internal/engine/shadow"
	"github.com/Faultbox/midgard-raster/internal/engine/workers"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width   int
	Height  int
	Workers int // 0 uses every CPU

	Background math.Vec3
	FovY       float64
	Near       float64
	Far        float64

	// Shader shades the G-buffer; nil selects Blinn-Phong.
	Shader shader.Shader

	// MaskBlurRadius is the penumbra mask blur radius in cells; a
	// negative value derives it from the image size.
	MaskBlurRadius int

	// FitDirectionalShadows re-centres every directional light's shadow
	// box on the scene bounds before its shadow pass.
	FitDirectionalShadows bool

	Logger *zap.Logger
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:          800,
		Height:         600,
		Background:     math.Vec3{0.7, 0.7, 0.7},
		FovY:           45,
		Near:           0.1,
		Far:            100,
		MaskBlurRadius: -1,
	}
}

// ModelID identifies a model attached to a scene. IDs are never reused.
type ModelID int

// LightID identifies a light attached to a scene. IDs are never reused.
type LightID int

type modelEntry struct {
	id ModelID
	m  *model.Model
}

type lightEntry struct {
	id LightID
	l  *lighting.Light
}

// Scene renders models lit by lights into a color buffer.
type Scene struct {
	cfg    Config
	log    *zap.Logger
	pool   *workers.Pool
	gbuf   *framebuffer.GBuffer
	shader shader.Shader
	camera Camera

	models []modelEntry
	lights []lightEntry
	nextID int

	clipper clip.Clipper
	stats   FrameStats
}

// New creates a scene with fixed pixel dimensions.
func New(cfg Config) (*Scene, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("scene: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FovY <= 0 || cfg.FovY >= 180 {
		cfg.FovY = 45
	}
	if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		cfg.Near, cfg.Far = 0.1, 100
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sh := cfg.Shader
	if sh == nil {
		sh = shader.NewBlinnPhong()
	}

	s := &Scene{
		cfg:    cfg,
		log:    log,
		pool:   workers.New(cfg.Workers),
		gbuf:   framebuffer.New(cfg.Width, cfg.Height),
		shader: sh,
		camera: Camera{
			Dir:    math.Vec3{0, 0, -1},
			FovY:   cfg.FovY,
			Aspect: float64(cfg.Width) / float64(cfg.Height),
			Near:   cfg.Near,
			Far:    cfg.Far,
		},
	}
	s.gbuf.Clear(cfg.Background)

	log.Debug("scene created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("workers", s.pool.Size()))
	return s, nil
}

// Width returns the image width in pixels.
func (s *Scene) Width() int { return s.cfg.Width }

// Height returns the image height in pixels.
func (s *Scene) Height() int { return s.cfg.Height }

// SetShader replaces the shading strategy. nil restores Blinn-Phong.
func (s *Scene) SetShader(sh shader.Shader) {
	if sh == nil {
		sh = shader.NewBlinnPhong()
	}
	s.shader = sh
}

// AddModel attaches m and returns its ID.
func (s *Scene) AddModel(m *model.Model) ModelID {
	s.nextID++
	id := ModelID(s.nextID)
	s.models = append(s.models, modelEntry{id: id, m: m})
	return id
}

// RemoveModel detaches the model with the given ID.
func (s *Scene) RemoveModel(id ModelID) bool {
	for i, e := range s.models {
		if e.id == id {
			s.models = append(s.models[:i], s.models[i+1:]...)
			return true
		}
	}
	return false
}

// Model returns the model with the given ID.
func (s *Scene) Model(id ModelID) (*model.Model, bool) {
	for _, e := range s.models {
		if e.id == id {
			return e.m, true
		}
	}
	return nil, false
}

// Models returns the attached models in insertion order.
func (s *Scene) Models() []*model.Model {
	out := make([]*model.Model, len(s.models))
	for i, e := range s.models {
		out[i] = e.m
	}
	return out
}

// AddLight attaches l and returns its ID.
func (s *Scene) AddLight(l *lighting.Light) LightID {
	s.nextID++
	id := LightID(s.nextID)
	s.lights = append(s.lights, lightEntry{id: id, l: l})
	return id
}

// RemoveLight detaches the light with the given ID.
func (s *Scene) RemoveLight(id LightID) bool {
	for i, e := range s.lights {
		if e.id == id {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return true
		}
	}
	return false
}

// Light returns the light with the given ID.
func (s *Scene) Light(id LightID) (*lighting.Light, bool) {
	for _, e := range s.lights {
		if e.id == id {
			return e.l, true
		}
	}
	return nil, false
}

// Lights returns the attached lights in insertion order.
func (s *Scene) Lights() []*lighting.Light {
	out := make([]*lighting.Light, len(s.lights))
	for i, e := range s.lights {
		out[i] = e.l
	}
	return out
}

// Bounds returns the bounding box of every attached model.
func (s *Scene) Bounds() model.Bounds {
	b := model.EmptyBounds()
	for _, e := range s.models {
		mb := e.m.Bounds()
		if mb.Empty() {
			continue
		}
		b = b.Extend(mb.Min).Extend(mb.Max)
	}
	return b
}

// GBuffer returns the geometry buffer of the last frame.
func (s *Scene) GBuffer() *framebuffer.GBuffer { return s.gbuf }

// Color returns the final colors of the last frame, row-major from the
// top row, every component in [0, 1].
func (s *Scene) Color() []math.Vec3 { return s.gbuf.Color }

// Image returns the last frame as an 8-bit image.
func (s *Scene) Image() *image.RGBA { return s.gbuf.Image() }

// Stats returns statistics of the last frame.
func (s *Scene) Stats() FrameStats { return s.stats }

// Render draws one frame. It returns once every phase has finished; an
// error means the frame was abandoned (cancelled context or a failed
// worker). The buffers are then undefined until the next successful
// Render, and Stats still describes the last complete frame.
func (s *Scene) Render(ctx context.Context) error {
	f := frame{Scene: s, start: time.Now()}
	f.stats.Frame = s.stats.Frame + 1

	steps := []struct {
		phase Phase
		run   func(context.Context) error
	}{
		{PhaseClear, f.clear},
		{PhaseShadowMaps, f.buildShadowMaps},
		{PhaseClip, f.clipAndProject},
		{PhaseRasterize, f.rasterize},
		{PhasePenumbra, f.penumbraMasks},
		{PhaseShade, f.shade},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scene: %s: %w", step.phase, err)
		}
		t0 := time.Now()
		if err := step.run(ctx); err != nil {
			s.log.Error("render phase failed", zap.Stringer("phase", step.phase), zap.Error(err))
			return fmt.Errorf("scene: %s: %w", step.phase, err)
		}
		f.stats.Phases[step.phase] = time.Since(t0)
	}

	f.stats.Total = time.Since(f.start)
	s.stats = f.stats
	s.log.Debug("frame rendered",
		zap.Uint64("frame", f.stats.Frame),
		zap.Int("triangles", f.stats.Triangles),
		zap.Int64("fragments", f.stats.Fragments),
		zap.Duration("total", f.stats.Total))
	return nil
}

// frame carries the per-render state shared by the phases.
type frame struct {
	*Scene
	start time.Time
	stats FrameStats
}

func (f *frame) clear(context.Context) error {
	f.gbuf.Clear(f.cfg.Background)
	return nil
}

func (f *frame) buildShadowMaps(ctx context.Context) error {
	models := f.Models()
	var bounds model.Bounds
	if f.cfg.FitDirectionalShadows {
		bounds = f.Bounds()
	}
	for _, e := range f.lights {
		if f.cfg.FitDirectionalShadows {
			e.l.FitBounds(bounds)
		}
		if err := e.l.BuildShadowMap(ctx, f.pool, models); err != nil {
			return fmt.Errorf("light %d: %w", e.id, err)
		}
		f.stats.ShadowTriangles += e.l.ShadowTriangles()
	}
	return nil
}

func (f *frame) clipAndProject(context.Context) error {
	tr := f.camera.Transform()
	f.clipper.Reset()
	for _, e := range f.models {
		f.clipper.ClipModel(e.m, tr)
	}
	f.clipper.Project(f.gbuf.Width, f.gbuf.Height)

	cs := f.clipper.Stats()
	f.stats.Input = cs.Input
	f.stats.Culled = cs.Culled
	f.stats.Triangles = cs.Output
	return nil
}

func (f *frame) rasterize(ctx context.Context) error {
	tris := f.clipper.Triangles()
	var fragments atomic.Int64
	err := f.pool.Run(ctx, f.gbuf.Height, func(_ context.Context, sp workers.Span) error {
		band := f.gbuf.Band(sp.Y0, sp.Y1)
		n := 0
		for i := range tris {
			n += raster.DrawGBuffer(band, &tris[i])
		}
		fragments.Add(int64(n))
		return nil
	})
	f.stats.Fragments = fragments.Load()
	return err
}

func (f *frame) penumbraMasks(ctx context.Context) error {
	radius := f.cfg.MaskBlurRadius
	if radius < 0 {
		radius = shadow.BlurRadius(f.gbuf.Width, f.gbuf.Height)
	}
	for _, e := range f.lights {
		if err := e.l.BuildPenumbraMask(ctx, f.pool, f.gbuf); err != nil {
			return fmt.Errorf("light %d: %w", e.id, err)
		}
		if err := e.l.BlurPenumbraMask(ctx, f.pool, radius); err != nil {
			return fmt.Errorf("light %d: %w", e.id, err)
		}
	}
	return nil
}

func (f *frame) shade(ctx context.Context) error {
	lights := f.Lights()
	eye := f.camera.Eye
	return f.pool.Run(ctx, f.gbuf.Height, func(_ context.Context, sp workers.Span) error {
		f.shader.Shade(shader.Target{
			Band:   f.gbuf.Band(sp.Y0, sp.Y1),
			Lights: lights,
			Eye:    eye,
		})
		return nil
	})
}
