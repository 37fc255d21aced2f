package lighting

import (
	"context"
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/internal/engine/raster"
	"github.com/Faultbox/midgard-raster/internal/engine/shadow"
	"github.com/Faultbox/midgard-raster/internal/engine/workers"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Spiral sampling only pays off above these kernel radii.
const (
	spotSpiralMin        = 2
	directionalSpiralMin = 6
)

// BuildShadowMap renders every model from the light into its depth map.
// Geometry is clipped and projected with the light's own transform, then
// rasterized by row bands on the pool. Disabled shadows build nothing.
func (l *Light) BuildShadowMap(ctx context.Context, pool *workers.Pool, models []*model.Model) error {
	l.ready = false
	if !l.Shadow.Enabled {
		return nil
	}
	l.depth.Resize(l.Shadow.Width, l.Shadow.Height)
	l.depth.Clear()
	l.updateFactors()

	tr := l.Transform()
	l.view, l.mvp = tr.MV, tr.MVP

	l.clipper.Reset()
	for _, m := range models {
		l.clipper.ClipModel(m, tr)
	}
	l.clipper.Project(l.depth.Width, l.depth.Height)
	tris := l.clipper.Triangles()

	err := pool.Run(ctx, l.depth.Height, func(_ context.Context, s workers.Span) error {
		band := l.depth.Band(s.Y0, s.Y1)
		for i := range tris {
			raster.DrawDepth(band, &tris[i])
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.ready = true
	return nil
}

// ShadowTriangles returns the number of triangles in the last shadow pass.
func (l *Light) ShadowTriangles() int {
	return l.clipper.Stats().Output
}

// DepthMap returns the light's depth map, valid after BuildShadowMap.
func (l *Light) DepthMap() *shadow.Map { return &l.depth }

// project maps a world point into the depth map. ok is false when the
// point lies outside the light's view volume.
func (l *Light) project(p, n math.Vec3) (s shadow.Sample, ok bool) {
	c := l.mvp.Mul4x1(p.Vec4(1))
	if !clip.Inside(c) {
		return s, false
	}
	sc := clip.ToScreen(c, l.depth.Width, l.depth.Height)
	s.X = math.ClampInt(int(sc[0]), 0, l.depth.Width-1)
	s.Y = math.ClampInt(int(sc[1]), 0, l.depth.Height-1)
	s.Depth = -math.TransformPoint(l.view, p)[2]
	s.Bias = l.bias(p, n, s.Depth)
	return s, true
}

// bias is the depth tolerance of a receiver. Spot lights scale it with
// slope, distance and texel footprint; directional lights use the slope
// of the receiver relative to the texel size.
func (l *Light) bias(p, n math.Vec3, depth float64) float64 {
	ndotl := n.Dot(l.WorldLightDir(p))
	if l.Kind == Directional {
		cos := gomath.Max(gomath.Abs(ndotl), math.Epsilon)
		tan := gomath.Sqrt(gomath.Max(0, 1-cos*cos)) / cos
		return gomath.Max(0.05, tan*gomath.Sqrt2*l.pixelRadius)
	}
	slope := gomath.Max(0.2, 1-gomath.Max(0, ndotl))
	return slope * l.Shadow.BiasScale * l.fovFactor * depth * 512 * l.pixelRadius
}

func (l *Light) kernel(radius int, accel bool) shadow.Kernel {
	spiralMin := spotSpiralMin
	if l.Kind == Directional {
		spiralMin = directionalSpiralMin
	}
	return shadow.Kernel{
		Radius:      radius,
		Accelerated: accel,
		SpiralMin:   spiralMin,
		Samples:     l.Shadow.Samples,
		Clump:       l.Shadow.Clump,
	}
}

// soft returns the PCSS configuration for a receiver at depth.
func (l *Light) soft(depth float64) shadow.Soft {
	p := shadow.Soft{Filter: l.kernel(0, l.Shadow.PCFAccel)}
	if l.Kind == Directional {
		lsd := 2 * gomath.Tan(math.Radians(l.AngularDiameter)/2)
		p.Search = l.kernel(max(1, int(2.5*lsd/l.pixelRadius)), l.Shadow.PCSSAccel)
		p.Radius = func(receiver, blocker float64) int {
			penumbra := (receiver - blocker) * lsd
			return math.RoundInt(0.25 * penumbra / l.pixelRadius)
		}
		return p
	}
	search := math.RoundInt((depth - 1) / depth * 0.5 * l.Shadow.LightSize / l.fovFactor / l.pixelRadius / 32)
	p.Search = l.kernel(max(1, search), l.Shadow.PCSSAccel)
	p.Radius = func(receiver, blocker float64) int {
		penumbra := (receiver - blocker) / blocker * l.Shadow.LightSize
		return math.RoundInt(0.5 * penumbra / receiver / l.fovFactor / l.pixelRadius)
	}
	return p
}

// Visibility returns how much of the light reaches point p with surface
// normal n, in [0, 1]. Points outside the light's view volume are dark,
// except for PCSS on a directional light, which treats them as lit.
func (l *Light) Visibility(p, n math.Vec3, method Method) float64 {
	if !l.Shadow.Enabled || !l.ready {
		return 1
	}
	s, ok := l.project(p, n)
	if !ok {
		if method == PCSS && l.Kind == Directional {
			return 1
		}
		return 0
	}
	switch method {
	case PCF:
		return shadow.PCF(&l.depth, s, l.kernel(l.Shadow.PCFRadius, l.Shadow.PCFAccel))
	case PCSS:
		return shadow.PCSS(&l.depth, s, l.soft(s.Depth))
	default:
		return shadow.Direct(&l.depth, s)
	}
}

func (l *Light) maskActive() bool {
	return l.Shadow.Enabled && l.Shadow.PenumbraMask
}

// InPenumbraMask reports whether image pixel (x, y) needs the soft shadow
// filter. Without a mask every pixel does.
func (l *Light) InPenumbraMask(x, y int) bool {
	if !l.maskActive() || l.mask.Cells == nil {
		return true
	}
	return l.mask.Contains(x, y)
}

// PenumbraMask returns the light's mask, valid after BuildPenumbraMask.
func (l *Light) PenumbraMask() *shadow.Mask { return &l.mask }

// BuildPenumbraMask marks the mask cells whose pixel blocks in g (with a
// one pixel overlap into the next block) mix lit and shadowed fragments
// under the hard test. Cell rows are split across the pool.
func (l *Light) BuildPenumbraMask(ctx context.Context, pool *workers.Pool, g *framebuffer.GBuffer) error {
	if !l.maskActive() {
		return nil
	}
	l.mask.Resize(g.Width, g.Height)
	probe := func(x, y int) (bool, bool) {
		i := g.Index(x, y)
		if !g.Covered(i) {
			return false, false
		}
		return true, l.Visibility(g.Position[i], g.Normal[i], Direct) > math.Epsilon
	}
	return pool.Run(ctx, l.mask.Height, func(_ context.Context, s workers.Span) error {
		l.mask.Band(s.Y0, s.Y1).Build(g.Width, g.Height, probe)
		return nil
	})
}

// BlurPenumbraMask dilates the mask with a separable box blur. The
// horizontal pass completes on every worker before the vertical pass
// starts.
func (l *Light) BlurPenumbraMask(ctx context.Context, pool *workers.Pool, radius int) error {
	if !l.maskActive() || l.mask.Cells == nil {
		return nil
	}
	h := l.mask.Height
	if err := pool.Run(ctx, h, func(_ context.Context, s workers.Span) error {
		l.mask.HorizontalPass(radius, s.Y0, s.Y1)
		return nil
	}); err != nil {
		return err
	}
	return pool.Run(ctx, h, func(_ context.Context, s workers.Span) error {
		l.mask.VerticalPass(radius, s.Y0, s.Y1)
		return nil
	})
}
