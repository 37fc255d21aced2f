package raster

import (
	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/shadow"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// DrawDepth rasterizes tri into a shadow map band, keeping the smallest
// view distance per texel.
func DrawDepth(b shadow.Band, tri *clip.Triangle) {
	v := &tri.V
	Fragments(tri, b.Width, b.Y0, b.Y1, func(x, y int, w Weights) {
		d := math.Blend(v[0].ViewDepth, v[1].ViewDepth, v[2].ViewDepth, w.Persp)
		if i := b.Index(x, y); d < b.Depth[i] {
			b.Depth[i] = d
		}
	})
}
