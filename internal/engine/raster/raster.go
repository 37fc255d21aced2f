// Package raster scan-converts clipped triangles. Fragments are found with
// edge functions at pixel centres and attributes are interpolated with
// perspective-correct barycentric weights. Every writer takes a row band
// and touches only pixels inside it, so disjoint bands can be rasterized
// concurrently.
package raster

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Weights are the barycentric weights of a fragment.
type Weights struct {
	Screen [3]float64 // linear in screen space
	Persp  [3]float64 // perspective-corrected, sum to 1
}

// edge is twice the signed area of (a, b, p).
func edge(a, b math.Vec3, px, py float64) float64 {
	return (b[0]-a[0])*(py-a[1]) - (b[1]-a[1])*(px-a[0])
}

// Fragments calls fn for every pixel centre of rows [y0, y1) and columns
// [0, width) covered by tri. Weights are normalized by the signed area,
// so either winding rasterizes; a pixel is covered when all three weights
// are at least -Epsilon. Triangles with near-zero area produce nothing.
func Fragments(tri *clip.Triangle, width, y0, y1 int, fn func(x, y int, w Weights)) {
	p0, p1, p2 := tri.V[0].Screen, tri.V[1].Screen, tri.V[2].Screen

	area := edge(p0, p1, p2[0], p2[1])
	if gomath.Abs(area) < math.Epsilon {
		return
	}
	inv := 1 / area

	minX := gomath.Min(p0[0], gomath.Min(p1[0], p2[0]))
	maxX := gomath.Max(p0[0], gomath.Max(p1[0], p2[0]))
	minY := gomath.Min(p0[1], gomath.Min(p1[1], p2[1]))
	maxY := gomath.Max(p0[1], gomath.Max(p1[1], p2[1]))

	x0 := max(int(gomath.Floor(minX)), 0)
	x1 := min(int(gomath.Ceil(maxX)), width-1)
	ys := max(int(gomath.Floor(minY)), y0)
	ye := min(int(gomath.Ceil(maxY)), y1-1)

	iw := [3]float64{1 / tri.V[0].Clip[3], 1 / tri.V[1].Clip[3], 1 / tri.V[2].Clip[3]}

	for y := ys; y <= ye; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5

			b0 := edge(p1, p2, px, py) * inv
			b1 := edge(p2, p0, px, py) * inv
			b2 := 1 - b0 - b1
			if b0 < -math.Epsilon || b1 < -math.Epsilon || b2 < -math.Epsilon {
				continue
			}

			var w Weights
			w.Screen = [3]float64{b0, b1, b2}
			c0, c1, c2 := b0*iw[0], b1*iw[1], b2*iw[2]
			s := c0 + c1 + c2
			if s == 0 {
				continue
			}
			w.Persp = [3]float64{c0 / s, c1 / s, c2 / s}
			fn(x, y, w)
		}
	}
}
