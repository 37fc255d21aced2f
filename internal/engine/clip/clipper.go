package clip

import (
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Stats counts what happened to the triangles of the last batch.
type Stats struct {
	Input  int // triangles submitted
	Culled int // rejected as back faces
	Output int // triangles produced after clipping
}

// Clipper clips whole models into a reusable triangle batch. Its scratch
// polygons and output slice are kept across frames so a steady-state
// frame allocates nothing. A Clipper is not safe for concurrent use.
type Clipper struct {
	tris  []Triangle
	poly  []Vertex
	spare []Vertex
	stats Stats
}

// Reset empties the batch, keeping its storage.
func (c *Clipper) Reset() {
	c.tris = c.tris[:0]
	c.stats = Stats{}
}

// Triangles returns the current batch. The slice is overwritten by the
// next Reset and ClipModel.
func (c *Clipper) Triangles() []Triangle { return c.tris }

// Stats returns counters for the batch since the last Reset.
func (c *Clipper) Stats() Stats { return c.stats }

// ClipModel clips every triangle of m and its descendants and appends the
// results to the batch. Children use their own texture bindings with
// empty slots inherited from their ancestors.
func (c *Clipper) ClipModel(m *model.Model, tr Transform) {
	m.Walk(func(node *model.Model, tex model.Textures) {
		tris := node.Triangles()
		for i := range tris {
			c.clipTriangle(&tris[i], tr, tex)
		}
	})
}

// Project maps every triangle of the batch to a width x height viewport.
func (c *Clipper) Project(width, height int) {
	for i := range c.tris {
		for k := range c.tris[i].V {
			v := &c.tris[i].V[k]
			v.Screen = ToScreen(v.Clip, width, height)
		}
	}
}

// ClipTriangle clips a single triangle. It is equivalent to clipping a
// one-triangle model and is mostly useful in tests.
func ClipTriangle(tri model.Triangle, tr Transform) []Triangle {
	var c Clipper
	c.clipTriangle(&tri, tr, model.Textures{})
	return c.tris
}

func (c *Clipper) clipTriangle(tri *model.Triangle, tr Transform, tex model.Textures) {
	c.stats.Input++

	var view [3]math.Vec3
	for i := range view {
		view[i] = math.TransformPoint(tr.MV, tri.V[i].Position)
	}
	if backFacing(view, tr.Ortho) {
		c.stats.Culled++
		return
	}

	poly := c.poly[:0]
	for i, v := range tri.V {
		poly = append(poly, Vertex{
			World:     v.Position,
			Normal:    v.Normal,
			Color:     v.Color,
			UV:        v.UV,
			Clip:      tr.MVP.Mul4x1(v.Position.Vec4(1)),
			ViewDepth: -view[i][2],
		})
	}

	spare := c.spare[:0]
	for _, p := range planes {
		spare = clipPolygon(poly, spare[:0], p)
		poly, spare = spare, poly
		if len(poly) < 3 {
			break
		}
	}
	c.poly, c.spare = poly, spare
	if len(poly) < 3 {
		return
	}

	out := Triangle{Textures: tex}
	if tex[model.SlotNormal] != nil {
		out.Tangent, out.Bitangent, out.HasTangent = tangentFrame(tri)
	}
	for i := 1; i+1 < len(poly); i++ {
		out.V = [3]Vertex{poly[0], poly[i], poly[i+1]}
		c.tris = append(c.tris, out)
		c.stats.Output++
	}
}

// backFacing reports whether the view-space triangle faces away from the
// viewer. The face normal is (v1-v0) x (v2-v1); the triangle is dropped
// when it points along the view ray to any of its vertices. Degenerate
// triangles have a zero normal and are dropped too.
func backFacing(v [3]math.Vec3, ortho bool) bool {
	n := v[1].Sub(v[0]).Cross(v[2].Sub(v[1]))
	if ortho {
		return -n[2] >= 0
	}
	for _, p := range v {
		if n.Dot(p) >= 0 {
			return true
		}
	}
	return false
}

// plane is one half-space of the view volume: component axis of the clip
// position compared against +w (sign 1) or -w (sign -1).
type plane struct {
	axis int
	sign float64
}

// planes lists the half-spaces in the order they are applied.
var planes = [6]plane{
	{2, 1}, {2, -1},
	{1, 1}, {1, -1},
	{0, 1}, {0, -1},
}

// dist is positive inside the half-space and zero on its boundary.
func (p plane) dist(c math.Vec4) float64 {
	return c[3] - p.sign*c[p.axis]
}

// clipPolygon clips a convex polygon against one half-space and appends
// the result to dst. Crossing edges are split at t = d_in / (d_in - d_out).
func clipPolygon(src, dst []Vertex, p plane) []Vertex {
	n := len(src)
	if n < 3 {
		return dst
	}
	prev := src[n-1]
	prevDist := p.dist(prev.Clip)
	for _, cur := range src {
		curDist := p.dist(cur.Clip)
		switch {
		case curDist >= 0 && prevDist >= 0:
			dst = append(dst, cur)
		case curDist >= 0:
			dst = append(dst, lerpVertex(prev, cur, prevDist/(prevDist-curDist)))
			dst = append(dst, cur)
		case prevDist >= 0:
			dst = append(dst, lerpVertex(prev, cur, prevDist/(prevDist-curDist)))
		}
		prev, prevDist = cur, curDist
	}
	return dst
}
