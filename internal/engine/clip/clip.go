// Package clip turns model triangles into screen-ready triangles: backface
// culling in view space, Sutherland-Hodgman clipping against the six
// homogeneous frustum planes, fan re-triangulation and viewport mapping.
package clip

import (
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Transform describes the camera a batch is clipped for.
type Transform struct {
	MVP math.Mat4 // world to clip space
	MV  math.Mat4 // world to view space

	// Ortho marks a parallel projection: view rays all point down -Z
	// instead of passing through the eye.
	Ortho bool
}

// Vertex is a vertex carrying every attribute the rasterizer interpolates.
type Vertex struct {
	World  math.Vec3
	Normal math.Vec3
	Color  math.Vec3
	UV     math.Vec2

	Clip      math.Vec4 // homogeneous clip-space position
	ViewDepth float64   // -z in view space, positive in front of the camera

	// Screen is (sx, sy, depth) after Project. sy grows downwards and
	// depth is NDC z remapped to [0, 1].
	Screen math.Vec3
}

func lerpVertex(a, b Vertex, t float64) Vertex {
	return Vertex{
		World:     math.Lerp3(a.World, b.World, t),
		Normal:    math.Normalize(math.Lerp3(a.Normal, b.Normal, t)),
		Color:     math.Lerp3(a.Color, b.Color, t),
		UV:        math.Lerp2(a.UV, b.UV, t),
		Clip:      math.Lerp4(a.Clip, b.Clip, t),
		ViewDepth: math.Lerp(a.ViewDepth, b.ViewDepth, t),
	}
}

// Triangle is a clipped triangle plus the per-triangle data the
// rasterizer needs: the tangent frame for normal mapping and the texture
// set of the model it came from.
type Triangle struct {
	V [3]Vertex

	Tangent    math.Vec3
	Bitangent  math.Vec3
	HasTangent bool

	Textures model.Textures
}

// ToScreen maps a clip-space position to (sx, sy, depth) for a
// width x height viewport. Row 0 is the top of the image.
func ToScreen(c math.Vec4, width, height int) math.Vec3 {
	inv := 1 / c[3]
	return math.Vec3{
		(c[0]*inv + 1) * 0.5 * float64(width),
		(1 - c[1]*inv) * 0.5 * float64(height),
		(c[2]*inv + 1) * 0.5,
	}
}

// Inside reports whether a clip-space position lies in the view volume.
func Inside(c math.Vec4) bool {
	w := c[3]
	return c[0] >= -w && c[0] <= w &&
		c[1] >= -w && c[1] <= w &&
		c[2] >= -w && c[2] <= w
}

// tangentFrame derives the tangent and bitangent of a triangle from the
// 2x2 system relating its position edges to its UV edges.
func tangentFrame(tri *model.Triangle) (t, b math.Vec3, ok bool) {
	e1 := tri.V[1].Position.Sub(tri.V[0].Position)
	e2 := tri.V[2].Position.Sub(tri.V[0].Position)
	d1 := tri.V[1].UV.Sub(tri.V[0].UV)
	d2 := tri.V[2].UV.Sub(tri.V[0].UV)

	det := d1[0]*d2[1] - d2[0]*d1[1]
	if det > -math.Epsilon*math.Epsilon && det < math.Epsilon*math.Epsilon {
		return t, b, false
	}
	inv := 1 / det
	t = e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(inv)
	b = e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(inv)
	return math.Normalize(t), math.Normalize(b), true
}
