package model

import "github.com/Faultbox/midgard-raster/pkg/math"

// face builds two triangles for a rectangle centred at c, spanned by the
// half-extent vectors u and v. The front side faces u x v.
func face(c, u, v math.Vec3, color math.Vec3) [2]Triangle {
	n := math.Normalize(u.Cross(v))
	corner := func(su, sv float64, uv math.Vec2) Vertex {
		return Vertex{
			Position: c.Add(u.Mul(su)).Add(v.Mul(sv)),
			Normal:   n,
			Color:    color,
			UV:       uv,
		}
	}
	v0 := corner(-1, -1, math.Vec2{0, 0})
	v1 := corner(1, -1, math.Vec2{1, 0})
	v2 := corner(1, 1, math.Vec2{1, 1})
	v3 := corner(-1, 1, math.Vec2{0, 1})
	return [2]Triangle{{V: [3]Vertex{v0, v1, v2}}, {V: [3]Vertex{v0, v2, v3}}}
}

// NewQuad returns a width x height rectangle in the XY plane, centred at
// the origin and facing +Z.
func NewQuad(name string, width, height float64, color math.Vec3) *Model {
	m := New(name)
	f := face(math.Vec3{}, math.Vec3{width / 2, 0, 0}, math.Vec3{0, height / 2, 0}, color)
	m.AddTriangles(f[:]...)
	return m
}

// NewBox returns an axis-aligned box with the given edge lengths, centred
// at the origin, with outward-facing sides.
func NewBox(name string, size math.Vec3, color math.Vec3) *Model {
	m := New(name)
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	sides := []struct{ c, u, v math.Vec3 }{
		{math.Vec3{0, 0, hz}, math.Vec3{hx, 0, 0}, math.Vec3{0, hy, 0}},
		{math.Vec3{0, 0, -hz}, math.Vec3{-hx, 0, 0}, math.Vec3{0, hy, 0}},
		{math.Vec3{hx, 0, 0}, math.Vec3{0, 0, -hz}, math.Vec3{0, hy, 0}},
		{math.Vec3{-hx, 0, 0}, math.Vec3{0, 0, hz}, math.Vec3{0, hy, 0}},
		{math.Vec3{0, hy, 0}, math.Vec3{hx, 0, 0}, math.Vec3{0, 0, -hz}},
		{math.Vec3{0, -hy, 0}, math.Vec3{hx, 0, 0}, math.Vec3{0, 0, hz}},
	}
	for _, s := range sides {
		f := face(s.c, s.u, s.v, color)
		m.AddTriangles(f[:]...)
	}
	return m
}
