// Package picking provides ray casting against scene models, used to find
// what lies under a pixel.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float64, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	unproject := func(z float64) math.Vec3 {
		p := invViewProj.Mul4x1(math.Vec4{ndcX, ndcY, z, 1})
		if p[3] != 0 {
			return p.Vec3().Mul(1 / p[3])
		}
		return p.Vec3()
	}
	near := unproject(-1)
	far := unproject(1)
	return Ray{Origin: near, Direction: math.Normalize(far.Sub(near))}
}

// IntersectAABB tests ray intersection with a bounding box. It returns
// the entry distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectAABB(box model.Bounds) (t float64, hit bool) {
	if box.Empty() {
		return 0, false
	}
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance to the front or back face of tri
// (Moller-Trumbore).
func (r Ray) IntersectTriangle(tri *model.Triangle) (t float64, hit bool) {
	p0, p1, p2 := tri.V[0].Position, tri.V[1].Position, tri.V[2].Position
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	pv := r.Direction.Cross(e2)
	det := e1.Dot(pv)
	if gomath.Abs(det) < 1e-12 {
		return 0, false // Ray parallel to the plane
	}
	inv := 1 / det

	tv := r.Origin.Sub(p0)
	u := tv.Dot(pv) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qv := tv.Cross(e1)
	v := r.Direction.Dot(qv) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(qv) * inv
	return t, t > 0
}

// Hit describes the closest intersection found by Pick.
type Hit struct {
	Index int          // index of the top-level model
	Model *model.Model // top-level model
	Node  *model.Model // node owning the triangle
	T     float64
	Point math.Vec3
}

// Pick returns the closest triangle hit among models. Subtrees whose
// bounds the ray misses are skipped.
func Pick(models []*model.Model, r Ray) (Hit, bool) {
	best := Hit{T: gomath.Inf(1)}
	found := false
	for i, m := range models {
		if _, ok := r.IntersectAABB(m.Bounds()); !ok {
			continue
		}
		m.Walk(func(node *model.Model, _ model.Textures) {
			tris := node.Triangles()
			for k := range tris {
				t, ok := r.IntersectTriangle(&tris[k])
				if ok && t < best.T {
					best = Hit{Index: i, Model: m, Node: node, T: t}
					found = true
				}
			}
		})
	}
	if found {
		best.Point = r.At(best.T)
	}
	return best, found
}
