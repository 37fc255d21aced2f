package raster

import (
	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// DefaultSpecular is the specular color of surfaces without a specular map.
var DefaultSpecular = math.Vec3{0.8, 0.8, 0.8}

// DrawGBuffer rasterizes tri into the rows of band. The nearest fragment
// wins; surviving fragments write position, normal, diffuse, specular
// and glow. Returns the number of fragments that passed the depth test.
func DrawGBuffer(b framebuffer.Band, tri *clip.Triangle) int {
	v := &tri.V
	tex := &tri.Textures
	diffuse := tex[model.SlotDiffuse]
	specular := tex[model.SlotSpecular]
	glow := tex[model.SlotGlow]
	normalMap := tex[model.SlotNormal]
	if !tri.HasTangent {
		normalMap = nil
	}

	written := 0
	Fragments(tri, b.Width, b.Y0, b.Y1, func(x, y int, w Weights) {
		depth := math.Blend(v[0].Screen[2], v[1].Screen[2], v[2].Screen[2], w.Screen)
		i := b.Index(x, y)
		if !(depth < b.Depth[i]) {
			return
		}
		b.Depth[i] = depth
		written++

		pw := w.Persp
		b.Position[i] = math.Blend3(v[0].World, v[1].World, v[2].World, pw)
		n := math.Normalize(math.Blend3(v[0].Normal, v[1].Normal, v[2].Normal, pw))
		uv := math.Blend2(v[0].UV, v[1].UV, v[2].UV, pw)

		if normalMap != nil {
			n = perturb(n, tri.Tangent, tri.Bitangent, normalMap.Sample(uv))
		}
		b.Normal[i] = n

		if diffuse != nil {
			b.Diffuse[i] = diffuse.Sample(uv)
		} else {
			b.Diffuse[i] = math.Blend3(v[0].Color, v[1].Color, v[2].Color, pw)
		}
		if specular != nil {
			b.Specular[i] = specular.Sample(uv)
		} else {
			b.Specular[i] = DefaultSpecular
		}
		if glow != nil {
			b.Glow[i] = glow.Sample(uv)
		} else {
			b.Glow[i] = math.Vec3{}
		}
	})
	return written
}

// perturb maps a tangent-space normal map sample into world space. The
// triangle tangent is re-orthogonalized against the interpolated normal
// and the bitangent is rebuilt from both, flipped to agree with the
// triangle's own bitangent so mirrored UVs keep their handedness.
func perturb(n, tangent, bitangent, sample math.Vec3) math.Vec3 {
	t := math.Normalize(tangent.Sub(n.Mul(tangent.Dot(n))))
	bt := math.Normalize(n.Cross(t))
	if bt.Dot(bitangent) < 0 {
		bt = bt.Mul(-1)
	}
	ts := math.Normalize(sample.Mul(2).Sub(math.Vec3{1, 1, 1}))
	world := t.Mul(ts[0]).Add(bt.Mul(ts[1])).Add(n.Mul(ts[2]))
	if world.Len() == 0 {
		return n
	}
	return math.Normalize(world)
}
