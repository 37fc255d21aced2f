// Package shader provides the deferred shading strategies. A shader reads
// the G-buffer inputs of one row band and writes the band's final color.
package shader

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-raster/internal/engine/lighting"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Target is the work handed to a shader: one G-buffer band plus the
// read-only frame inputs.
type Target struct {
	Band   framebuffer.Band
	Lights []*lighting.Light
	Eye    math.Vec3
}

// Shader computes final colors for the covered pixels of a band. Shade is
// called concurrently for disjoint bands and must write only Band.Color.
type Shader interface {
	Shade(t Target)
}

// New returns the shader registered under name.
func New(name string) (Shader, error) {
	switch name {
	case "", "blinn_phong", "blinn-phong":
		return NewBlinnPhong(), nil
	case "unlit":
		return Unlit{}, nil
	case "normals":
		return Normals{}, nil
	}
	return nil, fmt.Errorf("unknown shader %q", name)
}

// AmbientMode controls how the ambient term scales with the light count.
type AmbientMode int

const (
	// AmbientPerPixel adds the ambient term once per covered pixel.
	AmbientPerPixel AmbientMode = iota
	// AmbientPerLight adds it once per light, so a scene with n lights
	// gets n times the ambient contribution.
	AmbientPerLight
)

// ParseAmbientMode returns the mode with the given name.
func ParseAmbientMode(s string) (AmbientMode, error) {
	switch s {
	case "", "per_pixel":
		return AmbientPerPixel, nil
	case "per_light":
		return AmbientPerLight, nil
	}
	return 0, fmt.Errorf("unknown ambient mode %q", s)
}

// String returns the mode name.
func (m AmbientMode) String() string {
	if m == AmbientPerLight {
		return "per_light"
	}
	return "per_pixel"
}

// BlinnPhong is the default shader: emissive glow, ambient, Lambert
// diffuse and Blinn-Phong specular, with per-light shadow visibility.
type BlinnPhong struct {
	Ambient   float64 // ambient factor applied to the albedo
	Shininess float64 // specular exponent
	Mode      AmbientMode
}

// NewBlinnPhong returns the shader with its default constants.
func NewBlinnPhong() *BlinnPhong {
	return &BlinnPhong{Ambient: 0.05, Shininess: 150}
}

// Shade implements Shader.
func (s *BlinnPhong) Shade(t Target) {
	b := t.Band
	for y := b.Y0; y < b.Y1; y++ {
		for x := 0; x < b.Width; x++ {
			i := b.Index(x, y)
			if !b.Covered(i) {
				continue
			}
			b.Color[i] = math.Clamp01(s.shadePixel(t, x, y, i))
		}
	}
}

func (s *BlinnPhong) shadePixel(t Target, x, y, i int) math.Vec3 {
	b := t.Band
	p := b.Position[i]
	n := b.Normal[i]
	kd := b.Diffuse[i]
	ks := b.Specular[i]
	ambient := kd.Mul(s.Ambient)
	view := math.Normalize(t.Eye.Sub(p))

	c := b.Glow[i]
	if s.Mode == AmbientPerPixel {
		c = c.Add(ambient)
	}
	for _, l := range t.Lights {
		if s.Mode == AmbientPerLight {
			c = c.Add(ambient)
		}

		method := lighting.Direct
		if l.InPenumbraMask(x, y) {
			method = l.Shadow.Filter
		}
		vis := l.Visibility(p, n, method)
		if vis <= math.Epsilon {
			continue
		}

		ld := l.WorldLightDir(p)
		li := l.WorldLightIntensity(p)
		h := math.Normalize(view.Add(ld))

		diffuse := math.Hadamard(kd, li).Mul(gomath.Max(0, n.Dot(ld)))
		specular := math.Hadamard(ks, li).Mul(gomath.Pow(gomath.Max(0, n.Dot(h)), s.Shininess))
		c = c.Add(diffuse.Add(specular).Mul(vis))
	}
	return c
}

// Unlit writes albedo plus glow, ignoring lights.
type Unlit struct{}

// Shade implements Shader.
func (Unlit) Shade(t Target) {
	b := t.Band
	for i := range b.Color {
		if b.Covered(i) {
			b.Color[i] = math.Clamp01(b.Diffuse[i].Add(b.Glow[i]))
		}
	}
}

// Normals visualizes world-space normals mapped to [0, 1].
type Normals struct{}

// Shade implements Shader.
func (Normals) Shade(t Target) {
	b := t.Band
	for i := range b.Color {
		if b.Covered(i) {
			b.Color[i] = math.Clamp01(b.Normal[i].Add(math.Vec3{1, 1, 1}).Mul(0.5))
		}
	}
}
