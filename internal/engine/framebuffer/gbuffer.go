// Package framebuffer provides the CPU geometry buffer the rasterizer
// writes and the shader reads, and its disjoint row-band views.
package framebuffer

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/midgard-raster/pkg/math"
)

// GBuffer holds one value per pixel for each shading input plus the final
// color. All slices are row-major, row 0 at the top.
type GBuffer struct {
	Width  int
	Height int

	Color    []math.Vec3
	Position []math.Vec3
	Normal   []math.Vec3
	Diffuse  []math.Vec3
	Specular []math.Vec3
	Glow     []math.Vec3
	Depth    []float64
}

// New allocates a width x height G-buffer.
func New(width, height int) *GBuffer {
	g := &GBuffer{}
	g.Resize(width, height)
	return g
}

// Resize reallocates the buffers when the size changes.
func (g *GBuffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if g.Width == width && g.Height == height && g.Depth != nil {
		return
	}
	n := width * height
	g.Width, g.Height = width, height
	g.Color = make([]math.Vec3, n)
	g.Position = make([]math.Vec3, n)
	g.Normal = make([]math.Vec3, n)
	g.Diffuse = make([]math.Vec3, n)
	g.Specular = make([]math.Vec3, n)
	g.Glow = make([]math.Vec3, n)
	g.Depth = make([]float64, n)
}

// Clear resets every pixel: depth to +Inf, color to background and all
// shading inputs to zero.
func (g *GBuffer) Clear(background math.Vec3) {
	inf := gomath.Inf(1)
	for i := range g.Depth {
		g.Depth[i] = inf
		g.Color[i] = background
		g.Position[i] = math.Vec3{}
		g.Normal[i] = math.Vec3{}
		g.Diffuse[i] = math.Vec3{}
		g.Specular[i] = math.Vec3{}
		g.Glow[i] = math.Vec3{}
	}
}

// Covered reports whether pixel i received a fragment this frame.
func (g *GBuffer) Covered(i int) bool {
	return !gomath.IsInf(g.Depth[i], 1)
}

// Index returns the slice index of pixel (x, y).
func (g *GBuffer) Index(x, y int) int {
	return y*g.Width + x
}

// Band returns a view of rows [y0, y1). The view's slices alias the
// buffer, so bands over disjoint row ranges never share a pixel.
func (g *GBuffer) Band(y0, y1 int) Band {
	lo, hi := y0*g.Width, y1*g.Width
	return Band{
		Width:    g.Width,
		Height:   g.Height,
		Y0:       y0,
		Y1:       y1,
		Color:    g.Color[lo:hi:hi],
		Position: g.Position[lo:hi:hi],
		Normal:   g.Normal[lo:hi:hi],
		Diffuse:  g.Diffuse[lo:hi:hi],
		Specular: g.Specular[lo:hi:hi],
		Glow:     g.Glow[lo:hi:hi],
		Depth:    g.Depth[lo:hi:hi],
	}
}

// Image converts the color buffer to 8-bit RGBA, clamping to [0,1].
func (g *GBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := math.Clamp01(g.Color[g.Index(x, y)])
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(gomath.Round(c[0] * 255)),
				G: uint8(gomath.Round(c[1] * 255)),
				B: uint8(gomath.Round(c[2] * 255)),
				A: 255,
			})
		}
	}
	return img
}

// RGB returns the color buffer as packed 8-bit RGB triples, the format
// presenters consume.
func (g *GBuffer) RGB(dst []byte) []byte {
	n := g.Width * g.Height * 3
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, c := range g.Color {
		c = math.Clamp01(c)
		dst[i*3] = uint8(gomath.Round(c[0] * 255))
		dst[i*3+1] = uint8(gomath.Round(c[1] * 255))
		dst[i*3+2] = uint8(gomath.Round(c[2] * 255))
	}
	return dst
}
