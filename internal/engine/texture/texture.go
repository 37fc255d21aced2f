// Package texture provides immutable decoded pixel grids with bilinear
// sampling, and the decoders that produce them.
package texture

import (
	"fmt"
	"image"
	gomath "math"

	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Texture is a read-only pixel grid shared by models and frames.
// Rows are stored top to bottom; UV v = 0 addresses the bottom row.
type Texture struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

// New wraps raw interleaved pixels. channels must be 1 to 4; only the first
// three are ever read (one or two channels are treated as gray).
func New(width, height, channels int, pix []uint8) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*channels, len(pix))
	}
	return &Texture{width: width, height: height, channels: channels, pix: pix}, nil
}

// FromImage copies img into a texture. Gray images keep a single channel,
// everything else is converted to RGB.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok {
		pix := make([]uint8, w*h)
		for y := 0; y < h; y++ {
			copy(pix[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
		}
		return &Texture{width: w, height: h, channels: 1, pix: pix}
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	pix := make([]uint8, w*h*3)
	for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+3 {
		pix[j] = rgba.Pix[i]
		pix[j+1] = rgba.Pix[i+1]
		pix[j+2] = rgba.Pix[i+2]
	}
	return &Texture{width: w, height: h, channels: 3, pix: pix}
}

// Solid returns a 1x1 texture of color c (components in [0,1]).
func Solid(c math.Vec3) *Texture {
	c = math.Clamp01(c)
	return &Texture{
		width:    1,
		height:   1,
		channels: 3,
		pix: []uint8{
			uint8(gomath.Round(c[0] * 255)),
			uint8(gomath.Round(c[1] * 255)),
			uint8(gomath.Round(c[2] * 255)),
		},
	}
}

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// Channels returns the number of interleaved channels.
func (t *Texture) Channels() int { return t.channels }

// Texel returns the color at column x, row y counted from the bottom.
// Out-of-range coordinates are clamped.
func (t *Texture) Texel(x, y int) math.Vec3 {
	x = math.ClampInt(x, 0, t.width-1)
	y = math.ClampInt(y, 0, t.height-1)
	i := t.channels * (t.width*(t.height-1-y) + x)
	if t.channels < 3 {
		g := float64(t.pix[i]) / 255
		return math.Vec3{g, g, g}
	}
	return math.Vec3{
		float64(t.pix[i]) / 255,
		float64(t.pix[i+1]) / 255,
		float64(t.pix[i+2]) / 255,
	}
}

// Sample returns the bilinear-filtered color at normalized uv.
// uv is clamped to [0,1]; texel centres sit at (i+0.5)/size.
func (t *Texture) Sample(uv math.Vec2) math.Vec3 {
	u := math.Clamp(uv[0], 0, 1)*float64(t.width) - 0.5
	v := math.Clamp(uv[1], 0, 1)*float64(t.height) - 0.5

	x0 := gomath.Floor(u)
	y0 := gomath.Floor(v)
	fx := u - x0
	fy := v - y0
	ix, iy := int(x0), int(y0)

	bottom := math.Lerp3(t.Texel(ix, iy), t.Texel(ix+1, iy), fx)
	top := math.Lerp3(t.Texel(ix, iy+1), t.Texel(ix+1, iy+1), fx)
	return math.Lerp3(bottom, top, fy)
}
