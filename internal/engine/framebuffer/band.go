package framebuffer

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Band is a mutable view of a contiguous range of G-buffer rows.
// Coordinates passed to its methods are absolute image coordinates.
type Band struct {
	Width  int
	Height int // full image height
	Y0, Y1 int // rows [Y0, Y1)

	Color    []math.Vec3
	Position []math.Vec3
	Normal   []math.Vec3
	Diffuse  []math.Vec3
	Specular []math.Vec3
	Glow     []math.Vec3
	Depth    []float64
}

// Index returns the band-local slice index of absolute pixel (x, y).
func (b Band) Index(x, y int) int {
	return (y-b.Y0)*b.Width + x
}

// Contains reports whether row y belongs to the band.
func (b Band) Contains(y int) bool {
	return y >= b.Y0 && y < b.Y1
}

// Covered reports whether band-local pixel i received a fragment.
func (b Band) Covered(i int) bool {
	return !gomath.IsInf(b.Depth[i], 1)
}
