// Package shadow provides CPU shadow mapping: light-space depth maps, the
// DIRECT, PCF and PCSS visibility kernels and the penumbra mask used to
// decide where the expensive soft-shadow kernel is needed.
//
// Depth maps store the positive linear distance of the nearest surface
// along the light's view axis. Maps are cleared to +Inf and keep the
// minimum, the same convention as the camera z-buffer.
package shadow

import gomath "math"

// DefaultResolution is the default depth map resolution.
const DefaultResolution = 2048

// Map is a light-space depth map.
type Map struct {
	Width  int
	Height int
	Depth  []float64
}

// NewMap creates a width x height depth map. Non-positive sizes fall back
// to DefaultResolution.
func NewMap(width, height int) *Map {
	m := &Map{}
	m.Resize(width, height)
	return m
}

// Resize reallocates the map when its size changes.
func (m *Map) Resize(width, height int) {
	if width <= 0 {
		width = DefaultResolution
	}
	if height <= 0 {
		height = DefaultResolution
	}
	if m.Width == width && m.Height == height && m.Depth != nil {
		return
	}
	m.Width, m.Height = width, height
	m.Depth = make([]float64, width*height)
}

// Clear marks every texel as empty.
func (m *Map) Clear() {
	inf := gomath.Inf(1)
	for i := range m.Depth {
		m.Depth[i] = inf
	}
}

// At returns the stored depth at (x, y), clamping to the map edges.
func (m *Map) At(x, y int) float64 {
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	return m.Depth[y*m.Width+x]
}

// Band returns a writable view of rows [y0, y1).
func (m *Map) Band(y0, y1 int) Band {
	lo, hi := y0*m.Width, y1*m.Width
	return Band{Width: m.Width, Y0: y0, Y1: y1, Depth: m.Depth[lo:hi:hi]}
}

// Band is a disjoint row range of a depth map, handed to one worker.
type Band struct {
	Width  int
	Y0, Y1 int
	Depth  []float64
}

// Index returns the band-local index of absolute texel (x, y).
func (b Band) Index(x, y int) int {
	return (y-b.Y0)*b.Width + x
}
