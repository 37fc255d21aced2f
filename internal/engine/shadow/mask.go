package shadow

import "github.com/Faultbox/midgard-raster/pkg/math"

// MaskCell is the side of the square block of image pixels covered by one
// penumbra mask cell.
const MaskCell = 4

// Mask is a coarse map of image regions near a hard-shadow boundary.
// A cell is 1 when its pixel block mixes lit and shadowed fragments and 0
// otherwise; blurring then spreads the boundary outwards.
type Mask struct {
	Width  int // cells
	Height int // cells
	Cells  []float64

	scratch []float64
}

// MaskSize returns the mask dimensions for an image of the given size.
func MaskSize(imageWidth, imageHeight int) (int, int) {
	return (imageWidth + MaskCell - 1) / MaskCell, (imageHeight + MaskCell - 1) / MaskCell
}

// Resize sizes the mask for an image and zeroes it.
func (m *Mask) Resize(imageWidth, imageHeight int) {
	w, h := MaskSize(imageWidth, imageHeight)
	if m.Width != w || m.Height != h || m.Cells == nil {
		m.Width, m.Height = w, h
		m.Cells = make([]float64, w*h)
		m.scratch = make([]float64, w*h)
		return
	}
	clear(m.Cells)
}

// At returns the mask value for image pixel (x, y).
func (m *Mask) At(x, y int) float64 {
	cx := min(max(x/MaskCell, 0), m.Width-1)
	cy := min(max(y/MaskCell, 0), m.Height-1)
	return m.Cells[cy*m.Width+cx]
}

// Contains reports whether image pixel (x, y) falls inside the mask.
func (m *Mask) Contains(x, y int) bool {
	return m.At(x, y) > math.Epsilon
}

// Probe classifies an image pixel: whether it holds a fragment and, if
// so, whether the hard-shadow test finds it lit.
type Probe func(x, y int) (covered, lit bool)

// Band returns a writable view of cell rows [y0, y1).
func (m *Mask) Band(y0, y1 int) MaskBand {
	lo, hi := y0*m.Width, y1*m.Width
	return MaskBand{Width: m.Width, Y0: y0, Y1: y1, Cells: m.Cells[lo:hi:hi]}
}

// MaskBand is a disjoint range of mask rows handed to one worker.
type MaskBand struct {
	Width  int
	Y0, Y1 int
	Cells  []float64
}

// Build classifies every cell of the band from its MaskCell x MaskCell
// pixel block plus the first row and column of the next block, so a shadow
// edge lying on a cell boundary still marks the cell before it. Pixel
// coordinates past the image edge are clamped.
func (b MaskBand) Build(imageWidth, imageHeight int, probe Probe) {
	for cy := b.Y0; cy < b.Y1; cy++ {
		for cx := 0; cx < b.Width; cx++ {
			covered, lit := 0, 0
			for v := cy * MaskCell; v <= (cy+1)*MaskCell; v++ {
				py := min(v, imageHeight-1)
				for u := cx * MaskCell; u <= (cx+1)*MaskCell; u++ {
					c, l := probe(min(u, imageWidth-1), py)
					if !c {
						continue
					}
					covered++
					if l {
						lit++
					}
				}
			}
			cell := 0.0
			if lit != 0 && lit != covered {
				cell = 1
			}
			b.Cells[(cy-b.Y0)*b.Width+cx] = cell
		}
	}
}

// BlurRadius returns the default blur radius for an image size.
func BlurRadius(imageWidth, imageHeight int) int {
	return math.RoundInt(4 * float64(max(imageWidth, imageHeight)) / 1024)
}

// Blur applies a box blur of the given radius, horizontal then vertical.
func (m *Mask) Blur(radius int) {
	m.HorizontalPass(radius, 0, m.Height)
	m.VerticalPass(radius, 0, m.Height)
}

// HorizontalPass blurs rows [y0, y1) of the cells into the scratch buffer.
// Rows are independent, so disjoint row ranges may run concurrently.
func (m *Mask) HorizontalPass(radius, y0, y1 int) {
	if radius <= 0 {
		copy(m.scratch[y0*m.Width:y1*m.Width], m.Cells[y0*m.Width:y1*m.Width])
		return
	}
	inv := 1 / float64(2*radius+1)
	for y := y0; y < y1; y++ {
		src := m.Cells[y*m.Width : (y+1)*m.Width]
		dst := m.scratch[y*m.Width : (y+1)*m.Width]
		for x := range dst {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += src[min(max(x+k, 0), m.Width-1)]
			}
			dst[x] = sum * inv
		}
	}
}

// VerticalPass blurs the scratch buffer back into cell rows [y0, y1).
// It reads every scratch row, so it must start after all horizontal
// passes have finished.
func (m *Mask) VerticalPass(radius, y0, y1 int) {
	if radius <= 0 {
		copy(m.Cells[y0*m.Width:y1*m.Width], m.scratch[y0*m.Width:y1*m.Width])
		return
	}
	inv := 1 / float64(2*radius+1)
	for y := y0; y < y1; y++ {
		dst := m.Cells[y*m.Width : (y+1)*m.Width]
		for x := range dst {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += m.scratch[min(max(y+k, 0), m.Height-1)*m.Width+x]
			}
			dst[x] = sum * inv
		}
	}
}
