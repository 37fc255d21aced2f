package shadow

import "github.com/Faultbox/midgard-raster/pkg/math"

// Sample is a receiver point projected into a depth map.
type Sample struct {
	X, Y  int     // centre texel, already clamped to the map
	Depth float64 // receiver distance along the light axis
	Bias  float64 // base depth bias; scaled by ring distance per tap
}

// lit reports whether the receiver is lit through the texel at offset
// (dx, dy). The bias grows with the Chebyshev ring of the offset.
func (s Sample) lit(m *Map, dx, dy int) bool {
	return s.Depth <= m.At(s.X+dx, s.Y+dy)+ringBias(s.Bias, dx, dy)
}

// blocker returns the texel depth when it occludes the receiver.
func (s Sample) blocker(m *Map, dx, dy int) (float64, bool) {
	d := m.At(s.X+dx, s.Y+dy)
	return d, d < s.Depth-ringBias(s.Bias, dx, dy)
}

func ringBias(bias float64, dx, dy int) float64 {
	return float64(max(abs(dx), abs(dy))+1) * bias
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Kernel selects the texels around a receiver that a filter visits.
type Kernel struct {
	Radius int

	// Accelerated replaces the dense (2R+1)^2 grid with Fibonacci spiral
	// samples once Radius reaches SpiralMin.
	Accelerated bool
	SpiralMin   int
	Samples     int     // spiral taps; 0 means math.SpiralSamples
	Clump       float64 // spiral clump exponent; 0 means 1
}

func (k Kernel) spiral() bool {
	return k.Accelerated && k.Radius >= k.SpiralMin
}

// Taps returns the number of texels the kernel visits.
func (k Kernel) Taps() int {
	if k.spiral() {
		return k.samples()
	}
	d := 2*k.Radius + 1
	return d * d
}

func (k Kernel) samples() int {
	if k.Samples <= 0 || k.Samples > math.SpiralSamples {
		return math.SpiralSamples
	}
	return k.Samples
}

func (k Kernel) each(fn func(dx, dy int)) {
	if k.spiral() {
		n := k.samples()
		clump := k.Clump
		if clump <= 0 {
			clump = 1
		}
		r := float64(k.Radius)
		for i := 0; i < n; i++ {
			o := math.SpiralOffset(i, n, clump)
			fn(math.RoundInt(r*o[0]), math.RoundInt(r*o[1]))
		}
		return
	}
	for dy := -k.Radius; dy <= k.Radius; dy++ {
		for dx := -k.Radius; dx <= k.Radius; dx++ {
			fn(dx, dy)
		}
	}
}

// Direct returns 1 when the receiver is lit through its own texel, else 0.
func Direct(m *Map, s Sample) float64 {
	if s.lit(m, 0, 0) {
		return 1
	}
	return 0
}

// PCF returns the fraction of kernel taps through which the receiver is
// lit. A zero-radius dense kernel is exactly Direct.
func PCF(m *Map, s Sample, k Kernel) float64 {
	lit := 0
	k.each(func(dx, dy int) {
		if s.lit(m, dx, dy) {
			lit++
		}
	})
	return float64(lit) / float64(k.Taps())
}

// Blockers returns the sum and count of texel depths inside the kernel
// that lie in front of the receiver.
func Blockers(m *Map, s Sample, k Kernel) (sum float64, n int) {
	k.each(func(dx, dy int) {
		if d, ok := s.blocker(m, dx, dy); ok {
			sum += d
			n++
		}
	})
	return sum, n
}

// Soft configures a PCSS evaluation.
type Soft struct {
	Search Kernel // blocker search window
	Filter Kernel // PCF kernel; Radius is replaced per receiver

	// Radius converts receiver and average blocker depth into a PCF
	// radius in texels.
	Radius func(receiver, blocker float64) int
}

// PCSS estimates the average blocker depth, derives a penumbra-sized
// filter radius from it and runs PCF with that radius. Without blockers,
// or with a degenerate blocker depth, the receiver is fully lit.
func PCSS(m *Map, s Sample, p Soft) float64 {
	sum, n := Blockers(m, s, p.Search)
	if n == 0 {
		return 1
	}
	avg := sum / float64(n)
	if avg < math.Epsilon {
		return 1
	}
	f := p.Filter
	f.Radius = max(1, p.Radius(s.Depth, avg))
	return PCF(m, s, f)
}
